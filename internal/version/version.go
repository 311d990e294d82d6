package version

// Version is the semantic version of the application. Overridden at build
// time via -ldflags "-X .../internal/version.Version=x.y.z".
var Version = "0.3.0-dev"

// String returns the version in a printable form.
func String() string { return "v" + Version }
