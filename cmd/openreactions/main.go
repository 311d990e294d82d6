/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natelevy2468/openreactions-sub001/internal/backend"
	"github.com/natelevy2468/openreactions-sub001/internal/crash"
	"github.com/natelevy2468/openreactions-sub001/internal/export"
	applog "github.com/natelevy2468/openreactions-sub001/internal/log"
	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
	"github.com/natelevy2468/openreactions-sub001/internal/storage"
	"github.com/natelevy2468/openreactions-sub001/internal/ui"
	"github.com/natelevy2468/openreactions-sub001/internal/version"
)

func usage() {
	fmt.Println("OpenReactions — structure sketcher")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  openreactions version|-v|--version              Show version")
	fmt.Println("  openreactions init <dir> <name>                 Create a new sketch at <dir> with name <name>")
	fmt.Println("  openreactions open <dir>                        Open sketch at <dir> and print summary")
	fmt.Println("  openreactions save <dir>                        Save sketch at <dir> (creates backup)")
	fmt.Println("  openreactions export <dir> <svg|pdf|png> [out]  Render sketch to <dir>/exports or [out]")
	fmt.Println("  openreactions serve                             Run the REST persistence server")
	fmt.Println("  openreactions ui [<dir>]                        Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var sh *storage.SketchHandle
	defer func() { crash.Recover(sh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("OpenReactions — structure sketcher")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			abs, _ := filepath.Abs(dir)
			l.Info("init sketch", slog.String("root", abs), slog.String("name", name))
			s := sketch.New()
			s.GenerateGrid(1200, 800)
			h, err := storage.Init(abs, storage.Manifest{Name: name, Document: s.Encode()})
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			sh = h
			fmt.Println("Created sketch at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open sketch", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			sh = h
			s, err := sketch.Decode(h.Manifest.Document)
			if err != nil {
				l.Error("decode failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Opened sketch: %s\n", h.Manifest.Name)
			fmt.Printf("Vertices: %d\n", len(s.Vertices()))
			fmt.Printf("Segments: %d\n", len(s.Segments()))
			fmt.Printf("Arrows: %d\n", len(s.Arrows()))
			fmt.Println("Root:", h.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("save sketch", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			sh = h
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Saved sketch and created a backup of previous manifest (if any).")
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <dir> and a format (svg, pdf or png)")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			format := strings.ToLower(args[3])
			out := ""
			if len(args) >= 5 {
				out = args[4]
			}
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			sh = h
			if out == "" {
				out = h.Manifest.Name + "." + format
			}
			l.Info("export sketch", slog.String("root", abs), slog.String("format", format), slog.String("out", out))
			var opt export.Options
			switch format {
			case "svg":
				err = export.ExportSketchSVG(h, out, opt)
			case "pdf":
				err = export.ExportSketchPDF(h, out, opt)
			case "png":
				err = export.ExportSketchPNG(h, out, opt)
			default:
				fmt.Println("unknown export format:", format)
				usage()
				os.Exit(2)
			}
			if err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported", format, "to", out)
			return
		case "serve":
			l.Info("serve backend")
			if err := backend.Start(); err != nil {
				l.Error("serve failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
