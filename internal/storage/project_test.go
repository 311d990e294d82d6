/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/natelevy2468/openreactions-sub001/internal/geom"
	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
)

// sampleManifest builds a manifest holding a single bonded pair with an
// oxygen atom.
func sampleManifest() Manifest {
	sk := sketch.New()
	a := sk.AddVertex(geom.Pt{X: 100, Y: 100}, false)
	b := sk.AddVertex(geom.Pt{X: 100, Y: 160}, false)
	sg, _ := sk.AddSegment(a.ID, b.ID)
	sk.SetBondOrder(sg, 1)
	a.Atom = &sketch.Atom{Symbol: "O", LonePairs: 2}
	sk.Recompute()
	return Manifest{Name: "sample", Document: sk.Encode()}
}

func TestInitAndOpenRoundTrip(t *testing.T) {
	root := t.TempDir()
	h, err := Init(root, sampleManifest())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	for _, d := range standardSubDirs {
		if _, err := os.Stat(filepath.Join(root, d)); err != nil {
			t.Fatalf("missing subdir %s: %v", d, err)
		}
	}

	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.Manifest.Name != "sample" {
		t.Fatalf("name %q", got.Manifest.Name)
	}
	if len(got.Manifest.Document.Vertices) != 2 || len(got.Manifest.Document.Segments) != 1 {
		t.Fatalf("document shape: %d vertices, %d segments",
			len(got.Manifest.Document.Vertices), len(got.Manifest.Document.Segments))
	}
	if got.Manifest.Document.Vertices[0].Element != "O" {
		t.Fatalf("atom lost: %+v", got.Manifest.Document.Vertices[0])
	}
	if h.Manifest.UpdatedAt.IsZero() {
		t.Fatalf("UpdatedAt not stamped")
	}
}

func TestSaveBacksUpPreviousManifest(t *testing.T) {
	root := t.TempDir()
	h, err := Init(root, sampleManifest())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	h.Manifest.Name = "renamed"
	if err := Save(h); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	if len(ents) == 0 {
		t.Fatalf("no backup written")
	}
}

func TestOpenFallsBackToBackupOnCorruption(t *testing.T) {
	root := t.TempDir()
	h, err := Init(root, sampleManifest())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	// second save produces a backup of the valid manifest
	if err := Save(h); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(h.ManifestPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}

	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open after corruption: %v", err)
	}
	if got.Manifest.Name != "sample" {
		t.Fatalf("backup recovery produced %q", got.Manifest.Name)
	}
}

func TestOpenRejectsSchemaViolations(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	// structurally valid JSON that violates the schema (bondOrder 9)
	bad := `{"name":"x","document":{"version":1,"vertices":[{"id":1,"x":0,"y":0}],` +
		`"segments":[{"startVertexRef":1,"endVertexRef":1,"bondOrder":9}]}}`
	if err := os.WriteFile(filepath.Join(root, ManifestFileName), []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(root); err == nil {
		t.Fatalf("schema violation accepted")
	}
}

func TestSaveAsScaffoldsNewRoot(t *testing.T) {
	root := t.TempDir()
	h, err := Init(root, sampleManifest())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	newRoot := filepath.Join(t.TempDir(), "copy")
	if err := SaveAs(h, newRoot); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if h.Root != newRoot {
		t.Fatalf("handle root not updated")
	}
	if _, err := os.Stat(filepath.Join(newRoot, ManifestFileName)); err != nil {
		t.Fatalf("manifest missing in new root: %v", err)
	}
}

func TestBackupOrdering(t *testing.T) {
	// backup names embed a second-resolution timestamp; equal stamps within
	// the same second still recover, they just collapse to one file
	root := t.TempDir()
	h, err := Init(root, sampleManifest())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	h.Manifest.Name = "v2"
	if err := Save(h); err != nil {
		t.Fatalf("Save: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)
	h.Manifest.Name = "v3"
	if err := Save(h); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.Remove(h.ManifestPath); err != nil {
		t.Fatal(err)
	}
	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	// newest backup holds the state before the v3 write, i.e. name "v2"
	if got.Manifest.Name != "v2" {
		t.Fatalf("recovered %q, want v2", got.Manifest.Name)
	}
}
