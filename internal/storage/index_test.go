/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"bytes"
	"context"
	"os"
	"testing"
)

func TestUpdateIndexCountsElements(t *testing.T) {
	root := t.TempDir()
	m := sampleManifest()
	ctx := context.Background()
	if err := UpdateIndex(ctx, root, m.Document); err != nil {
		t.Fatalf("UpdateIndex: %v", err)
	}

	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer db.Close()

	counts, err := ElementCounts(ctx, db)
	if err != nil {
		t.Fatalf("ElementCounts: %v", err)
	}
	if counts["O"] != 1 || len(counts) != 1 {
		t.Fatalf("counts %v", counts)
	}
	verts, bonds, arrows, err := Stats(ctx, db)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if verts != 2 || bonds != 1 || arrows != 0 {
		t.Fatalf("stats %d %d %d", verts, bonds, arrows)
	}
}

func TestUpdateIndexIsIdempotentReplace(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	m := sampleManifest()
	if err := UpdateIndex(ctx, root, m.Document); err != nil {
		t.Fatalf("UpdateIndex: %v", err)
	}
	// drop the atom and reindex: histogram must shrink, not accumulate
	m.Document.Vertices[0].Element = ""
	if err := UpdateIndex(ctx, root, m.Document); err != nil {
		t.Fatalf("UpdateIndex 2: %v", err)
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer db.Close()
	counts, err := ElementCounts(ctx, db)
	if err != nil {
		t.Fatalf("ElementCounts: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("stale counts %v", counts)
	}
}

func TestAutosaveRoundTripAndPrune(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	if _, _, ok, err := LatestAutosave(ctx, root); err != nil || ok {
		t.Fatalf("empty index: ok=%v err=%v", ok, err)
	}

	var last []byte
	for i := 0; i < autosaveKeep+5; i++ {
		last = []byte{byte(i)}
		if err := SaveAutosave(ctx, root, last); err != nil {
			t.Fatalf("SaveAutosave %d: %v", i, err)
		}
	}
	blob, ts, ok, err := LatestAutosave(ctx, root)
	if err != nil || !ok {
		t.Fatalf("LatestAutosave: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(blob, last) {
		t.Fatalf("latest blob %v, want %v", blob, last)
	}
	if ts.IsZero() {
		t.Fatalf("timestamp not recorded")
	}

	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM autosaves;").Scan(&n); err != nil {
		t.Fatalf("count autosaves: %v", err)
	}
	if n != autosaveKeep {
		t.Fatalf("autosave count %d, want %d", n, autosaveKeep)
	}
}

func TestDetectAndRebuildOnCorruption(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	m := sampleManifest()
	if err := UpdateIndex(ctx, root, m.Document); err != nil {
		t.Fatalf("UpdateIndex: %v", err)
	}
	if err := os.WriteFile(IndexPath(root), bytes.Repeat([]byte{0xff}, 512), 0o644); err != nil {
		t.Fatalf("corrupt index: %v", err)
	}

	rebuilt, err := DetectAndRebuildIndex(ctx, root, m.Document)
	if err != nil {
		t.Fatalf("DetectAndRebuildIndex: %v", err)
	}
	if !rebuilt {
		t.Fatalf("corruption not detected")
	}
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("open rebuilt index: %v", err)
	}
	defer db.Close()
	counts, err := ElementCounts(ctx, db)
	if err != nil {
		t.Fatalf("ElementCounts: %v", err)
	}
	if counts["O"] != 1 {
		t.Fatalf("rebuilt counts %v", counts)
	}
}
