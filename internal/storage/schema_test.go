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
	"testing"
)

func TestManifestConformsToSchema(t *testing.T) {
	root := t.TempDir()
	h, err := Init(root, sampleManifest())
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	data, err := os.ReadFile(h.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	if err := ValidateManifest(data); err != nil {
		t.Fatalf("written manifest does not validate: %v", err)
	}
}

func TestValidateManifestRejections(t *testing.T) {
	cases := map[string]string{
		"missing document": `{"name":"x"}`,
		"bad bond order":   `{"name":"x","document":{"version":1,"vertices":[],"segments":[{"startVertexRef":1,"endVertexRef":2,"bondOrder":7}]}}`,
		"bad bond type":    `{"name":"x","document":{"version":1,"vertices":[],"segments":[{"startVertexRef":1,"endVertexRef":2,"bondOrder":1,"bondType":"zigzag"}]}}`,
		"bad charge":       `{"name":"x","document":{"version":1,"vertices":[{"id":1,"x":0,"y":0,"charge":3}],"segments":[]}}`,
		"bad arrow kind":   `{"name":"x","document":{"version":1,"vertices":[],"segments":[],"arrows":[{"kind":"loopy"}]}}`,
	}
	for name, doc := range cases {
		if err := ValidateManifest([]byte(doc)); err == nil {
			t.Errorf("%s: accepted", name)
		}
	}
}
