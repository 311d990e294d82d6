/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"testing"

	osclip "github.com/atotto/clipboard"

	"github.com/natelevy2468/openreactions-sub001/internal/editor"
	"github.com/natelevy2468/openreactions-sub001/internal/geom"
	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
)

func sampleFragment() *editor.Clipboard {
	return &editor.Clipboard{
		Vertices: []editor.ClipVertex{
			{Rel: geom.Pt{X: -30, Y: 0}},
			{Rel: geom.Pt{X: 30, Y: 0}, Atom: &sketch.Atom{Symbol: "O", Charge: -1}},
		},
		Segments: []editor.ClipSegment{
			{A: 0, B: 1, BondOrder: 1, BondType: sketch.BondWedge, BondDirection: 1},
		},
	}
}

func TestClipboardEnvelopeRoundTrip(t *testing.T) {
	frag := sampleFragment()
	b, err := encodeClipboard(frag)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := decodeClipboard(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Vertices) != 2 || len(got.Segments) != 1 {
		t.Fatalf("fragment shape lost: %+v", got)
	}
	if got.Vertices[1].Atom == nil || got.Vertices[1].Atom.Symbol != "O" || got.Vertices[1].Atom.Charge != -1 {
		t.Fatalf("atom annotation lost: %+v", got.Vertices[1].Atom)
	}
	if got.Segments[0].BondType != sketch.BondWedge {
		t.Fatalf("bond type lost: %+v", got.Segments[0])
	}
}

func TestDecodeClipboardRejectsForeignText(t *testing.T) {
	if _, err := decodeClipboard([]byte("hello world")); err == nil {
		t.Fatalf("plain text decoded as a fragment")
	}
	if _, err := decodeClipboard([]byte(`{"app":"other","fragment":null}`)); err == nil {
		t.Fatalf("foreign envelope decoded as a fragment")
	}
}

func TestEncodeClipboardRequiresContent(t *testing.T) {
	if _, err := encodeClipboard(nil); err == nil {
		t.Fatalf("nil clipboard encoded")
	}
}

func TestMirrorRoundTripOS(t *testing.T) {
	if osclip.Unsupported {
		t.Skip("no OS clipboard available")
	}
	if err := MirrorCopy(sampleFragment()); err != nil {
		t.Skipf("clipboard write unavailable: %v", err)
	}
	got, ok := ReadMirror()
	if !ok {
		t.Fatalf("mirror not readable back")
	}
	if len(got.Vertices) != 2 {
		t.Fatalf("mirror lost vertices: %+v", got)
	}
}
