/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/natelevy2468/openreactions-sub001/internal/geom"
	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
	"github.com/natelevy2468/openreactions-sub001/internal/storage"
)

// sampleSketch builds a hexagonal ring with one double bond, a labeled
// nitrogen carrying a charge and a lone pair, and a straight reaction arrow.
func sampleSketch(t *testing.T) *sketch.Sketch {
	t.Helper()
	s := sketch.New()
	center := geom.Pt{X: 200, Y: 200}
	ids := make([]sketch.VertexID, 6)
	for i := 0; i < 6; i++ {
		ang := (30 + 60*float64(i)) * math.Pi / 180
		p := geom.Pt{X: center.X + sketch.HexRadius*math.Cos(ang), Y: center.Y + sketch.HexRadius*math.Sin(ang)}
		ids[i] = s.AddVertex(p, false).ID
	}
	for i := 0; i < 6; i++ {
		sg, err := s.AddSegment(ids[i], ids[(i+1)%6])
		if err != nil {
			t.Fatalf("add segment: %v", err)
		}
		order := 1
		if i == 0 {
			order = 2
		}
		s.SetBondOrder(sg, order)
	}
	n := s.Vertex(ids[3])
	n.Atom = &sketch.Atom{Symbol: "N", Charge: 1, LonePairs: 1, LonePairOrder: []sketch.LonePairPos{sketch.PosTop}}
	s.AddArrow(&sketch.Arrow{Kind: sketch.ArrowStraight, X1: 320, Y1: 200, X2: 470, Y2: 200})
	s.Recompute()
	return s
}

func sampleHandle(t *testing.T) *storage.SketchHandle {
	t.Helper()
	s := sampleSketch(t)
	h, err := storage.Init(t.TempDir(), storage.Manifest{Name: "Export Test", Document: s.Encode()})
	if err != nil {
		t.Fatalf("init sketch: %v", err)
	}
	return h
}

func TestSceneDoubleBondEmitsTwoLines(t *testing.T) {
	s := sampleSketch(t)
	sc := BuildScene(s, Options{})
	// 5 single bonds, 2 lines for the double bond, 1 arrow shaft.
	if got := len(sc.Lines); got != 8 {
		t.Fatalf("line count = %d, want 8", got)
	}
	// Arrowhead only; no stereo bonds drawn.
	if got := len(sc.Polys); got != 1 {
		t.Fatalf("poly count = %d, want 1", got)
	}
	if got := len(sc.Dots); got != 2 {
		t.Fatalf("lone pair dot count = %d, want 2", got)
	}
	// Element label plus charge glyph.
	if got := len(sc.Texts); got != 2 {
		t.Fatalf("text count = %d, want 2", got)
	}
}

func TestSceneWedgeAndHash(t *testing.T) {
	s := sketch.New()
	a := s.AddVertex(geom.Pt{X: 0, Y: 0}, false)
	b := s.AddVertex(geom.Pt{X: sketch.HexRadius, Y: 0}, false)
	c := s.AddVertex(geom.Pt{X: 0, Y: sketch.HexRadius}, false)
	w, err := s.AddSegment(a.ID, b.ID)
	if err != nil {
		t.Fatalf("add segment: %v", err)
	}
	s.SetBondOrder(w, 1)
	w.BondType = sketch.BondWedge
	w.BondDirection = 1
	d, err := s.AddSegment(a.ID, c.ID)
	if err != nil {
		t.Fatalf("add segment: %v", err)
	}
	s.SetBondOrder(d, 1)
	d.BondType = sketch.BondDash
	d.BondDirection = 1
	s.Recompute()

	sc := BuildScene(s, Options{})
	if got := len(sc.Polys); got != 1 {
		t.Fatalf("wedge poly count = %d, want 1", got)
	}
	if len(sc.Polys[0].Pts) != 3 {
		t.Fatalf("wedge is not a triangle: %d points", len(sc.Polys[0].Pts))
	}
	// The wedge tip sits on the stereocenter end.
	if dist := geom.Dist(sc.Polys[0].Pts[0], a.Pos); dist > 0.01 {
		t.Fatalf("wedge tip %.2f away from stereocenter", dist)
	}
	if len(sc.Lines) < 2 {
		t.Fatalf("hash bond emitted %d rungs, want several", len(sc.Lines))
	}
}

func TestSceneBoundsIncludeMargin(t *testing.T) {
	s := sketch.New()
	a := s.AddVertex(geom.Pt{X: 100, Y: 100}, false)
	b := s.AddVertex(geom.Pt{X: 160, Y: 100}, false)
	sg, err := s.AddSegment(a.ID, b.ID)
	if err != nil {
		t.Fatalf("add segment: %v", err)
	}
	s.SetBondOrder(sg, 1)
	s.Recompute()

	sc := BuildScene(s, Options{Margin: 10})
	if sc.Bounds.X > 90 || sc.Bounds.Y > 90 {
		t.Fatalf("bounds %+v do not include the margin", sc.Bounds)
	}
	if sc.Bounds.Max().X < 170 {
		t.Fatalf("bounds %+v truncate the content", sc.Bounds)
	}
}

func TestSceneSkipsGridLinesByDefault(t *testing.T) {
	s := sketch.New()
	s.GenerateGrid(300, 300)
	sc := BuildScene(s, Options{})
	if len(sc.GridLines) != 0 || len(sc.Lines) != 0 {
		t.Fatalf("empty sketch drew %d grid lines and %d lines", len(sc.GridLines), len(sc.Lines))
	}
	sc = BuildScene(s, Options{IncludeGrid: true})
	if len(sc.GridLines) == 0 {
		t.Fatalf("IncludeGrid drew no grid lines")
	}
}

func TestSketchSVG(t *testing.T) {
	s := sampleSketch(t)
	b, err := SketchSVG(s, Options{DPI: 144})
	if err != nil {
		t.Fatalf("render svg: %v", err)
	}
	if !bytes.Contains(b, []byte("<svg")) || !bytes.Contains(b, []byte("</svg>")) {
		t.Fatalf("svg missing envelope")
	}
	if !bytes.Contains(b, []byte(">N</text>")) {
		t.Fatalf("svg missing nitrogen label")
	}
	if !bytes.Contains(b, []byte("<polygon")) {
		t.Fatalf("svg missing arrowhead polygon")
	}
}

func TestExportSketchSVGFile(t *testing.T) {
	h := sampleHandle(t)
	if err := ExportSketchSVG(h, "out.svg", Options{}); err != nil {
		t.Fatalf("export svg: %v", err)
	}
	path := filepath.Join(h.Root, "exports", "out.svg")
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() <= 0 {
		t.Fatalf("svg empty")
	}
}

func TestExportSketchPDF(t *testing.T) {
	h := sampleHandle(t)
	if err := ExportSketchPDF(h, "out.pdf", Options{}); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	st, err := os.Stat(filepath.Join(h.Root, "exports", "out.pdf"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() <= 0 {
		t.Fatalf("pdf empty")
	}
}

func TestExportSketchPNG(t *testing.T) {
	h := sampleHandle(t)
	if err := ExportSketchPNG(h, "out.png", Options{DPI: 96}); err != nil {
		t.Fatalf("export png: %v", err)
	}
	st, err := os.Stat(filepath.Join(h.Root, "exports", "out.png"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if st.Size() <= 0 {
		t.Fatalf("png empty")
	}
}
