/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"math"
	"testing"

	"github.com/natelevy2468/openreactions-sub001/internal/geom"
	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
)

// spurEditor extends a hexagon with a third segment at corner 0 so that
// corner can reach three single bonds.
func spurEditor(t *testing.T) (*Editor, []*sketch.Vertex, *sketch.Vertex) {
	t.Helper()
	e, c := hexEditor(t)
	sk := e.Sketch()
	a := 30 * math.Pi / 180
	spur := sk.AddVertex(geom.Pt{
		X: c[0].Pos.X + sketch.HexRadius*math.Cos(a),
		Y: c[0].Pos.Y + sketch.HexRadius*math.Sin(a),
	}, false)
	if _, err := sk.AddSegment(c[0].ID, spur.ID); err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	sk.Recompute()
	return e, c, spur
}

func TestAffordanceRequiresThreeSingleBonds(t *testing.T) {
	e, c, spur := spurEditor(t)

	click(e, mid(c[5], c[0]))
	click(e, mid(c[0], c[1]))
	if e.State().Affordances[c[0].ID] {
		t.Fatalf("affordance shown with two bonds")
	}
	click(e, mid(c[0], spur))
	// no atom is assigned anywhere; qualification is bond-pattern only
	if !e.State().Affordances[c[0].ID] {
		t.Fatalf("affordance missing with three single bonds")
	}

	// upgrading one bond to a double disqualifies
	click(e, mid(c[0], c[1]))
	if e.State().Affordances[c[0].ID] {
		t.Fatalf("affordance shown with a double bond")
	}
}

func TestFourthBondDragCommit(t *testing.T) {
	e, c, spur := spurEditor(t)
	click(e, mid(c[5], c[0]))
	click(e, mid(c[0], c[1]))
	click(e, mid(c[0], spur))
	if !e.State().Affordances[c[0].ID] {
		t.Fatalf("no affordance to drag")
	}

	before := len(e.Sketch().Vertices())
	e.PointerDown(Event{Pos: c[0].Pos})
	if e.State().FourthBond == nil {
		t.Fatalf("pointer down on indicator did not start drag")
	}
	e.PointerMove(Event{Pos: geom.Pt{X: c[0].Pos.X + 100, Y: c[0].Pos.Y}})
	e.PointerUp(Event{Pos: geom.Pt{X: c[0].Pos.X + 100, Y: c[0].Pos.Y}})

	if got := len(e.Sketch().Vertices()); got != before+1 {
		t.Fatalf("vertex count %d, want %d", got, before+1)
	}
	nv := e.Sketch().Vertices()[before]
	if d := geom.Dist(nv.Pos, c[0].Pos); math.Abs(d-sketch.HexRadius) > 1e-9 {
		t.Fatalf("new bond length %g, want %g", d, sketch.HexRadius)
	}
	sg := segmentBetween(t, e, c[0], nv)
	if sg.BondOrder != 1 {
		t.Fatalf("new bond order %d", sg.BondOrder)
	}
	if len(e.Sketch().BondsAt(c[0].ID)) != 4 {
		t.Fatalf("source vertex bonds = %d, want 4", len(e.Sketch().BondsAt(c[0].ID)))
	}
	if e.State().Affordances[c[0].ID] {
		t.Fatalf("indicator survived saturation")
	}
	if e.State().PendingAtom != nv.ID {
		t.Fatalf("atom entry not opened on new vertex")
	}
}

func TestFourthBondInheritsStereoMode(t *testing.T) {
	e, c, spur := spurEditor(t)
	click(e, mid(c[5], c[0]))
	click(e, mid(c[0], c[1]))
	click(e, mid(c[0], spur))

	e.SetMode(ModeWedge)
	e.PointerDown(Event{Pos: c[0].Pos})
	target := geom.Pt{X: c[0].Pos.X + 80, Y: c[0].Pos.Y - 80}
	e.PointerMove(Event{Pos: target})
	e.PointerUp(Event{Pos: target})

	verts := e.Sketch().Vertices()
	nv := verts[len(verts)-1]
	sg := segmentBetween(t, e, c[0], nv)
	if sg.BondType != sketch.BondWedge || sg.BondDirection != 1 {
		t.Fatalf("stereo not inherited: type=%q dir=%d", sg.BondType, sg.BondDirection)
	}
}

func TestMarqueeSelectsLive(t *testing.T) {
	e, c := hexEditor(t)
	click(e, mid(c[0], c[1]))

	e.SetMode(ModeMouse)
	e.PointerDown(Event{Pos: geom.Pt{X: 100, Y: 100}})
	if e.State().Marquee == nil {
		t.Fatalf("marquee not started on empty canvas")
	}
	// mid-drag membership updates without release
	e.PointerMove(Event{Pos: geom.Pt{X: 300, Y: 300}})
	if len(e.State().Selection.Vertices) != 6 {
		t.Fatalf("live selection has %d vertices", len(e.State().Selection.Vertices))
	}
	if len(e.State().Selection.Segments) != 1 {
		t.Fatalf("live selection has %d segments", len(e.State().Selection.Segments))
	}
	// shrinking the rectangle deselects
	e.PointerMove(Event{Pos: geom.Pt{X: 110, Y: 110}})
	if !e.State().Selection.Empty() {
		t.Fatalf("selection not recomputed on shrink")
	}
	e.PointerMove(Event{Pos: geom.Pt{X: 300, Y: 300}})
	e.PointerUp(Event{Pos: geom.Pt{X: 300, Y: 300}})
	if e.State().Marquee != nil {
		t.Fatalf("marquee survived release")
	}
	if len(e.State().Selection.Vertices) != 6 {
		t.Fatalf("final selection has %d vertices", len(e.State().Selection.Vertices))
	}
}

func TestCopyPasteOffsetRoundTrip(t *testing.T) {
	e, c := hexEditor(t)
	click(e, mid(c[0], c[1]))
	click(e, c[0].Pos)
	e.CommitAtomEntry("N")
	e.SetMode(ModePlus)
	click(e, c[0].Pos)

	e.SetMode(ModeMouse)
	e.PointerDown(Event{Pos: geom.Pt{X: 100, Y: 100}})
	e.PointerMove(Event{Pos: geom.Pt{X: 300, Y: 300}})
	e.PointerUp(Event{Pos: geom.Pt{X: 300, Y: 300}})

	e.Copy()
	if !e.State().Selection.Empty() {
		t.Fatalf("copy did not clear selection")
	}
	if !e.State().Pasting {
		t.Fatalf("copy did not enter paste mode")
	}

	// the hexagon's bounding-box centroid is its center
	delta := geom.Pt{X: 400, Y: 100}
	before := len(e.Sketch().Vertices())
	e.Click(Event{Pos: geom.Pt{X: 200 + delta.X, Y: 200 + delta.Y}})
	if e.State().Pasting {
		t.Fatalf("paste preview survived commit")
	}
	if got := len(e.Sketch().Vertices()); got != before+6 {
		t.Fatalf("pasted %d vertices, want 6", got-before)
	}

	var pastedAtom *sketch.Vertex
	for _, v := range e.Sketch().Vertices()[before:] {
		if v.Atom != nil {
			pastedAtom = v
		}
	}
	if pastedAtom == nil {
		t.Fatalf("atom data lost in paste")
	}
	want := geom.Pt{X: c[0].Pos.X + delta.X, Y: c[0].Pos.Y + delta.Y}
	if geom.Dist(pastedAtom.Pos, want) > 1e-9 {
		t.Fatalf("pasted atom at %+v, want %+v", pastedAtom.Pos, want)
	}
	if pastedAtom.Atom.Symbol != "N" || pastedAtom.Atom.Charge != 1 {
		t.Fatalf("atom fields %+v", pastedAtom.Atom)
	}

	// bond topology carried over: exactly one order-1 bond among the copies
	bonds := 0
	for _, sg := range e.Sketch().Segments() {
		if sg.IsBond() && e.Sketch().Vertex(sg.A).Pos.X > 300 {
			bonds++
			if sg.BondOrder != 1 {
				t.Fatalf("pasted bond order %d", sg.BondOrder)
			}
		}
	}
	if bonds != 1 {
		t.Fatalf("pasted bond count %d", bonds)
	}

	// the paste is one committed mutation
	e.Undo()
	if got := len(e.Sketch().Vertices()); got != before {
		t.Fatalf("undo after paste left %d vertices, want %d", got, before)
	}
}

func TestPasteSnapAlignsToExistingVertex(t *testing.T) {
	e, c := hexEditor(t)
	click(e, mid(c[0], c[1]))

	e.SetMode(ModeMouse)
	e.PointerDown(Event{Pos: geom.Pt{X: 100, Y: 100}})
	e.PointerMove(Event{Pos: geom.Pt{X: 300, Y: 300}})
	e.PointerUp(Event{Pos: geom.Pt{X: 300, Y: 300}})
	e.Copy()

	// paste slightly off the original footprint with snap held: the pasted
	// copy shifts so its nearest vertex coincides with the bonded original
	before := len(e.Sketch().Vertices())
	e.Click(Event{Pos: geom.Pt{X: 210, Y: 205}, Snap: true})
	merged := 0
	for _, v := range e.Sketch().Vertices()[before:] {
		for _, o := range c {
			if v.Pos == o.Pos {
				merged++
			}
		}
	}
	if len(e.Sketch().Vertices()) == before+6 && merged == 0 {
		t.Fatalf("snap paste did not align with any existing vertex")
	}
}

func TestEscapeCancelsMarqueeAndPaste(t *testing.T) {
	e, c := hexEditor(t)
	click(e, mid(c[0], c[1]))
	e.SetMode(ModeMouse)
	e.PointerDown(Event{Pos: geom.Pt{X: 100, Y: 100}})
	e.PointerMove(Event{Pos: geom.Pt{X: 300, Y: 300}})
	e.Escape()
	if e.State().Marquee != nil || !e.State().Selection.Empty() {
		t.Fatalf("escape left marquee state")
	}

	e.PointerDown(Event{Pos: geom.Pt{X: 100, Y: 100}})
	e.PointerMove(Event{Pos: geom.Pt{X: 300, Y: 300}})
	e.PointerUp(Event{Pos: geom.Pt{X: 300, Y: 300}})
	e.Copy()
	e.Escape()
	if e.State().Pasting {
		t.Fatalf("escape left paste mode")
	}
	before := len(e.Sketch().Vertices())
	e.Click(Event{Pos: geom.Pt{X: 500, Y: 500}})
	if len(e.Sketch().Vertices()) != before {
		t.Fatalf("cancelled paste still committed")
	}
}
