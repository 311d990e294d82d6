/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sketch

import (
	"math"
	"testing"

	"github.com/natelevy2468/openreactions-sub001/internal/geom"
)

func TestAddVertexDeduplicatesByCoordinate(t *testing.T) {
	s := New()
	a := s.AddVertex(geom.Pt{X: 51.961524, Y: 30.0000001}, false)
	b := s.AddVertex(geom.Pt{X: 51.9600001, Y: 29.999}, false)
	if a.ID != b.ID {
		t.Fatalf("expected rounded-coordinate dedup, got ids %d and %d", a.ID, b.ID)
	}
	c := s.AddVertex(geom.Pt{X: 51.96, Y: 30}, true)
	if c.ID == a.ID {
		t.Fatalf("off-grid vertices must not deduplicate")
	}
}

func TestAddSegmentDirectionAndDedup(t *testing.T) {
	s := New()
	a := s.AddVertex(geom.Pt{X: 0, Y: 0}, false)
	b := s.AddVertex(geom.Pt{X: 0, Y: 60}, false)
	c := s.AddVertex(geom.Pt{X: 52, Y: 30}, false)
	d := s.AddVertex(geom.Pt{X: 52, Y: -30}, false)

	sv, err := s.AddSegment(a.ID, b.ID)
	if err != nil {
		t.Fatalf("AddSegment: %v", err)
	}
	if sv.Direction != Vertical {
		t.Fatalf("vertical segment classified as %s", sv.Direction)
	}
	if sl, _ := s.AddSegment(a.ID, c.ID); sl.Direction != TopLeftFacing {
		t.Fatalf("down-right segment classified as %s", sl.Direction)
	}
	if sr, _ := s.AddSegment(a.ID, d.ID); sr.Direction != TopRightFacing {
		t.Fatalf("up-right segment classified as %s", sr.Direction)
	}
	again, _ := s.AddSegment(b.ID, a.ID)
	if again.ID != sv.ID {
		t.Fatalf("reversed duplicate created a new segment")
	}
}

func TestGridGenerationIdempotent(t *testing.T) {
	s := New()
	s.GenerateGrid(400, 300)
	nv, ns := len(s.Vertices()), len(s.Segments())
	if nv == 0 || ns == 0 {
		t.Fatalf("empty grid generated")
	}
	s.GenerateGrid(400, 300)
	if len(s.Vertices()) != nv || len(s.Segments()) != ns {
		t.Fatalf("regeneration changed counts: %d/%d -> %d/%d", nv, ns, len(s.Vertices()), len(s.Segments()))
	}
	// no duplicate coordinates
	seen := make(map[CoordKey]bool)
	for _, v := range s.Vertices() {
		k := KeyOf(v.Pos)
		if seen[k] {
			t.Fatalf("duplicate vertex at %v", k)
		}
		seen[k] = true
	}
	// every segment starts as a grid line
	for _, sg := range s.Segments() {
		if sg.BondOrder != 0 {
			t.Fatalf("generated segment has order %d", sg.BondOrder)
		}
	}
}

func TestGridSharedEdgesStoredOnce(t *testing.T) {
	s := New()
	s.GenerateGrid(400, 300)
	type edge struct{ a, b CoordKey }
	seen := make(map[edge]bool)
	for _, sg := range s.Segments() {
		ka := KeyOf(s.Vertex(sg.A).Pos)
		kb := KeyOf(s.Vertex(sg.B).Pos)
		if kb.X < ka.X || (kb.X == ka.X && kb.Y < ka.Y) {
			ka, kb = kb, ka
		}
		e := edge{ka, kb}
		if seen[e] {
			t.Fatalf("edge %v stored twice", e)
		}
		seen[e] = true
	}
}

// hexagonFixture builds one hexagon of real bonds and returns the sketch and
// its segments in corner order.
func hexagonFixture(t *testing.T) (*Sketch, []*Segment) {
	t.Helper()
	s := New()
	var ids [6]VertexID
	for i := 0; i < 6; i++ {
		ang := math.Pi/6 + float64(i)*math.Pi/3
		p := geom.Pt{
			X: geom.Round2(200 + HexRadius*math.Cos(ang)),
			Y: geom.Round2(200 + HexRadius*math.Sin(ang)),
		}
		ids[i] = s.AddVertex(p, false).ID
	}
	segs := make([]*Segment, 6)
	for i := 0; i < 6; i++ {
		sg, err := s.AddSegment(ids[i], ids[(i+1)%6])
		if err != nil {
			t.Fatalf("AddSegment: %v", err)
		}
		s.SetBondOrder(sg, 1)
		segs[i] = sg
	}
	s.Recompute()
	return s, segs
}

func TestRingDetectionOnHexagon(t *testing.T) {
	s, segs := hexagonFixture(t)
	if len(s.Rings()) != 1 {
		t.Fatalf("expected exactly 1 ring, got %d", len(s.Rings()))
	}
	if got := len(s.Rings()[0].Vertices); got != 6 {
		t.Fatalf("ring size = %d, want 6", got)
	}
	for i, sg := range segs {
		if !sg.IsInRing {
			t.Fatalf("segment %d not flagged in-ring", i)
		}
		if sg.IsSharedRingBond {
			t.Fatalf("single ring must not produce shared bonds")
		}
	}
}

func TestRingInteriorOrientation(t *testing.T) {
	s, segs := hexagonFixture(t)
	// promote a non-special edge to a double bond and check the short line
	// faces the ring centroid
	var target *Segment
	for _, sg := range segs {
		s.SetBondOrder(sg, 2)
		s.Recompute()
		if !sg.IsSpecialBond {
			target = sg
			break
		}
		s.SetBondOrder(sg, 1)
	}
	if target == nil {
		t.Skip("all edges special in this fixture")
	}
	upper := s.Vertex(target.Upper)
	lower := s.Vertex(target.Lower)
	center := s.ringCentroid(s.Rings()[0])
	cross := (lower.Pos.X-upper.Pos.X)*(center.Y-upper.Pos.Y) -
		(lower.Pos.Y-upper.Pos.Y)*(center.X-upper.Pos.X)
	if target.RingOrientation != (cross > 0) {
		t.Fatalf("ring orientation %v does not face interior (cross=%v)", target.RingOrientation, cross)
	}
}

func TestSharedRingBondFallsBack(t *testing.T) {
	// two fused hexagons sharing one edge
	s := New()
	add := func(cx, cy float64) [6]VertexID {
		var ids [6]VertexID
		for i := 0; i < 6; i++ {
			ang := math.Pi/6 + float64(i)*math.Pi/3
			p := geom.Pt{
				X: geom.Round2(cx + HexRadius*math.Cos(ang)),
				Y: geom.Round2(cy + HexRadius*math.Sin(ang)),
			}
			ids[i] = s.AddVertex(p, false).ID
		}
		for i := 0; i < 6; i++ {
			sg, _ := s.AddSegment(ids[i], ids[(i+1)%6])
			s.SetBondOrder(sg, 1)
		}
		return ids
	}
	add(200, 200)
	add(200+HexRadius*math.Sqrt(3), 200) // horizontal neighbor shares an edge
	s.Recompute()

	if len(s.Rings()) < 2 {
		t.Fatalf("expected 2 rings, got %d", len(s.Rings()))
	}
	shared := 0
	for _, sg := range s.Segments() {
		if sg.IsSharedRingBond {
			shared++
		}
	}
	if shared != 1 {
		t.Fatalf("expected exactly 1 shared ring bond, got %d", shared)
	}
}

func TestClassifySingleVerticalBond(t *testing.T) {
	s := New()
	a := s.AddVertex(geom.Pt{X: 0, Y: 0}, false)
	b := s.AddVertex(geom.Pt{X: 0, Y: 60}, false)
	sg, _ := s.AddSegment(a.ID, b.ID)
	s.SetBondOrder(sg, 1)
	s.Recompute()

	if a.Kind != KindB || b.Kind != KindB {
		t.Fatalf("both endpoints of a vertical bond must be type B, got %s/%s", a.Kind, b.Kind)
	}
	// the lower endpoint of a vertical bond is the "top" vertex
	if a.IsTop || !b.IsTop {
		t.Fatalf("isTop flags wrong: a=%v b=%v", a.IsTop, b.IsTop)
	}
}

func TestClassifyTwoAndThreeBonds(t *testing.T) {
	s := New()
	c := s.AddVertex(geom.Pt{X: 0, Y: 0}, false)
	up := s.AddVertex(geom.Pt{X: 0, Y: -60}, false)
	dr := s.AddVertex(geom.Pt{X: 52, Y: 30}, false)
	dl := s.AddVertex(geom.Pt{X: -52, Y: 30}, false)

	s1, _ := s.AddSegment(c.ID, up.ID)
	s.SetBondOrder(s1, 1)
	s2, _ := s.AddSegment(c.ID, dr.ID)
	s.SetBondOrder(s2, 1)
	s.Recompute()
	if c.Kind != KindE {
		t.Fatalf("vertical+topLeftFacing should be E, got %s", c.Kind)
	}

	s3, _ := s.AddSegment(c.ID, dl.ID)
	s.SetBondOrder(s3, 1)
	s.Recompute()
	if c.Kind != KindH {
		t.Fatalf("three bonds should be H, got %s", c.Kind)
	}
}

func TestClassifyNoBondsIsA(t *testing.T) {
	s := New()
	v := s.AddVertex(geom.Pt{X: 5, Y: 5}, false)
	s.Recompute()
	if v.Kind != KindA || v.IsTop {
		t.Fatalf("isolated vertex must be A/non-top, got %s/%v", v.Kind, v.IsTop)
	}
}

func TestLonePairOrderTableShape(t *testing.T) {
	for _, kind := range []VertexKind{KindA, KindB, KindC, KindD, KindE, KindF, KindG, KindH} {
		for _, top := range []bool{false, true} {
			order := LonePairOrder(kind, top)
			if len(order) != 4 {
				t.Fatalf("order for %s/%v has %d entries", kind, top, len(order))
			}
			seen := map[LonePairPos]bool{}
			for _, p := range order {
				if seen[p] {
					t.Fatalf("duplicate position %s for %s/%v", p, kind, top)
				}
				seen[p] = true
			}
		}
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	s, segs := hexagonFixture(t)
	s.SetBondOrder(segs[0], 1)
	segs[0].BondType = BondWedge
	segs[0].BondDirection = -1
	s.Vertex(segs[0].A).Atom = &Atom{Symbol: "N", Charge: -1, LonePairs: 2}
	s.AddArrow(&Arrow{Kind: ArrowStraight, X1: 0, Y1: 0, X2: 100, Y2: 0})
	s.Recompute()

	out, err := Decode(s.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Vertices()) != len(s.Vertices()) || len(out.Segments()) != len(s.Segments()) || len(out.Arrows()) != 1 {
		t.Fatalf("round trip changed counts")
	}
	sg := out.Segment(segs[0].ID)
	if sg == nil || sg.BondType != BondWedge || sg.BondDirection != -1 {
		t.Fatalf("stereo data lost in round trip: %+v", sg)
	}
	v := out.Vertex(segs[0].A)
	if v.Atom == nil || v.Atom.Symbol != "N" || v.Atom.Charge != -1 || v.Atom.LonePairs != 2 {
		t.Fatalf("atom lost in round trip: %+v", v.Atom)
	}
	if !sg.IsInRing {
		t.Fatalf("ring flags not recomputed after decode")
	}
}

func TestWireRoundTripDropsGridLines(t *testing.T) {
	s := New()
	s.GenerateGrid(200, 200)
	// promote one grid line to a bond
	var bond *Segment
	for _, sg := range s.Segments() {
		bond = sg
		break
	}
	s.SetBondOrder(bond, 1)
	s.Vertex(bond.A).Atom = &Atom{Symbol: "O"}
	s.Recompute()

	mol := s.ToWire()
	if len(mol.Segments) != 1 {
		t.Fatalf("wire form must contain only real bonds, got %d", len(mol.Segments))
	}
	back, err := FromWire(mol)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if len(back.Segments()) != 1 || back.Segments()[0].BondOrder != 1 {
		t.Fatalf("wire round trip lost the bond")
	}
	found := false
	for _, v := range back.Vertices() {
		if v.Atom != nil && v.Atom.Symbol == "O" {
			found = true
		}
	}
	if !found {
		t.Fatalf("wire round trip lost the atom")
	}
}

func TestSetBondOrderClearsStereoAtZero(t *testing.T) {
	s := New()
	a := s.AddVertex(geom.Pt{X: 0, Y: 0}, false)
	b := s.AddVertex(geom.Pt{X: 52, Y: 30}, false)
	sg, _ := s.AddSegment(a.ID, b.ID)
	s.SetBondOrder(sg, 1)
	sg.BondType = BondDash
	sg.BondDirection = 1
	s.SetBondOrder(sg, 0)
	if sg.BondType != BondPlain || sg.BondDirection != 0 || sg.Upper != 0 || sg.Lower != 0 {
		t.Fatalf("order-0 segment still carries bond data: %+v", sg)
	}
	if sg.Direction != TopLeftFacing {
		t.Fatalf("erase must preserve direction, got %s", sg.Direction)
	}
}
