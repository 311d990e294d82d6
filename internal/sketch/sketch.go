/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package sketch implements the structure graph of the sketcher: positioned
// vertices, segments carrying bond state, atom annotations and reaction
// arrows, plus the derived-annotation passes (vertex classification and ring
// detection) that keep rendering hints current after every mutation.
package sketch

import (
	"fmt"

	"github.com/natelevy2468/openreactions-sub001/internal/geom"
)

// CoordKey is a rounded (2 decimal places) coordinate pair used to
// deduplicate grid vertices and to translate between the in-memory id-keyed
// model and coordinate-addressed lookups.
type CoordKey struct{ X, Y float64 }

// KeyOf returns the coordinate key for a point.
func KeyOf(p geom.Pt) CoordKey { return CoordKey{geom.Round2(p.X), geom.Round2(p.Y)} }

// Sketch is the single source of truth for the structure diagram. All
// mutation goes through its methods; the editor never reaches into slices
// directly. It is not safe for concurrent use: the engine is single-threaded
// by design, with every mutation completing before the next paint.
type Sketch struct {
	verts  []*Vertex
	segs   []*Segment
	arrows []*Arrow

	nextVertex  VertexID
	nextSegment SegmentID

	byVertex  map[VertexID]*Vertex
	bySegment map[SegmentID]*Segment
	coords    map[CoordKey]VertexID
	adj       map[VertexID][]SegmentID

	rings []Ring
}

// New returns an empty sketch.
func New() *Sketch {
	return &Sketch{
		// ids start at 1 so the zero value can mean "unset" in Upper/Lower
		nextVertex:  1,
		nextSegment: 1,
		byVertex:    make(map[VertexID]*Vertex),
		bySegment:   make(map[SegmentID]*Segment),
		coords:      make(map[CoordKey]VertexID),
		adj:         make(map[VertexID][]SegmentID),
	}
}

// Vertices returns the live vertex list in creation order.
func (s *Sketch) Vertices() []*Vertex { return s.verts }

// Segments returns the live segment list in creation order.
func (s *Sketch) Segments() []*Segment { return s.segs }

// Arrows returns the live arrow list in insertion order.
func (s *Sketch) Arrows() []*Arrow { return s.arrows }

// Rings returns the cycles found by the last ring-detection pass.
func (s *Sketch) Rings() []Ring { return s.rings }

// Vertex resolves an id, or nil.
func (s *Sketch) Vertex(id VertexID) *Vertex { return s.byVertex[id] }

// Segment resolves an id, or nil.
func (s *Sketch) Segment(id SegmentID) *Segment { return s.bySegment[id] }

// VertexAt returns the vertex whose rounded coordinates equal p's, or nil.
func (s *Sketch) VertexAt(p geom.Pt) *Vertex {
	if id, ok := s.coords[KeyOf(p)]; ok {
		return s.byVertex[id]
	}
	return nil
}

// SegmentsAt returns the ids of all segments touching the vertex.
func (s *Sketch) SegmentsAt(id VertexID) []SegmentID { return s.adj[id] }

// BondsAt returns the real bonds (order > 0) touching the vertex.
func (s *Sketch) BondsAt(id VertexID) []*Segment {
	var out []*Segment
	for _, sid := range s.adj[id] {
		if sg := s.bySegment[sid]; sg != nil && sg.IsBond() {
			out = append(out, sg)
		}
	}
	return out
}

// AddVertex inserts a vertex at p. Grid-snapped vertices are deduplicated by
// rounded coordinate; off-grid vertices are always appended.
func (s *Sketch) AddVertex(p geom.Pt, offGrid bool) *Vertex {
	if !offGrid {
		if v := s.VertexAt(p); v != nil {
			return v
		}
	}
	v := &Vertex{ID: s.nextVertex, Pos: p, Kind: KindA, IsOffGrid: offGrid}
	s.nextVertex++
	s.verts = append(s.verts, v)
	s.byVertex[v.ID] = v
	if !offGrid {
		s.coords[KeyOf(p)] = v.ID
	}
	return v
}

// AddSegment inserts a segment between two vertices with bond order 0,
// deriving its direction from the endpoint slope. Duplicate segments between
// the same endpoints are returned rather than re-added.
func (s *Sketch) AddSegment(a, b VertexID) (*Segment, error) {
	va, vb := s.byVertex[a], s.byVertex[b]
	if va == nil || vb == nil {
		return nil, fmt.Errorf("segment endpoints %d-%d not in sketch", a, b)
	}
	for _, sid := range s.adj[a] {
		sg := s.bySegment[sid]
		if (sg.A == a && sg.B == b) || (sg.A == b && sg.B == a) {
			return sg, nil
		}
	}
	sg := &Segment{ID: s.nextSegment, A: a, B: b, Direction: directionOf(va.Pos, vb.Pos)}
	s.nextSegment++
	s.segs = append(s.segs, sg)
	s.bySegment[sg.ID] = sg
	s.adj[a] = append(s.adj[a], sg.ID)
	s.adj[b] = append(s.adj[b], sg.ID)
	return sg, nil
}

// RemoveVertex deletes a free-floating off-grid vertex. Grid vertices are
// never structurally deleted; clearing them means dropping the atom and
// zeroing bond orders.
func (s *Sketch) RemoveVertex(id VertexID) {
	v := s.byVertex[id]
	if v == nil || !v.IsOffGrid || len(s.adj[id]) > 0 {
		return
	}
	delete(s.byVertex, id)
	delete(s.adj, id)
	for i, w := range s.verts {
		if w.ID == id {
			s.verts = append(s.verts[:i], s.verts[i+1:]...)
			break
		}
	}
}

// AddArrow appends an arrow.
func (s *Sketch) AddArrow(a *Arrow) { s.arrows = append(s.arrows, a) }

// RemoveArrow deletes the arrow at index i.
func (s *Sketch) RemoveArrow(i int) {
	if i < 0 || i >= len(s.arrows) {
		return
	}
	s.arrows = append(s.arrows[:i], s.arrows[i+1:]...)
}

// Other returns the id of the segment endpoint that is not v.
func (sg *Segment) Other(v VertexID) VertexID {
	if sg.A == v {
		return sg.B
	}
	return sg.A
}

// directionOf classifies the slope between two endpoints. In document space
// y grows downward; the "top" endpoint is the one with the smaller y.
// Zero-length segments default to vertical so downstream math stays finite.
func directionOf(a, b geom.Pt) Direction {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 {
		return Vertical
	}
	if dy == 0 {
		// horizontal bonds only occur free-hand; treat as right-facing
		return TopRightFacing
	}
	if (dx > 0) == (dy > 0) {
		return TopLeftFacing
	}
	return TopRightFacing
}

// upperLower orders the endpoints of sg by screen height (ties broken by x)
// and returns (upper, lower) vertex ids.
func (s *Sketch) upperLower(sg *Segment) (VertexID, VertexID) {
	va, vb := s.byVertex[sg.A], s.byVertex[sg.B]
	if va == nil || vb == nil {
		return sg.A, sg.B
	}
	if va.Pos.Y < vb.Pos.Y || (va.Pos.Y == vb.Pos.Y && va.Pos.X <= vb.Pos.X) {
		return sg.A, sg.B
	}
	return sg.B, sg.A
}

// SetBondOrder changes a segment's bond order and maintains the invariants
// tied to it: order 0 carries no stereo data, order 2 records the upper and
// lower endpoints for asymmetric rendering.
func (s *Sketch) SetBondOrder(sg *Segment, order int) {
	if order < 0 || order > 3 {
		return
	}
	sg.BondOrder = order
	switch order {
	case 0:
		sg.BondType = BondPlain
		sg.BondDirection = 0
		sg.Upper, sg.Lower = 0, 0
		sg.FlipSmallerLine = false
		sg.IsInRing = false
		sg.IsSpecialBond = false
		sg.IsSharedRingBond = false
		sg.RingOrientation = false
	case 2:
		sg.BondType = BondPlain
		sg.BondDirection = 0
		sg.Upper, sg.Lower = s.upperLower(sg)
	default:
		sg.Upper, sg.Lower = 0, 0
	}
}

// Recompute re-derives every cached annotation that depends on the segment
// set: vertex classification for the touched vertices (or all vertices when
// none are named) and the full ring pass. Must be called after any
// structural mutation, before control returns to the rendering consumer.
func (s *Sketch) Recompute(touched ...VertexID) {
	if len(touched) == 0 {
		for _, v := range s.verts {
			s.classifyVertex(v)
		}
	} else {
		seen := make(map[VertexID]bool, len(touched)*4)
		var visit func(id VertexID)
		visit = func(id VertexID) {
			if seen[id] {
				return
			}
			seen[id] = true
			if v := s.byVertex[id]; v != nil {
				s.classifyVertex(v)
			}
		}
		// classification depends only on incident bonds, so the touched
		// vertices plus their bond neighbors cover the affected set
		for _, id := range touched {
			visit(id)
			for _, sg := range s.BondsAt(id) {
				visit(sg.Other(id))
			}
		}
	}
	s.detectRings()
}
