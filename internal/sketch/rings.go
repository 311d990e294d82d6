/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sketch

// Ring detection finds closed cycles (up to 6-membered) in the bond graph
// and annotates segments with ring membership and interior-orientation
// hints. The hints decide which of the two parallel lines of an in-ring
// double bond is drawn shorter: the short line must face the ring interior.

import (
	"fmt"
	"sort"

	"github.com/natelevy2468/openreactions-sub001/internal/geom"
)

// maxRingSize bounds the cycle search. The sketcher's grid produces
// hexagons; anything larger is outside the drawing vocabulary.
const maxRingSize = 6

// detectRings recomputes all ring annotations from scratch. Graphs stay at
// interactive editing scale, so a full pass per mutation is cheap enough
// and avoids any window where stale flags could be observed.
func (s *Sketch) detectRings() {
	s.rings = nil

	// reset derived ring flags on every bond
	for _, sg := range s.segs {
		sg.IsInRing = false
		sg.IsSpecialBond = false
		sg.IsSharedRingBond = false
		sg.RingOrientation = false
		if sg.BondOrder == 2 {
			sg.FlipSmallerLine = false
		}
	}

	// bond adjacency: vertex -> bonds
	bondsAt := make(map[VertexID][]*Segment)
	for _, sg := range s.segs {
		if sg.IsBond() {
			bondsAt[sg.A] = append(bondsAt[sg.A], sg)
			bondsAt[sg.B] = append(bondsAt[sg.B], sg)
		}
	}

	seen := make(map[string]bool)
	ringCount := make(map[SegmentID]int)

	var walk func(start, at VertexID, path []VertexID, used []SegmentID)
	walk = func(start, at VertexID, path []VertexID, used []SegmentID) {
		if len(path) > maxRingSize {
			return
		}
		for _, sg := range bondsAt[at] {
			if len(used) > 0 && sg.ID == used[len(used)-1] {
				continue
			}
			next := sg.Other(at)
			if next == start && len(path) >= 3 {
				key := ringKey(path)
				if !seen[key] {
					seen[key] = true
					ring := Ring{
						Vertices: append([]VertexID(nil), path...),
						Segments: append(append([]SegmentID(nil), used...), sg.ID),
					}
					s.rings = append(s.rings, ring)
					for _, sid := range ring.Segments {
						ringCount[sid]++
					}
				}
				continue
			}
			if containsVertex(path, next) {
				continue
			}
			np := make([]VertexID, len(path), len(path)+1)
			copy(np, path)
			nu := make([]SegmentID, len(used), len(used)+1)
			copy(nu, used)
			walk(start, next, append(np, next), append(nu, sg.ID))
		}
	}
	for _, v := range s.verts {
		if len(bondsAt[v.ID]) < 2 {
			continue
		}
		walk(v.ID, v.ID, []VertexID{v.ID}, nil)
	}

	for _, ring := range s.rings {
		center := s.ringCentroid(ring)
		for _, sid := range ring.Segments {
			sg := s.bySegment[sid]
			sg.IsInRing = true
			if ringCount[sid] > 1 {
				// shared between rings: no single interior side exists
				sg.IsSharedRingBond = true
				continue
			}
			if sg.BondOrder != 2 {
				continue
			}
			s.orientRingBond(sg, ring, center)
		}
	}

	// non-ring (and shared-ring) double bonds fall back to the general
	// neighbor-count rule for the asymmetric short line
	for _, sg := range s.segs {
		if sg.BondOrder == 2 && (!sg.IsInRing || sg.IsSharedRingBond) {
			s.applyNeighborFlip(sg)
		}
	}
}

// orientRingBond sets the interior-side hint for an in-ring double bond.
// A few directional patterns at hexagon seams ("special ring bonds") carry
// fixed orientation constants observed in practice rather than the general
// interior-side computation.
func (s *Sketch) orientRingBond(sg *Segment, ring Ring, center geom.Pt) {
	upper := s.byVertex[sg.Upper]
	lower := s.byVertex[sg.Lower]
	if upper == nil || lower == nil {
		return
	}

	switch sg.Direction {
	case TopLeftFacing:
		if s.verticalBondCount(sg.Upper, sg.ID) == 1 {
			sg.IsSpecialBond = true
			sg.RingOrientation = true
			return
		}
	case TopRightFacing:
		if s.verticalBondCount(sg.Upper, sg.ID) == 1 {
			sg.IsSpecialBond = true
			sg.RingOrientation = false
			return
		}
	}

	// general case: the interior is the side of the chord the ring centroid
	// falls on; positive cross product means the centroid is to the left of
	// the upper->lower direction
	cross := (lower.Pos.X-upper.Pos.X)*(center.Y-upper.Pos.Y) -
		(lower.Pos.Y-upper.Pos.Y)*(center.X-upper.Pos.X)
	sg.RingOrientation = cross > 0
}

// verticalBondCount counts vertical bonds at v excluding the segment itself.
func (s *Sketch) verticalBondCount(v VertexID, exclude SegmentID) int {
	n := 0
	for _, sg := range s.BondsAt(v) {
		if sg.ID != exclude && sg.Direction == Vertical {
			n++
		}
	}
	return n
}

// applyNeighborFlip sets FlipSmallerLine for a double bond outside rings:
// the shorter parallel line is drawn toward the side with more neighboring
// bonds so it tucks between them.
func (s *Sketch) applyNeighborFlip(sg *Segment) {
	upperN := len(s.BondsAt(sg.Upper)) - 1
	lowerN := len(s.BondsAt(sg.Lower)) - 1
	sg.FlipSmallerLine = lowerN > upperN
}

func (s *Sketch) ringCentroid(ring Ring) geom.Pt {
	var cx, cy float64
	n := 0
	for _, id := range ring.Vertices {
		if v := s.byVertex[id]; v != nil {
			cx += v.Pos.X
			cy += v.Pos.Y
			n++
		}
	}
	if n == 0 {
		return geom.Pt{}
	}
	return geom.Pt{X: cx / float64(n), Y: cy / float64(n)}
}

// ringKey builds an order-insensitive identity for a cycle's vertex set.
func ringKey(path []VertexID) string {
	ids := make([]int, len(path))
	for i, v := range path {
		ids[i] = int(v)
	}
	sort.Ints(ids)
	return fmt.Sprint(ids)
}

func containsVertex(path []VertexID, id VertexID) bool {
	for _, v := range path {
		if v == id {
			return true
		}
	}
	return false
}
