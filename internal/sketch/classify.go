/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sketch

// Vertex classification derives a type tag A..H and a top/bottom flag from
// the directions of the real bonds touching a vertex. The two values key a
// fixed lookup table that orders lone-pair glyph placement and picks the
// side of the charge glyph. The tables are design constants; rendering
// parity depends on reproducing them exactly.

// classifyVertex recomputes Kind and IsTop for v from its connected bonds.
func (s *Sketch) classifyVertex(v *Vertex) {
	bonds := s.BondsAt(v.ID)

	var vertical, topLeft, topRight int
	isTop := false
	for _, sg := range bonds {
		switch sg.Direction {
		case Vertical:
			vertical++
		case TopLeftFacing:
			topLeft++
		case TopRightFacing:
			topRight++
		}
		upper, lower := s.upperLower(sg)
		// "top" vertices sit at the upper apex of a hex cell: the upper end
		// of a slanted bond, or the lower end of a vertical bond
		if sg.Direction == Vertical {
			if lower == v.ID {
				isTop = true
			}
		} else if upper == v.ID {
			isTop = true
		}
	}

	kind := KindA
	switch len(bonds) {
	case 1:
		switch {
		case vertical == 1:
			kind = KindB
		case topLeft == 1:
			kind = KindC
		case topRight == 1:
			kind = KindD
		}
	case 2:
		switch {
		case vertical == 1 && topLeft == 1:
			kind = KindE
		case vertical == 1 && topRight == 1:
			kind = KindF
		case topLeft == 1 && topRight == 1:
			kind = KindG
		}
	case 3:
		kind = KindH
	}

	v.Kind = kind
	v.IsTop = isTop
}

// lonePairTable maps (kind, isTop) to the priority order in which the four
// lone-pair positions are filled. Positions occupied by bonds come last.
// One row per kind x isTop; reproduced literally, not derived at runtime.
var lonePairTable = map[VertexKind][2][]LonePairPos{
	//               isTop == false                            isTop == true
	KindA: {{PosTop, PosRight, PosBottom, PosLeft}, {PosTop, PosRight, PosBottom, PosLeft}},
	KindB: {{PosTop, PosRight, PosLeft, PosBottom}, {PosBottom, PosRight, PosLeft, PosTop}},
	KindC: {{PosBottom, PosRight, PosTop, PosLeft}, {PosTop, PosLeft, PosBottom, PosRight}},
	KindD: {{PosBottom, PosLeft, PosTop, PosRight}, {PosTop, PosRight, PosBottom, PosLeft}},
	KindE: {{PosRight, PosTop, PosBottom, PosLeft}, {PosLeft, PosBottom, PosRight, PosTop}},
	KindF: {{PosLeft, PosTop, PosBottom, PosRight}, {PosRight, PosBottom, PosLeft, PosTop}},
	KindG: {{PosBottom, PosRight, PosLeft, PosTop}, {PosTop, PosRight, PosLeft, PosBottom}},
	KindH: {{PosTop, PosRight, PosLeft, PosBottom}, {PosBottom, PosRight, PosLeft, PosTop}},
}

// chargeAboveTable maps (kind, isTop) to whether the formal charge glyph is
// drawn above (true) or below (false) the atom label.
var chargeAboveTable = map[VertexKind][2]bool{
	KindA: {true, true},
	KindB: {true, false},
	KindC: {false, true},
	KindD: {false, true},
	KindE: {true, false},
	KindF: {true, false},
	KindG: {false, true},
	KindH: {true, false},
}

// LonePairOrder returns the fill order for a vertex's current kind/isTop.
func LonePairOrder(kind VertexKind, isTop bool) []LonePairPos {
	row, ok := lonePairTable[kind]
	if !ok {
		row = lonePairTable[KindA]
	}
	idx := 0
	if isTop {
		idx = 1
	}
	out := make([]LonePairPos, 4)
	copy(out, row[idx])
	return out
}

// ChargeAbove reports whether the charge glyph goes above the atom label.
func ChargeAbove(kind VertexKind, isTop bool) bool {
	row, ok := chargeAboveTable[kind]
	if !ok {
		return true
	}
	if isTop {
		return row[1]
	}
	return row[0]
}
