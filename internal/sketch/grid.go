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

	"github.com/natelevy2468/openreactions-sub001/internal/geom"
)

// gridMargin extends the tiling beyond the viewport so panning does not
// immediately expose untiled space.
const gridMargin = 2 * HexRadius

// GenerateGrid tiles the viewport with hexagons of radius HexRadius and
// inserts the resulting vertices and order-0 segments into the sketch.
// Hexagon centers sit on a brick-offset lattice (odd rows shifted by half a
// hex width); each hexagon contributes 6 corner vertices at 60-degree steps
// offset by 30 degrees. Vertices and edges shared between neighboring
// hexagons are deduplicated through the rounded-coordinate index, so
// regenerating for the same viewport is idempotent.
func (s *Sketch) GenerateGrid(width, height float64) {
	r := HexRadius
	hexW := r * math.Sqrt(3) // width of a pointy-top hexagon
	rowH := 1.5 * r          // vertical distance between center rows

	row := 0
	for cy := -gridMargin; cy < height+gridMargin; cy += rowH {
		xOff := 0.0
		if row%2 == 1 {
			xOff = hexW / 2
		}
		for cx := -gridMargin + xOff; cx < width+gridMargin; cx += hexW {
			s.addHexagon(geom.Pt{X: cx, Y: cy}, r)
		}
		row++
	}
	s.Recompute()
}

// addHexagon inserts one hexagon's corners and edges, reusing any vertex or
// segment that already exists at the same rounded coordinates.
func (s *Sketch) addHexagon(center geom.Pt, r float64) {
	var ids [6]VertexID
	for i := 0; i < 6; i++ {
		ang := math.Pi/6 + float64(i)*math.Pi/3 // 30deg offset, 60deg steps
		p := geom.Pt{
			X: geom.Round2(center.X + r*math.Cos(ang)),
			Y: geom.Round2(center.Y + r*math.Sin(ang)),
		}
		ids[i] = s.AddVertex(p, false).ID
	}
	for i := 0; i < 6; i++ {
		// AddSegment is a no-op for an edge already present from a neighbor
		_, _ = s.AddSegment(ids[i], ids[(i+1)%6])
	}
}
