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

	"github.com/natelevy2468/openreactions-sub001/internal/geom"
	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
)

// curveSamples is the flattening resolution for curved-arrow hit tests.
const curveSamples = 16

// nearestVertex returns the closest vertex within the vertex hit threshold,
// or nil.
func (e *Editor) nearestVertex(p geom.Pt) (*sketch.Vertex, float64) {
	var best *sketch.Vertex
	bestD := sketch.VertexHitThreshold
	for _, v := range e.sk.Vertices() {
		if d := geom.Dist(p, v.Pos); d <= bestD {
			best, bestD = v, d
		}
	}
	return best, bestD
}

// nearestSegment returns the closest segment within the perpendicular hit
// threshold, or nil.
func (e *Editor) nearestSegment(p geom.Pt) (*sketch.Segment, float64) {
	var best *sketch.Segment
	bestD := sketch.SegmentHitThreshold
	for _, sg := range e.sk.Segments() {
		a := e.sk.Vertex(sg.A)
		b := e.sk.Vertex(sg.B)
		if a == nil || b == nil {
			continue
		}
		if d := geom.DistPointSegment(p, a.Pos, b.Pos); d <= bestD {
			best, bestD = sg, d
		}
	}
	return best, bestD
}

// nearestArrow returns the index of the closest arrow within the segment
// hit threshold, or -1. Curved arrows are tested against a flattened
// quadratic path.
func (e *Editor) nearestArrow(p geom.Pt) (int, float64) {
	best := -1
	bestD := sketch.SegmentHitThreshold
	for i, a := range e.sk.Arrows() {
		if d := arrowDist(p, a); d <= bestD {
			best, bestD = i, d
		}
	}
	return best, bestD
}

func arrowDist(p geom.Pt, a *sketch.Arrow) float64 {
	switch a.Kind {
	case sketch.ArrowStraight:
		return geom.DistPointSegment(p, geom.Pt{X: a.X1, Y: a.Y1}, geom.Pt{X: a.X2, Y: a.Y2})
	case sketch.ArrowEquilibrium:
		top := geom.DistPointSegment(p,
			geom.Pt{X: a.TopX1, Y: a.Y}, geom.Pt{X: a.TopX2, Y: a.Y})
		bottom := geom.DistPointSegment(p,
			geom.Pt{X: a.BottomX1, Y: a.Y}, geom.Pt{X: a.BottomX2, Y: a.Y})
		return math.Min(top, bottom)
	case sketch.ArrowCurved:
		return curveDist(p, a)
	}
	return math.Inf(1)
}

// curveDist samples the quadratic bezier through the peak control point and
// measures against the resulting polyline.
func curveDist(p geom.Pt, a *sketch.Arrow) float64 {
	prev := geom.Pt{X: a.X1, Y: a.Y1}
	best := math.Inf(1)
	for i := 1; i <= curveSamples; i++ {
		t := float64(i) / curveSamples
		u := 1 - t
		cur := geom.Pt{
			X: u*u*a.X1 + 2*u*t*a.PeakX + t*t*a.X2,
			Y: u*u*a.Y1 + 2*u*t*a.PeakY + t*t*a.Y2,
		}
		if d := geom.DistPointSegment(p, prev, cur); d < best {
			best = d
		}
		prev = cur
	}
	return best
}

// hitAny resolves p to the nearest interactive element across all kinds.
// Vertex and segment candidates compete by distance; arrows are considered
// only when neither is within tolerance, matching arrows' background role.
func (e *Editor) hitAny(p geom.Pt) Hit {
	h := NoHit
	v, vd := e.nearestVertex(p)
	sg, sd := e.nearestSegment(p)
	switch {
	case v != nil && (sg == nil || vd <= sd):
		h.Vertex = v.ID
	case sg != nil:
		h.Segment = sg.ID
	default:
		if i, _ := e.nearestArrow(p); i >= 0 {
			h.Arrow = i
		}
	}
	return h
}
