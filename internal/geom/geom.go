/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geom holds the pure 2D geometry kernels used by hit-testing,
// marquee selection and bond rendering. All functions are stateless and
// deterministic; degenerate inputs (zero-length segments, empty rects)
// short-circuit instead of producing NaN.
package geom

import "math"

// Pt is a 2D point in document coordinates.
type Pt struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// FromCorners builds a normalized rect from two arbitrary corner points.
func FromCorners(a, b Pt) Rect {
	minX := math.Min(a.X, b.X)
	minY := math.Min(a.Y, b.Y)
	return Rect{X: minX, Y: minY, W: math.Abs(a.X - b.X), H: math.Abs(a.Y - b.Y)}
}

func (r Rect) Min() Pt { return Pt{r.X, r.Y} }
func (r Rect) Max() Pt { return Pt{r.X + r.W, r.Y + r.H} }

func (r Rect) Contains(p Pt) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.X+r.W && p.Y <= r.Y+r.H
}

// Union returns the minimal rect containing both.
func (r Rect) Union(o Rect) Rect {
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.X+r.W, o.X+o.W)
	maxY := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Center returns the midpoint of the rect.
func (r Rect) Center() Pt { return Pt{r.X + r.W/2, r.Y + r.H/2} }

// Dist returns the Euclidean distance between two points.
func Dist(a, b Pt) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

// DistPointSegment returns the distance from p to the segment a-b.
// A zero-length segment degrades to point distance.
func DistPointSegment(p, a, b Pt) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return Dist(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Dist(p, Pt{a.X + t*dx, a.Y + t*dy})
}

// PointInRotatedBox reports whether p lies inside the box of the given
// width/height centered at c and rotated by angle radians.
func PointInRotatedBox(p, c Pt, w, h, angle float64) bool {
	// Rotate p into the box frame and test axis-aligned.
	cos := math.Cos(-angle)
	sin := math.Sin(-angle)
	dx := p.X - c.X
	dy := p.Y - c.Y
	lx := dx*cos - dy*sin
	ly := dx*sin + dy*cos
	return math.Abs(lx) <= w/2 && math.Abs(ly) <= h/2
}

// SegmentsIntersect reports whether segments p1-p2 and p3-p4 intersect,
// including touching endpoints. Collinear overlaps count as intersection.
func SegmentsIntersect(p1, p2, p3, p4 Pt) bool {
	d1 := cross(p3, p4, p1)
	d2 := cross(p3, p4, p2)
	d3 := cross(p1, p2, p3)
	d4 := cross(p1, p2, p4)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

// cross returns the z component of (b-a) x (c-a).
func cross(a, b, c Pt) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// onSegment assumes c is collinear with a-b and checks the bounding range.
func onSegment(a, b, c Pt) bool {
	return math.Min(a.X, b.X) <= c.X && c.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= c.Y && c.Y <= math.Max(a.Y, b.Y)
}

// SegmentIntersectsRect reports whether the segment a-b lies inside r or
// crosses any of its four edges. Used by the selection marquee.
func SegmentIntersectsRect(a, b Pt, r Rect) bool {
	if r.Contains(a) || r.Contains(b) {
		return true
	}
	tl := Pt{r.X, r.Y}
	tr := Pt{r.X + r.W, r.Y}
	bl := Pt{r.X, r.Y + r.H}
	br := Pt{r.X + r.W, r.Y + r.H}
	return SegmentsIntersect(a, b, tl, tr) ||
		SegmentsIntersect(a, b, tr, br) ||
		SegmentsIntersect(a, b, br, bl) ||
		SegmentsIntersect(a, b, bl, tl)
}

// Angle returns the angle of the vector a->b in radians.
func Angle(a, b Pt) float64 { return math.Atan2(b.Y-a.Y, b.X-a.X) }

// AngleDiff returns the absolute smallest difference between two angles.
func AngleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}

// Round2 rounds v to two decimal places. Rounded coordinates are the keys
// used for grid deduplication and persistence round-trips.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }
