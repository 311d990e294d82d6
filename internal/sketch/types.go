/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sketch

// This file defines the core data model of the structure sketcher: vertices,
// segments (potential and real bonds), atom annotations and reaction arrows.
// Identity is a stable integer id assigned at creation; rounded coordinates
// are kept only as an index for grid deduplication and hit-testing.

import "github.com/natelevy2468/openreactions-sub001/internal/geom"

// Session-scoped rendering-parity constants. These are fixed by design, not
// runtime tunables: changing them changes what saved sketches look like.
const (
	// HexRadius is the circumradius of a grid hexagon in document units.
	HexRadius = 60.0
	// VertexHitThreshold is the max distance for a pointer to resolve a vertex.
	VertexHitThreshold = 15.0
	// SegmentHitThreshold is the max perpendicular distance to resolve a segment.
	SegmentHitThreshold = 10.0
	// LonePairOffset is the glyph distance from the atom label center.
	LonePairOffset = 14.0
	// ChargeOffset is the charge glyph distance above/below the atom label.
	ChargeOffset = 12.0
)

// VertexID and SegmentID are arena-style identifiers, unique per sketch.
type VertexID int
type SegmentID int

// VertexKind is the derived classification A..H of a vertex, a pure function
// of the directions of its connected real bonds.
type VertexKind string

const (
	KindA VertexKind = "A" // no bonds, or unmatched pattern
	KindB VertexKind = "B" // one vertical bond
	KindC VertexKind = "C" // one topLeftFacing bond
	KindD VertexKind = "D" // one topRightFacing bond
	KindE VertexKind = "E" // vertical + topLeftFacing
	KindF VertexKind = "F" // vertical + topRightFacing
	KindG VertexKind = "G" // topLeftFacing + topRightFacing
	KindH VertexKind = "H" // three bonds
)

// Direction is the orientation class of a segment, derived once from the
// slope between its endpoints and cached.
type Direction string

const (
	Vertical       Direction = "vertical"
	TopLeftFacing  Direction = "topLeftFacing"  // upper endpoint is the left one
	TopRightFacing Direction = "topRightFacing" // upper endpoint is the right one
)

// BondType distinguishes plain bonds from stereo bonds.
type BondType string

const (
	BondPlain     BondType = ""
	BondWedge     BondType = "wedge"
	BondDash      BondType = "dash"
	BondAmbiguous BondType = "ambiguous"
)

// LonePairPos is one of the four positions a lone pair glyph can occupy.
type LonePairPos string

const (
	PosTop    LonePairPos = "top"
	PosRight  LonePairPos = "right"
	PosBottom LonePairPos = "bottom"
	PosLeft   LonePairPos = "left"
)

// Atom annotates a vertex with an element label and electron bookkeeping.
type Atom struct {
	Symbol    string `json:"element"`
	Charge    int    `json:"charge"`    // -1, 0 or +1
	LonePairs int    `json:"lonePairs"` // 0..8
	// LonePairOrder is the priority order in which the four positions fill.
	// Cached from the classifier table when lone pairs are first added.
	LonePairOrder []LonePairPos `json:"lonePairOrder,omitempty"`
}

// Vertex is a positioned graph node. Kind and IsTop are derived from the
// connected segments and recomputed after every structural change; they are
// cached here only so the rendering consumer never re-derives them.
type Vertex struct {
	ID        VertexID   `json:"id"`
	Pos       geom.Pt    `json:"pos"`
	Atom      *Atom      `json:"atom,omitempty"`
	Kind      VertexKind `json:"kind"`
	IsTop     bool       `json:"isTop"`
	IsOffGrid bool       `json:"isOffGrid"` // created free-hand in text mode
}

// Segment connects two vertices. BondOrder 0 means a grid line (a potential
// bond position), not a rendered bond; order-0 segments never carry stereo
// data. Ring and rendering annotations are derived and recomputed after
// structural changes.
type Segment struct {
	ID SegmentID `json:"id"`
	A  VertexID  `json:"a"`
	B  VertexID  `json:"b"`

	BondOrder     int       `json:"bondOrder"` // 0..3
	BondType      BondType  `json:"bondType,omitempty"`
	BondDirection int       `json:"bondDirection,omitempty"` // 1 forward, -1 flipped
	Direction     Direction `json:"direction"`

	// Double-bond rendering helpers, set when entering order 2.
	Upper VertexID `json:"upper,omitempty"`
	Lower VertexID `json:"lower,omitempty"`

	FlipSmallerLine  bool `json:"flipSmallerLine,omitempty"`
	IsInRing         bool `json:"isInRing,omitempty"`
	IsSpecialBond    bool `json:"isSpecialBond,omitempty"`
	IsSharedRingBond bool `json:"isSharedRingBond,omitempty"`
	RingOrientation  bool `json:"ringOrientation,omitempty"`
}

// IsBond reports whether the segment is a real bond rather than a grid line.
func (s *Segment) IsBond() bool { return s.BondOrder > 0 }

// ArrowKind enumerates the reaction arrow variants.
type ArrowKind string

const (
	ArrowStraight    ArrowKind = "straight"
	ArrowEquilibrium ArrowKind = "equilibrium"
	ArrowCurved      ArrowKind = "curved"
)

// Arrow is a reaction arrow. Arrows reference absolute document coordinates
// and are independent of the vertex/segment graph; identity is list order.
type Arrow struct {
	Kind ArrowKind `json:"kind"`

	// Straight and curved arrows: endpoints.
	X1 float64 `json:"x1,omitempty"`
	Y1 float64 `json:"y1,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`

	// Equilibrium arrows: two independently draggable horizontal halves.
	TopX1    float64 `json:"topX1,omitempty"`
	TopX2    float64 `json:"topX2,omitempty"`
	BottomX1 float64 `json:"bottomX1,omitempty"`
	BottomX2 float64 `json:"bottomX2,omitempty"`
	Y        float64 `json:"y,omitempty"`

	// Curved arrows: quadratic control point plus the curvature preset 0..5.
	PeakX  float64 `json:"peakX,omitempty"`
	PeakY  float64 `json:"peakY,omitempty"`
	Preset int     `json:"preset,omitempty"`
}

// Ring is an ordered closed cycle of vertices.
type Ring struct {
	Vertices []VertexID
	Segments []SegmentID
}
