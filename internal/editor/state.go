/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"github.com/natelevy2468/openreactions-sub001/internal/geom"
	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
)

// Event is a pointer event already resolved to document coordinates (the
// input producer subtracts the view pan before calling the editor).
type Event struct {
	Pos geom.Pt
	// Snap toggles the paste alignment assist while a paste preview is live.
	Snap bool
}

// Hit is the result of resolving a pointer position against the graph.
// Zero ids and Arrow == -1 mean no hit of that kind.
type Hit struct {
	Vertex  sketch.VertexID
	Segment sketch.SegmentID
	Arrow   int
}

// NoHit is the empty hit value.
var NoHit = Hit{Arrow: -1}

// Selection is the set of elements captured by a marquee. Arrows are
// referenced by list index, matching their identity in the sketch.
type Selection struct {
	Vertices map[sketch.VertexID]bool
	Segments map[sketch.SegmentID]bool
	Arrows   map[int]bool
}

func newSelection() Selection {
	return Selection{
		Vertices: map[sketch.VertexID]bool{},
		Segments: map[sketch.SegmentID]bool{},
		Arrows:   map[int]bool{},
	}
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.Vertices) == 0 && len(s.Segments) == 0 && len(s.Arrows) == 0
}

// ClipVertex is a copied vertex, positioned relative to the selection
// centroid.
type ClipVertex struct {
	Rel       geom.Pt
	Atom      *sketch.Atom
	IsOffGrid bool
}

// ClipSegment references clipboard-local vertex indices. Derived ring and
// rendering fields are not carried; they are recomputed after paste.
type ClipSegment struct {
	A, B          int
	BondOrder     int
	BondType      sketch.BondType
	BondDirection int
}

// Clipboard is a centroid-relative copy of a selection.
type Clipboard struct {
	Vertices []ClipVertex
	Segments []ClipSegment
	Arrows   []sketch.Arrow
}

// marquee is an in-progress rectangular selection drag.
type marquee struct {
	start geom.Pt
	end   geom.Pt
}

func (m marquee) rect() geom.Rect { return geom.FromCorners(m.start, m.end) }

// fourthBond is the transient preview of a valence-affordance drag: a new
// bond from a saturating vertex following the pointer.
type fourthBond struct {
	from  sketch.VertexID
	angle float64 // radians in document space, y down
}

// State is the transient editor state outside the committed graph: the
// active mode plus hover, selection, drag and pending-input bookkeeping.
// It is a single value so tests and history can reason about it explicitly.
type State struct {
	Mode  Mode
	Hover Hit

	// PendingAtom is the vertex awaiting atom-symbol entry, 0 if none.
	// PendingAtomPos is set instead when text mode is about to create an
	// off-grid vertex; the vertex materializes only on a non-empty commit.
	PendingAtom    sketch.VertexID
	PendingAtomPos *geom.Pt

	// CurveStart is the recorded first click of a two-click curved arrow.
	CurveStart *geom.Pt

	Marquee   *marquee
	Selection Selection

	// Affordances marks vertices currently showing the 4th-bond indicator.
	Affordances map[sketch.VertexID]bool
	FourthBond  *fourthBond

	Clipboard *Clipboard
	Pasting   bool
}

func newState() State {
	return State{
		Mode:        ModeDraw,
		Hover:       NoHit,
		Selection:   newSelection(),
		Affordances: map[sketch.VertexID]bool{},
	}
}
