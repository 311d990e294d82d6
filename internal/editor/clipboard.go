/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"sort"

	"github.com/natelevy2468/openreactions-sub001/internal/geom"
	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
)

// pasteSnapRange is the max distance a snap-assisted paste will shift to
// align with an existing vertex.
const pasteSnapRange = sketch.HexRadius / 2

// selectionIn computes marquee membership: a vertex by point-in-rect, a
// segment or arrow when the rectangle contains or crosses its line.
func (e *Editor) selectionIn(r geom.Rect) Selection {
	sel := newSelection()
	for _, v := range e.sk.Vertices() {
		if r.Contains(v.Pos) {
			sel.Vertices[v.ID] = true
		}
	}
	for _, sg := range e.sk.Segments() {
		if !sg.IsBond() {
			continue
		}
		a, b := e.sk.Vertex(sg.A), e.sk.Vertex(sg.B)
		if a == nil || b == nil {
			continue
		}
		if geom.SegmentIntersectsRect(a.Pos, b.Pos, r) {
			sel.Segments[sg.ID] = true
		}
	}
	for i, a := range e.sk.Arrows() {
		if arrowIntersectsRect(a, r) {
			sel.Arrows[i] = true
		}
	}
	return sel
}

func arrowIntersectsRect(a *sketch.Arrow, r geom.Rect) bool {
	switch a.Kind {
	case sketch.ArrowStraight, sketch.ArrowCurved:
		// curved arrows select by chord, not flattened path
		return geom.SegmentIntersectsRect(
			geom.Pt{X: a.X1, Y: a.Y1}, geom.Pt{X: a.X2, Y: a.Y2}, r)
	case sketch.ArrowEquilibrium:
		return geom.SegmentIntersectsRect(
			geom.Pt{X: a.TopX1, Y: a.Y}, geom.Pt{X: a.TopX2, Y: a.Y}, r) ||
			geom.SegmentIntersectsRect(
				geom.Pt{X: a.BottomX1, Y: a.Y}, geom.Pt{X: a.BottomX2, Y: a.Y}, r)
	}
	return false
}

// arrowBounds is the bounding box contribution of an arrow.
func arrowBounds(a *sketch.Arrow) geom.Rect {
	switch a.Kind {
	case sketch.ArrowEquilibrium:
		top := geom.FromCorners(
			geom.Pt{X: a.TopX1, Y: a.Y}, geom.Pt{X: a.TopX2, Y: a.Y})
		return top.Union(geom.FromCorners(
			geom.Pt{X: a.BottomX1, Y: a.Y}, geom.Pt{X: a.BottomX2, Y: a.Y}))
	default:
		return geom.FromCorners(
			geom.Pt{X: a.X1, Y: a.Y1}, geom.Pt{X: a.X2, Y: a.Y2})
	}
}

// shiftArrow returns a copy of a with every coordinate translated by
// (dx, dy).
func shiftArrow(a *sketch.Arrow, dx, dy float64) sketch.Arrow {
	c := *a
	switch a.Kind {
	case sketch.ArrowEquilibrium:
		c.TopX1 += dx
		c.TopX2 += dx
		c.BottomX1 += dx
		c.BottomX2 += dx
		c.Y += dy
	default:
		c.X1 += dx
		c.Y1 += dy
		c.X2 += dx
		c.Y2 += dy
		c.PeakX += dx
		c.PeakY += dy
	}
	return c
}

// Copy captures the current selection into the clipboard, relative to the
// selection's bounding-box centroid, then enters paste mode and clears the
// live selection. A no-op when nothing is selected.
func (e *Editor) Copy() {
	sel := e.st.Selection
	if sel.Empty() {
		return
	}

	// vertices touched by a selected segment ride along
	include := map[sketch.VertexID]bool{}
	for id := range sel.Vertices {
		include[id] = true
	}
	segs := make([]sketch.SegmentID, 0, len(sel.Segments))
	for id := range sel.Segments {
		segs = append(segs, id)
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i] < segs[j] })
	for _, id := range segs {
		if sg := e.sk.Segment(id); sg != nil {
			include[sg.A] = true
			include[sg.B] = true
		}
	}
	ids := make([]sketch.VertexID, 0, len(include))
	for id := range include {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	arrows := make([]int, 0, len(sel.Arrows))
	for i := range sel.Arrows {
		arrows = append(arrows, i)
	}
	sort.Ints(arrows)

	var bounds geom.Rect
	first := true
	grow := func(r geom.Rect) {
		if first {
			bounds, first = r, false
		} else {
			bounds = bounds.Union(r)
		}
	}
	for _, id := range ids {
		if v := e.sk.Vertex(id); v != nil {
			grow(geom.FromCorners(v.Pos, v.Pos))
		}
	}
	for _, i := range arrows {
		grow(arrowBounds(e.sk.Arrows()[i]))
	}
	if first {
		return
	}
	center := bounds.Center()

	clip := &Clipboard{}
	local := map[sketch.VertexID]int{}
	for _, id := range ids {
		v := e.sk.Vertex(id)
		if v == nil {
			continue
		}
		cv := ClipVertex{
			Rel:       geom.Pt{X: v.Pos.X - center.X, Y: v.Pos.Y - center.Y},
			IsOffGrid: v.IsOffGrid,
		}
		if v.Atom != nil {
			atom := *v.Atom
			atom.LonePairOrder = append([]sketch.LonePairPos(nil), v.Atom.LonePairOrder...)
			cv.Atom = &atom
		}
		local[id] = len(clip.Vertices)
		clip.Vertices = append(clip.Vertices, cv)
	}
	for _, id := range segs {
		sg := e.sk.Segment(id)
		if sg == nil {
			continue
		}
		clip.Segments = append(clip.Segments, ClipSegment{
			A:             local[sg.A],
			B:             local[sg.B],
			BondOrder:     sg.BondOrder,
			BondType:      sg.BondType,
			BondDirection: sg.BondDirection,
		})
	}
	for _, i := range arrows {
		clip.Arrows = append(clip.Arrows, shiftArrow(e.sk.Arrows()[i], -center.X, -center.Y))
	}

	e.st.Clipboard = clip
	e.st.Pasting = true
	e.st.Selection = newSelection()
}

// commitPaste instantiates the clipboard at the event position. With the
// snap modifier held the paste offset first tries to align a pasted vertex
// with an existing bonded vertex, then with any grid vertex.
func (e *Editor) commitPaste(ev Event) {
	clip := e.st.Clipboard
	if clip == nil {
		return
	}
	offset := ev.Pos
	if ev.Snap {
		offset = e.snapPasteOffset(clip, offset)
	}

	e.snapshot()
	created := make([]sketch.VertexID, len(clip.Vertices))
	touched := make([]sketch.VertexID, 0, len(clip.Vertices))
	for i, cv := range clip.Vertices {
		pos := geom.Pt{X: offset.X + cv.Rel.X, Y: offset.Y + cv.Rel.Y}
		v := e.sk.AddVertex(pos, cv.IsOffGrid)
		if cv.Atom != nil {
			atom := *cv.Atom
			atom.LonePairOrder = append([]sketch.LonePairPos(nil), cv.Atom.LonePairOrder...)
			v.Atom = &atom
		}
		created[i] = v.ID
		touched = append(touched, v.ID)
	}
	for _, cs := range clip.Segments {
		sg, err := e.sk.AddSegment(created[cs.A], created[cs.B])
		if err != nil {
			continue
		}
		e.sk.SetBondOrder(sg, cs.BondOrder)
		if cs.BondOrder == 1 {
			sg.BondType = cs.BondType
			sg.BondDirection = cs.BondDirection
		}
	}
	for i := range clip.Arrows {
		a := shiftArrow(&clip.Arrows[i], offset.X, offset.Y)
		e.sk.AddArrow(&a)
	}
	e.sk.Recompute(touched...)
	e.refreshAffordances()
	e.st.Pasting = false
}

// snapPasteOffset adjusts the paste offset so that the pasted vertex
// closest to an existing bonded vertex lands exactly on it; failing that,
// it aligns to the nearest grid vertex. Offsets beyond pasteSnapRange are
// returned unchanged.
func (e *Editor) snapPasteOffset(clip *Clipboard, target geom.Pt) geom.Pt {
	type candidate struct {
		delta geom.Pt
		dist  float64
	}
	var bestBond, bestGrid *candidate
	for _, cv := range clip.Vertices {
		p := geom.Pt{X: target.X + cv.Rel.X, Y: target.Y + cv.Rel.Y}
		for _, v := range e.sk.Vertices() {
			d := geom.Dist(p, v.Pos)
			if d > pasteSnapRange {
				continue
			}
			c := candidate{
				delta: geom.Pt{X: v.Pos.X - p.X, Y: v.Pos.Y - p.Y},
				dist:  d,
			}
			if len(e.sk.BondsAt(v.ID)) > 0 {
				if bestBond == nil || c.dist < bestBond.dist {
					cc := c
					bestBond = &cc
				}
			} else if !v.IsOffGrid {
				if bestGrid == nil || c.dist < bestGrid.dist {
					cc := c
					bestGrid = &cc
				}
			}
		}
	}
	pick := bestBond
	if pick == nil {
		pick = bestGrid
	}
	if pick == nil {
		return target
	}
	return geom.Pt{X: target.X + pick.delta.X, Y: target.Y + pick.delta.Y}
}
