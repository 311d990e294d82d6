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

// gridSnapTolerance is the angular window, in radians, within which a
// 4th-bond drag locks onto an existing grid line's angle.
const gridSnapTolerance = 15 * math.Pi / 180

// qualifiesForFourthBond reports whether a vertex shows the 4th-bond
// indicator: exactly three single bonds and no higher-order bond. Atom
// presence is irrelevant.
func (e *Editor) qualifiesForFourthBond(id sketch.VertexID) bool {
	singles := 0
	for _, sg := range e.sk.BondsAt(id) {
		if sg.BondOrder != 1 {
			return false
		}
		singles++
	}
	return singles == 3
}

// refreshAffordances rebuilds the indicator set from scratch. Graphs stay
// at interactive scale, so a full scan is cheaper than tracking deltas
// through erase, undo and paste.
func (e *Editor) refreshAffordances() {
	for id := range e.st.Affordances {
		delete(e.st.Affordances, id)
	}
	for _, v := range e.sk.Vertices() {
		if e.qualifiesForFourthBond(v.ID) {
			e.st.Affordances[v.ID] = true
		}
	}
}

// affordanceAt returns the indicator vertex under p, or 0.
func (e *Editor) affordanceAt(p geom.Pt) sketch.VertexID {
	v, _ := e.nearestVertex(p)
	if v != nil && e.st.Affordances[v.ID] {
		return v.ID
	}
	return 0
}

// updateFourthBond recalculates the preview angle toward the pointer. For
// on-grid vertices the angle snaps to an existing grid line's angle at the
// source vertex when within tolerance.
func (e *Editor) updateFourthBond(p geom.Pt) {
	fb := e.st.FourthBond
	if fb == nil {
		return
	}
	v := e.sk.Vertex(fb.from)
	if v == nil {
		e.st.FourthBond = nil
		return
	}
	angle := geom.Angle(v.Pos, p)
	if !v.IsOffGrid {
		bestDiff := gridSnapTolerance
		snapped := angle
		for _, sid := range e.sk.SegmentsAt(v.ID) {
			sg := e.sk.Segment(sid)
			if sg == nil || sg.BondOrder != 0 {
				continue
			}
			o := e.sk.Vertex(sg.Other(v.ID))
			if o == nil {
				continue
			}
			ga := geom.Angle(v.Pos, o.Pos)
			if d := math.Abs(geom.AngleDiff(angle, ga)); d <= bestDiff {
				bestDiff, snapped = d, ga
			}
		}
		angle = snapped
	}
	fb.angle = angle
}

// FourthBondPreview returns the live endpoint of a 4th-bond drag for the
// rendering consumer, and whether one is active.
func (e *Editor) FourthBondPreview() (from sketch.VertexID, to geom.Pt, ok bool) {
	fb := e.st.FourthBond
	if fb == nil {
		return 0, geom.Pt{}, false
	}
	v := e.sk.Vertex(fb.from)
	if v == nil {
		return 0, geom.Pt{}, false
	}
	to = geom.Pt{
		X: v.Pos.X + sketch.HexRadius*math.Cos(fb.angle),
		Y: v.Pos.Y + sketch.HexRadius*math.Sin(fb.angle),
	}
	return fb.from, to, true
}

// commitFourthBond turns the preview into a real hexRadius-length bond and
// vertex, inheriting the active stereo mode, then opens atom entry on the
// new vertex. The source vertex now has four bonds and loses its indicator.
func (e *Editor) commitFourthBond() {
	from, to, ok := e.FourthBondPreview()
	e.st.FourthBond = nil
	if !ok {
		return
	}
	e.snapshot()
	nv := e.sk.AddVertex(to, false)
	sg, err := e.sk.AddSegment(from, nv.ID)
	if err != nil {
		e.log.Error("fourth bond segment", "err", err)
		return
	}
	e.sk.SetBondOrder(sg, 1)
	if bt, stereo := e.st.Mode.stereoType(); stereo {
		sg.BondType = bt
		sg.BondDirection = 1
	}
	e.sk.Recompute(from, nv.ID)
	e.refreshAffordances()
	e.st.PendingAtom = nv.ID
	e.st.PendingAtomPos = nil
}
