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

// defaultArrowLength is the span of a straight or equilibrium arrow placed
// by a single click.
const defaultArrowLength = 150.0

// curveFactors maps preset%3 to the perpendicular peak offset as a fraction
// of half the chord length.
var curveFactors = [3]float64{0.25, 0.6, 1.0}

// clickDraw cycles bond order on a segment hit or opens atom entry on a
// vertex hit.
func (e *Editor) clickDraw(ev Event) {
	v, vd := e.nearestVertex(ev.Pos)
	sg, sd := e.nearestSegment(ev.Pos)
	switch {
	case v != nil && (sg == nil || vd <= sd):
		e.st.PendingAtom = v.ID
		e.st.PendingAtomPos = nil
	case sg != nil:
		e.snapshot()
		e.sk.SetBondOrder(sg, (sg.BondOrder+1)%3)
		e.sk.Recompute(sg.A, sg.B)
		e.refreshAffordances()
	}
}

// clickStereo applies the three-click stereo cycle on single bonds: set the
// type with direction 1, flip to -1, then remove the bond. Grid lines gain
// an order-1 stereo bond; double bonds are left alone.
func (e *Editor) clickStereo(ev Event) {
	bt, ok := e.st.Mode.stereoType()
	if !ok {
		return
	}
	sg, sd := e.nearestSegment(ev.Pos)
	if sg == nil {
		return
	}
	if v, vd := e.nearestVertex(ev.Pos); v != nil && vd <= sd {
		return
	}
	if sg.BondOrder >= 2 {
		return
	}
	e.snapshot()
	switch {
	case sg.BondOrder == 0:
		e.sk.SetBondOrder(sg, 1)
		sg.BondType = bt
		sg.BondDirection = 1
	case sg.BondType != bt:
		sg.BondType = bt
		sg.BondDirection = 1
	case sg.BondDirection == 1:
		sg.BondDirection = -1
	default:
		e.sk.SetBondOrder(sg, 0)
	}
	e.sk.Recompute(sg.A, sg.B)
	e.refreshAffordances()
}

// clickErase deletes whatever the click resolves to: bond, atom annotation
// or arrow. Grid vertices themselves are never deleted.
func (e *Editor) clickErase(ev Event) {
	v, vd := e.nearestVertex(ev.Pos)
	sg, sd := e.nearestSegment(ev.Pos)
	switch {
	case sg != nil && sg.IsBond() && (v == nil || sd < vd):
		e.snapshot()
		e.sk.SetBondOrder(sg, 0)
		e.sk.Recompute(sg.A, sg.B)
		e.refreshAffordances()
	case v != nil && v.Atom != nil:
		e.snapshot()
		v.Atom = nil
		if v.IsOffGrid && len(e.sk.BondsAt(v.ID)) == 0 {
			e.sk.RemoveVertex(v.ID)
		}
		e.sk.Recompute()
	default:
		if i, _ := e.nearestArrow(ev.Pos); i >= 0 {
			e.snapshot()
			e.sk.RemoveArrow(i)
		}
	}
}

// clickCharge toggles the atom charge between 0 and the mode's sign.
func (e *Editor) clickCharge(ev Event) {
	v, _ := e.nearestVertex(ev.Pos)
	if v == nil || v.Atom == nil {
		return
	}
	want := 1
	if e.st.Mode == ModeMinus {
		want = -1
	}
	e.snapshot()
	if v.Atom.Charge == want {
		v.Atom.Charge = 0
	} else {
		v.Atom.Charge = want
	}
}

// clickLone increments the lone pair count modulo 9, caching the positional
// fill order from the classifier table on the 0 to 1 transition.
func (e *Editor) clickLone(ev Event) {
	v, _ := e.nearestVertex(ev.Pos)
	if v == nil || v.Atom == nil {
		return
	}
	e.snapshot()
	v.Atom.LonePairs = (v.Atom.LonePairs + 1) % 9
	switch {
	case v.Atom.LonePairs == 0:
		v.Atom.LonePairOrder = nil
	case v.Atom.LonePairOrder == nil:
		v.Atom.LonePairOrder = sketch.LonePairOrder(v.Kind, v.IsTop)
	}
}

// clickText opens atom entry: on an existing vertex directly, on empty
// canvas for an off-grid vertex created when the entry commits non-empty.
func (e *Editor) clickText(ev Event) {
	if v, _ := e.nearestVertex(ev.Pos); v != nil {
		e.st.PendingAtom = v.ID
		e.st.PendingAtomPos = nil
		return
	}
	p := ev.Pos
	e.st.PendingAtom = 0
	e.st.PendingAtomPos = &p
}

// clickArrow places a fixed-length horizontal reaction arrow centered at
// the click point.
func (e *Editor) clickArrow(ev Event) {
	e.snapshot()
	e.sk.AddArrow(&sketch.Arrow{
		Kind: sketch.ArrowStraight,
		X1:   ev.Pos.X - defaultArrowLength/2,
		Y1:   ev.Pos.Y,
		X2:   ev.Pos.X + defaultArrowLength/2,
		Y2:   ev.Pos.Y,
	})
}

// clickEquil places a fixed-length equilibrium arrow pair centered at the
// click point.
func (e *Editor) clickEquil(ev Event) {
	e.snapshot()
	e.sk.AddArrow(&sketch.Arrow{
		Kind:     sketch.ArrowEquilibrium,
		TopX1:    ev.Pos.X - defaultArrowLength/2,
		TopX2:    ev.Pos.X + defaultArrowLength/2,
		BottomX1: ev.Pos.X - defaultArrowLength/2,
		BottomX2: ev.Pos.X + defaultArrowLength/2,
		Y:        ev.Pos.Y,
	})
}

/// clickCurve implements the two-click curved arrow: the first click records
// a pending start, the second commits the arrow with a preset-dependent
// control point. Escape clears the pending start.
func (e *Editor) clickCurve(ev Event) {
	preset, ok := e.st.Mode.curvePreset()
	if !ok {
		return
	}
	if e.st.CurveStart == nil {
		p := ev.Pos
		e.st.CurveStart = &p
		return
	}
	start := *e.st.CurveStart
	e.st.CurveStart = nil
	peak := curvePeak(start, ev.Pos, preset)
	e.snapshot()
	e.sk.AddArrow(&sketch.Arrow{
		Kind:   sketch.ArrowCurved,
		X1:     start.X,
		Y1:     start.Y,
		X2:     ev.Pos.X,
		Y2:     ev.Pos.Y,
		PeakX:  peak.X,
		PeakY:  peak.Y,
		Preset: preset,
	})
}

// curvePeak computes the quadratic control point for a curved arrow chord.
// Presets 0..2 bow clockwise, 3..5 counter-clockwise; the offset scales
// with the chord length. A zero-length chord collapses to the midpoint.
func curvePeak(a, b geom.Pt, preset int) geom.Pt {
	mid := geom.Pt{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return mid
	}
	// perpendicular to the chord; document y grows downward
	px, py := dy, -dx
	if preset >= 3 {
		px, py = -dy, dx
	}
	off := curveFactors[preset%3] * length / 2
	return geom.Pt{X: mid.X + px/length*off, Y: mid.Y + py/length*off}
}

// clickMouse is a no-op: selection happens through the pointer drag path
// and paste previews are intercepted before dispatch.
func (e *Editor) clickMouse(Event) {}

// CommitAtomEntry finishes an open atom-symbol entry. A non-empty symbol
// creates or overwrites the atom; an empty symbol removes it. Text-mode
// entries on empty canvas materialize their off-grid vertex here, so a
// cancelled entry leaves no trace in the graph.
func (e *Editor) CommitAtomEntry(symbol string) {
	switch {
	case e.st.PendingAtomPos != nil:
		pos := *e.st.PendingAtomPos
		e.st.PendingAtomPos = nil
		if symbol == "" {
			return
		}
		e.snapshot()
		v := e.sk.AddVertex(pos, true)
		v.Atom = &sketch.Atom{Symbol: symbol}
		e.sk.Recompute(v.ID)
	case e.st.PendingAtom != 0:
		v := e.sk.Vertex(e.st.PendingAtom)
		e.st.PendingAtom = 0
		if v == nil {
			return
		}
		e.snapshot()
		if symbol == "" {
			v.Atom = nil
			if v.IsOffGrid && len(e.sk.BondsAt(v.ID)) == 0 {
				e.sk.RemoveVertex(v.ID)
			}
		} else {
			v.Atom = &sketch.Atom{Symbol: symbol}
		}
		e.sk.Recompute()
	}
}

// CancelAtomEntry discards an open atom-symbol entry without mutating the
// graph.
func (e *Editor) CancelAtomEntry() {
	e.st.PendingAtom = 0
	e.st.PendingAtomPos = nil
}

// PendingAtomEntry reports whether an atom-symbol entry is open.
func (e *Editor) PendingAtomEntry() bool {
	return e.st.PendingAtom != 0 || e.st.PendingAtomPos != nil
}
