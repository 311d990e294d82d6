/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor is the mode-driven edit state machine on top of a sketch.
// All mutations happen synchronously on the caller's goroutine; every
// committed mutation pushes a history snapshot before applying, and derived
// graph annotations are recomputed before the call returns, so a rendering
// consumer never observes stale classification.
package editor

import (
	"encoding/json"
	"log/slog"

	"github.com/natelevy2468/openreactions-sub001/internal/geom"
	"github.com/natelevy2468/openreactions-sub001/internal/history"
	applog "github.com/natelevy2468/openreactions-sub001/internal/log"
	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
)

// handler processes a click for one mode. Handlers mutate the sketch and
// the transient state; illegal inputs are no-ops.
type handler func(e *Editor, ev Event)

// Editor owns a sketch, its undo history and the transient editing state.
type Editor struct {
	sk   *sketch.Sketch
	hist *history.Stack
	st   State

	handlers map[Mode]handler
	log      *slog.Logger
}

// New wraps an existing sketch in an editor starting in draw mode.
func New(sk *sketch.Sketch) *Editor {
	e := &Editor{
		sk:   sk,
		hist: history.NewStack(history.Config{}),
		st:   newState(),
		log:  applog.WithComponent("editor"),
	}
	e.handlers = map[Mode]handler{
		ModeDraw:      (*Editor).clickDraw,
		ModeErase:     (*Editor).clickErase,
		ModeWedge:     (*Editor).clickStereo,
		ModeDash:      (*Editor).clickStereo,
		ModeAmbiguous: (*Editor).clickStereo,
		ModeArrow:     (*Editor).clickArrow,
		ModeEquil:     (*Editor).clickEquil,
		ModeCurve0:    (*Editor).clickCurve,
		ModeCurve1:    (*Editor).clickCurve,
		ModeCurve2:    (*Editor).clickCurve,
		ModeCurve3:    (*Editor).clickCurve,
		ModeCurve4:    (*Editor).clickCurve,
		ModeCurve5:    (*Editor).clickCurve,
		ModeText:      (*Editor).clickText,
		ModeMouse:     (*Editor).clickMouse,
		ModePlus:      (*Editor).clickCharge,
		ModeMinus:     (*Editor).clickCharge,
		ModeLone:      (*Editor).clickLone,
	}
	e.refreshAffordances()
	return e
}

// Sketch exposes the committed graph for the rendering consumer. Callers
// must treat it as read-only.
func (e *Editor) Sketch() *sketch.Sketch { return e.sk }

// State exposes the transient editing state for the rendering consumer.
func (e *Editor) State() *State { return &e.st }

// Mode returns the active mode.
func (e *Editor) Mode() Mode { return e.st.Mode }

// MarqueeRect returns the live marquee rectangle while a selection drag is
// active.
func (e *Editor) MarqueeRect() (geom.Rect, bool) {
	if e.st.Marquee == nil {
		return geom.Rect{}, false
	}
	return e.st.Marquee.rect(), true
}

// SetMode switches the active tool. Transient per-mode state (selection,
// marquee, pending curve start, pending atom entry, paste preview) is
// dropped; clipboard contents survive so a paste can resume later.
func (e *Editor) SetMode(m Mode) {
	if m == e.st.Mode {
		return
	}
	e.st.Mode = m
	e.st.Selection = newSelection()
	e.st.Marquee = nil
	e.st.CurveStart = nil
	e.st.PendingAtom = 0
	e.st.PendingAtomPos = nil
	e.st.FourthBond = nil
	e.st.Pasting = false
}

// Click dispatches a resolved click to the active mode's handler. A paste
// preview intercepts clicks in any mode until committed or cancelled.
func (e *Editor) Click(ev Event) {
	if e.st.Pasting && e.st.Clipboard != nil {
		e.commitPaste(ev)
		return
	}
	if h, ok := e.handlers[e.st.Mode]; ok {
		h(e, ev)
	}
}

// PointerDown begins a drag: a marquee in mouse mode, or a 4th-bond preview
// when the press lands on a valence affordance in draw or stereo modes.
func (e *Editor) PointerDown(ev Event) {
	switch e.st.Mode {
	case ModeMouse:
		if e.hitAny(ev.Pos) == NoHit {
			e.st.Marquee = &marquee{start: ev.Pos, end: ev.Pos}
			e.st.Selection = newSelection()
		}
	case ModeDraw, ModeWedge, ModeDash, ModeAmbiguous:
		if id := e.affordanceAt(ev.Pos); id != 0 {
			e.st.FourthBond = &fourthBond{from: id}
			e.updateFourthBond(ev.Pos)
		}
	}
}

// PointerMove updates whichever preview is live, otherwise the hover hit.
// Previews never touch committed graph state.
func (e *Editor) PointerMove(ev Event) {
	switch {
	case e.st.FourthBond != nil:
		e.updateFourthBond(ev.Pos)
	case e.st.Marquee != nil:
		e.st.Marquee.end = ev.Pos
		e.st.Selection = e.selectionIn(e.st.Marquee.rect())
	default:
		e.st.Hover = e.hitAny(ev.Pos)
	}
}

// PointerUp ends a drag: commits a 4th bond or finalizes the marquee.
func (e *Editor) PointerUp(ev Event) {
	switch {
	case e.st.FourthBond != nil:
		e.commitFourthBond()
	case e.st.Marquee != nil:
		e.st.Selection = e.selectionIn(e.st.Marquee.rect())
		e.st.Marquee = nil
	}
}

// Escape aborts in-progress transient operations: a pending curved-arrow
// start, an active marquee, a 4th-bond drag, a paste preview or an open
// atom entry. The committed graph is never touched.
func (e *Editor) Escape() {
	e.st.CurveStart = nil
	e.st.FourthBond = nil
	e.st.PendingAtom = 0
	e.st.PendingAtomPos = nil
	e.st.Pasting = false
	if e.st.Marquee != nil {
		e.st.Marquee = nil
		e.st.Selection = newSelection()
	}
}

// snapshot pushes the current graph onto the undo stack. Called before
// every committed mutation.
func (e *Editor) snapshot() {
	blob, err := json.Marshal(e.sk)
	if err != nil {
		// the sketch codec has no failure modes for in-memory state
		e.log.Error("snapshot encode failed", slog.Any("err", err))
		return
	}
	e.hist.Push(blob)
}

// Undo restores the previous snapshot. A no-op at the stack boundary.
func (e *Editor) Undo() {
	cur, err := json.Marshal(e.sk)
	if err != nil {
		return
	}
	blob, ok := e.hist.Undo(cur)
	if !ok {
		return
	}
	e.restore(blob)
}

// Redo re-applies an undone snapshot. A no-op at the stack boundary.
func (e *Editor) Redo() {
	cur, err := json.Marshal(e.sk)
	if err != nil {
		return
	}
	blob, ok := e.hist.Redo(cur)
	if !ok {
		return
	}
	e.restore(blob)
}

// CanUndo reports whether an undo step is available.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether a redo step is available.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

func (e *Editor) restore(blob []byte) {
	if err := json.Unmarshal(blob, e.sk); err != nil {
		e.log.Error("snapshot decode failed", slog.Any("err", err))
		return
	}
	// ids may have vanished or reappeared; drop anything pointing at them
	e.st.Hover = NoHit
	e.st.Selection = newSelection()
	e.st.PendingAtom = 0
	e.st.FourthBond = nil
	e.refreshAffordances()
}
