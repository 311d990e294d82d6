/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"fmt"

	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
)

// Mode is the editing tool currently in effect. It is global, set
// explicitly by the user, and orthogonal to the graph state.
type Mode string

const (
	ModeDraw      Mode = "draw"
	ModeErase     Mode = "erase"
	ModeWedge     Mode = "wedge"
	ModeDash      Mode = "dash"
	ModeAmbiguous Mode = "ambiguous"
	ModeArrow     Mode = "arrow"
	ModeEquil     Mode = "equil"
	ModeCurve0    Mode = "curve0"
	ModeCurve1    Mode = "curve1"
	ModeCurve2    Mode = "curve2"
	ModeCurve3    Mode = "curve3"
	ModeCurve4    Mode = "curve4"
	ModeCurve5    Mode = "curve5"
	ModeText      Mode = "text"
	ModeMouse     Mode = "mouse"
	ModePlus      Mode = "plus"
	ModeMinus     Mode = "minus"
	ModeLone      Mode = "lone"
)

// Modes lists every mode in toolbar order.
var Modes = []Mode{
	ModeDraw, ModeErase, ModeWedge, ModeDash, ModeAmbiguous,
	ModeArrow, ModeEquil,
	ModeCurve0, ModeCurve1, ModeCurve2, ModeCurve3, ModeCurve4, ModeCurve5,
	ModeText, ModeMouse, ModePlus, ModeMinus, ModeLone,
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// isCurve reports whether m is one of the six curved-arrow presets and
// returns the preset index.
func (m Mode) curvePreset() (int, bool) {
	switch m {
	case ModeCurve0:
		return 0, true
	case ModeCurve1:
		return 1, true
	case ModeCurve2:
		return 2, true
	case ModeCurve3:
		return 3, true
	case ModeCurve4:
		return 4, true
	case ModeCurve5:
		return 5, true
	}
	return 0, false
}

// stereoType maps a stereo mode to its bond type.
func (m Mode) stereoType() (sketch.BondType, bool) {
	switch m {
	case ModeWedge:
		return sketch.BondWedge, true
	case ModeDash:
		return sketch.BondDash, true
	case ModeAmbiguous:
		return sketch.BondAmbiguous, true
	}
	return sketch.BondPlain, false
}
