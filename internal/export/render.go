/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a sketch to SVG, PDF and PNG. All three backends
// walk the same flat display list so bond geometry (double-bond offsets,
// wedge triangles, hash rungs, arrowheads) is computed exactly once.
package export

import (
	"math"

	"github.com/natelevy2468/openreactions-sub001/internal/geom"
	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
)

// Options controls sketch export behavior. Dimensions are document units;
// DPI only affects raster pixel sizing and the SVG width/height attributes.
type Options struct {
	IncludeGrid bool // also draw order-0 grid lines (faint)
	DPI         int  // default 300
	Margin      float64
	LineWidth   float64
}

// Rendering constants in document units. These track the on-canvas look of
// the sketcher so exports match what the user drew.
const (
	defaultMargin   = 30.0
	defaultLineW    = 2.0
	labelGap        = 9.0  // bond lines stop short of a labeled vertex
	doubleGap       = 7.0  // offset of the secondary double-bond line
	smallerLineTrim = 0.15 // fraction trimmed from each end of the secondary line
	wedgeWide       = 7.0
	hashStep        = 5.0
	waveAmp         = 3.0
	waveStep        = 6.0
	arrowHeadLen    = 12.0
	arrowHeadWide   = 5.0
	equilGap        = 4.0
	labelFontSize   = 13.0
	chargeFontSize  = 10.0
	lonePairDotR    = 1.8
	lonePairDotSep  = 4.0
	curveSteps      = 24
)

func (o Options) margin() float64 {
	if o.Margin > 0 {
		return o.Margin
	}
	return defaultMargin
}

func (o Options) lineWidth() float64 {
	if o.LineWidth > 0 {
		return o.LineWidth
	}
	return defaultLineW
}

func (o Options) dpi() int {
	if o.DPI > 0 {
		return o.DPI
	}
	return 300
}

type Line struct {
	A, B geom.Pt
	W    float64
}

type Poly struct {
	Pts []geom.Pt
}

type Polyline struct {
	Pts []geom.Pt
	W   float64
}

type Dot struct {
	At geom.Pt
	R  float64
}

type Text struct {
	At   geom.Pt // glyph center
	Text string
	Size float64
}

// Scene is the resolved display list of a sketch in document coordinates.
// Bounds already include the margin; consumers translate by -Bounds.Min().
// The UI canvas walks the same list the file exporters do.
type Scene struct {
	Bounds    geom.Rect
	GridLines []Line
	Lines     []Line
	Polys     []Poly
	Polylines []Polyline
	Dots      []Dot
	Texts     []Text
}

// BuildScene flattens the drawable content of a sketch. Only the bonded
// subgraph, labeled vertices and arrows contribute; bare grid vertices do
// not (unless IncludeGrid asks for the grid lines themselves).
func BuildScene(s *sketch.Sketch, opt Options) *Scene {
	sc := &Scene{}
	lw := opt.lineWidth()

	hasContent := false
	addPt := func(p geom.Pt, pad float64) {
		r := geom.R(p.X-pad, p.Y-pad, 2*pad, 2*pad)
		if !hasContent {
			sc.Bounds = r
			hasContent = true
			return
		}
		sc.Bounds = sc.Bounds.Union(r)
	}

	for _, sg := range s.Segments() {
		a := s.Vertex(sg.A)
		b := s.Vertex(sg.B)
		if a == nil || b == nil || geom.Dist(a.Pos, b.Pos) == 0 {
			continue
		}
		if !sg.IsBond() {
			if opt.IncludeGrid {
				sc.GridLines = append(sc.GridLines, Line{A: a.Pos, B: b.Pos, W: lw / 2})
				addPt(a.Pos, lw)
				addPt(b.Pos, lw)
			}
			continue
		}
		sc.addBond(s, sg, a, b, lw)
		addPt(a.Pos, wedgeWide)
		addPt(b.Pos, wedgeWide)
	}

	for _, v := range s.Vertices() {
		if v.Atom == nil || v.Atom.Symbol == "" {
			continue
		}
		sc.addAtom(v)
		addPt(v.Pos, sketch.LonePairOffset+lonePairDotR)
	}

	for _, ar := range s.Arrows() {
		sc.addArrow(ar, lw)
		for _, p := range arrowExtent(ar) {
			addPt(p, arrowHeadWide)
		}
	}

	if !hasContent {
		sc.Bounds = geom.R(0, 0, 2*sketch.HexRadius, 2*sketch.HexRadius)
	}
	m := opt.margin()
	sc.Bounds = geom.R(sc.Bounds.X-m, sc.Bounds.Y-m, sc.Bounds.W+2*m, sc.Bounds.H+2*m)
	return sc
}

// trimmedEnds pulls the bond line back from labeled endpoints so the line
// does not run through the element glyph.
func trimmedEnds(a, b *sketch.Vertex) (geom.Pt, geom.Pt) {
	p1, p2 := a.Pos, b.Pos
	d := geom.Dist(p1, p2)
	ux := (p2.X - p1.X) / d
	uy := (p2.Y - p1.Y) / d
	if labeled(a) && d > 2*labelGap {
		p1 = geom.Pt{X: p1.X + ux*labelGap, Y: p1.Y + uy*labelGap}
	}
	if labeled(b) && d > 2*labelGap {
		p2 = geom.Pt{X: p2.X - ux*labelGap, Y: p2.Y - uy*labelGap}
	}
	return p1, p2
}

func labeled(v *sketch.Vertex) bool {
	return v.Atom != nil && v.Atom.Symbol != ""
}

func (sc *Scene) addBond(s *sketch.Sketch, sg *sketch.Segment, a, b *sketch.Vertex, lw float64) {
	p1, p2 := trimmedEnds(a, b)
	d := geom.Dist(p1, p2)
	if d == 0 {
		return
	}
	ux := (p2.X - p1.X) / d
	uy := (p2.Y - p1.Y) / d
	// Perpendicular pointing toward the upper endpoint's side.
	px, py := uy, -ux

	switch sg.BondOrder {
	case 1:
		switch sg.BondType {
		case sketch.BondWedge:
			sc.addWedge(p1, p2, px, py, sg.BondDirection)
		case sketch.BondDash:
			sc.addHash(p1, p2, px, py, sg.BondDirection, lw)
		case sketch.BondAmbiguous:
			sc.addWave(p1, p2, px, py, lw)
		default:
			sc.Lines = append(sc.Lines, Line{A: p1, B: p2, W: lw})
		}
	case 2:
		sc.Lines = append(sc.Lines, Line{A: p1, B: p2, W: lw})
		off := doubleGap
		// The secondary line sits toward the Upper endpoint unless the ring
		// pass oriented it inward, with FlipSmallerLine as the final word.
		if s.Vertex(sg.Upper) != nil && sg.Upper == sg.B {
			off = -off
		}
		if sg.RingOrientation {
			off = -off
		}
		if sg.FlipSmallerLine {
			off = -off
		}
		t := d * smallerLineTrim
		q1 := geom.Pt{X: p1.X + ux*t + px*off, Y: p1.Y + uy*t + py*off}
		q2 := geom.Pt{X: p2.X - ux*t + px*off, Y: p2.Y - uy*t + py*off}
		sc.Lines = append(sc.Lines, Line{A: q1, B: q2, W: lw})
	case 3:
		sc.Lines = append(sc.Lines, Line{A: p1, B: p2, W: lw})
		for _, off := range []float64{doubleGap, -doubleGap} {
			q1 := geom.Pt{X: p1.X + px*off, Y: p1.Y + py*off}
			q2 := geom.Pt{X: p2.X + px*off, Y: p2.Y + py*off}
			sc.Lines = append(sc.Lines, Line{A: q1, B: q2, W: lw})
		}
	}
}

// addWedge emits a filled triangle, narrow at the stereocenter end. A flipped
// BondDirection swaps which endpoint is the point.
func (sc *Scene) addWedge(p1, p2 geom.Pt, px, py float64, dir int) {
	tip, base := p1, p2
	if dir < 0 {
		tip, base = p2, p1
	}
	sc.Polys = append(sc.Polys, Poly{Pts: []geom.Pt{
		tip,
		{X: base.X + px*wedgeWide/2, Y: base.Y + py*wedgeWide/2},
		{X: base.X - px*wedgeWide/2, Y: base.Y - py*wedgeWide/2},
	}})
}

// addHash emits the rungs of a hashed (dash) bond, growing from the
// stereocenter toward the far end.
func (sc *Scene) addHash(p1, p2 geom.Pt, px, py float64, dir int, lw float64) {
	from, to := p1, p2
	if dir < 0 {
		from, to = p2, p1
	}
	d := geom.Dist(from, to)
	n := int(d / hashStep)
	if n < 2 {
		n = 2
	}
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		cx := from.X + (to.X-from.X)*t
		cy := from.Y + (to.Y-from.Y)*t
		half := wedgeWide / 2 * t
		sc.Lines = append(sc.Lines, Line{
			A: geom.Pt{X: cx + px*half, Y: cy + py*half},
			B: geom.Pt{X: cx - px*half, Y: cy - py*half},
			W: lw,
		})
	}
}

// addWave emits the squiggle of an ambiguous bond as a polyline.
func (sc *Scene) addWave(p1, p2 geom.Pt, px, py float64, lw float64) {
	d := geom.Dist(p1, p2)
	n := int(d / waveStep)
	if n < 4 {
		n = 4
	}
	pts := make([]geom.Pt, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		amp := waveAmp * math.Sin(t*float64(n)*math.Pi)
		pts = append(pts, geom.Pt{
			X: p1.X + (p2.X-p1.X)*t + px*amp,
			Y: p1.Y + (p2.Y-p1.Y)*t + py*amp,
		})
	}
	sc.Polylines = append(sc.Polylines, Polyline{Pts: pts, W: lw})
}

func (sc *Scene) addAtom(v *sketch.Vertex) {
	sc.Texts = append(sc.Texts, Text{At: v.Pos, Text: v.Atom.Symbol, Size: labelFontSize})
	if v.Atom.Charge != 0 {
		glyph := "+"
		if v.Atom.Charge < 0 {
			glyph = "-"
		}
		at := geom.Pt{X: v.Pos.X + sketch.ChargeOffset, Y: v.Pos.Y - sketch.ChargeOffset}
		sc.Texts = append(sc.Texts, Text{At: at, Text: glyph, Size: chargeFontSize})
	}
	if v.Atom.LonePairs > 0 {
		order := v.Atom.LonePairOrder
		if len(order) == 0 {
			order = []sketch.LonePairPos{sketch.PosTop, sketch.PosRight, sketch.PosBottom, sketch.PosLeft}
		}
		for i := 0; i < v.Atom.LonePairs; i++ {
			pos := order[i%len(order)]
			sc.addLonePair(v.Pos, pos)
		}
	}
}

// addLonePair places the two dots of one pair at a compass position around
// the label, separated perpendicular to the offset direction.
func (sc *Scene) addLonePair(center geom.Pt, pos sketch.LonePairPos) {
	var ox, oy float64
	switch pos {
	case sketch.PosTop:
		oy = -sketch.LonePairOffset
	case sketch.PosBottom:
		oy = sketch.LonePairOffset
	case sketch.PosLeft:
		ox = -sketch.LonePairOffset
	case sketch.PosRight:
		ox = sketch.LonePairOffset
	}
	// Perpendicular to the outward direction.
	sx, sy := oy/sketch.LonePairOffset, ox/sketch.LonePairOffset
	at := geom.Pt{X: center.X + ox, Y: center.Y + oy}
	sc.Dots = append(sc.Dots,
		Dot{At: geom.Pt{X: at.X + sx*lonePairDotSep/2, Y: at.Y + sy*lonePairDotSep/2}, R: lonePairDotR},
		Dot{At: geom.Pt{X: at.X - sx*lonePairDotSep/2, Y: at.Y - sy*lonePairDotSep/2}, R: lonePairDotR},
	)
}

func (sc *Scene) addArrow(a *sketch.Arrow, lw float64) {
	switch a.Kind {
	case sketch.ArrowStraight:
		p1 := geom.Pt{X: a.X1, Y: a.Y1}
		p2 := geom.Pt{X: a.X2, Y: a.Y2}
		if geom.Dist(p1, p2) == 0 {
			return
		}
		sc.Lines = append(sc.Lines, Line{A: p1, B: p2, W: lw})
		sc.addHead(p2, geom.Angle(p1, p2), false)
	case sketch.ArrowEquilibrium:
		top1 := geom.Pt{X: a.TopX1, Y: a.Y - equilGap}
		top2 := geom.Pt{X: a.TopX2, Y: a.Y - equilGap}
		bot1 := geom.Pt{X: a.BottomX1, Y: a.Y + equilGap}
		bot2 := geom.Pt{X: a.BottomX2, Y: a.Y + equilGap}
		sc.Lines = append(sc.Lines, Line{A: top1, B: top2, W: lw})
		sc.Lines = append(sc.Lines, Line{A: bot1, B: bot2, W: lw})
		// Half-heads: top arrow points right, bottom points left.
		sc.addHead(top2, 0, true)
		sc.addHead(bot1, math.Pi, true)
	case sketch.ArrowCurved:
		p1 := geom.Pt{X: a.X1, Y: a.Y1}
		p2 := geom.Pt{X: a.X2, Y: a.Y2}
		peak := geom.Pt{X: a.PeakX, Y: a.PeakY}
		pts := make([]geom.Pt, 0, curveSteps+1)
		for i := 0; i <= curveSteps; i++ {
			t := float64(i) / curveSteps
			pts = append(pts, quadPoint(p1, peak, p2, t))
		}
		sc.Polylines = append(sc.Polylines, Polyline{Pts: pts, W: lw})
		// Head follows the tangent at the endpoint.
		sc.addHead(p2, geom.Angle(quadPoint(p1, peak, p2, 0.95), p2), false)
	}
}

// addHead emits a filled arrowhead at tip pointing along angle. A half head
// keeps only the barb on the upper side (used by equilibrium arrows).
func (sc *Scene) addHead(tip geom.Pt, angle float64, half bool) {
	ux, uy := math.Cos(angle), math.Sin(angle)
	px, py := -uy, ux
	back := geom.Pt{X: tip.X - ux*arrowHeadLen, Y: tip.Y - uy*arrowHeadLen}
	upper := geom.Pt{X: back.X - px*arrowHeadWide, Y: back.Y - py*arrowHeadWide}
	if half {
		mid := geom.Pt{X: tip.X - ux*arrowHeadLen*0.6, Y: tip.Y - uy*arrowHeadLen*0.6}
		sc.Polys = append(sc.Polys, Poly{Pts: []geom.Pt{tip, upper, mid}})
		return
	}
	lower := geom.Pt{X: back.X + px*arrowHeadWide, Y: back.Y + py*arrowHeadWide}
	sc.Polys = append(sc.Polys, Poly{Pts: []geom.Pt{tip, upper, lower}})
}

func quadPoint(p1, c, p2 geom.Pt, t float64) geom.Pt {
	mt := 1 - t
	return geom.Pt{
		X: mt*mt*p1.X + 2*mt*t*c.X + t*t*p2.X,
		Y: mt*mt*p1.Y + 2*mt*t*c.Y + t*t*p2.Y,
	}
}

// arrowExtent returns the points that bound an arrow for sizing purposes.
func arrowExtent(a *sketch.Arrow) []geom.Pt {
	switch a.Kind {
	case sketch.ArrowEquilibrium:
		return []geom.Pt{
			{X: a.TopX1, Y: a.Y - equilGap},
			{X: a.TopX2, Y: a.Y - equilGap},
			{X: a.BottomX1, Y: a.Y + equilGap},
			{X: a.BottomX2, Y: a.Y + equilGap},
		}
	case sketch.ArrowCurved:
		return []geom.Pt{
			{X: a.X1, Y: a.Y1},
			{X: a.X2, Y: a.Y2},
			quadPoint(geom.Pt{X: a.X1, Y: a.Y1}, geom.Pt{X: a.PeakX, Y: a.PeakY}, geom.Pt{X: a.X2, Y: a.Y2}, 0.5),
		}
	default:
		return []geom.Pt{{X: a.X1, Y: a.Y1}, {X: a.X2, Y: a.Y2}}
	}
}
