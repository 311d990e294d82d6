//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/natelevy2468/openreactions-sub001/internal/crash"
	"github.com/natelevy2468/openreactions-sub001/internal/editor"
	"github.com/natelevy2468/openreactions-sub001/internal/export"
	"github.com/natelevy2468/openreactions-sub001/internal/geom"
	applog "github.com/natelevy2468/openreactions-sub001/internal/log"
	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
	"github.com/natelevy2468/openreactions-sub001/internal/storage"
	"github.com/natelevy2468/openreactions-sub001/internal/telemetry"
)

// Run starts the Fyne-based sketcher shell on the given sketch directory,
// scaffolding it when it does not exist yet.
func Run(sketchDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	telemetry.InitDefault()

	var h *storage.SketchHandle
	defer func() { crash.Recover(h) }()

	if sketchDir == "" {
		sketchDir = "sketch"
	}
	h, err := storage.Open(sketchDir)
	if err != nil {
		h, err = storage.Init(sketchDir, storage.Manifest{Name: filepath.Base(sketchDir)})
		if err != nil {
			return fmt.Errorf("open or scaffold sketch: %w", err)
		}
	}
	sk, err := sketch.Decode(h.Manifest.Document)
	if err != nil {
		return fmt.Errorf("decode sketch document: %w", err)
	}
	if len(sk.Vertices()) == 0 {
		sk.GenerateGrid(1200, 800)
	}
	ed := editor.New(sk)

	fyneApp := app.NewWithID("openreactions")
	w := fyneApp.NewWindow("OpenReactions — " + h.Manifest.Name)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	cv := NewSketchCanvas(ed)
	cv.OnEdit = func() {
		h.Manifest.Document = ed.Sketch().Encode()
		status.SetText(fmt.Sprintf("Mode: %s", ed.Mode()))
	}
	cv.OnAtomEntry = func() {
		entry := widget.NewEntry()
		entry.SetPlaceHolder("Element symbol, e.g. N")
		d := dialog.NewForm("Atom", "Apply", "Cancel",
			[]*widget.FormItem{widget.NewFormItem("Symbol", entry)},
			func(ok bool) {
				if ok {
					ed.CommitAtomEntry(entry.Text)
					telemetry.Event("atom.entered", nil)
				} else {
					ed.CancelAtomEntry()
				}
				cv.OnEdit()
				cv.Refresh()
			}, w)
		d.Show()
		w.Canvas().Focus(entry)
	}

	modeNames := make([]string, len(editor.Modes))
	for i, m := range editor.Modes {
		modeNames[i] = string(m)
	}
	modeSelect := widget.NewSelect(modeNames, func(sel string) {
		m, err := editor.ParseMode(sel)
		if err != nil {
			return
		}
		ed.SetMode(m)
		telemetry.Event("mode.selected", map[string]any{"mode": sel})
		status.SetText(fmt.Sprintf("Mode: %s", m))
		cv.Refresh()
	})
	modeSelect.SetSelected(string(editor.ModeDraw))

	saveSketch := func() {
		h.Manifest.Document = ed.Sketch().Encode()
		if err := storage.Save(h); err != nil {
			l.Error("save failed", slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Saved")
	}
	exportAs := func(format string) {
		h.Manifest.Document = ed.Sketch().Encode()
		name := "sketch." + format
		var err error
		switch format {
		case "svg":
			err = export.ExportSketchSVG(h, name, export.Options{})
		case "pdf":
			err = export.ExportSketchPDF(h, name, export.Options{})
		case "png":
			err = export.ExportSketchPNG(h, name, export.Options{})
		}
		if err != nil {
			l.Error("export failed", slog.String("format", format), slog.Any("err", err))
			dialog.ShowError(err, w)
			return
		}
		telemetry.Event("sketch.exported", map[string]any{"format": format})
		status.SetText("Exported " + name)
	}

	toolbar := container.NewHBox(
		modeSelect,
		widget.NewButton("Undo", func() { ed.Undo(); cv.OnEdit(); cv.Refresh() }),
		widget.NewButton("Redo", func() { ed.Redo(); cv.OnEdit(); cv.Refresh() }),
		widget.NewButton("Copy", func() {
			ed.Copy()
			if err := MirrorCopy(ed.State().Clipboard); err != nil {
				l.Debug("os clipboard mirror failed", slog.Any("err", err))
			}
			status.SetText("Copied; click to paste")
			cv.Refresh()
		}),
		widget.NewButton("Save", saveSketch),
		widget.NewButton("SVG", func() { exportAs("svg") }),
		widget.NewButton("PDF", func() { exportAs("pdf") }),
		widget.NewButton("PNG", func() { exportAs("png") }),
	)

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			ed.Escape()
			cv.Refresh()
		}
	})

	w.SetContent(container.NewBorder(toolbar, status, nil, nil, cv))
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		saveSketch()
		w.Close()
	})
	w.ShowAndRun()
	return nil
}

// SketchCanvas is the interactive document view. It forwards pointer events
// into the editor and repaints from the same display list the file
// exporters use, so screen and export output never disagree.
type SketchCanvas struct {
	widget.BaseWidget

	ed       *editor.Editor
	zoom     float32
	offsetX  float32
	offsetY  float32
	dragging bool

	// OnEdit fires after any committed mutation; OnAtomEntry fires when the
	// editor is waiting for an element symbol.
	OnEdit      func()
	OnAtomEntry func()
}

func NewSketchCanvas(ed *editor.Editor) *SketchCanvas {
	c := &SketchCanvas{ed: ed, zoom: 1}
	c.ExtendBaseWidget(c)
	return c
}

func (c *SketchCanvas) toScreen(p geom.Pt) fyne.Position {
	return fyne.NewPos(float32(p.X)*c.zoom+c.offsetX, float32(p.Y)*c.zoom+c.offsetY)
}

func (c *SketchCanvas) toDoc(pos fyne.Position) geom.Pt {
	return geom.Pt{
		X: float64((pos.X - c.offsetX) / c.zoom),
		Y: float64((pos.Y - c.offsetY) / c.zoom),
	}
}

func (c *SketchCanvas) afterInput() {
	if c.ed.PendingAtomEntry() && c.OnAtomEntry != nil {
		c.OnAtomEntry()
	}
	if c.OnEdit != nil {
		c.OnEdit()
	}
	c.Refresh()
}

// Tapped resolves the click into document space and hands it to the active
// mode's handler.
func (c *SketchCanvas) Tapped(e *fyne.PointEvent) {
	c.ed.Click(editor.Event{Pos: c.toDoc(e.Position)})
	c.afterInput()
}

// Dragged drives a marquee or a 4th-bond preview when the editor claims the
// drag; otherwise it pans the view.
func (c *SketchCanvas) Dragged(e *fyne.DragEvent) {
	if !c.dragging {
		c.dragging = true
		start := fyne.NewPos(e.Position.X-e.Dragged.DX, e.Position.Y-e.Dragged.DY)
		c.ed.PointerDown(editor.Event{Pos: c.toDoc(start)})
	}
	st := c.ed.State()
	if _, live := c.ed.MarqueeRect(); live || st.FourthBond != nil {
		c.ed.PointerMove(editor.Event{Pos: c.toDoc(e.Position)})
	} else {
		c.offsetX += e.Dragged.DX
		c.offsetY += e.Dragged.DY
	}
	c.Refresh()
}

func (c *SketchCanvas) DragEnd() {
	c.dragging = false
	c.ed.PointerUp(editor.Event{})
	c.afterInput()
}

// Scrolled zooms around the widget center.
func (c *SketchCanvas) Scrolled(e *fyne.ScrollEvent) {
	factor := float32(1.1)
	if e.Scrolled.DY < 0 {
		factor = 1 / factor
	}
	z := c.zoom * factor
	if z < 0.2 {
		z = 0.2
	}
	if z > 4 {
		z = 4
	}
	c.zoom = z
	c.Refresh()
}

// MouseIn/MouseMoved/MouseOut keep the hover hit current for highlighting.
func (c *SketchCanvas) MouseIn(*desktop.MouseEvent) {}
func (c *SketchCanvas) MouseMoved(e *desktop.MouseEvent) {
	if c.dragging {
		return
	}
	c.ed.PointerMove(editor.Event{Pos: c.toDoc(e.Position)})
	c.Refresh()
}
func (c *SketchCanvas) MouseOut() {}

func (c *SketchCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	r := &sketchCanvasRenderer{cv: c, bg: bg}
	r.rebuild()
	return r
}

type sketchCanvasRenderer struct {
	cv      *SketchCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *sketchCanvasRenderer) Layout(size fyne.Size) { r.bg.Resize(size) }
func (r *sketchCanvasRenderer) MinSize() fyne.Size    { return fyne.NewSize(800, 600) }
func (r *sketchCanvasRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}
func (r *sketchCanvasRenderer) Destroy() {}

func (r *sketchCanvasRenderer) Refresh() {
	r.rebuild()
	r.bg.Refresh()
}

var (
	gridColor      = color.RGBA{R: 215, G: 215, B: 220, A: 255}
	inkColor       = color.RGBA{R: 10, G: 10, B: 10, A: 255}
	selectColor    = color.RGBA{R: 0, G: 140, B: 255, A: 255}
	affordColor    = color.RGBA{R: 40, G: 180, B: 90, A: 255}
	marqueeColor   = color.RGBA{R: 0, G: 140, B: 255, A: 60}
	indicatorSize  = float32(10)
	hoverRingScale = float32(14)
)

// rebuild regenerates the object list from the committed graph plus the
// transient editing overlays.
func (r *sketchCanvasRenderer) rebuild() {
	cv := r.cv
	ed := cv.ed
	sc := export.BuildScene(ed.Sketch(), export.Options{IncludeGrid: true, Margin: 1})

	objs := []fyne.CanvasObject{r.bg}
	line := func(a, b geom.Pt, col color.Color, w float64) {
		ln := canvas.NewLine(col)
		ln.StrokeWidth = float32(w) * cv.zoom
		ln.Position1 = cv.toScreen(a)
		ln.Position2 = cv.toScreen(b)
		objs = append(objs, ln)
	}
	circle := func(at geom.Pt, radius float32, col color.Color, filled bool) {
		ci := canvas.NewCircle(color.RGBA{})
		if filled {
			ci.FillColor = col
		} else {
			ci.StrokeColor = col
			ci.StrokeWidth = 2
		}
		p := cv.toScreen(at)
		ci.Move(fyne.NewPos(p.X-radius, p.Y-radius))
		ci.Resize(fyne.NewSize(2*radius, 2*radius))
		objs = append(objs, ci)
	}

	for _, l := range sc.GridLines {
		line(l.A, l.B, gridColor, l.W)
	}
	for _, l := range sc.Lines {
		line(l.A, l.B, inkColor, l.W)
	}
	for _, pl := range sc.Polylines {
		for i := 1; i < len(pl.Pts); i++ {
			line(pl.Pts[i-1], pl.Pts[i], inkColor, pl.W)
		}
	}
	// Fyne has no filled-polygon primitive; trace the outline instead.
	for _, pg := range sc.Polys {
		n := len(pg.Pts)
		for i := 0; i < n; i++ {
			line(pg.Pts[i], pg.Pts[(i+1)%n], inkColor, 2)
		}
	}
	for _, d := range sc.Dots {
		circle(d.At, float32(d.R)*cv.zoom, inkColor, true)
	}
	for _, t := range sc.Texts {
		txt := canvas.NewText(t.Text, inkColor)
		txt.TextSize = float32(t.Size) * cv.zoom
		sz := fyne.MeasureText(txt.Text, txt.TextSize, txt.TextStyle)
		p := cv.toScreen(t.At)
		txt.Move(fyne.NewPos(p.X-sz.Width/2, p.Y-sz.Height/2))
		objs = append(objs, txt)
	}

	st := ed.State()
	sk := ed.Sketch()
	for id := range st.Affordances {
		if v := sk.Vertex(id); v != nil {
			circle(v.Pos, indicatorSize*cv.zoom/2, affordColor, false)
		}
	}
	if from, to, ok := ed.FourthBondPreview(); ok {
		if v := sk.Vertex(from); v != nil {
			line(v.Pos, to, affordColor, 2)
		}
	}
	for id := range st.Selection.Vertices {
		if v := sk.Vertex(id); v != nil {
			circle(v.Pos, hoverRingScale*cv.zoom/2, selectColor, false)
		}
	}
	if st.CurveStart != nil {
		circle(*st.CurveStart, indicatorSize*cv.zoom/2, selectColor, true)
	}
	if rect, ok := ed.MarqueeRect(); ok {
		mq := canvas.NewRectangle(marqueeColor)
		mq.StrokeColor = selectColor
		mq.StrokeWidth = 1
		p0 := cv.toScreen(rect.Min())
		p1 := cv.toScreen(rect.Max())
		mq.Move(p0)
		mq.Resize(fyne.NewSize(p1.X-p0.X, p1.Y-p0.Y))
		objs = append(objs, mq)
	}

	r.objects = objs
}
