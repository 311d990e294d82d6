/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
	"github.com/natelevy2468/openreactions-sub001/internal/storage"
)

// ExportSketchPNG rasterizes the sketch held by h to a PNG file. Pixel size
// derives from the content bounds and DPI (1 document unit = 1/72").
func ExportSketchPNG(h *storage.SketchHandle, outPath string, opt Options) error {
	if h == nil {
		return fmt.Errorf("sketch handle is nil")
	}
	s, err := sketch.Decode(h.Manifest.Document)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	sc := BuildScene(s, opt)
	ox, oy := sc.Bounds.X, sc.Bounds.Y
	scale := float64(opt.dpi()) / 72.0
	pixW := int(math.Round(sc.Bounds.W * scale))
	pixH := int(math.Round(sc.Bounds.H * scale))

	dc := gg.NewContext(pixW, pixH)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	tx := func(x float64) float64 { return (x - ox) * scale }
	ty := func(y float64) float64 { return (y - oy) * scale }

	dc.SetRGB(0.82, 0.82, 0.82)
	for _, l := range sc.GridLines {
		dc.SetLineWidth(l.W * scale)
		dc.DrawLine(tx(l.A.X), ty(l.A.Y), tx(l.B.X), ty(l.B.Y))
		dc.Stroke()
	}

	dc.SetRGB(0, 0, 0)
	dc.SetLineCapRound()
	for _, l := range sc.Lines {
		dc.SetLineWidth(l.W * scale)
		dc.DrawLine(tx(l.A.X), ty(l.A.Y), tx(l.B.X), ty(l.B.Y))
		dc.Stroke()
	}
	for _, pl := range sc.Polylines {
		dc.SetLineWidth(pl.W * scale)
		for i, p := range pl.Pts {
			if i == 0 {
				dc.MoveTo(tx(p.X), ty(p.Y))
			} else {
				dc.LineTo(tx(p.X), ty(p.Y))
			}
		}
		dc.Stroke()
	}
	for _, pg := range sc.Polys {
		for i, p := range pg.Pts {
			if i == 0 {
				dc.MoveTo(tx(p.X), ty(p.Y))
			} else {
				dc.LineTo(tx(p.X), ty(p.Y))
			}
		}
		dc.ClosePath()
		dc.Fill()
	}
	for _, d := range sc.Dots {
		dc.DrawCircle(tx(d.At.X), ty(d.At.Y), d.R*scale)
		dc.Fill()
	}
	for _, t := range sc.Texts {
		// Knock out a backing box so bond stubs never touch the glyph.
		w, fh := dc.MeasureString(t.Text)
		dc.SetRGB(1, 1, 1)
		dc.DrawRectangle(tx(t.At.X)-w/2-1, ty(t.At.Y)-fh/2-1, w+2, fh+2)
		dc.Fill()
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(t.Text, tx(t.At.X), ty(t.At.Y), 0.5, 0.5)
	}

	outPath = resolveOut(h, outPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := dc.EncodePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}
