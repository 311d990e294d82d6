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
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
	"github.com/natelevy2468/openreactions-sub001/internal/storage"
)

// ExportSketchPDF exports the sketch held by h as a single-page vector PDF
// sized to the drawn content. Document units map 1:1 to PDF points; built-in
// Helvetica keeps labels vector without font embedding.
func ExportSketchPDF(h *storage.SketchHandle, outPath string, opt Options) error {
	if h == nil {
		return fmt.Errorf("sketch handle is nil")
	}
	s, err := sketch.Decode(h.Manifest.Document)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	sc := BuildScene(s, opt)
	ox, oy := sc.Bounds.X, sc.Bounds.Y

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: sc.Bounds.W, Ht: sc.Bounds.H},
		OrientationStr: "",
	})
	pdf.SetTitle(h.Manifest.Name, false)
	pdf.SetAuthor("OpenReactions", false)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: sc.Bounds.W, Ht: sc.Bounds.H})

	pdf.SetDrawColor(208, 208, 208)
	for _, l := range sc.GridLines {
		pdf.SetLineWidth(l.W)
		pdf.Line(l.A.X-ox, l.A.Y-oy, l.B.X-ox, l.B.Y-oy)
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(0, 0, 0)
	pdf.SetLineCapStyle("round")
	for _, l := range sc.Lines {
		pdf.SetLineWidth(l.W)
		pdf.Line(l.A.X-ox, l.A.Y-oy, l.B.X-ox, l.B.Y-oy)
	}
	for _, pl := range sc.Polylines {
		pdf.SetLineWidth(pl.W)
		for i := 1; i < len(pl.Pts); i++ {
			pdf.Line(pl.Pts[i-1].X-ox, pl.Pts[i-1].Y-oy, pl.Pts[i].X-ox, pl.Pts[i].Y-oy)
		}
	}
	for _, pg := range sc.Polys {
		pts := make([]gofpdf.PointType, len(pg.Pts))
		for i, p := range pg.Pts {
			pts[i] = gofpdf.PointType{X: p.X - ox, Y: p.Y - oy}
		}
		pdf.Polygon(pts, "F")
	}
	for _, d := range sc.Dots {
		pdf.Circle(d.At.X-ox, d.At.Y-oy, d.R, "F")
	}
	for _, t := range sc.Texts {
		pdf.SetFont("Helvetica", "", t.Size)
		w := pdf.GetStringWidth(t.Text)
		// Text positions by baseline; shift to center the glyph box.
		pdf.Text(t.At.X-ox-w/2, t.At.Y-oy+t.Size*0.35, t.Text)
	}

	outPath = resolveOut(h, outPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
