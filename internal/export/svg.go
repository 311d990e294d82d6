/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
	"github.com/natelevy2468/openreactions-sub001/internal/storage"
)

// SketchSVG renders a sketch to SVG markup. The coordinate system is the
// document's (points); width/height attributes are pixels derived from DPI
// and a viewBox maps between the two.
func SketchSVG(s *sketch.Sketch, opt Options) ([]byte, error) {
	sc := BuildScene(s, opt)
	ox, oy := sc.Bounds.X, sc.Bounds.Y

	scale := float64(opt.dpi()) / 72.0
	pxW := int(math.Round(sc.Bounds.W * scale))
	pxH := int(math.Round(sc.Bounds.H * scale))

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %g %g\">\n", pxW, pxH, sc.Bounds.W, sc.Bounds.H)
	wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", sc.Bounds.W, sc.Bounds.H)

	for _, l := range sc.GridLines {
		wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"#d0d0d0\" stroke-width=\"%g\"/>\n",
			l.A.X-ox, l.A.Y-oy, l.B.X-ox, l.B.Y-oy, l.W)
	}
	for _, l := range sc.Lines {
		wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"#000\" stroke-width=\"%g\" stroke-linecap=\"round\"/>\n",
			l.A.X-ox, l.A.Y-oy, l.B.X-ox, l.B.Y-oy, l.W)
	}
	for _, pl := range sc.Polylines {
		wf("  <polyline points=\"")
		for i, p := range pl.Pts {
			if i > 0 {
				wf(" ")
			}
			wf("%g,%g", p.X-ox, p.Y-oy)
		}
		wf("\" fill=\"none\" stroke=\"#000\" stroke-width=\"%g\" stroke-linejoin=\"round\"/>\n", pl.W)
	}
	for _, pg := range sc.Polys {
		wf("  <polygon points=\"")
		for i, p := range pg.Pts {
			if i > 0 {
				wf(" ")
			}
			wf("%g,%g", p.X-ox, p.Y-oy)
		}
		wf("\" fill=\"#000\"/>\n")
	}
	for _, d := range sc.Dots {
		wf("  <circle cx=\"%g\" cy=\"%g\" r=\"%g\" fill=\"#000\"/>\n", d.At.X-ox, d.At.Y-oy, d.R)
	}
	for _, t := range sc.Texts {
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"%g\" fill=\"#000\" text-anchor=\"middle\" dominant-baseline=\"central\">%s</text>\n",
			t.At.X-ox, t.At.Y-oy, t.Size, escText(t.Text))
	}
	wf("</svg>\n")

	if werr != nil {
		return nil, fmt.Errorf("build svg: %w", werr)
	}
	return buf.Bytes(), nil
}

// ExportSketchSVG writes the sketch held by h to an SVG file. A relative
// outPath resolves under the sketch's exports folder.
func ExportSketchSVG(h *storage.SketchHandle, outPath string, opt Options) error {
	if h == nil {
		return fmt.Errorf("sketch handle is nil")
	}
	s, err := sketch.Decode(h.Manifest.Document)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	b, err := SketchSVG(s, opt)
	if err != nil {
		return err
	}
	outPath = resolveOut(h, outPath)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, b, 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func resolveOut(h *storage.SketchHandle, outPath string) string {
	if filepath.IsAbs(outPath) {
		return outPath
	}
	return filepath.Join(h.Root, "exports", outPath)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
