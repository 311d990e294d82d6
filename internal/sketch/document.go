/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sketch

import (
	"encoding/json"
	"fmt"

	"github.com/natelevy2468/openreactions-sub001/internal/geom"
)

// Document is the serialized form of a sketch. It carries the committed
// state only: derived annotations (vertex kinds, directions, ring flags,
// upper/lower endpoints) are recomputed on decode, never persisted.
type Document struct {
	Version  int          `json:"version"`
	Vertices []DocVertex  `json:"vertices"`
	Segments []DocSegment `json:"segments"`
	Arrows   []Arrow      `json:"arrows,omitempty"`
}

type DocVertex struct {
	ID            VertexID      `json:"id"`
	X             float64       `json:"x"`
	Y             float64       `json:"y"`
	Element       string        `json:"element,omitempty"`
	Charge        int           `json:"charge,omitempty"`
	LonePairs     int           `json:"lonePairs,omitempty"`
	LonePairOrder []LonePairPos `json:"lonePairOrder,omitempty"`
	IsOffGrid     bool          `json:"isOffGrid,omitempty"`
}

type DocSegment struct {
	Start         VertexID `json:"startVertexRef"`
	End           VertexID `json:"endVertexRef"`
	BondOrder     int      `json:"bondOrder"`
	BondType      BondType `json:"bondType,omitempty"`
	BondDirection int      `json:"bondDirection,omitempty"`
}

// DocumentVersion is the current document schema version.
const DocumentVersion = 1

// Encode converts the sketch into its serializable document form.
func (s *Sketch) Encode() Document {
	doc := Document{Version: DocumentVersion}
	for _, v := range s.verts {
		dv := DocVertex{ID: v.ID, X: v.Pos.X, Y: v.Pos.Y, IsOffGrid: v.IsOffGrid}
		if v.Atom != nil {
			dv.Element = v.Atom.Symbol
			dv.Charge = v.Atom.Charge
			dv.LonePairs = v.Atom.LonePairs
			dv.LonePairOrder = append([]LonePairPos(nil), v.Atom.LonePairOrder...)
		}
		doc.Vertices = append(doc.Vertices, dv)
	}
	for _, sg := range s.segs {
		doc.Segments = append(doc.Segments, DocSegment{
			Start:         sg.A,
			End:           sg.B,
			BondOrder:     sg.BondOrder,
			BondType:      sg.BondType,
			BondDirection: sg.BondDirection,
		})
	}
	for _, a := range s.arrows {
		doc.Arrows = append(doc.Arrows, *a)
	}
	return doc
}

// Decode rebuilds a sketch from a document, preserving vertex identities and
// re-deriving every cached annotation.
func Decode(doc Document) (*Sketch, error) {
	s := New()
	for _, dv := range doc.Vertices {
		if _, dup := s.byVertex[dv.ID]; dup {
			return nil, fmt.Errorf("duplicate vertex id %d", dv.ID)
		}
		v := &Vertex{ID: dv.ID, Pos: geom.Pt{X: dv.X, Y: dv.Y}, Kind: KindA, IsOffGrid: dv.IsOffGrid}
		if dv.Element != "" || dv.Charge != 0 || dv.LonePairs != 0 {
			v.Atom = &Atom{
				Symbol:        dv.Element,
				Charge:        dv.Charge,
				LonePairs:     dv.LonePairs,
				LonePairOrder: append([]LonePairPos(nil), dv.LonePairOrder...),
			}
		}
		s.verts = append(s.verts, v)
		s.byVertex[v.ID] = v
		if !v.IsOffGrid {
			s.coords[KeyOf(v.Pos)] = v.ID
		}
		if v.ID >= s.nextVertex {
			s.nextVertex = v.ID + 1
		}
	}
	for _, ds := range doc.Segments {
		sg, err := s.AddSegment(ds.Start, ds.End)
		if err != nil {
			return nil, err
		}
		s.SetBondOrder(sg, ds.BondOrder)
		if ds.BondOrder == 1 {
			sg.BondType = ds.BondType
			sg.BondDirection = ds.BondDirection
		}
	}
	for i := range doc.Arrows {
		a := doc.Arrows[i]
		s.arrows = append(s.arrows, &a)
	}
	s.Recompute()
	return s, nil
}

// MarshalJSON / UnmarshalJSON route through the document form so a sketch
// can be used directly as a history snapshot blob.

func (s *Sketch) MarshalJSON() ([]byte, error) { return json.Marshal(s.Encode()) }

func (s *Sketch) UnmarshalJSON(b []byte) error {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	ns, err := Decode(doc)
	if err != nil {
		return err
	}
	*s = *ns
	return nil
}

// Clone returns a deep copy of the sketch (used for paste previews and by
// tests asserting snapshot equality).
func (s *Sketch) Clone() *Sketch {
	ns, err := Decode(s.Encode())
	if err != nil {
		// Encode output is always decodable; a failure here is a programming
		// error in the codec itself
		panic(err)
	}
	return ns
}

// WireMolecule is the reference-keyed exchange form consumed and produced by
// the persistence collaborator. Segment endpoints are indices into the
// vertex list, not live ids.
type WireMolecule struct {
	Vertices []WireVertex  `json:"vertices"`
	Segments []WireSegment `json:"segments"`
}

type WireVertex struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Element   string  `json:"element,omitempty"`
	Charge    int     `json:"charge,omitempty"`
	LonePairs int     `json:"lonePairs,omitempty"`
	IsOffGrid bool    `json:"isOffGrid,omitempty"`
}

type WireSegment struct {
	StartVertexRef int      `json:"startVertexRef"`
	EndVertexRef   int      `json:"endVertexRef"`
	BondOrder      int      `json:"bondOrder"`
	BondType       BondType `json:"bondType,omitempty"`
}

// ToWire converts the sketch's bonded subgraph into the exchange form. Grid
// lines (order 0) are not part of the persisted molecule.
func (s *Sketch) ToWire() WireMolecule {
	var mol WireMolecule
	idx := make(map[VertexID]int)
	keep := make(map[VertexID]bool)
	for _, sg := range s.segs {
		if sg.IsBond() {
			keep[sg.A] = true
			keep[sg.B] = true
		}
	}
	for _, v := range s.verts {
		if !keep[v.ID] && v.Atom == nil {
			continue
		}
		wv := WireVertex{X: v.Pos.X, Y: v.Pos.Y, IsOffGrid: v.IsOffGrid}
		if v.Atom != nil {
			wv.Element = v.Atom.Symbol
			wv.Charge = v.Atom.Charge
			wv.LonePairs = v.Atom.LonePairs
		}
		idx[v.ID] = len(mol.Vertices)
		mol.Vertices = append(mol.Vertices, wv)
	}
	for _, sg := range s.segs {
		if !sg.IsBond() {
			continue
		}
		mol.Segments = append(mol.Segments, WireSegment{
			StartVertexRef: idx[sg.A],
			EndVertexRef:   idx[sg.B],
			BondOrder:      sg.BondOrder,
			BondType:       sg.BondType,
		})
	}
	return mol
}

// FromWire builds a fresh sketch holding only the molecule described by the
// exchange form.
func FromWire(mol WireMolecule) (*Sketch, error) {
	s := New()
	ids := make([]VertexID, len(mol.Vertices))
	for i, wv := range mol.Vertices {
		v := s.AddVertex(geom.Pt{X: wv.X, Y: wv.Y}, wv.IsOffGrid)
		if wv.Element != "" || wv.Charge != 0 || wv.LonePairs != 0 {
			v.Atom = &Atom{Symbol: wv.Element, Charge: wv.Charge, LonePairs: wv.LonePairs}
		}
		ids[i] = v.ID
	}
	for _, ws := range mol.Segments {
		if ws.StartVertexRef < 0 || ws.StartVertexRef >= len(ids) ||
			ws.EndVertexRef < 0 || ws.EndVertexRef >= len(ids) {
			return nil, fmt.Errorf("segment reference out of range")
		}
		sg, err := s.AddSegment(ids[ws.StartVertexRef], ids[ws.EndVertexRef])
		if err != nil {
			return nil, err
		}
		s.SetBondOrder(sg, ws.BondOrder)
		if ws.BondOrder == 1 && ws.BondType != BondPlain {
			sg.BondType = ws.BondType
			sg.BondDirection = 1
		}
	}
	s.Recompute()
	return s, nil
}
