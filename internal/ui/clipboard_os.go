/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"encoding/json"
	"errors"
	"fmt"

	osclip "github.com/atotto/clipboard"

	"github.com/natelevy2468/openreactions-sub001/internal/editor"
)

// The OS clipboard mirror lets a copied fragment travel between running
// instances. The in-editor clipboard stays authoritative; the mirror is a
// JSON envelope tagged so foreign text is never misread as a fragment.

const clipboardApp = "openreactions"

type clipboardEnvelope struct {
	App      string            `json:"app"`
	Version  int               `json:"version"`
	Fragment *editor.Clipboard `json:"fragment"`
}

func encodeClipboard(c *editor.Clipboard) ([]byte, error) {
	if c == nil {
		return nil, errors.New("nothing copied")
	}
	return json.Marshal(clipboardEnvelope{App: clipboardApp, Version: 1, Fragment: c})
}

func decodeClipboard(b []byte) (*editor.Clipboard, error) {
	var env clipboardEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}
	if env.App != clipboardApp || env.Fragment == nil {
		return nil, fmt.Errorf("not an %s clipboard payload", clipboardApp)
	}
	return env.Fragment, nil
}

// MirrorCopy writes the copied fragment to the OS clipboard.
func MirrorCopy(c *editor.Clipboard) error {
	b, err := encodeClipboard(c)
	if err != nil {
		return err
	}
	return osclip.WriteAll(string(b))
}

// ReadMirror reads a fragment back from the OS clipboard, reporting false
// when the clipboard holds anything else.
func ReadMirror() (*editor.Clipboard, bool) {
	s, err := osclip.ReadAll()
	if err != nil {
		return nil, false
	}
	c, err := decodeClipboard([]byte(s))
	if err != nil {
		return nil, false
	}
	return c, true
}
