/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package history

import (
	"sync"
	"time"
)

// Snapshot is an opaque serialized document state. Blob content is opaque to
// the stack; size accounting uses len(Blob).
type Snapshot struct {
	Blob []byte
	TS   time.Time
}

// Config controls memory and depth caps.
type Config struct {
	// MaxBytes is a soft cap; the oldest entries are pruned when exceeded.
	MaxBytes int
	// MaxDepth limits the number of undo snapshots kept (0 means unlimited).
	MaxDepth int
}

// Stack is a linear undo/redo stack over document snapshots.
// Every committed mutation pushes the pre-mutation state before applying the
// change (capture-before-mutate); a push while undone entries exist truncates
// the redo tail, keeping the history linear. Safe for concurrent use.
type Stack struct {
	cfg  Config
	mu   sync.Mutex
	undo []Snapshot
	redo []Snapshot

	totalBytes int
}

func NewStack(cfg Config) *Stack {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	return &Stack{cfg: cfg}
}

// Push records the pre-mutation snapshot. Any undone-but-not-redone tail is
// discarded.
func (s *Stack) Push(blob []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.undo = append(s.undo, Snapshot{Blob: blob, TS: time.Now()})
	s.totalBytes += len(blob)
	s.redo = nil
	s.enforceCapsLocked()
}

// Undo pops the most recent snapshot, remembering current for redo. Returns
// false at the stack boundary (nothing to undo); that case is a no-op.
func (s *Stack) Undo(current []byte) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undo) == 0 {
		return nil, false
	}
	top := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.totalBytes -= len(top.Blob)
	s.redo = append(s.redo, Snapshot{Blob: current, TS: time.Now()})
	return top.Blob, true
}

// Redo advances forward again after an undo. Returns false at the boundary.
func (s *Stack) Redo(current []byte) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redo) == 0 {
		return nil, false
	}
	top := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, Snapshot{Blob: current, TS: time.Now()})
	s.totalBytes += len(current)
	s.enforceCapsLocked()
	return top.Blob, true
}

// CanUndo reports whether an undo snapshot is available.
func (s *Stack) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undo) > 0
}

// CanRedo reports whether a redo snapshot is available.
func (s *Stack) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redo) > 0
}

// Stats returns current sizes for diagnostics.
func (s *Stack) Stats() (totalBytes, depth, redoDepth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalBytes, len(s.undo), len(s.redo)
}

func (s *Stack) enforceCapsLocked() {
	if s.cfg.MaxDepth > 0 && len(s.undo) > s.cfg.MaxDepth {
		toDrop := len(s.undo) - s.cfg.MaxDepth
		for i := 0; i < toDrop; i++ {
			s.totalBytes -= len(s.undo[i].Blob)
		}
		s.undo = append([]Snapshot{}, s.undo[toDrop:]...)
	}
	for s.cfg.MaxBytes > 0 && s.totalBytes > s.cfg.MaxBytes && len(s.undo) > 1 {
		s.totalBytes -= len(s.undo[0].Blob)
		s.undo = s.undo[1:]
	}
}
