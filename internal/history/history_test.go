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

import "testing"

func TestUndoRedoLinear(t *testing.T) {
	s := NewStack(Config{})
	s.Push([]byte("v0")) // before mutation to v1
	s.Push([]byte("v1")) // before mutation to v2, current is v2

	prev, ok := s.Undo([]byte("v2"))
	if !ok || string(prev) != "v1" {
		t.Fatalf("undo expected v1, got %q ok=%v", prev, ok)
	}
	prev, ok = s.Undo([]byte("v1"))
	if !ok || string(prev) != "v0" {
		t.Fatalf("undo expected v0, got %q ok=%v", prev, ok)
	}
	if _, ok := s.Undo([]byte("v0")); ok {
		t.Fatalf("undo at boundary must be a no-op")
	}

	next, ok := s.Redo([]byte("v0"))
	if !ok || string(next) != "v1" {
		t.Fatalf("redo expected v1, got %q ok=%v", next, ok)
	}
	next, ok = s.Redo([]byte("v1"))
	if !ok || string(next) != "v2" {
		t.Fatalf("redo expected v2, got %q ok=%v", next, ok)
	}
	if _, ok := s.Redo([]byte("v2")); ok {
		t.Fatalf("redo at boundary must be a no-op")
	}
}

func TestPushTruncatesRedoTail(t *testing.T) {
	s := NewStack(Config{})
	s.Push([]byte("a"))
	s.Push([]byte("b"))
	if _, ok := s.Undo([]byte("c")); !ok {
		t.Fatalf("undo failed")
	}
	if !s.CanRedo() {
		t.Fatalf("expected redo available after undo")
	}
	s.Push([]byte("b'"))
	if s.CanRedo() {
		t.Fatalf("push while undone must truncate the redo tail")
	}
}

func TestDepthCap(t *testing.T) {
	s := NewStack(Config{MaxDepth: 2})
	s.Push([]byte("1"))
	s.Push([]byte("2"))
	s.Push([]byte("3"))
	_, depth, _ := s.Stats()
	if depth != 2 {
		t.Fatalf("depth cap not enforced: %d", depth)
	}
	prev, _ := s.Undo([]byte("4"))
	if string(prev) != "3" {
		t.Fatalf("cap dropped the wrong end: got %q", prev)
	}
}

func TestByteCapKeepsNewest(t *testing.T) {
	s := NewStack(Config{MaxBytes: 10})
	s.Push([]byte("aaaaa"))
	s.Push([]byte("bbbbb"))
	s.Push([]byte("ccccc"))
	_, depth, _ := s.Stats()
	if depth >= 3 {
		t.Fatalf("byte cap not enforced, depth=%d", depth)
	}
	prev, ok := s.Undo([]byte("x"))
	if !ok || string(prev) != "ccccc" {
		t.Fatalf("newest snapshot lost: %q", prev)
	}
}
