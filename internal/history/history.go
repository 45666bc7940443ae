// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package history provides a linear undo/redo stack over full state
// snapshots. Every entry is a complete state, never a delta. Discrete
// actions Commit a new entry; continuous interactions Overwrite the entry
// under the cursor so they do not pollute undo granularity.
package history

import "reflect"

// Stack is a navigable linear history of snapshots of type T.
// The zero value is not usable; create stacks with New.
//
// Stack is not safe for concurrent use. Callers that share a stack
// across goroutines must guard it themselves (see canvas.Controller).
type Stack[T any] struct {
	entries []T
	cursor  int
	limit   int
	equal   func(a, b T) bool
}

// New creates a stack seeded with initial as its only entry.
// limit caps the number of retained entries (0 = unbounded); when a
// commit exceeds it the oldest entry is discarded.
func New[T any](initial T, limit int) *Stack[T] {
	return NewWithEqual(initial, limit, func(a, b T) bool {
		return reflect.DeepEqual(a, b)
	})
}

// NewWithEqual is like New but uses equal for commit deduplication
// instead of a deep reflective comparison.
func NewWithEqual[T any](initial T, limit int, equal func(a, b T) bool) *Stack[T] {
	if limit < 0 {
		limit = 0
	}
	return &Stack[T]{
		entries: []T{initial},
		limit:   limit,
		equal:   equal,
	}
}

// Commit records state as a new undo step. If state equals the current
// entry nothing happens. Otherwise every redo entry beyond the cursor is
// discarded, state is appended, and the cursor moves to it.
// Reports whether a new entry was added.
func (s *Stack[T]) Commit(state T) bool {
	if s.equal(s.entries[s.cursor], state) {
		return false
	}

	// Copy the kept prefix so truncated redo entries are not aliased.
	kept := make([]T, s.cursor+1, s.cursor+2)
	copy(kept, s.entries[:s.cursor+1])
	s.entries = append(kept, state)
	s.cursor = len(s.entries) - 1

	if s.limit > 0 && len(s.entries) > s.limit {
		drop := len(s.entries) - s.limit
		s.entries = s.entries[drop:]
		s.cursor -= drop
	}
	return true
}

// Overwrite replaces the entry under the cursor without moving the
// cursor and without touching redo entries.
func (s *Stack[T]) Overwrite(state T) {
	s.entries[s.cursor] = state
}

// Undo moves the cursor back one entry. No-op at the oldest entry.
func (s *Stack[T]) Undo() bool {
	if s.cursor == 0 {
		return false
	}
	s.cursor--
	return true
}

// Redo moves the cursor forward one entry. No-op at the newest entry.
func (s *Stack[T]) Redo() bool {
	if s.cursor >= len(s.entries)-1 {
		return false
	}
	s.cursor++
	return true
}

// Current returns the entry under the cursor.
func (s *Stack[T]) Current() T {
	return s.entries[s.cursor]
}

// CanUndo reports whether an older entry exists.
func (s *Stack[T]) CanUndo() bool {
	return s.cursor > 0
}

// CanRedo reports whether a newer entry exists.
func (s *Stack[T]) CanRedo() bool {
	return s.cursor < len(s.entries)-1
}

// Len returns the number of retained entries.
func (s *Stack[T]) Len() int {
	return len(s.entries)
}

// Cursor returns the index of the current entry.
func (s *Stack[T]) Cursor() int {
	return s.cursor
}

// Reset discards all history and reseeds the stack with initial.
func (s *Stack[T]) Reset(initial T) {
	s.entries = []T{initial}
	s.cursor = 0
}
