// Package history implements a bounded linear undo stack of full snapshots.
//
// The stack holds entries [0, Len) and an index pointing at the entry that is
// currently materialised, or -1 before the first Save. Save truncates any redo
// branch, so there are no redo trees.
//
// Callers snapshot before a mutation, never after. To keep undo followed by
// redo returning to the state before the undo, the caller marks the stack
// dirty after every committed mutation; Undo then captures the live state
// first, and Redo on a dirty stack discards the stale redo branch.
package history

import (
	"errors"
	"time"
)

// DefaultLimit is the retention bound used when none is given.
const DefaultLimit = 50

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
	ErrOutOfRange    = errors.New("history index out of range")
)

type entry[T any] struct {
	value T
	at    time.Time
}

// Entry describes one stored snapshot for history browsers.
type Entry struct {
	Index int
	At    time.Time
}

// Stack is a bounded snapshot history. It is not safe for concurrent use.
type Stack[T any] struct {
	entries []entry[T]
	index   int
	limit   int
	dirty   bool
	clone   func(T) T

	// NowFunc stamps entries; overridable in tests.
	NowFunc func() time.Time
}

// New returns an empty stack keeping at most limit entries. clone must return
// a value that shares no mutable state with its argument.
func New[T any](limit int, clone func(T) T) *Stack[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack[T]{index: -1, limit: limit, clone: clone, NowFunc: time.Now}
}

// Len returns the number of stored entries.
func (s *Stack[T]) Len() int { return len(s.entries) }

// Index returns the materialised entry index, or -1.
func (s *Stack[T]) Index() int { return s.index }

// Limit returns the retention bound.
func (s *Stack[T]) Limit() int { return s.limit }

// Dirty reports whether the live state has diverged from the entry at Index.
func (s *Stack[T]) Dirty() bool { return s.dirty }

// MarkDirty records that the live state changed after the last save or restore.
func (s *Stack[T]) MarkDirty() { s.dirty = true }

// CanUndo reports whether Undo would restore something.
func (s *Stack[T]) CanUndo() bool {
	if s.index < 0 {
		return false
	}
	return s.index > 0 || s.dirty
}

// CanRedo reports whether Redo would restore something.
func (s *Stack[T]) CanRedo() bool {
	return !s.dirty && s.index < len(s.entries)-1
}

// Save pushes a copy of live, discarding entries after Index and evicting the
// oldest entries beyond the limit.
func (s *Stack[T]) Save(live T) {
	s.entries = s.entries[:s.index+1]
	s.entries = append(s.entries, entry[T]{value: s.clone(live), at: s.NowFunc()})
	s.index = len(s.entries) - 1
	if excess := len(s.entries) - s.limit; excess > 0 {
		clear(s.entries[:excess])
		s.entries = s.entries[excess:]
		s.index -= excess
	}
	s.dirty = false
}

// Undo steps back one entry and returns a copy of it. A dirty live state is
// saved first so Redo can return to it.
func (s *Stack[T]) Undo(live T) (T, error) {
	var zero T
	if s.index < 0 {
		return zero, ErrNothingToUndo
	}
	if s.dirty {
		s.Save(live)
	}
	if s.index <= 0 {
		return zero, ErrNothingToUndo
	}
	s.index--
	return s.clone(s.entries[s.index].value), nil
}

// Redo steps forward one entry and returns a copy of it. On a dirty stack the
// redo branch no longer describes reachable states and is dropped.
func (s *Stack[T]) Redo() (T, error) {
	var zero T
	if s.dirty {
		s.entries = s.entries[:s.index+1]
		return zero, ErrNothingToRedo
	}
	if s.index >= len(s.entries)-1 {
		return zero, ErrNothingToRedo
	}
	s.index++
	return s.clone(s.entries[s.index].value), nil
}

// Jump materialises entry i. A dirty live state is saved first; targets in the
// discarded redo branch are then out of range.
func (s *Stack[T]) Jump(i int, live T) (T, error) {
	var zero T
	if i < 0 || i >= len(s.entries) {
		return zero, ErrOutOfRange
	}
	if s.dirty {
		if i > s.index {
			return zero, ErrOutOfRange
		}
		before := len(s.entries[:s.index+1])
		s.Save(live)
		evicted := before + 1 - len(s.entries)
		i -= evicted
		if i < 0 {
			return zero, ErrOutOfRange
		}
	}
	s.index = i
	return s.clone(s.entries[i].value), nil
}

// Entries lists the stored snapshots oldest first.
func (s *Stack[T]) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = Entry{Index: i, At: e.at}
	}
	return out
}

// At returns a copy of entry i.
func (s *Stack[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(s.entries) {
		return zero, false
	}
	return s.clone(s.entries[i].value), true
}

// Reset drops every entry.
func (s *Stack[T]) Reset() {
	clear(s.entries)
	s.entries = nil
	s.index = -1
	s.dirty = false
}
