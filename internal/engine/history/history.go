// Package history implements the undo/redo snapshot stack. The stack
// treats the editor state as an opaque cloneable value; consecutive
// edits merge into one undo group according to an edit-type
// classification and a short inactivity window.
package history

import (
	"errors"
	"sync"
	"time"
)

// Errors returned by history operations.
var (
	// ErrNothingToUndo indicates the undo stack is at its oldest state.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the undo stack is at its newest state.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Default configuration values.
const (
	DefaultMaxEntries  = 128
	DefaultMergeWindow = 2 * time.Second
)

// Cloneable is any state that can produce an independent deep copy.
type Cloneable[T any] interface {
	Clone() T
}

// entry wraps a snapshot with grouping metadata.
type entry[T any] struct {
	state    T
	editType EditType
	pushedAt time.Time
}

// Stack is a bounded undo/redo stack of deep-copied states with a
// live index. Pushing truncates any redo tail.
type Stack[T Cloneable[T]] struct {
	mu sync.Mutex

	entries []entry[T]
	live    int

	maxEntries  int
	mergeWindow time.Duration
	now         func() time.Time
}

// Option configures a Stack.
type Option[T Cloneable[T]] func(*Stack[T])

// WithMaxEntries bounds the number of stored snapshots.
func WithMaxEntries[T Cloneable[T]](n int) Option[T] {
	return func(s *Stack[T]) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithMergeWindow sets the inactivity window within which mergeable
// edits collapse into one undo group.
func WithMergeWindow[T Cloneable[T]](d time.Duration) Option[T] {
	return func(s *Stack[T]) {
		if d > 0 {
			s.mergeWindow = d
		}
	}
}

// withClock overrides the time source. Used by tests.
func withClock[T Cloneable[T]](now func() time.Time) Option[T] {
	return func(s *Stack[T]) {
		s.now = now
	}
}

// NewStack creates a stack seeded with the initial state.
func NewStack[T Cloneable[T]](initial T, opts ...Option[T]) *Stack[T] {
	s := &Stack[T]{
		maxEntries:  DefaultMaxEntries,
		mergeWindow: DefaultMergeWindow,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.entries = []entry[T]{{state: initial.Clone(), editType: EditNormal, pushedAt: s.now()}}
	return s
}

// Push records a snapshot of state classified by editType. When the
// classification merges with the previous push and the inactivity
// window has not elapsed, the top snapshot is replaced instead of a
// new group being started.
func (s *Stack[T]) Push(state T, editType EditType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Editing after undo discards the redo tail.
	if s.live < len(s.entries)-1 {
		s.entries = s.entries[:s.live+1]
	}

	now := s.now()
	top := &s.entries[s.live]
	if s.live > 0 &&
		!top.editType.NeedsNewGroup(editType) &&
		now.Sub(top.pushedAt) <= s.mergeWindow {
		top.state = state.Clone()
		top.editType = editType
		top.pushedAt = now
		return
	}

	s.entries = append(s.entries, entry[T]{state: state.Clone(), editType: editType, pushedAt: now})
	s.live++

	if len(s.entries) > s.maxEntries {
		excess := len(s.entries) - s.maxEntries
		s.entries = s.entries[excess:]
		s.live -= excess
	}
}

// Undo steps back one group and returns a copy of that state.
func (s *Stack[T]) Undo() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if s.live == 0 {
		return zero, ErrNothingToUndo
	}
	s.live--
	return s.entries[s.live].state.Clone(), nil
}

// Redo steps forward one group and returns a copy of that state.
func (s *Stack[T]) Redo() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if s.live >= len(s.entries)-1 {
		return zero, ErrNothingToRedo
	}
	s.live++
	return s.entries[s.live].state.Clone(), nil
}

// CanUndo reports whether an older state exists.
func (s *Stack[T]) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live > 0
}

// CanRedo reports whether a newer state exists.
func (s *Stack[T]) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live < len(s.entries)-1
}

// Depth returns the number of stored snapshots.
func (s *Stack[T]) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
