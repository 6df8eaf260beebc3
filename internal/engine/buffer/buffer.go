// Package buffer implements the gap buffer storing the ordered
// sequence of sorts. The gap tracks the last edited position, making
// repeated inserts and deletes at a moving cursor amortized O(1).
package buffer

import (
	"errors"

	"github.com/google/uuid"

	"github.com/dshills/galley/internal/engine/sort"
)

// Errors returned by buffer operations.
var (
	// ErrIndexOutOfRange indicates an index outside the valid range.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// RevisionID uniquely identifies a buffer revision. A new revision is
// generated on every mutation.
type RevisionID = uuid.UUID

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return uuid.New()
}

// Buffer is a gap buffer of sort entries. The underlying array is
// partitioned into [left-filled][gap][right-filled]; logical order is
// the only source of truth for flowing-text adjacency.
//
// Buffer is not safe for concurrent use; the owning editor serializes
// access.
type Buffer struct {
	entries  []sort.Entry
	gapStart int
	gapEnd   int // exclusive
	revision RevisionID
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	cfg := config{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Buffer{
		entries:  make([]sort.Entry, cfg.capacity),
		gapStart: 0,
		gapEnd:   cfg.capacity,
		revision: NewRevisionID(),
	}
}

// Len returns the number of occupied slots (array length minus gap).
func (b *Buffer) Len() int {
	return len(b.entries) - (b.gapEnd - b.gapStart)
}

// IsEmpty reports whether the buffer holds no entries.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// Revision returns the current revision ID.
func (b *Buffer) Revision() RevisionID {
	return b.revision
}

// physical translates a logical index to its array slot.
func (b *Buffer) physical(index int) int {
	if index < b.gapStart {
		return index
	}
	return index + (b.gapEnd - b.gapStart)
}

// Get returns the entry at the logical index.
func (b *Buffer) Get(index int) (sort.Entry, error) {
	if index < 0 || index >= b.Len() {
		return sort.Entry{}, ErrIndexOutOfRange
	}
	return b.entries[b.physical(index)], nil
}

// Set replaces the entry at the logical index.
func (b *Buffer) Set(index int, entry sort.Entry) error {
	if index < 0 || index >= b.Len() {
		return ErrIndexOutOfRange
	}
	b.entries[b.physical(index)] = entry
	b.revision = NewRevisionID()
	return nil
}

// Modify applies fn to the entry at the logical index in place. The
// pointer passed to fn is invalidated when Modify returns; fn must not
// retain it.
func (b *Buffer) Modify(index int, fn func(*sort.Entry)) error {
	if index < 0 || index >= b.Len() {
		return ErrIndexOutOfRange
	}
	fn(&b.entries[b.physical(index)])
	b.revision = NewRevisionID()
	return nil
}

// moveGapTo slides the gap so that gapStart equals position.
// Cost is O(|position - gapStart|).
func (b *Buffer) moveGapTo(position int) {
	if position == b.gapStart {
		return
	}
	gapSize := b.gapEnd - b.gapStart
	if position < b.gapStart {
		// Slide entries [position, gapStart) to the gap's far side.
		count := b.gapStart - position
		copy(b.entries[b.gapEnd-count:b.gapEnd], b.entries[position:b.gapStart])
	} else {
		// Slide entries [gapEnd, gapEnd+count) down to gapStart.
		count := position - b.gapStart
		copy(b.entries[b.gapStart:b.gapStart+count], b.entries[b.gapEnd:b.gapEnd+count])
	}
	b.gapStart = position
	b.gapEnd = position + gapSize
	// Entries inside the gap are logically absent; clear so stale
	// copies cannot leak through iteration bugs.
	for i := b.gapStart; i < b.gapEnd; i++ {
		b.entries[i] = sort.Entry{}
	}
}

// growGap doubles the underlying array, preserving logical order.
func (b *Buffer) growGap() {
	oldCap := len(b.entries)
	newCap := oldCap * 2
	if newCap == 0 {
		newCap = DefaultCapacity
	}
	grown := make([]sort.Entry, newCap)
	copy(grown, b.entries[:b.gapStart])
	tail := oldCap - b.gapEnd
	copy(grown[newCap-tail:], b.entries[b.gapEnd:])
	b.entries = grown
	b.gapEnd = newCap - tail
}

// Insert places entry before the logical index. Inserting at Len()
// appends. Indices past Len() return ErrIndexOutOfRange.
func (b *Buffer) Insert(index int, entry sort.Entry) error {
	if index < 0 || index > b.Len() {
		return ErrIndexOutOfRange
	}
	if b.gapStart >= b.gapEnd {
		b.growGap()
	}
	b.moveGapTo(index)
	b.entries[b.gapStart] = entry
	b.gapStart++
	b.revision = NewRevisionID()
	return nil
}

// Delete removes and returns the entry at the logical index.
func (b *Buffer) Delete(index int) (sort.Entry, error) {
	if index < 0 || index >= b.Len() {
		return sort.Entry{}, ErrIndexOutOfRange
	}
	b.moveGapTo(index)
	removed := b.entries[b.gapEnd]
	b.entries[b.gapEnd] = sort.Entry{}
	b.gapEnd++
	b.revision = NewRevisionID()
	return removed, nil
}

// Clear removes all entries and resets the gap.
func (b *Buffer) Clear() {
	for i := range b.entries {
		b.entries[i] = sort.Entry{}
	}
	b.gapStart = 0
	b.gapEnd = len(b.entries)
	b.revision = NewRevisionID()
}

// Each calls fn for every entry in logical order. Iteration stops
// early when fn returns false. fn must not mutate the buffer.
func (b *Buffer) Each(fn func(index int, entry sort.Entry) bool) {
	n := b.Len()
	for i := 0; i < n; i++ {
		if !fn(i, b.entries[b.physical(i)]) {
			return
		}
	}
}

// All returns a copy of every entry in logical order.
func (b *Buffer) All() []sort.Entry {
	out := make([]sort.Entry, b.Len())
	for i := range out {
		out[i] = b.entries[b.physical(i)]
	}
	return out
}

// Clone returns a deep copy of the buffer sharing no storage with the
// original. Used by the undo snapshot stack.
func (b *Buffer) Clone() *Buffer {
	entries := make([]sort.Entry, len(b.entries))
	copy(entries, b.entries)
	return &Buffer{
		entries:  entries,
		gapStart: b.gapStart,
		gapEnd:   b.gapEnd,
		revision: b.revision,
	}
}
