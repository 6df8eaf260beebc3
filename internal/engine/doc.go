// Package engine implements the sort buffer editor: the ordered
// collection of placed glyph instances ("sorts"), the cursor state
// machine, the bidirectional mapping between buffer positions and
// world coordinates, and the hit-testing and activation logic that
// ties canvas clicks back to buffer positions.
//
// Two placement regimes coexist in one buffer. Flowing sorts derive
// their position from their order within a run, measured from the
// run's root; freeform sorts anchor at an explicit world coordinate
// and ignore buffer order entirely. The Editor is the only entry
// point other subsystems use: all mutation goes through its methods,
// which is what makes the single-active-sort and run-root invariants
// enforceable.
//
// Architecture:
//
//	sort    - the per-slot value type (glyph | line break + metadata)
//	buffer  - gap buffer storing the ordered sequence
//	cursor  - insertion-point value type with column memory
//	layout  - grid constants and buffer<->world coordinate mapping
//	history - undo snapshot stack with edit-type grouping
//	engine  - this package: the orchestrating facade
//
// Concurrency: the editor is frame-synchronous with a single logical
// writer. The facade carries a sync.RWMutex so read-only consumers
// (rendering, hit-testing) may also run off-thread, which is strictly
// stronger than the frame-ordering contract requires.
package engine
