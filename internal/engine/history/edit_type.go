package history

// EditType classifies a state modification for undo grouping. Certain
// modifications combine: each mouse-move of a drag collapses into one
// group representing the whole drag, while each arrow-key nudge gets
// its own group.
type EditType int

const (
	// EditNormal always gets its own undo group.
	EditNormal EditType = iota

	// EditNudgeLeft through EditNudgeDown are arrow-key nudges.
	EditNudgeLeft
	EditNudgeRight
	EditNudgeUp
	EditNudgeDown

	// EditDrag is an in-progress drag of some kind.
	EditDrag

	// EditDragFinish completes a drag; it combines with the previous
	// group but not with any subsequent edit.
	EditDragFinish

	// EditTyping is a character insertion; consecutive keystrokes
	// within the merge window collapse into one group.
	EditTyping
)

// String returns the edit type name.
func (t EditType) String() string {
	switch t {
	case EditNormal:
		return "normal"
	case EditNudgeLeft:
		return "nudge-left"
	case EditNudgeRight:
		return "nudge-right"
	case EditNudgeUp:
		return "nudge-up"
	case EditNudgeDown:
		return "nudge-down"
	case EditDrag:
		return "drag"
	case EditDragFinish:
		return "drag-finish"
	case EditTyping:
		return "typing"
	default:
		return "unknown"
	}
}

// NeedsNewGroup reports whether an edit of type next, arriving after
// an edit of type t, must start a new undo group.
func (t EditType) NeedsNewGroup(next EditType) bool {
	switch {
	// A drag and its completion are one group.
	case t == EditDrag && next == EditDrag:
		return false
	case t == EditDrag && next == EditDragFinish:
		return false
	// A burst of typing is one group.
	case t == EditTyping && next == EditTyping:
		return false
	// Each nudge, and every other combination, is its own group.
	default:
		return true
	}
}
