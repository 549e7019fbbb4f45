package tracking

import "github.com/atomicstack/menutrack/internal/menu"

// State is the session state machine position.
type State int

const (
	StateClosed State = iota
	StateTracking
	// StateKeyToSubmenu means the keyboard asked to descend into the open
	// submenu; the next iteration hands control to the child.
	StateKeyToSubmenu
)

func (s State) String() string {
	switch s {
	case StateTracking:
		return "tracking"
	case StateKeyToSubmenu:
		return "key-to-submenu"
	default:
		return "closed"
	}
}

// Kind tags a Result.
type Kind int

const (
	// Cancelled ends the whole chain without a choice.
	Cancelled Kind = iota
	// Chosen ends the whole chain with Item.
	Chosen
	// StickyReentry closes the child and revives its parent in sticky mode.
	StickyReentry
	// Returned hands control back to the parent. The child stays open
	// unless it closed itself (left arrow, bar travel).
	Returned
)

func (k Kind) String() string {
	switch k {
	case Chosen:
		return "chosen"
	case StickyReentry:
		return "sticky-reentry"
	case Returned:
		return "returned"
	default:
		return "cancelled"
	}
}

// Result is what a session loop reports to its caller.
type Result struct {
	Kind Kind
	Item *menu.Item
	// Travel asks the nearest menu bar ancestor to move its highlight by
	// one item in this direction and open that item's submenu.
	Travel int
}

func (r Result) itemID() string {
	if r.Item == nil {
		return ""
	}
	return r.Item.ID
}
