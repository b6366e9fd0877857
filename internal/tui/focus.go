package tui

// Pane identifies one of the two scrollable panes.
type Pane int

const (
	PaneList Pane = iota
	PaneDiff
)

func (p Pane) String() string {
	if p == PaneDiff {
		return "diff"
	}
	return "list"
}

// FocusController tracks which pane receives scroll and selection keys.
// The zero value focuses the commit list.
type FocusController struct {
	focused Pane
}

// Focused returns the active pane.
func (f FocusController) Focused() Pane { return f.focused }

// Is reports whether p is the active pane.
func (f FocusController) Is(p Pane) bool { return f.focused == p }

// Toggle switches to the other pane and returns it.
func (f *FocusController) Toggle() Pane {
	if f.focused == PaneList {
		f.focused = PaneDiff
	} else {
		f.focused = PaneList
	}
	return f.focused
}

// SetFocus activates p.
func (f *FocusController) SetFocus(p Pane) {
	if p != PaneDiff {
		p = PaneList
	}
	f.focused = p
}
