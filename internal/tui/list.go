package tui

import "github.com/cj3636/gitt/internal/graph"

// ListModel owns the laid-out commit rows, the selection and the list's scroll
// window. It never talks to the revision source: callers watch the return
// values of the motion methods and request diffs themselves.
type ListModel struct {
	rows     []graph.Row
	selected int
	view     Viewport
}

// NewListModel returns an empty list with the given viewport height.
func NewListModel(height int) ListModel {
	l := ListModel{}
	l.view.setHeight(height)
	return l
}

// Len returns the number of loaded rows.
func (l ListModel) Len() int { return len(l.rows) }

// Offset returns the index of the first visible row.
func (l ListModel) Offset() int { return l.view.offset }

// Height returns the viewport height.
func (l ListModel) Height() int { return l.view.height }

// SelectedIndex returns the selected row index (0 when the list is empty).
func (l ListModel) SelectedIndex() int { return l.selected }

// Selected returns the selected row.
func (l ListModel) Selected() (graph.Row, bool) {
	if len(l.rows) == 0 {
		return graph.Row{}, false
	}
	return l.rows[l.selected], true
}

// SelectedID returns the selected commit id, or "" when nothing is loaded.
func (l ListModel) SelectedID() string {
	row, ok := l.Selected()
	if !ok {
		return ""
	}
	return row.Commit.ID
}

// Row returns the row at index i.
func (l ListModel) Row(i int) graph.Row { return l.rows[i] }

// Visible returns the rows inside the viewport and the index of the first one.
func (l ListModel) Visible() ([]graph.Row, int) {
	start, end := l.view.window(len(l.rows))
	return l.rows[start:end], start
}

// Append adds rows at the end without touching selection or offset.
func (l *ListModel) Append(rows []graph.Row) {
	l.rows = append(l.rows, rows...)
}

// MoveSelection moves the selection by delta, clamped to the loaded rows, and
// scrolls it into view. It reports whether the selection changed; at either
// end it is a no-op.
func (l *ListModel) MoveSelection(delta int) bool {
	if len(l.rows) == 0 {
		return false
	}
	target := min(max(l.selected+delta, 0), len(l.rows)-1)
	if target == l.selected {
		return false
	}
	l.selected = target
	l.EnsureVisible()
	return true
}

// EnsureVisible scrolls minimally so the selection lies in [offset, offset+height).
func (l *ListModel) EnsureVisible() {
	if l.view.height > 0 {
		if l.selected < l.view.offset {
			l.view.offset = l.selected
		} else if l.selected >= l.view.offset+l.view.height {
			l.view.offset = l.selected - l.view.height + 1
		}
	}
	l.view.clamp(len(l.rows))
}

// ScrollToTop selects the first row. It reports whether the selection changed.
func (l *ListModel) ScrollToTop() bool {
	changed := l.selected != 0
	l.selected = 0
	l.view.offset = 0
	return changed && len(l.rows) > 0
}

// ScrollToBottom selects the last loaded row. It reports whether the
// selection changed.
func (l *ListModel) ScrollToBottom() bool {
	if len(l.rows) == 0 {
		return false
	}
	changed := l.selected != len(l.rows)-1
	l.selected = len(l.rows) - 1
	l.view.offset = l.view.maxOffset(len(l.rows))
	l.EnsureVisible()
	return changed
}

// SetViewportHeight resizes the window and re-clamps the offset, keeping the
// selection visible.
func (l *ListModel) SetViewportHeight(h int) {
	l.view.setHeight(h)
	l.EnsureVisible()
}

// NearEnd reports whether the selection or the window is within margin rows of
// the last loaded row, meaning more history should be requested.
func (l ListModel) NearEnd(margin int) bool {
	if len(l.rows) == 0 {
		return true
	}
	return l.selected+margin >= len(l.rows)-1 || l.view.offset+l.view.height+margin >= len(l.rows)
}

// LaneWidth returns the widest graph among the visible rows.
func (l ListModel) LaneWidth() int {
	rows, _ := l.Visible()
	width := 0
	for _, r := range rows {
		width = max(width, r.Width, r.Lane+1)
	}
	return width
}
