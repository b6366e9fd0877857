package tui

// DiffModel is a scrollable buffer of diff text. It has no idea which commit
// the text belongs to; matching arrivals to the selection is the caller's job.
type DiffModel struct {
	lines []string
	view  Viewport
}

// NewDiffModel returns an empty buffer with the given viewport height.
func NewDiffModel(height int) DiffModel {
	d := DiffModel{}
	d.view.setHeight(height)
	return d
}

// Load replaces the content and scrolls back to the top.
func (d *DiffModel) Load(lines []string) {
	d.lines = append([]string(nil), lines...)
	d.view.offset = 0
}

// Append adds a later batch of the same diff, leaving the offset alone.
func (d *DiffModel) Append(lines []string) {
	d.lines = append(d.lines, lines...)
}

// Scroll moves the window by delta lines and reports whether it moved.
func (d *DiffModel) Scroll(delta int) bool {
	return d.view.scrollBy(delta, len(d.lines))
}

// ScrollToTop shows the first line.
func (d *DiffModel) ScrollToTop() bool {
	return d.SetOffset(0)
}

// ScrollToBottom shows the last page of loaded lines.
func (d *DiffModel) ScrollToBottom() bool {
	return d.SetOffset(d.view.maxOffset(len(d.lines)))
}

// SetOffset moves the window to offset, clamped.
func (d *DiffModel) SetOffset(offset int) bool {
	before := d.view.offset
	d.view.offset = offset
	d.view.clamp(len(d.lines))
	return d.view.offset != before
}

// SetViewportHeight resizes the window and re-clamps the offset.
func (d *DiffModel) SetViewportHeight(h int) {
	d.view.setHeight(h)
	d.view.clamp(len(d.lines))
}

// Len returns the number of loaded lines.
func (d DiffModel) Len() int { return len(d.lines) }

// Offset returns the first visible line.
func (d DiffModel) Offset() int { return d.view.offset }

// Height returns the viewport height.
func (d DiffModel) Height() int { return d.view.height }

// Visible returns the lines inside the viewport.
func (d DiffModel) Visible() []string {
	start, end := d.view.window(len(d.lines))
	return d.lines[start:end]
}

// NearEnd reports whether the window is within margin lines of the loaded end.
func (d DiffModel) NearEnd(margin int) bool {
	return d.view.offset+d.view.height+margin >= len(d.lines)
}
