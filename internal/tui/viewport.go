package tui

// Viewport controls the visible window of a scrollable pane
type Viewport struct {
	offset int // First visible line
	height int // Lines available for content
}

// setHeight stores h, treating negative heights as an empty pane.
func (v *Viewport) setHeight(h int) {
	if h < 0 {
		h = 0
	}
	v.height = h
}

func (v Viewport) maxOffset(total int) int {
	return max(0, total-v.height)
}

// clamp keeps the offset within [0, max(0, total-height)].
func (v *Viewport) clamp(total int) {
	v.offset = min(max(v.offset, 0), v.maxOffset(total))
}

// scrollBy moves the window and reports whether it moved.
func (v *Viewport) scrollBy(delta, total int) bool {
	before := v.offset
	v.offset += delta
	v.clamp(total)
	return v.offset != before
}

// window returns the half-open range of visible line indexes.
func (v Viewport) window(total int) (start, end int) {
	start = min(v.offset, total)
	end = min(start+v.height, total)
	return start, end
}

// halfPage is the step used by half-page motions; never less than one line.
func (v Viewport) halfPage() int {
	return max(1, v.height/2)
}

// page is the step used by full-page motions; never less than one line.
func (v Viewport) page() int {
	return max(1, v.height)
}
