package graph

import "strings"

// Glyphs used to draw a row. Each lane takes two cells: the lane glyph and a
// connector to the right of it.
const (
	GlyphNode      = "●"
	GlyphMergeNode = "◆"
	GlyphVertical  = "│"
	GlyphHorizon   = "─"
	GlyphCross     = "┼"
	GlyphTee       = "┬"
	GlyphBranchR   = "╮"
	GlyphBranchL   = "╭"
	GlyphJoinR     = "┤"
	GlyphJoinL     = "├"
)

// Cell is one terminal cell of a row's graph gutter. Lane selects its color.
type Cell struct {
	Text string
	Lane int
}

// Cells draws the row into width lanes (two cells each). Lanes beyond width
// are dropped; a width smaller than the row's own requirement clips the drawing.
func Cells(r Row, width int) []Cell {
	if width <= 0 {
		return nil
	}
	cells := make([]Cell, width*2)
	for i := range cells {
		cells[i] = Cell{Text: " ", Lane: i / 2}
	}
	set := func(pos int, text string, lane int) {
		if pos >= 0 && pos < len(cells) {
			cells[pos] = Cell{Text: text, Lane: lane}
		}
	}

	for _, l := range r.Through {
		set(2*l, GlyphVertical, l)
	}

	right, left := r.Lane, r.Lane
	for _, e := range r.Edges {
		if e.To > right {
			right = e.To
		}
		if e.To < left {
			left = e.To
		}
	}

	// Horizontal runs toward the outermost parents, crossing through lanes.
	for pos := 2*r.Lane + 1; pos < 2*right; pos++ {
		if pos%2 == 0 && cells[pos].Text == GlyphVertical {
			set(pos, GlyphCross, pos/2)
			continue
		}
		set(pos, GlyphHorizon, right)
	}
	for pos := 2*left + 1; pos < 2*r.Lane; pos++ {
		if pos%2 == 0 && cells[pos].Text == GlyphVertical {
			set(pos, GlyphCross, pos/2)
			continue
		}
		set(pos, GlyphHorizon, left)
	}

	for _, e := range r.Edges {
		if e.To == r.Lane {
			continue
		}
		var glyph string
		switch {
		case e.To == right && e.Kind == Branch:
			glyph = GlyphBranchR
		case e.To == right:
			glyph = GlyphJoinR
		case e.To == left && e.Kind == Branch:
			glyph = GlyphBranchL
		case e.To == left:
			glyph = GlyphJoinL
		case e.Kind == Branch:
			glyph = GlyphTee
		default:
			glyph = GlyphCross
		}
		set(2*e.To, glyph, e.To)
	}

	node := GlyphNode
	if r.Commit.IsMerge() {
		node = GlyphMergeNode
	}
	set(2*r.Lane, node, r.Lane)
	return cells
}

// Text draws the row without colors.
func Text(r Row, width int) string {
	var b strings.Builder
	for _, c := range Cells(r, width) {
		b.WriteString(c.Text)
	}
	return b.String()
}
