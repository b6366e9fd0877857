package export

import "strings"

// Sanitize expands tabs and replaces control characters so text taken from a
// commit cannot move the cursor or leave terminal state behind. Line breaks
// are dropped, which keeps each commit on a single output line.
func Sanitize(s string, tabSize int) string {
	if !strings.ContainsFunc(s, func(r rune) bool { return r < 0x20 || (r >= 0x7f && r < 0xa0) }) {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch {
		case r == '\t':
			n := tabSize - col%max(tabSize, 1)
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case r == '\r' || r == '\n':
		case r < 0x20 || (r >= 0x7f && r < 0xa0):
			b.WriteRune('�')
			col++
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}
