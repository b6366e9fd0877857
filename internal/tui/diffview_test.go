package tui

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func lines(n int, prefix string) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s %d", prefix, i)
	}
	return out
}

func TestDiffModel_LoadResetsOffset(t *testing.T) {
	d := NewDiffModel(10)
	d.Load(lines(50, "a"))
	require.True(t, d.Scroll(20))
	require.Equal(t, 20, d.Offset())

	d.Load(lines(30, "b"))
	require.Equal(t, 0, d.Offset())
	require.Equal(t, 30, d.Len())
	require.Equal(t, "b 0", d.Visible()[0])
}

func TestDiffModel_LoadCopiesInput(t *testing.T) {
	in := lines(3, "x")
	d := NewDiffModel(10)
	d.Load(in)
	in[0] = "changed"
	require.Equal(t, "x 0", d.Visible()[0])
}

func TestDiffModel_ScrollClamps(t *testing.T) {
	d := NewDiffModel(10)
	d.Load(lines(25, "l"))

	require.False(t, d.Scroll(-1))
	require.True(t, d.Scroll(100))
	require.Equal(t, 15, d.Offset())
	require.False(t, d.Scroll(1))

	require.True(t, d.ScrollToTop())
	require.Equal(t, 0, d.Offset())
	require.True(t, d.ScrollToBottom())
	require.Equal(t, 15, d.Offset())
	require.Len(t, d.Visible(), 10)
}

func TestDiffModel_ShortContent(t *testing.T) {
	d := NewDiffModel(10)
	d.Load(lines(4, "l"))
	require.False(t, d.ScrollToBottom())
	require.Equal(t, 0, d.Offset())
	require.Len(t, d.Visible(), 4)
}

func TestDiffModel_AppendKeepsOffset(t *testing.T) {
	d := NewDiffModel(5)
	d.Load(lines(10, "a"))
	d.Scroll(3)
	d.Append(lines(10, "b"))
	require.Equal(t, 3, d.Offset())
	require.Equal(t, 20, d.Len())
	require.True(t, d.ScrollToBottom())
	require.Equal(t, 15, d.Offset())
}

func TestDiffModel_SetViewportHeightClamps(t *testing.T) {
	d := NewDiffModel(5)
	d.Load(lines(20, "l"))
	d.ScrollToBottom()
	require.Equal(t, 15, d.Offset())

	d.SetViewportHeight(12)
	require.Equal(t, 8, d.Offset())

	d.SetViewportHeight(-1)
	require.Equal(t, 0, d.Height())
	require.Empty(t, d.Visible())
}

func TestDiffModel_SetOffset(t *testing.T) {
	d := NewDiffModel(5)
	d.Load(lines(20, "l"))
	require.True(t, d.SetOffset(7))
	require.Equal(t, 7, d.Offset())
	d.SetOffset(99)
	require.Equal(t, 15, d.Offset())
	d.SetOffset(-3)
	require.Equal(t, 0, d.Offset())
}

func TestDiffModel_NearEnd(t *testing.T) {
	d := NewDiffModel(5)
	d.Load(lines(30, "l"))
	require.False(t, d.NearEnd(5))
	d.Scroll(20)
	require.True(t, d.NearEnd(5))
}
