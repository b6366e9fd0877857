package export

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/cj3636/gitt/internal/config"
	"github.com/cj3636/gitt/internal/git"
	"github.com/cj3636/gitt/internal/graph"
	"github.com/stretchr/testify/require"
)

func mergeHistory() []git.Commit {
	return []git.Commit{
		{
			ID:      "M",
			Parents: []string{"A", "B"},
			Subject: "merge",
			Refs:    []git.Ref{{Kind: git.RefHead, Name: "HEAD"}, {Kind: git.RefBranch, Name: "main"}},
		},
		{ID: "A", Parents: []string{"base"}, Subject: "left"},
		{ID: "B", Parents: []string{"base"}, Subject: "right", Refs: []git.Ref{{Kind: git.RefTag, Name: "v1"}}},
		{
			ID:      "base",
			Subject: "root",
			Author:  git.Signature{Name: "Ada", When: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)},
		},
	}
}

const mergeText = "◆─╮ M (HEAD, main) merge\n" +
	"● │ A left\n" +
	"├─● B (tag: v1) right\n" +
	"● base root - Ada, 2024\n"

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":         FormatText,
		"plain":    FormatText,
		"ANSI":     FormatANSI,
		"color":    FormatANSI,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseFormat("html")
	require.Error(t, err)
}

func TestPrinter_Text(t *testing.T) {
	var out bytes.Buffer
	p, err := NewPrinter(&out, Options{Format: FormatText, DateFormat: "2006"})
	require.NoError(t, err)

	commits := mergeHistory()
	b := graph.New()
	require.NoError(t, p.WriteRows(b.Append(commits[:2])))
	require.NoError(t, p.WriteRows(b.Append(commits[2:])))
	require.NoError(t, p.Close())

	require.Equal(t, mergeText, out.String())
	require.Equal(t, 4, p.Rows())
}

func TestPrinter_Markdown(t *testing.T) {
	var out bytes.Buffer
	p, err := NewPrinter(&out, Options{Format: FormatMarkdown, Title: "gitt: repo", DateFormat: "2006"})
	require.NoError(t, err)
	require.NoError(t, p.WriteRows(graph.Build(mergeHistory())))
	require.NoError(t, p.Close())

	require.Equal(t, "# gitt: repo\n\n```text\n"+mergeText+"```\n", out.String())
}

func TestPrinter_EmptyMarkdownStillFenced(t *testing.T) {
	var out bytes.Buffer
	p, err := NewPrinter(&out, Options{Format: FormatMarkdown})
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.Equal(t, "```text\n```\n", out.String())
}

func TestPrinter_ANSI(t *testing.T) {
	var out bytes.Buffer
	p, err := NewPrinter(&out, Options{Format: FormatANSI, DateFormat: "2006", Theme: config.DefaultTheme()})
	require.NoError(t, err)
	require.NoError(t, p.WriteRows(graph.Build(mergeHistory())))
	require.NoError(t, p.Close())

	require.Contains(t, out.String(), "\x1b[")
	require.Equal(t, mergeText, ansi.Strip(out.String()))
}

func hostileCommit() git.Commit {
	return git.Commit{
		ID:      "evil",
		Subject: "pwn \x1b]0;x\x07 \x1b[31mred",
		Author:  git.Signature{Name: "n\x1b[2J", When: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)},
	}
}

func TestPrinter_TextStripsControlSequences(t *testing.T) {
	var out bytes.Buffer
	p, err := NewPrinter(&out, Options{Format: FormatText, Title: "repo\x1b]2;t\x07", DateFormat: "2006"})
	require.NoError(t, err)
	require.NoError(t, p.WriteRows(graph.Build([]git.Commit{hostileCommit()})))
	require.NoError(t, p.Close())

	require.NotContains(t, out.String(), "\x1b")
	require.NotContains(t, out.String(), "\x07")
	require.Equal(t, "repo�]2;t�\n\n● evil pwn �]0;x� �[31mred - n�[2J, 2024\n", out.String())
}

func TestPrinter_ANSIStripsControlSequences(t *testing.T) {
	var out bytes.Buffer
	p, err := NewPrinter(&out, Options{Format: FormatANSI, DateFormat: "2006", Theme: config.DefaultTheme()})
	require.NoError(t, err)
	require.NoError(t, p.WriteRows(graph.Build([]git.Commit{hostileCommit()})))
	require.NoError(t, p.Close())

	// Only the printer's own SGR sequences remain.
	require.NotContains(t, out.String(), "\x07")
	require.NotContains(t, out.String(), "\x1b]")
	require.NotContains(t, out.String(), "\x1b[2J")
	require.Equal(t, "● evil pwn �]0;x� �[31mred - n�[2J, 2024\n", ansi.Strip(out.String()))
}

func TestPrinter_MarkdownFenceSurvivesBackticks(t *testing.T) {
	var out bytes.Buffer
	p, err := NewPrinter(&out, Options{Format: FormatMarkdown, DateFormat: "2006"})
	require.NoError(t, err)
	require.NoError(t, p.WriteRows(graph.Build([]git.Commit{{ID: "fence", Subject: "```\n# not a heading"}})))
	require.NoError(t, p.Close())

	// Every row starts with a graph glyph, so no row can close the fence.
	require.Equal(t, "```text\n● fence ```# not a heading\n```\n", out.String())
}

func TestNewPrinter_Errors(t *testing.T) {
	_, err := NewPrinter(nil, Options{})
	require.Error(t, err)
	_, err = NewPrinter(&bytes.Buffer{}, Options{Format: "html"})
	require.Error(t, err)
}

func TestCopyToClipboard(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("STY", "")
	var out bytes.Buffer
	require.NoError(t, CopyToClipboard("0123abcd", &out))

	seq := out.String()
	require.True(t, strings.HasPrefix(seq, "\x1b]52;c;"), seq)
	require.Contains(t, seq, base64.StdEncoding.EncodeToString([]byte("0123abcd")))
}
