package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cj3636/gitt/internal/export"
	"github.com/cj3636/gitt/internal/git"
)

// openLog starts the walk and reads its first batch in the background.
func openLog(ctx context.Context, source git.RevisionSource, opts git.LogOptions, batch int) tea.Cmd {
	return func() tea.Msg {
		stream, err := source.Log(ctx, opts)
		if err != nil {
			return commitsMsg{err: err}
		}
		commits, err := stream.Next(batch)
		return commitsMsg{stream: stream, commits: commits, err: err}
	}
}

func fetchCommits(stream git.CommitStream, batch int) tea.Cmd {
	return func() tea.Msg {
		commits, err := stream.Next(batch)
		return commitsMsg{commits: commits, err: err}
	}
}

// openDiff starts the diff of id and reads its first batch.
func openDiff(ctx context.Context, source git.RevisionSource, id string, paths []string, gen uint64, batch int) tea.Cmd {
	return func() tea.Msg {
		stream, err := source.Diff(ctx, id, paths)
		if err != nil {
			return diffMsg{id: id, gen: gen, first: true, err: err}
		}
		lines, err := stream.Next(batch)
		return diffMsg{id: id, gen: gen, lines: lines, stream: stream, first: true, err: err}
	}
}

func pullDiff(stream git.LineStream, id string, gen uint64, batch int) tea.Cmd {
	return func() tea.Msg {
		lines, err := stream.Next(batch)
		return diffMsg{id: id, gen: gen, lines: lines, stream: stream, err: err}
	}
}

// closeStream releases a stream off the event loop; closing waits for the
// child process.
func closeStream(stream io.Closer) tea.Cmd {
	if stream == nil {
		return nil
	}
	return func() tea.Msg {
		_ = stream.Close()
		return nil
	}
}

func copyID(id string, w io.Writer) tea.Cmd {
	return func() tea.Msg {
		if err := export.CopyToClipboard(id, w); err != nil {
			return flashMsg{text: "copy failed: " + err.Error()}
		}
		return flashMsg{text: "copied " + id}
	}
}
