package tui

import "github.com/cj3636/gitt/internal/git"

// commitsMsg carries the next batch of history. stream is set on the first
// batch, when the walk was just opened.
type commitsMsg struct {
	stream  git.CommitStream
	commits []git.Commit
	err     error
}

// diffMsg carries a batch of diff lines for commit id. gen identifies the
// request that produced it; first marks the batch that replaces the buffer.
// The stream travels with every batch so a superseded one can still be closed.
type diffMsg struct {
	id     string
	gen    uint64
	lines  []string
	stream git.LineStream
	first  bool
	err    error
}

// flashMsg shows a transient note in the status bar.
type flashMsg struct {
	text string
}
