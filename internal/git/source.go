// Package git supplies commit history and diff text by driving the git executable.
//
// Both streams are pulled lazily: nothing beyond the requested batch is parsed, and
// the underlying process is killed as soon as a stream is closed or its context is
// cancelled. Streams are not safe for concurrent use; callers keep at most one
// outstanding Next per stream.
package git

import "context"

// LogOptions selects the history to walk.
type LogOptions struct {
	// Rev is the committish to start from. Empty means HEAD.
	Rev string
	// Paths limits the walk to commits touching these paths.
	Paths []string
	// MaxCount stops the walk after this many commits when positive.
	MaxCount int
}

// CommitStream yields commits in walk order. Next returns io.EOF, possibly together
// with a final non-empty batch, once the walk is exhausted. A stream can only be
// restarted by opening a new one.
type CommitStream interface {
	Next(max int) ([]Commit, error)
	Close() error
}

// LineStream yields the lines of a diff, verbatim, without their trailing newline.
type LineStream interface {
	Next(max int) ([]string, error)
	Close() error
}

// RevisionSource is the supplier of history and diffs consumed by the UI.
type RevisionSource interface {
	Log(ctx context.Context, opts LogOptions) (CommitStream, error)
	Diff(ctx context.Context, id string, paths []string) (LineStream, error)
}
