package git

import (
	"errors"
	"fmt"
)

var (
	// ErrGitMissing is returned when no git executable is on PATH.
	ErrGitMissing = errors.New("git executable not found")
	// ErrBadWorkingDir is returned when the working directory does not exist or is not a directory.
	ErrBadWorkingDir = errors.New("invalid working directory")
	// ErrNotRepository is returned when the working directory is not inside a repository.
	ErrNotRepository = errors.New("not a git repository")
	// ErrBadRevision is returned when a committish cannot be resolved to a commit.
	ErrBadRevision = errors.New("unknown revision")
)

// StartupError is a fatal failure detected before the interactive session starts.
type StartupError struct {
	Op  string
	Err error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

func startupErr(op string, err error) error {
	return &StartupError{Op: op, Err: err}
}
