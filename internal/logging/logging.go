// Package logging configures the file logger. The terminal belongs to the UI,
// so log output never goes to stdout or stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Options selects where and how much to log.
type Options struct {
	Verbose bool
	// File overrides the log path. Empty with Verbose logs to gitt.log in the
	// temp dir; empty without Verbose discards everything.
	File string
}

// DefaultFile is where verbose logs go when no file is given.
func DefaultFile() string {
	return filepath.Join(os.TempDir(), "gitt.log")
}

// New opens the logger described by opts. The returned close function must be
// called on exit.
func New(opts Options) (*log.Logger, func() error, error) {
	path := opts.File
	if path == "" && opts.Verbose {
		path = DefaultFile()
	}
	if path == "" {
		return log.New(io.Discard), func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	level := log.InfoLevel
	if opts.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           level,
		Prefix:          "gitt",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	return logger, f.Close, nil
}

// Timing remembers the slowest observation of a repeated operation and where
// it happened.
type Timing struct {
	Name     string
	Index    int
	Duration time.Duration
	Count    int
}

// NewTiming returns an empty recorder.
func NewTiming(name string) *Timing {
	return &Timing{Name: name}
}

// RecordMax records the time elapsed since start for the operation at index.
func (t *Timing) RecordMax(start time.Time, index int) {
	t.Observe(time.Since(start), index)
}

// Observe records d for the operation at index, keeping the maximum.
func (t *Timing) Observe(d time.Duration, index int) {
	t.Count++
	if d > t.Duration {
		t.Duration = d
		t.Index = index
	}
}

func (t *Timing) String() string {
	return fmt.Sprintf("%s: %dms (index %d)", t.Name, t.Duration.Milliseconds(), t.Index)
}

// Report writes the recorder's summary at debug level.
func (t *Timing) Report(logger *log.Logger) {
	logger.Debug("slowest "+t.Name, "duration", t.Duration, "index", t.Index, "samples", t.Count)
}
