package tui

import (
	"path/filepath"
	"strings"
)

// RepoContext describes what is being browsed.
type RepoContext struct {
	Root   string
	Branch string
	Rev    string
	Paths  []string
}

// Title renders the context for the title bar.
func (c RepoContext) Title() string {
	var parts []string
	name := filepath.Base(c.Root)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = c.Root
	}
	parts = append(parts, "gitt: "+name)

	switch {
	case c.Rev != "":
		parts = append(parts, c.Rev)
	case c.Branch != "":
		parts = append(parts, c.Branch)
	default:
		parts = append(parts, "HEAD")
	}
	if len(c.Paths) > 0 {
		parts = append(parts, "-- "+strings.Join(c.Paths, " "))
	}
	return strings.Join(parts, " ")
}
