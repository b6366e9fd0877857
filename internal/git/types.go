package git

import (
	"strings"
	"time"
)

// Signature identifies who authored a commit and when.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// RefKind classifies a ref decoration.
type RefKind uint8

const (
	RefBranch RefKind = iota
	RefRemoteBranch
	RefTag
	RefHead
)

// Ref is a decoration attached to a commit (branch, tag, HEAD).
type Ref struct {
	Kind RefKind
	Name string // short name: main, origin/main, v1.0
}

// Commit is the metadata of a single commit as produced by the revision walk.
// Values are never mutated after they leave the stream.
type Commit struct {
	ID      string
	Parents []string
	Subject string
	Author  Signature
	Refs    []Ref
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// ShortID returns the abbreviated hash used in list rows.
func (c Commit) ShortID() string {
	if len(c.ID) <= 8 {
		return c.ID
	}
	return c.ID[:8]
}

// parseRefs decodes a %D decoration produced with --decorate=full, such as
// "HEAD -> refs/heads/main, refs/remotes/origin/main, tag: refs/tags/v1.0".
func parseRefs(decoration string) []Ref {
	decoration = strings.TrimSpace(decoration)
	if decoration == "" {
		return nil
	}

	var refs []Ref
	for _, part := range strings.Split(decoration, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "HEAD" {
			refs = append(refs, Ref{Kind: RefHead, Name: "HEAD"})
			continue
		}
		if rest, ok := strings.CutPrefix(part, "HEAD -> "); ok {
			refs = append(refs, Ref{Kind: RefHead, Name: "HEAD"})
			part = rest
		}
		refs = append(refs, classifyRef(part))
	}
	return refs
}

func classifyRef(name string) Ref {
	name = strings.TrimPrefix(name, "tag: ")
	switch {
	case strings.HasPrefix(name, "refs/heads/"):
		return Ref{Kind: RefBranch, Name: strings.TrimPrefix(name, "refs/heads/")}
	case strings.HasPrefix(name, "refs/remotes/"):
		return Ref{Kind: RefRemoteBranch, Name: strings.TrimPrefix(name, "refs/remotes/")}
	case strings.HasPrefix(name, "refs/tags/"):
		return Ref{Kind: RefTag, Name: strings.TrimPrefix(name, "refs/tags/")}
	default:
		return Ref{Kind: RefBranch, Name: strings.TrimPrefix(name, "refs/")}
	}
}
