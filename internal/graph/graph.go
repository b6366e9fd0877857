// Package graph assigns commits to lanes so a history can be drawn as columns.
//
// Layout is append-only: rows already produced never change when more commits
// arrive, and feeding the same history in any chunking yields the same rows.
package graph

import (
	"sort"

	"github.com/cj3636/gitt/internal/git"
)

// EdgeKind describes how a commit connects to one of its parents.
type EdgeKind uint8

const (
	// Continue keeps the parent in the commit's own lane.
	Continue EdgeKind = iota
	// Branch opens a new lane for the parent, starting at this row.
	Branch
	// Converge joins a lane already reserved for the parent by an earlier row.
	Converge
)

func (k EdgeKind) String() string {
	switch k {
	case Continue:
		return "continue"
	case Branch:
		return "branch"
	case Converge:
		return "converge"
	default:
		return "unknown"
	}
}

// Edge leads from the commit's lane down to the lane of one parent.
type Edge struct {
	From   int
	To     int
	Parent string
	Kind   EdgeKind
}

// Row is one laid-out line of the commit list.
type Row struct {
	Commit git.Commit
	// Lane is the column of the commit's node.
	Lane int
	// Incoming is set when an earlier row reserved Lane for this commit, so a
	// line enters the node from above.
	Incoming bool
	// Through lists, ascending, the lanes of other branches crossing this row.
	Through []int
	// Edges holds one edge per kept parent, in parent order.
	Edges []Edge
	// Width is the number of lane columns needed to draw the row.
	Width int
}

// Builder lays out commits in walk order. The zero value is not usable; call New.
//
// A walk is consumed in chunks, so a parent that never appears cannot be told
// apart from one that has not arrived yet. Its lane therefore stays reserved
// until the walk ends; it is never freed early.
type Builder struct {
	// reserved maps a pending commit id to the lane waiting for it.
	reserved map[string]int
	// lanes[i] is the id lane i is reserved for, or "" when free.
	lanes []string
	seen  map[string]struct{}
	rows  int
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{
		reserved: make(map[string]int),
		seen:     make(map[string]struct{}),
	}
}

// Reset discards all layout state.
func (b *Builder) Reset() {
	b.reserved = make(map[string]int)
	b.seen = make(map[string]struct{})
	b.lanes = nil
	b.rows = 0
}

// Rows returns how many rows have been produced so far.
func (b *Builder) Rows() int {
	return b.rows
}

// Lanes returns the number of lane columns currently in use.
func (b *Builder) Lanes() int {
	return len(b.lanes)
}

// Append lays out the next chunk of commits and returns their rows.
func (b *Builder) Append(commits []git.Commit) []Row {
	rows := make([]Row, 0, len(commits))
	for _, c := range commits {
		rows = append(rows, b.layout(c))
	}
	return rows
}

func (b *Builder) layout(c git.Commit) Row {
	row := Row{Commit: c}

	lane, ok := b.reserved[c.ID]
	if ok {
		delete(b.reserved, c.ID)
		row.Incoming = true
	} else {
		lane = b.allocate(c.ID)
	}
	row.Lane = lane
	b.seen[c.ID] = struct{}{}

	// Lanes of other branches that were live above this row stay live below it.
	for i, id := range b.lanes {
		if i != lane && id != "" {
			row.Through = append(row.Through, i)
		}
	}

	continued := false
	for i, parent := range b.validParents(c) {
		if target, ok := b.reserved[parent]; ok {
			row.Edges = append(row.Edges, Edge{From: lane, To: target, Parent: parent, Kind: Converge})
			continue
		}
		if i == 0 {
			b.lanes[lane] = parent
			b.reserved[parent] = lane
			continued = true
			row.Edges = append(row.Edges, Edge{From: lane, To: lane, Parent: parent, Kind: Continue})
			continue
		}
		target := b.allocate(parent)
		b.reserved[parent] = target
		row.Edges = append(row.Edges, Edge{From: lane, To: target, Parent: parent, Kind: Branch})
	}

	row.Width = len(b.lanes)

	if !continued {
		b.lanes[lane] = ""
		b.trim()
	}

	b.rows++
	return row
}

// validParents drops references that cannot be drawn: empty ids, self
// references, duplicates and commits already placed above this row.
func (b *Builder) validParents(c git.Commit) []string {
	var parents []string
	for _, p := range c.Parents {
		if p == "" || p == c.ID {
			continue
		}
		if _, done := b.seen[p]; done {
			continue
		}
		dup := false
		for _, q := range parents {
			if q == p {
				dup = true
				break
			}
		}
		if !dup {
			parents = append(parents, p)
		}
	}
	return parents
}

// allocate claims the smallest free lane for id.
func (b *Builder) allocate(id string) int {
	for i, occupant := range b.lanes {
		if occupant == "" {
			b.lanes[i] = id
			return i
		}
	}
	b.lanes = append(b.lanes, id)
	return len(b.lanes) - 1
}

// trim drops free lanes at the right edge.
func (b *Builder) trim() {
	n := len(b.lanes)
	for n > 0 && b.lanes[n-1] == "" {
		n--
	}
	b.lanes = b.lanes[:n]
}

// Build lays out a complete history in one call.
func Build(commits []git.Commit) []Row {
	return New().Append(commits)
}

// Occupied returns the ascending lanes in use by the row: its own lane, the
// lanes passing through it and the lanes its edges lead to.
func (r Row) Occupied() []int {
	set := map[int]struct{}{r.Lane: {}}
	for _, l := range r.Through {
		set[l] = struct{}{}
	}
	for _, e := range r.Edges {
		set[e.To] = struct{}{}
	}
	lanes := make([]int, 0, len(set))
	for l := range set {
		lanes = append(lanes, l)
	}
	sort.Ints(lanes)
	return lanes
}
