package graph

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/cj3636/gitt/internal/git"
	"github.com/stretchr/testify/require"
)

func commit(id string, parents ...string) git.Commit {
	return git.Commit{ID: id, Parents: parents, Subject: "subject " + id}
}

func lanesOf(rows []Row) []int {
	lanes := make([]int, len(rows))
	for i, r := range rows {
		lanes[i] = r.Lane
	}
	return lanes
}

// checkLanes replays the edges of rows and fails when two live branches share a
// lane or a row disagrees with the branches live above it.
func checkLanes(t *testing.T, rows []Row) {
	t.Helper()
	owner := map[int]string{}
	for i, row := range rows {
		if row.Incoming {
			require.Equal(t, row.Commit.ID, owner[row.Lane], "row %d: incoming lane owned by another branch", i)
		} else {
			_, taken := owner[row.Lane]
			require.False(t, taken, "row %d: new tip placed on a live lane %d", i, row.Lane)
		}
		delete(owner, row.Lane)

		live := make([]int, 0, len(owner))
		for l := range owner {
			live = append(live, l)
		}
		sort.Ints(live)
		require.Equal(t, len(live), len(row.Through), "row %d: through lanes", i)
		if len(live) > 0 {
			require.Equal(t, live, row.Through, "row %d: through lanes", i)
		}

		for _, e := range row.Edges {
			require.Equal(t, row.Lane, e.From)
			switch e.Kind {
			case Continue:
				require.Equal(t, row.Lane, e.To)
				owner[e.To] = e.Parent
			case Branch:
				require.NotEqual(t, row.Lane, e.To)
				_, taken := owner[e.To]
				require.False(t, taken, "row %d: branch into live lane %d", i, e.To)
				owner[e.To] = e.Parent
			case Converge:
				require.Equal(t, e.Parent, owner[e.To], "row %d: converge into wrong lane", i)
			}
		}

		ids := map[string]int{}
		for l, id := range owner {
			prev, dup := ids[id]
			require.False(t, dup, "row %d: %s pending in lanes %d and %d", i, id, prev, l)
			ids[id] = l
		}
		for l := range owner {
			require.Less(t, l, row.Width, "row %d: lane %d outside width", i, l)
		}
	}
}

func randomHistory(r *rand.Rand, n int) []git.Commit {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("c%04d", i)
	}
	commits := make([]git.Commit, n)
	for i := range commits {
		var parents []string
		if older := n - i - 1; older > 0 {
			count := 1
			switch k := r.Intn(10); {
			case k == 0:
				count = 0
			case k >= 8:
				count = 2 + r.Intn(2)
			}
			for j := 0; j < count; j++ {
				parents = append(parents, ids[i+1+r.Intn(min(6, older))])
			}
		}
		commits[i] = git.Commit{ID: ids[i], Parents: parents}
	}
	return commits
}

func TestBuild_LinearChainStaysInLaneZero(t *testing.T) {
	var commits []git.Commit
	for i := 20; i > 0; i-- {
		var parents []string
		if i > 1 {
			parents = []string{fmt.Sprintf("c%d", i-1)}
		}
		commits = append(commits, commit(fmt.Sprintf("c%d", i), parents...))
	}

	rows := Build(commits)
	require.Len(t, rows, 20)
	for i, row := range rows {
		require.Equal(t, 0, row.Lane, "row %d", i)
		require.Equal(t, 1, row.Width)
		require.Empty(t, row.Through)
		require.Equal(t, i > 0, row.Incoming)
	}
	require.Empty(t, rows[len(rows)-1].Edges)
	checkLanes(t, rows)
}

func TestBuild_ThreeCommitChain(t *testing.T) {
	rows := Build([]git.Commit{
		commit("C3", "C2"),
		commit("C2", "C1"),
		commit("C1"),
	})
	require.Equal(t, []int{0, 0, 0}, lanesOf(rows))
	require.Equal(t, []Edge{{From: 0, To: 0, Parent: "C2", Kind: Continue}}, rows[0].Edges)
}

func TestBuild_MergeAndConverge(t *testing.T) {
	b := New()
	rows := b.Append([]git.Commit{
		commit("M", "A", "B"),
		commit("A", "base"),
		commit("B", "base"),
		commit("base"),
	})

	require.Equal(t, []int{0, 0, 1, 0}, lanesOf(rows))
	require.Equal(t, []Edge{
		{From: 0, To: 0, Parent: "A", Kind: Continue},
		{From: 0, To: 1, Parent: "B", Kind: Branch},
	}, rows[0].Edges)
	require.Equal(t, 2, rows[0].Width)

	require.Equal(t, []int{1}, rows[1].Through)
	require.Equal(t, []int{0}, rows[2].Through)
	require.Equal(t, []Edge{{From: 1, To: 0, Parent: "base", Kind: Converge}}, rows[2].Edges)
	require.Empty(t, rows[3].Through)
	require.Equal(t, 1, rows[3].Width)
	require.Equal(t, 0, b.Lanes())
	checkLanes(t, rows)

	require.Equal(t, "◆─╮ ", Text(rows[0], 2))
	require.Equal(t, "● │ ", Text(rows[1], 2))
	require.Equal(t, "├─● ", Text(rows[2], 2))
	require.Equal(t, "●   ", Text(rows[3], 2))
}

func TestBuild_MergeWithOneReservedParentOpensOneLane(t *testing.T) {
	b := New()
	// T keeps M in lane 0 and reserves P1 in lane 1.
	top := b.Append([]git.Commit{commit("T", "M", "P1")})
	require.Equal(t, 2, b.Lanes())
	require.Equal(t, Branch, top[0].Edges[1].Kind)

	rows := b.Append([]git.Commit{commit("M", "P1", "P2")})
	merge := rows[0]
	require.True(t, merge.Incoming)
	require.Equal(t, 0, merge.Lane)

	var opened []int
	for _, e := range merge.Edges {
		if e.Kind == Branch {
			opened = append(opened, e.To)
		}
	}
	require.Equal(t, []int{2}, opened)
	require.Equal(t, []Edge{
		{From: 0, To: 1, Parent: "P1", Kind: Converge},
		{From: 0, To: 2, Parent: "P2", Kind: Branch},
	}, merge.Edges)
	require.Equal(t, 3, merge.Width)
	checkLanes(t, append(top, rows...))
}

func TestBuild_MergeOfNewTipWithReservedParent(t *testing.T) {
	b := New()
	rows := b.Append([]git.Commit{
		commit("X", "P2"),
		commit("M", "P1", "P2"),
	})
	// M is a fresh tip: it opens its own lane and nothing else.
	require.False(t, rows[1].Incoming)
	require.Equal(t, 1, rows[1].Lane)
	require.Equal(t, []Edge{
		{From: 1, To: 1, Parent: "P1", Kind: Continue},
		{From: 1, To: 0, Parent: "P2", Kind: Converge},
	}, rows[1].Edges)
	require.Equal(t, 2, b.Lanes())
	checkLanes(t, rows)
}

func TestBuild_BranchPointFirstChildKeepsLane(t *testing.T) {
	rows := Build([]git.Commit{
		commit("A", "P"),
		commit("B", "P"),
		commit("P"),
	})
	require.Equal(t, []int{0, 1, 0}, lanesOf(rows))
	require.Equal(t, Converge, rows[1].Edges[0].Kind)
	require.Equal(t, 0, rows[1].Edges[0].To)
	checkLanes(t, rows)
}

func TestBuild_ParallelRootsReuseSmallestLane(t *testing.T) {
	rows := Build([]git.Commit{
		commit("X", "Xp"),
		commit("Y", "Yp"),
		commit("Xp"),
		commit("Z", "Zp"),
		commit("Yp"),
		commit("Zp"),
	})
	require.Equal(t, []int{0, 1, 0, 0, 1, 0}, lanesOf(rows))
	checkLanes(t, rows)
}

func TestBuild_MalformedParentsDegradeToRoot(t *testing.T) {
	tests := []struct {
		name    string
		commits []git.Commit
		edges   int
	}{
		{name: "empty id", commits: []git.Commit{commit("A", "")}, edges: 0},
		{name: "self reference", commits: []git.Commit{commit("A", "A")}, edges: 0},
		{name: "duplicate parent", commits: []git.Commit{commit("A", "P", "P"), commit("P")}, edges: 1},
		{name: "parent listed earlier", commits: []git.Commit{commit("P"), commit("A", "P")}, edges: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			rows := b.Append(tt.commits)
			var child Row
			for _, r := range rows {
				if r.Commit.ID == "A" {
					child = r
				}
			}
			require.Len(t, child.Edges, tt.edges)
			require.Equal(t, 0, b.Lanes())
			checkLanes(t, rows)
		})
	}
}

func TestBuild_DanglingParentStaysPending(t *testing.T) {
	b := New()
	rows := b.Append([]git.Commit{commit("A", "missing")})
	require.Equal(t, 1, b.Lanes())
	require.Equal(t, 1, rows[0].Width)

	// A later unrelated tip must not take the pending lane.
	rows = b.Append([]git.Commit{commit("B")})
	require.Equal(t, 1, rows[0].Lane)
	require.Equal(t, []int{0}, rows[0].Through)
}

func TestBuild_IncrementalMatchesFullBuild(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 25; trial++ {
		commits := randomHistory(r, 150)
		full := Build(commits)
		checkLanes(t, full)

		for _, chunk := range []int{1, 2, 3, 7, 64, 149} {
			b := New()
			var rows []Row
			for start := 0; start < len(commits); start += chunk {
				end := min(start+chunk, len(commits))
				rows = append(rows, b.Append(commits[start:end])...)
			}
			require.Equal(t, full, rows, "trial %d chunk %d", trial, chunk)
			require.Equal(t, len(commits), b.Rows())
		}
	}
}

func TestBuilder_Reset(t *testing.T) {
	b := New()
	first := b.Append([]git.Commit{commit("M", "A", "B"), commit("A")})
	b.Reset()
	require.Equal(t, 0, b.Lanes())
	require.Equal(t, 0, b.Rows())
	again := b.Append([]git.Commit{commit("M", "A", "B"), commit("A")})
	require.Equal(t, first, again)
}

func TestRow_Occupied(t *testing.T) {
	row := Row{Lane: 1, Through: []int{0, 3}, Edges: []Edge{{From: 1, To: 2, Kind: Branch}}}
	require.Equal(t, []int{0, 1, 2, 3}, row.Occupied())
}

func TestCells_Clipping(t *testing.T) {
	rows := Build([]git.Commit{commit("M", "A", "B"), commit("A"), commit("B")})
	require.Equal(t, "◆─", Text(rows[0], 1))
	require.Nil(t, Cells(rows[0], 0))
}

func TestCells_CrossesThroughLanes(t *testing.T) {
	row := Row{
		Commit:  commit("M", "A", "B"),
		Lane:    0,
		Through: []int{1},
		Edges: []Edge{
			{From: 0, To: 0, Parent: "A", Kind: Continue},
			{From: 0, To: 2, Parent: "B", Kind: Branch},
		},
		Width: 3,
	}
	require.Equal(t, "◆─┼─╮ ", Text(row, 3))

	cells := Cells(row, 3)
	require.Equal(t, 1, cells[2].Lane)
	require.Equal(t, 2, cells[1].Lane)
}

func TestEdgeKind_String(t *testing.T) {
	require.Equal(t, "continue", Continue.String())
	require.Equal(t, "branch", Branch.String())
	require.Equal(t, "converge", Converge.String())
}
