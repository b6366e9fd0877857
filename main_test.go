package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		dash       int
		committish string
		paths      []string
		wantErr    bool
	}{
		{name: "nothing", dash: -1},
		{name: "committish", args: []string{"v1.0"}, dash: -1, committish: "v1.0"},
		{name: "paths only", args: []string{"docs", "cmd"}, dash: 0, paths: []string{"docs", "cmd"}},
		{name: "both", args: []string{"main", "docs"}, dash: 1, committish: "main", paths: []string{"docs"}},
		{name: "two revisions", args: []string{"a", "b"}, dash: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			committish, paths, err := splitArgs(tt.args, tt.dash)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.committish, committish)
			require.Equal(t, tt.paths, paths)
		})
	}
}
