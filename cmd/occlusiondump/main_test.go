package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunBundledScene(t *testing.T) {
	tests := []struct {
		name     string
		opts     options
		want     []string
		contains []string
		absent   []string
	}{
		{
			name: "no_ticks",
			opts: options{Ticks: 0},
			want: []string{"0 objects tracked, 0 occluded"},
		},
		{
			name: "first_tick",
			opts: options{Ticks: 1},
			want: []string{
				"tick    0  occluded pillar_front",
				"tick    0  occluded hedge",
				"2 objects tracked, 2 occluded",
			},
		},
		{
			name: "walk_right",
			opts: options{Ticks: 120, StepX: 3},
			contains: []string{
				"occluded fountain",
				"restored pillar_front",
				"restored hedge",
				"3 objects tracked, 1 occluded",
			},
			absent: []string{"volume_spawn", "arm_stop"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, run(&out, tc.opts))

			if tc.want != nil {
				require.Equal(t, tc.want, strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n"))
			}
			for _, s := range tc.contains {
				require.Contains(t, out.String(), s)
			}
			for _, s := range tc.absent {
				require.NotContains(t, out.String(), s)
			}
		})
	}
}

func TestRunMissingScene(t *testing.T) {
	var out bytes.Buffer
	require.Error(t, run(&out, options{Scene: "missing.yaml", Ticks: 1}))
	require.Empty(t, out.String())
}
