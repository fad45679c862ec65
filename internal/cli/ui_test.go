package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/pipeline"
)

func TestTypeBreakdown(t *testing.T) {
	tree, err := module.New([]string{"RoverSystem/MainBoard/MCU", "Base"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := typeBreakdown(tree), "1 system, 1 pcb, 2 component"; got != want {
		t.Errorf("typeBreakdown = %q, want %q", got, want)
	}
}

func TestRenderStats(t *testing.T) {
	tests := []struct {
		name     string
		res      pipeline.Result
		want     []string
		unwanted []string
	}{
		{
			name: "fresh",
			res:  pipeline.Result{Stats: pipeline.Stats{Modules: 5, Visible: 3, Edges: 2}},
			want: []string{"3 of 5 modules", "2 edges", iconFresh},
		},
		{
			name:     "cached without edges",
			res:      pipeline.Result{Stats: pipeline.Stats{Modules: 2, Visible: 2}, CacheInfo: pipeline.CacheInfo{FrameHit: true, RenderHit: true}},
			want:     []string{"2 of 2 modules", iconCached},
			unwanted: []string{"edges", iconFresh, "frame"},
		},
		{
			name: "frame only",
			res:  pipeline.Result{Stats: pipeline.Stats{Modules: 1, Visible: 1}, CacheInfo: pipeline.CacheInfo{FrameHit: true}},
			want: []string{"frame " + iconCached},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderStats(&tt.res)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("renderStats = %q, missing %q", got, w)
				}
			}
			for _, u := range tt.unwanted {
				if strings.Contains(got, u) {
					t.Errorf("renderStats = %q, unexpected %q", got, u)
				}
			}
		})
	}
}
