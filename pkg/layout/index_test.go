package layout

import (
	"slices"
	"testing"

	"github.com/matzehuels/brainlift/pkg/dok"
)

func TestNewIndexGrouping(t *testing.T) {
	toSPOVs := []dok.Connection{
		{SourceIndex: 1, TargetIndex: 3, Kind: dok.KindSupports},
		{SourceIndex: 2, TargetIndex: 1, Kind: dok.KindSupports},
		{SourceIndex: 1, TargetIndex: 2, Kind: dok.KindContradicts},
	}
	toInsights := []dok.Connection{
		{SourceIndex: 5, TargetIndex: 1, Kind: dok.KindSupports},
		{SourceIndex: 6, TargetIndex: 1, Kind: dok.KindSupports},
		{SourceIndex: 7, TargetIndex: 2, Kind: dok.KindContradicts},
	}

	ix := NewIndex(toSPOVs, toInsights)

	// Upper neighbors group by source and keep input order.
	if got := ix.UpperNeighbors(1); !slices.Equal(got, []int{3, 2}) {
		t.Errorf("UpperNeighbors(1) = %v, want [3 2]", got)
	}
	if got := ix.UpperNeighbors(2); !slices.Equal(got, []int{1}) {
		t.Errorf("UpperNeighbors(2) = %v, want [1]", got)
	}

	// Lower neighbors group by target: the stored direction is
	// knowledge→insight but the query is "who feeds this insight".
	if got := ix.LowerNeighbors(1); !slices.Equal(got, []int{5, 6}) {
		t.Errorf("LowerNeighbors(1) = %v, want [5 6]", got)
	}
	if got := ix.LowerNeighbors(2); !slices.Equal(got, []int{7}) {
		t.Errorf("LowerNeighbors(2) = %v, want [7]", got)
	}

	// Unknown insights have no neighbors.
	if got := ix.UpperNeighbors(9); got != nil {
		t.Errorf("UpperNeighbors(9) = %v, want nil", got)
	}
}

func TestNewIndexEmpty(t *testing.T) {
	ix := NewIndex(nil, nil)
	if ix.UpperNeighbors(1) != nil || ix.LowerNeighbors(1) != nil {
		t.Error("empty index returned neighbors")
	}
}

func TestCapConnections(t *testing.T) {
	anchor := func(c dok.Connection) int { return c.TargetIndex }

	tests := []struct {
		name  string
		conns []dok.Connection
		n     int
		want  []int // surviving source indices, in order
	}{
		{
			name: "Disabled",
			conns: []dok.Connection{
				{SourceIndex: 1, TargetIndex: 1, Score: 10},
				{SourceIndex: 2, TargetIndex: 1, Score: 20},
			},
			n:    0,
			want: []int{1, 2},
		},
		{
			name: "HighestScoreRetained",
			conns: []dok.Connection{
				{SourceIndex: 1, TargetIndex: 1, Score: 10},
				{SourceIndex: 2, TargetIndex: 1, Score: 30},
				{SourceIndex: 3, TargetIndex: 1, Score: 20},
			},
			n:    2,
			want: []int{2, 3},
		},
		{
			name: "TieKeepsEarlier",
			conns: []dok.Connection{
				{SourceIndex: 1, TargetIndex: 1, Score: 50},
				{SourceIndex: 2, TargetIndex: 1, Score: 50},
			},
			n:    1,
			want: []int{1},
		},
		{
			name: "PerAnchorNotGlobal",
			conns: []dok.Connection{
				{SourceIndex: 1, TargetIndex: 1, Score: 10},
				{SourceIndex: 2, TargetIndex: 2, Score: 5},
			},
			n:    1,
			want: []int{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := capConnections(tt.conns, tt.n, anchor)
			var sources []int
			for _, c := range got {
				sources = append(sources, c.SourceIndex)
			}
			if !slices.Equal(sources, tt.want) {
				t.Errorf("surviving sources = %v, want %v", sources, tt.want)
			}
		})
	}
}
