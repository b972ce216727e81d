package layout_test

import (
	"fmt"

	"github.com/matzehuels/brainlift/pkg/dok"
	"github.com/matzehuels/brainlift/pkg/layout"
)

func ExampleBuild() {
	spovs := []dok.Item{
		{Index: 1, Content: "Spaced repetition should drive curriculum pacing"},
	}
	insights := []dok.Item{
		{Index: 1, Content: "Review timing matters more than review volume"},
	}
	knowledge := []dok.Item{
		{Index: 1, Content: "The forgetting curve is roughly exponential"},
	}
	analysis := dok.Analysis{
		InsightsToSPOVs: []dok.Connection{
			{SourceIndex: 1, TargetIndex: 1, Kind: dok.KindSupports},
		},
	}

	l := layout.Build(spovs, insights, knowledge, analysis, layout.DefaultConfig())

	for _, n := range l.Nodes {
		fmt.Printf("%-12s col=%d dimmed=%v\n", n.ID, n.Column, n.Dimmed)
	}
	for _, e := range l.Edges {
		fmt.Printf("%s: %s -> %s (%s)\n", e.ID, e.Source, e.Target, e.Kind)
	}

	// Output:
	// insight-1    col=1 dimmed=false
	// spov-1       col=0 dimmed=false
	// knowledge-1  col=2 dimmed=true
	// dok3-dok4-0: insight-1 -> spov-1 (supports)
}
