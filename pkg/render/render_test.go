package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/brainlift/pkg/dok"
	"github.com/matzehuels/brainlift/pkg/layout"
)

func testLayout(t *testing.T) layout.Layout {
	t.Helper()
	spovs := []dok.Item{{Index: 1, Content: "Spiky take"}}
	insights := []dok.Item{{Index: 1, Content: "Insight one"}}
	knowledge := []dok.Item{
		{Index: 1, Content: "Fact one", Children: []string{"- detail\n"}},
		{Index: 2, Content: "Fact two"},
	}
	analysis := dok.Analysis{
		KnowledgeToInsights: []dok.Connection{
			{SourceIndex: 1, TargetIndex: 1, Kind: dok.KindSupports, Score: 95},
		},
		InsightsToSPOVs: []dok.Connection{
			{SourceIndex: 1, TargetIndex: 1, Kind: dok.KindContradicts, Score: 95},
		},
	}
	return layout.Build(spovs, insights, knowledge, analysis, layout.Config{})
}

func TestDiagramSVG(t *testing.T) {
	svg := string(DiagramSVG(testLayout(t), Options{}))

	if !strings.HasPrefix(svg, "<svg xmlns=") {
		t.Error("output should be a standalone SVG document")
	}
	if got := strings.Count(svg, "<rect"); got != 4 {
		t.Errorf("rect count = %d, want one per node (4)", got)
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("path count = %d, want one per edge (2)", got)
	}
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Error("contradicting edge should be dashed")
	}
	if !strings.Contains(svg, contraStroke) {
		t.Error("contradicting edge should use the contradiction color")
	}
	if !strings.Contains(svg, "Fact one") {
		t.Error("node labels should appear in the output")
	}
	// Fact two has no connections and renders dimmed.
	if !strings.Contains(svg, `opacity=`) {
		t.Error("orphan nodes should render with reduced opacity")
	}
}

func TestDiagramSVGEscapesLabels(t *testing.T) {
	l := layout.Layout{
		Nodes: []layout.Node{
			{ID: "insight-1", Tier: layout.TierInsight, Content: `<script>alert("x")</script>`},
		},
		Width:  300,
		Height: 200,
	}
	svg := string(DiagramSVG(l, Options{}))
	if strings.Contains(svg, "<script>") {
		t.Error("labels must be HTML-escaped")
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testLayout(t), Options{Detailed: true})

	if !strings.HasPrefix(dot, "digraph BrainLift {") {
		t.Error("output should be a digraph")
	}
	if got := strings.Count(dot, "rank=same"); got != 3 {
		t.Errorf("rank groups = %d, want one per column (3)", got)
	}
	if !strings.Contains(dot, `"knowledge-1" -> "insight-1";`) {
		t.Error("supporting edge missing or styled unexpectedly")
	}
	if !strings.Contains(dot, `"insight-1" -> "spov-1" [style=dashed`) {
		t.Error("contradicting edge should be dashed")
	}
	if !strings.Contains(dot, "(1 sub-items)") {
		t.Error("detailed mode should include sub-item counts")
	}
}

func TestWrapLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  []string
	}{
		{
			name:  "short label stays on one line",
			label: "Fact one",
			want:  []string{"Fact one"},
		},
		{
			name:  "note lines are dropped",
			label: "Heading\nnote body that should not show",
			want:  []string{"Heading"},
		},
		{
			name:  "long label wraps at word boundaries",
			label: "spaced repetition beats massed practice for retention",
			want:  []string{"spaced repetition beats massed", "practice for retention"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapLabel(tt.label)
			if len(got) != len(tt.want) {
				t.Fatalf("wrapLabel() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}

	t.Run("overflow truncates with ellipsis", func(t *testing.T) {
		long := strings.Repeat("word ", 40)
		got := wrapLabel(long)
		if len(got) != maxLabelLines {
			t.Fatalf("lines = %d, want %d", len(got), maxLabelLines)
		}
		if !strings.HasSuffix(got[len(got)-1], "...") {
			t.Errorf("last line = %q, want ellipsis suffix", got[len(got)-1])
		}
	})
}
