package layout

import (
	"sort"

	"github.com/matzehuels/brainlift/pkg/dok"
)

// Index answers neighbor queries for the insight (middle) tier in O(1)
// amortized. It is built once per Build call from the two flat connection
// collections and never mutated afterward.
type Index struct {
	upper map[int][]int // insight index -> SPOV indices, input order
	lower map[int][]int // insight index -> knowledge indices, input order
}

// NewIndex groups the two connection collections by their insight endpoint.
//
// insightsToSPOVs is grouped by source index (the insight is the source of a
// dok3→dok4 connection). knowledgeToInsights is grouped by TARGET index: the
// connection is stored knowledge→insight, but the layout query is "who feeds
// into this insight", so the direction is reversed here. Input order is
// preserved within each group. Empty collections produce empty maps, which
// makes every insight a zero-neighbor anchor.
func NewIndex(insightsToSPOVs, knowledgeToInsights []dok.Connection) *Index {
	ix := &Index{
		upper: make(map[int][]int, len(insightsToSPOVs)),
		lower: make(map[int][]int, len(knowledgeToInsights)),
	}
	for _, c := range insightsToSPOVs {
		ix.upper[c.SourceIndex] = append(ix.upper[c.SourceIndex], c.TargetIndex)
	}
	for _, c := range knowledgeToInsights {
		ix.lower[c.TargetIndex] = append(ix.lower[c.TargetIndex], c.SourceIndex)
	}
	return ix
}

// UpperNeighbors returns the SPOV indices connected to the given insight,
// in connection input order. The returned slice is a read-only view.
func (ix *Index) UpperNeighbors(insight int) []int { return ix.upper[insight] }

// LowerNeighbors returns the knowledge indices feeding into the given
// insight, in connection input order. The returned slice is a read-only view.
func (ix *Index) LowerNeighbors(insight int) []int { return ix.lower[insight] }

// capConnections keeps at most n connections per anchor, where keyFn maps a
// connection to its anchor index. The highest-scoring connections survive;
// ties keep the earlier one. The surviving connections retain their relative
// input order so grouping and edge ids stay deterministic.
func capConnections(conns []dok.Connection, n int, keyFn func(dok.Connection) int) []dok.Connection {
	if n <= 0 || len(conns) == 0 {
		return conns
	}

	byAnchor := make(map[int][]int) // anchor -> positions in conns
	for i, c := range conns {
		k := keyFn(c)
		byAnchor[k] = append(byAnchor[k], i)
	}

	keep := make(map[int]bool, len(conns))
	for _, positions := range byAnchor {
		ranked := make([]int, len(positions))
		copy(ranked, positions)
		sort.SliceStable(ranked, func(a, b int) bool {
			return conns[ranked[a]].Score > conns[ranked[b]].Score
		})
		for i := 0; i < n && i < len(ranked); i++ {
			keep[ranked[i]] = true
		}
	}

	out := make([]dok.Connection, 0, len(keep))
	for i, c := range conns {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}
