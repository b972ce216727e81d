package layout

import (
	"fmt"

	"github.com/matzehuels/brainlift/pkg/dok"
)

// Build computes the complete diagram layout for three tiers of items and
// their two connection collections.
//
// Insights are the anchoring axis: they are processed strictly in input
// order, each reserving a vertical zone sized to the larger of its two
// neighbor sets (with a floor of one slot, so the insight column keeps a
// uniform rhythm regardless of connectivity). SPOV and knowledge neighbors
// are distributed evenly across their anchor's zone. An item referenced by
// several insights is placed once, anchored to the first insight that
// reaches it. Items never claimed by any zone are appended below the zone
// region as dimmed orphans, SPOVs and knowledge independently.
//
// Build is deterministic: identical inputs (including ordering) produce
// identical output. It allocates all working state locally, so concurrent
// calls share nothing. Connections referencing items that don't exist are
// harmless: they influence zone sizing but produce no node and no edge.
func Build(spovs, insights, knowledge []dok.Item, analysis dok.Analysis, cfg Config) Layout {
	cfg = cfg.normalize()

	toSPOVs := analysis.InsightsToSPOVs
	toInsights := analysis.KnowledgeToInsights
	if cfg.MaxNeighbors > 0 {
		// The anchoring insight is the source in dok3→dok4 and the target
		// in dok2→dok3, so each collection caps on its insight side.
		toSPOVs = capConnections(toSPOVs, cfg.MaxNeighbors, func(c dok.Connection) int { return c.SourceIndex })
		toInsights = capConnections(toInsights, cfg.MaxNeighbors, func(c dok.Connection) int { return c.TargetIndex })
	}
	ix := NewIndex(toSPOVs, toInsights)

	spovItems := itemsByIndex(spovs)
	knowledgeItems := itemsByIndex(knowledge)

	placedSPOV := make(map[int]bool, len(spovs))
	placedKnowledge := make(map[int]bool, len(knowledge))
	placedInsight := make(map[int]bool, len(insights))

	nodes := make([]Node, 0, len(spovs)+len(insights)+len(knowledge))
	y := 0.0

	for _, ins := range insights {
		if placedInsight[ins.Index] {
			continue // duplicate index, first writer wins
		}
		placedInsight[ins.Index] = true

		upper := ix.UpperNeighbors(ins.Index)
		lower := ix.LowerNeighbors(ins.Index)

		groupSize := max(1, len(upper), len(lower))
		zoneHeight := float64(groupSize) * cfg.unit()

		nodes = append(nodes, Node{
			ID:       NodeID(TierInsight, ins.Index),
			Tier:     TierInsight,
			Column:   TierInsight.Column(),
			X:        cfg.columnX(TierInsight.Column()),
			Y:        y + zoneHeight/2 - cfg.NodeHeight/2,
			Dimmed:   len(upper) == 0 && len(lower) == 0,
			Content:  ins.Content,
			Children: ins.Children,
		})

		nodes = placeNeighbors(nodes, TierSPOV, upper, spovItems, placedSPOV, y, zoneHeight, cfg)
		nodes = placeNeighbors(nodes, TierKnowledge, lower, knowledgeItems, placedKnowledge, y, zoneHeight, cfg)

		y += zoneHeight + 2*cfg.NodeGap
	}

	nodes = placeOrphans(nodes, TierSPOV, spovs, placedSPOV, y, cfg)
	nodes = placeOrphans(nodes, TierKnowledge, knowledge, placedKnowledge, y, cfg)

	return Layout{
		Nodes:  nodes,
		Edges:  buildEdges(nodes, toInsights, toSPOVs),
		Width:  cfg.frameWidth(),
		Height: frameHeight(nodes, cfg),
	}
}

// placeNeighbors distributes a zone's neighbor set evenly across the zone
// height. The i-th neighbor owns the i-th of |neighbors| equal slots whether
// or not it is placed there: a neighbor already claimed by an earlier zone
// (or missing from its tier) leaves its slot empty rather than compacting
// the rest.
func placeNeighbors(nodes []Node, tier Tier, neighbors []int, items map[int]dok.Item, placed map[int]bool, zoneTop, zoneHeight float64, cfg Config) []Node {
	if len(neighbors) == 0 {
		return nodes
	}
	slot := zoneHeight / float64(len(neighbors))
	for i, idx := range neighbors {
		if placed[idx] {
			continue
		}
		item, ok := items[idx]
		if !ok {
			continue // dangling reference, surfaced upstream
		}
		placed[idx] = true
		nodes = append(nodes, Node{
			ID:       NodeID(tier, idx),
			Tier:     tier,
			Column:   tier.Column(),
			X:        cfg.columnX(tier.Column()),
			Y:        zoneTop + float64(i)*slot + slot/2 - cfg.NodeHeight/2,
			Content:  item.Content,
			Children: item.Children,
		})
	}
	return nodes
}

// placeOrphans appends items never claimed by a zone below the zone region,
// in input order, one fixed slot each. Orphan runs for the two outer tiers
// both start at the region boundary and advance independently, since the
// tiers occupy different columns.
func placeOrphans(nodes []Node, tier Tier, items []dok.Item, placed map[int]bool, regionTop float64, cfg Config) []Node {
	y := regionTop
	for _, item := range items {
		if placed[item.Index] {
			continue
		}
		placed[item.Index] = true
		nodes = append(nodes, Node{
			ID:       NodeID(tier, item.Index),
			Tier:     tier,
			Column:   tier.Column(),
			X:        cfg.columnX(tier.Column()),
			Y:        y,
			Dimmed:   true,
			Content:  item.Content,
			Children: item.Children,
		})
		y += cfg.OrphanSlot
	}
	return nodes
}

// buildEdges emits one renderable edge per connection whose endpoints were
// both positioned. Edge ids are derived from the collection name and the
// connection's sequence position, so they are stable across runs.
func buildEdges(nodes []Node, knowledgeToInsights, insightsToSPOVs []dok.Connection) []Edge {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}

	edges := make([]Edge, 0, len(knowledgeToInsights)+len(insightsToSPOVs))
	emit := func(collection string, seq int, source, target string, kind dok.ConnectionKind) {
		if !ids[source] || !ids[target] {
			return
		}
		edges = append(edges, Edge{
			ID:     fmt.Sprintf("%s-%d", collection, seq),
			Source: source,
			Target: target,
			Kind:   kind,
		})
	}

	for i, c := range knowledgeToInsights {
		emit("dok2-dok3", i, NodeID(TierKnowledge, c.SourceIndex), NodeID(TierInsight, c.TargetIndex), c.Kind)
	}
	for i, c := range insightsToSPOVs {
		emit("dok3-dok4", i, NodeID(TierInsight, c.SourceIndex), NodeID(TierSPOV, c.TargetIndex), c.Kind)
	}
	return edges
}

// itemsByIndex builds an index lookup, keeping the first item on duplicates.
func itemsByIndex(items []dok.Item) map[int]dok.Item {
	m := make(map[int]dok.Item, len(items))
	for _, it := range items {
		if _, exists := m[it.Index]; !exists {
			m[it.Index] = it
		}
	}
	return m
}

// frameHeight is the bottom edge of the lowest node, or 0 for no nodes.
func frameHeight(nodes []Node, cfg Config) float64 {
	h := 0.0
	for _, n := range nodes {
		if bottom := n.Y + cfg.NodeHeight; bottom > h {
			h = bottom
		}
	}
	return h
}
