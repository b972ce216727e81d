// Package workflowy fetches and parses shared WorkFlowy outlines.
//
// WorkFlowy shares are public URLs (workflowy.com/s/<name>/<share-id>).
// Fetching a shared outline is a two-step dance: loading the share page
// yields a session cookie and the canonical share id embedded in the page
// HTML, and the tree endpoint then returns the outline as a flat list of
// nodes linked by parent ids.
//
// The package converts that flat list into [dok.Sections]: it locates the
// well-known BrainLift section headings (Owners, Purpose, Experts, and the
// three DOK tiers), parses each DOK section's direct children into indexed
// items, and renders raw markdown for everything else.
package workflowy

import (
	"sort"
	"strings"

	"github.com/matzehuels/brainlift/pkg/dok"
)

// Node is a single WorkFlowy outline node as returned by the tree endpoint.
// Field names mirror the wire format, which uses short keys.
type Node struct {
	ID       string   `json:"id"`
	Name     string   `json:"nm"`
	Note     string   `json:"no,omitempty"`
	Parent   string   `json:"prnt,omitempty"`
	Priority int      `json:"pr,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// Metadata carries the subset of node metadata the parser cares about.
type Metadata struct {
	LayoutMode string `json:"layoutMode,omitempty"`
}

// IsComment reports whether the node is a comment thread rather than
// outline content. Comment nodes are excluded from extraction.
func (n Node) IsComment() bool {
	return strings.Contains(n.Metadata.LayoutMode, "cmnt")
}

// Outline is a scraped WorkFlowy share: the cleaned node list plus the
// rendered markdown of the whole tree.
type Outline struct {
	Name     string
	ShareID  string
	Nodes    []Node
	Markdown string
}

// childrenOf returns the direct children of parentID sorted by priority.
func childrenOf(nodes []Node, parentID string) []Node {
	var children []Node
	for _, n := range nodes {
		if n.Parent == parentID {
			children = append(children, n)
		}
	}
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Priority < children[j].Priority
	})
	return children
}

// rootOf returns the first node without a parent, or a zero Node.
func rootOf(nodes []Node) (Node, bool) {
	for _, n := range nodes {
		if n.Parent == "" {
			return n, true
		}
	}
	return Node{}, false
}

// RootName returns the outline title (the root node's name), falling back
// to a placeholder when the outline has no root.
func RootName(nodes []Node) string {
	if root, ok := rootOf(nodes); ok {
		if name := strings.TrimSpace(root.Name); name != "" {
			return name
		}
	}
	return "Untitled BrainLift"
}

// RenderMarkdown renders a node and its descendants as an indented
// markdown bullet list, two spaces per level. Notes render as an indented
// line under their bullet.
func RenderMarkdown(nodes []Node, node Node, level int) string {
	var b strings.Builder
	renderMarkdown(&b, nodes, node, level)
	return b.String()
}

func renderMarkdown(b *strings.Builder, nodes []Node, node Node, level int) {
	indent := strings.Repeat("  ", level)
	b.WriteString(indent)
	b.WriteString("- ")
	b.WriteString(strings.TrimSpace(node.Name))
	b.WriteString("\n")
	if note := strings.TrimSpace(node.Note); note != "" {
		b.WriteString(indent)
		b.WriteString("  ")
		b.WriteString(note)
		b.WriteString("\n")
	}
	for _, child := range childrenOf(nodes, node.ID) {
		renderMarkdown(b, nodes, child, level+1)
	}
}

// OutlineMarkdown renders every root node of the outline.
func OutlineMarkdown(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		if n.Parent == "" {
			renderMarkdown(&b, nodes, n, 0)
		}
	}
	return b.String()
}

// sectionVariants maps each BrainLift section to the heading spellings seen
// in the wild. Matching is case-insensitive substring on top-level nodes.
var sectionVariants = map[string][]string{
	"owners":  {"Owner", "Owners"},
	"purpose": {"Purpose", "Mission"},
	"experts": {"Experts", "Expert"},
	"dok2": {
		"DOK2 - Knowledge Tree", "DOK2-Knowledge Tree",
		"DOK2", "Knowledge Tree", "DOK1 and DOK2", "DOK1/DOK2",
	},
	"dok3": {
		"DOK3 - Insights", "DOK3-Insights",
		"DOK3", "Insights",
	},
	"dok4": {
		"DOK4 - SPOV", "DOK4-SPOV", "DOK4 - SPOVs", "DOK4-SPOVs",
		"DOK4", "SPOV", "SPOVs", "SpikyPOVs", "Spiky POVs", "SpikyPOV",
	},
}

// findSection returns the top-level node whose name matches one of the
// section's heading variants.
func findSection(nodes []Node, section string) (Node, bool) {
	root, ok := rootOf(nodes)
	if !ok {
		return Node{}, false
	}

	for _, n := range nodes {
		if n.Parent != root.ID {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(n.Name))
		for _, variant := range sectionVariants[section] {
			if strings.Contains(name, strings.ToLower(variant)) {
				return n, true
			}
		}
	}
	return Node{}, false
}

// parseDOKSection parses a DOK section node into indexed items.
// The section's direct children become items (1-based, in priority order);
// each item's own subtree renders into its Children as markdown blocks.
func parseDOKSection(nodes []Node, section Node) *dok.Section {
	out := &dok.Section{
		Raw: RenderMarkdown(nodes, section, 0),
	}

	for i, child := range childrenOf(nodes, section.ID) {
		content := strings.TrimSpace(child.Name)
		if note := strings.TrimSpace(child.Note); note != "" {
			content += "\n" + note
		}

		var subContents []string
		for _, sub := range childrenOf(nodes, child.ID) {
			subContents = append(subContents, strings.TrimSpace(RenderMarkdown(nodes, sub, 0)))
		}

		out.Items = append(out.Items, dok.Item{
			Index:    i + 1,
			Content:  content,
			Children: subContents,
		})
	}
	return out
}

// ExtractSections locates every BrainLift section in the outline and parses
// the three DOK sections into structured items. Sections absent from the
// outline stay zero-valued.
func ExtractSections(nodes []Node) dok.Sections {
	var sections dok.Sections

	if n, ok := findSection(nodes, "owners"); ok {
		sections.Owners = RenderMarkdown(nodes, n, 0)
	}
	if n, ok := findSection(nodes, "purpose"); ok {
		sections.Purpose = RenderMarkdown(nodes, n, 0)
	}
	if n, ok := findSection(nodes, "experts"); ok {
		sections.Experts = RenderMarkdown(nodes, n, 0)
	}

	if n, ok := findSection(nodes, "dok2"); ok {
		sections.Knowledge = parseDOKSection(nodes, n)
	}
	if n, ok := findSection(nodes, "dok3"); ok {
		sections.Insights = parseDOKSection(nodes, n)
	}
	if n, ok := findSection(nodes, "dok4"); ok {
		sections.SPOVs = parseDOKSection(nodes, n)
	}

	return sections
}
