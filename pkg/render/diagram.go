package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/brainlift/pkg/dok"
	"github.com/matzehuels/brainlift/pkg/layout"
)

// Options configures diagram rendering.
type Options struct {
	// NodeWidth and NodeHeight must match the dimensions the layout was
	// computed with. Zero values fall back to the layout defaults.
	NodeWidth  float64
	NodeHeight float64

	// Detailed includes child bullet counts in node labels.
	Detailed bool
}

// Tier fill colors for the three columns.
var tierFill = map[layout.Tier]string{
	layout.TierSPOV:      "#fde9d9", // warm, opinions
	layout.TierInsight:   "#dbe9f6", // blue, synthesis
	layout.TierKnowledge: "#e2efda", // green, facts
}

const (
	diagramMargin = 20.0
	labelPad      = 10.0
	labelLineH    = 16.0
	maxLabelLines = 4
	maxLineRunes  = 30
	supportStroke = "#555555"
	contraStroke  = "#c0392b"
	dimmedOpacity = 0.35
	cornerRadius  = 8.0
)

// DiagramSVG draws a computed layout as a standalone SVG document.
// Node positions are taken verbatim from the layout; nothing is re-arranged.
func DiagramSVG(l layout.Layout, opts Options) []byte {
	if opts.NodeWidth <= 0 {
		opts.NodeWidth = layout.DefaultNodeWidth
	}
	if opts.NodeHeight <= 0 {
		opts.NodeHeight = layout.DefaultNodeHeight
	}

	w := l.Width + 2*diagramMargin
	h := l.Height + 2*diagramMargin

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	fmt.Fprintf(&buf, `<g transform="translate(%.1f,%.1f)">`+"\n", diagramMargin, diagramMargin)

	// Edges first so nodes draw on top.
	byID := make(map[string]layout.Node, len(l.Nodes))
	for _, n := range l.Nodes {
		byID[n.ID] = n
	}
	for _, e := range l.Edges {
		src, okS := byID[e.Source]
		dst, okT := byID[e.Target]
		if !okS || !okT {
			continue
		}
		writeEdge(&buf, src, dst, e.Kind, opts)
	}

	for _, n := range l.Nodes {
		writeNode(&buf, n, opts)
	}

	buf.WriteString("</g>\n</svg>\n")
	return buf.Bytes()
}

// writeEdge draws a connection from the source box toward the target box.
// Columns increase left to right, and connections always point from a
// higher column (knowledge) to a lower one (insight, SPOV), so the line
// runs from the source's left face to the target's right face.
func writeEdge(buf *bytes.Buffer, src, dst layout.Node, kind dok.ConnectionKind, opts Options) {
	x1 := src.X
	y1 := src.Y + opts.NodeHeight/2
	x2 := dst.X + opts.NodeWidth
	y2 := dst.Y + opts.NodeHeight/2

	stroke := supportStroke
	dash := ""
	if kind == dok.KindContradicts {
		stroke = contraStroke
		dash = ` stroke-dasharray="6,4"`
	}

	// Horizontal bezier keeps crossing edges readable.
	midX := (x1 + x2) / 2
	fmt.Fprintf(buf,
		`<path d="M %.1f %.1f C %.1f %.1f, %.1f %.1f, %.1f %.1f" fill="none" stroke="%s" stroke-width="1.5"%s/>`+"\n",
		x1, y1, midX, y1, midX, y2, x2, y2, stroke, dash)
}

func writeNode(buf *bytes.Buffer, n layout.Node, opts Options) {
	fill := tierFill[n.Tier]
	if fill == "" {
		fill = "#ffffff"
	}

	opacity := ""
	if n.Dimmed {
		opacity = fmt.Sprintf(` opacity="%.2f"`, dimmedOpacity)
	}

	fmt.Fprintf(buf, `<g%s>`+"\n", opacity)
	fmt.Fprintf(buf,
		`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="#888888"/>`+"\n",
		n.X, n.Y, opts.NodeWidth, opts.NodeHeight, cornerRadius, fill)

	label := n.Content
	if opts.Detailed && len(n.Children) > 0 {
		label += fmt.Sprintf(" (%d sub-items)", len(n.Children))
	}
	for i, line := range wrapLabel(label) {
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="12" font-family="sans-serif">%s</text>`+"\n",
			n.X+labelPad, n.Y+labelPad+labelLineH*float64(i+1), html.EscapeString(line))
	}
	buf.WriteString("</g>\n")
}

// wrapLabel breaks a label into word-wrapped lines, truncating with an
// ellipsis once the box is full.
func wrapLabel(label string) []string {
	// Only the first outline line fits in a collapsed box.
	if i := strings.IndexByte(label, '\n'); i >= 0 {
		label = label[:i]
	}

	words := strings.Fields(label)
	var lines []string
	var cur string
	for _, word := range words {
		next := word
		if cur != "" {
			next = cur + " " + word
		}
		if len([]rune(next)) > maxLineRunes && cur != "" {
			lines = append(lines, cur)
			cur = word
		} else {
			cur = next
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}

	if len(lines) > maxLabelLines {
		lines = lines[:maxLabelLines]
		lines[maxLabelLines-1] += "..."
	}
	return lines
}
