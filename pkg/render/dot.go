package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/brainlift/pkg/dok"
	"github.com/matzehuels/brainlift/pkg/layout"
)

// ToDOT converts a layout to Graphviz DOT format for node-link
// visualization. Graphviz re-arranges nodes itself; the layout's columns
// are preserved as ranks so the three tiers still read left to right.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(l layout.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph BrainLift {\n")
	buf.WriteString("  rankdir=RL;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	byColumn := make(map[int][]layout.Node)
	for _, n := range l.Nodes {
		byColumn[n.Column] = append(byColumn[n.Column], n)
	}
	for col := 0; col <= 2; col++ {
		nodes := byColumn[col]
		if len(nodes) == 0 {
			continue
		}
		buf.WriteString("  { rank=same;\n")
		for _, n := range nodes {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		attrs := ""
		if e.Kind == dok.KindContradicts {
			attrs = ` [style=dashed, color="` + contraStroke + `"]`
		}
		fmt.Fprintf(&buf, "  %q -> %q%s;\n", e.Source, e.Target, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n layout.Node, opts Options) []string {
	label := n.Content
	if i := strings.IndexByte(label, '\n'); i >= 0 {
		label = label[:i]
	}
	if opts.Detailed && len(n.Children) > 0 {
		label += fmt.Sprintf("\n(%d sub-items)", len(n.Children))
	}

	fill := tierFill[n.Tier]
	if fill == "" {
		fill = "white"
	}

	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", fill),
	}
	if n.Dimmed {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fontcolor=grey40")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [ToPDF] or [ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the opening svg tag so the viewBox starts at
// the origin and the pixel size matches it. Graphviz emits point-based
// sizes that render inconsistently across browsers otherwise.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
