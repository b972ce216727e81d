// Package render turns computed layouts into visual outputs.
//
// # Overview
//
// Two rendering paths are provided:
//
//   - Diagram SVG: draws the positioned three-column layout directly,
//     preserving the exact coordinates the layout engine computed. This is
//     the canonical BrainLift visualization.
//   - Node-link DOT: converts the layout to Graphviz DOT for rendering
//     with standard graph tooling, via [ToDOT] and [RenderSVG].
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). They work on the output of
// both rendering paths.
//
//	svg := render.DiagramSVG(l, render.Options{})
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Edge Treatment
//
// Supporting connections draw as solid lines, contradicting connections as
// dashed red lines, in both rendering paths.
//
// This package uses [github.com/goccy/go-graphviz] for in-process DOT
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package render
