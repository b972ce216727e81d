package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/brainlift/pkg/errors"
	"github.com/matzehuels/brainlift/pkg/layout"
	"github.com/matzehuels/brainlift/pkg/render"
)

// validFormats is the set of supported render output formats.
var validFormats = map[string]bool{"svg": true, "dot": true, "pdf": true, "png": true}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path, or base path for multiple formats
	formats  []string // output formats: svg, dot, pdf, png
	detailed bool     // include sub-item counts in labels
	scale    float64  // PNG resolution multiplier
}

// renderCommand creates the render command for generating diagram files.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: 2.0}

	cmd := &cobra.Command{
		Use:   "render <layout.json>",
		Short: "Render a computed layout to SVG, DOT, PDF, or PNG",
		Long: `Render a computed layout to SVG, DOT, PDF, or PNG.

SVG output draws the positioned three-column diagram directly. DOT output
produces Graphviz source for use with external tooling. PDF and PNG are
converted from SVG and require librsvg (rsvg-convert).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include sub-item counts in labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG resolution multiplier")

	return cmd
}

func (c *CLI) runRender(input string, opts *renderOpts) error {
	l, err := layout.ReadLayoutFile(input)
	if err != nil {
		return err
	}

	renderOptions := render.Options{Detailed: opts.detailed}

	for _, format := range opts.formats {
		data, err := renderFormat(l, format, renderOptions, opts.scale)
		if err != nil {
			return err
		}

		outputPath := outputFor(input, opts.output, format, len(opts.formats) > 1)
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("write output %s: %w", outputPath, err)
		}
		printFile(outputPath)
	}

	printSuccess("Render complete")
	return nil
}

func renderFormat(l layout.Layout, format string, opts render.Options, scale float64) ([]byte, error) {
	switch format {
	case "svg":
		return render.DiagramSVG(l, opts), nil
	case "dot":
		return []byte(render.ToDOT(l, opts)), nil
	case "pdf":
		return render.ToPDF(render.DiagramSVG(l, opts))
	case "png":
		return render.ToPNG(render.DiagramSVG(l, opts), scale)
	default:
		return nil, apperrors.New(apperrors.ErrCodeUnsupported, "unknown render format %q", format)
	}
}

// outputFor picks the output path for one rendered format. With multiple
// formats the explicit output acts as a base path and each format appends
// its own extension.
func outputFor(input, output, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	base := baseName(input)
	base = strings.TrimSuffix(base, ".layout")
	if output != "" {
		base = output
	}
	return base + "." + format
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"svg"}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return fmt.Errorf("invalid format: %s (must be 'svg', 'dot', 'pdf', or 'png')", f)
		}
	}
	return nil
}
