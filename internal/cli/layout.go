package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brainlift/pkg/dok"
	"github.com/matzehuels/brainlift/pkg/layout"
	"github.com/matzehuels/brainlift/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output       string
		analysisPath string
		noCache      bool
	)
	cfg := layout.Config{}

	cmd := &cobra.Command{
		Use:   "layout <sections.json>",
		Short: "Compute the three-column diagram layout",
		Long: `Compute the three-column diagram layout.

The layout command takes a sections file (produced by 'extract') and an
optional analysis file (produced by 'analyze') and positions every item:
insights in the middle column, SPOVs left, knowledge right. Connected
items cluster next to their insight; unconnected items settle dimmed at
the bottom of their column.

Without --analysis every item renders as an unconnected orphan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], analysisPath, output, cfg, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&analysisPath, "analysis", "a", "", "analysis file from 'analyze'")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&cfg.NodeWidth, "node-width", 0, "node width (default 260)")
	cmd.Flags().Float64Var(&cfg.NodeHeight, "node-height", 0, "node height (default 100)")
	cmd.Flags().Float64Var(&cfg.ColumnGap, "column-gap", 0, "gap between columns (default 140)")
	cmd.Flags().IntVar(&cfg.MaxNeighbors, "max-neighbors", 0, "cap connections per anchor (0 = unlimited)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, analysisPath, output string, cfg layout.Config, noCache bool) error {
	extract, err := readExtractFile(input)
	if err != nil {
		return err
	}

	analysis := dok.Analysis{}
	if analysisPath != "" {
		data, err := os.ReadFile(analysisPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", analysisPath, err)
		}
		analysis, err = dok.UnmarshalAnalysis(data)
		if err != nil {
			return err
		}
	}

	runner, err := c.newRunner(noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, extract.Sections, analysis, pipeline.Options{Layout: cfg})
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = baseName(input) + ".layout.json"
	}
	if err := layout.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(l.Nodes), len(l.Edges), cacheHit)
	printNewline()
	printNextStep("Render", "brainlift render "+outputPath)

	return nil
}
