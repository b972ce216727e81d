package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/brainlift/pkg/errors"
	"github.com/matzehuels/brainlift/pkg/pipeline"
)

// extractCommand creates the extract command for scraping shared outlines.
func (c *CLI) extractCommand() *cobra.Command {
	var (
		output   string
		refresh  bool
		noCache  bool
		markdown bool
	)

	cmd := &cobra.Command{
		Use:   "extract <share-url>",
		Short: "Extract DOK sections from a shared WorkFlowy outline",
		Long: `Extract DOK sections from a shared WorkFlowy outline.

The outline's top-level sections (Owners, Purpose, Experts, DOK2 Knowledge
Tree, DOK3 Insights, DOK4 SPOVs) are located by heading and parsed into
structured items. The output is a JSON file consumed by 'analyze' and
'layout'.

Results are cached locally; use --refresh to force a fresh download.

Example:
  brainlift extract https://workflowy.com/s/my-notes/Abc123`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExtract(cmd.Context(), args[0], output, refresh, noCache, markdown)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <share-id>.sections.json)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the extraction cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching entirely")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print the outline as markdown instead of writing JSON")

	return cmd
}

func (c *CLI) runExtract(ctx context.Context, url, output string, refresh, noCache, markdown bool) error {
	if err := apperrors.ValidateWorkFlowyURL(url); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, "Extracting outline...")
	spinner.Start()

	result, cacheHit, err := runner.ExtractWithCacheInfo(ctx, pipeline.Options{URL: url, Refresh: refresh})
	if err != nil {
		spinner.StopWithError("Extraction failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if markdown {
		fmt.Print(result.RawMarkdown)
		return nil
	}

	outputPath := output
	if outputPath == "" {
		outputPath = result.ShareID + ".sections.json"
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	items := result.Sections.Knowledge.ItemCount() +
		result.Sections.Insights.ItemCount() +
		result.Sections.SPOVs.ItemCount()

	printSuccess("Extracted %q", result.Name)
	printFile(outputPath)
	printStats(items, 0, cacheHit)
	printNewline()
	printNextStep("Analyze", "brainlift analyze "+outputPath)

	return nil
}
