package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/brainlift/pkg/dok"
	"github.com/matzehuels/brainlift/pkg/pipeline"
)

// analyzeCommand creates the analyze command for connection classification.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		output     string
		model      string
		maxPerNode int
		force      bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <sections.json>",
		Short: "Classify connections between DOK tiers",
		Long: `Classify connections between DOK tiers using a Groq-hosted model.

The command takes a sections file (produced by 'extract') and asks the
model, for each insight and each SPOV, which item of the tier below it
directly supports or contradicts. Requires GROQ_API_KEY in the
environment, a .env file, or the config file.

Results are cached by content hash; identical sections and settings never
re-query the model. Use --force to re-run anyway.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd.Context(), args[0], output, model, maxPerNode, force, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.analysis.json)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "chat model (default from config)")
	cmd.Flags().IntVar(&maxPerNode, "max-per-node", 0, "max connections per node (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "re-run analysis even when cached")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching entirely")

	return cmd
}

func (c *CLI) runAnalyze(ctx context.Context, input, output, model string, maxPerNode int, force, noCache bool) error {
	extract, err := readExtractFile(input)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig("")
	if err != nil {
		return err
	}
	classifier, err := c.newClassifier(cfg, model, maxPerNode)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache, classifier)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, "Classifying connections...")
	spinner.Start()

	analysis, cacheHit, err := runner.AnalyzeWithCacheInfo(ctx, extract.Sections, pipeline.Options{
		Model:      classifier.Model(),
		MaxPerNode: classifier.MaxPerNode(),
		Force:      force,
	})
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = baseName(input) + ".analysis.json"
	}

	data, err := dok.MarshalAnalysis(analysis)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	connections := len(analysis.KnowledgeToInsights) + len(analysis.InsightsToSPOVs)
	printSuccess("Analysis complete")
	printFile(outputPath)
	printStats(0, connections, cacheHit)
	printNewline()
	printNextStep("Layout", fmt.Sprintf("brainlift layout %s --analysis %s", input, outputPath))

	return nil
}

// readExtractFile loads a sections file written by the extract command.
// Bare Sections JSON (without the extract envelope) is accepted too.
func readExtractFile(path string) (pipeline.ExtractResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.ExtractResult{}, fmt.Errorf("read %s: %w", path, err)
	}

	var extract pipeline.ExtractResult
	if err := json.Unmarshal(data, &extract); err != nil {
		return pipeline.ExtractResult{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if extract.Sections.Knowledge == nil && extract.Sections.Insights == nil && extract.Sections.SPOVs == nil {
		sections, err := dok.UnmarshalSections(data)
		if err != nil {
			return pipeline.ExtractResult{}, fmt.Errorf("parse %s: %w", path, err)
		}
		extract.Sections = sections
	}
	return extract, nil
}

// baseName strips the extension chain from a sections file path, so
// "notes.sections.json" becomes "notes".
func baseName(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	return strings.TrimSuffix(base, ".sections")
}
