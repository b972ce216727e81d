// Package cli implements the brainlift command-line interface.
//
// This package provides commands for extracting shared WorkFlowy outlines,
// classifying connections between DOK tiers, computing and rendering the
// three-column diagram, browsing stored BrainLifts, and running the HTTP
// API. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - extract: Scrape a shared WorkFlowy outline into DOK sections
//   - analyze: Classify supports/contradicts connections via Groq
//   - layout: Compute diagram positions for the three-tier column view
//   - render: Generate SVG, DOT, PDF, or PNG output
//   - serve: Run the HTTP API server
//   - browse: Interactively browse stored BrainLifts
//   - cache: Manage the local pipeline cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brainlift/pkg/buildinfo"
	"github.com/matzehuels/brainlift/pkg/cache"
	"github.com/matzehuels/brainlift/pkg/groq"
	"github.com/matzehuels/brainlift/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "brainlift"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "BrainLift turns WorkFlowy outlines into knowledge diagrams",
		Long:         `BrainLift extracts shared WorkFlowy outlines structured by Depth of Knowledge tiers, classifies the connections between facts, insights, and spiky points of view, and renders the result as a three-column diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(log.DebugLevel)
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.extractCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The classifier may be
// nil for commands that never analyze.
func (c *CLI) newRunner(noCache bool, classifier pipeline.Classifier) (*pipeline.Runner, error) {
	cch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, nil, nil, classifier, c.Logger), nil
}

// newClassifier builds the Groq classifier from config.
func (c *CLI) newClassifier(cfg Config, model string, maxPerNode int) (*groq.Service, error) {
	if model == "" {
		model = cfg.Model
	}
	if maxPerNode == 0 {
		maxPerNode = cfg.MaxPerNode
	}
	return groq.NewService(groq.Config{
		APIKey:     cfg.GroqAPIKey,
		Model:      model,
		MaxPerNode: maxPerNode,
		Logger:     c.Logger,
	})
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/brainlift/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/brainlift/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
