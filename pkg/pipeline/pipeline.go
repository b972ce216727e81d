// Package pipeline provides the core BrainLift pipeline.
//
// This package implements the complete extract → analyze → layout pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Extract: Scrape a shared WorkFlowy outline and parse its DOK sections
//  2. Analyze: Classify supports/contradicts connections between tiers
//  3. Layout: Compute diagram positions for the three-tier column view
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, scraper, classifier, logger)
//	opts := pipeline.Options{
//	    URL: "https://workflowy.com/s/my-brainlift/Abc123",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	diagram := result.Layout
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/brainlift/pkg/dok"
	apperrors "github.com/matzehuels/brainlift/pkg/errors"
	"github.com/matzehuels/brainlift/pkg/groq"
	"github.com/matzehuels/brainlift/pkg/layout"
)

// =============================================================================
// Defaults - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultModel is the classification model when none is configured.
	DefaultModel = groq.DefaultModel

	// DefaultMaxPerNode caps connections per node during analysis.
	DefaultMaxPerNode = groq.DefaultMaxPerNode
)

// NewID generates a short BrainLift id. Eight hex characters are plenty for
// a personal knowledge store and keep URLs readable.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the BrainLift pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Extract options
	URL     string `json:"url"`
	Refresh bool   `json:"refresh,omitempty"` // Bypass the extraction cache

	// Analyze options
	Model      string `json:"model,omitempty"`
	MaxPerNode int    `json:"max_per_node,omitempty"`
	Force      bool   `json:"force,omitempty"` // Re-run analysis even when cached

	// Layout options
	Layout layout.Config `json:"layout,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID is the generated BrainLift id.
	ID string

	// Name is the outline title.
	Name string

	// ShareID is the WorkFlowy share id the outline resolved to.
	ShareID string

	// Sections holds the extracted DOK sections.
	Sections dok.Sections

	// RawMarkdown is the whole outline rendered as markdown.
	RawMarkdown string

	// Analysis holds the classified connections. Only meaningful when
	// Analyzed is true.
	Analysis dok.Analysis

	// Analyzed reports whether the analyze stage ran. False when the
	// runner has no classifier.
	Analyzed bool

	// Layout is the computed diagram.
	Layout layout.Layout

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// BrainLift assembles a persistable document from the pipeline result.
// When the analyze stage was skipped the document carries no analysis,
// so stored outlines report as not yet analyzed.
func (r *Result) BrainLift(url string) *dok.BrainLift {
	var analysis *dok.Analysis
	if r.Analyzed {
		a := r.Analysis
		analysis = &a
	}
	return &dok.BrainLift{
		ID:          r.ID,
		Name:        r.Name,
		URL:         url,
		RawMarkdown: r.RawMarkdown,
		Sections:    r.Sections,
		Analysis:    analysis,
	}
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount       int
	ConnectionCount int
	ExtractTime     time.Duration
	AnalyzeTime     time.Duration
	LayoutTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ExtractHit bool // Whether extraction came from cache
	AnalyzeHit bool // Whether analysis came from cache
	LayoutHit  bool // Whether layout came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForExtract(); err != nil {
		return err
	}
	o.SetAnalyzeDefaults()
	o.validated = true
	return nil
}

// ValidateForExtract checks required fields for extraction.
// Only the scheme is validated here; CLI and API validate the WorkFlowy
// share format at their edges so the pipeline stays usable against
// mirrored or self-hosted outlines.
func (o *Options) ValidateForExtract() error {
	if err := apperrors.ValidateURL(o.URL); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetAnalyzeDefaults sets default values for analysis.
func (o *Options) SetAnalyzeDefaults() {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.MaxPerNode == 0 {
		o.MaxPerNode = DefaultMaxPerNode
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
