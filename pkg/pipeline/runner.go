package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brainlift/pkg/cache"
	"github.com/matzehuels/brainlift/pkg/dok"
	apperrors "github.com/matzehuels/brainlift/pkg/errors"
	"github.com/matzehuels/brainlift/pkg/groq"
	"github.com/matzehuels/brainlift/pkg/layout"
	"github.com/matzehuels/brainlift/pkg/observability"
	"github.com/matzehuels/brainlift/pkg/workflowy"
)

// Classifier abstracts the connection analysis backend so tests can swap
// the Groq service for a stub.
type Classifier interface {
	Analyze(ctx context.Context, knowledge, insights, spovs []dok.Item) (dok.Analysis, error)
	Model() string
	MaxPerNode() int
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache      cache.Cache
	Keyer      cache.Keyer
	Scraper    *workflowy.Client
	Classifier Classifier
	Logger     *log.Logger
}

// NewRunner creates a runner with the given collaborators.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If scraper is nil, a default WorkFlowy client is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, scraper *workflowy.Client, classifier Classifier, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if scraper == nil {
		scraper = workflowy.NewClient()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Scraper:    scraper,
		Classifier: classifier,
		Logger:     logger,
	}
}

// Execute runs the complete extract → analyze → layout pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{ID: NewID()}

	// Stage 1: Extract
	extractStart := time.Now()
	extract, extractHit, err := r.ExtractWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Name = extract.Name
	result.ShareID = extract.ShareID
	result.Sections = extract.Sections
	result.RawMarkdown = extract.RawMarkdown
	result.Stats.ExtractTime = time.Since(extractStart)
	result.Stats.ItemCount = itemCount(extract.Sections)
	result.CacheInfo.ExtractHit = extractHit

	r.Logger.Info("extracted sections",
		"name", extract.Name,
		"items", result.Stats.ItemCount,
		"duration", result.Stats.ExtractTime)

	// Stage 2: Analyze. Without a classifier the stage is skipped and the
	// layout renders every item as a dimmed orphan; analysis can be run
	// later once credentials are configured.
	if r.Classifier == nil {
		r.Logger.Info("no classifier configured, skipping analysis")
	} else {
		analyzeStart := time.Now()
		analysis, analyzeHit, err := r.AnalyzeWithCacheInfo(ctx, extract.Sections, opts)
		if err != nil {
			return nil, err
		}
		result.Analysis = analysis
		result.Analyzed = true
		result.Stats.AnalyzeTime = time.Since(analyzeStart)
		result.Stats.ConnectionCount = len(analysis.KnowledgeToInsights) + len(analysis.InsightsToSPOVs)
		result.CacheInfo.AnalyzeHit = analyzeHit

		r.Logger.Info("analyzed connections",
			"connections", result.Stats.ConnectionCount,
			"duration", result.Stats.AnalyzeTime)
	}

	// Stage 3: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, extract.Sections, result.Analysis, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", len(l.Nodes),
		"edges", len(l.Edges),
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// ExtractResult is the cacheable output of the extract stage.
type ExtractResult struct {
	Name        string       `json:"name"`
	ShareID     string       `json:"share_id"`
	Sections    dok.Sections `json:"sections"`
	RawMarkdown string       `json:"raw_markdown"`
}

// ExtractWithCacheInfo scrapes and parses an outline with caching and
// returns cache hit info. The share page is always fetched (it carries the
// session cookie and canonical share id); only the tree download and
// parsing are cached, keyed by share id.
func (r *Runner) ExtractWithCacheInfo(ctx context.Context, opts Options) (ExtractResult, bool, error) {
	if err := opts.ValidateForExtract(); err != nil {
		return ExtractResult{}, false, err
	}

	observability.Pipeline().OnExtractStart(ctx, opts.URL)
	start := time.Now()

	share, err := r.Scraper.ResolveShare(ctx, opts.URL)
	if err != nil {
		observability.Pipeline().OnExtractComplete(ctx, opts.URL, 0, time.Since(start), err)
		return ExtractResult{}, false, err
	}

	cacheKey := r.Keyer.SectionsKey(share.ShareID)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached ExtractResult
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "sections")
				observability.Pipeline().OnExtractComplete(ctx, opts.URL, itemCount(cached.Sections), time.Since(start), nil)
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "sections")
	}

	nodes, err := r.Scraper.TreeData(ctx, share)
	if err != nil {
		observability.Pipeline().OnExtractComplete(ctx, opts.URL, 0, time.Since(start), err)
		return ExtractResult{}, false, err
	}
	nodes = workflowy.CleanNodes(nodes)

	result := ExtractResult{
		Name:        workflowy.RootName(nodes),
		ShareID:     share.ShareID,
		Sections:    workflowy.ExtractSections(nodes),
		RawMarkdown: workflowy.OutlineMarkdown(nodes),
	}

	if data, err := json.Marshal(result); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSections)
		observability.Cache().OnCacheSet(ctx, "sections", len(data))
	}

	observability.Pipeline().OnExtractComplete(ctx, opts.URL, itemCount(result.Sections), time.Since(start), nil)
	return result, false, nil
}

// Extract is a convenience wrapper that discards the cache hit info.
func (r *Runner) Extract(ctx context.Context, opts Options) (ExtractResult, error) {
	res, _, err := r.ExtractWithCacheInfo(ctx, opts)
	return res, err
}

// AnalyzeWithCacheInfo classifies connections with caching and returns
// cache hit info. The cache key covers the section content and every
// analysis parameter, so an edited outline or a different model never
// reuses a stale result.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, sections dok.Sections, opts Options) (dok.Analysis, bool, error) {
	if r.Classifier == nil {
		return dok.Analysis{}, false, apperrors.New(apperrors.ErrCodeLLMUnavailable, "no classifier configured")
	}
	opts.SetAnalyzeDefaults()

	sectionsData, err := dok.MarshalSections(sections)
	if err != nil {
		return dok.Analysis{}, false, err
	}
	sectionsHash := cache.Hash(sectionsData)
	cacheKey := r.Keyer.AnalysisKey(sectionsHash, cache.AnalysisKeyOpts{
		Model:      opts.Model,
		MaxPerNode: opts.MaxPerNode,
	})

	if !opts.Force {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := dok.UnmarshalAnalysis(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "analysis")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "analysis")
	}

	knowledge := dok.SectionItems(sections.Knowledge)
	insights := dok.SectionItems(sections.Insights)
	spovs := dok.SectionItems(sections.SPOVs)

	observability.Pipeline().OnAnalyzeStart(ctx, sectionsHash[:8], len(knowledge)+len(insights)+len(spovs))
	start := time.Now()

	analysis, err := r.Classifier.Analyze(ctx, knowledge, insights, spovs)
	connCount := len(analysis.KnowledgeToInsights) + len(analysis.InsightsToSPOVs)
	observability.Pipeline().OnAnalyzeComplete(ctx, sectionsHash[:8], connCount, time.Since(start), err)
	if err != nil {
		return dok.Analysis{}, false, err
	}

	if data, err := dok.MarshalAnalysis(analysis); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLAnalysis)
		observability.Cache().OnCacheSet(ctx, "analysis", len(data))
	}

	return analysis, false, nil
}

// Analyze is a convenience wrapper that discards the cache hit info.
func (r *Runner) Analyze(ctx context.Context, sections dok.Sections, opts Options) (dok.Analysis, error) {
	analysis, _, err := r.AnalyzeWithCacheInfo(ctx, sections, opts)
	return analysis, err
}

// LayoutWithCacheInfo computes the diagram with caching and returns cache
// hit info. Layout is cheap, but caching keeps repeated API reads of the
// same BrainLift from recomputing identical geometry.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, sections dok.Sections, analysis dok.Analysis, opts Options) (layout.Layout, bool, error) {
	sectionsData, err := dok.MarshalSections(sections)
	if err != nil {
		return layout.Layout{}, false, err
	}
	analysisData, err := dok.MarshalAnalysis(analysis)
	if err != nil {
		return layout.Layout{}, false, err
	}
	inputHash := cache.Hash(append(sectionsData, analysisData...))

	cfg := opts.Layout
	cacheKey := r.Keyer.LayoutKey(inputHash, cache.LayoutKeyOpts{
		NodeWidth:    cfg.NodeWidth,
		NodeHeight:   cfg.NodeHeight,
		NodeGap:      cfg.NodeGap,
		ColumnGap:    cfg.ColumnGap,
		OrphanSlot:   cfg.OrphanSlot,
		MaxNeighbors: cfg.MaxNeighbors,
	})

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if cached, err := layout.UnmarshalLayout(data); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	observability.Pipeline().OnLayoutStart(ctx, inputHash[:8], itemCount(sections))
	start := time.Now()

	l := layout.Build(
		dok.SectionItems(sections.SPOVs),
		dok.SectionItems(sections.Insights),
		dok.SectionItems(sections.Knowledge),
		analysis,
		cfg,
	)

	observability.Pipeline().OnLayoutComplete(ctx, inputHash[:8], time.Since(start), nil)

	if data, err := layout.MarshalLayout(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return l, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, sections dok.Sections, analysis dok.Analysis, opts Options) (layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, sections, analysis, opts)
	return l, err
}

func itemCount(s dok.Sections) int {
	return s.Knowledge.ItemCount() + s.Insights.ItemCount() + s.SPOVs.ItemCount()
}

// Ensure the Groq service satisfies Classifier.
var _ Classifier = (*groq.Service)(nil)
