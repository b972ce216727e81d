// Package groq classifies connections between DOK tiers using Groq-hosted
// language models.
//
// Groq exposes an OpenAI-compatible chat completions API, so the package
// drives it through the openai client with a custom base URL. Each middle
// or upper tier item gets its own classification prompt listing the
// candidate items of the tier below; the model picks at most one directly
// related candidate and labels the relationship as supporting or
// contradicting. Prompts run concurrently under a fixed limit.
package groq

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/brainlift/pkg/dok"
	apperrors "github.com/matzehuels/brainlift/pkg/errors"
)

// Defaults for the Groq API.
const (
	// DefaultBaseURL is the Groq OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the classification model.
	DefaultModel = "qwen/qwen3-32b"

	// DefaultMaxConcurrent caps in-flight classification requests.
	DefaultMaxConcurrent = 5

	// DefaultMaxPerNode caps connections per node in each collection.
	DefaultMaxPerNode = 2

	// connectionScore is the confidence recorded for model-picked
	// connections. The prompts only allow confident, direct picks, so a
	// single high score stands in for a calibrated probability.
	connectionScore = 95
)

// Config holds Groq service settings.
type Config struct {
	// APIKey authenticates against the Groq API. Required.
	APIKey string

	// BaseURL overrides the API endpoint. Defaults to DefaultBaseURL;
	// tests point it at a local server.
	BaseURL string

	// Model is the chat model to use. Defaults to DefaultModel.
	Model string

	// MaxConcurrent caps in-flight requests. Defaults to DefaultMaxConcurrent.
	MaxConcurrent int

	// MaxPerNode caps connections per node. Defaults to DefaultMaxPerNode.
	MaxPerNode int

	// Logger receives warnings about unparseable model output.
	Logger *log.Logger
}

// Service classifies DOK connections.
type Service struct {
	client        *openai.Client
	model         string
	maxConcurrent int
	maxPerNode    int
	logger        *log.Logger
}

// NewService creates a Groq service from config.
func NewService(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "GROQ_API_KEY is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	if clientCfg.BaseURL == "" {
		clientCfg.BaseURL = DefaultBaseURL
	}

	s := &Service{
		client:        openai.NewClientWithConfig(clientCfg),
		model:         cfg.Model,
		maxConcurrent: cfg.MaxConcurrent,
		maxPerNode:    cfg.MaxPerNode,
		logger:        cfg.Logger,
	}
	if s.model == "" {
		s.model = DefaultModel
	}
	if s.maxConcurrent <= 0 {
		s.maxConcurrent = DefaultMaxConcurrent
	}
	if s.maxPerNode <= 0 {
		s.maxPerNode = DefaultMaxPerNode
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s, nil
}

// Model returns the configured chat model.
func (s *Service) Model() string { return s.model }

// MaxPerNode returns the per-node connection cap.
func (s *Service) MaxPerNode() int { return s.maxPerNode }

// Analyze classifies connections between all three tiers: which knowledge
// items each insight draws from, and which insights each SPOV builds on.
//
// One prompt runs per insight and per SPOV, at most maxConcurrent at a
// time. Items whose prompt fails or returns unparseable output simply get
// no connections; a single flaky response should not sink a whole
// analysis. Both collections are then capped so no node carries more than
// maxPerNode connections, keeping the diagram readable.
func (s *Service) Analyze(ctx context.Context, knowledge, insights, spovs []dok.Item) (dok.Analysis, error) {
	var analysis dok.Analysis

	if len(insights) > 0 && len(knowledge) > 0 {
		s.logger.Info("classifying knowledge connections", "insights", len(insights), "candidates", len(knowledge))
		picks, err := s.classifyAll(ctx, insights, knowledge, knowledgePrompt)
		if err != nil {
			return dok.Analysis{}, err
		}
		for i, insight := range insights {
			for _, p := range picks[i] {
				analysis.KnowledgeToInsights = append(analysis.KnowledgeToInsights, connection(p, insight.Index))
			}
		}
	}

	if len(spovs) > 0 && len(insights) > 0 {
		s.logger.Info("classifying insight connections", "spovs", len(spovs), "candidates", len(insights))
		picks, err := s.classifyAll(ctx, spovs, insights, insightPrompt)
		if err != nil {
			return dok.Analysis{}, err
		}
		for i, spov := range spovs {
			for _, p := range picks[i] {
				analysis.InsightsToSPOVs = append(analysis.InsightsToSPOVs, connection(p, spov.Index))
			}
		}
	}

	analysis.KnowledgeToInsights = limitPerNode(analysis.KnowledgeToInsights, s.maxPerNode)
	analysis.InsightsToSPOVs = limitPerNode(analysis.InsightsToSPOVs, s.maxPerNode)

	s.logger.Info("analysis complete",
		"dok2_to_dok3", len(analysis.KnowledgeToInsights),
		"dok3_to_dok4", len(analysis.InsightsToSPOVs))

	return analysis, nil
}

// classifyAll runs one classification prompt per target concurrently and
// returns the picks by target position.
func (s *Service) classifyAll(ctx context.Context, targets, candidates []dok.Item, buildPrompt func(target string, list string) string) ([][]pick, error) {
	picks := make([][]pick, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for i, target := range targets {
		g.Go(func() error {
			prompt := buildPrompt(itemContent(target), numberedList(candidates))
			result, err := s.complete(ctx, prompt)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn("classification failed", "index", target.Index, "err", err)
				return nil
			}
			picks[i] = validPicks(result, candidates)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return picks, nil
}

// complete makes a single chat completion call and parses the picks.
func (s *Service) complete(ctx context.Context, prompt string) ([]pick, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0.1,
		MaxTokens:   150,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeLLMUnavailable, err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeLLMBadResponse, "no choices in response")
	}
	return parsePicks(resp.Choices[0].Message.Content)
}

// connection builds a dok.Connection from a model pick. The pick id is the
// candidate's index in the lower tier; targetIndex identifies the item the
// prompt was about.
func connection(p pick, targetIndex int) dok.Connection {
	kind := dok.ConnectionKind(p.Type)
	if !kind.Valid() {
		kind = dok.KindSupports
	}
	word := "support"
	if kind == dok.KindContradicts {
		word = "contradiction"
	}
	return dok.Connection{
		SourceIndex: p.ID,
		TargetIndex: targetIndex,
		Kind:        kind,
		Score:       connectionScore,
		Reasoning:   fmt.Sprintf("Direct %s identified", word),
	}
}

// limitPerNode drops connections once a node (on either end) already
// carries max connections, preserving input order.
func limitPerNode(conns []dok.Connection, max int) []dok.Connection {
	conns = limitBy(conns, max, func(c dok.Connection) int { return c.SourceIndex })
	return limitBy(conns, max, func(c dok.Connection) int { return c.TargetIndex })
}

func limitBy(conns []dok.Connection, max int, key func(dok.Connection) int) []dok.Connection {
	if len(conns) == 0 {
		return conns
	}
	counts := make(map[int]int)
	limited := conns[:0:0]
	for _, c := range conns {
		k := key(c)
		if counts[k] < max {
			limited = append(limited, c)
			counts[k]++
		}
	}
	return limited
}

// itemContent renders a DOK item for a prompt. Sub-items are summarized by
// count to keep token usage down.
func itemContent(item dok.Item) string {
	content := item.Content
	if len(item.Children) > 0 {
		content += fmt.Sprintf("\n  Sub-items: (%d items)", len(item.Children))
	}
	return strings.TrimSpace(content)
}

// numberedList renders candidates as a numbered list, truncating long
// entries.
func numberedList(items []dok.Item) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		content := itemContent(item)
		if len(content) > 200 {
			content = content[:200] + "..."
		}
		lines = append(lines, fmt.Sprintf("%d. %s", item.Index, content))
	}
	return strings.Join(lines, "\n\n")
}
