package pipeline

import (
	"testing"

	"github.com/matzehuels/brainlift/pkg/dok"
	apperrors "github.com/matzehuels/brainlift/pkg/errors"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for range 100 {
		id := NewID()
		if len(id) != 8 {
			t.Fatalf("NewID() = %q, want 8 characters", id)
		}
		if seen[id] {
			t.Fatalf("NewID() repeated %q", id)
		}
		seen[id] = true
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{URL: "https://workflowy.com/s/test/Abc123"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	if opts.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", opts.Model, DefaultModel)
	}
	if opts.MaxPerNode != DefaultMaxPerNode {
		t.Errorf("MaxPerNode = %d, want %d", opts.MaxPerNode, DefaultMaxPerNode)
	}
	if opts.Logger == nil {
		t.Error("Logger should be defaulted")
	}

	// Idempotent: explicit values survive a second call.
	opts.Model = "other-model"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Model != "other-model" {
		t.Errorf("Model = %q after revalidation, want other-model", opts.Model)
	}
}

func TestOptionsValidateRejectsBadURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"bad scheme", "ftp://example.com/outline"},
		{"not a url", "definitely not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{URL: tt.url}
			err := opts.ValidateAndSetDefaults()
			if !apperrors.Is(err, apperrors.ErrCodeInvalidURL) {
				t.Errorf("got %v, want INVALID_URL", err)
			}
		})
	}
}

func TestResultBrainLift(t *testing.T) {
	result := &Result{
		ID:          "abc12345",
		Name:        "Test",
		RawMarkdown: "- Test\n",
		Sections: dok.Sections{
			Insights: &dok.Section{Items: []dok.Item{{Index: 1, Content: "Insight"}}},
		},
		Analysis: dok.Analysis{
			InsightsToSPOVs: []dok.Connection{{SourceIndex: 1, TargetIndex: 1, Kind: dok.KindSupports}},
		},
		Analyzed: true,
	}

	bl := result.BrainLift("https://workflowy.com/s/test/Abc123")
	if bl.ID != "abc12345" || bl.Name != "Test" {
		t.Errorf("BrainLift identity = %q/%q", bl.ID, bl.Name)
	}
	if bl.URL != "https://workflowy.com/s/test/Abc123" {
		t.Errorf("URL = %q", bl.URL)
	}
	if bl.Analysis == nil || len(bl.Analysis.InsightsToSPOVs) != 1 {
		t.Error("analysis should be attached to the document")
	}
}

func TestResultBrainLiftWithoutAnalysis(t *testing.T) {
	result := &Result{ID: "abc12345", Name: "Test"}

	if bl := result.BrainLift("https://workflowy.com/s/test/Abc123"); bl.Analysis != nil {
		t.Error("skipped analysis should persist as no analysis")
	}
}
