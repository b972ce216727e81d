package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/brainlift/pkg/dok"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)

	bl := &dok.BrainLift{
		ID:   "a1b2c3d4",
		Name: "Spaced Repetition",
		URL:  "https://workflowy.com/s/sr/Abc123",
		Sections: dok.Sections{
			Insights: &dok.Section{Items: []dok.Item{{Index: 1, Content: "timing matters"}}},
		},
	}
	if err := s.Save(ctx, bl); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if bl.CreatedAt.IsZero() || bl.UpdatedAt.IsZero() {
		t.Error("Save should set timestamps")
	}

	got, err := s.Get(ctx, "a1b2c3d4")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Name != "Spaced Repetition" || got.Sections.Insights.ItemCount() != 1 {
		t.Errorf("Get returned %+v", got)
	}

	// Returned document is a copy
	got.Name = "mutated"
	again, _ := s.Get(ctx, "a1b2c3d4")
	if again.Name != "Spaced Repetition" {
		t.Error("store state mutated through returned document")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreUpsertKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	bl := &dok.BrainLift{ID: "x", Name: "v1"}
	if err := s.Save(ctx, bl); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	created := bl.CreatedAt

	time.Sleep(time.Millisecond)
	update := &dok.BrainLift{ID: "x", Name: "v2"}
	if err := s.Save(ctx, update); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, _ := s.Get(ctx, "x")
	if got.Name != "v2" {
		t.Errorf("Name = %q, want updated name", got.Name)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed on upsert: %v != %v", got.CreatedAt, created)
	}
	if !got.UpdatedAt.After(created) {
		t.Error("UpdatedAt should advance on upsert")
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		bl := &dok.BrainLift{ID: id, Name: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := s.Save(ctx, bl); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	summaries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("List len = %d, want 3", len(summaries))
	}
	if summaries[0].ID != "new" || summaries[2].ID != "old" {
		t.Errorf("List order = %v, want newest first", summaries)
	}
}

func TestMemoryStoreSaveAnalysis(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.SaveAnalysis(ctx, "missing", dok.Analysis{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveAnalysis on missing id = %v, want ErrNotFound", err)
	}

	if err := s.Save(ctx, &dok.BrainLift{ID: "x", Name: "n"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	analysis := dok.Analysis{
		InsightsToSPOVs: []dok.Connection{{SourceIndex: 1, TargetIndex: 1, Kind: dok.KindSupports}},
	}
	if err := s.SaveAnalysis(ctx, "x", analysis); err != nil {
		t.Fatalf("SaveAnalysis error: %v", err)
	}

	got, _ := s.Get(ctx, "x")
	if got.Analysis == nil || len(got.Analysis.InsightsToSPOVs) != 1 {
		t.Errorf("analysis not persisted: %+v", got.Analysis)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete missing = %v, want ErrNotFound", err)
	}

	if err := s.Save(ctx, &dok.BrainLift{ID: "x"}); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := s.Delete(ctx, "x"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Error("document should be gone after Delete")
	}
}
