package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matzehuels/brainlift/pkg/dok"
)

// MemoryStore is an in-process Store backed by a map.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]dok.BrainLift
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]dok.BrainLift)}
}

// Save upserts a BrainLift.
func (s *MemoryStore) Save(ctx context.Context, bl *dok.BrainLift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.docs[bl.ID]; ok {
		bl.CreatedAt = existing.CreatedAt
	} else if bl.CreatedAt.IsZero() {
		bl.CreatedAt = now
	}
	bl.UpdatedAt = now

	s.docs[bl.ID] = *bl
	return nil
}

// Get retrieves a BrainLift by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*dok.BrainLift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	// Copy so callers can't mutate stored state.
	out := doc
	if doc.Analysis != nil {
		a := *doc.Analysis
		out.Analysis = &a
	}
	return &out, nil
}

// List returns summaries sorted newest first.
func (s *MemoryStore) List(ctx context.Context) ([]dok.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]dok.Summary, 0, len(s.docs))
	for _, doc := range s.docs {
		summaries = append(summaries, dok.Summary{
			ID:        doc.ID,
			Name:      doc.Name,
			CreatedAt: doc.CreatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// SaveAnalysis attaches an analysis to a stored BrainLift.
func (s *MemoryStore) SaveAnalysis(ctx context.Context, id string, analysis dok.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}
	doc.Analysis = &analysis
	doc.UpdatedAt = time.Now().UTC()
	s.docs[id] = doc
	return nil
}

// Delete removes a BrainLift.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
