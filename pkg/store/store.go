// Package store persists BrainLifts.
//
// Two backends implement [Store]: an in-memory map for tests and
// single-run tools, and MongoDB for the API server. Both share upsert
// semantics: saving an existing id replaces the document while keeping
// its creation time.
package store

import (
	"context"
	"errors"

	"github.com/matzehuels/brainlift/pkg/dok"
)

// ErrNotFound is returned when a BrainLift does not exist.
var ErrNotFound = errors.New("brainlift not found")

// Store is the interface for BrainLift persistence backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save upserts a BrainLift. On insert CreatedAt is set if zero; on
	// both paths UpdatedAt is refreshed.
	Save(ctx context.Context, bl *dok.BrainLift) error

	// Get retrieves a BrainLift by id. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*dok.BrainLift, error)

	// List returns summaries of all BrainLifts, newest first.
	List(ctx context.Context) ([]dok.Summary, error)

	// SaveAnalysis attaches a connection analysis to a stored BrainLift.
	// Returns ErrNotFound when the id does not exist.
	SaveAnalysis(ctx context.Context, id string, analysis dok.Analysis) error

	// Delete removes a BrainLift. Returns ErrNotFound when absent.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
