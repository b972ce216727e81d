// Package cache provides pluggable byte caching for pipeline stages.
//
// The [Cache] interface abstracts the storage backend:
//   - file: Directory-based cache for CLI usage
//   - memory: In-process cache for tests and single-run tools
//   - redis: Shared cache for multi-instance API deployments
//   - null: Disabled caching
//
// Cache keys are produced by a [Keyer], which derives deterministic keys
// from pipeline inputs so that identical inputs hit the same entry across
// processes and machines.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was found; expired entries count as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per pipeline stage. Extraction results change whenever the
// source outline is edited, so they expire fastest. Analysis and layout are
// pure functions of their inputs and keyed by content hash, so they can
// live much longer.
const (
	// TTLSections is the TTL for extracted outline sections.
	TTLSections = 24 * time.Hour

	// TTLAnalysis is the TTL for connection analysis results.
	TTLAnalysis = 7 * 24 * time.Hour

	// TTLLayout is the TTL for computed layouts.
	TTLLayout = 7 * 24 * time.Hour
)

// AnalysisKeyOpts are the analysis parameters that affect cache identity.
type AnalysisKeyOpts struct {
	Model       string
	MaxPerNode  int
	Temperature float64
}

// LayoutKeyOpts are the layout parameters that affect cache identity.
type LayoutKeyOpts struct {
	NodeWidth    float64
	NodeHeight   float64
	NodeGap      float64
	ColumnGap    float64
	OrphanSlot   float64
	MaxNeighbors int
}

// Keyer generates cache keys for the different pipeline stages.
// Implementations must be deterministic: the same inputs always produce
// the same key.
type Keyer interface {
	// HTTPKey generates a key for raw HTTP response caching.
	HTTPKey(namespace, key string) string

	// SectionsKey generates a key for extracted sections, scoped by the
	// WorkFlowy share id.
	SectionsKey(shareID string) string

	// AnalysisKey generates a key for a connection analysis of the
	// sections identified by sectionsHash.
	AnalysisKey(sectionsHash string, opts AnalysisKeyOpts) string

	// LayoutKey generates a key for a layout of the analysis identified
	// by analysisHash.
	LayoutKey(analysisHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer is the standard Keyer implementation.
// Option structs are hashed so that any parameter change produces a new key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// SectionsKey generates a key for extracted sections.
func (k *DefaultKeyer) SectionsKey(shareID string) string {
	return "sections:" + shareID
}

// AnalysisKey generates a key for connection analysis results.
func (k *DefaultKeyer) AnalysisKey(sectionsHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", sectionsHash, opts)
}

// LayoutKey generates a key for computed layouts.
func (k *DefaultKeyer) LayoutKey(analysisHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", analysisHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
