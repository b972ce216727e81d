package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful when different users or contexts need separate cache
// namespaces on a shared backend.
//
// Example usage:
//
//	// User-specific keys for private outlines
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Global keys for public outlines
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// SectionsKey generates a prefixed key for extracted sections.
func (k *ScopedKeyer) SectionsKey(shareID string) string {
	return k.prefix + k.inner.SectionsKey(shareID)
}

// AnalysisKey generates a prefixed key for connection analysis caching.
func (k *ScopedKeyer) AnalysisKey(sectionsHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(sectionsHash, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(analysisHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(analysisHash, opts)
}
