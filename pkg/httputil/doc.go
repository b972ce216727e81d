// Package httputil provides HTTP utilities for the WorkFlowy and LLM clients.
//
// # Overview
//
// This package provides infrastructure shared by all outbound HTTP clients:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//   - [Do]: Instrumented request execution
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/brainlift/)
// with configurable TTL. This dramatically speeds up repeated operations
// and avoids re-scraping outlines or re-running classification prompts.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	ok, err := cache.Get("workflowy:Abc123", &tree)  // Check cache
//	if !ok {
//	    tree = fetchFromWorkFlowy()
//	    cache.Set("workflowy:Abc123", tree)          // Store for later
//	}
//
// Cache keys should be namespaced by source to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// It uses exponential backoff to avoid hammering a struggling upstream:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchPage(ctx, url)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/brainlift/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `brainlift cache clear` or by deleting
// the cache directory.
package httputil
