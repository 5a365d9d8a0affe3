// Package httputil provides HTTP utilities for remote graph sources.
//
// # Overview
//
// This package provides infrastructure used when fetching graph edge
// lists over HTTP:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/pathcover/)
// with configurable TTL. This speeds up repeated analyses of the same
// remote graph and reduces load on the servers hosting them.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24*time.Hour)
//	var body string
//	ok, err := cache.Get("remote:"+url, &body)  // Check cache
//	if !ok {
//	    body = fetchFromURL(url)
//	    cache.Set("remote:"+url, body)          // Store for later
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
// It uses exponential backoff to avoid hammering a struggling server:
//
//	resp, err := httputil.Retry(ctx, 3, time.Second, func() (*http.Response, error) {
//	    return http.Get(url)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/pathcover/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `pathcover cache clear` or by deleting
// the cache directory.
package httputil
