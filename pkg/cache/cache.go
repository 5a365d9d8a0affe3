// Package cache provides caching abstractions for graph analysis results.
//
// The package defines two interfaces:
//   - Cache: a byte-oriented key/value store with TTL support
//   - Keyer: deterministic cache key generation for domain objects
//
// Implementations include a file-based cache for CLI usage (FileCache),
// a Redis-backed cache for server deployments (RedisCache), and a no-op
// cache for testing (NullCache). Keys for multi-tenant setups can be
// namespaced with ScopedKeyer.
package cache

import (
	"context"
	"time"
)

// Default TTLs per result category. Parsed graphs are cheap to rebuild
// but fetched text may come from remote sources; analysis results are
// deterministic for a given graph and can live longer.
const (
	// TTLGraph is the default TTL for parsed graph structures.
	TTLGraph = 24 * time.Hour

	// TTLResult is the default TTL for analysis results (width,
	// antichains, safety certificates, decompositions).
	TTLResult = 7 * 24 * time.Hour

	// TTLArtifact is the default TTL for rendered artifacts (DOT, SVG, PNG).
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether
	// the key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero or negative TTL
	// means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// GraphKeyOpts captures the build options that affect graph identity.
type GraphKeyOpts struct {
	AdditionalStarts []string
	AdditionalEnds   []string
}

// WidthKeyOpts captures the options that affect a width computation.
type WidthKeyOpts struct {
	// Ignore lists edge keys excluded from the demand set, in the
	// order they were requested.
	Ignore []string

	// Condense reports whether the computation runs on the cyclic
	// condensation rather than the working graph directly.
	Condense bool
}

// AntichainKeyOpts captures the options that affect an antichain
// computation.
type AntichainKeyOpts struct {
	// Weights lists the per-edge weight assignments as "u -> v=w"
	// strings, sorted.
	Weights []string
}

// SafetyKeyOpts captures the options that affect a safety computation.
type SafetyKeyOpts struct {
	// Mode is one of "paths", "sequences", or "dominators".
	Mode string

	// Edges lists the edge keys to certify, in request order.
	Edges []string

	// Condense reports whether incompatibility statistics over the
	// certificates were requested.
	Condense bool

	// Workers is the concurrency level. It does not affect results
	// but is included so misbehaving runs can be diagnosed per key.
	Workers int
}

// ArtifactKeyOpts captures the options that affect a rendered artifact.
type ArtifactKeyOpts struct {
	Format       string
	Highlight    []string
	ShowFlow     bool
	HideBoundary bool
}

// Keyer generates deterministic cache keys for domain objects.
type Keyer interface {
	// HTTPKey generates a key for a cached HTTP response.
	HTTPKey(namespace, key string) string

	// GraphKey generates a key for a parsed graph. The hash is the
	// content hash of the edge list the graph was built from.
	GraphKey(hash string, opts GraphKeyOpts) string

	// WidthKey generates a key for a width result.
	WidthKey(graphHash string, opts WidthKeyOpts) string

	// AntichainKey generates a key for an antichain result.
	AntichainKey(graphHash string, opts AntichainKeyOpts) string

	// SafetyKey generates a key for a safety certificate result.
	SafetyKey(graphHash string, opts SafetyKeyOpts) string

	// DecomposeKey generates a key for a flow decomposition result.
	DecomposeKey(graphHash string) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard Keyer implementation.
// Keys are prefixed by category and hashed with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for a cached HTTP response.
// HTTP keys stay human-readable since the namespace and key already
// identify the resource.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// GraphKey generates a key for a parsed graph.
func (k *DefaultKeyer) GraphKey(hash string, opts GraphKeyOpts) string {
	return hashKey("graph", hash, opts.AdditionalStarts, opts.AdditionalEnds)
}

// WidthKey generates a key for a width result.
func (k *DefaultKeyer) WidthKey(graphHash string, opts WidthKeyOpts) string {
	return hashKey("width", graphHash, opts.Ignore, opts.Condense)
}

// AntichainKey generates a key for an antichain result.
func (k *DefaultKeyer) AntichainKey(graphHash string, opts AntichainKeyOpts) string {
	return hashKey("antichain", graphHash, opts.Weights)
}

// SafetyKey generates a key for a safety certificate result.
func (k *DefaultKeyer) SafetyKey(graphHash string, opts SafetyKeyOpts) string {
	return hashKey("safety", graphHash, opts.Mode, opts.Edges, opts.Condense, opts.Workers)
}

// DecomposeKey generates a key for a flow decomposition result.
func (k *DefaultKeyer) DecomposeKey(graphHash string) string {
	return hashKey("decompose", graphHash)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts.Format, opts.Highlight)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
