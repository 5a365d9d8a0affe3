package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Different users or deployment contexts get separate cache namespaces
// without touching the underlying key scheme.
//
// Example usage:
//
//	// User-specific keys for private graphs
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Global keys for shared graphs
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

// GraphKey generates a prefixed key for parsed graph caching.
func (k *ScopedKeyer) GraphKey(hash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(hash, opts)
}

// WidthKey generates a prefixed key for width result caching.
func (k *ScopedKeyer) WidthKey(graphHash string, opts WidthKeyOpts) string {
	return k.prefix + k.inner.WidthKey(graphHash, opts)
}

// AntichainKey generates a prefixed key for antichain result caching.
func (k *ScopedKeyer) AntichainKey(graphHash string, opts AntichainKeyOpts) string {
	return k.prefix + k.inner.AntichainKey(graphHash, opts)
}

// DecomposeKey generates a prefixed key for decomposition result caching.
func (k *ScopedKeyer) DecomposeKey(graphHash string) string {
	return k.prefix + k.inner.DecomposeKey(graphHash)
}

// SafetyKey generates a prefixed key for safety result caching.
func (k *ScopedKeyer) SafetyKey(graphHash string, opts SafetyKeyOpts) string {
	return k.prefix + k.inner.SafetyKey(graphHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
