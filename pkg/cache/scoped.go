package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several tenants or model
// stores can share one backend without seeing each other's entries.
//
// Example usage:
//
//	// Keys of one workspace
//	wsKeyer := NewScopedKeyer(NewDefaultKeyer(), "ws:abc123:")
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

// GraphKey generates a prefixed key for assembled graphs.
func (k *ScopedKeyer) GraphKey(modelHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(modelHash, opts)
}

// ExportKey generates a prefixed key for exported artifacts.
func (k *ScopedKeyer) ExportKey(graphHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(graphHash, opts)
}
