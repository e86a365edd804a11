package cache

// Keyer generates cache keys for render artifacts. Implementations
// must be deterministic: the same parts always map to the same key.
type Keyer interface {
	// RenderKey derives a key from the render request parts (model
	// hash, view, format, option values).
	RenderKey(parts ...any) string
}

// DefaultKeyer hashes the parts into a fixed-width key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RenderKey generates a key for a rendered artifact.
func (DefaultKeyer) RenderKey(parts ...any) string {
	return hashKey("render", parts...)
}

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation,
// letting separate deployments or tenants share one backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer whose keys carry the given prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// RenderKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) RenderKey(parts ...any) string {
	return k.prefix + k.inner.RenderKey(parts...)
}
