package cache

// ScopedKeyer prefixes every key of an inner Keyer. The CLI scopes keys by
// cache format version so that a format change never reads old entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(tableHash, opts)
}
