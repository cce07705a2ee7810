package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Several servers sharing one Redis instance each scope their keys so that
// frame entries of different deployments never collide.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "fg:prod:")
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

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// FrameKey generates a prefixed frame key.
func (k *ScopedKeyer) FrameKey(viewID string, tick int, format string) string {
	return k.prefix + k.inner.FrameKey(viewID, tick, format)
}
