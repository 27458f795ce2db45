package cache

// ScopedKeyer wraps a Keyer with a prefix. Prefixing keys with the build
// version keeps artifacts of different releases apart:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer uses
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DrawingKey generates a prefixed drawing key.
func (k *ScopedKeyer) DrawingKey(fp []byte, opts DrawingKeyOpts) string {
	return k.prefix + k.inner.DrawingKey(fp, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(drawingKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(drawingKey, opts)
}
