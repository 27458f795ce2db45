package cache

// Keyer derives cache keys.
type Keyer interface {
	// DrawingKey identifies the layout of one Parameter Set on one template.
	DrawingKey(paramsFingerprint []byte, opts DrawingKeyOpts) string

	// ArtifactKey identifies a drawing rendered in one format.
	ArtifactKey(drawingKey string, opts ArtifactKeyOpts) string
}

// DrawingKeyOpts are the inputs besides the parameters that change a layout.
type DrawingKeyOpts struct {
	Template string `json:"template,omitempty"`

	// TemplateHash is the hash of the template contents, so edits to a
	// template or its linetype file produce a new key.
	TemplateHash string `json:"template_hash,omitempty"`
}

// ArtifactKeyOpts are the inputs that change a rendered file.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DrawingKey implements [Keyer].
func (DefaultKeyer) DrawingKey(fp []byte, opts DrawingKeyOpts) string {
	return hashKey("drawing", Hash(fp), opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(drawingKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", drawingKey, opts)
}
