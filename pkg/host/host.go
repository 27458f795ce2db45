// Package host opens the documents a layout run draws on.
//
// A host stands where an automation server would: it hands out a fresh
// document, preferably created from a template, and registers the file
// formats the document can be saved as. When the template cannot be used the
// host falls back to a blank document and logs a warning, so a broken
// template never stops a drawing from being produced.
package host

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/discdraw/pkg/document"
	derrors "github.com/matzehuels/discdraw/pkg/errors"
	"github.com/matzehuels/discdraw/pkg/sink"
)

// Host opens documents.
type Host interface {
	// Open returns a new document, created from template when it is set.
	// The second result reports whether the template was applied.
	Open(ctx context.Context, template string) (*document.Document, bool, error)
}

// Local is an in-process host backed by [document.Document].
type Local struct {
	logger *log.Logger
	extra  []document.Option
}

// Option configures a Local host.
type Option func(*Local)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l *log.Logger) Option {
	return func(h *Local) { h.logger = l }
}

// WithDocumentOptions applies opts to every opened document after the
// template.
func WithDocumentOptions(opts ...document.Option) Option {
	return func(h *Local) { h.extra = append(h.extra, opts...) }
}

// NewLocal returns a host whose documents can be saved in every sink format.
func NewLocal(opts ...Option) *Local {
	h := &Local{logger: log.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Open implements [Host].
func (h *Local) Open(ctx context.Context, template string) (*document.Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, derrors.Wrap(derrors.ErrCodeHost, err, "open document")
	}

	base := sink.DocumentOptions()
	if template == "" {
		return document.New(append(base, h.extra...)...), false, nil
	}

	opts, err := h.templateOptions(template)
	if err != nil {
		h.logger.Warn("template unavailable, using a blank document", "template", template, "err", err)
		return document.New(append(base, h.extra...)...), false, nil
	}
	opts = append(append(base, opts...), h.extra...)
	return document.New(opts...), true, nil
}

func (h *Local) templateOptions(path string) ([]document.Option, error) {
	t, err := LoadTemplate(path)
	if err != nil {
		return nil, err
	}
	return t.Options()
}

var _ Host = (*Local)(nil)
