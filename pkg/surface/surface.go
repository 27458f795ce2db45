// Package surface defines the drawing-surface capability the layout engine
// draws through.
//
// A Surface is the engine's only collaborator: it creates layers and entities
// and hands back handles whose style is set afterwards by property name. The
// engine never assumes which property names a host supports; it calls
// [ApplyStyle] with an ordered list of candidates and accepts partial failure.
//
// Aligned dimensions are special: the host decides where the measurement text
// ends up and exposes that position through [Dimension.ResolvedTextPosition].
// Annotations that depend on it must be computed after reading it back.
package surface

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/discdraw/pkg/geom"
)

// Sentinel errors returned by surfaces and handles.
var (
	// ErrUnsupportedProperty is returned by SetProperty when the entity type
	// does not expose the named property.
	ErrUnsupportedProperty = errors.New("unsupported property")

	// ErrInvalidValue is returned by SetProperty when the value has the wrong
	// type or range for the property.
	ErrInvalidValue = errors.New("invalid property value")

	// ErrNoCandidate is returned by ApplyStyle when no candidate name could be
	// applied.
	ErrNoCandidate = errors.New("no candidate property accepted the value")

	// ErrPatternNotFound is returned by LoadLinePattern when the library does
	// not define the requested pattern.
	ErrPatternNotFound = errors.New("line pattern not found")

	// ErrClosed is returned by every operation on a saved and closed surface.
	ErrClosed = errors.New("surface closed")
)

// Handle references an object created on a surface.
type Handle interface {
	// ID returns the host identifier of the object.
	ID() string

	// Kind names the host entity type (for example "LAYER" or "DIMENSION").
	Kind() string

	// SetProperty assigns value to the named property. It returns an error
	// wrapping ErrUnsupportedProperty when the entity type lacks the property.
	SetProperty(name string, value any) error
}

// Dimension is the handle of an aligned dimension.
type Dimension interface {
	Handle

	// ResolvedTextPosition returns where the host placed the measurement text.
	ResolvedTextPosition() geom.Point3D
}

// Surface is the drawing capability consumed by the layout engine.
type Surface interface {
	// Layer returns the named layer if the document already defines it.
	Layer(name string) (Handle, bool)

	// AddLayer creates a new layer.
	AddLayer(name string) (Handle, error)

	// HasLinePattern reports whether the named line pattern is loaded.
	HasLinePattern(name string) bool

	// LoadLinePattern loads a line pattern from a pattern library.
	LoadLinePattern(name, library string) error

	AddCircle(center geom.Point3D, radius float64) (Handle, error)
	AddLine(a, b geom.Point3D) (Handle, error)

	// AddAlignedDimension measures p1-p2 and draws the dimension line through
	// leader.
	AddAlignedDimension(p1, p2, leader geom.Point3D) (Dimension, error)

	// AddTextBlock creates a multi-line text block. content may carry inline
	// formatting markup (see package mtext).
	AddTextBlock(anchor geom.Point3D, wrapWidth float64, content string) (Handle, error)

	// SaveAndClose persists the document to path and releases it.
	SaveAndClose(path string) error
}

// ApplyStyle tries each candidate property name on h in order and stops at the
// first that accepts value. It returns the name that succeeded. When every
// candidate fails the error wraps ErrNoCandidate and the causes.
func ApplyStyle(h Handle, value any, candidates ...string) (string, error) {
	var causes []error
	for _, name := range candidates {
		err := h.SetProperty(name, value)
		if err == nil {
			return name, nil
		}
		causes = append(causes, err)
	}
	return "", &StyleError{
		Kind:       h.Kind(),
		ID:         h.ID(),
		Candidates: candidates,
		Causes:     causes,
	}
}

// StyleError describes a style assignment that no candidate accepted.
type StyleError struct {
	Kind       string
	ID         string
	Candidates []string
	Causes     []error
}

func (e *StyleError) Error() string {
	return fmt.Sprintf("%s %s: can't set %s", e.Kind, e.ID, strings.Join(e.Candidates, "|"))
}

// Unwrap exposes ErrNoCandidate and every individual cause.
func (e *StyleError) Unwrap() []error {
	return append([]error{ErrNoCandidate}, e.Causes...)
}
