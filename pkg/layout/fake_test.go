package layout

import (
	"fmt"

	"github.com/matzehuels/discdraw/pkg/geom"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// fakeSurface records every call. Property support is configured per kind.
type fakeSurface struct {
	calls    []string
	layers   map[string]*fakeHandle
	patterns map[string]bool
	handles  []*fakeHandle
	nextID   int

	// loadable patterns; LoadLinePattern fails for anything else
	library map[string]bool

	// supported property names per kind; nil accepts everything
	supported map[string]map[string]bool

	// resolve computes the resolved text position of a dimension
	resolve func(p1, p2, leader geom.Point3D) geom.Point3D

	failAdd string // kind whose creation fails
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		layers:   map[string]*fakeHandle{},
		patterns: map[string]bool{"CONTINUOUS": true},
		library:  map[string]bool{"CENTER2": true, "CONTINUOUS": true},
		resolve: func(p1, p2, leader geom.Point3D) geom.Point3D {
			return geom.Project(geom.Mid(p1, p2), leader, p2.Sub(p1))
		},
	}
}

type fakeHandle struct {
	s     *fakeSurface
	id    string
	kind  string
	props map[string]any
	pos   geom.Point3D
	args  []any
}

func (h *fakeHandle) ID() string   { return h.id }
func (h *fakeHandle) Kind() string { return h.kind }

func (h *fakeHandle) SetProperty(name string, value any) error {
	if sup, ok := h.s.supported[h.kind]; ok && !sup[name] {
		return fmt.Errorf("%s.%s: %w", h.kind, name, surface.ErrUnsupportedProperty)
	}
	h.props[name] = value
	h.s.calls = append(h.s.calls, fmt.Sprintf("set %s %s", h.kind, name))
	return nil
}

func (h *fakeHandle) ResolvedTextPosition() geom.Point3D { return h.pos }

func (s *fakeSurface) add(kind string, args ...any) (*fakeHandle, error) {
	s.calls = append(s.calls, "add "+kind)
	if s.failAdd == kind {
		return nil, fmt.Errorf("host gone")
	}
	s.nextID++
	h := &fakeHandle{s: s, id: fmt.Sprintf("%X", s.nextID), kind: kind, props: map[string]any{}, args: args}
	s.handles = append(s.handles, h)
	return h, nil
}

func (s *fakeSurface) Layer(name string) (surface.Handle, bool) {
	h, ok := s.layers[name]
	if !ok {
		return nil, false
	}
	return h, true
}

func (s *fakeSurface) AddLayer(name string) (surface.Handle, error) {
	h, err := s.add("LAYER", name)
	if err != nil {
		return nil, err
	}
	s.layers[name] = h
	return h, nil
}

func (s *fakeSurface) HasLinePattern(name string) bool { return s.patterns[name] }

func (s *fakeSurface) LoadLinePattern(name, library string) error {
	s.calls = append(s.calls, "load "+name)
	if !s.library[name] {
		return fmt.Errorf("%s: %w", name, surface.ErrPatternNotFound)
	}
	s.patterns[name] = true
	return nil
}

func (s *fakeSurface) AddCircle(c geom.Point3D, r float64) (surface.Handle, error) {
	h, err := s.add("CIRCLE", c, r)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *fakeSurface) AddLine(a, b geom.Point3D) (surface.Handle, error) {
	h, err := s.add("LINE", a, b)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *fakeSurface) AddAlignedDimension(p1, p2, leader geom.Point3D) (surface.Dimension, error) {
	h, err := s.add("DIMENSION", p1, p2, leader)
	if err != nil {
		return nil, err
	}
	h.pos = s.resolve(p1, p2, leader)
	return h, nil
}

func (s *fakeSurface) AddTextBlock(anchor geom.Point3D, width float64, content string) (surface.Handle, error) {
	h, err := s.add("MTEXT", anchor, width, content)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (s *fakeSurface) SaveAndClose(string) error { return nil }

func (s *fakeSurface) byKind(kind string) []*fakeHandle {
	var out []*fakeHandle
	for _, h := range s.handles {
		if h.kind == kind {
			out = append(out, h)
		}
	}
	return out
}
