// Package document is an in-memory CAD document that implements
// [surface.Surface].
//
// It behaves the way an automation host does: entities live in model space,
// every entity kind exposes its own set of named properties, line patterns
// have to be loaded from a .lin library before a layer can use them, and an
// aligned dimension decides for itself where its text goes. Persistence is
// delegated to an [Encoder] chosen by the file extension passed to
// [Document.SaveAndClose].
package document

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/discdraw/pkg/geom"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// firstHandle is the first entity handle handed out. Lower handles are
// reserved for document tables, as in DXF.
const firstHandle = 0x30

// Snapshot is a read-only copy of a document's contents.
type Snapshot struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Created   time.Time  `json:"created"`
	Units     string     `json:"units"`
	Layers    []Layer    `json:"layers"`
	Linetypes []Linetype `json:"linetypes"`
	Entities  []Entity   `json:"entities"`
}

// Layer returns the named layer of the snapshot.
func (s *Snapshot) Layer(name string) (Layer, bool) {
	for _, l := range s.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return Layer{}, false
}

// Linetype returns the named line pattern of the snapshot.
func (s *Snapshot) Linetype(name string) (Linetype, bool) {
	for _, l := range s.Linetypes {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Linetype{}, false
}

// EffectiveColor resolves ByLayer to the colour of the entity's layer.
func (s *Snapshot) EffectiveColor(e Entity) surface.Color {
	if e.Color != surface.ColorByLayer && e.Color != surface.ColorByBlock {
		return e.Color
	}
	if l, ok := s.Layer(e.Layer); ok {
		return l.Color
	}
	return 7
}

// Bounds returns the extent of all entities.
func (s *Snapshot) Bounds() geom.Bounds {
	var b geom.Bounds
	for _, e := range s.Entities {
		switch e.Kind {
		case KindCircle:
			b.Extend(e.Center.Add(-e.Radius, -e.Radius))
			b.Extend(e.Center.Add(e.Radius, e.Radius))
		case KindLine:
			b.Extend(e.Start)
			b.Extend(e.End)
		case KindDimension:
			b.Extend(e.P1)
			b.Extend(e.P2)
			b.Extend(e.Leader)
			b.Extend(e.TextPosition)
		case KindText:
			b.Extend(e.Anchor)
			b.Extend(e.Anchor.Add(e.Width, -e.Height*4))
		}
	}
	return b
}

// Encoder writes a snapshot in one file format.
type Encoder interface {
	Encode(w io.Writer, snap *Snapshot) error
}

// EncoderFunc adapts a function to [Encoder].
type EncoderFunc func(w io.Writer, snap *Snapshot) error

func (f EncoderFunc) Encode(w io.Writer, snap *Snapshot) error { return f(w, snap) }

// Option configures a Document.
type Option func(*Document)

// WithName sets the document name.
func WithName(name string) Option {
	return func(d *Document) { d.name = name }
}

// WithEncoder registers enc for files with extension ext (".dxf").
func WithEncoder(ext string, enc Encoder) Option {
	return func(d *Document) { d.encoders[strings.ToLower(ext)] = enc }
}

// WithLayer predefines a layer. Its linetype is loaded from the standard
// library when needed.
func WithLayer(l Layer) Option {
	return func(d *Document) { d.preset = append(d.preset, l) }
}

// WithLinetypes preloads line patterns.
func WithLinetypes(lts ...Linetype) Option {
	return func(d *Document) {
		for _, lt := range lts {
			d.addLinetype(lt)
		}
	}
}

// Document is an in-memory drawing. It is safe for concurrent use, though a
// layout run uses it from a single goroutine.
type Document struct {
	mu sync.Mutex

	id      string
	name    string
	created time.Time
	closed  bool

	layers    []*Layer
	layerIdx  map[string]*Layer
	linetypes map[string]Linetype
	ltOrder   []string
	entities  []*Entity
	next      int

	preset   []Layer
	encoders map[string]Encoder
}

// New returns an empty document holding layer "0" and the CONTINUOUS pattern.
func New(opts ...Option) *Document {
	d := &Document{
		id:        uuid.NewString(),
		name:      "Drawing1",
		created:   time.Now().UTC(),
		layerIdx:  map[string]*Layer{},
		linetypes: map[string]Linetype{},
		next:      firstHandle,
		encoders:  map[string]Encoder{},
	}
	d.addLinetype(Linetype{Name: Continuous, Description: "Solid line"})
	d.addLayer("0", 7, Continuous)
	for _, opt := range opts {
		opt(d)
	}
	for _, l := range d.preset {
		lt := l.Linetype
		if lt == "" {
			lt = Continuous
		}
		if _, ok := d.linetypes[strings.ToUpper(lt)]; !ok {
			if def, found, err := lookupLinetype(lt, "acad.lin"); err == nil && found {
				d.addLinetype(def)
			} else {
				lt = Continuous
			}
		}
		if existing, ok := d.layerIdx[l.Name]; ok {
			existing.Color, existing.Linetype = l.Color, strings.ToUpper(lt)
			continue
		}
		d.addLayer(l.Name, l.Color, strings.ToUpper(lt))
	}
	d.preset = nil
	return d
}

// ID returns the document's unique identifier.
func (d *Document) ID() string { return d.id }

// Name returns the document name.
func (d *Document) Name() string { return d.name }

func (d *Document) handle() string {
	h := fmt.Sprintf("%X", d.next)
	d.next++
	return h
}

func (d *Document) addLayer(name string, c surface.Color, lt string) *Layer {
	l := &Layer{ID: d.handle(), Name: name, Color: c, Linetype: lt}
	d.layers = append(d.layers, l)
	d.layerIdx[name] = l
	return l
}

func (d *Document) addLinetype(lt Linetype) {
	lt.Name = strings.ToUpper(lt.Name)
	if _, ok := d.linetypes[lt.Name]; !ok {
		d.ltOrder = append(d.ltOrder, lt.Name)
	}
	d.linetypes[lt.Name] = lt
}

// Layer implements [surface.Surface].
func (d *Document) Layer(name string) (surface.Handle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, false
	}
	if _, ok := d.layerIdx[name]; !ok {
		return nil, false
	}
	return &layerHandle{d: d, name: name}, true
}

// AddLayer implements [surface.Surface]. New layers are white and solid.
func (d *Document) AddLayer(name string) (surface.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, surface.ErrClosed
	}
	if name == "" || strings.ContainsAny(name, `<>/\":;?*|=,`) {
		return nil, fmt.Errorf("layer name %q: %w", name, surface.ErrInvalidValue)
	}
	if _, ok := d.layerIdx[name]; ok {
		return nil, fmt.Errorf("layer %q already exists", name)
	}
	d.addLayer(name, 7, Continuous)
	return &layerHandle{d: d, name: name}, nil
}

// HasLinePattern implements [surface.Surface].
func (d *Document) HasLinePattern(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.linetypes[strings.ToUpper(name)]
	return ok
}

// LoadLinePattern implements [surface.Surface]. library is a path to a .lin
// file; "acad.lin" and "acadiso.lin" name the embedded standard library.
func (d *Document) LoadLinePattern(name, library string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return surface.ErrClosed
	}
	lt, ok, err := lookupLinetype(name, library)
	if err != nil {
		return fmt.Errorf("load %s from %s: %w", name, library, err)
	}
	if !ok {
		return fmt.Errorf("%s in %s: %w", name, library, surface.ErrPatternNotFound)
	}
	d.addLinetype(lt)
	return nil
}

func (d *Document) addEntity(e *Entity) (*Entity, error) {
	if d.closed {
		return nil, surface.ErrClosed
	}
	e.ID = d.handle()
	e.Layer = "0"
	e.Color = surface.ColorByLayer
	d.entities = append(d.entities, e)
	return e, nil
}

// AddCircle implements [surface.Surface].
func (d *Document) AddCircle(center geom.Point3D, radius float64) (surface.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, err := d.addEntity(&Entity{Kind: KindCircle, Center: center, Radius: radius})
	if err != nil {
		return nil, err
	}
	return &entityHandle{d: d, e: e}, nil
}

// AddLine implements [surface.Surface].
func (d *Document) AddLine(a, b geom.Point3D) (surface.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, err := d.addEntity(&Entity{Kind: KindLine, Start: a, End: b})
	if err != nil {
		return nil, err
	}
	return &entityHandle{d: d, e: e}, nil
}

// AddAlignedDimension implements [surface.Surface]. The text is placed on
// the dimension line halfway between the measured points.
func (d *Document) AddAlignedDimension(p1, p2, leader geom.Point3D) (surface.Dimension, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, err := d.addEntity(&Entity{
		Kind:         KindDimension,
		P1:           p1,
		P2:           p2,
		Leader:       leader,
		TextPosition: resolveTextPosition(p1, p2, leader),
		TextHeight:   2.5,
		ArrowSize:    2.5,
		TextColor:    surface.ColorByBlock,
		Precision:    4,
	})
	if err != nil {
		return nil, err
	}
	return &dimensionHandle{entityHandle{d: d, e: e}}, nil
}

// AddTextBlock implements [surface.Surface].
func (d *Document) AddTextBlock(anchor geom.Point3D, wrapWidth float64, content string) (surface.Handle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, err := d.addEntity(&Entity{
		Kind:       KindText,
		Anchor:     anchor,
		Width:      wrapWidth,
		Content:    content,
		Height:     2.5,
		Attachment: surface.AttachTopLeft,
	})
	if err != nil {
		return nil, err
	}
	return &entityHandle{d: d, e: e}, nil
}

// Snapshot returns a deep copy of the document.
func (d *Document) Snapshot() *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

func (d *Document) snapshot() *Snapshot {
	s := &Snapshot{
		ID:       d.id,
		Name:     d.name,
		Created:  d.created,
		Units:    "mm",
		Layers:   make([]Layer, len(d.layers)),
		Entities: make([]Entity, len(d.entities)),
	}
	for i, l := range d.layers {
		s.Layers[i] = *l
	}
	for _, name := range d.ltOrder {
		lt := d.linetypes[name]
		lt.Pattern = append([]float64(nil), lt.Pattern...)
		s.Linetypes = append(s.Linetypes, lt)
	}
	for i, e := range d.entities {
		s.Entities[i] = *e
	}
	return s
}

// Formats returns the registered file extensions, sorted.
func (d *Document) Formats() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.encoders))
	for ext := range d.encoders {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Encode writes the document in the format registered for ext without
// closing it.
func (d *Document) Encode(w io.Writer, ext string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return surface.ErrClosed
	}
	enc, ok := d.encoders[strings.ToLower(ext)]
	if !ok {
		return fmt.Errorf("no encoder for %q", ext)
	}
	return enc.Encode(w, d.snapshot())
}

// SaveAndClose implements [surface.Surface]. The file is written through the
// encoder registered for its extension. A failed save leaves the document
// open and removes the partial file.
func (d *Document) SaveAndClose(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return surface.ErrClosed
	}
	ext := strings.ToLower(filepath.Ext(path))
	enc, ok := d.encoders[ext]
	if !ok {
		return fmt.Errorf("save %s: no encoder for %q", path, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := enc.Encode(f, d.snapshot()); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("save %s: %w", path, err)
	}
	d.closed = true
	return nil
}

// Close discards the document without saving.
func (d *Document) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

type layerHandle struct {
	d    *Document
	name string
}

func (h *layerHandle) ID() string {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	if l, ok := h.d.layerIdx[h.name]; ok {
		return l.ID
	}
	return ""
}

func (h *layerHandle) Kind() string { return KindLayer }

func (h *layerHandle) SetProperty(name string, value any) error {
	d := h.d
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return surface.ErrClosed
	}
	l := d.layerIdx[h.name]
	switch name {
	case "Color":
		c, err := toColor(value)
		if err != nil {
			return err
		}
		if c == surface.ColorByLayer || c == surface.ColorByBlock {
			return fmt.Errorf("layer color %s: %w", c, surface.ErrInvalidValue)
		}
		l.Color = c
	case "Linetype":
		s, err := toString(value)
		if err != nil {
			return err
		}
		s = strings.ToUpper(s)
		if _, ok := d.linetypes[s]; !ok {
			return fmt.Errorf("linetype %q not loaded: %w", s, surface.ErrInvalidValue)
		}
		l.Linetype = s
	default:
		return fmt.Errorf("%s.%s: %w", KindLayer, name, surface.ErrUnsupportedProperty)
	}
	return nil
}

type entityHandle struct {
	d *Document
	e *Entity
}

func (h *entityHandle) ID() string   { return h.e.ID }
func (h *entityHandle) Kind() string { return h.e.Kind }

func (h *entityHandle) SetProperty(name string, value any) error {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	if h.d.closed {
		return surface.ErrClosed
	}
	set, ok := lookupSetter(h.e.Kind, name)
	if !ok {
		return fmt.Errorf("%s.%s: %w", h.e.Kind, name, surface.ErrUnsupportedProperty)
	}
	return set(h.d, h.e, value)
}

type dimensionHandle struct {
	entityHandle
}

func (h *dimensionHandle) ResolvedTextPosition() geom.Point3D {
	h.d.mu.Lock()
	defer h.d.mu.Unlock()
	return h.e.TextPosition
}
