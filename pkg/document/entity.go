package document

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/discdraw/pkg/geom"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// Entity kinds.
const (
	KindLayer     = "LAYER"
	KindCircle    = "CIRCLE"
	KindLine      = "LINE"
	KindDimension = "DIMENSION"
	KindText      = "MTEXT"
)

// Layer is a named layer of the document.
type Layer struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Color    surface.Color `json:"color"`
	Linetype string        `json:"linetype"`
}

// Entity is a drawable object in model space. Only the fields of its kind are
// meaningful.
type Entity struct {
	ID    string        `json:"id"`
	Kind  string        `json:"kind"`
	Layer string        `json:"layer"`
	Color surface.Color `json:"color"`

	// CIRCLE
	Center geom.Point3D `json:"center,omitzero"`
	Radius float64      `json:"radius,omitempty"`

	// LINE
	Start geom.Point3D `json:"start,omitzero"`
	End   geom.Point3D `json:"end,omitzero"`

	// DIMENSION
	P1           geom.Point3D  `json:"p1,omitzero"`
	P2           geom.Point3D  `json:"p2,omitzero"`
	Leader       geom.Point3D  `json:"leader,omitzero"`
	TextPosition geom.Point3D  `json:"text_position,omitzero"`
	TextHeight   float64       `json:"text_height,omitempty"`
	ArrowSize    float64       `json:"arrow_size,omitempty"`
	TextColor    surface.Color `json:"text_color,omitempty"`
	Precision    int           `json:"precision,omitempty"`
	TextRotation float64       `json:"text_rotation,omitempty"`
	TextOverride string        `json:"text_override,omitempty"`

	// MTEXT
	Anchor     geom.Point3D       `json:"anchor,omitzero"`
	Width      float64            `json:"width,omitempty"`
	Content    string             `json:"content,omitempty"`
	Height     float64            `json:"height,omitempty"`
	Rotation   float64            `json:"rotation,omitempty"`
	Attachment surface.Attachment `json:"attachment,omitempty"`
}

// Measurement returns the measured length of a dimension.
func (e *Entity) Measurement() float64 { return geom.Dist(e.P1, e.P2) }

// DimensionText returns the text a dimension displays.
func (e *Entity) DimensionText() string {
	if e.TextOverride != "" {
		return e.TextOverride
	}
	return strconv.FormatFloat(e.Measurement(), 'f', e.Precision, 64)
}

// DimensionLine returns the endpoints of the dimension line: the measured
// points projected onto the line through the leader point parallel to P1-P2.
func (e *Entity) DimensionLine() (a, b geom.Point3D) {
	dir := e.P2.Sub(e.P1)
	return geom.Project(e.P1, e.Leader, dir), geom.Project(e.P2, e.Leader, dir)
}

// DimensionAngle returns the angle of P1-P2 in radians.
func (e *Entity) DimensionAngle() float64 {
	d := e.P2.Sub(e.P1)
	return math.Atan2(d.Y, d.X)
}

// resolveTextPosition places the dimension text on the dimension line midway
// between the projected measured points.
func resolveTextPosition(p1, p2, leader geom.Point3D) geom.Point3D {
	return geom.Project(geom.Mid(p1, p2), leader, p2.Sub(p1))
}

// setter assigns one property of an entity.
type setter func(d *Document, e *Entity, v any) error

var (
	commonProps = map[string]setter{
		"Layer": func(d *Document, e *Entity, v any) error {
			s, err := toString(v)
			if err != nil {
				return err
			}
			if _, ok := d.layerIdx[s]; !ok {
				return fmt.Errorf("layer %q: %w", s, surface.ErrInvalidValue)
			}
			e.Layer = s
			return nil
		},
		"Color": func(_ *Document, e *Entity, v any) error {
			c, err := toColor(v)
			if err != nil {
				return err
			}
			e.Color = c
			return nil
		},
	}

	dimensionProps = map[string]setter{
		"TextHeight": floatProp(func(e *Entity) *float64 { return &e.TextHeight }),
		"ArrowheadSize": floatProp(func(e *Entity) *float64 { return &e.ArrowSize }),
		"TextRotation": floatProp(func(e *Entity) *float64 { return &e.TextRotation }),
		"TextColor": func(_ *Document, e *Entity, v any) error {
			c, err := toColor(v)
			if err != nil {
				return err
			}
			e.TextColor = c
			return nil
		},
		"PrimaryUnitsPrecision": func(_ *Document, e *Entity, v any) error {
			n, err := toInt(v)
			if err != nil {
				return err
			}
			if n < 0 || n > 8 {
				return fmt.Errorf("precision %d: %w", n, surface.ErrInvalidValue)
			}
			e.Precision = n
			return nil
		},
		"TextOverride": func(_ *Document, e *Entity, v any) error {
			s, err := toString(v)
			if err != nil {
				return err
			}
			e.TextOverride = s
			return nil
		},
	}

	textProps = map[string]setter{
		"Height":   floatProp(func(e *Entity) *float64 { return &e.Height }),
		"Rotation": floatProp(func(e *Entity) *float64 { return &e.Rotation }),
		"Width":    floatProp(func(e *Entity) *float64 { return &e.Width }),
		"AttachmentPoint": func(_ *Document, e *Entity, v any) error {
			n, err := toInt(v)
			if err != nil {
				return err
			}
			a := surface.Attachment(n)
			if !a.Valid() {
				return fmt.Errorf("attachment %d: %w", n, surface.ErrInvalidValue)
			}
			e.Attachment = a
			return nil
		},
	}

	// properties lists what each entity kind exposes beyond commonProps.
	properties = map[string]map[string]setter{
		KindCircle:    {},
		KindLine:      {},
		KindDimension: dimensionProps,
		KindText:      textProps,
	}
)

func lookupSetter(kind, name string) (setter, bool) {
	if s, ok := commonProps[name]; ok {
		return s, true
	}
	s, ok := properties[kind][name]
	return s, ok
}

// Properties returns the property names an entity kind accepts.
func Properties(kind string) []string {
	if kind == KindLayer {
		return []string{"Color", "Linetype"}
	}
	names := []string{"Layer", "Color"}
	for n := range properties[kind] {
		names = append(names, n)
	}
	return names
}

func floatProp(field func(*Entity) *float64) setter {
	return func(_ *Document, e *Entity, v any) error {
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		*field(e) = f
		return nil
	}
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int32:
		return float64(x), nil
	}
	return 0, fmt.Errorf("%T is not a number: %w", v, surface.ErrInvalidValue)
}

func toInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case int32:
		return int(x), nil
	case surface.Attachment:
		return int(x), nil
	case surface.Color:
		return int(x), nil
	case float64:
		if x == math.Trunc(x) {
			return int(x), nil
		}
	}
	return 0, fmt.Errorf("%v (%T) is not an integer: %w", v, v, surface.ErrInvalidValue)
}

func toColor(v any) (surface.Color, error) {
	n, err := toInt(v)
	if err != nil {
		return 0, err
	}
	c := surface.Color(n)
	if !c.Valid() {
		return 0, fmt.Errorf("color %d: %w", n, surface.ErrInvalidValue)
	}
	return c, nil
}

func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case fmt.Stringer:
		return x.String(), nil
	}
	return "", fmt.Errorf("%T is not a string: %w", v, surface.ErrInvalidValue)
}
