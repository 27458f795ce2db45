package params

import (
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/discdraw/pkg/errors"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// FieldKind is the value type of a scalar parameter.
type FieldKind int

const (
	FieldFloat FieldKind = iota
	FieldBool
	FieldColor
	FieldString
)

func (k FieldKind) String() string {
	switch k {
	case FieldFloat:
		return "float"
	case FieldBool:
		return "bool"
	case FieldColor:
		return "color"
	case FieldString:
		return "string"
	}
	return "unknown"
}

// Field describes one scalar parameter addressable by its TOML key
// ("circle_diameter", "colors.geometry").
type Field struct {
	Key   string
	Kind  FieldKind
	Usage string
	ptr   func(*Set) any
}

// FlagName returns the command-line flag spelling of the key.
func (f Field) FlagName() string {
	return strings.NewReplacer("_", "-", ".", "-").Replace(f.Key)
}

// Get returns the field's current value in s.
func (f Field) Get(s *Set) any {
	switch p := f.ptr(s).(type) {
	case *float64:
		return *p
	case *bool:
		return *p
	case *surface.Color:
		return *p
	case *string:
		return *p
	}
	return nil
}

var fields = []Field{
	{"circle_diameter", FieldFloat, "disc diameter", func(s *Set) any { return &s.CircleDiameter }},
	{"label_thickness", FieldFloat, "nominal disc thickness", func(s *Set) any { return &s.LabelThickness }},
	{"bar_height", FieldFloat, "drawn height of the side profile", func(s *Set) any { return &s.BarHeight }},
	{"gap", FieldFloat, "distance between circle and profile", func(s *Set) any { return &s.Gap }},
	{"dim_drop", FieldFloat, "distance between profile and diameter dimension", func(s *Set) any { return &s.DimDrop }},
	{"text_height", FieldFloat, "dimension text height", func(s *Set) any { return &s.TextHeight }},
	{"tolerance_scale", FieldFloat, "tolerance text height relative to text height", func(s *Set) any { return &s.ToleranceScale }},
	{"tolerance_width", FieldFloat, "wrap width of tolerance text", func(s *Set) any { return &s.ToleranceWidth }},
	{"note_height", FieldFloat, "note text height", func(s *Set) any { return &s.NoteHeight }},
	{"note_width", FieldFloat, "wrap width of the note", func(s *Set) any { return &s.NoteWidth }},
	{"arrow_size", FieldFloat, "dimension arrowhead size", func(s *Set) any { return &s.ArrowSize }},
	{"diameter_nudge", FieldFloat, "horizontal shift of the diameter tolerance, in text heights", func(s *Set) any { return &s.DiameterNudge }},
	{"thickness_nudge", FieldFloat, "horizontal shift of the thickness tolerance, in text heights", func(s *Set) any { return &s.ThicknessNudge }},
	{"label_thickness_override", FieldBool, "print label_thickness as the thickness dimension text", func(s *Set) any { return &s.LabelThicknessOverride }},
	{"colors.geometry", FieldColor, "ACI colour of the geometry layer", func(s *Set) any { return &s.Colors.Geometry }},
	{"colors.dimension", FieldColor, "ACI colour of the dimension layer", func(s *Set) any { return &s.Colors.Dimension }},
	{"colors.centerline", FieldColor, "ACI colour of the centerline layer", func(s *Set) any { return &s.Colors.Centerline }},
	{"tolerance.diameter_upper", FieldString, "upper diameter tolerance", func(s *Set) any { return &s.Tolerance.DiameterUpper }},
	{"tolerance.diameter_lower", FieldString, "lower diameter tolerance", func(s *Set) any { return &s.Tolerance.DiameterLower }},
	{"tolerance.thickness", FieldString, "thickness tolerance", func(s *Set) any { return &s.Tolerance.Thickness }},
}

// Fields returns every scalar parameter in declaration order.
func Fields() []Field {
	return append([]Field(nil), fields...)
}

// LookupField finds a field by TOML key or flag name.
func LookupField(name string) (Field, bool) {
	for _, f := range fields {
		if f.Key == name || f.FlagName() == name {
			return f, true
		}
	}
	return Field{}, false
}

// SetField parses value and assigns it to the named field.
func (s *Set) SetField(name, value string) error {
	f, ok := LookupField(name)
	if !ok {
		return errors.New(errors.ErrCodeInvalidParams, "unknown parameter %q", name)
	}
	switch p := f.ptr(s).(type) {
	case *float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidParams, err, "%s", f.Key)
		}
		*p = v
	case *bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidParams, err, "%s", f.Key)
		}
		*p = v
	case *surface.Color:
		v, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidParams, err, "%s", f.Key)
		}
		*p = surface.Color(v)
	case *string:
		*p = value
	}
	return nil
}

// Apply sets every field in values, in key order so that errors are
// reported deterministically.
func (s *Set) Apply(values map[string]string) error {
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := s.SetField(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}
