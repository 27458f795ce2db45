// Package params defines the Parameter Set: the immutable physical constants
// from which every coordinate of the disc drawing is derived.
//
// A Set is loaded once at the start of a run (defaults, optionally overlaid by
// a TOML, YAML or JSON file and command-line flags) and passed by value
// afterwards. The layout engine never mutates it.
//
//	p := params.Default()
//	p, err := params.LoadFile("disc.toml")
package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/matzehuels/discdraw/pkg/errors"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// Colors assigns an ACI colour to each drawing purpose.
type Colors struct {
	Geometry   surface.Color `toml:"geometry" json:"geometry"`
	Dimension  surface.Color `toml:"dimension" json:"dimension"`
	Centerline surface.Color `toml:"centerline" json:"centerline"`
}

// Tolerance holds the literal tolerance strings printed next to the dimensions.
type Tolerance struct {
	DiameterUpper string `toml:"diameter_upper" json:"diameter_upper"`
	DiameterLower string `toml:"diameter_lower" json:"diameter_lower"`
	Thickness     string `toml:"thickness" json:"thickness"`
}

// Set is the Parameter Set. Lengths are drawing units.
type Set struct {
	CircleDiameter float64 `toml:"circle_diameter" json:"circle_diameter"`
	LabelThickness float64 `toml:"label_thickness" json:"label_thickness"`
	BarHeight      float64 `toml:"bar_height" json:"bar_height"`
	Gap            float64 `toml:"gap" json:"gap"`
	DimDrop        float64 `toml:"dim_drop" json:"dim_drop"`
	TextHeight     float64 `toml:"text_height" json:"text_height"`
	ToleranceScale float64 `toml:"tolerance_scale" json:"tolerance_scale"`
	ToleranceWidth float64 `toml:"tolerance_width" json:"tolerance_width"`
	NoteHeight     float64 `toml:"note_height" json:"note_height"`
	NoteWidth      float64 `toml:"note_width" json:"note_width"`
	ArrowSize      float64 `toml:"arrow_size" json:"arrow_size"`

	// Horizontal nudges of the tolerance callouts, in units of TextHeight.
	// Negative moves left.
	DiameterNudge  float64 `toml:"diameter_nudge" json:"diameter_nudge"`
	ThicknessNudge float64 `toml:"thickness_nudge" json:"thickness_nudge"`

	// LabelThicknessOverride prints LabelThickness as the thickness dimension
	// text instead of the measured bar height. The bar is drawn exaggerated.
	LabelThicknessOverride bool `toml:"label_thickness_override" json:"label_thickness_override"`

	Colors    Colors    `toml:"colors" json:"colors"`
	Tolerance Tolerance `toml:"tolerance" json:"tolerance"`
	NoteLines []string  `toml:"note" json:"note"`
}

// Default returns the Parameter Set of the standard 76 mm disc.
func Default() Set {
	return Set{
		CircleDiameter: 76.0,
		LabelThickness: 0.15,
		BarHeight:      3.0,
		Gap:            6.0,
		DimDrop:        2.0,
		TextHeight:     2.5,
		ToleranceScale: 0.9,
		ToleranceWidth: 30,
		NoteHeight:     2.5,
		NoteWidth:      90,
		ArrowSize:      3.0,
		DiameterNudge:  -4,
		ThicknessNudge: -7.5,
		Colors: Colors{
			Geometry:   7,
			Dimension:  6,
			Centerline: 2,
		},
		Tolerance: Tolerance{
			DiameterUpper: "+0.0",
			DiameterLower: "-0.2",
			Thickness:     "±0.05",
		},
		NoteLines: []string{
			"VISUAL CRITERIA :",
			"BURRS AND EDGE CUTS ARE NOT ALLOWED.",
			"BLACK SPOTS ARE NOT ALLOWED",
			"DI ELECTRIC STRENGTH ________",
		},
	}
}

// Radius returns half the circle diameter.
func (s Set) Radius() float64 { return s.CircleDiameter / 2 }

// Clone returns a deep copy of s.
func (s Set) Clone() Set {
	s.NoteLines = append([]string(nil), s.NoteLines...)
	return s
}

// Decode overlays the TOML document read from r onto the defaults.
// Keys absent from the document keep their default value; unknown keys are
// rejected so that typos do not silently fall back to defaults.
func Decode(r io.Reader) (Set, error) {
	s := Default()
	md, err := toml.NewDecoder(r).Decode(&s)
	if err != nil {
		return Set{}, errors.Wrap(errors.ErrCodeInvalidParams, err, "decode parameters")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Set{}, errors.New(errors.ErrCodeInvalidParams, "unknown parameter keys: %s", strings.Join(keys, ", "))
	}
	return s, nil
}

// LoadFile reads a parameter file. The extension selects the syntax: .yaml
// and .yml are YAML, .json is JSON, anything else is TOML. An empty path
// returns the defaults.
func LoadFile(path string) (Set, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Set{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "parameter file %s", path)
	}
	if err != nil {
		return Set{}, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(f)
	case ".json":
		return DecodeJSON(f)
	}
	return Decode(f)
}

// DecodeYAML overlays a YAML document onto the defaults. Keys are the same as
// in TOML files.
func DecodeYAML(r io.Reader) (Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Set{}, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Default(), nil
	}
	js, err := yaml.YAMLToJSON(data)
	if err != nil {
		return Set{}, errors.Wrap(errors.ErrCodeInvalidParams, err, "decode parameters")
	}
	return DecodeJSON(bytes.NewReader(js))
}

// DecodeJSON overlays a JSON document onto the defaults. It is used by the
// HTTP server, whose clients post parameters as JSON.
func DecodeJSON(r io.Reader) (Set, error) {
	s := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return Set{}, errors.Wrap(errors.ErrCodeInvalidParams, err, "decode parameters")
	}
	return s, nil
}

// EncodeYAML writes s as YAML.
func (s Set) EncodeYAML(w io.Writer) error {
	js, err := json.Marshal(s)
	if err != nil {
		return err
	}
	out, err := yaml.JSONToYAML(js)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// Encode writes s as TOML.
func (s Set) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(s)
}

// Fingerprint returns a canonical serialisation of s for cache keys.
func (s Set) Fingerprint() []byte {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(s)
	return buf.Bytes()
}

// Validate rejects physically meaningless values. The layout engine itself
// never calls it: a degenerate Set is drawn as-is unless the caller opts in.
func (s Set) Validate() error {
	var problems []string
	positive := func(name string, v float64) {
		if !(v > 0) {
			problems = append(problems, fmt.Sprintf("%s must be positive, got %g", name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if !(v >= 0) {
			problems = append(problems, fmt.Sprintf("%s must not be negative, got %g", name, v))
		}
	}

	positive("circle_diameter", s.CircleDiameter)
	positive("bar_height", s.BarHeight)
	positive("text_height", s.TextHeight)
	positive("tolerance_scale", s.ToleranceScale)
	positive("note_height", s.NoteHeight)
	positive("note_width", s.NoteWidth)
	nonNegative("label_thickness", s.LabelThickness)
	nonNegative("gap", s.Gap)
	nonNegative("dim_drop", s.DimDrop)
	nonNegative("arrow_size", s.ArrowSize)
	nonNegative("tolerance_width", s.ToleranceWidth)

	colors := []struct {
		name string
		c    surface.Color
	}{
		{"colors.geometry", s.Colors.Geometry},
		{"colors.dimension", s.Colors.Dimension},
		{"colors.centerline", s.Colors.Centerline},
	}
	for _, e := range colors {
		if !e.c.Valid() {
			problems = append(problems, fmt.Sprintf("%s must be an ACI index 0-256, got %d", e.name, int(e.c)))
		}
	}

	if len(problems) > 0 {
		return errors.New(errors.ErrCodeInvalidParams, "%s", strings.Join(problems, "; "))
	}
	return nil
}
