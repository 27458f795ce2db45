package layout

import (
	"github.com/matzehuels/discdraw/pkg/errors"
	"github.com/matzehuels/discdraw/pkg/params"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// Layer names.
const (
	LayerGeometry   = "GEOM"
	LayerCenterline = "CENTER"
	LayerDimension  = "DIM"
)

// Line pattern names and the library they are loaded from.
const (
	PatternContinuous = "CONTINUOUS"
	PatternCenter     = "CENTER2"
	PatternLibrary    = "acad.lin"
)

// LayerSpec is a named layer with its visual style.
type LayerSpec struct {
	Name    string
	Color   surface.Color
	Pattern string
}

// PlanLayers returns the three layers of the drawing. They do not interact
// and may be ensured in any order.
func PlanLayers(p params.Set) []LayerSpec {
	return []LayerSpec{
		{Name: LayerGeometry, Color: p.Colors.Geometry, Pattern: PatternContinuous},
		{Name: LayerCenterline, Color: p.Colors.Centerline, Pattern: PatternCenter},
		{Name: LayerDimension, Color: p.Colors.Dimension, Pattern: PatternContinuous},
	}
}

// EnsureLayer creates spec.Name if the document lacks it and (re)applies its
// colour and line pattern. Calling it again with the same spec changes
// nothing.
//
// A pattern that is not loaded is loaded from [PatternLibrary]. If that fails
// the layer keeps the pattern it already has and a warning is recorded.
func EnsureLayer(sess *Session, spec LayerSpec) (surface.Handle, error) {
	h, ok := sess.Surface.Layer(spec.Name)
	if !ok {
		var err error
		h, err = sess.Surface.AddLayer(spec.Name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeHost, err, "add layer %s", spec.Name)
		}
		sess.Logger.Debug("layer added", "layer", spec.Name)
	}

	sess.style(StageLayers, spec.Name, h, spec.Color, "Color", "ColorIndex")

	if spec.Pattern == "" {
		return h, nil
	}
	if !sess.Surface.HasLinePattern(spec.Pattern) {
		if err := sess.Surface.LoadLinePattern(spec.Pattern, PatternLibrary); err != nil {
			sess.warn(Warning{
				Stage:   StageLayers,
				Target:  spec.Name,
				Message: "line pattern " + spec.Pattern + " unavailable, keeping current pattern",
				Err:     err,
			})
			return h, nil
		}
		sess.Logger.Debug("line pattern loaded", "pattern", spec.Pattern, "library", PatternLibrary)
	}
	sess.style(StageLayers, spec.Name, h, spec.Pattern, "Linetype")
	return h, nil
}
