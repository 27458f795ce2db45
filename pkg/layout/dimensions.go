package layout

import (
	"math"
	"strconv"

	"github.com/matzehuels/discdraw/pkg/geom"
	"github.com/matzehuels/discdraw/pkg/params"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// LeaderOffset is the distance between a measured edge and the point the
// dimension line is drawn through.
const LeaderOffset = 10

// Vertical is the rotation of text that reads bottom to top.
const Vertical = math.Pi / 2

// DimensionSpec is an aligned dimension and its style.
type DimensionSpec struct {
	Name   string
	P1, P2 geom.Point3D
	Leader geom.Point3D
	Layer  string

	Precision  int
	Rotation   float64
	Rotated    bool
	TextHeight float64
	ArrowSize  float64
	TextColor  surface.Color

	// Override replaces the measured value text when non-empty.
	Override string
}

// Span returns the measured vector P2-P1.
func (d DimensionSpec) Span() geom.Point2D { return d.P2.Sub(d.P1) }

// PlanDimensions computes the diameter dimension under the profile bar and
// the thickness dimension to its right.
func PlanDimensions(prim Primitives, p params.Set) (dia, thk DimensionSpec) {
	prof := prim.Profile
	drop := prof.Bottom - p.DimDrop

	dia = DimensionSpec{
		Name:       "diameter",
		P1:         geom.Pt(prof.Left, drop),
		P2:         geom.Pt(prof.Right, drop),
		Leader:     geom.Pt(0, drop-LeaderOffset),
		Layer:      LayerDimension,
		Precision:  0,
		TextHeight: p.TextHeight,
		ArrowSize:  p.ArrowSize,
		TextColor:  p.Colors.Geometry,
	}
	thk = DimensionSpec{
		Name:       "thickness",
		P1:         geom.Pt(prof.Right, prof.Top),
		P2:         geom.Pt(prof.Right, prof.Bottom),
		Leader:     geom.Pt(prof.Right+LeaderOffset, (prof.Top+prof.Bottom)/2),
		Layer:      LayerDimension,
		Precision:  2,
		Rotation:   Vertical,
		Rotated:    true,
		TextHeight: p.TextHeight,
		ArrowSize:  p.ArrowSize,
		TextColor:  p.Colors.Geometry,
	}
	if p.LabelThicknessOverride {
		thk.Override = strconv.FormatFloat(p.LabelThickness, 'f', thk.Precision, 64)
	}
	return dia, thk
}
