package layout

import (
	"github.com/matzehuels/discdraw/pkg/geom"
	"github.com/matzehuels/discdraw/pkg/params"
)

// CenterlineExtension is how far centerlines reach, as a multiple of the
// radius, on each side of the origin.
const CenterlineExtension = 1.1

// Kind is the type of a primitive.
type Kind int

const (
	KindCircle Kind = iota
	KindLine
)

func (k Kind) String() string {
	if k == KindCircle {
		return "circle"
	}
	return "line"
}

// Primitive is a circle or line segment tagged with its layer.
type Primitive struct {
	Name    string
	Kind    Kind
	Circle  geom.Circle
	Segment geom.Segment
	Layer   string
}

// Profile is the extent of the side-profile bar.
type Profile struct {
	Left, Right, Top, Bottom float64
}

// Width returns Right-Left.
func (p Profile) Width() float64 { return p.Right - p.Left }

// Height returns Top-Bottom.
func (p Profile) Height() float64 { return p.Top - p.Bottom }

// Corners returns top-left, top-right, bottom-left, bottom-right.
func (p Profile) Corners() [4]geom.Point3D {
	return [4]geom.Point3D{
		geom.Pt(p.Left, p.Top),
		geom.Pt(p.Right, p.Top),
		geom.Pt(p.Left, p.Bottom),
		geom.Pt(p.Right, p.Bottom),
	}
}

// Primitives is the geometry of the drawing.
type Primitives struct {
	Radius  float64
	Circle  Primitive
	Profile Profile

	// Edges are top, bottom, left, right: four independent segments rather
	// than a closed outline.
	Edges [4]Primitive

	// Centerlines are horizontal then vertical.
	Centerlines [2]Primitive
}

// Geometry returns the circle and the profile edges, in creation order.
func (p Primitives) Geometry() []Primitive {
	return append([]Primitive{p.Circle}, p.Edges[:]...)
}

// All returns every primitive in creation order.
func (p Primitives) All() []Primitive {
	return append(p.Geometry(), p.Centerlines[:]...)
}

// PlanPrimitives computes the circle, profile bar and centerlines. A
// non-positive diameter is not corrected: the coordinates collapse or invert
// exactly as the arithmetic dictates.
func PlanPrimitives(p params.Set) Primitives {
	r := p.Radius()
	top := -(r + p.Gap)
	prof := Profile{Left: -r, Right: r, Top: top, Bottom: top - p.BarHeight}
	c := prof.Corners()
	tl, tr, bl, br := c[0], c[1], c[2], c[3]

	line := func(name string, a, b geom.Point3D, layer string) Primitive {
		return Primitive{Name: name, Kind: KindLine, Segment: geom.Segment{A: a, B: b}, Layer: layer}
	}
	ext := CenterlineExtension * r

	return Primitives{
		Radius: r,
		Circle: Primitive{
			Name:   "circle",
			Kind:   KindCircle,
			Circle: geom.Circle{Center: geom.Pt(0, 0), Radius: r},
			Layer:  LayerGeometry,
		},
		Profile: prof,
		Edges: [4]Primitive{
			line("profile top", tl, tr, LayerGeometry),
			line("profile bottom", bl, br, LayerGeometry),
			line("profile left", tl, bl, LayerGeometry),
			line("profile right", tr, br, LayerGeometry),
		},
		Centerlines: [2]Primitive{
			line("centerline horizontal", geom.Pt(-ext, 0), geom.Pt(ext, 0), LayerCenterline),
			line("centerline vertical", geom.Pt(0, ext), geom.Pt(0, -ext), LayerCenterline),
		},
	}
}
