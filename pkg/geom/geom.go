// Package geom holds the planar coordinate types shared by the layout engine,
// the drawing surface and the output sinks. All values are drawing units
// (millimetres for the disc drawing). The drawing is planar, so Z is always 0
// for points produced by the engine.
package geom

import "math"

// Point2D is a coordinate in the drawing plane.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point3D is a coordinate as handed to a CAD host.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pt returns the planar point (x, y, 0).
func Pt(x, y float64) Point3D { return Point3D{X: x, Y: y} }

// XY drops the Z component.
func (p Point3D) XY() Point2D { return Point2D{X: p.X, Y: p.Y} }

// Add returns p translated by (dx, dy).
func (p Point3D) Add(dx, dy float64) Point3D {
	return Point3D{X: p.X + dx, Y: p.Y + dy, Z: p.Z}
}

// Sub returns the planar vector p - q.
func (p Point3D) Sub(q Point3D) Point2D {
	return Point2D{X: p.X - q.X, Y: p.Y - q.Y}
}

// Lift returns p as a Point3D with Z = 0.
func (p Point2D) Lift() Point3D { return Point3D{X: p.X, Y: p.Y} }

// Len returns the Euclidean length of p interpreted as a vector.
func (p Point2D) Len() float64 { return math.Hypot(p.X, p.Y) }

// Plus returns p+q.
func (p Point2D) Plus(q Point2D) Point2D { return Point2D{X: p.X + q.X, Y: p.Y + q.Y} }

// Scale returns p scaled by f.
func (p Point2D) Scale(f float64) Point2D { return Point2D{X: p.X * f, Y: p.Y * f} }

// Unit returns p scaled to length 1, or the zero vector.
func (p Point2D) Unit() Point2D {
	l := p.Len()
	if l == 0 {
		return Point2D{}
	}
	return p.Scale(1 / l)
}

// Perp returns p rotated a quarter turn counter-clockwise.
func (p Point2D) Perp() Point2D { return Point2D{X: -p.Y, Y: p.X} }

// Rotate returns p rotated counter-clockwise by theta radians.
func (p Point2D) Rotate(theta float64) Point2D {
	s, c := math.Sincos(theta)
	return Point2D{X: p.X*c - p.Y*s, Y: p.X*s + p.Y*c}
}

// Dot returns the dot product of p and q.
func (p Point2D) Dot(q Point2D) float64 { return p.X*q.X + p.Y*q.Y }

// Dist returns the planar distance between a and b.
func Dist(a, b Point3D) float64 { return a.Sub(b).Len() }

// Mid returns the midpoint of a and b.
func Mid(a, b Point3D) Point3D {
	return Point3D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2, Z: (a.Z + b.Z) / 2}
}

// Segment is a straight line between two points.
type Segment struct {
	A, B Point3D
}

// Len returns the segment length.
func (s Segment) Len() float64 { return Dist(s.A, s.B) }

// Circle is a circle in the drawing plane.
type Circle struct {
	Center Point3D
	Radius float64
}

// Project returns the orthogonal projection of p onto the infinite line through
// origin with direction dir. A zero direction leaves the line undefined; origin
// is returned in that case.
func Project(p, origin Point3D, dir Point2D) Point3D {
	l2 := dir.Dot(dir)
	if l2 == 0 {
		return origin
	}
	t := p.Sub(origin).Dot(dir) / l2
	return origin.Add(dir.X*t, dir.Y*t)
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
	set                    bool
}

// Extend grows b to include p.
func (b *Bounds) Extend(p Point3D) {
	if !b.set {
		b.MinX, b.MaxX, b.MinY, b.MaxY = p.X, p.X, p.Y, p.Y
		b.set = true
		return
	}
	b.MinX = math.Min(b.MinX, p.X)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

// Empty reports whether nothing has been added to b.
func (b Bounds) Empty() bool { return !b.set }

// Width returns the horizontal span of b.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical span of b.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Pad returns b grown by m on every side.
func (b Bounds) Pad(m float64) Bounds {
	if !b.set {
		return b
	}
	return Bounds{MinX: b.MinX - m, MinY: b.MinY - m, MaxX: b.MaxX + m, MaxY: b.MaxY + m, set: true}
}
