package sink

import (
	"math"
	"unicode/utf8"

	"github.com/matzehuels/discdraw/pkg/document"
	"github.com/matzehuels/discdraw/pkg/geom"
	"github.com/matzehuels/discdraw/pkg/mtext"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// Drafting constants, in drawing units.
const (
	extensionOffset  = 0.625 // gap between measured point and extension line
	extensionBeyond  = 1.25  // extension line overshoot past the dimension line
	dimensionTextGap = 0.625 // dimension text baseline above its line
	lineSpacing      = 5.0 / 3.0
	charWidth        = 0.6 // average glyph advance as a fraction of text height
	capHeight        = 0.72
	dotLength        = 0.1
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

type stroke struct {
	Color  surface.Color
	Dashes []float64
}

type sceneLine struct {
	A, B geom.Point2D
	stroke
}

type sceneCircle struct {
	C geom.Point2D
	R float64
	stroke
}

// sceneArrow is a filled triangle.
type sceneArrow struct {
	Tip, Left, Right geom.Point2D
	Color            surface.Color
}

// sceneText is one line of text. Origin is the rotation centre; Offset is the
// baseline point in the unrotated frame relative to Origin.
type sceneText struct {
	Origin   geom.Point2D
	Offset   geom.Point2D
	Text     string
	Height   float64
	Rotation float64
	Align    align
	Color    surface.Color
}

// Baseline returns the aligned baseline point in drawing coordinates.
func (t sceneText) Baseline() geom.Point2D {
	return t.Origin.Plus(t.Offset.Rotate(t.Rotation))
}

// Width estimates the advance of the text.
func (t sceneText) Width() float64 {
	return float64(utf8.RuneCountInString(t.Text)) * charWidth * t.Height
}

func (t sceneText) corners() [4]geom.Point2D {
	w := t.Width()
	x0 := t.Offset.X
	switch t.Align {
	case alignCenter:
		x0 -= w / 2
	case alignRight:
		x0 -= w
	}
	y0 := t.Offset.Y
	var out [4]geom.Point2D
	for i, p := range []geom.Point2D{{X: x0, Y: y0}, {X: x0 + w, Y: y0}, {X: x0, Y: y0 + t.Height}, {X: x0 + w, Y: y0 + t.Height}} {
		out[i] = t.Origin.Plus(p.Rotate(t.Rotation))
	}
	return out
}

// sceneEntity is the renderable form of one document entity.
type sceneEntity struct {
	ID    string
	Kind  string
	Layer string

	Lines   []sceneLine
	Circles []sceneCircle
	Arrows  []sceneArrow
	Texts   []sceneText
}

// scene is a snapshot reduced to strokes, fills and text.
type scene struct {
	Bounds   geom.Bounds
	Layers   []document.Layer
	Entities []sceneEntity
}

type sceneOptions struct {
	linetypeScale float64
	margin        float64
}

func buildScene(s *document.Snapshot, o sceneOptions) scene {
	sc := scene{Layers: s.Layers}
	dashes := map[string][]float64{}
	for _, l := range s.Layers {
		if lt, ok := s.Linetype(l.Linetype); ok {
			dashes[l.Name] = lt.Dashes(o.linetypeScale, dotLength)
		}
	}

	for _, e := range s.Entities {
		st := stroke{Color: s.EffectiveColor(e), Dashes: dashes[e.Layer]}
		se := sceneEntity{ID: e.ID, Kind: e.Kind, Layer: e.Layer}
		switch e.Kind {
		case document.KindCircle:
			se.Circles = append(se.Circles, sceneCircle{C: e.Center.XY(), R: e.Radius, stroke: st})
		case document.KindLine:
			se.Lines = append(se.Lines, sceneLine{A: e.Start.XY(), B: e.End.XY(), stroke: st})
		case document.KindDimension:
			buildDimension(&se, e, st)
		case document.KindText:
			buildText(&se, e, st.Color)
		}
		sc.Entities = append(sc.Entities, se)
	}

	for _, se := range sc.Entities {
		for _, l := range se.Lines {
			sc.Bounds.Extend(l.A.Lift())
			sc.Bounds.Extend(l.B.Lift())
		}
		for _, c := range se.Circles {
			r := math.Abs(c.R)
			sc.Bounds.Extend(c.C.Lift().Add(-r, -r))
			sc.Bounds.Extend(c.C.Lift().Add(r, r))
		}
		for _, a := range se.Arrows {
			sc.Bounds.Extend(a.Tip.Lift())
		}
		for _, t := range se.Texts {
			for _, p := range t.corners() {
				sc.Bounds.Extend(p.Lift())
			}
		}
	}
	if sc.Bounds.Empty() {
		sc.Bounds.Extend(geom.Pt(0, 0))
	}
	sc.Bounds = sc.Bounds.Pad(o.margin)
	return sc
}

func buildDimension(se *sceneEntity, e document.Entity, st stroke) {
	solid := stroke{Color: st.Color}
	a, b := e.DimensionLine()
	for _, pair := range [][2]geom.Point3D{{e.P1, a}, {e.P2, b}} {
		u := pair[1].Sub(pair[0]).Unit()
		if u == (geom.Point2D{}) {
			continue
		}
		from := pair[0].XY().Plus(u.Scale(extensionOffset))
		to := pair[1].XY().Plus(u.Scale(extensionBeyond))
		se.Lines = append(se.Lines, sceneLine{A: from, B: to, stroke: solid})
	}
	se.Lines = append(se.Lines, sceneLine{A: a.XY(), B: b.XY(), stroke: solid})

	d := b.Sub(a).Unit()
	if d != (geom.Point2D{}) && e.ArrowSize > 0 {
		n := d.Perp().Scale(e.ArrowSize / 6)
		for _, end := range []struct {
			tip geom.Point2D
			dir geom.Point2D
		}{{a.XY(), d}, {b.XY(), d.Scale(-1)}} {
			base := end.tip.Plus(end.dir.Scale(e.ArrowSize))
			se.Arrows = append(se.Arrows, sceneArrow{
				Tip:   end.tip,
				Left:  base.Plus(n),
				Right: base.Plus(n.Scale(-1)),
				Color: st.Color,
			})
		}
	}

	textColor := e.TextColor
	if textColor == surface.ColorByBlock || textColor == surface.ColorByLayer {
		textColor = st.Color
	}
	rot := e.TextRotation
	if rot == 0 {
		rot = readable(e.DimensionAngle())
	}
	se.Texts = append(se.Texts, sceneText{
		Origin:   e.TextPosition.XY(),
		Offset:   geom.Point2D{Y: dimensionTextGap},
		Text:     e.DimensionText(),
		Height:   e.TextHeight,
		Rotation: rot,
		Align:    alignCenter,
		Color:    textColor,
	})
}

// readable folds an angle into (-π/2, π/2] so text never reads upside down.
func readable(theta float64) float64 {
	for theta > math.Pi/2 {
		theta -= math.Pi
	}
	for theta <= -math.Pi/2 {
		theta += math.Pi
	}
	return theta
}

func buildText(se *sceneEntity, e document.Entity, color surface.Color) {
	lines, err := mtext.Parse(e.Content, e.Height)
	if err != nil {
		lines = []mtext.Line{{{Text: e.Content, Scale: 1}}}
	}

	heights := make([]float64, len(lines))
	total := 0.0
	for i, l := range lines {
		heights[i] = e.Height * l.MaxScale()
		if i == 0 {
			total += heights[i]
		} else {
			total += lineSpacing * heights[i]
		}
	}

	fx, fy := e.Attachment.Offset()
	al := alignLeft
	switch fx {
	case 0.5:
		al = alignCenter
	case 1:
		al = alignRight
	}

	// top of the block relative to the anchor
	y := fy * total
	for i, l := range lines {
		if i == 0 {
			y -= heights[i]
		} else {
			y -= lineSpacing * heights[i]
		}
		if l.Text() == "" {
			continue
		}
		se.Texts = append(se.Texts, sceneText{
			Origin:   e.Anchor.XY(),
			Offset:   geom.Point2D{Y: y},
			Text:     l.Text(),
			Height:   heights[i],
			Rotation: e.Rotation,
			Align:    al,
			Color:    color,
		})
	}
}
