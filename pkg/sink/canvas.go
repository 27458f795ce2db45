package sink

import (
	"image/color"
	"math"
	"sync"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/discdraw/pkg/document"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// mmToPt converts drawing millimetres to typographic points.
const mmToPt = 72 / 25.4

var (
	fontOnce   sync.Once
	fontFamily *canvas.FontFamily
	fontErr    error
)

func loadFontFamily() (*canvas.FontFamily, error) {
	fontOnce.Do(func() {
		family := canvas.NewFontFamily("discdraw")
		if err := family.LoadFont(goregular.TTF, 0, canvas.FontRegular); err != nil {
			fontErr = err
			return
		}
		fontFamily = family
	})
	return fontFamily, fontErr
}

type canvasOptions struct {
	margin        float64
	linetypeScale float64
	strokeWidth   float64
	background    color.Color
}

// drawCanvas paints the snapshot onto a new canvas sized to its extent in
// millimetres. Canvas Y grows upwards like the drawing, so coordinates only
// need translating.
func drawCanvas(s *document.Snapshot, o canvasOptions) (*canvas.Canvas, error) {
	family, err := loadFontFamily()
	if err != nil {
		return nil, err
	}
	sc := buildScene(s, sceneOptions{linetypeScale: o.linetypeScale, margin: o.margin})
	b := sc.Bounds
	ox, oy := -b.MinX, -b.MinY

	c := canvas.New(b.Width(), b.Height())
	ctx := canvas.NewContext(c)

	if o.background != nil {
		ctx.SetFillColor(o.background)
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(0, 0, canvas.Rectangle(b.Width(), b.Height()))
	}

	ctx.SetStrokeWidth(o.strokeWidth)
	for _, e := range sc.Entities {
		for _, ci := range e.Circles {
			ctx.SetFillColor(canvas.Transparent)
			ctx.SetStrokeColor(rgba(ci.Color))
			ctx.SetDashes(0, ci.Dashes...)
			ctx.DrawPath(ci.C.X+ox, ci.C.Y+oy, canvas.Circle(math.Abs(ci.R)))
		}
		for _, l := range e.Lines {
			ctx.SetFillColor(canvas.Transparent)
			ctx.SetStrokeColor(rgba(l.Color))
			ctx.SetDashes(0, l.Dashes...)
			p := &canvas.Path{}
			p.MoveTo(0, 0)
			p.LineTo(l.B.X-l.A.X, l.B.Y-l.A.Y)
			ctx.DrawPath(l.A.X+ox, l.A.Y+oy, p)
		}
		ctx.SetDashes(0)
		for _, a := range e.Arrows {
			ctx.SetFillColor(rgba(a.Color))
			ctx.SetStrokeColor(canvas.Transparent)
			p := &canvas.Path{}
			p.MoveTo(a.Tip.X+ox, a.Tip.Y+oy)
			p.LineTo(a.Left.X+ox, a.Left.Y+oy)
			p.LineTo(a.Right.X+ox, a.Right.Y+oy)
			p.Close()
			ctx.DrawPath(0, 0, p)
		}
		for _, t := range e.Texts {
			face := family.Face(t.Height/capHeight*mmToPt, rgba(t.Color), canvas.FontRegular, canvas.FontNormal)
			ta := canvas.Left
			switch t.Align {
			case alignCenter:
				ta = canvas.Center
			case alignRight:
				ta = canvas.Right
			}
			line := canvas.NewTextLine(face, t.Text, ta)
			x, y := t.Origin.X+ox, t.Origin.Y+oy
			ctx.Push()
			ctx.RotateAbout(t.Rotation*180/math.Pi, x, y)
			ctx.DrawText(x+t.Offset.X, y+t.Offset.Y, line)
			ctx.Pop()
		}
	}
	return c, nil
}

func rgba(c surface.Color) color.RGBA {
	rgb := surface.PaperRGB(c)
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}
