package sink

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/matzehuels/discdraw/pkg/document"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margin        float64
	linetypeScale float64
	strokeWidth   float64
	background    string
	pxPerUnit     float64
}

// WithMargin sets the blank border around the drawing, in drawing units.
func WithMargin(m float64) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithLinetypeScale scales line pattern dash lengths.
func WithLinetypeScale(s float64) SVGOption { return func(r *svgRenderer) { r.linetypeScale = s } }

// WithStrokeWidth sets the stroke width in drawing units.
func WithStrokeWidth(w float64) SVGOption { return func(r *svgRenderer) { r.strokeWidth = w } }

// WithBackground fills the canvas with a CSS colour. Empty leaves it transparent.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// WithPixelsPerUnit sets the width and height attributes of the root element.
func WithPixelsPerUnit(px float64) SVGOption { return func(r *svgRenderer) { r.pxPerUnit = px } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{margin: 10, linetypeScale: 0.5, strokeWidth: 0.35, background: "white", pxPerUnit: 4}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderSVG renders the snapshot as SVG. Drawing Y grows upwards, so every
// coordinate is flipped. Each layer becomes a group.
func RenderSVG(s *document.Snapshot, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	sc := buildScene(s, sceneOptions{linetypeScale: r.linetypeScale, margin: r.margin})
	b := sc.Bounds

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(b.MinX), num(-b.MaxY), num(b.Width()), num(b.Height()),
		b.Width()*r.pxPerUnit, b.Height()*r.pxPerUnit)
	fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(s.Name))
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(b.MinX), num(-b.MaxY), num(b.Width()), num(b.Height()), r.background)
	}

	byLayer := map[string][]sceneEntity{}
	for _, e := range sc.Entities {
		byLayer[e.Layer] = append(byLayer[e.Layer], e)
	}
	for _, l := range sc.Layers {
		ents := byLayer[l.Name]
		if len(ents) == 0 {
			continue
		}
		fmt.Fprintf(&buf, `  <g id="layer-%s" fill="none" stroke-width="%s" stroke-linecap="round">`+"\n",
			html.EscapeString(l.Name), num(r.strokeWidth))
		for _, e := range ents {
			renderSVGEntity(&buf, e)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderSVGEntity(buf *bytes.Buffer, e sceneEntity) {
	fmt.Fprintf(buf, `    <g id="%s" class="%s">`+"\n", strings.ToLower(e.Kind)+"-"+e.ID, strings.ToLower(e.Kind))
	for _, c := range e.Circles {
		fmt.Fprintf(buf, `      <circle cx="%s" cy="%s" r="%s" stroke="%s"%s/>`+"\n",
			num(c.C.X), num(-c.C.Y), num(math.Abs(c.R)), hex(c.Color), dashAttr(c.Dashes))
	}
	for _, l := range e.Lines {
		fmt.Fprintf(buf, `      <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"%s/>`+"\n",
			num(l.A.X), num(-l.A.Y), num(l.B.X), num(-l.B.Y), hex(l.Color), dashAttr(l.Dashes))
	}
	for _, a := range e.Arrows {
		fmt.Fprintf(buf, `      <polygon points="%s,%s %s,%s %s,%s" fill="%s" stroke="none"/>`+"\n",
			num(a.Tip.X), num(-a.Tip.Y), num(a.Left.X), num(-a.Left.Y), num(a.Right.X), num(-a.Right.Y), hex(a.Color))
	}
	for _, t := range e.Texts {
		renderSVGText(buf, t)
	}
	buf.WriteString("    </g>\n")
}

func renderSVGText(buf *bytes.Buffer, t sceneText) {
	anchor := "start"
	switch t.Align {
	case alignCenter:
		anchor = "middle"
	case alignRight:
		anchor = "end"
	}
	transform := fmt.Sprintf("translate(%s %s)", num(t.Origin.X), num(-t.Origin.Y))
	if t.Rotation != 0 {
		transform += fmt.Sprintf(" rotate(%s)", num(-t.Rotation*180/math.Pi))
	}
	fmt.Fprintf(buf, `      <text x="%s" y="%s" transform="%s" font-family="sans-serif" font-size="%s" text-anchor="%s" fill="%s" stroke="none">%s</text>`+"\n",
		num(t.Offset.X), num(-t.Offset.Y), transform, num(t.Height/capHeight), anchor, hex(t.Color), html.EscapeString(t.Text))
}

func dashAttr(d []float64) string {
	if len(d) == 0 {
		return ""
	}
	parts := make([]string, len(d))
	for i, v := range d {
		parts[i] = num(v)
	}
	return fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, " "))
}

func hex(c surface.Color) string { return surface.PaperRGB(c).Hex() }

// num formats a coordinate with at most four decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

