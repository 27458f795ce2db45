package sink

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/discdraw/pkg/document"
	"github.com/matzehuels/discdraw/pkg/geom"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// DXFOption configures DXF output.
type DXFOption func(*dxfRenderer)

type dxfRenderer struct {
	linetypeScale float64
}

// WithDXFLinetypeScale sets the global linetype scale ($LTSCALE).
func WithDXFLinetypeScale(s float64) DXFOption { return func(r *dxfRenderer) { r.linetypeScale = s } }

// RenderDXF writes the snapshot as an ASCII DXF (AC1009) drawing.
//
// Circles, lines and layers map directly. Aligned dimensions are written as
// DIMENSION entities with their geometry in an anonymous "*D" block, the way
// CAD programs store them. Multi-line text has no R12 equivalent and is
// exploded into one TEXT entity per line.
func RenderDXF(s *document.Snapshot, opts ...DXFOption) ([]byte, error) {
	r := dxfRenderer{linetypeScale: 0.5}
	for _, opt := range opts {
		opt(&r)
	}
	var buf bytes.Buffer
	if err := r.write(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type dxfWriter struct {
	w   *bufio.Writer
	err error
}

func (d *dxfWriter) pair(code int, value string) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%3d\n%s\n", code, value)
}

func (d *dxfWriter) str(code int, s string)      { d.pair(code, s) }
func (d *dxfWriter) integer(code, v int)         { d.pair(code, strconv.Itoa(v)) }
func (d *dxfWriter) decimal(code int, v float64) { d.pair(code, strconv.FormatFloat(v, 'f', -1, 64)) }
func (d *dxfWriter) point(code int, p geom.Point3D) {
	d.decimal(code, p.X)
	d.decimal(code+10, p.Y)
	d.decimal(code+20, p.Z)
}

func (d *dxfWriter) color(c surface.Color) {
	if c != surface.ColorByLayer {
		d.integer(62, int(c))
	}
}

func (r dxfRenderer) write(out io.Writer, s *document.Snapshot) error {
	sc := buildScene(s, sceneOptions{linetypeScale: 1})
	d := &dxfWriter{w: bufio.NewWriter(out)}

	d.str(999, "discdraw "+s.ID)

	d.str(0, "SECTION")
	d.str(2, "HEADER")
	d.str(9, "$ACADVER")
	d.str(1, "AC1009")
	d.str(9, "$INSUNITS")
	d.integer(70, 4)
	d.str(9, "$LTSCALE")
	d.decimal(40, r.linetypeScale)
	d.str(9, "$EXTMIN")
	d.point(10, geom.Pt(sc.Bounds.MinX, sc.Bounds.MinY))
	d.str(9, "$EXTMAX")
	d.point(10, geom.Pt(sc.Bounds.MaxX, sc.Bounds.MaxY))
	d.str(0, "ENDSEC")

	d.str(0, "SECTION")
	d.str(2, "TABLES")
	d.str(0, "TABLE")
	d.str(2, "LTYPE")
	d.integer(70, len(s.Linetypes))
	for _, lt := range s.Linetypes {
		d.str(0, "LTYPE")
		d.str(2, lt.Name)
		d.integer(70, 0)
		d.str(3, lt.Description)
		d.integer(72, 65)
		d.integer(73, len(lt.Pattern))
		d.decimal(40, lt.Length())
		for _, e := range lt.Pattern {
			d.decimal(49, e)
		}
	}
	d.str(0, "ENDTAB")
	d.str(0, "TABLE")
	d.str(2, "LAYER")
	d.integer(70, len(s.Layers))
	for _, l := range s.Layers {
		d.str(0, "LAYER")
		d.str(2, l.Name)
		d.integer(70, 0)
		d.integer(62, int(l.Color))
		d.str(6, l.Linetype)
	}
	d.str(0, "ENDTAB")
	d.str(0, "ENDSEC")

	scenes := map[string]sceneEntity{}
	for _, se := range sc.Entities {
		scenes[se.ID] = se
	}

	// Dimension geometry lives in anonymous blocks.
	d.str(0, "SECTION")
	d.str(2, "BLOCKS")
	blocks := map[string]string{}
	for _, e := range s.Entities {
		if e.Kind != document.KindDimension {
			continue
		}
		name := fmt.Sprintf("*D%d", len(blocks))
		blocks[e.ID] = name
		d.str(0, "BLOCK")
		d.str(8, "0")
		d.str(2, name)
		d.integer(70, 1)
		d.point(10, geom.Pt(0, 0))
		d.str(3, name)
		writeSceneEntity(d, scenes[e.ID], e.Layer)
		d.str(0, "ENDBLK")
		d.str(8, "0")
	}
	d.str(0, "ENDSEC")

	d.str(0, "SECTION")
	d.str(2, "ENTITIES")
	for _, e := range s.Entities {
		switch e.Kind {
		case document.KindCircle:
			d.str(0, "CIRCLE")
			d.str(5, e.ID)
			d.str(8, e.Layer)
			d.color(e.Color)
			d.point(10, e.Center)
			d.decimal(40, e.Radius)
		case document.KindLine:
			d.str(0, "LINE")
			d.str(5, e.ID)
			d.str(8, e.Layer)
			d.color(e.Color)
			d.point(10, e.Start)
			d.point(11, e.End)
		case document.KindDimension:
			_, def := e.DimensionLine()
			d.str(0, "DIMENSION")
			d.str(5, e.ID)
			d.str(8, e.Layer)
			d.color(e.Color)
			d.str(2, blocks[e.ID])
			d.point(10, def)
			d.point(11, e.TextPosition)
			d.integer(70, 1)
			d.str(1, e.TextOverride)
			d.str(3, "STANDARD")
			d.point(13, e.P1)
			d.point(14, e.P2)
			d.decimal(42, e.Measurement())
			if e.TextRotation != 0 {
				d.decimal(53, e.TextRotation*180/math.Pi)
			}
		case document.KindText:
			writeSceneEntity(d, scenes[e.ID], e.Layer)
		}
	}
	d.str(0, "ENDSEC")
	d.str(0, "EOF")

	if d.err != nil {
		return d.err
	}
	return d.w.Flush()
}

// dxfText replaces characters R12 spells as control codes.
var dxfText = strings.NewReplacer("±", "%%p", "°", "%%d", "⌀", "%%c")

// writeSceneEntity emits the rendered form of an entity as LINE, SOLID and
// TEXT entities.
func writeSceneEntity(d *dxfWriter, se sceneEntity, layer string) {
	for _, l := range se.Lines {
		d.str(0, "LINE")
		d.str(8, layer)
		d.color(l.Color)
		d.point(10, l.A.Lift())
		d.point(11, l.B.Lift())
	}
	for _, a := range se.Arrows {
		d.str(0, "SOLID")
		d.str(8, layer)
		d.color(a.Color)
		d.point(10, a.Tip.Lift())
		d.point(11, a.Left.Lift())
		d.point(12, a.Right.Lift())
		d.point(13, a.Right.Lift())
	}
	for _, t := range se.Texts {
		p := t.Baseline().Lift()
		d.str(0, "TEXT")
		d.str(8, layer)
		d.color(t.Color)
		d.point(10, p)
		d.decimal(40, t.Height)
		d.str(1, dxfText.Replace(t.Text))
		if t.Rotation != 0 {
			d.decimal(50, t.Rotation*180/math.Pi)
		}
		if t.Align != alignLeft {
			d.integer(72, int(t.Align))
			d.point(11, p)
		}
	}
}
