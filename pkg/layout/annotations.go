package layout

import (
	"github.com/matzehuels/discdraw/pkg/geom"
	"github.com/matzehuels/discdraw/pkg/mtext"
	"github.com/matzehuels/discdraw/pkg/params"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// Tolerance callout offsets from the resolved dimension text, in units of
// text height.
const (
	DiameterRise  = 1.20
	ThicknessRise = 0.6
)

// Inspection note offset from the bottom-left corner of the profile bar.
const (
	NoteOffsetX = -5
	NoteOffsetY = -25
)

// TextSpec is a styled multi-line text block.
type TextSpec struct {
	Name       string
	Anchor     geom.Point3D
	Width      float64
	Content    string
	Rotation   float64
	Attachment surface.Attachment
	Layer      string

	// Color is ColorByLayer when the block inherits its layer colour.
	Color  surface.Color
	Height float64
}

// PlanTolerances places the tolerance callouts relative to the resolved text
// positions of the diameter and thickness dimensions. Each anchor is the
// resolved position plus a fixed offset, so shifting a resolved position
// shifts its callout by the same vector.
func PlanTolerances(diaPos, thkPos geom.Point3D, p params.Set) (dia, thk TextSpec) {
	h := p.TextHeight
	scale := mtext.Scale(p.ToleranceScale)
	height := p.ToleranceScale * h

	dia = TextSpec{
		Name:       "diameter tolerance",
		Anchor:     diaPos.Add(p.DiameterNudge*h, DiameterRise*h),
		Width:      p.ToleranceWidth,
		Content:    scale + mtext.Join(p.Tolerance.DiameterUpper, p.Tolerance.DiameterLower),
		Attachment: surface.AttachMiddleCenter,
		Layer:      LayerDimension,
		Color:      p.Colors.Geometry,
		Height:     height,
	}
	thk = TextSpec{
		Name:       "thickness tolerance",
		Anchor:     thkPos.Add(p.ThicknessNudge*h, ThicknessRise*h),
		Width:      p.ToleranceWidth,
		Content:    scale + p.Tolerance.Thickness,
		Rotation:   Vertical,
		Attachment: surface.AttachMiddleCenter,
		Layer:      LayerDimension,
		Color:      p.Colors.Geometry,
		Height:     height,
	}
	return dia, thk
}

// PlanNote places the inspection note below the profile bar. It depends only
// on the bar's left and bottom edges.
func PlanNote(prof Profile, p params.Set) TextSpec {
	return TextSpec{
		Name:    "inspection note",
		Anchor:  geom.Pt(prof.Left+NoteOffsetX, prof.Bottom+NoteOffsetY),
		Width:   p.NoteWidth,
		Content: mtext.Join(p.NoteLines...),
		Layer:   LayerGeometry,
		Color:   surface.ColorByLayer,
		Height:  p.NoteHeight,
	}
}
