package layout

import (
	"github.com/matzehuels/discdraw/pkg/errors"
	"github.com/matzehuels/discdraw/pkg/geom"
	"github.com/matzehuels/discdraw/pkg/params"
	"github.com/matzehuels/discdraw/pkg/surface"
)

// Result records everything a run computed and created.
type Result struct {
	Params     params.Set
	Layers     []LayerSpec
	Primitives Primitives

	Diameter  DimensionSpec
	Thickness DimensionSpec

	// Text positions reported by the surface after the dimensions were
	// created and styled.
	DiameterText  geom.Point3D
	ThicknessText geom.Point3D

	DiameterTolerance  TextSpec
	ThicknessTolerance TextSpec
	Note               TextSpec

	// Handles of every created or reused object, in creation order.
	Handles  []surface.Handle
	Warnings []Warning
}

// Run draws the disc described by p on the session surface.
//
// Calls reach the surface in a fixed order: layers, primitives, centerlines,
// dimensions, dimension style, read-back of resolved text positions,
// tolerance text, note text. Non-fatal problems end up in Result.Warnings.
func Run(sess *Session, p params.Set) (*Result, error) {
	res := &Result{Params: p.Clone()}
	lg := sess.Logger

	// Layers.
	res.Layers = PlanLayers(p)
	for _, spec := range res.Layers {
		h, err := EnsureLayer(sess, spec)
		if err != nil {
			return nil, err
		}
		res.Handles = append(res.Handles, h)
	}
	lg.Info("layers ready", "count", len(res.Layers))

	// Primitives then centerlines.
	res.Primitives = PlanPrimitives(p)
	for _, prim := range res.Primitives.Geometry() {
		h, err := addPrimitive(sess, prim)
		if err != nil {
			return nil, err
		}
		res.Handles = append(res.Handles, h)
	}
	for _, prim := range res.Primitives.Centerlines {
		h, err := addPrimitive(sess, prim)
		if err != nil {
			return nil, err
		}
		res.Handles = append(res.Handles, h)
	}
	lg.Info("geometry drawn", "radius", res.Primitives.Radius, "profile", res.Primitives.Profile)

	// Phase one: dimensions, style, read-back.
	res.Diameter, res.Thickness = PlanDimensions(res.Primitives, p)
	dia, err := addDimension(sess, res.Diameter)
	if err != nil {
		return nil, err
	}
	thk, err := addDimension(sess, res.Thickness)
	if err != nil {
		return nil, err
	}
	res.Handles = append(res.Handles, dia, thk)
	styleDimension(sess, res.Diameter, dia)
	styleDimension(sess, res.Thickness, thk)

	res.DiameterText = dia.ResolvedTextPosition()
	res.ThicknessText = thk.ResolvedTextPosition()
	lg.Info("dimensions drawn",
		"diameter_text", res.DiameterText.XY(),
		"thickness_text", res.ThicknessText.XY())

	// Phase two: annotations anchored on the read-back positions.
	res.DiameterTolerance, res.ThicknessTolerance = PlanTolerances(res.DiameterText, res.ThicknessText, p)
	res.Note = PlanNote(res.Primitives.Profile, p)
	for _, spec := range []TextSpec{res.DiameterTolerance, res.ThicknessTolerance, res.Note} {
		h, err := addText(sess, spec)
		if err != nil {
			return nil, err
		}
		res.Handles = append(res.Handles, h)
	}
	lg.Info("annotations drawn", "note", res.Note.Anchor.XY())

	res.Warnings = sess.Warnings()
	return res, nil
}

func addPrimitive(sess *Session, prim Primitive) (surface.Handle, error) {
	var (
		h   surface.Handle
		err error
	)
	switch prim.Kind {
	case KindCircle:
		h, err = sess.Surface.AddCircle(prim.Circle.Center, prim.Circle.Radius)
	default:
		h, err = sess.Surface.AddLine(prim.Segment.A, prim.Segment.B)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHost, err, "add %s", prim.Name)
	}
	if err := require(h, prim.Name, "Layer", prim.Layer); err != nil {
		return nil, err
	}
	sess.Logger.Debug("primitive added", "name", prim.Name, "id", h.ID(), "layer", prim.Layer)
	return h, nil
}

func addDimension(sess *Session, spec DimensionSpec) (surface.Dimension, error) {
	h, err := sess.Surface.AddAlignedDimension(spec.P1, spec.P2, spec.Leader)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHost, err, "add %s dimension", spec.Name)
	}
	if err := require(h, spec.Name, "Layer", spec.Layer); err != nil {
		return nil, err
	}
	sess.Logger.Debug("dimension added", "name", spec.Name, "id", h.ID())
	return h, nil
}

func styleDimension(sess *Session, spec DimensionSpec, h surface.Handle) {
	sess.style(StageDimensions, spec.Name, h, spec.TextHeight, "TextHeight")
	sess.style(StageDimensions, spec.Name, h, spec.ArrowSize, "ArrowheadSize", "ArrowSize")
	sess.style(StageDimensions, spec.Name, h, spec.TextColor, "TextColor", "Color")
	sess.style(StageDimensions, spec.Name, h, spec.Precision, "PrimaryUnitsPrecision")
	if spec.Rotated {
		sess.style(StageDimensions, spec.Name, h, spec.Rotation, "TextRotation", "Rotation")
	}
	if spec.Override != "" {
		sess.style(StageDimensions, spec.Name, h, spec.Override, "TextOverride")
	}
}

func addText(sess *Session, spec TextSpec) (surface.Handle, error) {
	h, err := sess.Surface.AddTextBlock(spec.Anchor, spec.Width, spec.Content)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHost, err, "add %s", spec.Name)
	}
	if spec.Attachment != 0 {
		if err := require(h, spec.Name, "AttachmentPoint", spec.Attachment); err != nil {
			return nil, err
		}
	}
	if spec.Rotation != 0 {
		if err := require(h, spec.Name, "Rotation", spec.Rotation); err != nil {
			return nil, err
		}
	}
	if err := require(h, spec.Name, "Layer", spec.Layer); err != nil {
		return nil, err
	}
	if spec.Color != surface.ColorByLayer {
		if err := require(h, spec.Name, "Color", spec.Color); err != nil {
			return nil, err
		}
	}
	sess.style(StageAnnotations, spec.Name, h, spec.Height, "TextHeight", "Height")
	sess.Logger.Debug("text added", "name", spec.Name, "id", h.ID(), "anchor", spec.Anchor.XY())
	return h, nil
}

// require assigns a property every host supports. Failure means the surface
// is not usable.
func require(h surface.Handle, target, name string, value any) error {
	if err := h.SetProperty(name, value); err != nil {
		return errors.Wrap(errors.ErrCodeHost, err, "%s: set %s", target, name)
	}
	return nil
}
