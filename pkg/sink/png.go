package sink

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/matzehuels/discdraw/pkg/document"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	canvasOptions
	dpmm float64
}

// WithScale sets the resolution in pixels per millimetre (default 8).
func WithScale(dpmm float64) PNGOption { return func(r *pngRenderer) { r.dpmm = dpmm } }

// WithPNGMargin sets the blank border around the drawing, in millimetres.
func WithPNGMargin(m float64) PNGOption { return func(r *pngRenderer) { r.margin = m } }

// RenderPNG rasterizes the snapshot on a white background.
func RenderPNG(s *document.Snapshot, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{
		canvasOptions: canvasOptions{margin: 10, linetypeScale: 0.5, strokeWidth: 0.35, background: canvas.White},
		dpmm:          8,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.dpmm <= 0 {
		return nil, fmt.Errorf("invalid scale %v", r.dpmm)
	}

	c, err := drawCanvas(s, r.canvasOptions)
	if err != nil {
		return nil, fmt.Errorf("draw: %w", err)
	}
	img := rasterizer.Draw(c, canvas.DPMM(r.dpmm), canvas.DefaultColorSpace)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
