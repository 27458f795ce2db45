package sink

import (
	"bytes"
	"fmt"

	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/matzehuels/discdraw/pkg/document"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	canvasOptions
	title string
}

// WithPDFMargin sets the blank border around the drawing, in millimetres.
func WithPDFMargin(m float64) PDFOption { return func(r *pdfRenderer) { r.margin = m } }

// WithPDFTitle sets the document title metadata.
func WithPDFTitle(t string) PDFOption { return func(r *pdfRenderer) { r.title = t } }

// RenderPDF renders the snapshot as a single-page PDF at 1:1 scale; one
// drawing unit is one millimetre on paper.
func RenderPDF(s *document.Snapshot, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{
		canvasOptions: canvasOptions{margin: 10, linetypeScale: 0.5, strokeWidth: 0.35},
		title:         s.Name,
	}
	for _, opt := range opts {
		opt(&r)
	}

	c, err := drawCanvas(s, r.canvasOptions)
	if err != nil {
		return nil, fmt.Errorf("draw: %w", err)
	}

	var buf bytes.Buffer
	w, h := c.Size()
	writer := pdf.New(&buf, w, h, nil)
	writer.SetInfo(r.title, "disc drawing", "", "", "discdraw")
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

