package sink

import (
	"io"
	"strings"

	"github.com/matzehuels/discdraw/pkg/document"
)

// Format is an output format a document can be saved in.
type Format struct {
	Name        string
	ContentType string
	Render      func(*document.Snapshot) ([]byte, error)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + f.Name }

// Encode implements [document.Encoder].
func (f Format) Encode(w io.Writer, s *document.Snapshot) error {
	data, err := f.Render(s)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

var formats = []Format{
	{Name: "dxf", ContentType: "image/vnd.dxf", Render: func(s *document.Snapshot) ([]byte, error) { return RenderDXF(s) }},
	{Name: "svg", ContentType: "image/svg+xml", Render: func(s *document.Snapshot) ([]byte, error) { return RenderSVG(s), nil }},
	{Name: "json", ContentType: "application/json", Render: func(s *document.Snapshot) ([]byte, error) { return RenderJSON(s) }},
	{Name: "pdf", ContentType: "application/pdf", Render: func(s *document.Snapshot) ([]byte, error) { return RenderPDF(s) }},
	{Name: "png", ContentType: "image/png", Render: func(s *document.Snapshot) ([]byte, error) { return RenderPNG(s) }},
}

// Formats returns the supported format names, DXF first.
func Formats() []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = f.Name
	}
	return out
}

// Lookup finds a format by name or extension ("pdf", ".PDF").
func Lookup(name string) (Format, bool) {
	name = strings.TrimPrefix(strings.ToLower(name), ".")
	for _, f := range formats {
		if f.Name == name {
			return f, true
		}
	}
	return Format{}, false
}

// DocumentOptions registers every format as a document encoder.
func DocumentOptions() []document.Option {
	opts := make([]document.Option, len(formats))
	for i, f := range formats {
		opts[i] = document.WithEncoder(f.Ext(), f)
	}
	return opts
}
