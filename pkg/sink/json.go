package sink

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/discdraw/pkg/document"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	compact bool
}

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Format   string               `json:"format"`
	Extent   jsonExtent           `json:"extent"`
	Document *document.Snapshot   `json:"document"`
	Labels   map[string]jsonLabel `json:"labels,omitempty"`
}

type jsonExtent struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// jsonLabel is the text a dimension displays, keyed by entity ID.
type jsonLabel struct {
	Text        string  `json:"text"`
	Measurement float64 `json:"measurement"`
}

// RenderJSON exports the snapshot with its extent and the text of every
// dimension. The output is a complete description of the drawing and can be
// re-rendered by external tools.
func RenderJSON(s *document.Snapshot, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	b := s.Bounds()
	out := jsonOutput{
		Format:   "discdraw/v1",
		Extent:   jsonExtent{MinX: b.MinX, MinY: b.MinY, MaxX: b.MaxX, MaxY: b.MaxY},
		Document: s,
	}
	for _, e := range s.Entities {
		if e.Kind != document.KindDimension {
			continue
		}
		if out.Labels == nil {
			out.Labels = map[string]jsonLabel{}
		}
		out.Labels[e.ID] = jsonLabel{Text: e.DimensionText(), Measurement: e.Measurement()}
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

// ReadJSON loads the snapshot from a file written by [RenderJSON].
func ReadJSON(r io.Reader) (*document.Snapshot, error) {
	var in jsonOutput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, err
	}
	if in.Format != "discdraw/v1" {
		return nil, fmt.Errorf("unsupported format %q", in.Format)
	}
	if in.Document == nil {
		return nil, fmt.Errorf("no document")
	}
	return in.Document, nil
}
