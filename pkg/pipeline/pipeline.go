// Package pipeline runs the layout → save sequence shared by the CLI and the
// HTTP server.
//
// A [Runner] opens a document through its host, draws the disc on it with
// [layout.Run], and saves the result in one or more formats. Rendered files
// are cached by the hash of the Parameter Set, the template and the format,
// so repeated requests for the same drawing skip the layout entirely.
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Params:  params.Default(),
//	    Formats: []string{"dxf", "svg"},
//	})
//	dxf := res.Artifacts["dxf"]
//
// [Runner.Draw] writes the files to disk instead and records the drawing in
// the register when one is attached.
package pipeline

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/discdraw/pkg/document"
	"github.com/matzehuels/discdraw/pkg/errors"
	"github.com/matzehuels/discdraw/pkg/layout"
	"github.com/matzehuels/discdraw/pkg/params"
	"github.com/matzehuels/discdraw/pkg/sink"
)

// DefaultFormat is the format written when none is requested.
const DefaultFormat = "dxf"

// Options configures one pipeline run.
type Options struct {
	Params   params.Set `json:"params"`
	Template string     `json:"template,omitempty"`
	Formats  []string   `json:"formats,omitempty"`

	// Strict rejects degenerate parameters instead of drawing them.
	Strict bool `json:"strict,omitempty"`

	// Refresh ignores cached artifacts.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is nil when every artifact came from the cache.
	Layout *layout.Result

	// Snapshot is the saved document, nil on a cache hit.
	Snapshot *document.Snapshot

	// Artifacts holds the encoded files keyed by format.
	Artifacts map[string][]byte

	// Outputs lists the written paths (Draw only).
	Outputs []string

	DrawingKey      string
	ParamsHash      string
	TemplateApplied bool

	Stats     Stats
	CacheInfo CacheInfo
}

// Warnings returns the style and pattern warnings raised by the layout.
func (r *Result) Warnings() []layout.Warning {
	if r.Layout == nil {
		return nil
	}
	return r.Layout.Warnings
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Entities   int
	LayoutTime time.Duration
	SaveTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	Hit bool // every requested artifact came from the cache
}

// ValidateFormats checks that every format has a sink.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, sink.Formats()); err != nil {
			return err
		}
	}
	return nil
}

// FormatOf returns the sink format for a file name ("disc.PDF" → "pdf").
func FormatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "%s has no file extension", path)
	}
	if err := errors.ValidateFormat(ext, sink.Formats()); err != nil {
		return "", err
	}
	return ext, nil
}

// DefaultOutput returns the default file name for p in format:
// disc_<diameter>.<format>.
func DefaultOutput(p params.Set, format string) string {
	return "disc_" + strconv.FormatFloat(p.CircleDiameter, 'f', -1, 64) + "." + format
}

// setDefaults validates o and fills in defaults.
func (o *Options) setDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.Formats = append([]string(nil), o.Formats...)
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(strings.TrimPrefix(f, "."))
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Strict {
		if err := o.Params.Validate(); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}
