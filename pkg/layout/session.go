package layout

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/discdraw/pkg/surface"
)

// Session carries the collaborators of one layout run. It replaces any
// process-wide logger or host handle: everything the planners touch is passed
// in here.
type Session struct {
	Surface surface.Surface
	Logger  *log.Logger

	warnings []Warning
}

// NewSession returns a session drawing on s. A nil logger discards output.
func NewSession(s surface.Surface, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{Surface: s, Logger: logger}
}

// Warnings returns the non-fatal problems recorded so far.
func (s *Session) Warnings() []Warning {
	return append([]Warning(nil), s.warnings...)
}

func (s *Session) warn(w Warning) {
	s.warnings = append(s.warnings, w)
	s.Logger.Warn(w.Message, "stage", w.Stage, "target", w.Target, "err", w.Err)
}

// style applies value through the candidate names and records a warning when
// none is accepted.
func (s *Session) style(stage, target string, h surface.Handle, value any, candidates ...string) {
	name, err := surface.ApplyStyle(h, value, candidates...)
	if err != nil {
		s.warn(Warning{Stage: stage, Target: target, Message: "style not applied", Err: err})
		return
	}
	s.Logger.Debug("style applied", "target", target, "property", name, "value", value)
}

// Stage names used in warnings and log lines.
const (
	StageLayers      = "layers"
	StagePrimitives  = "primitives"
	StageDimensions  = "dimensions"
	StageAnnotations = "annotations"
)

// Warning is a recovered, non-fatal problem.
type Warning struct {
	Stage   string
	Target  string
	Message string
	Err     error
}

func (w Warning) String() string {
	if w.Err == nil {
		return fmt.Sprintf("%s: %s: %s", w.Stage, w.Target, w.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %v", w.Stage, w.Target, w.Message, w.Err)
}
