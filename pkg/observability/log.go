package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failures are
// logged at error level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l.WithPrefix("hooks")}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, diameter float64) {
	h.Logger.Debug("layout start", "diameter", diameter)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, entities, warnings int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("layout failed", "duration", d, "err", err)
		return
	}
	h.Logger.Debug("layout done", "entities", entities, "warnings", warnings, "duration", d)
}

func (h *LogHooks) OnSaveStart(_ context.Context, format string) {
	h.Logger.Debug("save start", "format", format)
}

func (h *LogHooks) OnSaveComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("save failed", "format", format, "err", err)
		return
	}
	h.Logger.Debug("save done", "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, format string) {
	h.Logger.Debug("cache hit", "format", format)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, format string) {
	h.Logger.Debug("cache miss", "format", format)
}

func (h *LogHooks) OnCacheSet(_ context.Context, format string, size int) {
	h.Logger.Debug("cache set", "format", format, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info(method+" "+path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
