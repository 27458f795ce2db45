// Package server exposes the drawing pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz           liveness probe
//	GET  /formats           supported output formats
//	GET  /params            the default parameter set
//	GET  /drawing.{format}  one artifact; query values override parameters
//	POST /drawings          several artifacts from a JSON request
//
// Query overrides use the TOML keys of the parameter set, for example
// /drawing.svg?circle_diameter=120&colors.geometry=3. The reserved keys
// template, strict and refresh select pipeline options instead.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/discdraw/pkg/errors"
	"github.com/matzehuels/discdraw/pkg/observability"
	"github.com/matzehuels/discdraw/pkg/params"
	"github.com/matzehuels/discdraw/pkg/pipeline"
	"github.com/matzehuels/discdraw/pkg/sink"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// maxBody limits POST /drawings request bodies.
const maxBody = 1 << 20

// Response headers.
const (
	HeaderCache      = "X-Cache"
	HeaderDrawingKey = "X-Drawing-Key"
	HeaderWarnings   = "X-Drawing-Warnings"
)

// Runner is the part of the pipeline the server needs.
type Runner interface {
	Execute(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)
}

// Server renders drawings on request.
type Server struct {
	runner      Runner
	logger      *log.Logger
	templateDir string
	timeout     time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithTemplateDir enables the template query key. Template names are
// resolved relative to dir and may not escape it.
func WithTemplateDir(dir string) Option { return func(s *Server) { s.templateDir = dir } }

// WithTimeout overrides [DefaultTimeout].
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// New creates a server around r.
func New(r Runner, opts ...Option) *Server {
	s := &Server{runner: r, logger: log.Default(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok\n")
	})
	r.Get("/formats", s.handleFormats)
	r.Get("/params", s.handleParams)
	r.Get("/drawing.{format}", s.handleDrawing)
	r.Post("/drawings", s.handleDrawings)
	return r
}

// observe reports every request to the HTTP hooks.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		}()
		next.ServeHTTP(ww, r)
	})
}

type formatInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	var out []formatInfo
	for _, name := range sink.Formats() {
		f, _ := sink.Lookup(name)
		out = append(out, formatInfo{Name: f.Name, ContentType: f.ContentType})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleParams(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, params.Default())
}

func (s *Server) handleDrawing(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	f, ok := sink.Lookup(format)
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format))
		return
	}

	opts, err := s.queryOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{f.Name}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	setResultHeaders(w, res)
	w.Header().Set("Content-Type", f.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(res.Artifacts[f.Name])
}

// queryOptions builds pipeline options from the query string.
func (s *Server) queryOptions(r *http.Request) (pipeline.Options, error) {
	opts := pipeline.Options{Params: params.Default(), Logger: s.logger}
	overrides := map[string]string{}
	for k, v := range r.URL.Query() {
		if len(v) == 0 {
			continue
		}
		val := v[len(v)-1]
		switch k {
		case "template":
			opts.Template = val
		case "strict", "refresh":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: %q is not a boolean", k, val)
			}
			if k == "strict" {
				opts.Strict = b
			} else {
				opts.Refresh = b
			}
		default:
			overrides[k] = val
		}
	}
	if err := opts.Params.Apply(overrides); err != nil {
		return opts, err
	}
	tpl, err := s.resolveTemplate(opts.Template)
	if err != nil {
		return opts, err
	}
	opts.Template = tpl
	return opts, nil
}

// drawingsRequest is the body of POST /drawings.
type drawingsRequest struct {
	Params   json.RawMessage `json:"params"`
	Formats  []string        `json:"formats"`
	Template string          `json:"template"`
	Strict   bool            `json:"strict"`
	Refresh  bool            `json:"refresh"`
}

type drawingsResponse struct {
	Key       string            `json:"key"`
	Cached    bool              `json:"cached"`
	Entities  int               `json:"entities,omitempty"`
	Warnings  []string          `json:"warnings,omitempty"`
	Artifacts map[string][]byte `json:"artifacts"`
}

func (s *Server) handleDrawings(w http.ResponseWriter, r *http.Request) {
	var req drawingsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	p := params.Default()
	if len(req.Params) > 0 {
		var err error
		if p, err = params.DecodeJSON(bytes.NewReader(req.Params)); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	tpl, err := s.resolveTemplate(req.Template)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Params:   p,
		Template: tpl,
		Formats:  req.Formats,
		Strict:   req.Strict,
		Refresh:  req.Refresh,
		Logger:   s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := drawingsResponse{
		Key:       res.DrawingKey,
		Cached:    res.CacheInfo.Hit,
		Entities:  res.Stats.Entities,
		Artifacts: res.Artifacts,
	}
	for _, warn := range res.Warnings() {
		resp.Warnings = append(resp.Warnings, warn.String())
	}
	setResultHeaders(w, res)
	writeJSON(w, http.StatusOK, resp)
}

// resolveTemplate maps a template name to a file under the template
// directory.
func (s *Server) resolveTemplate(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if s.templateDir == "" {
		return "", errors.New(errors.ErrCodeUnsupported, "templates are not enabled on this server")
	}
	if err := errors.ValidateRelativePath(name); err != nil {
		return "", err
	}
	return filepath.Join(s.templateDir, name), nil
}

func setResultHeaders(w http.ResponseWriter, res *pipeline.Result) {
	cache := "MISS"
	if res.CacheInfo.Hit {
		cache = "HIT"
	}
	w.Header().Set(HeaderCache, cache)
	w.Header().Set(HeaderDrawingKey, res.DrawingKey)
	w.Header().Set(HeaderWarnings, strconv.Itoa(len(res.Warnings())))
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// statusOf maps an error code to an HTTP status.
func statusOf(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidParams,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errors.ErrCodeHost:
		return http.StatusServiceUnavailable
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
