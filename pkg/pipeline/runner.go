package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/discdraw/pkg/cache"
	"github.com/matzehuels/discdraw/pkg/document"
	"github.com/matzehuels/discdraw/pkg/errors"
	"github.com/matzehuels/discdraw/pkg/host"
	"github.com/matzehuels/discdraw/pkg/layout"
	"github.com/matzehuels/discdraw/pkg/observability"
	"github.com/matzehuels/discdraw/pkg/register"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state, so one Runner can serve concurrent
// requests; every run opens its own document.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Host     host.Host
	Register *register.Register // optional
}

// NewRunner creates a runner with a local host.
// A nil keyer uses DefaultKeyer, a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Host:   host.NewLocal(host.WithLogger(logger)),
	}
}

// Execute draws the disc and returns the encoded artifacts in memory.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}
	res := r.newResult(opts)

	if !opts.Refresh {
		if arts, ok := r.cached(ctx, res.DrawingKey, opts.Formats); ok {
			res.Artifacts = arts
			res.CacheInfo.Hit = true
			opts.Logger.Info("served from cache", "formats", opts.Formats)
			return res, nil
		}
	}

	doc, err := r.layout(ctx, opts, res)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	saveStart := time.Now()
	for _, format := range opts.Formats {
		data, err := r.encode(ctx, doc, format)
		if err != nil {
			return nil, err
		}
		res.Artifacts[format] = data
		r.store(ctx, res.DrawingKey, format, data)
	}
	res.Stats.SaveTime = time.Since(saveStart)
	return res, nil
}

// Draw draws the disc and writes one file per path. The format of each file
// follows its extension. The last file is written by the document's
// SaveAndClose; earlier ones are encoded from the open document.
func (r *Runner) Draw(ctx context.Context, opts Options, paths ...string) (*Result, error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidPath, "no output path")
	}
	opts.Formats = opts.Formats[:0:0]
	for _, p := range paths {
		if err := errors.ValidateOutputPath(p); err != nil {
			return nil, err
		}
		f, err := FormatOf(p)
		if err != nil {
			return nil, err
		}
		opts.Formats = append(opts.Formats, f)
	}
	r.applyLogger(&opts)
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}
	res := r.newResult(opts)
	start := time.Now()

	if !opts.Refresh {
		if arts, ok := r.cached(ctx, res.DrawingKey, opts.Formats); ok {
			for i, p := range paths {
				if err := writeFile(p, arts[opts.Formats[i]]); err != nil {
					return nil, err
				}
			}
			res.Artifacts = arts
			res.Outputs = paths
			res.CacheInfo.Hit = true
			opts.Logger.Info("served from cache", "outputs", paths)
			r.record(ctx, res, opts, time.Since(start))
			return res, nil
		}
	}

	doc, err := r.layout(ctx, opts, res)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	saveStart := time.Now()
	last := len(paths) - 1
	for i, p := range paths[:last] {
		data, err := r.encode(ctx, doc, opts.Formats[i])
		if err != nil {
			return nil, err
		}
		if err := writeFile(p, data); err != nil {
			return nil, err
		}
		res.Artifacts[opts.Formats[i]] = data
		r.store(ctx, res.DrawingKey, opts.Formats[i], data)
		opts.Logger.Info("saved", "path", p)
	}
	if err := r.saveAndClose(ctx, doc, paths[last], opts.Formats[last], res); err != nil {
		return nil, err
	}
	res.Stats.SaveTime = time.Since(saveStart)
	res.Outputs = paths
	opts.Logger.Info("saved", "path", paths[last])

	r.record(ctx, res, opts, time.Since(start))
	return res, nil
}

func (r *Runner) newResult(opts Options) *Result {
	fp := opts.Params.Fingerprint()
	keyOpts := cache.DrawingKeyOpts{Template: opts.Template}
	if tfp := host.Fingerprint(opts.Template); tfp != nil {
		keyOpts.TemplateHash = cache.Hash(tfp)
	}
	return &Result{
		Artifacts:  make(map[string][]byte),
		ParamsHash: cache.Hash(fp),
		DrawingKey: r.Keyer.DrawingKey(fp, keyOpts),
	}
}

// layout opens a document and runs the layout engine on it.
func (r *Runner) layout(ctx context.Context, opts Options, res *Result) (*document.Document, error) {
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Params.CircleDiameter)
	start := time.Now()

	doc, applied, err := r.Host.Open(ctx, opts.Template)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	res.TemplateApplied = applied

	sess := layout.NewSession(doc, opts.Logger)
	lr, err := layout.Run(sess, opts.Params)
	if err != nil {
		doc.Close()
		hooks.OnLayoutComplete(ctx, 0, len(sess.Warnings()), time.Since(start), err)
		return nil, err
	}
	res.Layout = lr
	res.Snapshot = doc.Snapshot()
	res.Stats.Entities = len(res.Snapshot.Entities)
	res.Stats.LayoutTime = time.Since(start)
	hooks.OnLayoutComplete(ctx, res.Stats.Entities, len(lr.Warnings), res.Stats.LayoutTime, nil)

	opts.Logger.Info("drawing laid out",
		"entities", res.Stats.Entities,
		"warnings", len(lr.Warnings),
		"duration", res.Stats.LayoutTime)
	return doc, nil
}

func (r *Runner) encode(ctx context.Context, doc *document.Document, format string) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnSaveStart(ctx, format)
	start := time.Now()

	var buf bytes.Buffer
	err := doc.Encode(&buf, "."+format)
	hooks.OnSaveComplete(ctx, format, buf.Len(), time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSave, err, "encode %s", format)
	}
	return buf.Bytes(), nil
}

func (r *Runner) saveAndClose(ctx context.Context, doc *document.Document, path, format string, res *Result) error {
	hooks := observability.Pipeline()
	hooks.OnSaveStart(ctx, format)
	start := time.Now()

	if err := ensureDir(path); err != nil {
		hooks.OnSaveComplete(ctx, format, 0, time.Since(start), err)
		return err
	}
	err := doc.SaveAndClose(path)
	if err != nil {
		hooks.OnSaveComplete(ctx, format, 0, time.Since(start), err)
		return errors.Wrap(errors.ErrCodeSave, err, "save %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		hooks.OnSaveComplete(ctx, format, 0, time.Since(start), err)
		return errors.Wrap(errors.ErrCodeSave, err, "read back %s", path)
	}
	hooks.OnSaveComplete(ctx, format, len(data), time.Since(start), nil)
	res.Artifacts[format] = data
	r.store(ctx, res.DrawingKey, format, data)
	return nil
}

// cached returns every requested artifact, or false if any is missing.
func (r *Runner) cached(ctx context.Context, drawingKey string, formats []string) (map[string][]byte, bool) {
	hooks := observability.Cache()
	arts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		key := r.Keyer.ArtifactKey(drawingKey, cache.ArtifactKeyOpts{Format: f})
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", f, "err", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, f)
			return nil, false
		}
		hooks.OnCacheHit(ctx, f)
		arts[f] = data
	}
	return arts, true
}

func (r *Runner) store(ctx context.Context, drawingKey, format string, data []byte) {
	key := r.Keyer.ArtifactKey(drawingKey, cache.ArtifactKeyOpts{Format: format})
	if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
		r.Logger.Warn("cache write failed", "format", format, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, format, len(data))
}

func (r *Runner) record(ctx context.Context, res *Result, opts Options, d time.Duration) {
	if r.Register == nil {
		return
	}
	outputs := make([]string, len(res.Outputs))
	for i, p := range res.Outputs {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		outputs[i] = p
	}
	_, err := r.Register.Record(ctx, register.Entry{
		ParamsHash: res.ParamsHash,
		Diameter:   opts.Params.CircleDiameter,
		Template:   opts.Template,
		Outputs:    outputs,
		Entities:   res.Stats.Entities,
		Warnings:   len(res.Warnings()),
		Duration:   d,
	})
	if err != nil {
		r.Logger.Warn("register write failed", "err", err)
	}
}

// Close releases the cache and the register.
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Register != nil {
		if rerr := r.Register.Close(); err == nil {
			err = rerr
		}
	}
	return err
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func writeFile(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeSave, err, "write %s", path)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeSave, err, "create %s", dir)
	}
	return nil
}
