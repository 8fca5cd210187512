package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lyphgraph/pkg/assemble"
	"github.com/matzehuels/lyphgraph/pkg/cache"
	"github.com/matzehuels/lyphgraph/pkg/errors"
	"github.com/matzehuels/lyphgraph/pkg/export"
	lgio "github.com/matzehuels/lyphgraph/pkg/io"
	"github.com/matzehuels/lyphgraph/pkg/model"
	"github.com/matzehuels/lyphgraph/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	}
}

// entry is what the cache stores for one run.
type entry struct {
	Stats  assemble.Stats `json:"stats"`
	Output []byte         `json:"output"`
}

// Run assembles doc and serializes it in the requested format. id names
// the model in logs and metrics.
func (r *Runner) Run(ctx context.Context, id string, doc model.Object, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()

	modelData, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "encode model %s", id)
	}
	result := &Result{ModelHash: cache.Hash(modelData)}
	key, keyType := r.key(result.ModelHash, opts)

	if !opts.Refresh {
		var cached entry
		if err := cache.GetJSON(ctx, r.Cache, key, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, keyType)
			result.Output = cached.Output
			result.Stats = cached.Stats
			result.CacheHit = true
			result.Duration = time.Since(start)
			r.Logger.Debug("cache hit", "model", id, "format", opts.Format)
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyType)
	}

	res, err := r.Assemble(ctx, id, doc, opts.Assemble)
	if err != nil {
		return nil, err
	}
	result.Model = res
	result.Stats = res.Stats()

	out, err := Render(ctx, res, opts)
	if err != nil {
		return nil, err
	}
	result.Output = out

	ttl := cache.TTLExport
	if keyType == "graph" {
		ttl = cache.TTLGraph
	}
	e := entry{Stats: result.Stats, Output: out}
	if err := cache.SetJSON(ctx, r.Cache, key, e, ttl); err != nil {
		r.Logger.Warn("cache write failed", "model", id, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyType, len(out))
	}
	result.Duration = time.Since(start)
	return result, nil
}

// key returns the cache key of a run and the key type reported to metrics.
func (r *Runner) key(modelHash string, opts Options) (string, string) {
	graphKey := r.Keyer.GraphKey(modelHash, opts.graphKeyOpts())
	if opts.Format == FormatJSON {
		return graphKey, "graph"
	}
	return r.Keyer.ExportKey(cache.Hash([]byte(graphKey)), opts.exportKeyOpts()), "export"
}

// Assemble runs the assembly engine on doc without caching, reporting
// phases and the outcome to the pipeline hooks.
func (r *Runner) Assemble(ctx context.Context, id string, doc model.Object, opts assemble.Options) (*assemble.Result, error) {
	hooks := observability.Pipeline()
	hooks.OnAssembleStart(ctx, id)
	start := time.Now()

	onPhase := opts.OnPhase
	opts.OnPhase = func(name string, d time.Duration) {
		hooks.OnPhase(ctx, name, d)
		r.Logger.Debug("phase", "name", name, "duration", d)
		if onPhase != nil {
			onPhase(name, d)
		}
	}

	res, err := assemble.FromJSON(doc, opts)
	d := time.Since(start)
	if err != nil {
		hooks.OnAssembleComplete(ctx, id, 0, "", d, err)
		return nil, err
	}
	st := res.Stats()
	hooks.OnAssembleComplete(ctx, id, st.Resources, string(st.Status), d, nil)
	r.Logger.Info("assembled model",
		"model", id,
		"class", res.Class,
		"resources", st.Resources,
		"generated", st.Generated,
		"status", st.Status,
		"duration", d)
	return res, nil
}

// Render serializes an assembled model in opts.Format.
func Render(ctx context.Context, res *assemble.Result, opts Options) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	switch opts.Format {
	case FormatJSON:
		if err := lgio.WriteJSON(res.JSON(), &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatEntities:
		if err := lgio.WriteJSON(res.Entities(), &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, opts.Format)
	start := time.Now()
	dot := export.ToDOT(res.Store, export.Options{Detailed: opts.Detailed, Hidden: opts.Hidden})
	if opts.Format == FormatDOT {
		hooks.OnExportComplete(ctx, opts.Format, time.Since(start), nil)
		return []byte(dot), nil
	}
	svg, err := export.RenderSVG(ctx, dot)
	hooks.OnExportComplete(ctx, opts.Format, time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
	}
	return svg, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
