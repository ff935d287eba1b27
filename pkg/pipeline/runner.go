package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/turnout/pkg/cache"
	"github.com/matzehuels/turnout/pkg/chart"
	"github.com/matzehuels/turnout/pkg/dataset"
	"github.com/matzehuels/turnout/pkg/errors"
	pkgio "github.com/matzehuels/turnout/pkg/io"
	"github.com/matzehuels/turnout/pkg/observability"
)

const artifactKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// pipeline results.
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

// Execute loads the input tables and renders every configured chart in order.
// The first failure aborts the run; charts written before it stay on disk and
// are listed in the returned partial result.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	loadStart := time.Now()
	table, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Table = table
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Rows = table.Len()
	result.Stats.Unrecognized = len(table.Unrecognized)

	data, err := pkgio.MarshalTable(table)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash joined table")
	}
	result.TableHash = cache.Hash(data)

	if err := os.MkdirAll(opts.ImgDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWrite, err, "create %s", opts.ImgDir)
	}

	renderStart := time.Now()
	for _, spec := range opts.Charts {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		out, err := r.RenderChart(ctx, table, result.TableHash, spec, opts)
		if err != nil {
			return result, fmt.Errorf("render %s: %w", spec.Output, err)
		}
		result.Outputs = append(result.Outputs, out)
		if out.Cached {
			result.CacheHits++
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered charts",
		"count", len(result.Outputs),
		"cached", result.CacheHits,
		"dir", opts.ImgDir,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and joins the input tables. Law codes that map to no category
// are logged once as a warning.
func (r *Runner) Load(ctx context.Context, opts Options) (*dataset.Table, error) {
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.DataDir)
	start := time.Now()

	table, err := pkgio.Load(opts.DataDir, opts.Files())
	if err != nil {
		hooks.OnLoadComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, table.Len(), len(table.Unrecognized), time.Since(start), nil)

	if len(table.Unrecognized) > 0 {
		opts.Logger.Warn("unrecognized law codes counted as "+string(dataset.NoID),
			"codes", table.Unrecognized)
	}
	opts.Logger.Info("loaded data",
		"rows", table.Len(),
		"categories", len(table.Groups()),
		"duration", time.Since(start))
	return table, nil
}

// RenderChart produces one chart, from the cache when possible, and writes it
// to opts.ImgDir.
func (r *Runner) RenderChart(ctx context.Context, t *dataset.Table, tableHash string, spec chart.Spec, opts Options) (Output, error) {
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, spec.Output)
	start := time.Now()

	data, cached, err := r.renderWithCache(ctx, t, tableHash, spec, opts)
	if err != nil {
		hooks.OnRenderComplete(ctx, spec.Output, 0, false, time.Since(start), err)
		return Output{}, err
	}

	path := filepath.Join(opts.ImgDir, spec.Output)
	if err := writeFile(path, data); err != nil {
		hooks.OnRenderComplete(ctx, spec.Output, 0, cached, time.Since(start), err)
		return Output{}, err
	}

	out := Output{
		Spec:     spec,
		Path:     path,
		Size:     len(data),
		Cached:   cached,
		Duration: time.Since(start),
	}
	hooks.OnRenderComplete(ctx, spec.Output, out.Size, cached, out.Duration, nil)
	opts.Logger.Debug("wrote chart",
		"file", path,
		"kind", spec.Kind,
		"bytes", out.Size,
		"cached", cached)
	return out, nil
}

func (r *Runner) renderWithCache(ctx context.Context, t *dataset.Table, tableHash string, spec chart.Spec, opts Options) ([]byte, bool, error) {
	cacheKey := r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(spec))
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, artifactKeyType)
			return data, true, nil
		} else if err != nil {
			opts.Logger.Debug("cache read failed", "key", cacheKey, "error", err)
		}
		cacheHooks.OnCacheMiss(ctx, artifactKeyType)
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf, t, spec, opts.ChartOptions()); err != nil {
		return nil, false, err
	}
	data := buf.Bytes()

	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
		opts.Logger.Debug("cache write failed", "key", cacheKey, "error", err)
	} else {
		cacheHooks.OnCacheSet(ctx, artifactKeyType, len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// writeFile replaces path with data.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "write %s", path)
	}
	return nil
}
