package pipeline

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/databroom/databroom/pkg/cache"
	"github.com/databroom/databroom/pkg/codegen"
	"github.com/databroom/databroom/pkg/errors"
	pkgio "github.com/databroom/databroom/pkg/io"
	"github.com/databroom/databroom/pkg/observability"
	"github.com/databroom/databroom/pkg/ops"
	"github.com/databroom/databroom/pkg/table"
)

// cacheKeyType labels table entries in cache hooks.
const cacheKeyType = "table"

// Runner loads input through a cache, applies steps and writes results.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. The CLI and the interactive session share it.
type Runner struct {
	Cache    cache.Cache
	Registry *ops.Registry
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil registry
// uses ops.Default() and a nil logger uses log.Default().
func NewRunner(c cache.Cache, reg *ops.Registry, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if reg == nil {
		reg = ops.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Registry: reg,
		Logger:   logger,
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Execute runs the complete load → clean → write sequence.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	for _, s := range opts.Steps {
		if !r.Registry.Has(s.Operation) {
			return nil, errors.New(errors.ErrCodeUnknownOperation,
				"operation %q is not available in the pipeline", s.Operation)
		}
	}

	result := &Result{}

	loadStart := time.Now()
	t, hit, err := r.Load(ctx, opts.Input, opts.Sheet, opts.Refresh)
	if err != nil {
		return nil, err
	}
	result.CacheHit = hit
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.InputRows, result.Stats.InputCols = t.NumRows(), t.NumCols()

	r.Logger.Info("loaded input",
		"file", opts.Input,
		"rows", t.NumRows(),
		"cols", t.NumCols(),
		"cached", hit,
		"duration", result.Stats.LoadTime)

	cleanStart := time.Now()
	p := New(t, r.Registry, WithLogger(r.Logger))
	for _, s := range opts.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := p.Execute(s.Operation, s.Args)
		if err != nil {
			return nil, err
		}
		r.Logger.Info("applied operation", "name", s.Operation, "rows", out.NumRows(), "cols", out.NumCols())
	}
	result.Pipeline = p
	result.Stats.CleanTime = time.Since(cleanStart)
	result.Stats.Operations = p.OperationCount()
	result.Stats.OutputRows, result.Stats.OutputCols = p.Current().NumRows(), p.Current().NumCols()

	writeStart := time.Now()
	if err := r.Save(p, opts); err != nil {
		return nil, err
	}
	result.Stats.WriteTime = time.Since(writeStart)

	return result, nil
}

// Save writes the current table to opts.Output and the generated script to
// opts.Code. Empty paths are skipped.
func (r *Runner) Save(p *Pipeline, opts Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if opts.Output != "" {
		if err := pkgio.Write(opts.Output, p.Current()); err != nil {
			return err
		}
		r.Logger.Info("wrote cleaned data", "file", opts.Output)
	}
	if opts.Code != "" {
		err := codegen.WriteFile(opts.Code, codegen.Options{
			Lang:     opts.CodeLang(),
			Input:    opts.Input,
			Output:   opts.Output,
			Registry: r.Registry,
		}, p.History())
		if err != nil {
			return err
		}
		r.Logger.Info("wrote generated code", "file", opts.Code, "lang", opts.CodeLang())
	}
	return nil
}

// Load reads the table at path, using the cache unless refresh is set.
// It reports whether the table came from the cache. The decoded table is
// stored in the cache on every miss.
func (r *Runner) Load(ctx context.Context, path, sheet string, refresh bool) (*table.Table, bool, error) {
	format, err := pkgio.DetectFormat(path)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s does not exist", path)
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	if !cache.Enabled(r.Cache) {
		t, err := pkgio.Decode(bytes.NewReader(data), format, pkgio.ReadOptions{Sheet: sheet})
		return t, false, err
	}

	key := cache.TableKey(data, sheet)
	hooks := observability.Cache()

	if !refresh {
		if cached, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if t, err := pkgio.DecodeSplit(bytes.NewReader(cached)); err == nil {
				hooks.OnCacheHit(ctx, cacheKeyType)
				return t, true, nil
			}
			r.Logger.Debug("discarding unreadable cache entry", "key", key)
		}
	}
	hooks.OnCacheMiss(ctx, cacheKeyType)

	t, err := pkgio.Decode(bytes.NewReader(data), format, pkgio.ReadOptions{Sheet: sheet})
	if err != nil {
		return nil, false, err
	}

	if entry, ok := cacheEntry(t); ok {
		if err := r.Cache.Set(ctx, key, entry, cache.DefaultTTL); err != nil {
			r.Logger.Warn("could not cache table", "err", err)
		} else {
			hooks.OnCacheSet(ctx, cacheKeyType, len(entry))
		}
	} else {
		r.Logger.Debug("table has values the cache cannot hold, not caching", "path", path)
	}

	return t, false, nil
}

// cacheEntry encodes t for the cache. It reports false when decoding the
// entry would not give back an equal table (infinities, invalid UTF-8), so
// a cache hit always returns exactly what a fresh decode would.
func cacheEntry(t *table.Table) ([]byte, bool) {
	var buf bytes.Buffer
	if err := pkgio.EncodeSplit(&buf, t); err != nil {
		return nil, false
	}
	back, err := pkgio.DecodeSplit(bytes.NewReader(buf.Bytes()))
	if err != nil || !back.Equal(t) {
		return nil, false
	}
	return buf.Bytes(), true
}
