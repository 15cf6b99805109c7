// Package pipeline provides the cleaning pipeline for databroom.
//
// A [Pipeline] wraps a table, applies named cleaning operations to it and
// keeps an undoable history. It owns:
//
//   - the current table
//   - an independent copy of the original table
//   - a list of snapshots, oldest first; index 0 is the initial state
//   - the history records of the applied operations
//
// The invariant len(snapshots) == len(history)+1 holds after every call.
// Every successful [Pipeline.Execute] adds one snapshot and one record;
// [Pipeline.StepBack] removes one of each. Snapshots are deep copies, so
// mutating the table returned by [Pipeline.Current] never alters them.
//
// # Usage
//
//	p := pipeline.New(t, ops.Default())
//	if _, err := p.Execute("normalize_column_names", history.Args{}); err != nil {
//	    return err
//	}
//	p.History()    // [{normalize_column_names [] map[]}]
//	p.StepBack()   // back to the original labels
//
// The package also provides a [Runner] that loads a file (through a cache),
// runs a list of steps and writes the cleaned data and generated code.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/databroom/databroom/pkg/errors"
	"github.com/databroom/databroom/pkg/history"
	"github.com/databroom/databroom/pkg/observability"
	"github.com/databroom/databroom/pkg/table"
)

// Catalog resolves operation names. *ops.Registry implements it.
type Catalog interface {
	Resolve(name string) (history.Recordable, bool)
}

// Pipeline sequences cleaning operations over a table with undo support.
// It is not safe for concurrent use.
type Pipeline struct {
	catalog   Catalog
	current   *table.Table
	original  *table.Table
	snapshots []*table.Table
	history   []history.Record
	logger    *log.Logger
	hooks     observability.PipelineHooks
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for debug tracing of every step.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithHooks sets the hooks notified of every step. By default the hooks
// registered with [observability.SetPipelineHooks] are used.
func WithHooks(h observability.PipelineHooks) Option {
	return func(p *Pipeline) {
		if h != nil {
			p.hooks = h
		}
	}
}

// New creates a pipeline over t. The original and the initial snapshot are
// independent copies of t.
func New(t *table.Table, catalog Catalog, opts ...Option) *Pipeline {
	p := &Pipeline{
		catalog:   catalog,
		current:   t,
		original:  t.Clone(),
		snapshots: []*table.Table{t.Clone()},
		history:   []history.Record{},
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
		hooks:     observability.Pipeline(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger.Debug("pipeline initialized",
		"rows", t.NumRows(),
		"cols", t.NumCols(),
		"snapshots", len(p.snapshots))
	return p
}

// Current returns the current table.
func (p *Pipeline) Current() *table.Table {
	return p.current
}

// Original returns a copy of the table the pipeline started from.
func (p *Pipeline) Original() *table.Table {
	return p.original.Clone()
}

// History returns a copy of the applied operations, oldest first.
func (p *Pipeline) History() []history.Record {
	out := make([]history.Record, len(p.history))
	for i, r := range p.history {
		out[i] = r.Clone()
	}
	return out
}

// OperationCount returns the number of applied operations.
func (p *Pipeline) OperationCount() int {
	return len(p.history)
}

// SnapshotCount returns the number of stored snapshots, including the
// initial state.
func (p *Pipeline) SnapshotCount() int {
	return len(p.snapshots)
}

// CanStepBack reports whether there is a previous state to return to.
func (p *Pipeline) CanStepBack() bool {
	return len(p.snapshots) > 1
}

// StepBack undoes the last operation and returns the restored table.
// It fails with NO_PREVIOUS_STATE when only the initial snapshot remains.
func (p *Pipeline) StepBack() (*table.Table, error) {
	p.logger.Debug("step back requested",
		"snapshots", len(p.snapshots),
		"history", len(p.history))

	if !p.CanStepBack() {
		return nil, errors.New(errors.ErrCodeNoPreviousState, "no previous state available to step back to")
	}

	p.snapshots = p.snapshots[:len(p.snapshots)-1]
	var undone string
	if n := len(p.history); n > 0 {
		undone = p.history[n-1].Name
		p.history = p.history[:n-1]
	}
	p.current = p.snapshots[len(p.snapshots)-1].Clone()

	p.logger.Debug("stepped back",
		"undone", undone,
		"rows", p.current.NumRows(),
		"cols", p.current.NumCols(),
		"snapshots", len(p.snapshots))
	p.hooks.OnStepBack(undone, len(p.history))

	return p.current, nil
}

// Execute runs the named operation on the current table with args.
//
// It fails with UNKNOWN_OPERATION when the catalog cannot resolve name.
// If the operation itself fails the pipeline state is left unchanged. On
// success the record is appended to the history, a copy of the result is
// stored as a snapshot, and the result becomes the current table.
func (p *Pipeline) Execute(name string, args history.Args) (*table.Table, error) {
	p.logger.Debug("executing operation", "name", name, "args", args.Positional, "kwargs", args.Keyword)

	op, ok := p.catalog.Resolve(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownOperation, "operation %q is not available in the pipeline", name)
	}

	hooks := p.hooks
	hooks.OnOperationStart(name, p.current.NumRows(), p.current.NumCols())
	start := time.Now()

	out, rec, err := op.Invoke(p.current, args)
	if err == nil && out == nil {
		err = errors.New(errors.ErrCodeInternal, "operation %q returned no table", name)
	}
	if err != nil {
		hooks.OnOperationComplete(name, 0, 0, time.Since(start), err)
		p.logger.Debug("operation failed", "name", name, "err", err)
		return nil, err
	}

	p.current = out
	p.history = append(p.history, rec)
	p.snapshots = append(p.snapshots, out.Clone())
	hooks.OnOperationComplete(name, out.NumRows(), out.NumCols(), time.Since(start), nil)

	p.logger.Debug("operation applied",
		"name", name,
		"rows", out.NumRows(),
		"cols", out.NumCols(),
		"history", len(p.history),
		"snapshots", len(p.snapshots))

	return p.current, nil
}
