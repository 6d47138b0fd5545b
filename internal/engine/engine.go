package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/iogen/internal/compiler"
	"github.com/roach88/iogen/internal/ir"
	"github.com/roach88/iogen/internal/printer"
	"github.com/roach88/iogen/internal/store"
)

// Engine generates codec documents from declaration batches.
type Engine struct {
	store   *store.Store
	options printer.Options
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore attaches a history store. Without one, Request.Record is
// ignored.
func WithStore(s *store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithPrinterOptions sets the default document options.
func WithPrinterOptions(opts printer.Options) Option {
	return func(e *Engine) {
		e.options = opts
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the attached history store, or nil.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Request is one generation.
type Request struct {
	Declarations []ir.Declaration

	// Source labels the run in history, typically the input paths.
	Source string

	// Options overrides the engine's document options when non-nil.
	Options *printer.Options

	// Record writes the run to the attached store.
	Record bool
}

// Result is the outcome of a successful generation.
type Result struct {
	// Output is the generated document.
	Output string `json:"output"`

	// Declarations are the declarations in emission order, recursive
	// ones already rewritten.
	Declarations []ir.Declaration `json:"-"`

	// Order lists the emitted declaration names.
	Order []string `json:"order"`

	// Cyclic lists the names found on a reference cycle, in discovery order.
	Cyclic []string `json:"cyclic"`

	// Warnings are non-fatal diagnostics about the input batch.
	Warnings []compiler.Warning `json:"warnings"`

	// Run is the recorded history entry, nil when nothing was recorded.
	Run *store.Run `json:"run,omitempty"`

	// Changes compares Run with the run recorded before it. Nil when
	// there was no earlier run.
	Changes *store.Changes `json:"changes,omitempty"`

	// Unchanged is set when the latest recorded run already has the same
	// batch and output; no new run is written in that case.
	Unchanged bool `json:"unchanged,omitempty"`
}

// Order lints and sorts a batch without printing it.
//
// Duplicate names are reported before lint as ErrCodeDuplicateDeclaration
// wrapping the *compiler.DuplicateDeclarationError; lint then runs on a
// batch with unique names.
func (e *Engine) Order(decls []ir.Declaration) ([]ir.Declaration, compiler.Result, error) {
	if err := compiler.CheckDuplicates(decls); err != nil {
		return nil, compiler.Result{}, newDuplicateError(err)
	}

	if errs := compiler.Validate(decls); len(errs) > 0 {
		return nil, compiler.Result{}, NewLintError(errs)
	}

	g, err := compiler.BuildGraph(decls)
	if err != nil {
		return nil, compiler.Result{}, err
	}

	result := compiler.TSort(g)
	return compiler.Rewrite(decls, result), result, nil
}

// Generate runs the full pipeline for req.
func (e *Engine) Generate(ctx context.Context, req Request) (*Result, error) {
	sorted, order, err := e.Order(req.Declarations)
	if err != nil {
		return nil, err
	}

	opts := e.options
	if req.Options != nil {
		opts = *req.Options
	}

	res := &Result{
		Output:       printer.PrintDocument(sorted, opts),
		Declarations: sorted,
		Order:        ir.Names(sorted),
		Cyclic:       order.Cyclic,
		Warnings:     compiler.Warnings(req.Declarations),
	}
	if res.Cyclic == nil {
		res.Cyclic = []string{}
	}

	slog.DebugContext(ctx, "generated document",
		"declarations", len(sorted),
		"cyclic", len(order.Cyclic),
		"warnings", len(res.Warnings),
		"bytes", len(res.Output),
	)

	if req.Record && e.store != nil {
		if err := e.record(ctx, req.Source, res); err != nil {
			return res, &GenerateError{
				Code:    ErrCodeRecordFailed,
				Message: "could not record run",
				Err:     err,
			}
		}
	}
	return res, nil
}

func (e *Engine) record(ctx context.Context, source string, res *Result) error {
	run, err := store.NewRun(res.Declarations, res.Output, source)
	if err != nil {
		return err
	}

	latest, err := e.store.LatestRun(ctx)
	switch {
	case errors.Is(err, store.ErrRunNotFound):
	case err != nil:
		return err
	default:
		changes := store.Diff(latest, run)
		if latest.BatchHash == run.BatchHash && latest.OutputHash == run.OutputHash {
			res.Run = &latest
			res.Changes = &changes
			res.Unchanged = true
			slog.DebugContext(ctx, "batch unchanged since last run", "run", latest.ID, "seq", latest.Seq)
			return nil
		}
		res.Changes = &changes
	}

	if err := e.store.WriteRun(ctx, &run); err != nil {
		return err
	}
	res.Run = &run

	slog.InfoContext(ctx, "recorded run",
		"run", run.ID,
		"seq", run.Seq,
		"declarations", len(run.Declarations),
	)
	return nil
}
