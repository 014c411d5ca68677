// Package batch analyses many procedural units concurrently with one
// analyser.
//
// Each unit is analysed on its own goroutine and a syntax error in one unit
// never affects the others. Results come back in input order:
//
//	results, err := batch.Run(ctx, analyser, units, batch.WithConcurrency(4))
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/sqlanalyser/pkg/core"
	"github.com/leapstack-labs/sqlanalyser/pkg/dialect"
)

// KindAuto detects the unit kind from the source.
const KindAuto core.ScriptKind = ""

// Unit is one source unit to analyse.
type Unit struct {
	// ID identifies the unit to the caller, typically a file path.
	ID   string
	Kind core.ScriptKind
	SQL  string
}

// Result is the outcome of one unit. Err is set only when the unit could
// not be analysed at all, for example an unknown kind; syntax errors are
// reported in Analysis.Error.
type Result struct {
	Unit     Unit
	Analysis core.AnalyseResult
	Err      error
	Duration time.Duration
}

// OK reports whether the unit produced a script.
func (r Result) OK() bool {
	return r.Err == nil && r.Analysis.Script != nil
}

// Option configures Run.
type Option func(*runner)

// WithConcurrency bounds the number of units analysed at once. Values
// below one select GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(r *runner) {
		r.concurrency = n
	}
}

// WithSink receives every result as soon as it is ready. Calls are
// serialized. A sink error stops the batch and is returned by Run.
func WithSink(sink func(Result) error) Option {
	return func(r *runner) {
		r.sink = sink
	}
}

// WithLogger sets the logger. Nil discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *runner) {
		r.logger = logger
	}
}

type runner struct {
	analyser    dialect.Analyser
	concurrency int
	sink        func(Result) error
	logger      *slog.Logger

	sinkMu sync.Mutex
}

// Run analyses units with a. It returns an error only when ctx is
// cancelled or the sink fails; results gathered so far are returned with
// it, and units that never ran have a zero Analysis.
func Run(ctx context.Context, a dialect.Analyser, units []Unit, opts ...Option) ([]Result, error) {
	r := &runner{analyser: a}
	for _, opt := range opts {
		opt(r)
	}
	if r.concurrency < 1 {
		r.concurrency = runtime.GOMAXPROCS(0)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}

	results := make([]Result, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	start := time.Now()
	for i, u := range units {
		if gctx.Err() != nil {
			break
		}
		results[i].Unit = u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := r.analyse(u)
			results[i] = res
			return r.emit(res)
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	r.logger.Debug("batch complete", "units", len(units), "duration", time.Since(start))
	return results, nil
}

func (r *runner) analyse(u Unit) Result {
	start := time.Now()
	res, err := dialect.Analyse(r.analyser, u.Kind, u.SQL)
	out := Result{Unit: u, Analysis: res, Err: err, Duration: time.Since(start)}

	switch {
	case err != nil:
		r.logger.Warn("unit not analysed", "unit", u.ID, "error", err)
	case res.Error != nil:
		r.logger.Debug("syntax error", "unit", u.ID, "line", res.Error.Line, "column", res.Error.Column)
	case res.Script == nil:
		r.logger.Debug("no unit of the requested kind", "unit", u.ID, "kind", u.Kind)
	}
	return out
}

func (r *runner) emit(res Result) error {
	if r.sink == nil {
		return nil
	}
	r.sinkMu.Lock()
	defer r.sinkMu.Unlock()
	if err := r.sink(res); err != nil {
		return fmt.Errorf("sink %s: %w", res.Unit.ID, err)
	}
	return nil
}
