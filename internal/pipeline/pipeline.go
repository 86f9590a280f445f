// Package pipeline runs the full ranking flow: load the graph, build the
// transition matrix, iterate to convergence, and order people by score.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/papapumpkin/newsrank/internal/graph"
	"github.com/papapumpkin/newsrank/internal/markov"
	"github.com/papapumpkin/newsrank/internal/power"
	"github.com/papapumpkin/newsrank/internal/rank"
	"github.com/papapumpkin/newsrank/internal/telemetry"
)

// Options configures a run.
type Options struct {
	TeleportRate float64
	Power        power.Options
}

// DefaultOptions returns teleport rate 0.15 and the default iteration settings.
func DefaultOptions() Options {
	return Options{
		TeleportRate: markov.DefaultTeleportRate,
		Power:        power.DefaultOptions(),
	}
}

// Result is the outcome of one run.
type Result struct {
	RunID      string
	Input      string
	Graph      *graph.Graph
	Ranking    rank.List
	Scores     power.Vector // indexed by vertex ID - 1
	Iterations int
	Converged  bool
	Delta      float64
	Elapsed    time.Duration
}

// Mass returns the total score, which stays at 1 up to rounding.
func (r *Result) Mass() float64 {
	return r.Scores.Sum()
}

// Runner executes the pipeline. The zero value is not usable; call New.
type Runner struct {
	log *slog.Logger
	tel *telemetry.Emitter
	now func() time.Time
}

// New returns a Runner that logs to log and records events to tel.
// tel may be nil.
func New(log *slog.Logger, tel *telemetry.Emitter) *Runner {
	return &Runner{log: log, tel: tel, now: time.Now}
}

// RunFile loads the graph at path and ranks it.
func (r *Runner) RunFile(ctx context.Context, path string, opts Options) (*Result, error) {
	runID := uuid.NewString()
	r.emit(telemetry.KindRunStart, runID, map[string]any{"input": path, "teleport_rate": opts.TeleportRate})

	g, err := graph.Load(path)
	if err != nil {
		r.emit(telemetry.KindRunFailed, runID, map[string]string{"error": err.Error()})
		return nil, err
	}
	res, err := r.run(ctx, runID, g, opts)
	if err != nil {
		r.emit(telemetry.KindRunFailed, runID, map[string]string{"error": err.Error()})
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.Input = path
	return res, nil
}

// Run ranks an already loaded graph.
func (r *Runner) Run(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	runID := uuid.NewString()
	r.emit(telemetry.KindRunStart, runID, map[string]any{"teleport_rate": opts.TeleportRate})
	res, err := r.run(ctx, runID, g, opts)
	if err != nil {
		r.emit(telemetry.KindRunFailed, runID, map[string]string{"error": err.Error()})
		return nil, err
	}
	return res, nil
}

func (r *Runner) run(ctx context.Context, runID string, g *graph.Graph, opts Options) (*Result, error) {
	start := r.now()
	log := r.log.With("run", runID)

	dangling := len(g.Dangling())
	log.Info("graph loaded", "vertices", g.N, "edges", g.EdgeCount(), "dangling", dangling)
	r.emit(telemetry.KindGraphLoaded, runID, map[string]int{
		"vertices": g.N, "edges": g.EdgeCount(), "dangling": dangling,
	})

	p, err := markov.Build(g.Adjacency, g.N, opts.TeleportRate)
	if err != nil {
		return nil, fmt.Errorf("building transition matrix: %w", err)
	}
	log.Debug("transition matrix built", "order", p.N(), "teleport_rate", opts.TeleportRate)
	r.emit(telemetry.KindMatrixBuilt, runID, map[string]any{"order": p.N(), "teleport_rate": opts.TeleportRate})

	popts := opts.Power
	userHook := popts.OnIteration
	popts.OnIteration = func(s power.IterationStat) {
		log.Debug("iteration", "n", s.Iteration, "delta", s.Delta, "mass", s.Mass)
		r.emit(telemetry.KindIteration, runID, s)
		if userHook != nil {
			userHook(s)
		}
	}

	it, err := power.Iterate(ctx, p, power.Uniform(g.N), popts)
	if err != nil {
		return nil, fmt.Errorf("power iteration: %w", err)
	}
	if !it.Converged {
		log.Warn("iteration cap reached before convergence",
			"iterations", it.Iterations, "delta", it.Delta, "tolerance", popts.Tolerance)
	}

	ranking, err := rank.Rank(g.Vertices, it.Vector)
	if err != nil {
		return nil, err
	}

	res := &Result{
		RunID:      runID,
		Graph:      g,
		Ranking:    ranking,
		Scores:     it.Vector,
		Iterations: it.Iterations,
		Converged:  it.Converged,
		Delta:      it.Delta,
		Elapsed:    r.now().Sub(start),
	}
	log.Info("ranking complete", "iterations", it.Iterations, "converged", it.Converged,
		"delta", it.Delta, "mass", res.Mass(), "elapsed", res.Elapsed)
	r.emit(telemetry.KindRunDone, runID, map[string]any{
		"iterations": it.Iterations, "converged": it.Converged, "delta": it.Delta,
	})
	return res, nil
}

// emit records a telemetry event; a failing sink only produces a log line.
func (r *Runner) emit(kind, runID string, data any) {
	if err := r.tel.Record(kind, runID, data); err != nil {
		r.log.Warn("telemetry write failed", "kind", kind, "error", err)
	}
}
