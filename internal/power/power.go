// Package power runs power iteration of a probability vector against a
// transition matrix until it reaches a fixed point.
package power

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/papapumpkin/newsrank/internal/markov"
)

// Sentinel errors for power iteration.
var (
	// ErrDimensionMismatch indicates a vector whose length differs from the matrix order.
	ErrDimensionMismatch = errors.New("power: vector length does not match matrix")
	// ErrInvalidOptions indicates a non-positive iteration cap, tolerance, or worker count.
	ErrInvalidOptions = errors.New("power: invalid options")
)

// Options configures the iteration.
type Options struct {
	MaxIterations int     // upper bound on matrix applications
	Tolerance     float64 // convergence threshold on the max per-entry change
	Workers       int     // goroutines sharing the columns of each step; 1 runs inline

	// OnIteration, if set, is called after every step.
	OnIteration func(IterationStat)
}

// DefaultOptions returns 1000 iterations, tolerance 1e-10, one worker.
func DefaultOptions() Options {
	return Options{
		MaxIterations: 1000,
		Tolerance:     1e-10,
		Workers:       1,
	}
}

func (o Options) validate() error {
	switch {
	case o.MaxIterations < 1:
		return fmt.Errorf("%w: max iterations %d", ErrInvalidOptions, o.MaxIterations)
	case math.IsNaN(o.Tolerance) || o.Tolerance <= 0:
		return fmt.Errorf("%w: tolerance %v", ErrInvalidOptions, o.Tolerance)
	case o.Workers < 1:
		return fmt.Errorf("%w: workers %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}

// IterationStat describes one completed step.
type IterationStat struct {
	Iteration int     // 1-based step number
	Delta     float64 // max |x'[k] - x[k]|
	Mass      float64 // Σ x'[k]
}

// Result is the outcome of Iterate.
type Result struct {
	Vector     Vector
	Iterations int
	Converged  bool    // false when MaxIterations was reached first
	Delta      float64 // change in the final step
}

// Iterate applies x' = x·P starting from x0 until the largest per-entry
// change drops below opts.Tolerance or opts.MaxIterations steps have run.
// A nil x0 starts from the uniform distribution. x0 is not modified.
//
// Reaching the iteration cap is not an error: the last vector is
// returned with Converged set to false.
func Iterate(ctx context.Context, p *markov.TransitionMatrix, x0 Vector, opts Options) (Result, error) {
	n := p.N()
	if n == 0 {
		return Result{}, markov.ErrEmptyGraph
	}
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	if x0 == nil {
		x0 = Uniform(n)
	}
	if len(x0) != n {
		return Result{}, fmt.Errorf("%w: len %d, matrix %d", ErrDimensionMismatch, len(x0), n)
	}

	x := x0.Clone()
	res := Result{Vector: x}
	for iter := 1; iter <= opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		next, err := step(ctx, p, x, opts.Workers)
		if err != nil {
			return res, err
		}
		delta := next.MaxAbsDiff(x)
		x = next

		res = Result{Vector: x, Iterations: iter, Delta: delta}
		if opts.OnIteration != nil {
			opts.OnIteration(IterationStat{Iteration: iter, Delta: delta, Mass: x.Sum()})
		}
		if delta < opts.Tolerance {
			res.Converged = true
			break
		}
	}
	return res, nil
}

// Step returns x·P as a new vector.
func Step(p *markov.TransitionMatrix, x Vector) (Vector, error) {
	if p.N() == 0 {
		return nil, markov.ErrEmptyGraph
	}
	if len(x) != p.N() {
		return nil, fmt.Errorf("%w: len %d, matrix %d", ErrDimensionMismatch, len(x), p.N())
	}
	return step(context.Background(), p, x, 1)
}

// step computes x·P, splitting the output columns into contiguous
// ranges when workers > 1. Each column reads only x and P, so ranges
// never share writes.
func step(ctx context.Context, p *markov.TransitionMatrix, x Vector, workers int) (Vector, error) {
	n := p.N()
	next := make(Vector, n)
	if workers <= 1 || n < 2*workers {
		for k := range next {
			next[k] = p.ColumnDot(k, x)
		}
		return next, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for k := lo; k < hi; k++ {
				if k%64 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				next[k] = p.ColumnDot(k, x)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return next, nil
}
