// Package markov builds the random-walk-with-teleportation transition
// matrix for the co-occurrence graph.
//
// The matrix is dense and row-stochastic: row i is the distribution of
// the next vertex for a walker standing on vertex i+1.
package markov

import (
	"fmt"
	"math"

	"github.com/papapumpkin/newsrank/internal/graph"
)

// DefaultTeleportRate is the probability of a uniform random jump per step.
const DefaultTeleportRate = 0.15

// TransitionMatrix is an immutable N×N row-major matrix of
// transition probabilities.
type TransitionMatrix struct {
	n    int
	data []float64 // n*n entries, row-major
}

// Build constructs the transition matrix for an undirected graph with
// n vertices and teleport rate t.
//
// A vertex without neighbors gets a uniform row of 1/n. Any other vertex
// starts from t/n in every column, and each entry e in its neighbor list
// adds (1-t)/len(neighbors) to column e, so repeated neighbors
// accumulate mass.
func Build(adj graph.AdjacencyMap, n int, t float64) (*TransitionMatrix, error) {
	if n <= 0 {
		return nil, ErrEmptyGraph
	}
	if math.IsNaN(t) || t < 0 || t > 1 {
		return nil, fmt.Errorf("%w: got %v", ErrTeleportRate, t)
	}
	if err := checkKeys(adj, n); err != nil {
		return nil, err
	}

	m := &TransitionMatrix{n: n, data: make([]float64, n*n)}
	nf := float64(n)
	for v := 1; v <= n; v++ {
		row := m.data[(v-1)*n : v*n]
		neighbors := adj.Neighbors(v)
		if len(neighbors) == 0 {
			fill(row, 1/nf)
			continue
		}

		fill(row, t/nf)
		walk := (1 - t) / float64(len(neighbors))
		for _, e := range neighbors {
			if e < 1 || e > n {
				return nil, fmt.Errorf("vertex %d: neighbor %d not in 1..%d: %w", v, e, n, graph.ErrVertexOutOfRange)
			}
			row[e-1] += walk
		}
	}
	return m, nil
}

// checkKeys rejects adjacency entries for vertices outside 1..n,
// reporting the smallest offending ID.
func checkKeys(adj graph.AdjacencyMap, n int) error {
	bad, found := 0, false
	for v, ns := range adj {
		if len(ns) == 0 || (v >= 1 && v <= n) {
			continue
		}
		if !found || v < bad {
			bad, found = v, true
		}
	}
	if found {
		return fmt.Errorf("adjacency key %d not in 1..%d: %w", bad, n, graph.ErrVertexOutOfRange)
	}
	return nil
}

func fill(row []float64, v float64) {
	for i := range row {
		row[i] = v
	}
}

// N returns the number of vertices (rows and columns).
func (m *TransitionMatrix) N() int {
	if m == nil {
		return 0
	}
	return m.n
}

// At returns P[i][k] for 0-based indices.
func (m *TransitionMatrix) At(i, k int) (float64, error) {
	if i < 0 || i >= m.n || k < 0 || k >= m.n {
		return 0, fmt.Errorf("At(%d,%d): %w", i, k, ErrOutOfRange)
	}
	return m.data[i*m.n+k], nil
}

// Row returns a copy of row i.
func (m *TransitionMatrix) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.n {
		return nil, fmt.Errorf("Row(%d): %w", i, ErrOutOfRange)
	}
	out := make([]float64, m.n)
	copy(out, m.data[i*m.n:(i+1)*m.n])
	return out, nil
}

// ColumnDot returns Σ_i x[i]·P[i][k], the mass arriving at column k
// when the walker's distribution is x. len(x) must equal N.
func (m *TransitionMatrix) ColumnDot(k int, x []float64) float64 {
	var sum float64
	for i, xi := range x {
		sum += xi * m.data[i*m.n+k]
	}
	return sum
}

// RowSums returns the sum of every row.
func (m *TransitionMatrix) RowSums() []float64 {
	sums := make([]float64, m.n)
	for i := range sums {
		for _, p := range m.data[i*m.n : (i+1)*m.n] {
			sums[i] += p
		}
	}
	return sums
}

// Validate checks that every entry is non-negative and every row sums
// to 1 within eps.
func (m *TransitionMatrix) Validate(eps float64) error {
	for i, s := range m.RowSums() {
		if math.Abs(s-1) > eps {
			return fmt.Errorf("%w: row %d sums to %v", ErrNotStochastic, i, s)
		}
	}
	for idx, p := range m.data {
		if p < 0 {
			return fmt.Errorf("%w: P[%d][%d] = %v", ErrNotStochastic, idx/m.n, idx%m.n, p)
		}
	}
	return nil
}
