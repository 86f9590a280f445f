package markov

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papapumpkin/newsrank/internal/graph"
)

const eps = 1e-12

func TestBuild_RowStochastic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		adj  graph.AdjacencyMap
		n    int
		t    float64
	}{
		{"path", graph.AdjacencyMap{1: {2}, 2: {1, 3}, 3: {2}}, 3, 0.15},
		{"triangle", graph.AdjacencyMap{1: {2, 3}, 2: {1, 3}, 3: {1, 2}}, 3, 0.15},
		{"with dangling", graph.AdjacencyMap{1: {2}, 2: {1}}, 4, 0.15},
		{"multi-edge", graph.AdjacencyMap{1: {2, 2, 3}, 2: {1, 1}, 3: {1}}, 3, 0.3},
		{"self loop", graph.AdjacencyMap{1: {1, 1, 2}, 2: {1}}, 2, 0.15},
		{"no teleport", graph.AdjacencyMap{1: {2}, 2: {1}}, 2, 0},
		{"full teleport", graph.AdjacencyMap{1: {2}, 2: {1}}, 2, 1},
		{"no edges", graph.AdjacencyMap{}, 5, 0.15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := Build(tt.adj, tt.n, tt.t)
			require.NoError(t, err)
			require.Equal(t, tt.n, m.N())
			for i, s := range m.RowSums() {
				assert.InDelta(t, 1.0, s, eps, "row %d", i)
			}
			assert.NoError(t, m.Validate(eps))
		})
	}
}

func TestBuild_DanglingRowIsUniform(t *testing.T) {
	t.Parallel()

	// Vertex 3 is absent from the map and vertex 4 has an empty list:
	// both must be treated as dangling.
	adj := graph.AdjacencyMap{1: {2}, 2: {1}, 4: {}}
	m, err := Build(adj, 4, 0.15)
	require.NoError(t, err)

	for _, i := range []int{2, 3} {
		row, err := m.Row(i)
		require.NoError(t, err)
		for k, p := range row {
			assert.InDelta(t, 0.25, p, eps, "P[%d][%d]", i, k)
		}
	}
}

func TestBuild_Entries(t *testing.T) {
	t.Parallel()

	const tele = 0.15
	adj := graph.AdjacencyMap{1: {2}, 2: {1, 3}, 3: {2}}
	m, err := Build(adj, 3, tele)
	require.NoError(t, err)

	base := tele / 3
	want := [][]float64{
		{base, base + (1 - tele), base},
		{base + (1-tele)/2, base, base + (1-tele)/2},
		{base, base + (1 - tele), base},
	}
	for i := range want {
		for k := range want[i] {
			got, err := m.At(i, k)
			require.NoError(t, err)
			assert.InDelta(t, want[i][k], got, eps, "P[%d][%d]", i, k)
		}
	}
}

func TestBuild_DuplicateNeighborsAccumulate(t *testing.T) {
	t.Parallel()

	const tele = 0.2
	adj := graph.AdjacencyMap{1: {2, 2, 3}, 2: {1, 1}, 3: {1}}
	m, err := Build(adj, 3, tele)
	require.NoError(t, err)

	got, err := m.At(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, tele/3+2*(1-tele)/3, got, eps)

	got, err = m.At(0, 2)
	require.NoError(t, err)
	assert.InDelta(t, tele/3+(1-tele)/3, got, eps)
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		adj     graph.AdjacencyMap
		n       int
		t       float64
		wantErr error
	}{
		{"zero vertices", graph.AdjacencyMap{}, 0, 0.15, ErrEmptyGraph},
		{"negative vertices", graph.AdjacencyMap{}, -2, 0.15, ErrEmptyGraph},
		{"teleport below zero", graph.AdjacencyMap{}, 2, -0.1, ErrTeleportRate},
		{"teleport above one", graph.AdjacencyMap{}, 2, 1.5, ErrTeleportRate},
		{"teleport NaN", graph.AdjacencyMap{}, 2, math.NaN(), ErrTeleportRate},
		{"neighbor out of range", graph.AdjacencyMap{1: {3}}, 2, 0.15, graph.ErrVertexOutOfRange},
		{"neighbor zero", graph.AdjacencyMap{1: {0}}, 2, 0.15, graph.ErrVertexOutOfRange},
		{"key out of range", graph.AdjacencyMap{1: {2}, 2: {1}, 7: {1}}, 2, 0.15, graph.ErrVertexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := Build(tt.adj, tt.n, tt.t)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, m)
		})
	}
}

func TestTransitionMatrix_Bounds(t *testing.T) {
	t.Parallel()

	m, err := Build(graph.AdjacencyMap{1: {2}, 2: {1}}, 2, 0.15)
	require.NoError(t, err)

	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = m.At(0, -1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = m.Row(5)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestTransitionMatrix_RowIsCopy(t *testing.T) {
	t.Parallel()

	m, err := Build(graph.AdjacencyMap{1: {2}, 2: {1}}, 2, 0.15)
	require.NoError(t, err)

	row, err := m.Row(0)
	require.NoError(t, err)
	row[0] = 42

	got, err := m.At(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.075, got, eps)
}

func TestTransitionMatrix_ColumnDot(t *testing.T) {
	t.Parallel()

	m, err := Build(graph.AdjacencyMap{1: {2}, 2: {1}}, 2, 0)
	require.NoError(t, err)

	// With no teleportation the 2-vertex walk just swaps mass.
	x := []float64{0.7, 0.3}
	assert.InDelta(t, 0.3, m.ColumnDot(0, x), eps)
	assert.InDelta(t, 0.7, m.ColumnDot(1, x), eps)
}

func TestTransitionMatrix_NilN(t *testing.T) {
	t.Parallel()

	var m *TransitionMatrix
	assert.Equal(t, 0, m.N())
}
