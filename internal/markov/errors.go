package markov

import "errors"

// Sentinel errors for transition matrix construction.
var (
	// ErrEmptyGraph indicates a graph with no vertices; no chain can be built.
	ErrEmptyGraph = errors.New("markov: graph has no vertices")
	// ErrTeleportRate indicates a teleport rate outside [0, 1].
	ErrTeleportRate = errors.New("markov: teleport rate must be within [0, 1]")
	// ErrOutOfRange indicates a matrix index outside 0..N-1.
	ErrOutOfRange = errors.New("markov: index out of range")
	// ErrNotStochastic indicates a row whose entries do not sum to 1.
	ErrNotStochastic = errors.New("markov: row is not stochastic")
)
