// Package rank pairs converged scores with vertex names and orders them.
package rank

import (
	"errors"
	"fmt"
	"sort"

	"github.com/papapumpkin/newsrank/internal/graph"
)

// ErrUnknownVertex is returned when a score index has no vertex name.
var ErrUnknownVertex = errors.New("rank: score has no matching vertex")

// Entry is one ranked person.
type Entry struct {
	ID    int
	Name  string
	Score float64
}

// List is ordered by descending score.
type List []Entry

// Rank pairs scores[i] with vertex i+1 and sorts by descending score.
// Equal scores keep ascending vertex-ID order.
func Rank(vertices graph.VertexTable, scores []float64) (List, error) {
	list := make(List, len(scores))
	for i, s := range scores {
		name, ok := vertices.Name(i + 1)
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownVertex, i+1)
		}
		list[i] = Entry{ID: i + 1, Name: name, Score: s}
	}
	sort.SliceStable(list, func(a, b int) bool {
		return list[a].Score > list[b].Score
	})
	return list, nil
}

// Top returns the first n entries. n <= 0 or n beyond the list length
// returns the whole list.
func (l List) Top(n int) List {
	if n <= 0 || n >= len(l) {
		return l
	}
	return l[:n]
}

// Total returns the sum of all scores in the list.
func (l List) Total() float64 {
	var s float64
	for _, e := range l {
		s += e.Score
	}
	return s
}
