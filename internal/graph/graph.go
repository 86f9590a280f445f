// Package graph loads the people co-occurrence network from its
// line-oriented text form into an immutable vertex table and an
// undirected adjacency map.
package graph

// VertexTable maps a 1-based vertex ID to the person's display name.
type VertexTable map[int]string

// Name returns the display name for id and whether it exists.
func (vt VertexTable) Name(id int) (string, bool) {
	name, ok := vt[id]
	return name, ok
}

// Len returns the number of vertices in the table.
func (vt VertexTable) Len() int {
	return len(vt)
}

// AdjacencyMap maps a vertex ID to its neighbor IDs in input order.
// Each undirected edge contributes one entry to both endpoints, and
// repeated edges are kept as repeated entries.
type AdjacencyMap map[int][]int

// Neighbors returns the neighbor list of id. A vertex without edges
// yields nil whether or not it has a key.
func (am AdjacencyMap) Neighbors(id int) []int {
	if ns := am[id]; len(ns) > 0 {
		return ns
	}
	return nil
}

// link records the undirected edge u-v in both directions.
func (am AdjacencyMap) link(u, v int) {
	am[u] = append(am[u], v)
	am[v] = append(am[v], u)
}

// Graph is the result of loading a network file.
type Graph struct {
	Vertices  VertexTable
	Adjacency AdjacencyMap
	N         int // declared vertex count

	edges int
}

// EdgeCount returns the number of edge records read from the input.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Degree returns the number of adjacency entries for id, counting
// repeated edges once per occurrence.
func (g *Graph) Degree(id int) int {
	return len(g.Adjacency[id])
}

// Dangling returns the IDs of vertices with no incident edges, ascending.
func (g *Graph) Dangling() []int {
	var ids []int
	for id := 1; id <= g.N; id++ {
		if len(g.Adjacency.Neighbors(id)) == 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
