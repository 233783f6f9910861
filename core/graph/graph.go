// Package graph builds the undirected collaboration graphs analyzed per batch.
package graph

import (
	"cmp"
	"slices"

	ggraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// authorNode is a graph node that remembers the author it stands for.
type authorNode struct {
	id   int64
	name string
}

func (n authorNode) ID() int64 { return n.id }

// Graph is an undirected, unweighted collaboration graph between authors.
// Each author carries an item weight: the commits or participations it
// contributed. Self edges are never stored and duplicate edges collapse.
type Graph struct {
	g     *simple.UndirectedGraph
	ids   map[string]int64
	names []string
	items []int
	edges int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{g: simple.NewUndirectedGraph(), ids: map[string]int64{}}
}

// AddAuthor adds a node for author if it does not exist yet.
func (g *Graph) AddAuthor(author string) int64 {
	if id, ok := g.ids[author]; ok {
		return id
	}
	id := int64(len(g.names))
	g.g.AddNode(authorNode{id: id, name: author})
	g.ids[author] = id
	g.names = append(g.names, author)
	g.items = append(g.items, 0)
	return id
}

// AddItems adds n to the item weight of author, adding the author if needed.
func (g *Graph) AddItems(author string, n int) {
	id := g.AddAuthor(author)
	g.items[id] += n
}

// AddEdge links two authors. Self edges are ignored.
func (g *Graph) AddEdge(a, b string) {
	if a == b {
		return
	}
	x, y := g.AddAuthor(a), g.AddAuthor(b)
	if g.g.HasEdgeBetween(x, y) {
		return
	}
	g.g.SetEdge(g.g.NewEdge(g.g.Node(x), g.g.Node(y)))
	g.edges++
}

// HasEdge reports whether a and b are linked.
func (g *Graph) HasEdge(a, b string) bool {
	x, okA := g.ids[a]
	y, okB := g.ids[b]
	return okA && okB && g.g.HasEdgeBetween(x, y)
}

// Has reports whether author is a node of the graph.
func (g *Graph) Has(author string) bool {
	_, ok := g.ids[author]
	return ok
}

// Authors returns every node name in sorted order.
func (g *Graph) Authors() []string {
	out := slices.Clone(g.names)
	slices.Sort(out)
	return out
}

// Neighbors returns the sorted neighbors of author.
func (g *Graph) Neighbors(author string) []string {
	id, ok := g.ids[author]
	if !ok {
		return nil
	}
	var out []string
	for _, n := range ggraph.NodesOf(g.g.From(id)) {
		out = append(out, g.names[n.ID()])
	}
	slices.Sort(out)
	return out
}

// Degree returns the number of neighbors of author.
func (g *Graph) Degree(author string) int {
	id, ok := g.ids[author]
	if !ok {
		return 0
	}
	return g.g.From(id).Len()
}

// Items returns the item weight of author.
func (g *Graph) Items(author string) int {
	if id, ok := g.ids[author]; ok {
		return g.items[id]
	}
	return 0
}

// TotalItems sums the item weight of every author.
func (g *Graph) TotalItems() int {
	total := 0
	for _, n := range g.items {
		total += n
	}
	return total
}

// NodeCount returns the number of authors.
func (g *Graph) NodeCount() int { return len(g.names) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Edges returns every edge once as a sorted pair, ordered lexically.
func (g *Graph) Edges() [][2]string {
	out := make([][2]string, 0, g.edges)
	it := g.g.Edges()
	for it.Next() {
		e := it.Edge()
		a, b := g.names[e.From().ID()], g.names[e.To().ID()]
		if b < a {
			a, b = b, a
		}
		out = append(out, [2]string{a, b})
	}
	slices.SortFunc(out, func(x, y [2]string) int {
		if c := cmp.Compare(x[0], y[0]); c != 0 {
			return c
		}
		return cmp.Compare(x[1], y[1])
	})
	return out
}

// Undirected exposes the graph to gonum algorithms. Callers must not mutate it.
func (g *Graph) Undirected() ggraph.Undirected { return g.g }

// Name returns the author behind a node id.
func (g *Graph) Name(id int64) string { return g.names[id] }

// ID returns the node id of author.
func (g *Graph) ID(author string) (int64, bool) {
	id, ok := g.ids[author]
	return id, ok
}

// Union merges graphs into a new graph. Item weights are summed.
func Union(graphs ...*Graph) *Graph {
	out := New()
	for _, g := range graphs {
		if g == nil {
			continue
		}
		for id, name := range g.names {
			out.AddItems(name, g.items[id])
		}
		for _, e := range g.Edges() {
			out.AddEdge(e[0], e[1])
		}
	}
	return out
}
