package centrality

import (
	"cmp"
	"slices"

	"github.com/huangsam/coredev/core/graph"
	"github.com/huangsam/coredev/schema"
	ggraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
)

// greedyModularity partitions g with Clauset-Newman-Moore agglomeration:
// starting from singletons, the pair of adjacent communities with the
// largest modularity gain is merged until no merge improves modularity.
// Ties go to the pair with the smallest community indexes, where indexes
// follow the sorted author names. Edge-free graphs have no communities.
func greedyModularity(g *graph.Graph) [][]string {
	m := g.EdgeCount()
	if m == 0 {
		return nil
	}
	authors := g.Authors()
	n := len(authors)
	rank := make(map[string]int, n)
	for i, a := range authors {
		rank[a] = i
	}

	twoM := float64(2 * m)
	a := make([]float64, n)         // fraction of edge ends per community
	e := make([]map[int]float64, n) // fraction of edges between communities
	members := make([][]string, n)
	alive := make([]bool, n)
	for i, name := range authors {
		a[i] = float64(g.Degree(name)) / twoM
		e[i] = map[int]float64{}
		members[i] = []string{name}
		alive[i] = true
	}
	for _, edge := range g.Edges() {
		i, j := rank[edge[0]], rank[edge[1]]
		e[i][j] += 1 / twoM
		e[j][i] += 1 / twoM
	}

	for {
		bi, bj, best := -1, -1, 0.0
		for i := range n {
			if !alive[i] {
				continue
			}
			for j, eij := range e[i] {
				if j <= i {
					continue
				}
				dq := 2 * (eij - a[i]*a[j])
				if dq > best || (dq == best && bi == i && j < bj) {
					bi, bj, best = i, j, dq
				}
			}
		}
		if bi < 0 {
			break
		}
		for k, ejk := range e[bj] {
			if k == bi {
				continue
			}
			e[bi][k] += ejk
			e[k][bi] = e[bi][k]
			delete(e[k], bj)
		}
		delete(e[bi], bj)
		e[bj] = nil
		a[bi] += a[bj]
		members[bi] = append(members[bi], members[bj]...)
		alive[bj] = false
	}

	var out [][]string
	for i := range n {
		if alive[i] {
			slices.Sort(members[i])
			out = append(out, members[i])
		}
	}
	slices.SortFunc(out, func(x, y []string) int {
		if c := cmp.Compare(len(y), len(x)); c != 0 {
			return c
		}
		return cmp.Compare(x[0], y[0])
	})
	return out
}

// communities turns a partition into report rows.
func communities(g *graph.Graph, parts [][]string) []schema.Community {
	out := make([]schema.Community, 0, len(parts))
	for i, p := range parts {
		items := 0
		for _, a := range p {
			items += g.Items(a)
		}
		out = append(out, schema.Community{
			Index:       i,
			Members:     slices.Clone(p),
			AuthorCount: len(p),
			ItemCount:   items,
		})
	}
	return out
}

// modularity scores a partition with gonum's Q at resolution 1.
func modularity(g *graph.Graph, parts [][]string) float64 {
	if g.EdgeCount() == 0 || len(parts) == 0 {
		return 0
	}
	u := g.Undirected()
	nodes := make([][]ggraph.Node, len(parts))
	for i, p := range parts {
		for _, a := range p {
			id, _ := g.ID(a)
			nodes[i] = append(nodes[i], u.Node(id))
		}
	}
	return community.Q(u, nodes, 1)
}
