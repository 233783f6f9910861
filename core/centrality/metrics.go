package centrality

import (
	"github.com/huangsam/coredev/core/graph"
	ggraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/traverse"
)

// degreeCentrality is deg/(n-1); a lone author has centrality 1.
func degreeCentrality(g *graph.Graph) map[string]float64 {
	n := g.NodeCount()
	out := make(map[string]float64, n)
	for _, a := range g.Authors() {
		if n == 1 {
			out[a] = 1
			continue
		}
		out[a] = float64(g.Degree(a)) / float64(n-1)
	}
	return out
}

// closenessCentrality uses the Wasserman-Faust variant: the closeness inside
// the reachable component scaled by the share of the graph it covers.
func closenessCentrality(g *graph.Graph) map[string]float64 {
	n := g.NodeCount()
	out := make(map[string]float64, n)
	u := g.Undirected()
	for _, node := range ggraph.NodesOf(u.Nodes()) {
		name := g.Name(node.ID())
		out[name] = 0
		if n <= 1 {
			continue
		}
		reach, total := 0, 0
		var bf traverse.BreadthFirst
		bf.Walk(u, node, func(_ ggraph.Node, depth int) bool {
			reach++
			total += depth
			return false
		})
		if total > 0 {
			r := float64(reach - 1)
			out[name] = r / float64(total) * r / float64(n-1)
		}
	}
	return out
}

// betweennessCentrality normalizes Brandes betweenness to [0,1]. Ordered
// pairs are counted, so the scale is (n-1)(n-2).
func betweennessCentrality(g *graph.Graph) map[string]float64 {
	n := g.NodeCount()
	out := make(map[string]float64, n)
	for _, a := range g.Authors() {
		out[a] = 0
	}
	if n <= 2 {
		return out
	}
	scale := 1 / float64((n-1)*(n-2))
	for id, b := range network.Betweenness(g.Undirected()) {
		out[g.Name(id)] = clamp01(b * scale)
	}
	return out
}

// density is 2m/(n(n-1)).
func density(g *graph.Graph) float64 {
	n := g.NodeCount()
	if n <= 1 {
		return 0
	}
	return 2 * float64(g.EdgeCount()) / float64(n*(n-1))
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
