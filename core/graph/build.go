package graph

import (
	"slices"

	"github.com/huangsam/coredev/core/batch"
	"github.com/huangsam/coredev/schema"
)

// relatedWindowMonths bounds how far apart two commits may be for their
// authors to count as collaborators.
const relatedWindowMonths = 1

// BuildCommitGraph links every pair of distinct authors that committed within
// one calendar month of each other. An author's item weight is its commit
// count. The input slice is not modified.
func BuildCommitGraph(commits []schema.CommitRecord) *Graph {
	sorted := slices.Clone(commits)
	slices.SortStableFunc(sorted, func(a, b schema.CommitRecord) int {
		return a.CommittedAt.Compare(b.CommittedAt)
	})

	g := New()
	for _, c := range sorted {
		g.AddItems(c.Author, 1)
	}

	// window holds per-author commit counts in [lo, hi) of sorted
	window := map[string]int{}
	lo, hi := 0, 0
	for _, c := range sorted {
		from := batch.AddMonths(c.CommittedAt, -relatedWindowMonths)
		to := batch.AddMonths(c.CommittedAt, relatedWindowMonths)
		for hi < len(sorted) && !sorted[hi].CommittedAt.After(to) {
			window[sorted[hi].Author]++
			hi++
		}
		for lo < hi && sorted[lo].CommittedAt.Before(from) {
			if window[sorted[lo].Author]--; window[sorted[lo].Author] == 0 {
				delete(window, sorted[lo].Author)
			}
			lo++
		}
		for other := range window {
			g.AddEdge(c.Author, other)
		}
	}
	return g
}

// BuildParticipationGraph links every pair of distinct participants of the
// same pull request or issue. An author's item weight is the number of lists
// it appears in.
func BuildParticipationGraph(lists [][]string) *Graph {
	g := New()
	for _, list := range lists {
		members := uniqueMembers(list)
		for i, a := range members {
			g.AddItems(a, 1)
			for _, b := range members[i+1:] {
				g.AddEdge(a, b)
			}
		}
	}
	return g
}

// BuildCoreGraph is the commit graph of the authors in cores only.
func BuildCoreGraph(commits []schema.CommitRecord, cores []string) *Graph {
	keep := make(map[string]struct{}, len(cores))
	for _, c := range cores {
		keep[c] = struct{}{}
	}
	var filtered []schema.CommitRecord
	for _, c := range commits {
		if _, ok := keep[c.Author]; ok {
			filtered = append(filtered, c)
		}
	}
	return BuildCommitGraph(filtered)
}

func uniqueMembers(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, a := range list {
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
