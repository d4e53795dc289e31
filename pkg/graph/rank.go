package graph

import "sort"

// AssignRanks computes an approximate contraction order: each vertex's
// importance is its degree (the number of arc-table keys it appears in as
// either endpoint), sorted descending, and each vertex's rank is its
// position in that order — so the highest-degree vertex gets rank 0 and is
// the first one Preprocess contracts. Ties break by ascending vertex id for
// determinism. This is a weak heuristic by design — nested dissection or
// edge-difference orderings can be substituted without touching anything
// downstream, since preprocessing and customization only consume the
// resulting Rank field.
func AssignRanks(g *Graph) {
	degree := make([]int, g.NumVertices())
	for _, id := range g.AllArcs() {
		a := g.arcs[id]
		degree[a.Source]++
		degree[a.Target]++
	}

	order := make([]VertexID, g.NumVertices())
	for i := range order {
		order[i] = VertexID(i)
	}

	sort.Slice(order, func(i, j int) bool {
		vi, vj := order[i], order[j]
		if degree[vi] != degree[vj] {
			return degree[vi] > degree[vj]
		}
		return vi < vj
	})

	for rank, id := range order {
		g.SetRank(id, uint32(rank))
	}
}
