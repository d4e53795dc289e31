package ch

import (
	"math"
	"sort"

	"cchrouter/pkg/graph"
)

// Customize performs the metric-dependent phase: arcs are relaxed in
// ascending order of source rank, so by the time a shortcut is reached
// every triangle witnessing it has already converged (that is how
// Preprocess built them: a triangle's to-side starts at the contracted
// vertex, whose rank is below the shortcut's source, and its from-side runs
// from the shortcut's source down to that vertex, an arc that never carries
// a triangle and so is never relaxed). Original arcs have no triangles and
// are left untouched.
func Customize(g *graph.Graph, combine CombineFunc) {
	ids := g.AllArcs()
	sort.Slice(ids, func(i, j int) bool {
		return g.Vertex(g.Arc(ids[i]).Source).Rank < g.Vertex(g.Arc(ids[j]).Source).Rank
	})

	for _, id := range ids {
		relax(g, id, combine)
	}
}

// relax recomputes id's cost as the minimum of its current cost and every
// triangle sum through it, and applies the new value if it's lower.
func relax(g *graph.Graph, id graph.ArcID, combine CombineFunc) float64 {
	triangles := g.Triangles(id)
	if len(triangles) == 0 {
		return g.Cost(id)
	}

	best := g.Cost(id)
	for _, t := range triangles {
		sum := combine(g.Cost(t.FromSide), g.Cost(t.ToSide))
		if sum < best {
			best = sum
		}
	}

	if best != g.Cost(id) {
		g.SetCost(id, best)
	}
	return best
}

// ResetShortcuts sets every shortcut arc's cost back to +Inf and leaves
// original arcs untouched, so a fresh Customize pass recomputes shortcut
// costs from their triangles alone, whatever they were beforehand. The
// incremental recustomizer cannot do this, since its recompute rule can
// only ever lower a cost. A shortcut here is any arc with a triangle,
// including a builder arc that Preprocess attached a triangle to; such an
// arc comes back at its triangle minimum, not at its builder cost.
func ResetShortcuts(g *graph.Graph) {
	for _, id := range g.AllArcs() {
		if g.IsShortcut(id) {
			g.SetCost(id, math.Inf(1))
		}
	}
}
