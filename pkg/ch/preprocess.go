package ch

import "cchrouter/pkg/graph"

// Preprocess performs the metric-independent phase: for every vertex in
// ascending rank order, every ordered pair of its upward neighbors (higher
// rank than it) gets a shortcut arc recording the triangle through the
// contracted vertex. It does not look at arc costs beyond using +Inf for a
// freshly created shortcut, and it never touches the cost of an arc that
// already exists — that's the customizer's job.
//
// The asymmetric rank(v1) < rank(v2) constraint means at most one shortcut
// is inserted per unordered upward pair per contracted vertex; the
// bidirectional query compensates by searching both arc directions rather
// than relying on a v2->v1 shortcut also existing.
func Preprocess(g *graph.Graph) {
	n := g.NumVertices()
	for r := uint32(0); r < uint32(n); r++ {
		u, ok := g.VertexByRank(r)
		if !ok {
			continue
		}

		var upNeighbors []graph.VertexID
		for _, arcID := range g.OutgoingArcs(u) {
			a := g.Arc(arcID)
			if g.Vertex(a.Target).Rank > r {
				upNeighbors = append(upNeighbors, a.Target)
			}
		}

		for _, v1 := range upNeighbors {
			for _, v2 := range upNeighbors {
				if v1 == v2 {
					continue
				}
				if g.Vertex(v1).Rank >= g.Vertex(v2).Rank {
					continue
				}

				arcV1U, ok1 := g.ArcBetween(v1, u)
				arcUV2, ok2 := g.ArcBetween(u, v2)
				if !ok1 || !ok2 {
					continue
				}

				shortcut, _ := g.EnsureShortcut(v1, v2)
				g.AddTriangle(shortcut, arcV1U, arcUV2)
			}
		}
	}
}
