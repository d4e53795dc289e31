package routing

import (
	"context"

	"cchrouter/pkg/graph"
)

// Dijkstra runs standard single-source Dijkstra over the original arc
// table (shortcuts included in the table are traversed the same as any
// other arc — there's no CCH-specific structure involved here, this is a
// plain correctness fallback), stopping as soon as target is settled.
// Invoked when the CCH query comes back empty, to produce a correct answer
// even when preprocessing is under-built for the graph's actual shape.
func Dijkstra(ctx context.Context, g *graph.Graph, source, target graph.VertexID) ([]graph.ArcID, error) {
	if source == target {
		return nil, nil
	}

	dist := map[graph.VertexID]float64{source: 0}
	parent := map[graph.VertexID]graph.ArcID{}
	settled := map[graph.VertexID]bool{}

	h := &minHeap{}
	h.Push(source, 0)

	iterations := 0
	for h.Len() > 0 {
		iterations++
		if iterations%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		item := h.Pop()
		u := item.vertex
		if settled[u] || item.dist > dist[u] {
			continue
		}
		settled[u] = true
		if u == target {
			break
		}

		for _, arcID := range g.OutgoingArcs(u) {
			a := g.Arc(arcID)
			nd := item.dist + a.Cost
			if cur, ok := dist[a.Target]; !ok || nd < cur {
				dist[a.Target] = nd
				parent[a.Target] = arcID
				h.Push(a.Target, nd)
			}
		}
	}

	if !settled[target] {
		return nil, ErrUnreachable
	}

	var arcs []graph.ArcID
	cur := target
	for {
		arcID, ok := parent[cur]
		if !ok {
			break
		}
		arcs = append(arcs, arcID)
		cur = g.Arc(arcID).Source
	}
	for i, j := 0, len(arcs)-1; i < j; i, j = i+1, j-1 {
		arcs[i], arcs[j] = arcs[j], arcs[i]
	}

	return arcs, nil
}
