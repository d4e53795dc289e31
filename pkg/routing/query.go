package routing

import (
	"context"
	"errors"
	"math"

	"cchrouter/pkg/ch"
	"cchrouter/pkg/graph"
)

// ErrUnreachable is returned when the bidirectional search exhausts both
// frontiers without the two sides ever meeting.
var ErrUnreachable = errors.New("routing: source and target are not connected")

// ErrIterationCapped is returned when the bidirectional search hits its
// iteration cap before finding a meeting vertex.
var ErrIterationCapped = errors.New("routing: search exceeded iteration cap")

// maxIterations caps the bidirectional search loop, protecting against
// pathological inputs (and, combined with the ctx check below, against
// starving a canceled caller).
const maxIterations = 1000

// Query runs the CCH bidirectional search between source and target and
// unpacks the winning path into original arcs. It implements two
// deliberate deviations from classical CCH, preserved from the reference
// behavior rather than "fixed": the search relaxes every incident arc
// without restricting to upward (higher-rank) neighbors, and it stops at
// the first settled meeting vertex rather than waiting until the top of
// both heaps is provably no better than the current best.
func Query(ctx context.Context, g *graph.Graph, source, target graph.VertexID, combine ch.CombineFunc) ([]graph.ArcID, error) {
	if source == target {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if direct, ok := g.ArcBetween(source, target); ok {
		return Unpack(g, direct, combine), nil
	}

	fwdDist := map[graph.VertexID]float64{source: 0}
	bwdDist := map[graph.VertexID]float64{target: 0}
	fwdSettled := map[graph.VertexID]bool{}
	bwdSettled := map[graph.VertexID]bool{}
	fwdParent := map[graph.VertexID]graph.ArcID{}
	bwdParent := map[graph.VertexID]graph.ArcID{}

	fwdHeap := &minHeap{}
	fwdHeap.Push(source, 0)
	bwdHeap := &minHeap{}
	bwdHeap.Push(target, 0)

	best := math.Inf(1)
	var meet graph.VertexID
	found := false

	iterations := 0
	for fwdHeap.Len() > 0 && bwdHeap.Len() > 0 && !found && iterations < maxIterations {
		iterations++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if fwdHeap.Len() > 0 {
			item := fwdHeap.Pop()
			u := item.vertex
			if !fwdSettled[u] && item.dist <= fwdDist[u] {
				fwdSettled[u] = true
				if d, ok := bwdDist[u]; ok {
					if candidate := item.dist + d; candidate < best {
						best = candidate
						meet = u
						found = true
					}
				}
				for _, arcID := range g.OutgoingArcs(u) {
					a := g.Arc(arcID)
					nd := item.dist + a.Cost
					if cur, ok := fwdDist[a.Target]; !ok || nd < cur {
						fwdDist[a.Target] = nd
						fwdParent[a.Target] = arcID
						fwdHeap.Push(a.Target, nd)
					}
				}
			}
		}

		if bwdHeap.Len() > 0 {
			item := bwdHeap.Pop()
			u := item.vertex
			if !bwdSettled[u] && item.dist <= bwdDist[u] {
				bwdSettled[u] = true
				if d, ok := fwdDist[u]; ok {
					if candidate := d + item.dist; candidate < best {
						best = candidate
						meet = u
						found = true
					}
				}
				for _, arcID := range g.IncomingArcs(u) {
					a := g.Arc(arcID)
					neighbor := a.Source
					nd := item.dist + a.Cost
					if cur, ok := bwdDist[neighbor]; !ok || nd < cur {
						bwdDist[neighbor] = nd
						bwdParent[neighbor] = arcID
						bwdHeap.Push(neighbor, nd)
					}
				}
			}
		}
	}

	if !found {
		if iterations >= maxIterations {
			return nil, ErrIterationCapped
		}
		return nil, ErrUnreachable
	}

	var fwdArcs []graph.ArcID
	cur := meet
	for {
		arcID, ok := fwdParent[cur]
		if !ok {
			break
		}
		fwdArcs = append(fwdArcs, arcID)
		cur = g.Arc(arcID).Source
	}
	for i, j := 0, len(fwdArcs)-1; i < j; i, j = i+1, j-1 {
		fwdArcs[i], fwdArcs[j] = fwdArcs[j], fwdArcs[i]
	}

	var bwdArcs []graph.ArcID
	cur = meet
	for {
		arcID, ok := bwdParent[cur]
		if !ok {
			break
		}
		bwdArcs = append(bwdArcs, arcID)
		cur = g.Arc(arcID).Target
	}

	var path []graph.ArcID
	for _, arcID := range fwdArcs {
		path = append(path, Unpack(g, arcID, combine)...)
	}
	for _, arcID := range bwdArcs {
		path = append(path, Unpack(g, arcID, combine)...)
	}

	return path, nil
}
