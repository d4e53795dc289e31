package ch

import (
	"container/heap"

	"cchrouter/pkg/graph"
)

// pqEntry is one arc waiting to be (re-)relaxed, ordered by its cost at the
// time it was enqueued.
type pqEntry struct {
	arc   graph.ArcID
	cost  float64
	index int
}

type arcHeap []*pqEntry

func (h arcHeap) Len() int            { return len(h) }
func (h arcHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h arcHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *arcHeap) Push(x interface{}) {
	e := x.(*pqEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *arcHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Recustomize incrementally re-relaxes a set of arcs whose costs have
// changed or may have changed, propagating to dependents as needed rather
// than re-sweeping the whole graph. An arc b is affected by a's change when
// a triangle pairs them and either a's cost decreased (a new minimum may
// exist for b) or b's previous cost exactly equaled its triangle sum
// through a (the witness has weakened and b may need to rise back toward
// another witness, or in practice stay the same since this pass only ever
// lowers costs — see ResetShortcuts for the "must go up" case). This is a
// conservative superset of the true dependency set, not a tight one.
func Recustomize(g *graph.Graph, seed []graph.ArcID, combine CombineFunc) {
	h := make(arcHeap, 0, len(seed))
	enqueued := make(map[graph.ArcID]bool, len(seed))
	seeded := make(map[graph.ArcID]bool, len(seed))
	for _, id := range seed {
		h = append(h, &pqEntry{arc: id, cost: g.Cost(id)})
		enqueued[id] = true
		seeded[id] = true
	}
	heap.Init(&h)

	for h.Len() > 0 {
		entry := heap.Pop(&h).(*pqEntry)
		id := entry.arc
		delete(enqueued, id)
		// A seed arc's cost changed before this call, so its dependents are
		// re-relaxed even when relaxing the seed itself changes nothing.
		wasSeed := seeded[id]
		delete(seeded, id)

		oldCost := g.Cost(id)
		newCost := relax(g, id, combine)

		if newCost == oldCost && !wasSeed {
			continue
		}
		decreased := newCost < oldCost

		for _, dep := range g.Dependents(id) {
			if !wasSeed && !affected(g, dep, id, oldCost, decreased, combine) {
				continue
			}
			if enqueued[dep] {
				continue
			}
			heap.Push(&h, &pqEntry{arc: dep, cost: g.Cost(dep)})
			enqueued[dep] = true
		}
	}
}

// affected reports whether dep needs re-relaxing given that changed just
// moved from oldCost to a new value. dep is only in g.Dependents(changed)
// if one of its triangles uses changed as a from-side or to-side, so we
// just need to decide whether *this* change could matter to it.
func affected(g *graph.Graph, dep, changed graph.ArcID, oldCost float64, decreased bool, combine CombineFunc) bool {
	if decreased {
		return true
	}
	for _, t := range g.Triangles(dep) {
		if t.FromSide != changed && t.ToSide != changed {
			continue
		}
		var oldSum float64
		if t.FromSide == changed {
			oldSum = combine(oldCost, g.Cost(t.ToSide))
		} else {
			oldSum = combine(g.Cost(t.FromSide), oldCost)
		}
		if g.Cost(dep) == oldSum {
			return true
		}
	}
	return false
}
