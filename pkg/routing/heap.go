// Package routing implements the bidirectional CCH query, shortcut
// unpacking, and the plain-Dijkstra fallback that runs when the CCH query
// comes up empty.
package routing

import "cchrouter/pkg/graph"

// heapItem is one vertex waiting to be settled, at the distance it was
// known at push time.
type heapItem struct {
	vertex graph.VertexID
	dist   float64
}

// minHeap is a concrete-typed binary min-heap over heapItem, avoiding the
// interface-boxing overhead of container/heap in this performance-sensitive
// per-query loop. Stale entries (pushed before a vertex's distance improved
// again) are left in place and skipped lazily on pop — cheaper than a
// decrease-key operation for graphs this size.
type minHeap struct {
	items []heapItem
}

func (h *minHeap) Len() int { return len(h.items) }

func (h *minHeap) Push(v graph.VertexID, dist float64) {
	h.items = append(h.items, heapItem{v, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *minHeap) Pop() heapItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *minHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].dist >= h.items[parent].dist {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *minHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].dist < h.items[smallest].dist {
			smallest = left
		}
		if right < n && h.items[right].dist < h.items[smallest].dist {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
