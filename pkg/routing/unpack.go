package routing

import (
	"math"

	"cchrouter/pkg/ch"
	"cchrouter/pkg/graph"
)

// unpackTolerance is the absolute cost-match tolerance used to decide
// whether a triangle is still a faithful witness for a shortcut's current
// cost. Arc costs are carried as float64 throughout (not re-quantized to
// integers after the builder's initial rounding), so this tolerance is
// doing real floating-point work rather than guarding against integer
// rounding that can no longer occur.
const unpackTolerance = 1e-3

// Unpack expands arc id into the sequence of original (non-shortcut) arcs
// it represents. An arc with no triangles is already original and is
// returned as-is.
func Unpack(g *graph.Graph, id graph.ArcID, combine ch.CombineFunc) []graph.ArcID {
	maxDepth := g.NumVertices() + 64
	var out []graph.ArcID
	unpack(g, id, combine, &out, 0, maxDepth)
	return out
}

func unpack(g *graph.Graph, id graph.ArcID, combine ch.CombineFunc, out *[]graph.ArcID, depth, maxDepth int) {
	if depth >= maxDepth {
		// Malformed graph (a triangle cycle that shouldn't be reachable by
		// construction) — fail safe by emitting the shortcut as-is rather
		// than recursing further.
		*out = append(*out, id)
		return
	}

	triangles := g.Triangles(id)
	if len(triangles) == 0 {
		*out = append(*out, id)
		return
	}

	cost := g.Cost(id)
	best := math.Inf(1)
	var bestTriangle graph.Triangle
	found := false

	for _, t := range triangles {
		sum := combine(g.Cost(t.FromSide), g.Cost(t.ToSide))
		compatible := math.Abs(sum-cost) < unpackTolerance || sum < cost
		if compatible && sum < best {
			best = sum
			bestTriangle = t
			found = true
		}
	}

	if !found {
		*out = append(*out, id)
		return
	}

	unpack(g, bestTriangle.FromSide, combine, out, depth+1, maxDepth)
	unpack(g, bestTriangle.ToSide, combine, out, depth+1, maxDepth)
}
