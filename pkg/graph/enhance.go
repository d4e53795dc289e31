package graph

import (
	"cchrouter/pkg/geo"

	"github.com/tidwall/rtree"
)

// DefaultConnectivityThresholdKM is the default τ for Enhance: vertices
// within this great-circle distance of each other that aren't already
// connected get a direct bidirectional arc.
const DefaultConnectivityThresholdKM = 0.1

// Enhance adds bidirectional arcs between every pair of vertices whose
// haversine distance is <= tauKM and which aren't already connected in
// either direction. The reference behavior is an O(V^2) pairwise scan; this
// implementation indexes vertices in an R-tree keyed by a bounding box sized
// from tauKM and queries it per vertex to shrink the candidate set before
// the exact haversine check, so the set of arcs added is identical to the
// naive scan — this only prunes which pairs get the haversine check, not
// which pairs qualify. Returns the number of arcs added.
func Enhance(g *Graph, tauKM float64) int {
	n := g.NumVertices()
	if n == 0 {
		return 0
	}

	var tr rtree.RTreeG[VertexID]
	for i := 0; i < n; i++ {
		v := g.vertices[i]
		tr.Insert([2]float64{v.Lon, v.Lat}, [2]float64{v.Lon, v.Lat}, v.ID)
	}

	added := 0
	for i := 0; i < n; i++ {
		v1 := g.vertices[i]
		latMargin, lonMargin := geo.DegreeMargin(tauKM, v1.Lat)

		min := [2]float64{v1.Lon - lonMargin, v1.Lat - latMargin}
		max := [2]float64{v1.Lon + lonMargin, v1.Lat + latMargin}

		tr.Search(min, max, func(_, _ [2]float64, id2 VertexID) bool {
			if id2 <= v1.ID {
				// Only consider each unordered pair once, matching the
				// reference's i < j enumeration.
				return true
			}
			v2 := g.vertices[id2]

			if _, ok := g.ArcBetween(v1.ID, v2.ID); ok {
				return true
			}
			if _, ok := g.ArcBetween(v2.ID, v1.ID); ok {
				return true
			}

			distKM := geo.Haversine(v1.Lat, v1.Lon, v2.Lat, v2.Lon) / 1000
			if distKM > tauKM {
				return true
			}

			cost := geo.RoundMetersHalfEven(distKM)
			g.UpsertArc(v1.ID, v2.ID, cost)
			g.UpsertArc(v2.ID, v1.ID, cost)
			added += 2

			return true
		})
	}

	return added
}
