package graph

import "cchrouter/pkg/geo"

// Nearest returns the id of the vertex closest to (lat, lon) by haversine
// distance, found by a linear scan. Returns false if the graph has no
// vertices.
func Nearest(g *Graph, lat, lon float64) (VertexID, bool) {
	if g.NumVertices() == 0 {
		return 0, false
	}

	best := VertexID(0)
	bestDist := geo.Haversine(lat, lon, g.vertices[0].Lat, g.vertices[0].Lon)

	for i := 1; i < len(g.vertices); i++ {
		v := g.vertices[i]
		d := geo.Haversine(lat, lon, v.Lat, v.Lon)
		if d < bestDist {
			bestDist = d
			best = v.ID
		}
	}

	return best, true
}

// NearestDistance is Nearest plus the haversine distance in meters to the
// match, so callers can reject matches beyond a maximum snap radius.
func NearestDistance(g *Graph, lat, lon float64) (id VertexID, distanceMeters float64, ok bool) {
	id, ok = Nearest(g, lat, lon)
	if !ok {
		return 0, 0, false
	}
	v := g.Vertex(id)
	return id, geo.Haversine(lat, lon, v.Lat, v.Lon), true
}
