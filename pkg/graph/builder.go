package graph

import (
	"cchrouter/pkg/geo"
)

// RawSegment is the shape a Provider hands to Build: one road segment's raw
// endpoint coordinates, already parsed to float64 and validated non-zero by
// the caller.
type RawSegment struct {
	StartLat float64
	StartLon float64
	EndLat   float64
	EndLon   float64
}

// coordKey is a canonical dedup key: coordinates rounded to 6 decimal
// places, matching the reference builder's rounding.
type coordKey struct {
	lat, lon int64
}

const coordScale = 1e6

func roundCoord(v float64) int64 {
	if v < 0 {
		return int64(v*coordScale - 0.5)
	}
	return int64(v*coordScale + 0.5)
}

// Build constructs a graph from raw segments: endpoints are deduplicated by
// a rounded-coordinate key so repeated mentions of the same intersection
// collapse onto one vertex, and every segment becomes a bidirectional pair
// of arcs costed by haversine distance in meters (rounded half to even).
// Segments with any zero coordinate are skipped by the caller before they
// reach Build (the provider contract skips them at the source); Build
// itself has no further validity check beyond the coordinate rounding.
func Build(segments []RawSegment) *Graph {
	g := NewGraph()
	coordToVertex := make(map[coordKey]VertexID)

	vertexFor := func(lat, lon float64) VertexID {
		key := coordKey{roundCoord(lat), roundCoord(lon)}
		if id, ok := coordToVertex[key]; ok {
			return id
		}
		id := g.AddVertex(lat, lon)
		coordToVertex[key] = id
		return id
	}

	for _, seg := range segments {
		u := vertexFor(seg.StartLat, seg.StartLon)
		v := vertexFor(seg.EndLat, seg.EndLon)

		distKM := geo.Haversine(seg.StartLat, seg.StartLon, seg.EndLat, seg.EndLon) / 1000
		cost := geo.RoundMetersHalfEven(distKM)

		g.UpsertArc(u, v, cost)
		g.UpsertArc(v, u, cost)
	}

	return g
}
