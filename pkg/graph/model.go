// Package graph holds the directed multigraph the routing engine operates
// over: vertices and arcs in append-only arenas addressed by stable integer
// ids, plus the triangle records that preprocessing attaches to shortcut
// arcs. Nothing in this package knows about contraction hierarchies —
// that's pkg/ch; this package only owns storage and the handful of
// mutations preprocessing/customization need.
package graph

import "math"

// VertexID is a stable index into the vertex arena, assigned at build time
// and never reused.
type VertexID uint32

// ArcID is a stable index into the arc arena. Triangles and the
// recustomizer's dependency tracking reference arcs by ArcID rather than by
// pointer, so the arena can grow freely without invalidating anything.
type ArcID uint32

// Vertex is a point in the road network.
type Vertex struct {
	ID   VertexID
	Lat  float64
	Lon  float64
	Rank uint32
}

// Arc is a directed edge. Cost is in meters; math.Inf(1) marks a shortcut
// whose cost has not yet been relaxed by the customizer. Whether an arc is
// an "original" arc or a "shortcut" is not a stored tag — it's whether
// Graph.Triangles(id) is non-empty.
type Arc struct {
	ID     ArcID
	Source VertexID
	Target VertexID
	Cost   float64
}

// Triangle is the pair of arcs that witnesses a shortcut's cost: a shortcut
// (v1->v2) created while contracting u carries the triangle
// (arc(v1->u), arc(u->v2)).
type Triangle struct {
	FromSide ArcID
	ToSide   ArcID
}

type arcKey struct {
	Source VertexID
	Target VertexID
}

// Graph is the arena-backed directed multigraph. The zero value is not
// usable; construct with NewGraph.
type Graph struct {
	vertices []Vertex
	arcs     []Arc
	arcIndex map[arcKey]ArcID

	outAdj map[VertexID][]ArcID
	inAdj  map[VertexID][]ArcID

	// triangles is keyed by the shortcut arc that the triangles witness.
	triangles map[ArcID][]Triangle
	// dependents[a] lists every shortcut arc whose triangle set mentions a
	// as a from-side or to-side. Populated alongside triangles so the
	// incremental recustomizer doesn't have to scan every triangle to find
	// what depends on a changed arc.
	dependents map[ArcID][]ArcID
}

// NewGraph returns an empty graph ready for vertex/arc insertion.
func NewGraph() *Graph {
	return &Graph{
		arcIndex:   make(map[arcKey]ArcID),
		outAdj:     make(map[VertexID][]ArcID),
		inAdj:      make(map[VertexID][]ArcID),
		triangles:  make(map[ArcID][]Triangle),
		dependents: make(map[ArcID][]ArcID),
	}
}

// AddVertex creates a new vertex with the next monotone id. Rank is zero
// until AssignRanks runs.
func (g *Graph) AddVertex(lat, lon float64) VertexID {
	id := VertexID(len(g.vertices))
	g.vertices = append(g.vertices, Vertex{ID: id, Lat: lat, Lon: lon})
	return id
}

// NumVertices returns the number of vertices in the arena.
func (g *Graph) NumVertices() int { return len(g.vertices) }

// NumArcs returns the number of arcs in the arena.
func (g *Graph) NumArcs() int { return len(g.arcs) }

// Vertex returns the vertex for id. Panics if id is out of range, matching
// the arena's "ids are always valid for their own graph" contract.
func (g *Graph) Vertex(id VertexID) Vertex { return g.vertices[id] }

// SetRank sets the immutable-after-preprocessing rank of a vertex.
func (g *Graph) SetRank(id VertexID, rank uint32) { g.vertices[id].Rank = rank }

// VertexByRank returns the vertex whose rank equals r, or false if none
// does (e.g. ranks haven't been assigned yet).
func (g *Graph) VertexByRank(r uint32) (VertexID, bool) {
	for _, v := range g.vertices {
		if v.Rank == r {
			return v.ID, true
		}
	}
	return 0, false
}

// Arc returns a copy of the arc for id.
func (g *Graph) Arc(id ArcID) Arc { return g.arcs[id] }

// Cost returns the current cost of arc id.
func (g *Graph) Cost(id ArcID) float64 { return g.arcs[id].Cost }

// SetCost mutates the cost of arc id. This is the only mutation allowed on
// an arc once inserted; after preprocessing completes its only callers are
// the customizer, the recustomizer, and the service's scenic bias/restore.
func (g *Graph) SetCost(id ArcID, cost float64) { g.arcs[id].Cost = cost }

// ArcBetween looks up the arc for an ordered (source, target) pair.
func (g *Graph) ArcBetween(source, target VertexID) (ArcID, bool) {
	id, ok := g.arcIndex[arcKey{source, target}]
	return id, ok
}

// UpsertArc creates the arc (source, target) if absent, or overwrites its
// cost if present (last-write-wins, matching the builder's duplicate-record
// handling). Returns the arc's id either way.
func (g *Graph) UpsertArc(source, target VertexID, cost float64) ArcID {
	key := arcKey{source, target}
	if id, ok := g.arcIndex[key]; ok {
		g.arcs[id].Cost = cost
		return id
	}
	return g.insertArc(source, target, cost)
}

// EnsureShortcut returns the arc (v1, v2), creating it with cost +Inf if it
// doesn't already exist. created reports whether a new arc was inserted; if
// false, an existing arc's cost is left untouched, per the preprocessor's
// contract of never overwriting a direct arc's cost with a shortcut.
func (g *Graph) EnsureShortcut(v1, v2 VertexID) (id ArcID, created bool) {
	key := arcKey{v1, v2}
	if id, ok := g.arcIndex[key]; ok {
		return id, false
	}
	return g.insertArc(v1, v2, math.Inf(1)), true
}

func (g *Graph) insertArc(source, target VertexID, cost float64) ArcID {
	id := ArcID(len(g.arcs))
	g.arcs = append(g.arcs, Arc{ID: id, Source: source, Target: target, Cost: cost})
	g.arcIndex[arcKey{source, target}] = id
	g.outAdj[source] = append(g.outAdj[source], id)
	g.inAdj[target] = append(g.inAdj[target], id)
	return id
}

// OutgoingArcs returns the ids of arcs whose source is v, in insertion
// order.
func (g *Graph) OutgoingArcs(v VertexID) []ArcID { return g.outAdj[v] }

// IncomingArcs returns the ids of arcs whose target is v, in insertion
// order.
func (g *Graph) IncomingArcs(v VertexID) []ArcID { return g.inAdj[v] }

// AllArcs returns every arc id in arena (insertion) order.
func (g *Graph) AllArcs() []ArcID {
	ids := make([]ArcID, len(g.arcs))
	for i := range g.arcs {
		ids[i] = ArcID(i)
	}
	return ids
}

// AddTriangle attaches a witness triangle to a shortcut arc, and records the
// reverse dependency: both fromSide and toSide gain shortcut in their
// dependents list so the incremental recustomizer can find it.
func (g *Graph) AddTriangle(shortcut, fromSide, toSide ArcID) {
	g.triangles[shortcut] = append(g.triangles[shortcut], Triangle{FromSide: fromSide, ToSide: toSide})
	g.dependents[fromSide] = append(g.dependents[fromSide], shortcut)
	g.dependents[toSide] = append(g.dependents[toSide], shortcut)
}

// Triangles returns the lower triangles witnessing arc id, or nil if id is
// an original (non-shortcut) arc.
func (g *Graph) Triangles(id ArcID) []Triangle { return g.triangles[id] }

// IsShortcut reports whether id has at least one witness triangle. This is
// the tag distinguishing a shortcut from an original arc — there is no
// separate stored flag.
func (g *Graph) IsShortcut(id ArcID) bool { return len(g.triangles[id]) > 0 }

// Dependents returns every shortcut arc whose triangle set references id as
// a from-side or to-side. Used by the incremental recustomizer to find what
// might need re-relaxing after id's cost changes.
func (g *Graph) Dependents(id ArcID) []ArcID { return g.dependents[id] }
