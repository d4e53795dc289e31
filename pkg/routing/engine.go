package routing

import (
	"context"
	"errors"

	"cchrouter/pkg/ch"
	"cchrouter/pkg/graph"
)

// Router is the interface the orchestrator and HTTP layer depend on,
// letting tests substitute a stub without building a real CCH graph.
type Router interface {
	Route(ctx context.Context, source, target graph.VertexID) ([]graph.ArcID, error)
}

// Engine wires the CCH bidirectional query to the Dijkstra fallback: a
// caller always gets the CCH-accelerated answer when one exists, and a
// slower but correct answer when it doesn't.
type Engine struct {
	g       *graph.Graph
	combine ch.CombineFunc
}

// NewEngine builds a query engine over an already preprocessed and
// customized graph.
func NewEngine(g *graph.Graph) *Engine {
	return &Engine{g: g, combine: ch.DefaultCombine}
}

// Route returns the shortest-path arc sequence between source and target,
// falling back to plain Dijkstra when the CCH search is unreachable or hits
// its iteration cap. A canceled/deadline-exceeded context short-circuits
// both attempts and is returned directly rather than triggering a fallback
// that would just immediately fail the same way.
func (e *Engine) Route(ctx context.Context, source, target graph.VertexID) ([]graph.ArcID, error) {
	path, err := Query(ctx, e.g, source, target, e.combine)
	if err == nil {
		return path, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	return Dijkstra(ctx, e.g, source, target)
}
