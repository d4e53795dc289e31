// Package service owns the full pipeline lifecycle: it pulls raw records
// from a Provider, builds and customizes the CCH graph, and exposes the
// three consumer-facing operations (Initialize, FindPath, FindScenicPath)
// that an HTTP layer sits on top of. It is the only package that touches
// more than one of graph/ch/routing/provider at once.
package service

import (
	"context"
	"errors"
	"log"
	"math"
	"sync"

	"cchrouter/pkg/ch"
	"cchrouter/pkg/graph"
	"cchrouter/pkg/provider"
	"cchrouter/pkg/routing"
)

// ErrNoGraph is returned when a query runs before a successful Initialize.
var ErrNoGraph = errors.New("service: no graph — call Initialize first")

// ErrPointTooFar is returned when a query endpoint's nearest vertex is
// farther away than MaxSnapDistanceMeters — the projector always returns
// *a* nearest vertex on a non-empty graph, but routing from one that's
// absurdly distant from the query point isn't a useful answer.
var ErrPointTooFar = errors.New("service: query point too far from any known road")

// DefaultMaxSnapDistanceMeters bounds how far a query coordinate may be
// from its nearest vertex before ErrPointTooFar kicks in.
const DefaultMaxSnapDistanceMeters = 2000.0

// DefaultConnectivityThresholdKM is passed to the enhancer during
// Initialize.
const DefaultConnectivityThresholdKM = graph.DefaultConnectivityThresholdKM

// averageSpeedKMH is used to estimate trip duration for the summary record.
const averageSpeedKMH = 15.0

// StepRecord is one leg of a route, matching the external serialization
// contract: 1-based step, endpoints in degrees, distance in km.
type StepRecord struct {
	Step        int
	StartLat    float64
	StartLng    float64
	EndLat      float64
	EndLng      float64
	DistanceKM  float64
	Instruction string
}

// Summary is appended once per route.
type Summary struct {
	TotalDistanceKM      float64
	TotalSteps           int
	EstimatedTimeMinutes float64
}

// RoutePreference configures a scenic query. ScenicWeight in [0,1]
// expresses how strongly the caller wants the biaser to favor scenic arcs
// over short ones; a weight of 0 means "same as a plain query".
type RoutePreference struct {
	ScenicWeight float64
}

// ScenicBiaser is the seam an external scenic-preference wrapper occupies:
// given the current graph and a preference, it returns the biased cost to
// use for a subset of original arcs. Returning a nil/empty map means "no
// bias", which is exactly what the default passthrough implementation
// does — the real scoring logic (terrain, greenery, traffic) is out of
// scope for this module.
type ScenicBiaser interface {
	BiasedCosts(ctx context.Context, g *graph.Graph, pref RoutePreference) map[graph.ArcID]float64
}

type passthroughBiaser struct{}

func (passthroughBiaser) BiasedCosts(context.Context, *graph.Graph, RoutePreference) map[graph.ArcID]float64 {
	return nil
}

// Service is the orchestrator. The zero value is not usable; construct
// with New.
type Service struct {
	mu       sync.RWMutex
	provider provider.Provider
	biaser   ScenicBiaser

	maxSnapDistanceMeters float64
	connectivityTauKM     float64
	combine               ch.CombineFunc

	initialized bool
	g           *graph.Graph
	engine      *routing.Engine
	storage     []provider.StoragePoint
}

// Option configures optional Service behavior.
type Option func(*Service)

// WithScenicBiaser overrides the default no-op ScenicBiaser.
func WithScenicBiaser(b ScenicBiaser) Option {
	return func(s *Service) { s.biaser = b }
}

// WithMaxSnapDistanceMeters overrides DefaultMaxSnapDistanceMeters.
func WithMaxSnapDistanceMeters(meters float64) Option {
	return func(s *Service) { s.maxSnapDistanceMeters = meters }
}

// WithConnectivityThresholdKM overrides the enhancer's τ.
func WithConnectivityThresholdKM(km float64) Option {
	return func(s *Service) { s.connectivityTauKM = km }
}

// New constructs a Service backed by the given Provider. The graph is not
// built until Initialize succeeds.
func New(p provider.Provider, opts ...Option) *Service {
	s := &Service{
		provider:              p,
		biaser:                passthroughBiaser{},
		maxSnapDistanceMeters: DefaultMaxSnapDistanceMeters,
		connectivityTauKM:     DefaultConnectivityThresholdKM,
		combine:               ch.DefaultCombine,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize fetches numRoutes segment records and numStorage storage
// records from the configured Provider and rebuilds the routing graph from
// scratch. On any failure — the provider errors, or returns zero usable
// segments — it logs and returns false without touching a previously
// successful graph, so a prior Initialize keeps serving queries.
func (s *Service) Initialize(ctx context.Context, numRoutes, numStorage int) bool {
	segments, err := s.provider.FetchSegments(ctx, numRoutes)
	if err != nil || len(segments) == 0 {
		log.Printf("service: initialize failed fetching segments: %v", err)
		return false
	}
	if ctx.Err() != nil {
		log.Printf("service: initialize canceled after segment fetch: %v", ctx.Err())
		return false
	}

	storage, err := s.provider.FetchStorage(ctx, numStorage)
	if err != nil {
		log.Printf("service: initialize: storage fetch failed, continuing without it: %v", err)
		storage = nil
	}

	g := graph.Build(segments)
	log.Printf("service: built graph with %d vertices, %d arcs", g.NumVertices(), g.NumArcs())
	if ctx.Err() != nil {
		return false
	}

	added := graph.Enhance(g, s.connectivityTauKM)
	log.Printf("service: connectivity enhancer added %d arcs", added)
	if ctx.Err() != nil {
		return false
	}

	graph.AssignRanks(g)
	if ctx.Err() != nil {
		return false
	}

	ch.Preprocess(g)
	if ctx.Err() != nil {
		return false
	}

	ch.Customize(g, s.combine)

	engine := routing.NewEngine(g)

	s.mu.Lock()
	s.g = g
	s.engine = engine
	s.storage = storage
	s.initialized = true
	s.mu.Unlock()

	log.Printf("service: initialize complete")
	return true
}

// FindPath projects both endpoints to their nearest vertex, runs the CCH
// query (falling back to plain Dijkstra internally), and converts the arc
// sequence to step/summary records.
func (s *Service) FindPath(ctx context.Context, startLat, startLon, endLat, endLon float64) ([]StepRecord, *Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		log.Printf("service: %v", ErrNoGraph)
		return nil, nil, false
	}

	source, target, ok := s.projectBothLocked(startLat, startLon, endLat, endLon)
	if !ok {
		return nil, nil, false
	}

	arcs, err := s.engine.Route(ctx, source, target)
	if err != nil {
		log.Printf("service: FindPath: %v", err)
		return nil, nil, false
	}

	steps, summary := s.toRecords(arcs)
	return steps, summary, true
}

// FindScenicPath runs the same pipeline as FindPath, but first asks the
// configured ScenicBiaser for biased original-arc costs, recustomizes with
// them, queries, and finally restores the unbiased costs so a later plain
// FindPath call over the same graph is unaffected. The whole
// bias/recustomize/query/restore sequence holds the write lock — it's
// serialized against concurrent scenic queries and against plain FindPath
// reads while in flight, but it doesn't hold the lock a moment longer than
// that one call needs.
func (s *Service) FindScenicPath(ctx context.Context, startLat, startLon, endLat, endLon float64, pref RoutePreference) ([]StepRecord, *Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		log.Printf("service: %v", ErrNoGraph)
		return nil, nil, false
	}

	source, target, ok := s.projectBothLocked(startLat, startLon, endLat, endLon)
	if !ok {
		return nil, nil, false
	}

	biased := s.biaser.BiasedCosts(ctx, s.g, pref)

	original := make(map[graph.ArcID]float64, s.g.NumArcs())
	for _, id := range s.g.AllArcs() {
		original[id] = s.g.Cost(id)
	}
	seed := make([]graph.ArcID, 0, len(biased))
	for id, cost := range biased {
		s.g.SetCost(id, cost)
		seed = append(seed, id)
	}
	if len(seed) > 0 {
		ch.Recustomize(s.g, seed, s.combine)
	}

	arcs, err := s.engine.Route(ctx, source, target)

	// Restore: write back every arc's cost as saved before the bias, which
	// undoes both the bias and whatever Recustomize derived from it.
	for id, cost := range original {
		s.g.SetCost(id, cost)
	}

	if err != nil {
		log.Printf("service: FindScenicPath: %v", err)
		return nil, nil, false
	}

	steps, summary := s.toRecords(arcs)
	return steps, summary, true
}

// Storage returns the bike-storage points retained from the last
// Initialize. They are reporting data only; they never affect routing.
func (s *Service) Storage() []provider.StoragePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storage
}

// Stats returns basic graph counts for a health/diagnostics endpoint.
func (s *Service) Stats() (numVertices, numArcs, numShortcuts int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return 0, 0, 0, false
	}
	shortcuts := 0
	for _, id := range s.g.AllArcs() {
		if s.g.IsShortcut(id) {
			shortcuts++
		}
	}
	return s.g.NumVertices(), s.g.NumArcs(), shortcuts, true
}

// projectBothLocked assumes the caller already holds s.mu (read or write).
func (s *Service) projectBothLocked(startLat, startLon, endLat, endLon float64) (graph.VertexID, graph.VertexID, bool) {
	source, sourceDist, ok := graph.NearestDistance(s.g, startLat, startLon)
	if !ok || sourceDist > s.maxSnapDistanceMeters {
		log.Printf("service: start point: %v (%v m)", ErrPointTooFar, sourceDist)
		return 0, 0, false
	}
	target, targetDist, ok := graph.NearestDistance(s.g, endLat, endLon)
	if !ok || targetDist > s.maxSnapDistanceMeters {
		log.Printf("service: end point: %v (%v m)", ErrPointTooFar, targetDist)
		return 0, 0, false
	}
	return source, target, true
}

func (s *Service) toRecords(arcs []graph.ArcID) ([]StepRecord, *Summary) {
	steps := make([]StepRecord, 0, len(arcs))
	var totalKM float64

	for i, id := range arcs {
		a := s.g.Arc(id)
		source := s.g.Vertex(a.Source)
		target := s.g.Vertex(a.Target)
		distKM := a.Cost / 1000
		totalKM += distKM

		steps = append(steps, StepRecord{
			Step:        i + 1,
			StartLat:    source.Lat,
			StartLng:    source.Lon,
			EndLat:      target.Lat,
			EndLng:      target.Lon,
			DistanceKM:  distKM,
			Instruction: instructionFor(a.Source, a.Target),
		})
	}

	summary := &Summary{
		TotalDistanceKM:      math.Round(totalKM*100) / 100,
		TotalSteps:           len(steps),
		EstimatedTimeMinutes: math.Round(totalKM / averageSpeedKMH * 60),
	}

	return steps, summary
}

func instructionFor(source, target graph.VertexID) string {
	return "continue from vertex " + itoa(uint32(source)) + " to vertex " + itoa(uint32(target))
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
