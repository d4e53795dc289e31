// Package provider defines the collaborator interface the orchestrator
// pulls raw road-segment and bike-storage records through. The real
// municipal-HTTP-backed implementation (authentication, pagination, the
// actual open-data endpoint) is an external collaborator and out of scope
// for this module; this package ships only the interface and an
// in-memory/JSON fixture implementation for tests and local runs.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"cchrouter/pkg/graph"
)

// ErrUpstreamFailure is returned when a fetch cannot produce any usable
// records at all (as opposed to skipping a handful of malformed ones).
var ErrUpstreamFailure = errors.New("provider: upstream returned no usable records")

// Provider is the contract the graph builder and orchestrator depend on. A
// real implementation talks to a municipal open-data HTTP endpoint; this
// module only needs the shape.
type Provider interface {
	FetchSegments(ctx context.Context, n int) ([]graph.RawSegment, error)
	FetchStorage(ctx context.Context, n int) ([]StoragePoint, error)
}

// StoragePoint is a bike-storage location. It is retained by the
// orchestrator for reporting/lookup but never folded into the routing
// graph — it does not become a vertex and does not affect any shortest
// path.
type StoragePoint struct {
	Lat  float64
	Lon  float64
	Name string
}

// RawRecord mirrors the provider-facing wire contract: string-typed fields
// parseable as floats, matching the upstream API's own representation
// (numbers arrive as strings). Fields absent or parsing to zero cause the
// record to be skipped — zero is never a valid coordinate in this domain.
type RawRecord struct {
	StartLat string `json:"strtpntLat"`
	StartLon string `json:"strtpntLot"`
	EndLat   string `json:"endpntLat"`
	EndLon   string `json:"endpntLot"`
}

// StorageRecord is the wire shape for a single bike-storage entry.
type StorageRecord struct {
	Lat  string `json:"lat"`
	Lon  string `json:"lon"`
	Name string `json:"name"`
}

// Fixture is an in-memory Provider backed by pre-loaded records, for tests
// and local runs without a live upstream. FetchSegments/FetchStorage apply
// the same skip-on-zero-or-unparseable rule a real HTTP-backed provider's
// response would need to apply, and truncate to the requested count.
type Fixture struct {
	Records []RawRecord
	Storage []StorageRecord
	// FailFetch, when true, makes FetchSegments return ErrUpstreamFailure
	// unconditionally — for exercising the orchestrator's
	// Initialize-failure-preserves-prior-graph behavior in tests.
	FailFetch bool
}

// FetchSegments parses up to n of the fixture's raw records into
// RawSegments, skipping any with a missing, unparseable, or zero
// coordinate.
func (f *Fixture) FetchSegments(ctx context.Context, n int) ([]graph.RawSegment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.FailFetch {
		return nil, ErrUpstreamFailure
	}

	records := f.Records
	if n >= 0 && n < len(records) {
		records = records[:n]
	}

	var segs []graph.RawSegment
	for _, r := range records {
		seg, ok := parseSegment(r)
		if !ok {
			continue
		}
		segs = append(segs, seg)
	}
	if len(segs) == 0 {
		return nil, ErrUpstreamFailure
	}
	return segs, nil
}

// FetchStorage parses up to n of the fixture's storage records, skipping
// any with missing or unparseable coordinates.
func (f *Fixture) FetchStorage(ctx context.Context, n int) ([]StoragePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := f.Storage
	if n >= 0 && n < len(records) {
		records = records[:n]
	}

	var points []StoragePoint
	for _, r := range records {
		lat, err1 := strconv.ParseFloat(r.Lat, 64)
		lon, err2 := strconv.ParseFloat(r.Lon, 64)
		if err1 != nil || err2 != nil || lat == 0 || lon == 0 {
			continue
		}
		points = append(points, StoragePoint{Lat: lat, Lon: lon, Name: r.Name})
	}
	return points, nil
}

func parseSegment(r RawRecord) (graph.RawSegment, bool) {
	startLat, err1 := strconv.ParseFloat(r.StartLat, 64)
	startLon, err2 := strconv.ParseFloat(r.StartLon, 64)
	endLat, err3 := strconv.ParseFloat(r.EndLat, 64)
	endLon, err4 := strconv.ParseFloat(r.EndLon, 64)

	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return graph.RawSegment{}, false
	}
	if startLat == 0 || startLon == 0 || endLat == 0 || endLon == 0 {
		return graph.RawSegment{}, false
	}

	return graph.RawSegment{
		StartLat: startLat,
		StartLon: startLon,
		EndLat:   endLat,
		EndLon:   endLon,
	}, true
}

// LoadFixtureJSON unmarshals a JSON array of RawRecord into a Fixture's
// Records field — a convenience for local runs that keep a static sample
// dataset on disk instead of a live upstream.
func LoadFixtureJSON(data []byte) (*Fixture, error) {
	var records []RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return &Fixture{Records: records}, nil
}
