package api

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"

	"cchrouter/pkg/service"
)

// PathService is the orchestrator contract the handlers depend on —
// satisfied by *service.Service, narrowed to what the HTTP layer needs.
type PathService interface {
	Initialize(ctx context.Context, numRoutes, numStorage int) bool
	FindPath(ctx context.Context, startLat, startLon, endLat, endLon float64) ([]service.StepRecord, *service.Summary, bool)
	FindScenicPath(ctx context.Context, startLat, startLon, endLat, endLon float64, pref service.RoutePreference) ([]service.StepRecord, *service.Summary, bool)
	Stats() (numVertices, numArcs, numShortcuts int, ok bool)
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	svc PathService
}

// NewHandlers creates handlers wired to the given orchestrator.
func NewHandlers(svc PathService) *Handlers {
	return &Handlers{svc: svc}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	if err := validateCoord(req.Start); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "start")
		return
	}
	if err := validateCoord(req.End); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "end")
		return
	}

	steps, summary, ok := h.svc.FindPath(r.Context(), req.Start.Lat, req.Start.Lng, req.End.Lat, req.End.Lng)
	if !ok {
		writeError(w, http.StatusNotFound, "no_route_found", "")
		return
	}

	writeRouteResponse(w, steps, summary)
}

// HandleScenicRoute handles POST /api/v1/route/scenic.
func (h *Handlers) HandleScenicRoute(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req ScenicRouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	if err := validateCoord(req.Start); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "start")
		return
	}
	if err := validateCoord(req.End); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "end")
		return
	}

	pref := service.RoutePreference{ScenicWeight: req.ScenicWeight}
	steps, summary, ok := h.svc.FindScenicPath(r.Context(), req.Start.Lat, req.Start.Lng, req.End.Lat, req.End.Lng, pref)
	if !ok {
		writeError(w, http.StatusNotFound, "no_route_found", "")
		return
	}

	writeRouteResponse(w, steps, summary)
}

// HandleInit handles POST /api/v1/init.
func (h *Handlers) HandleInit(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req InitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}
	if req.NumRoutes <= 0 || req.NumStorage < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	ok := h.svc.Initialize(r.Context(), req.NumRoutes, req.NumStorage)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "initialize_failed", "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(InitResponse{OK: true})
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	numVertices, numArcs, numShortcuts, ready := h.svc.Stats()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatsResponse{
		NumVertices:  numVertices,
		NumArcs:      numArcs,
		NumShortcuts: numShortcuts,
		Ready:        ready,
	})
}

func writeRouteResponse(w http.ResponseWriter, steps []service.StepRecord, summary *service.Summary) {
	resp := RouteResponse{
		Steps:                make([]StepJSON, len(steps)),
		TotalDistanceKM:      summary.TotalDistanceKM,
		TotalSteps:           summary.TotalSteps,
		EstimatedTimeMinutes: summary.EstimatedTimeMinutes,
	}
	for i, s := range steps {
		resp.Steps[i] = StepJSON{
			Step:        s.Step,
			Start:       LatLngJSON{Lat: s.StartLat, Lng: s.StartLng},
			End:         LatLngJSON{Lat: s.EndLat, Lng: s.EndLng},
			DistanceKM:  s.DistanceKM,
			Instruction: s.Instruction,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func validateCoord(ll LatLngJSON) error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return errors.New("coordinates must be finite numbers")
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return errors.New("coordinates out of range")
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
