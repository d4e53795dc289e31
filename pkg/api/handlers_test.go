package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cchrouter/pkg/service"
)

// mockService implements PathService for testing.
type mockService struct {
	steps      []service.StepRecord
	summary    *service.Summary
	findOK     bool
	initOK     bool
	statsReady bool
}

func (m *mockService) Initialize(ctx context.Context, numRoutes, numStorage int) bool {
	return m.initOK
}

func (m *mockService) FindPath(ctx context.Context, startLat, startLon, endLat, endLon float64) ([]service.StepRecord, *service.Summary, bool) {
	return m.steps, m.summary, m.findOK
}

func (m *mockService) FindScenicPath(ctx context.Context, startLat, startLon, endLat, endLon float64, pref service.RoutePreference) ([]service.StepRecord, *service.Summary, bool) {
	return m.steps, m.summary, m.findOK
}

func (m *mockService) Stats() (int, int, int, bool) {
	return 10, 20, 5, m.statsReady
}

func TestHandleRoute_Success(t *testing.T) {
	mock := &mockService{
		steps: []service.StepRecord{
			{Step: 1, StartLat: 1.3, StartLng: 103.8, EndLat: 1.35, EndLng: 103.85, DistanceKM: 1.2345, Instruction: "continue"},
		},
		summary: &service.Summary{TotalDistanceKM: 1.23, TotalSteps: 1, EstimatedTimeMinutes: 5},
		findOK:  true,
	}
	h := NewHandlers(mock)

	body := `{"start":{"lat":1.3,"lng":103.8},"end":{"lat":1.35,"lng":103.85}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}

	var resp RouteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalDistanceKM != 1.23 {
		t.Errorf("TotalDistanceKM = %v, want 1.23", resp.TotalDistanceKM)
	}
	if len(resp.Steps) != 1 {
		t.Errorf("Steps length = %d, want 1", len(resp.Steps))
	}
}

func TestHandleRoute_InvalidJSON(t *testing.T) {
	h := NewHandlers(&mockService{})

	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_MissingContentType(t *testing.T) {
	h := NewHandlers(&mockService{})

	body := `{"start":{"lat":1.3,"lng":103.8},"end":{"lat":1.35,"lng":103.85}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_OutOfBounds(t *testing.T) {
	h := NewHandlers(&mockService{})

	// Latitude out of valid range (-90 to 90).
	body := `{"start":{"lat":91.0,"lng":103.8},"end":{"lat":1.35,"lng":103.85}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRoute_NoRoute(t *testing.T) {
	mock := &mockService{findOK: false}
	h := NewHandlers(mock)

	body := `{"start":{"lat":1.3,"lng":103.8},"end":{"lat":1.35,"lng":103.85}}`
	req := httptest.NewRequest("POST", "/api/v1/route", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleRoute(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHandleScenicRoute_Success(t *testing.T) {
	mock := &mockService{
		steps:   []service.StepRecord{{Step: 1, DistanceKM: 1}},
		summary: &service.Summary{TotalDistanceKM: 1, TotalSteps: 1, EstimatedTimeMinutes: 4},
		findOK:  true,
	}
	h := NewHandlers(mock)

	body := `{"start":{"lat":1.3,"lng":103.8},"end":{"lat":1.35,"lng":103.85},"scenic_weight":0.8}`
	req := httptest.NewRequest("POST", "/api/v1/route/scenic", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleScenicRoute(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}
}

func TestHandleInit_Success(t *testing.T) {
	mock := &mockService{initOK: true}
	h := NewHandlers(mock)

	body := `{"num_routes":100,"num_storage":10}`
	req := httptest.NewRequest("POST", "/api/v1/init", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleInit(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200. body: %s", w.Code, w.Body.String())
	}
}

func TestHandleInit_Failure(t *testing.T) {
	mock := &mockService{initOK: false}
	h := NewHandlers(mock)

	body := `{"num_routes":100,"num_storage":10}`
	req := httptest.NewRequest("POST", "/api/v1/init", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleInit(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestHandleInit_InvalidRequest(t *testing.T) {
	h := NewHandlers(&mockService{})

	body := `{"num_routes":0,"num_storage":10}`
	req := httptest.NewRequest("POST", "/api/v1/init", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.HandleInit(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := NewHandlers(&mockService{})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp HealthResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want 'ok'", resp.Status)
	}
}

func TestHandleStats(t *testing.T) {
	h := NewHandlers(&mockService{statsReady: true})

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	w := httptest.NewRecorder()

	h.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	var resp StatsResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.NumVertices != 10 || !resp.Ready {
		t.Errorf("resp = %+v, want NumVertices=10, Ready=true", resp)
	}
}
