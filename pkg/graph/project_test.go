package graph

import "testing"

func TestNearestOnEmptyGraph(t *testing.T) {
	g := NewGraph()
	if _, ok := Nearest(g, 1.0, 103.0); ok {
		t.Fatal("Nearest on empty graph should return false")
	}
}

func TestNearestPicksClosest(t *testing.T) {
	g := NewGraph()
	far := g.AddVertex(10, 10)
	near := g.AddVertex(1.0001, 103.0001)
	g.AddVertex(-10, -10)

	got, ok := Nearest(g, 1.0, 103.0)
	if !ok {
		t.Fatal("expected a match")
	}
	if got != near {
		t.Errorf("Nearest = %d, want %d (far vertex id %d)", got, near, far)
	}
}

func TestNearestDistanceReportsMeters(t *testing.T) {
	g := NewGraph()
	g.AddVertex(1.0, 103.0)

	_, dist, ok := NearestDistance(g, 1.0, 103.0)
	if !ok {
		t.Fatal("expected a match")
	}
	if dist != 0 {
		t.Errorf("distance to exact match = %v, want 0", dist)
	}
}
