package ch

import (
	"math"
	"testing"

	"cchrouter/pkg/graph"
)

// TestCustomizeTrivialTriangle is scenario 1 from the spec's end-to-end
// test suite: after preprocessing and customizing, the a->c shortcut's
// cost collapses to the triangle sum (100+100=200) because it beats the
// direct 300 arc.
func TestCustomizeTrivialTriangle(t *testing.T) {
	g, a, _, c := buildTriangle(t, 300)
	Preprocess(g)
	Customize(g, DefaultCombine)

	ac, _ := g.ArcBetween(a, c)
	if g.Cost(ac) != 200 {
		t.Errorf("a->c cost = %v, want 200", g.Cost(ac))
	}
}

// TestCustomizeNoShortcutWins is scenario 2: a direct arc cheaper than the
// triangle sum keeps its own cost.
func TestCustomizeNoShortcutWins(t *testing.T) {
	g, a, _, c := buildTriangle(t, 150)
	Preprocess(g)
	Customize(g, DefaultCombine)

	ac, _ := g.ArcBetween(a, c)
	if g.Cost(ac) != 150 {
		t.Errorf("a->c cost = %v, want 150 (min(150, 200))", g.Cost(ac))
	}
}

func TestCustomizeInvariantCostLEQTriangleMin(t *testing.T) {
	g, a, _, c := buildTriangle(t, 300)
	Preprocess(g)
	Customize(g, DefaultCombine)

	for _, id := range g.AllArcs() {
		triangles := g.Triangles(id)
		if len(triangles) == 0 {
			continue
		}
		min := math.Inf(1)
		for _, tr := range triangles {
			sum := DefaultCombine(g.Cost(tr.FromSide), g.Cost(tr.ToSide))
			if sum < min {
				min = sum
			}
		}
		if g.Cost(id) > min+1e-9 {
			t.Errorf("arc %d cost %v exceeds triangle minimum %v", id, g.Cost(id), min)
		}
	}
	_ = a
	_ = c
}

func TestCustomizeIsIdempotent(t *testing.T) {
	g, _, _, _ := buildTriangle(t, 300)
	Preprocess(g)
	Customize(g, DefaultCombine)

	before := make(map[graph.ArcID]float64)
	for _, id := range g.AllArcs() {
		before[id] = g.Cost(id)
	}

	Customize(g, DefaultCombine)

	for _, id := range g.AllArcs() {
		if g.Cost(id) != before[id] {
			t.Errorf("arc %d cost changed on second customize: %v -> %v", id, before[id], g.Cost(id))
		}
	}
}

func TestResetShortcutsThenCustomizeRecoversSameCosts(t *testing.T) {
	g, _, _, _ := buildTriangle(t, 300)
	Preprocess(g)
	Customize(g, DefaultCombine)

	before := make(map[graph.ArcID]float64)
	for _, id := range g.AllArcs() {
		before[id] = g.Cost(id)
	}

	ResetShortcuts(g)
	Customize(g, DefaultCombine)

	for _, id := range g.AllArcs() {
		if g.Cost(id) != before[id] {
			t.Errorf("arc %d cost after reset+recustomize = %v, want %v", id, g.Cost(id), before[id])
		}
	}
}
