package runtime

import (
	"errors"
	"math"
	"testing"

	"github.com/sylvanmoss/manifold/pkg/domain"
)

func testBasis() []domain.BasisState {
	return []domain.BasisState{
		{Label: "rest", Vector: []float64{0, 0}},
		{Label: "up", Vector: []float64{0, 1}},
		{Label: "right", Vector: []float64{1, 0}},
	}
}

func TestCollapser_Euclidean(t *testing.T) {
	c := &collapser{basis: testBasis()}

	idx, score, err := c.project([]float64{0.9, 0.1}, domain.CollapseEuclidean)
	if err != nil {
		t.Fatal(err)
	}
	if c.basis[idx].Label != "right" {
		t.Errorf("picked %q, want right", c.basis[idx].Label)
	}
	// score is the negated distance of the winner
	want := -math.Hypot(0.1, 0.1)
	if math.Abs(score-want) > 1e-12 {
		t.Errorf("score %g, want %g", score, want)
	}
}

func TestCollapser_Cosine(t *testing.T) {
	c := &collapser{basis: testBasis()}

	// direction matters, magnitude does not
	idx, score, err := c.project([]float64{0, 50}, domain.CollapseCosine)
	if err != nil {
		t.Fatal(err)
	}
	if c.basis[idx].Label != "up" {
		t.Errorf("picked %q, want up", c.basis[idx].Label)
	}
	if math.Abs(score-1) > 1e-12 {
		t.Errorf("aligned cosine score %g, want 1", score)
	}
}

func TestCollapser_TieBreaksToLowerIndex(t *testing.T) {
	c := &collapser{basis: []domain.BasisState{
		{Label: "first", Vector: []float64{1, 0}},
		{Label: "second", Vector: []float64{-1, 0}},
	}}

	// equidistant from both under euclidean
	idx, _, err := c.project([]float64{0, 5}, domain.CollapseEuclidean)
	if err != nil {
		t.Fatal(err)
	}
	if idx != 0 {
		t.Errorf("tie broke to index %d, want 0", idx)
	}
}

func TestCollapser_NoBasis(t *testing.T) {
	c := &collapser{}
	if _, _, err := c.project([]float64{1, 0}, domain.CollapseCosine); !errors.Is(err, domain.ErrNoBasisStates) {
		t.Fatalf("expected ErrNoBasisStates, got %v", err)
	}
}

func TestCosine_ZeroVector(t *testing.T) {
	if got := cosine([]float64{0, 0}, []float64{1, 0}); got != 0 {
		t.Errorf("zero-vector cosine = %g, want 0", got)
	}
}
