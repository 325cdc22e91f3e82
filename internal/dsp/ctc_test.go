package dsp

import (
	"math"
	"testing"
)

// row builds a probability row with the given winning index and probability;
// the remainder is spread over the other classes.
func row(size, winner int, prob float64) []float64 {
	r := make([]float64, size)
	rest := (1 - prob) / float64(size-1)
	for i := range r {
		r[i] = rest
	}
	r[winner] = prob
	return r
}

func TestGreedyCollapseDecode_CollapsesBlanksAndRepeats(t *testing.T) {
	vocab := []string{"", "a", "b"}
	blankID := 0
	// argmax sequence: a a blank b b b a
	probs := [][]float64{
		row(3, 1, 0.9),
		row(3, 1, 0.8),
		row(3, 0, 0.7),
		row(3, 2, 0.6),
		row(3, 2, 0.9),
		row(3, 2, 0.8),
		row(3, 1, 0.5),
	}

	result, err := GreedyCollapseDecode(probs, vocab, blankID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "aba" {
		t.Fatalf("expected %q, got %q", "aba", result.Text)
	}

	// Emitting frames are t=0 (a), t=3 (b), t=6 (a).
	want := (0.9 + 0.6 + 0.5) / 3
	if math.Abs(result.Confidence-want) > 1e-12 {
		t.Fatalf("expected confidence %f, got %f", want, result.Confidence)
	}
}

func TestGreedyCollapseDecode_AllBlanks(t *testing.T) {
	vocab := []string{"", "a"}
	probs := [][]float64{
		row(2, 0, 0.9),
		row(2, 0, 0.95),
	}

	result, err := GreedyCollapseDecode(probs, vocab, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "" {
		t.Fatalf("expected empty text, got %q", result.Text)
	}
	if result.Confidence != 0.0 {
		t.Fatalf("expected zero confidence, got %f", result.Confidence)
	}
}

func TestGreedyCollapseDecode_TieResolvesToLowestIndex(t *testing.T) {
	vocab := []string{"", "a", "b"}
	// Exact tie between a and b resolves to a (lowest symbol index).
	probs := [][]float64{{0.2, 0.4, 0.4}}

	result, err := GreedyCollapseDecode(probs, vocab, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "a" {
		t.Fatalf("expected %q, got %q", "a", result.Text)
	}
}

func TestGreedyCollapseDecode_CollapsesDoubleSpaceAndTrims(t *testing.T) {
	vocab := []string{"", "h", "i", " "}
	// argmax: h space blank space i emits "h  i"; the double space collapses
	// and the result trims clean.
	probs := [][]float64{
		row(4, 1, 0.9),
		row(4, 3, 0.9),
		row(4, 0, 0.9),
		row(4, 3, 0.9),
		row(4, 2, 0.9),
	}

	result, err := GreedyCollapseDecode(probs, vocab, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "h i" {
		t.Fatalf("expected %q, got %q", "h i", result.Text)
	}
}

func TestGreedyCollapseDecode_ConfidenceWithinRange(t *testing.T) {
	vocab := []string{"", "a", "b", "c"}
	probs := [][]float64{
		row(4, 1, 0.31),
		row(4, 2, 0.99),
		row(4, 3, 0.5),
	}

	result, err := GreedyCollapseDecode(probs, vocab, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Confidence < 0.0 || result.Confidence > 1.0 {
		t.Fatalf("confidence out of range: %f", result.Confidence)
	}
}

func TestGreedyCollapseDecode_Errors(t *testing.T) {
	vocab := []string{"", "a"}
	if _, err := GreedyCollapseDecode(nil, vocab, 5); err == nil {
		t.Fatal("expected error for out-of-range blank id")
	}
	if _, err := GreedyCollapseDecode([][]float64{{0.1, 0.2, 0.7}}, vocab, 0); err == nil {
		t.Fatal("expected error for vocabulary size mismatch")
	}
}

func TestGreedyCollapseDecode_Deterministic(t *testing.T) {
	vocab := []string{"", "x", "y", "z"}
	probs := [][]float64{
		row(4, 1, 0.6),
		row(4, 1, 0.6),
		row(4, 0, 0.9),
		row(4, 3, 0.7),
	}

	first, err := GreedyCollapseDecode(probs, vocab, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := GreedyCollapseDecode(probs, vocab, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("decode not deterministic: %+v vs %+v", again, first)
		}
	}
}

// A symbol equal to an earlier, non-adjacent emission must not be
// deduplicated.
func TestGreedyCollapseDecode_NonAdjacentRepeatKept(t *testing.T) {
	vocab := []string{"", "a", "b"}
	// argmax: a b a
	probs := [][]float64{
		row(3, 1, 0.9),
		row(3, 2, 0.9),
		row(3, 1, 0.9),
	}

	result, err := GreedyCollapseDecode(probs, vocab, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "aba" {
		t.Fatalf("expected %q, got %q", "aba", result.Text)
	}
}
