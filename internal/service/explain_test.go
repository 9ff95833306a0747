package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/PranavGopinath/spectra/internal/domain"
	"github.com/PranavGopinath/spectra/internal/taste"
)

func explainRecommender(t *testing.T, items map[string]*domain.MediaItem) *Recommender {
	t.Helper()
	return newTestRecommender(t, &fakeItems{items: items}, nil, nil)
}

func TestExplainValidatesProfileBeforeLookup(t *testing.T) {
	rec := explainRecommender(t, nil)

	// A malformed profile against an unknown item must report the profile
	// problem, not a 404.
	_, err := rec.Explain(context.Background(), "missing", []float32{1, 2, 3})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		t.Error("wrong-length profile must not surface as not-found")
	}
}

func TestExplainNotFound(t *testing.T) {
	rec := explainRecommender(t, nil)

	_, err := rec.Explain(context.Background(), "missing", make([]float32, taste.NumDimensions))
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.ID != "missing" {
		t.Errorf("ID = %q, want missing", notFound.ID)
	}
}

func TestExplainSelfMatch(t *testing.T) {
	vector := domain.Vector{0.8, -0.3, 0.1, 0, 0.5, -0.2, 0.4, -0.6}
	rec := explainRecommender(t, map[string]*domain.MediaItem{
		"item": {ID: "item", Title: "Mirror", TasteVector: vector},
	})

	explanation, err := rec.Explain(context.Background(), "item", vector)
	if err != nil {
		t.Fatalf("Explain returned error: %v", err)
	}
	if math.Abs(explanation.Similarity-1) > 1e-9 {
		t.Errorf("self-match similarity = %v, want 1", explanation.Similarity)
	}
	if explanation.Title != "Mirror" {
		t.Errorf("Title = %q, want Mirror", explanation.Title)
	}
}

func TestExplainContributionOrdering(t *testing.T) {
	// Contributions: dim0 = 1.0, dim1 = 0.25, dim7 = 0.64, rest zero.
	profile := []float32{1, 0.5, 0, 0, 0, 0, 0, -0.8}
	item := domain.Vector{1, 0.5, 0, 0, 0, 0, 0, -0.8}
	rec := explainRecommender(t, map[string]*domain.MediaItem{
		"item": {ID: "item", Title: "Match", TasteVector: item},
	})

	explanation, err := rec.Explain(context.Background(), "item", profile)
	if err != nil {
		t.Fatalf("Explain returned error: %v", err)
	}

	if len(explanation.Contributions) != taste.NumDimensions {
		t.Fatalf("got %d contributions, want %d", len(explanation.Contributions), taste.NumDimensions)
	}
	for i := 1; i < len(explanation.Contributions); i++ {
		prev := math.Abs(explanation.Contributions[i-1].Contribution)
		cur := math.Abs(explanation.Contributions[i].Contribution)
		if cur > prev {
			t.Errorf("contributions not sorted by magnitude at %d: %v > %v", i, cur, prev)
		}
	}

	wantOrder := []string{"emotional_tone", "worldview", "energy_intensity"}
	for i, want := range wantOrder {
		if explanation.Contributions[i].Dimension != want {
			t.Errorf("contribution %d = %s, want %s", i, explanation.Contributions[i].Dimension, want)
		}
	}
}

func TestExplainPhrasesFollowProfileSign(t *testing.T) {
	profile := []float32{1, 0, 0, 0, 0, 0, 0, -0.8}
	item := domain.Vector{1, 0, 0, 0, 0, 0, 0, -0.8}
	rec := explainRecommender(t, map[string]*domain.MediaItem{
		"item": {ID: "item", Title: "Match", TasteVector: item},
	})

	explanation, err := rec.Explain(context.Background(), "item", profile)
	if err != nil {
		t.Fatalf("Explain returned error: %v", err)
	}

	// Positive profile score names the positive pole, negative the negative.
	if !strings.Contains(explanation.Explanation, "emotional tone: light & joyful") {
		t.Errorf("explanation missing positive-pole phrase: %q", explanation.Explanation)
	}
	if !strings.Contains(explanation.Explanation, "worldview: cynical & dark") {
		t.Errorf("explanation missing negative-pole phrase: %q", explanation.Explanation)
	}
}

func TestExplainTopThreeFactors(t *testing.T) {
	profile := []float32{1, 1, 1, 1, 1, 0, 0, 0}
	item := domain.Vector{0.5, 0.4, 0.3, 0.2, 0.1, 0, 0, 0}
	rec := explainRecommender(t, map[string]*domain.MediaItem{
		"item": {ID: "item", Title: "Match", TasteVector: item},
	})

	explanation, err := rec.Explain(context.Background(), "item", profile)
	if err != nil {
		t.Fatalf("Explain returned error: %v", err)
	}

	if got := strings.Count(explanation.Explanation, "Both lean towards"); got != 3 {
		t.Errorf("explanation names %d factors, want 3: %q", got, explanation.Explanation)
	}
}

func TestExplainFallback(t *testing.T) {
	// Orthogonal in taste space: no positive contribution anywhere.
	profile := []float32{1, 0, 0, 0, 0, 0, 0, 0}
	item := domain.Vector{0, 1, 0, 0, 0, 0, 0, 0}
	rec := explainRecommender(t, map[string]*domain.MediaItem{
		"item": {ID: "item", Title: "Stranger", TasteVector: item},
	})

	explanation, err := rec.Explain(context.Background(), "item", profile)
	if err != nil {
		t.Fatalf("Explain returned error: %v", err)
	}
	if explanation.Explanation != "General aesthetic alignment" {
		t.Errorf("explanation = %q, want fallback", explanation.Explanation)
	}
}

func TestExplainFallbackWhenStrongestContributionsMisaligned(t *testing.T) {
	// The three strongest contributions are all misaligned; the weaker
	// aligned dimension ranked fourth must not be promoted into the prose.
	profile := []float32{1, 1, 1, 0.1, 0, 0, 0, 0}
	item := domain.Vector{-1, -1, -1, 0.1, 0, 0, 0, 0}
	rec := explainRecommender(t, map[string]*domain.MediaItem{
		"item": {ID: "item", Title: "Opposite", TasteVector: item},
	})

	explanation, err := rec.Explain(context.Background(), "item", profile)
	if err != nil {
		t.Fatalf("Explain returned error: %v", err)
	}
	if explanation.Explanation != "General aesthetic alignment" {
		t.Errorf("explanation = %q, want fallback", explanation.Explanation)
	}
}

func TestExplainPhrasesOnlyAlignedAmongTopThree(t *testing.T) {
	// Top three by magnitude: dim0 (aligned), dim1 (misaligned), dim2
	// (aligned). The aligned dim3 ranked fourth stays out.
	profile := []float32{1, 0.9, 0.8, 0.5, 0, 0, 0, 0}
	item := domain.Vector{1, -0.9, 0.8, 0.5, 0, 0, 0, 0}
	rec := explainRecommender(t, map[string]*domain.MediaItem{
		"item": {ID: "item", Title: "Partial", TasteVector: item},
	})

	explanation, err := rec.Explain(context.Background(), "item", profile)
	if err != nil {
		t.Fatalf("Explain returned error: %v", err)
	}

	if got := strings.Count(explanation.Explanation, "Both lean towards"); got != 2 {
		t.Errorf("explanation names %d factors, want 2: %q", got, explanation.Explanation)
	}
	if !strings.Contains(explanation.Explanation, "emotional tone") {
		t.Errorf("explanation missing strongest aligned dimension: %q", explanation.Explanation)
	}
	if !strings.Contains(explanation.Explanation, "complexity") {
		t.Errorf("explanation missing second aligned dimension: %q", explanation.Explanation)
	}
	if strings.Contains(explanation.Explanation, "abstractness") {
		t.Errorf("dimension outside the top three must not be phrased: %q", explanation.Explanation)
	}
}

func TestExplainDegenerateItem(t *testing.T) {
	profile := []float32{1, 0, 0, 0, 0, 0, 0, 0}
	rec := explainRecommender(t, map[string]*domain.MediaItem{
		"item": {ID: "item", Title: "Void", TasteVector: make(domain.Vector, taste.NumDimensions)},
	})

	_, err := rec.Explain(context.Background(), "item", profile)
	if !errors.Is(err, taste.ErrDegenerateVector) {
		t.Errorf("expected ErrDegenerateVector, got %v", err)
	}
}
