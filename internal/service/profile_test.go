package service

import (
	"errors"
	"math"
	"testing"

	"github.com/PranavGopinath/spectra/internal/domain"
)

func TestComputeProfileNoRatings(t *testing.T) {
	profile, err := ComputeProfile(nil)
	if err != nil {
		t.Fatalf("ComputeProfile returned error: %v", err)
	}
	if profile != nil {
		t.Errorf("expected nil profile for no ratings, got %+v", profile)
	}
}

func TestComputeProfileWeighting(t *testing.T) {
	// A 5-star and a 1-star item: the aggregate sits five times closer to
	// the loved item.
	entries := []domain.RatedItemVectors{
		{
			Rating:      5,
			Embedding:   domain.Vector{1, 0},
			TasteVector: domain.Vector{1, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			Rating:      1,
			Embedding:   domain.Vector{0, 1},
			TasteVector: domain.Vector{-1, 0, 0, 0, 0, 0, 0, 0},
		},
	}

	profile, err := ComputeProfile(entries)
	if err != nil {
		t.Fatalf("ComputeProfile returned error: %v", err)
	}
	if profile.NumRatings != 2 {
		t.Errorf("NumRatings = %d, want 2", profile.NumRatings)
	}

	if math.Abs(float64(profile.Embedding[0])-5.0/6.0) > 1e-6 {
		t.Errorf("embedding[0] = %v, want %v", profile.Embedding[0], 5.0/6.0)
	}
	if math.Abs(float64(profile.Embedding[1])-1.0/6.0) > 1e-6 {
		t.Errorf("embedding[1] = %v, want %v", profile.Embedding[1], 1.0/6.0)
	}

	// (5·1 + 1·(-1)) / 6 = 2/3 on the first taste dimension.
	if math.Abs(float64(profile.TasteVector[0])-2.0/3.0) > 1e-6 {
		t.Errorf("taste[0] = %v, want %v", profile.TasteVector[0], 2.0/3.0)
	}
}

func TestComputeProfileInvalidWeight(t *testing.T) {
	testCases := []struct {
		name   string
		rating float64
	}{
		{name: "zero", rating: 0},
		{name: "negative", rating: -2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entries := []domain.RatedItemVectors{
				{Rating: 4, Embedding: domain.Vector{1}, TasteVector: domain.Vector{1}},
				{Rating: tc.rating, Embedding: domain.Vector{1}, TasteVector: domain.Vector{1}},
			}

			_, err := ComputeProfile(entries)
			var invalid *InvalidWeightError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidWeightError, got %v", err)
			}
			if invalid.Index != 1 {
				t.Errorf("Index = %d, want 1", invalid.Index)
			}
			if invalid.Weight != tc.rating {
				t.Errorf("Weight = %v, want %v", invalid.Weight, tc.rating)
			}
			if !errors.Is(err, ErrValidation) {
				t.Error("InvalidWeightError should match ErrValidation")
			}
		})
	}
}

func TestBuildBreakdownTendencies(t *testing.T) {
	testCases := []struct {
		name  string
		score float32
		want  string
	}{
		{name: "clearly positive", score: 0.5, want: "Light & Joyful"},
		{name: "clearly negative", score: -0.5, want: "Dark & Melancholic"},
		{name: "just inside threshold", score: 0.1, want: "Balanced"},
		{name: "just outside threshold", score: 0.11, want: "Light & Joyful"},
		{name: "negative boundary", score: -0.1, want: "Balanced"},
		{name: "zero", score: 0, want: "Balanced"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			vector := make([]float32, 8)
			vector[0] = tc.score

			breakdown := BuildBreakdown(vector)
			if len(breakdown) != 8 {
				t.Fatalf("breakdown has %d entries, want 8", len(breakdown))
			}
			if breakdown[0].Tendency != tc.want {
				t.Errorf("tendency = %q, want %q", breakdown[0].Tendency, tc.want)
			}
		})
	}
}

func TestBuildBreakdownOrder(t *testing.T) {
	vector := make([]float32, 8)
	breakdown := BuildBreakdown(vector)

	if breakdown[0].Dimension != "Emotional Tone" {
		t.Errorf("first dimension = %q, want Emotional Tone", breakdown[0].Dimension)
	}
	if breakdown[7].Dimension != "Worldview" {
		t.Errorf("last dimension = %q, want Worldview", breakdown[7].Dimension)
	}
}
