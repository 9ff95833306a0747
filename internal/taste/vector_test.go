package taste

import (
	"errors"
	"math"
	"testing"
)

func TestDot(t *testing.T) {
	testCases := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{
			name: "orthogonal vectors",
			a:    []float32{1, 0},
			b:    []float32{0, 1},
			want: 0,
		},
		{
			name: "parallel vectors",
			a:    []float32{2, 3},
			b:    []float32{4, 6},
			want: 26,
		},
		{
			name: "opposite vectors",
			a:    []float32{1, 2},
			b:    []float32{-1, -2},
			want: -5,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Dot(tc.a, tc.b)
			if err != nil {
				t.Fatalf("Dot returned error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Dot = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDotDimensionMismatch(t *testing.T) {
	_, err := Dot([]float32{1, 2, 3}, []float32{1, 2})

	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected DimensionMismatchError, got %v", err)
	}
	if mismatch.Want != 3 || mismatch.Got != 2 {
		t.Errorf("mismatch = want %d got %d, expected want 3 got 2", mismatch.Want, mismatch.Got)
	}
}

func TestNorm(t *testing.T) {
	if got := Norm([]float32{3, 4}); got != 5 {
		t.Errorf("Norm([3,4]) = %v, want 5", got)
	}
	if got := Norm([]float32{0, 0, 0}); got != 0 {
		t.Errorf("Norm(zero) = %v, want 0", got)
	}
}

func TestCosineSimilarity(t *testing.T) {
	testCases := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{
			name: "identical direction",
			a:    []float32{1, 2, 3},
			b:    []float32{2, 4, 6},
			want: 1,
		},
		{
			name: "opposite direction",
			a:    []float32{1, 0},
			b:    []float32{-1, 0},
			want: -1,
		},
		{
			name: "orthogonal",
			a:    []float32{1, 0},
			b:    []float32{0, 1},
			want: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CosineSimilarity(tc.a, tc.b)
			if err != nil {
				t.Fatalf("CosineSimilarity returned error: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCosineSimilarityBounded(t *testing.T) {
	// Near-parallel vectors can push the raw quotient past 1 by rounding.
	a := []float32{0.1234567, 0.7654321, 0.2468135}
	got, err := CosineSimilarity(a, a)
	if err != nil {
		t.Fatalf("CosineSimilarity returned error: %v", err)
	}
	if got < -1 || got > 1 {
		t.Errorf("CosineSimilarity = %v, must stay within [-1, 1]", got)
	}
}

func TestCosineSimilarityDegenerate(t *testing.T) {
	testCases := []struct {
		name string
		a    []float32
		b    []float32
	}{
		{name: "zero first", a: []float32{0, 0}, b: []float32{1, 2}},
		{name: "zero second", a: []float32{1, 2}, b: []float32{0, 0}},
		{name: "both zero", a: []float32{0, 0}, b: []float32{0, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CosineSimilarity(tc.a, tc.b)
			if !errors.Is(err, ErrDegenerateVector) {
				t.Errorf("expected ErrDegenerateVector, got %v", err)
			}
		})
	}
}

func TestWeightedAverage(t *testing.T) {
	vectors := [][]float32{
		{1, 0},
		{0, 1},
	}

	t.Run("equal weights", func(t *testing.T) {
		got, err := WeightedAverage(vectors, []float64{1, 1})
		if err != nil {
			t.Fatalf("WeightedAverage returned error: %v", err)
		}
		want := []float32{0.5, 0.5}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("component %d = %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("single vector is identity", func(t *testing.T) {
		got, err := WeightedAverage([][]float32{{2, 3, 4}}, []float64{5})
		if err != nil {
			t.Fatalf("WeightedAverage returned error: %v", err)
		}
		want := []float32{2, 3, 4}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("component %d = %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("weights scale influence", func(t *testing.T) {
		// 5:1 weighting pulls the average towards the first vector.
		got, err := WeightedAverage(vectors, []float64{5, 1})
		if err != nil {
			t.Fatalf("WeightedAverage returned error: %v", err)
		}
		if math.Abs(float64(got[0])-5.0/6.0) > 1e-6 {
			t.Errorf("component 0 = %v, want %v", got[0], 5.0/6.0)
		}
		if math.Abs(float64(got[1])-1.0/6.0) > 1e-6 {
			t.Errorf("component 1 = %v, want %v", got[1], 1.0/6.0)
		}
	})
}

func TestWeightedAverageErrors(t *testing.T) {
	t.Run("no vectors", func(t *testing.T) {
		if _, err := WeightedAverage(nil, nil); err == nil {
			t.Error("expected error for empty input")
		}
	})

	t.Run("count mismatch", func(t *testing.T) {
		if _, err := WeightedAverage([][]float32{{1}}, []float64{1, 2}); err == nil {
			t.Error("expected error for weight count mismatch")
		}
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := WeightedAverage([][]float32{{1, 2}, {1, 2, 3}}, []float64{1, 1})
		var mismatch *DimensionMismatchError
		if !errors.As(err, &mismatch) {
			t.Errorf("expected DimensionMismatchError, got %v", err)
		}
	})
}
