package taste

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateVector is returned when a similarity computation involves a
// zero-norm vector, for which cosine similarity is undefined.
var ErrDegenerateVector = errors.New("degenerate vector: zero norm")

// DimensionMismatchError reports a vector whose length does not match the
// expected dimensionality.
type DimensionMismatchError struct {
	Want int
	Got  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected vector of length %d, got %d", e.Want, e.Got)
}

// Dot computes the dot product of two equal-length vectors. Accumulation is
// done in float64 so repeated projections stay numerically stable.
func Dot(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, &DimensionMismatchError{Want: len(a), Got: len(b)}
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum, nil
}

// Norm computes the Euclidean norm of a vector.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// CosineSimilarity computes the cosine of the angle between two vectors,
// bounded to [-1, 1]. Fails with ErrDegenerateVector if either vector has
// zero norm and with DimensionMismatchError if lengths differ.
func CosineSimilarity(a, b []float32) (float64, error) {
	dot, err := Dot(a, b)
	if err != nil {
		return 0, err
	}
	na, nb := Norm(a), Norm(b)
	if na == 0 || nb == 0 {
		return 0, ErrDegenerateVector
	}
	sim := dot / (na * nb)
	// Guard against float rounding pushing the value out of range.
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return sim, nil
}

// WeightedAverage computes the element-wise weighted average of a set of
// equal-length vectors. The caller must supply one positive weight per
// vector; weight validation lives with the caller so the right error type
// can be attached. Fails with DimensionMismatchError on ragged input.
func WeightedAverage(vectors [][]float32, weights []float64) ([]float32, error) {
	if len(vectors) == 0 {
		return nil, errors.New("weighted average of empty vector set")
	}
	if len(vectors) != len(weights) {
		return nil, fmt.Errorf("got %d vectors but %d weights", len(vectors), len(weights))
	}

	dim := len(vectors[0])
	sums := make([]float64, dim)
	var totalWeight float64
	for i, v := range vectors {
		if len(v) != dim {
			return nil, &DimensionMismatchError{Want: dim, Got: len(v)}
		}
		w := weights[i]
		totalWeight += w
		for j, x := range v {
			sums[j] += w * float64(x)
		}
	}
	if totalWeight == 0 {
		return nil, errors.New("weighted average with zero total weight")
	}

	out := make([]float32, dim)
	for j, s := range sums {
		out[j] = float32(s / totalWeight)
	}
	return out, nil
}
