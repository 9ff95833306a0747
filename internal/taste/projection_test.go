package taste

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"
)

// stubEmbedder returns canned vectors keyed by input text.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors[text], nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = s.vectors[text]
	}
	return out, nil
}

func axisBasis(t *testing.T) *Basis {
	t.Helper()
	basis, err := NewBasis([]BasisEntry{
		{ID: "x", Name: "X", Direction: []float32{1, 0, 0}},
		{ID: "y", Name: "Y", Direction: []float32{0, 1, 0}},
	})
	if err != nil {
		t.Fatalf("NewBasis returned error: %v", err)
	}
	return basis
}

func TestProject(t *testing.T) {
	engine := NewEngine(axisBasis(t), nil)

	got, err := engine.Project([]float32{2, 5, 9})
	if err != nil {
		t.Fatalf("Project returned error: %v", err)
	}

	// Axis-aligned basis reads components straight off the embedding; the
	// third component lies outside the basis span and is discarded.
	want := []float32{2, 5}
	if len(got) != len(want) {
		t.Fatalf("Project returned %d components, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("component %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestProjectDimensionMismatch(t *testing.T) {
	engine := NewEngine(axisBasis(t), nil)

	_, err := engine.Project([]float32{1, 2})
	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected DimensionMismatchError, got %v", err)
	}
	if mismatch.Want != 3 || mismatch.Got != 2 {
		t.Errorf("mismatch = want %d got %d, expected want 3 got 2", mismatch.Want, mismatch.Got)
	}
}

func TestProjectLinearity(t *testing.T) {
	const dim = 16
	rng := rand.New(rand.NewSource(42))

	// Random orthonormal-ish basis: random unit directions are enough since
	// linearity does not depend on orthogonality.
	entries := make([]BasisEntry, 4)
	for i := range entries {
		dir := randomUnit(rng, dim)
		entries[i] = BasisEntry{ID: "d", Name: "D", Direction: dir}
	}
	basis, err := NewBasis(entries)
	if err != nil {
		t.Fatalf("NewBasis returned error: %v", err)
	}
	engine := NewEngine(basis, nil)

	a := randomVec(rng, dim)
	b := randomVec(rng, dim)
	const alpha, beta = 1.5, -0.75

	combined := make([]float32, dim)
	for i := range combined {
		combined[i] = float32(alpha*float64(a[i]) + beta*float64(b[i]))
	}

	pa, err := engine.Project(a)
	if err != nil {
		t.Fatalf("Project(a) returned error: %v", err)
	}
	pb, err := engine.Project(b)
	if err != nil {
		t.Fatalf("Project(b) returned error: %v", err)
	}
	pc, err := engine.Project(combined)
	if err != nil {
		t.Fatalf("Project(combined) returned error: %v", err)
	}

	// float32 storage rounds the combined input before projection, so the
	// comparison tolerance reflects single precision, not exact equality.
	for i := range pc {
		want := alpha*float64(pa[i]) + beta*float64(pb[i])
		if math.Abs(float64(pc[i])-want) > 1e-4 {
			t.Errorf("component %d: project(αa+βb) = %v, α·project(a)+β·project(b) = %v", i, pc[i], want)
		}
	}
}

func TestEmbedValidatesProviderLength(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"short": {1, 0},
	}}
	engine := NewEngine(axisBasis(t), embedder)

	_, err := engine.Embed(context.Background(), "short")
	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("expected DimensionMismatchError for short provider vector, got %v", err)
	}
}

func TestTextToTasteVector(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"moody": {0, 3, 1},
	}}
	engine := NewEngine(axisBasis(t), embedder)

	got, err := engine.TextToTasteVector(context.Background(), "moody")
	if err != nil {
		t.Fatalf("TextToTasteVector returned error: %v", err)
	}
	if got[0] != 0 || got[1] != 3 {
		t.Errorf("taste vector = %v, want [0 3]", got)
	}
}

func TestTextsToTasteVectorsOrder(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"first":  {1, 0, 0},
		"second": {0, 1, 0},
	}}
	engine := NewEngine(axisBasis(t), embedder)

	embeddings, tasteVectors, err := engine.TextsToTasteVectors(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("TextsToTasteVectors returned error: %v", err)
	}
	if len(embeddings) != 2 || len(tasteVectors) != 2 {
		t.Fatalf("got %d embeddings and %d taste vectors, want 2 and 2", len(embeddings), len(tasteVectors))
	}
	if tasteVectors[0][0] != 1 || tasteVectors[0][1] != 0 {
		t.Errorf("taste vector 0 = %v, want [1 0]", tasteVectors[0])
	}
	if tasteVectors[1][0] != 0 || tasteVectors[1][1] != 1 {
		t.Errorf("taste vector 1 = %v, want [0 1]", tasteVectors[1])
	}
}

func randomUnit(rng *rand.Rand, dim int) []float32 {
	raw := make([]float64, dim)
	var sumSquares float64
	for i := range raw {
		raw[i] = rng.NormFloat64()
		sumSquares += raw[i] * raw[i]
	}
	norm := math.Sqrt(sumSquares)
	out := make([]float32, dim)
	for i, v := range raw {
		out[i] = float32(v / norm)
	}
	return out
}

func randomVec(rng *rand.Rand, dim int) []float32 {
	out := make([]float32, dim)
	for i := range out {
		out[i] = float32(rng.NormFloat64())
	}
	return out
}
