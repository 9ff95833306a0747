package service

import (
	"errors"
	"testing"

	"github.com/PranavGopinath/spectra/internal/taste"
)

func TestTextQuery(t *testing.T) {
	q := TextQuery("dark atmospheric sci-fi")
	if q.Kind() != QueryText {
		t.Errorf("Kind = %v, want QueryText", q.Kind())
	}
	if q.Text() != "dark atmospheric sci-fi" {
		t.Errorf("Text = %q", q.Text())
	}
}

func TestVectorQueryInference(t *testing.T) {
	testCases := []struct {
		name     string
		length   int
		wantKind QueryKind
		wantErr  bool
	}{
		{name: "embedding sized", length: taste.EmbeddingDim, wantKind: QueryEmbedding},
		{name: "taste sized", length: taste.NumDimensions, wantKind: QueryTaste},
		{name: "empty", length: 0, wantErr: true},
		{name: "ambiguous length", length: 100, wantErr: true},
		{name: "off by one", length: taste.EmbeddingDim - 1, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := VectorQuery(make([]float32, tc.length))
			if tc.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("VectorQuery returned error: %v", err)
			}
			if q.Kind() != tc.wantKind {
				t.Errorf("Kind = %v, want %v", q.Kind(), tc.wantKind)
			}
			if len(q.Vector()) != tc.length {
				t.Errorf("Vector length = %d, want %d", len(q.Vector()), tc.length)
			}
		})
	}
}

func TestEmbeddingQueryLength(t *testing.T) {
	if _, err := EmbeddingQuery(make([]float32, taste.NumDimensions)); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for taste-sized embedding query, got %v", err)
	}
	if _, err := EmbeddingQuery(make([]float32, taste.EmbeddingDim)); err != nil {
		t.Errorf("EmbeddingQuery returned error: %v", err)
	}
}

func TestTasteQueryLength(t *testing.T) {
	if _, err := TasteQuery(make([]float32, taste.EmbeddingDim)); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error for embedding-sized taste query, got %v", err)
	}
	if _, err := TasteQuery(make([]float32, taste.NumDimensions)); err != nil {
		t.Errorf("TasteQuery returned error: %v", err)
	}
}
