package taste

import (
	"context"
	"fmt"
)

// Embedder maps text to fixed-length dense semantic vectors. Implemented by
// the embedding provider client; calls may block on network I/O and must
// honor context cancellation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Engine converts semantic content into taste vectors by projecting
// embeddings onto the dimension basis. The basis is immutable after
// construction, so all methods are safe for concurrent use; the only
// blocking calls are those delegated to the Embedder.
type Engine struct {
	basis    *Basis
	embedder Embedder
}

// NewEngine creates a projection engine over a validated basis.
func NewEngine(basis *Basis, embedder Embedder) *Engine {
	return &Engine{basis: basis, embedder: embedder}
}

// Basis returns the engine's dimension basis.
func (e *Engine) Basis() *Basis {
	return e.basis
}

// Embed delegates to the embedding provider and verifies the result length.
func (e *Engine) Embed(ctx context.Context, text string) ([]float32, error) {
	embedding, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(embedding) != e.basis.Dim() {
		return nil, &DimensionMismatchError{Want: e.basis.Dim(), Got: len(embedding)}
	}
	return embedding, nil
}

// Project computes the taste vector of an embedding: one dot product per
// basis direction. The map is exactly linear in the embedding.
// Fails with DimensionMismatchError if the embedding length does not match
// the basis.
func (e *Engine) Project(embedding []float32) ([]float32, error) {
	if len(embedding) != e.basis.Dim() {
		return nil, &DimensionMismatchError{Want: e.basis.Dim(), Got: len(embedding)}
	}

	out := make([]float32, e.basis.Len())
	for i := 0; i < e.basis.Len(); i++ {
		dot, err := Dot(e.basis.Entry(i).Direction, embedding)
		if err != nil {
			return nil, err
		}
		out[i] = float32(dot)
	}
	return out, nil
}

// ProjectBatch projects a sequence of embeddings, preserving order.
func (e *Engine) ProjectBatch(embeddings [][]float32) ([][]float32, error) {
	out := make([][]float32, len(embeddings))
	for i, emb := range embeddings {
		tv, err := e.Project(emb)
		if err != nil {
			return nil, fmt.Errorf("embedding %d: %w", i, err)
		}
		out[i] = tv
	}
	return out, nil
}

// TextToTasteVector embeds a text and projects it in one step.
func (e *Engine) TextToTasteVector(ctx context.Context, text string) ([]float32, error) {
	embedding, err := e.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	return e.Project(embedding)
}

// TextsToTasteVectors processes a batch of texts and returns parallel
// sequences of embeddings and taste vectors, in input order.
func (e *Engine) TextsToTasteVectors(ctx context.Context, texts []string) ([][]float32, [][]float32, error) {
	embeddings, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, nil, err
	}
	if len(embeddings) != len(texts) {
		return nil, nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(embeddings), len(texts))
	}
	tasteVectors, err := e.ProjectBatch(embeddings)
	if err != nil {
		return nil, nil, err
	}
	return embeddings, tasteVectors, nil
}
