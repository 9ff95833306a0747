package service

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// EmbeddingService generates semantic embeddings through an OpenAI-compatible
// /embeddings endpoint (the taste model is an all-MiniLM-class sentence
// encoder served behind such an API). It implements taste.Embedder.
// Deterministic for a fixed model version; latency dominates cost.
type EmbeddingService struct {
	client     *resty.Client
	model      string
	dimensions int
	provider   string
}

// EmbeddingProviderConfig holds configuration for the embedding client.
type EmbeddingProviderConfig struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
}

// NewEmbeddingService creates a new embedding provider client.
func NewEmbeddingService(cfg *EmbeddingProviderConfig) *EmbeddingService {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	return &EmbeddingService{
		client:     client,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		provider:   cfg.Provider,
	}
}

// GetModel returns the model name being used.
func (s *EmbeddingService) GetModel() string {
	return s.model
}

// OpenAI-compatible request/response structures
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed generates an embedding for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, &ProviderError{Provider: s.provider, Err: fmt.Errorf("no embedding returned")}
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts, preserving input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	req := embeddingRequest{
		Model: s.model,
		Input: texts,
	}

	var resp embeddingResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post("/embeddings")

	if err != nil {
		return nil, &ProviderError{Provider: s.provider, Err: err}
	}

	if httpResp.StatusCode() != 200 {
		if resp.Error.Message != "" {
			return nil, &ProviderError{Provider: s.provider,
				Err: fmt.Errorf("API error: %s", resp.Error.Message)}
		}
		return nil, &ProviderError{Provider: s.provider,
			Err: fmt.Errorf("API error: status %d", httpResp.StatusCode())}
	}

	if len(resp.Data) != len(texts) {
		return nil, &ProviderError{Provider: s.provider,
			Err: fmt.Errorf("unexpected number of embeddings: got %d, expected %d", len(resp.Data), len(texts))}
	}

	// Sort by index to ensure correct order
	embeddings := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(embeddings) {
			return nil, &ProviderError{Provider: s.provider,
				Err: fmt.Errorf("embedding index %d out of range", item.Index)}
		}
		if s.dimensions > 0 && len(item.Embedding) != s.dimensions {
			return nil, &ProviderError{Provider: s.provider,
				Err: fmt.Errorf("embedding has length %d, expected %d", len(item.Embedding), s.dimensions)}
		}
		embeddings[item.Index] = item.Embedding
	}

	return embeddings, nil
}
