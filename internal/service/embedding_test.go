package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func embeddingServer(t *testing.T, handler http.HandlerFunc) *EmbeddingService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewEmbeddingService(&EmbeddingProviderConfig{
		Provider:   "test",
		Model:      "test-model",
		BaseURL:    srv.URL,
		Dimensions: 3,
	})
}

func TestEmbedBatchRestoresOrder(t *testing.T) {
	svc := embeddingServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(req.Input) != 2 {
			t.Errorf("got %d inputs, want 2", len(req.Input))
		}
		// Return results out of order; the client must re-sort by index.
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 1, "embedding": []float32{0, 1, 0}},
				{"index": 0, "embedding": []float32{1, 0, 0}},
			},
		})
	})

	got, err := svc.EmbedBatch(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("EmbedBatch returned error: %v", err)
	}
	if got[0][0] != 1 || got[1][1] != 1 {
		t.Errorf("order not restored: %v", got)
	}
}

func TestEmbedBatchDimensionValidation(t *testing.T) {
	svc := embeddingServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 0, "embedding": []float32{1, 0}},
			},
		})
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"short"})
	var provider *ProviderError
	if !errors.As(err, &provider) {
		t.Errorf("expected ProviderError for wrong-length embedding, got %v", err)
	}
}

func TestEmbedBatchAPIError(t *testing.T) {
	svc := embeddingServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"message": "model overloaded"},
		})
	})

	_, err := svc.Embed(context.Background(), "anything")
	var provider *ProviderError
	if !errors.As(err, &provider) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provider.Provider != "test" {
		t.Errorf("Provider = %q, want test", provider.Provider)
	}
}

func TestEmbedBatchCountMismatch(t *testing.T) {
	svc := embeddingServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"index": 0, "embedding": []float32{1, 0, 0}},
			},
		})
	})

	_, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	var provider *ProviderError
	if !errors.As(err, &provider) {
		t.Errorf("expected ProviderError for missing embeddings, got %v", err)
	}
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	svc := embeddingServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for empty input")
	})

	got, err := svc.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedBatch returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d embeddings for empty input", len(got))
	}
}
