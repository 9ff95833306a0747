package main

import (
	"context"
	"encoding/json"
	"flag"
	"math"
	"os"

	"github.com/PranavGopinath/spectra/internal/config"
	"github.com/PranavGopinath/spectra/internal/logger"
	"github.com/PranavGopinath/spectra/internal/service"
	"github.com/PranavGopinath/spectra/internal/taste"
)

// basisgen builds the taste dimension basis file. For each dimension it
// embeds the positive and negative pole prompts and takes the normalized
// difference as the axis direction. Run this once per embedding model; the
// API server loads the resulting file at startup.
func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "text",
		ServiceName: "spectra-basisgen",
	})
	logger.SetDefaultLogger(appLogger)

	output := flag.String("output", "./data/dimension_basis.json", "Path to write the basis JSON file")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	embeddingService := service.NewEmbeddingService(&service.EmbeddingProviderConfig{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	})

	ctx := context.Background()
	entries := make([]taste.BasisEntry, 0, taste.NumDimensions)

	for _, dim := range taste.Dimensions {
		appLogger.WithField("dimension", dim.ID).Info("Embedding dimension prompts")

		positive, err := embeddingService.Embed(ctx, dim.PositivePrompt)
		if err != nil {
			appLogger.WithError(err).WithField("dimension", dim.ID).Fatal("Failed to embed positive prompt")
		}
		negative, err := embeddingService.Embed(ctx, dim.NegativePrompt)
		if err != nil {
			appLogger.WithError(err).WithField("dimension", dim.ID).Fatal("Failed to embed negative prompt")
		}

		direction, err := axisDirection(positive, negative)
		if err != nil {
			appLogger.WithError(err).WithField("dimension", dim.ID).Fatal("Failed to build axis direction")
		}

		entries = append(entries, taste.BasisEntry{
			ID:        dim.ID,
			Name:      dim.Name,
			Direction: direction,
		})
	}

	// Round-trip through the validator before writing so a bad basis never
	// lands on disk.
	if _, err := taste.NewBasis(entries); err != nil {
		appLogger.WithError(err).Fatal("Generated basis failed validation")
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to encode basis")
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		appLogger.WithError(err).Fatal("Failed to write basis file")
	}

	appLogger.WithFields(logger.Fields{
		"output":     *output,
		"dimensions": len(entries),
	}).Info("Basis file written")
}

// axisDirection computes the unit-norm difference of the pole embeddings.
// The arithmetic runs in float64 so float32 rounding does not accumulate.
func axisDirection(positive, negative []float32) ([]float32, error) {
	if len(positive) != len(negative) {
		return nil, &taste.DimensionMismatchError{Want: len(positive), Got: len(negative)}
	}

	diff := make([]float64, len(positive))
	var sumSquares float64
	for i := range positive {
		diff[i] = float64(positive[i]) - float64(negative[i])
		sumSquares += diff[i] * diff[i]
	}

	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return nil, taste.ErrDegenerateVector
	}

	direction := make([]float32, len(diff))
	for i, v := range diff {
		direction[i] = float32(v / norm)
	}
	return direction, nil
}
