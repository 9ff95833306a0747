package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PranavGopinath/spectra/internal/config"
	"github.com/PranavGopinath/spectra/internal/domain"
	"github.com/PranavGopinath/spectra/internal/logger"
	"github.com/PranavGopinath/spectra/internal/repository"
	"github.com/PranavGopinath/spectra/internal/service"
	"github.com/PranavGopinath/spectra/internal/storage"
	"github.com/PranavGopinath/spectra/internal/taste"
)

func main() {
	// Initialize logger first (with defaults)
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "json",
		ServiceName: "spectra-ingest",
	})
	logger.SetDefaultLogger(appLogger)

	// Parse command line flags
	seedFile := flag.String("file", "", "Path to the JSON seed file")
	limit := flag.Int("limit", 0, "Maximum number of entries to ingest (0 = all)")
	force := flag.Bool("force", false, "Re-process entries that already exist")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	if *seedFile == "" {
		appLogger.Fatal("Flag -file is required")
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	appLogger.WithFields(logger.Fields{
		"file":  *seedFile,
		"limit": *limit,
		"force": *force,
	}).Info("Starting ingestion")

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	itemRepo := repository.NewItemRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	indexes := make(map[domain.MediaType]*repository.QdrantRepository)
	for _, mediaType := range domain.AllMediaTypes() {
		qdrantRepo, err := repository.NewQdrantRepository(&repository.QdrantConnectionConfig{
			Host:         cfg.Qdrant.Host,
			Port:         cfg.Qdrant.Port,
			Collection:   fmt.Sprintf("%s_%s", cfg.Qdrant.CollectionPrefix, mediaType),
			APIKey:       cfg.Qdrant.APIKey,
			UseTLS:       cfg.Qdrant.UseTLS,
			EmbeddingDim: taste.EmbeddingDim,
			TasteDim:     taste.NumDimensions,
		})
		if err != nil {
			appLogger.WithError(err).Fatal("Failed to initialize Qdrant repository")
		}
		defer qdrantRepo.Close()

		if err := qdrantRepo.EnsureCollection(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure Qdrant collection")
		}
		indexes[mediaType] = qdrantRepo
	}

	// Initialize S3-compatible storage (supports R2, S3, etc.)
	objectStorage, err := storage.New(&storage.S3Config{
		Type:      storage.StorageType(cfg.Storage.Type),
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize storage")
	}

	// Ensure bucket exists
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		appLogger.WithError(err).Fatal("Failed to ensure storage bucket")
	}

	// Initialize embedding provider and projection engine
	embeddingService := service.NewEmbeddingService(&service.EmbeddingProviderConfig{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	})

	basis, err := taste.LoadBasis(cfg.Taste.BasisPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load taste dimension basis")
	}
	engine := taste.NewEngine(basis, embeddingService)

	ingestService := service.NewIngestService(
		itemRepo,
		indexes,
		objectStorage,
		engine,
		appLogger,
		&service.IngestConfig{
			Workers: cfg.Ingest.Workers,
		},
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	// Run ingestion
	stats, err := ingestService.IngestFromFile(ctx, *seedFile, *limit, &service.IngestOptions{
		Force: *force,
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to ingest seed file")
	}
	appLogger.WithFields(logger.Fields{
		"total":     stats.TotalItems,
		"processed": stats.ProcessedItems,
		"skipped":   stats.SkippedItems,
		"failed":    stats.FailedItems,
	}).Info("Ingestion completed")
}
