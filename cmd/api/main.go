package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PranavGopinath/spectra/internal/api"
	"github.com/PranavGopinath/spectra/internal/config"
	"github.com/PranavGopinath/spectra/internal/domain"
	"github.com/PranavGopinath/spectra/internal/logger"
	"github.com/PranavGopinath/spectra/internal/repository"
	"github.com/PranavGopinath/spectra/internal/service"
	"github.com/PranavGopinath/spectra/internal/storage"
	"github.com/PranavGopinath/spectra/internal/taste"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize repositories
	itemRepo := repository.NewItemRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	// One Qdrant collection per media type, each carrying both named vectors
	ctx := context.Background()
	indexes := make(map[domain.MediaType]service.SimilarityIndex)
	qdrantRepos := make([]*repository.QdrantRepository, 0, len(domain.AllMediaTypes()))
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
		if err := qdrantRepo.EnsureCollection(ctx); err != nil {
			appLogger.WithError(err).Fatal("Failed to ensure Qdrant collection")
		}
		indexes[mediaType] = qdrantRepo
		qdrantRepos = append(qdrantRepos, qdrantRepo)
	}
	defer func() {
		for _, repo := range qdrantRepos {
			repo.Close()
		}
	}()

	// Initialize storage (supports MinIO, R2, S3)
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

	// Initialize embedding provider
	embeddingService := service.NewEmbeddingService(&service.EmbeddingProviderConfig{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	})

	// Load the taste dimension basis; the service cannot run without it
	basis, err := taste.LoadBasis(cfg.Taste.BasisPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load taste dimension basis")
	}
	engine := taste.NewEngine(basis, embeddingService)

	// Initialize recommender
	recommender := service.NewRecommender(
		engine,
		itemRepo,
		ratingRepo,
		indexes,
		appLogger,
		&service.RecommenderConfig{
			DefaultTopK: cfg.Recommend.DefaultTopK,
			MaxTopK:     cfg.Recommend.MaxTopK,
		},
	)

	// Setup router
	router := api.SetupRouter(recommender, itemRepo, ratingRepo, objectStorage, appLogger, &cfg.Server)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLogger.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
