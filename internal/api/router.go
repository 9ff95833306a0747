package api

import (
	"github.com/PranavGopinath/spectra/internal/api/handler"
	"github.com/PranavGopinath/spectra/internal/api/middleware"
	"github.com/PranavGopinath/spectra/internal/config"
	"github.com/PranavGopinath/spectra/internal/logger"
	"github.com/PranavGopinath/spectra/internal/repository"
	"github.com/PranavGopinath/spectra/internal/service"
	"github.com/PranavGopinath/spectra/internal/storage"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	recommender *service.Recommender,
	itemRepo *repository.ItemRepository,
	ratingRepo *repository.RatingRepository,
	objectStorage storage.ObjectStorage,
	log *logger.Logger,
	serverCfg *config.ServerConfig,
) *gin.Engine {
	// Set Gin mode
	switch serverCfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  serverCfg.CORS.AllowedOrigins,
		AllowAllOrigins: serverCfg.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	recommendHandler := handler.NewRecommendHandler(recommender)
	tasteHandler := handler.NewTasteHandler(recommender)
	itemHandler := handler.NewItemHandler(itemRepo, objectStorage)
	ratingHandler := handler.NewRatingHandler(ratingRepo, itemRepo)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Recommendations
		v1.POST("/recommend", recommendHandler.Recommend)
		v1.POST("/explain", recommendHandler.Explain)
		v1.POST("/generate-response", recommendHandler.GenerateResponse)

		// Taste analysis
		v1.POST("/taste/analyze", tasteHandler.Analyze)
		v1.GET("/taste/dimensions", tasteHandler.Dimensions)

		// Catalog
		v1.GET("/items", itemHandler.ListItems)
		v1.GET("/items/:id", itemHandler.GetItem)
		v1.GET("/items/:id/similar", recommendHandler.FindSimilar)

		// Users
		v1.GET("/users/:id/profile", tasteHandler.UserProfile)
		v1.GET("/users/:id/recommendations", recommendHandler.RecommendForUser)
		v1.GET("/users/:id/ratings", ratingHandler.ListRatings)
		v1.DELETE("/users/:id/ratings/:item_id", ratingHandler.DeleteRating)

		// Ratings
		v1.POST("/ratings", ratingHandler.Rate)

		// Stats
		v1.GET("/stats", itemHandler.GetStats)
	}

	return r
}
