package handler

import (
	"net/http"
	"time"

	"github.com/PranavGopinath/spectra/internal/domain"
	"github.com/PranavGopinath/spectra/internal/repository"
	"github.com/PranavGopinath/spectra/internal/service"
	"github.com/gin-gonic/gin"
)

// RatingHandler handles the rating write path that feeds user profiles.
type RatingHandler struct {
	ratingRepo *repository.RatingRepository
	itemRepo   *repository.ItemRepository
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(ratingRepo *repository.RatingRepository, itemRepo *repository.ItemRepository) *RatingHandler {
	return &RatingHandler{
		ratingRepo: ratingRepo,
		itemRepo:   itemRepo,
	}
}

// RateRequest is the POST /ratings body.
type RateRequest struct {
	UserID        string  `json:"user_id" binding:"required"`
	ItemID        string  `json:"item_id" binding:"required"`
	Rating        float64 `json:"rating" binding:"required"`
	Favorite      bool    `json:"favorite"`
	WantToConsume bool    `json:"want_to_consume"`
}

// Rate handles POST /api/v1/ratings. Ratings act as profile weights, so
// only positive values are accepted.
func (h *RatingHandler) Rate(c *gin.Context) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if req.Rating <= 0 || req.Rating > 5 {
		respondError(c, &service.ValidationError{Msg: "rating must be in (0, 5]"})
		return
	}

	item, err := h.itemRepo.GetByID(c.Request.Context(), req.ItemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to look up item: " + err.Error(),
		})
		return
	}
	if item == nil {
		respondError(c, &service.NotFoundError{Resource: "media item", ID: req.ItemID})
		return
	}

	rating := &domain.Rating{
		UserID:        req.UserID,
		ItemID:        req.ItemID,
		Rating:        req.Rating,
		Favorite:      req.Favorite,
		WantToConsume: req.WantToConsume,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := h.ratingRepo.Upsert(c.Request.Context(), rating); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save rating: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, rating)
}

// DeleteRating handles DELETE /api/v1/users/:id/ratings/:item_id.
func (h *RatingHandler) DeleteRating(c *gin.Context) {
	userID := c.Param("id")
	itemID := c.Param("item_id")

	if err := h.ratingRepo.Delete(c.Request.Context(), userID, itemID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete rating: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ListRatings handles GET /api/v1/users/:id/ratings.
func (h *RatingHandler) ListRatings(c *gin.Context) {
	userID := c.Param("id")

	ratings, err := h.ratingRepo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list ratings: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ratings": ratings,
		"total":   len(ratings),
	})
}
