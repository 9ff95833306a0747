package handler

import (
	"net/http"

	"github.com/PranavGopinath/spectra/internal/service"
	"github.com/PranavGopinath/spectra/internal/taste"
	"github.com/gin-gonic/gin"
)

// TasteHandler handles taste analysis and profile endpoints.
type TasteHandler struct {
	recommender *service.Recommender
}

// NewTasteHandler creates a new taste handler.
func NewTasteHandler(recommender *service.Recommender) *TasteHandler {
	return &TasteHandler{recommender: recommender}
}

// AnalyzeRequest is the POST /taste/analyze body.
type AnalyzeRequest struct {
	Text string `json:"text" binding:"required"`
}

// Analyze handles POST /api/v1/taste/analyze: embed free text, project it
// onto the taste dimensions, and return the per-dimension breakdown.
func (h *TasteHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	analysis, err := h.recommender.AnalyzeTaste(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// Dimensions handles GET /api/v1/taste/dimensions: the static dimension
// definitions, for clients that render profile breakdowns.
func (h *TasteHandler) Dimensions(c *gin.Context) {
	dims := make([]gin.H, len(taste.Dimensions))
	for i, d := range taste.Dimensions {
		dims[i] = gin.H{
			"id":             d.ID,
			"name":           d.Name,
			"description":    d.Description,
			"positive_label": d.PositiveLabel,
			"negative_label": d.NegativeLabel,
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"dimensions": dims,
		"total":      len(dims),
	})
}

// UserProfile handles GET /api/v1/users/:id/profile. A user with no
// ratings gets an empty profile with num_ratings 0, not a 404.
func (h *TasteHandler) UserProfile(c *gin.Context) {
	userID := c.Param("id")

	profile, err := h.recommender.ComputeUserProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if profile == nil {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     userID,
			"num_ratings": 0,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":      userID,
		"taste_vector": profile.TasteVector,
		"breakdown":    profile.Breakdown,
		"num_ratings":  profile.NumRatings,
	})
}
