package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/PranavGopinath/spectra/internal/domain"
	"github.com/PranavGopinath/spectra/internal/service"
	"github.com/gin-gonic/gin"
)

// RecommendHandler handles recommendation endpoints.
type RecommendHandler struct {
	recommender *service.Recommender
}

// NewRecommendHandler creates a new recommendation handler.
// Parameters:
//   - recommender: recommendation orchestrator.
//
// Returns:
//   - *RecommendHandler: initialized handler.
func NewRecommendHandler(recommender *service.Recommender) *RecommendHandler {
	return &RecommendHandler{recommender: recommender}
}

// RecommendRequest is the POST /recommend body. Exactly one of Query or
// Vector drives the search: free text is embedded, a raw vector is routed
// by its length (embedding size or taste size).
type RecommendRequest struct {
	Query      string    `json:"query"`
	Vector     []float32 `json:"vector"`
	MediaTypes []string  `json:"media_types"`
	TopK       int       `json:"top_k"`
	MinYear    *int      `json:"min_year"`
	MaxYear    *int      `json:"max_year"`
}

// Recommend handles POST /api/v1/recommend.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	query, err := buildQuery(req.Query, req.Vector)
	if err != nil {
		respondError(c, err)
		return
	}

	mediaTypes, err := parseMediaTypes(req.MediaTypes)
	if err != nil {
		respondError(c, err)
		return
	}

	results, err := h.recommender.Recommend(c.Request.Context(), &service.RecommendRequest{
		Query:      query,
		MediaTypes: mediaTypes,
		TopK:       req.TopK,
		MinYear:    req.MinYear,
		MaxYear:    req.MaxYear,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
	})
}

// FindSimilar handles GET /api/v1/items/:id/similar.
func (h *RecommendHandler) FindSimilar(c *gin.Context) {
	itemID := c.Param("id")

	mediaTypes, err := parseMediaTypes(splitCSV(c.Query("media_types")))
	if err != nil {
		respondError(c, err)
		return
	}

	topK := parseIntQuery(c, "top_k", 0)
	excludeSameItem := parseBoolQuery(c, "exclude_same_item", true)

	results, err := h.recommender.FindSimilar(c.Request.Context(), itemID, mediaTypes, topK, excludeSameItem)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item_id": itemID,
		"results": results,
	})
}

// RecommendForUser handles GET /api/v1/users/:id/recommendations.
func (h *RecommendHandler) RecommendForUser(c *gin.Context) {
	userID := c.Param("id")

	mediaTypes, err := parseMediaTypes(splitCSV(c.Query("media_types")))
	if err != nil {
		respondError(c, err)
		return
	}

	topK := parseIntQuery(c, "top_k", 0)
	excludeRated := parseBoolQuery(c, "exclude_rated", true)

	results, err := h.recommender.RecommendForUser(c.Request.Context(), userID, mediaTypes, topK, excludeRated)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"results": results,
	})
}

// ExplainRequest is the POST /explain body.
type ExplainRequest struct {
	ItemID        string    `json:"item_id" binding:"required"`
	ProfileVector []float32 `json:"profile_vector" binding:"required"`
}

// Explain handles POST /api/v1/explain.
func (h *RecommendHandler) Explain(c *gin.Context) {
	var req ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	explanation, err := h.recommender.Explain(c.Request.Context(), req.ItemID, req.ProfileVector)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, explanation)
}

// GenerateResponseRequest is the POST /generate-response body.
type GenerateResponseRequest struct {
	UserInput string `json:"user_input" binding:"required"`
}

// GenerateResponse handles POST /api/v1/generate-response.
func (h *RecommendHandler) GenerateResponse(c *gin.Context) {
	var req GenerateResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response": service.GenerateIntro(req.UserInput),
	})
}

// buildQuery resolves the one-of query/vector request shape into a tagged
// query. Supplying both or neither is a validation error.
func buildQuery(text string, vector []float32) (service.Query, error) {
	switch {
	case text != "" && len(vector) > 0:
		return service.Query{}, &service.ValidationError{Msg: "provide either query text or a vector, not both"}
	case text != "":
		return service.TextQuery(text), nil
	case len(vector) > 0:
		return service.VectorQuery(vector)
	default:
		return service.Query{}, &service.ValidationError{Msg: "query text or vector is required"}
	}
}

func parseMediaTypes(raw []string) ([]domain.MediaType, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	mediaTypes := make([]domain.MediaType, 0, len(raw))
	for _, s := range raw {
		mt, ok := domain.ParseMediaType(s)
		if !ok {
			return nil, &service.ValidationError{Msg: "unknown media type " + strconv.Quote(s)}
		}
		mediaTypes = append(mediaTypes, mt)
	}
	return mediaTypes, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func parseBoolQuery(c *gin.Context, name string, fallback bool) bool {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
