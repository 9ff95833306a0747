package handler

import (
	"net/http"

	"github.com/PranavGopinath/spectra/internal/domain"
	"github.com/PranavGopinath/spectra/internal/repository"
	"github.com/PranavGopinath/spectra/internal/service"
	"github.com/PranavGopinath/spectra/internal/storage"
	"github.com/gin-gonic/gin"
)

// ItemHandler handles catalog browsing endpoints.
type ItemHandler struct {
	itemRepo *repository.ItemRepository
	storage  storage.ObjectStorage
}

// NewItemHandler creates a new item handler.
func NewItemHandler(itemRepo *repository.ItemRepository, objectStorage storage.ObjectStorage) *ItemHandler {
	return &ItemHandler{
		itemRepo: itemRepo,
		storage:  objectStorage,
	}
}

// itemResponse is the catalog item shape returned to clients. Vectors are
// internal; artwork keys are resolved to URLs.
type itemResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	MediaType   domain.MediaType `json:"media_type"`
	Year        *int             `json:"year,omitempty"`
	Description string           `json:"description"`
	Metadata    domain.JSONMap   `json:"metadata,omitempty"`
	ArtworkURL  string           `json:"artwork_url,omitempty"`
	TasteVector domain.Vector    `json:"taste_vector"`
}

func (h *ItemHandler) toResponse(item *domain.MediaItem) itemResponse {
	return itemResponse{
		ID:          item.ID,
		Title:       item.Title,
		MediaType:   item.MediaType,
		Year:        item.Year,
		Description: item.Description,
		Metadata:    item.Metadata,
		ArtworkURL:  h.storage.GetURL(item.ArtworkKey),
		TasteVector: item.TasteVector,
	}
}

// ListItems handles GET /api/v1/items. The media_type query parameter is
// required; page/page_size control pagination.
func (h *ItemHandler) ListItems(c *gin.Context) {
	mediaType, ok := domain.ParseMediaType(c.Query("media_type"))
	if !ok {
		respondError(c, &service.ValidationError{Msg: "query parameter 'media_type' must be one of movie, book, music"})
		return
	}

	page := parseIntQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := parseIntQuery(c, "page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	items, err := h.itemRepo.ListByType(c.Request.Context(), mediaType, pageSize, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list items: " + err.Error(),
		})
		return
	}

	total, err := h.itemRepo.CountByType(c.Request.Context(), mediaType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to count items: " + err.Error(),
		})
		return
	}

	responses := make([]itemResponse, len(items))
	for i := range items {
		responses[i] = h.toResponse(&items[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"items":     responses,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetItem handles GET /api/v1/items/:id.
func (h *ItemHandler) GetItem(c *gin.Context) {
	id := c.Param("id")

	item, err := h.itemRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get item: " + err.Error(),
		})
		return
	}
	if item == nil {
		respondError(c, &service.NotFoundError{Resource: "media item", ID: id})
		return
	}

	c.JSON(http.StatusOK, h.toResponse(item))
}

// GetStats handles GET /api/v1/stats: per-media-type catalog counts.
func (h *ItemHandler) GetStats(c *gin.Context) {
	counts := make(map[string]int64, len(domain.AllMediaTypes()))
	var total int64
	for _, mediaType := range domain.AllMediaTypes() {
		count, err := h.itemRepo.CountByType(c.Request.Context(), mediaType)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get stats: " + err.Error(),
			})
			return
		}
		counts[string(mediaType)] = count
		total += count
	}

	c.JSON(http.StatusOK, gin.H{
		"counts": counts,
		"total":  total,
	})
}
