package handler

import (
	"errors"
	"net/http"

	"github.com/PranavGopinath/spectra/internal/service"
	"github.com/PranavGopinath/spectra/internal/taste"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses. Unknown items are
// 404, malformed inputs that passed JSON binding are 422, bad weights are
// 400, and upstream provider failures surface as 502 so callers can tell
// them apart from our own faults.
func respondError(c *gin.Context, err error) {
	var notFound *service.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}

	var invalidWeight *service.InvalidWeightError
	if errors.As(err, &invalidWeight) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidWeight.Error()})
		return
	}

	var mismatch *taste.DimensionMismatchError
	if errors.As(err, &mismatch) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": mismatch.Error()})
		return
	}

	if errors.Is(err, service.ErrValidation) || errors.Is(err, taste.ErrDegenerateVector) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	var provider *service.ProviderError
	if errors.As(err, &provider) {
		c.JSON(http.StatusBadGateway, gin.H{"error": provider.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
