package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/consumewise/backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Catalog is the product catalog the handlers serve
type Catalog interface {
	Ingest(ctx context.Context, imageURLs []string) (*domain.StoredProduct, error)
	Save(ctx context.Context, payload []byte) (*domain.StoredProduct, error)
	Search(ctx context.Context, query string) (*domain.SearchResult, error)
	GetByName(ctx context.Context, name string) (*domain.StoredProduct, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog Catalog
	logger  zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog Catalog, logger zerolog.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger.With().Str("component", "http").Logger(),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "consumewise-backend",
		"version": "1.0.0",
	})
}

// ExtractData reads a product from label images and stores it.
// Body: JSON array of image URLs.
func (h *Handler) ExtractData(c *gin.Context) {
	var imageURLs []string
	if err := c.ShouldBindJSON(&imageURLs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Request body must be a JSON array of image URLs",
		})
		return
	}

	if len(imageURLs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Image links not found",
		})
		return
	}

	product, err := h.catalog.Ingest(c.Request.Context(), imageURLs)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// SaveProduct stores a previously extracted record
func (h *Handler) SaveProduct(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read request body",
		})
		return
	}

	product, err := h.catalog.Save(c.Request.Context(), payload)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// FindProduct lists "name by brand" labels fuzzily matching product_name
func (h *Handler) FindProduct(c *gin.Context) {
	result, err := h.catalog.Search(c.Request.Context(), c.Query("product_name"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if result.Status == domain.StatusNoQuery {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": result.Message(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": result.Products,
		"message":  result.Message(),
	})
}

// GetProduct returns the product whose name equals product_name exactly
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetByName(c.Request.Context(), c.Query("product_name"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// respondError maps error categories to status codes. Order matters:
// extraction failures may wrap a schema violation.
func (h *Handler) respondError(c *gin.Context, err error) {
	var persistErr *domain.PersistError

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})

	case errors.Is(err, domain.ErrExtractionFailed):
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("label extraction failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error extracting information: " + err.Error(),
		})

	case errors.Is(err, domain.ErrSchemaViolation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Product record does not match the label schema",
			"details": err.Error(),
		})

	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})

	case errors.As(err, &persistErr):
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("failed to store product")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  "Failed to store product",
			"record": persistErr.Record,
		})

	default:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
