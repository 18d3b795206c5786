package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/danlewismuriuki/deals-spotter-backend/internal/domain"
	"github.com/danlewismuriuki/deals-spotter-backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	baskets     *usecase.BasketService
	corrections *usecase.CorrectionService
	catalog     *usecase.CatalogService
	cache       domain.ResultCache
	logger      zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(baskets *usecase.BasketService, corrections *usecase.CorrectionService, catalog *usecase.CatalogService, cache domain.ResultCache, logger zerolog.Logger) *Handler {
	return &Handler{
		baskets:     baskets,
		corrections: corrections,
		catalog:     catalog,
		cache:       cache,
		logger:      logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "deals-spotter-backend",
		"version": "1.0.0",
	})
}

// basketRequest is the basket comparison payload
type basketRequest struct {
	Items []string `json:"items" binding:"required"`
}

// CompareBasket handles basket comparison requests
func (h *Handler) CompareBasket(c *gin.Context) {
	var req basketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items is required and must be a list of strings"})
		return
	}

	result, err := h.baskets.CompareBasket(c.Request.Context(), req.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// correctionRequest is the correction feedback payload
type correctionRequest struct {
	OriginalQuery    string `json:"originalQuery" binding:"required"`
	CorrectedEntryID string `json:"correctedEntryId" binding:"required"`
	UserID           string `json:"userId,omitempty"`
}

// RecordCorrection handles correction feedback requests
func (h *Handler) RecordCorrection(c *gin.Context) {
	var req correctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "originalQuery and correctedEntryId are required"})
		return
	}

	correction, err := h.corrections.RecordCorrection(c.Request.Context(), req.OriginalQuery, req.CorrectedEntryID, req.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, correction)
}

// SaveEntries handles catalog ingestion batches
func (h *Handler) SaveEntries(c *gin.Context) {
	var entries []domain.CatalogEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a list of catalog entries"})
		return
	}

	if err := h.catalog.SaveEntries(c.Request.Context(), entries); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"saved": len(entries)})
}

// GetEntry returns a single catalog entry by id
func (h *Handler) GetEntry(c *gin.Context) {
	entry, err := h.catalog.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// CacheStats returns result cache counters
func (h *Handler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Stats())
}

// ClearCache drops every cached basket result
func (h *Handler) ClearCache(c *gin.Context) {
	h.cache.Clear()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// respondError maps domain errors to HTTP status codes. Anything unexpected
// is logged and surfaced as a generic failure.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidBasket),
		errors.Is(err, domain.ErrInvalidCorrection),
		errors.Is(err, domain.ErrInvalidEntry):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "request timed out"})
	default:
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
