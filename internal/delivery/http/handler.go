package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swanbotanicals/skinmatch/internal/domain"
	"github.com/swanbotanicals/skinmatch/internal/logging"
	"github.com/swanbotanicals/skinmatch/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service *usecase.RecommendationService
}

// NewHandler creates a new HTTP handler. A nil service is allowed; its
// endpoints then answer 503.
func NewHandler(service *usecase.RecommendationService) *Handler {
	return &Handler{service: service}
}

// MatchRequest is the body of POST /api/v1/matches
type MatchRequest struct {
	domain.ProfileRef
	PricePreference *float64 `json:"pricePreference,omitempty"`
	Sort            string   `json:"sort,omitempty"`
}

// IngredientsRequest is the body of POST /api/v1/ingredients/analyze
type IngredientsRequest struct {
	domain.ProfileRef
	Ingredients []string `json:"ingredients" binding:"required"`
}

// SentimentRequest is the body of POST /api/v1/sentiment
type SentimentRequest struct {
	Text     string `json:"text"`
	SkinType string `json:"skinType"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "skinmatch-backend",
		"version": "1.0.0",
	})
}

// ready aborts with 503 when no service is wired.
func (h *Handler) ready(c *gin.Context) bool {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Recommendation service not configured",
		})
		return false
	}
	return true
}

// CreateProfile handles POST /api/v1/profiles
func (h *Handler) CreateProfile(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var in domain.ProfileInput
	if !bindJSON(c, &in) {
		return
	}

	stored, err := h.service.CreateProfile(c.Request.Context(), &in)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Location", "/api/v1/profiles/"+stored.ID)
	c.JSON(http.StatusCreated, stored)
}

// GetProfile handles GET /api/v1/profiles/:id
func (h *Handler) GetProfile(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	stored, err := h.service.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

// UpdateProfile handles PUT /api/v1/profiles/:id
func (h *Handler) UpdateProfile(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var in domain.ProfileInput
	if !bindJSON(c, &in) {
		return
	}

	stored, err := h.service.UpdateProfile(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

// DeleteProfile handles DELETE /api/v1/profiles/:id
func (h *Handler) DeleteProfile(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	if err := h.service.DeleteProfile(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ProfileAnalysis handles GET /api/v1/profiles/:id/analysis
func (h *Handler) ProfileAnalysis(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	analysis, err := h.service.SkinAnalysis(c.Request.Context(), domain.ProfileRef{ProfileID: c.Param("id")})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// Membership handles POST /api/v1/membership
func (h *Handler) Membership(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var ref domain.ProfileRef
	if !bindJSON(c, &ref) {
		return
	}

	membership, err := h.service.Membership(c.Request.Context(), ref)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, membership)
}

// ListProducts handles GET /api/v1/products?profileId=&sort=&pricePreference=
func (h *Handler) ListProducts(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	order, err := usecase.ParseSortOrder(c.Query("sort"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	var pref *float64
	if raw := c.Query("pricePreference"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pricePreference must be a number"})
			return
		}
		pref = &v
	}

	ranked, err := h.service.RankProducts(c.Request.Context(), domain.ProfileRef{ProfileID: c.Query("profileId")}, pref, order)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": ranked,
		"count":    len(ranked),
	})
}

// GetProduct handles GET /api/v1/products/:id?profileId=
func (h *Handler) GetProduct(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	detail, err := h.service.ProductDetail(c.Request.Context(), c.Param("id"), domain.ProfileRef{ProfileID: c.Query("profileId")})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Matches handles POST /api/v1/matches
func (h *Handler) Matches(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req MatchRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ProfileRef.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile or profileId is required"})
		return
	}

	order, err := usecase.ParseSortOrder(req.Sort)
	if err != nil {
		h.writeError(c, err)
		return
	}

	ranked, err := h.service.RankProducts(c.Request.Context(), req.ProfileRef, req.PricePreference, order)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": ranked,
		"count":   len(ranked),
	})
}

// Routine handles POST /api/v1/routine
func (h *Handler) Routine(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var ref domain.ProfileRef
	if !bindJSON(c, &ref) {
		return
	}

	steps, err := h.service.Routine(c.Request.Context(), ref)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routine": steps})
}

// AnalyzeIngredients handles POST /api/v1/ingredients/analyze
func (h *Handler) AnalyzeIngredients(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req IngredientsRequest
	if !bindJSON(c, &req) {
		return
	}

	results, err := h.service.AnalyzeIngredients(c.Request.Context(), req.ProfileRef, req.Ingredients)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": results})
}

// Sentiment handles POST /api/v1/sentiment
func (h *Handler) Sentiment(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req SentimentRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.service.Sentiment(req.Text, req.SkinType))
}

// bindJSON decodes the request body, answering 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// writeError maps domain errors to HTTP responses
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
	case errors.Is(err, domain.ErrCatalogUnavailable):
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("catalog unavailable")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Product catalog temporarily unavailable"})
	case errors.Is(err, domain.ErrStoreUnavailable):
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("profile store unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Profile store temporarily unavailable"})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
