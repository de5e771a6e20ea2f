package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"montapulse/internal/application"
	"montapulse/internal/domain/model"
	"montapulse/internal/domain/repository"
)

// AIHandler serves the generative endpoints.
type AIHandler struct {
	dashboard       *application.Dashboard
	recommendations repository.RecommendationsRepository
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(dashboard *application.Dashboard, recommendations repository.RecommendationsRepository) *AIHandler {
	return &AIHandler{dashboard: dashboard, recommendations: recommendations}
}

type recommendationsRequest struct {
	Interest string `json:"interest" binding:"required"`
}

// Recommendations POST /api/ai/recommendations - suggests today's top events
// for a stated interest. Generation failures degrade to fallback copy, never
// an error response.
func (h *AIHandler) Recommendations(c *gin.Context) {
	var req recommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	text, citations, err := h.recommendations.SmartRecommendations(c.Request.Context(), h.dashboard.FilteredEvents(), req.Interest)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to generate recommendations: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text, "sources": citations})
}

type descriptionRequest struct {
	Title  string `json:"title" binding:"required"`
	Sector string `json:"sector" binding:"required,sector"`
}

// Description POST /api/ai/description - writes promotional copy for an
// event draft.
func (h *AIHandler) Description(c *gin.Context) {
	var req descriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	sector, _ := model.ParseSector(req.Sector)
	text, err := h.recommendations.EventDescription(c.Request.Context(), req.Title, sector)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to generate description: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"description": text})
}
