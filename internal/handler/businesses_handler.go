package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"montapulse/internal/application"
	"montapulse/internal/domain/model"
)

// BusinessesHandler serves the business endpoints.
type BusinessesHandler struct {
	dashboard *application.Dashboard
}

// NewBusinessesHandler creates a new BusinessesHandler.
func NewBusinessesHandler(dashboard *application.Dashboard) *BusinessesHandler {
	return &BusinessesHandler{dashboard: dashboard}
}

// GetBusinesses GET /api/businesses - the merged business list including the
// permanent reference landmarks.
func (h *BusinessesHandler) GetBusinesses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"businesses": h.dashboard.Businesses()})
}

// Coordinates bind as pointers: zero is a legitimate latitude and must not
// be treated as a missing field.
type createBusinessRequest struct {
	Name string   `json:"name" binding:"required"`
	Lat  *float64 `json:"lat" binding:"required"`
	Lng  *float64 `json:"lng" binding:"required"`
}

// CreateBusiness POST /api/businesses - places a new business at a map
// coordinate. Admin only.
func (h *BusinessesHandler) CreateBusiness(c *gin.Context) {
	var req createBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	id, err := h.dashboard.AddBusinessAt(c.Request.Context(), req.Name, model.LatLng{Lat: *req.Lat, Lng: *req.Lng})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to create business: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type editBusinessRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// EditBusiness PUT /api/businesses/:id - updates name and description.
func (h *BusinessesHandler) EditBusiness(c *gin.Context) {
	var req editBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	if err := h.dashboard.EditBusiness(c.Request.Context(), c.Param("id"), req.Name, req.Description); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to update business: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// DeleteBusiness DELETE /api/businesses/:id - removes a business.
func (h *BusinessesHandler) DeleteBusiness(c *gin.Context) {
	if err := h.dashboard.DeleteBusiness(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to delete business: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type locationRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// UpdateLocation PUT /api/businesses/:id/location - persists a
// drag-repositioned coordinate pair.
func (h *BusinessesHandler) UpdateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	if err := h.dashboard.UpdateBusinessLocation(c.Request.Context(), c.Param("id"), model.LatLng{Lat: *req.Lat, Lng: *req.Lng}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to update location: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

type registerBusinessRequest struct {
	UserID      string `json:"userId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Sector      string `json:"sector" binding:"required,sector"`
	Description string `json:"description"`
	WhatsApp    string `json:"whatsapp"`
}

// RegisterBusiness POST /api/businesses/register - creates a business for a
// host and links their profile to it.
func (h *BusinessesHandler) RegisterBusiness(c *gin.Context) {
	var req registerBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	sector, _ := model.ParseSector(req.Sector)
	id, err := h.dashboard.RegisterHostBusiness(c.Request.Context(), req.UserID, &model.Business{
		Name:        req.Name,
		Sector:      sector,
		Description: req.Description,
		WhatsApp:    req.WhatsApp,
		Plan:        model.PlanBasico,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to register business: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}
