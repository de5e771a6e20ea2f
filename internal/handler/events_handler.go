package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"montapulse/internal/application"
	"montapulse/internal/domain/model"
)

// EventsHandler serves the event endpoints.
type EventsHandler struct {
	dashboard *application.Dashboard
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(dashboard *application.Dashboard) *EventsHandler {
	return &EventsHandler{dashboard: dashboard}
}

// GetEvents GET /api/events - the filtered event list. Optional query
// parameters override the active filters for this read only; changing the
// shared view state stays with POST /api/map/view.
func (h *EventsHandler) GetEvents(c *gin.Context) {
	var query application.EventQuery
	if sectorName, ok := c.GetQuery("sector"); ok {
		sector := model.Sector("")
		if sectorName != "" {
			parsed, valid := model.ParseSector(sectorName)
			if !valid {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "invalid_parameter",
					"message": "Unknown sector: " + sectorName,
				})
				return
			}
			sector = parsed
		}
		query.Sector = &sector
	}
	if q, ok := c.GetQuery("q"); ok {
		query.Search = &q
	}
	if filter, ok := c.GetQuery("filter"); ok {
		query.Filter = &filter
	}

	c.JSON(http.StatusOK, gin.H{"events": h.dashboard.QueryEvents(query)})
}

// GetFavorites GET /api/events/favorites - favorited events, unfiltered.
func (h *EventsHandler) GetFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": h.dashboard.FavoritedEvents()})
}

type eventRequest struct {
	BusinessID  string    `json:"businessId" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartAt     time.Time `json:"startAt" binding:"required"`
	EndAt       time.Time `json:"endAt" binding:"required"`
	Category    string    `json:"category"`
	Vibe        string    `json:"vibe"`
	Sector      string    `json:"sector" binding:"required,sector"`
	ImageURL    string    `json:"imageUrl"`
}

func (r *eventRequest) toModel() *model.Event {
	sector, _ := model.ParseSector(r.Sector)
	return &model.Event{
		BusinessID:  r.BusinessID,
		Title:       r.Title,
		Description: r.Description,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		Category:    r.Category,
		Vibe:        model.Vibe(r.Vibe),
		Sector:      sector,
		ImageURL:    r.ImageURL,
	}
}

// CreateEvent POST /api/events - publishes a new event.
func (h *EventsHandler) CreateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	id, err := h.dashboard.CreateEvent(c.Request.Context(), req.toModel())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to create event: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateEvent PUT /api/events/:id - rewrites an existing event.
func (h *EventsHandler) UpdateEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	if err := h.dashboard.UpdateEvent(c.Request.Context(), c.Param("id"), req.toModel()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to update event: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// DeleteEvent DELETE /api/events/:id - removes an event.
func (h *EventsHandler) DeleteEvent(c *gin.Context) {
	if err := h.dashboard.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to delete event: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ToggleInterest POST /api/events/:id/interest - flips the RSVP mark and
// adjusts the public interested counter.
func (h *EventsHandler) ToggleInterest(c *gin.Context) {
	interested, err := h.dashboard.ToggleInterest(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to toggle interest: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"interested": interested})
}

// ToggleFavorite POST /api/events/:id/favorite - flips the favorite mark.
func (h *EventsHandler) ToggleFavorite(c *gin.Context) {
	favorited := h.dashboard.ToggleFavorite(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}
