package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"montapulse/internal/application"
	"montapulse/internal/domain/editor"
	"montapulse/internal/domain/model"
)

// MapHandler serves the map layer, viewport and sector boundary endpoints.
type MapHandler struct {
	dashboard *application.Dashboard
}

// NewMapHandler creates a new MapHandler.
func NewMapHandler(dashboard *application.Dashboard) *MapHandler {
	return &MapHandler{dashboard: dashboard}
}

// GetLayers GET /api/map/layers - the currently rendered tile, marker and
// polygon layers.
func (h *MapHandler) GetLayers(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.LayerSnapshot())
}

// ToggleBasemap POST /api/map/basemap - swaps the tile style.
func (h *MapHandler) ToggleBasemap(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"basemap": h.dashboard.ToggleBasemap()})
}

// Resize POST /api/map/resize - re-runs size invalidation after a container
// layout change.
func (h *MapHandler) Resize(c *gin.Context) {
	h.dashboard.Resize()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type viewRequest struct {
	Locality *string `json:"locality"`
	Sector   *string `json:"sector"`
	Query    *string `json:"query"`
	Filter   *string `json:"filter"`
}

// UpdateView POST /api/map/view - adjusts the locality, sector selection,
// search text or filter chip. Absent fields are left unchanged.
func (h *MapHandler) UpdateView(c *gin.Context) {
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	if req.Locality != nil {
		if err := h.dashboard.SetLocality(*req.Locality); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_parameter",
				"message": err.Error(),
			})
			return
		}
	}
	if req.Sector != nil {
		sector, ok := model.ParseSector(*req.Sector)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_parameter",
				"message": "Unknown sector: " + *req.Sector,
			})
			return
		}
		h.dashboard.ToggleSector(sector)
	}
	if req.Query != nil {
		h.dashboard.SetSearchQuery(*req.Query)
	}
	if req.Filter != nil {
		h.dashboard.SetActiveFilter(*req.Filter)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetSectors GET /api/sectors - committed boundary geometry and display
// labels.
func (h *MapHandler) GetSectors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"polygons": h.dashboard.SectorPolygons(),
		"labels":   h.dashboard.SectorLabels(),
	})
}

type beginEditRequest struct {
	SeedFromExisting bool `json:"seedFromExisting"`
}

// BeginEdit POST /api/sectors/:sector/edit - starts a boundary editing pass.
func (h *MapHandler) BeginEdit(c *gin.Context) {
	var req beginEditRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	sector, err := h.dashboard.BeginSectorEdit(c.Param("sector"), req.SeedFromExisting)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sector": sector, "status": "editing"})
}

// Coordinates bind as pointers: zero is a legitimate latitude and must not
// be treated as a missing field.
type pointRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// AddPoint POST /api/sectors/:sector/points - appends a boundary point.
func (h *MapHandler) AddPoint(c *gin.Context) {
	var req pointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	if err := h.dashboard.AddBoundaryPoint(model.LatLng{Lat: *req.Lat, Lng: *req.Lng}); err != nil {
		h.editorError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MovePointer POST /api/sectors/:sector/pointer - tracks the pointer for the
// dashed preview edge.
func (h *MapHandler) MovePointer(c *gin.Context) {
	var req pointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	if err := h.dashboard.MoveBoundaryPointer(model.LatLng{Lat: *req.Lat, Lng: *req.Lng}); err != nil {
		h.editorError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Undo POST /api/sectors/:sector/undo - removes the last boundary point.
func (h *MapHandler) Undo(c *gin.Context) {
	if err := h.dashboard.UndoBoundaryPoint(); err != nil {
		h.editorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ConfirmEdit POST /api/sectors/:sector/confirm - commits the candidate
// boundary.
func (h *MapHandler) ConfirmEdit(c *gin.Context) {
	if err := h.dashboard.ConfirmSectorEdit(); err != nil {
		h.editorError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "committed"})
}

// CancelEdit DELETE /api/sectors/:sector/edit - discards the editing
// session.
func (h *MapHandler) CancelEdit(c *gin.Context) {
	h.dashboard.CancelSectorEdit()
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

type labelRequest struct {
	Label string `json:"label" binding:"required"`
}

// RenameSector PUT /api/sectors/:sector/label - overrides the display label.
func (h *MapHandler) RenameSector(c *gin.Context) {
	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	if err := h.dashboard.RenameSector(c.Param("sector"), req.Label); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "renamed"})
}

// editorError maps the editor's sentinel errors to client-fault statuses.
func (h *MapHandler) editorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, editor.ErrNotEditing):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "not_editing",
			"message": err.Error(),
		})
	case errors.Is(err, editor.ErrTooFewPoints):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "too_few_points",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}
