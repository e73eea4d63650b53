package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/yourname/mapscenes-backend-go/internal/models"
	"github.com/yourname/mapscenes-backend-go/internal/repository"
	"github.com/yourname/mapscenes-backend-go/internal/service"
	"github.com/yourname/mapscenes-backend-go/pkg/response"
)

// MarkerHandler handles HTTP requests for user markers
type MarkerHandler struct {
	repo  *repository.SceneRepository
	state *service.MapState
}

// NewMarkerHandler creates a new marker handler
func NewMarkerHandler(repo *repository.SceneRepository, state *service.MapState) *MarkerHandler {
	return &MarkerHandler{repo: repo, state: state}
}

// ListMarkers handles GET /api/v1/markers
func (h *MarkerHandler) ListMarkers(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		markers, err := h.repo.SearchUserMarkers(q)
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}
		response.Success(c, markers)
		return
	}
	if typeName := c.Query("type"); typeName != "" {
		t, err := models.ParseMarkerType(typeName)
		if err != nil {
			response.BadRequest(c, "Unknown marker type")
			return
		}
		markers, err := h.repo.GetUserMarkersByTypeOnce(t)
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}
		response.Success(c, markers)
		return
	}

	markers, err := h.repo.GetUserMarkers()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, markers)
}

// GetMarkerByID handles GET /api/v1/markers/:id
func (h *MarkerHandler) GetMarkerByID(c *gin.Context) {
	marker, err := h.repo.GetUserMarkerByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if marker == nil {
		response.NotFound(c, "Marker not found")
		return
	}
	response.Success(c, marker)
}

// updateMarkerRequest is the replaceable portion of a marker.
type updateMarkerRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	MarkerType  string   `json:"markerType" binding:"required"`
	Tags        []string `json:"tags"`
	Color       string   `json:"color"`
}

// UpdateMarker handles PUT /api/v1/markers/:id
func (h *MarkerHandler) UpdateMarker(c *gin.Context) {
	var req updateMarkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid marker payload")
		return
	}
	t, err := models.ParseMarkerType(req.MarkerType)
	if err != nil {
		response.BadRequest(c, "Unknown marker type")
		return
	}

	existing, err := h.repo.GetUserMarkerByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if existing == nil {
		response.NotFound(c, "Marker not found")
		return
	}

	marker := *existing
	marker.Name = req.Name
	marker.Description = req.Description
	marker.Latitude = req.Latitude
	marker.Longitude = req.Longitude
	marker.MarkerType = t
	if req.Tags != nil {
		marker.Tags = req.Tags
	}
	if req.Color != "" {
		marker.Color = req.Color
	}

	if _, err := h.repo.UpdateUserMarker(marker); err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, marker)
}

// DeleteMarker handles DELETE /api/v1/markers/:id. Deleting a missing id
// still reports success.
func (h *MarkerHandler) DeleteMarker(c *gin.Context) {
	ok, err := h.state.DeleteUserMarker(c.Param("id"))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": ok})
}

// markerTypeInfo describes one marker type variant for clients.
type markerTypeInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// ListMarkerTypes handles GET /api/v1/markers/types
func (h *MarkerHandler) ListMarkerTypes(c *gin.Context) {
	types := make([]markerTypeInfo, 0, len(models.MarkerTypes()))
	for _, t := range models.MarkerTypes() {
		types = append(types, markerTypeInfo{Name: string(t), DisplayName: t.DisplayName()})
	}
	response.Success(c, types)
}
