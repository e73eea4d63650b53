package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourname/mapscenes-backend-go/internal/models"
	"github.com/yourname/mapscenes-backend-go/internal/service"
	"github.com/yourname/mapscenes-backend-go/pkg/response"
)

// MapHandler exposes the map screen's view-state coordinator: filtered scene
// views, selection and the marker-placement flow.
type MapHandler struct {
	state *service.MapState
}

// NewMapHandler creates a new map handler
func NewMapHandler(state *service.MapState) *MapHandler {
	return &MapHandler{state: state}
}

// GetState handles GET /api/v1/map/state
func (h *MapHandler) GetState(c *gin.Context) {
	response.Success(c, h.state.Snapshot())
}

// Search handles POST /api/v1/map/search
func (h *MapHandler) Search(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid search payload")
		return
	}
	h.state.SearchScenes(req.Query)
	response.Success(c, h.state.Snapshot().FilteredScenes)
}

// Filter handles POST /api/v1/map/filter. An empty type clears the filter.
func (h *MapHandler) Filter(c *gin.Context) {
	var req struct {
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid filter payload")
		return
	}

	if req.Type == "" {
		h.state.FilterByType(nil)
	} else {
		t, err := models.ParseSceneType(req.Type)
		if err != nil {
			response.BadRequest(c, "Unknown scene type")
			return
		}
		h.state.FilterByType(&t)
	}
	response.Success(c, h.state.Snapshot().FilteredScenes)
}

// StartPlacement handles POST /api/v1/map/placement/start
func (h *MapHandler) StartPlacement(c *gin.Context) {
	h.state.StartAddingMarker()
	response.Success(c, gin.H{"addingMarker": true})
}

// CancelPlacement handles POST /api/v1/map/placement/cancel
func (h *MapHandler) CancelPlacement(c *gin.Context) {
	h.state.CancelAddingMarker()
	response.Success(c, gin.H{"addingMarker": false})
}

// SetPlacementPosition handles POST /api/v1/map/placement/position, carrying
// the coordinate where the user long-pressed. Rejected while not placing.
func (h *MapHandler) SetPlacementPosition(c *gin.Context) {
	var pos models.LatLng
	if err := c.ShouldBindJSON(&pos); err != nil {
		response.BadRequest(c, "Invalid coordinate payload")
		return
	}

	if !h.state.SetTempMarkerPosition(pos) {
		response.Error(c, http.StatusConflict, "Not in marker placement mode")
		return
	}
	response.Success(c, pos)
}

// createMarkerRequest carries the user-entered marker fields; the position
// comes from the pending placement coordinate.
type createMarkerRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	MarkerType  string   `json:"markerType"`
	Tags        []string `json:"tags"`
}

// CreateMarker handles POST /api/v1/map/markers, completing the placement
// flow.
func (h *MapHandler) CreateMarker(c *gin.Context) {
	var req createMarkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid marker payload")
		return
	}

	t := models.MarkerTypePersonal
	if req.MarkerType != "" {
		parsed, err := models.ParseMarkerType(req.MarkerType)
		if err != nil {
			response.BadRequest(c, "Unknown marker type")
			return
		}
		t = parsed
	}

	marker, err := h.state.AddUserMarker(req.Name, req.Description, t, req.Tags)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if marker == nil {
		response.Error(c, http.StatusConflict, "No pending placement position")
		return
	}
	response.Created(c, marker)
}

// SelectScene handles POST /api/v1/map/selection/scene/:id
func (h *MapHandler) SelectScene(c *gin.Context) {
	scene, err := h.state.SelectScene(c.Param("id"))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if scene == nil {
		response.NotFound(c, "Scene not found")
		return
	}
	response.Success(c, scene)
}

// ClearSelectedScene handles DELETE /api/v1/map/selection/scene
func (h *MapHandler) ClearSelectedScene(c *gin.Context) {
	h.state.ClearSelectedScene()
	response.Success(c, nil)
}

// SelectMarker handles POST /api/v1/map/selection/marker/:id
func (h *MapHandler) SelectMarker(c *gin.Context) {
	marker, err := h.state.SelectUserMarker(c.Param("id"))
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

// ClearSelectedMarker handles DELETE /api/v1/map/selection/marker
func (h *MapHandler) ClearSelectedMarker(c *gin.Context) {
	h.state.ClearSelectedUserMarker()
	response.Success(c, nil)
}
