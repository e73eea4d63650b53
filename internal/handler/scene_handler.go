package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourname/mapscenes-backend-go/internal/models"
	"github.com/yourname/mapscenes-backend-go/internal/repository"
	"github.com/yourname/mapscenes-backend-go/internal/service"
	"github.com/yourname/mapscenes-backend-go/pkg/response"
)

// SceneHandler handles HTTP requests for the scene catalog
type SceneHandler struct {
	repo  *repository.SceneRepository
	state *service.MapState
}

// NewSceneHandler creates a new scene handler
func NewSceneHandler(repo *repository.SceneRepository, state *service.MapState) *SceneHandler {
	return &SceneHandler{repo: repo, state: state}
}

// ListScenes handles GET /api/v1/scenes
func (h *SceneHandler) ListScenes(c *gin.Context) {
	// Optional exact type filter
	if typeName := c.Query("type"); typeName != "" {
		t, err := models.ParseSceneType(typeName)
		if err != nil {
			response.BadRequest(c, "Unknown scene type")
			return
		}
		scenes, err := h.repo.GetScenesByTypeOnce(t)
		if err != nil {
			response.InternalError(c, err.Error())
			return
		}
		response.Success(c, scenes)
		return
	}

	scenes, err := h.repo.GetScenes()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, scenes)
}

// GetSceneByID handles GET /api/v1/scenes/:id
func (h *SceneHandler) GetSceneByID(c *gin.Context) {
	scene, err := h.repo.GetSceneByID(c.Param("id"))
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

// SearchScenes handles GET /api/v1/scenes/search
func (h *SceneHandler) SearchScenes(c *gin.Context) {
	query := c.Query("q")
	scenes, err := h.repo.SearchScenes(query)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, scenes)
}

// ListFavorites handles GET /api/v1/scenes/favorites
func (h *SceneHandler) ListFavorites(c *gin.Context) {
	scenes, err := h.repo.GetFavoriteScenesOnce()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, scenes)
}

// CreateScene handles POST /api/v1/scenes (authenticated)
func (h *SceneHandler) CreateScene(c *gin.Context) {
	var scene models.Scene
	if err := c.ShouldBindJSON(&scene); err != nil {
		response.BadRequest(c, "Invalid scene payload")
		return
	}
	if scene.Name == "" {
		response.BadRequest(c, "Scene name is required")
		return
	}
	if _, err := models.ParseSceneType(string(scene.Type)); err != nil {
		response.BadRequest(c, "Unknown scene type")
		return
	}
	if scene.ID == "" {
		scene.ID = uuid.NewString()
	}

	if err := h.state.AddScene(scene); err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Created(c, scene)
}

// ToggleFavorite handles POST /api/v1/scenes/:id/favorite. A missing id is a
// benign no-op reporting favorite=false.
func (h *SceneHandler) ToggleFavorite(c *gin.Context) {
	favorite, err := h.state.ToggleFavorite(c.Param("id"))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, gin.H{"favorite": favorite})
}

// sceneTypeInfo describes one scene type variant for clients.
type sceneTypeInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Color       string `json:"color"`
}

// ListSceneTypes handles GET /api/v1/scenes/types
func (h *SceneHandler) ListSceneTypes(c *gin.Context) {
	types := make([]sceneTypeInfo, 0, len(models.SceneTypes()))
	for _, t := range models.SceneTypes() {
		types = append(types, sceneTypeInfo{
			Name:        string(t),
			DisplayName: t.DisplayName(),
			Color:       t.Color(),
		})
	}
	response.Success(c, types)
}
