package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/yourname/mapscenes-backend-go/internal/config"
	"github.com/yourname/mapscenes-backend-go/internal/handler"
	"github.com/yourname/mapscenes-backend-go/internal/middleware"
	"github.com/yourname/mapscenes-backend-go/internal/repository"
	"github.com/yourname/mapscenes-backend-go/internal/service"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, repo *repository.SceneRepository, state *service.MapState, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Map Scenes API is running",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	sceneHandler := handler.NewSceneHandler(repo, state)
	markerHandler := handler.NewMarkerHandler(repo, state)
	mapHandler := handler.NewMapHandler(state)
	streamHandler := handler.NewStreamHandler(repo, log)

	// API 路由组
	api := r.Group("/api/v1")
	{
		// 景点接口
		scenes := api.Group("/scenes")
		{
			scenes.GET("", sceneHandler.ListScenes)
			scenes.GET("/search", sceneHandler.SearchScenes)
			scenes.GET("/favorites", sceneHandler.ListFavorites)
			scenes.GET("/types", sceneHandler.ListSceneTypes)
			scenes.GET("/:id", sceneHandler.GetSceneByID)
			scenes.POST("/:id/favorite", sceneHandler.ToggleFavorite)
			scenes.POST("", middleware.RequireAuth(cfg.JWTSecret), sceneHandler.CreateScene)
		}

		// 用户标记接口
		markers := api.Group("/markers")
		{
			markers.GET("", markerHandler.ListMarkers)
			markers.GET("/types", markerHandler.ListMarkerTypes)
			markers.GET("/:id", markerHandler.GetMarkerByID)
			markers.PUT("/:id", markerHandler.UpdateMarker)
			markers.DELETE("/:id", markerHandler.DeleteMarker)
		}

		// 地图视图状态接口
		mapGroup := api.Group("/map")
		{
			mapGroup.GET("/state", mapHandler.GetState)
			mapGroup.POST("/search", mapHandler.Search)
			mapGroup.POST("/filter", mapHandler.Filter)
			mapGroup.POST("/placement/start", mapHandler.StartPlacement)
			mapGroup.POST("/placement/position", mapHandler.SetPlacementPosition)
			mapGroup.POST("/placement/cancel", mapHandler.CancelPlacement)
			mapGroup.POST("/markers", mapHandler.CreateMarker)
			mapGroup.POST("/selection/scene/:id", mapHandler.SelectScene)
			mapGroup.DELETE("/selection/scene", mapHandler.ClearSelectedScene)
			mapGroup.POST("/selection/marker/:id", mapHandler.SelectMarker)
			mapGroup.DELETE("/selection/marker", mapHandler.ClearSelectedMarker)
		}
	}

	// 实时推送
	ws := r.Group("/ws")
	{
		ws.GET("/scenes", streamHandler.StreamScenes)
		ws.GET("/markers", streamHandler.StreamUserMarkers)
	}

	return r
}
