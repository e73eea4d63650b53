package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/yourname/mapscenes-backend-go/internal/repository"
)

// StreamHandler pushes live collection views to websocket clients. Each
// client receives the current state on connect and the full new state after
// every write, replay-latest (a slow client skips intermediate states).
type StreamHandler struct {
	repo *repository.SceneRepository
	log  zerolog.Logger

	upgrader websocket.Upgrader
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(repo *repository.SceneRepository, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		repo: repo,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Clients are mobile apps, not browsers
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// StreamScenes handles GET /ws/scenes
func (h *StreamHandler) StreamScenes(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	stream := h.repo.ObserveScenes()
	h.pump(conn, func() (interface{}, bool) {
		v, ok := <-stream.C
		return v, ok
	}, stream.Close)
}

// StreamUserMarkers handles GET /ws/markers
func (h *StreamHandler) StreamUserMarkers(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	stream := h.repo.ObserveUserMarkers()
	h.pump(conn, func() (interface{}, bool) {
		v, ok := <-stream.C
		return v, ok
	}, stream.Close)
}

// pump writes successive stream values to the connection until either side
// goes away.
func (h *StreamHandler) pump(conn *websocket.Conn, next func() (interface{}, bool), closeStream func()) {
	defer conn.Close()
	defer closeStream()

	// Tear down the stream when the client disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeStream()
				return
			}
		}
	}()

	for {
		v, ok := next()
		if !ok {
			return
		}
		payload, err := json.Marshal(v)
		if err != nil {
			h.log.Error().Err(err).Msg("failed to marshal stream payload")
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
