package service

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/yourname/mapscenes-backend-go/internal/models"
	"github.com/yourname/mapscenes-backend-go/internal/repository"
)

// MapState coordinates the map screen's view state: the full and filtered
// scene lists, the current search/type filter, the user marker list and the
// marker-placement flow. Failed loads keep the previous state (stale but
// consistent) and are logged.
type MapState struct {
	repo *repository.SceneRepository
	log  zerolog.Logger

	mu             sync.RWMutex
	scenes         []models.Scene
	filtered       []models.Scene
	searchQuery    string
	selectedType   *models.SceneType
	markers        []models.UserMarker
	selectedScene  *models.Scene
	selectedMarker *models.UserMarker
	addingMarker   bool
	tempPosition   *models.LatLng
	loading        bool
}

// MapSnapshot is a point-in-time copy of the coordinator state.
type MapSnapshot struct {
	Scenes             []models.Scene      `json:"scenes"`
	FilteredScenes     []models.Scene      `json:"filteredScenes"`
	SearchQuery        string              `json:"searchQuery"`
	SelectedType       *models.SceneType   `json:"selectedType,omitempty"`
	UserMarkers        []models.UserMarker `json:"userMarkers"`
	SelectedScene      *models.Scene       `json:"selectedScene,omitempty"`
	SelectedUserMarker *models.UserMarker  `json:"selectedUserMarker,omitempty"`
	AddingMarker       bool                `json:"addingMarker"`
	TempMarkerPosition *models.LatLng      `json:"tempMarkerPosition,omitempty"`
	Loading            bool                `json:"loading"`
}

// NewMapState creates the coordinator and performs the initial loads.
func NewMapState(repo *repository.SceneRepository, log zerolog.Logger) *MapState {
	m := &MapState{repo: repo, log: log}
	m.LoadScenes()
	m.LoadUserMarkers()
	return m
}

// Snapshot returns a copy of the current state.
func (m *MapState) Snapshot() MapSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MapSnapshot{
		Scenes:             m.scenes,
		FilteredScenes:     m.filtered,
		SearchQuery:        m.searchQuery,
		SelectedType:       m.selectedType,
		UserMarkers:        m.markers,
		SelectedScene:      m.selectedScene,
		SelectedUserMarker: m.selectedMarker,
		AddingMarker:       m.addingMarker,
		TempMarkerPosition: m.tempPosition,
		Loading:            m.loading,
	}
}

// LoadScenes refreshes both the full and filtered scene lists from the
// repository. On failure the lists are left unchanged.
func (m *MapState) LoadScenes() {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()

	scenes, err := m.repo.GetScenes()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.log.Error().Err(err).Msg("failed to load scenes")
		return
	}
	m.scenes = scenes
	m.filtered = scenes
}

// LoadUserMarkers refreshes the user marker list.
func (m *MapState) LoadUserMarkers() {
	markers, err := m.repo.GetUserMarkers()
	if err != nil {
		m.log.Error().Err(err).Msg("failed to load user markers")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = markers
}

// SearchScenes stores the query and recomputes the filtered list. A blank
// query resets the filtered list to the full list. The stored type filter is
// retained but its effect on the output is overwritten (last call wins).
func (m *MapState) SearchScenes(query string) {
	m.mu.Lock()
	m.searchQuery = query
	full := m.scenes
	m.mu.Unlock()

	if query == "" {
		m.mu.Lock()
		m.filtered = full
		m.mu.Unlock()
		return
	}

	results, err := m.repo.SearchScenes(query)
	if err != nil {
		m.log.Error().Err(err).Str("query", query).Msg("scene search failed")
		return
	}

	m.mu.Lock()
	m.filtered = results
	m.mu.Unlock()
}

// FilterByType stores the type filter and recomputes the filtered list. A nil
// type means "all" and resets the filtered list to the full list.
func (m *MapState) FilterByType(t *models.SceneType) {
	m.mu.Lock()
	m.selectedType = t
	full := m.scenes
	m.mu.Unlock()

	if t == nil {
		m.mu.Lock()
		m.filtered = full
		m.mu.Unlock()
		return
	}

	results, err := m.repo.GetScenesByTypeOnce(*t)
	if err != nil {
		m.log.Error().Err(err).Str("type", string(*t)).Msg("type filter failed")
		return
	}

	m.mu.Lock()
	m.filtered = results
	m.mu.Unlock()
}

// StartAddingMarker enters marker placement mode.
func (m *MapState) StartAddingMarker() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addingMarker = true
}

// CancelAddingMarker leaves placement mode and clears any pending position.
func (m *MapState) CancelAddingMarker() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addingMarker = false
	m.tempPosition = nil
}

// SetTempMarkerPosition records where the user long-pressed. Ignored unless
// placement mode is active, so stray position events cannot arm a placement.
func (m *MapState) SetTempMarkerPosition(pos models.LatLng) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.addingMarker {
		return false
	}
	m.tempPosition = &pos
	return true
}

// AddUserMarker persists a marker at the pending position, leaves placement
// mode and refreshes the marker list. Without a pending position it is a
// no-op returning nil.
func (m *MapState) AddUserMarker(name, description string, t models.MarkerType, tags []string) (*models.UserMarker, error) {
	m.mu.Lock()
	pos := m.tempPosition
	m.mu.Unlock()
	if pos == nil {
		return nil, nil
	}

	marker := models.NewUserMarker(name, description, pos.Latitude, pos.Longitude, t, tags)
	if err := m.repo.AddUserMarker(marker); err != nil {
		m.log.Error().Err(err).Msg("failed to add user marker")
		return nil, err
	}

	m.mu.Lock()
	m.addingMarker = false
	m.tempPosition = nil
	m.mu.Unlock()

	m.LoadUserMarkers()
	return &marker, nil
}

// AddScene persists a scene and reloads the list.
func (m *MapState) AddScene(s models.Scene) error {
	if err := m.repo.AddScene(s); err != nil {
		return err
	}
	m.LoadScenes()
	return nil
}

// ToggleFavorite flips a scene's favorite flag, then reloads the full list so
// the full and filtered views stay consistent.
func (m *MapState) ToggleFavorite(sceneID string) (bool, error) {
	favorite, err := m.repo.ToggleFavorite(sceneID)
	if err != nil {
		m.log.Error().Err(err).Str("scene_id", sceneID).Msg("toggle favorite failed")
		return false, err
	}
	m.LoadScenes()
	return favorite, nil
}

// DeleteUserMarker removes a marker, reloads the list and clears any selected
// marker.
func (m *MapState) DeleteUserMarker(markerID string) (bool, error) {
	ok, err := m.repo.DeleteUserMarker(markerID)
	if err != nil {
		m.log.Error().Err(err).Str("marker_id", markerID).Msg("delete user marker failed")
		return false, err
	}

	m.LoadUserMarkers()
	m.mu.Lock()
	m.selectedMarker = nil
	m.mu.Unlock()
	return ok, nil
}

// SelectScene marks a scene as selected by id. Unknown ids clear nothing and
// report absence.
func (m *MapState) SelectScene(id string) (*models.Scene, error) {
	scene, err := m.repo.GetSceneByID(id)
	if err != nil || scene == nil {
		return nil, err
	}
	m.mu.Lock()
	m.selectedScene = scene
	m.mu.Unlock()
	return scene, nil
}

// ClearSelectedScene clears the selected scene.
func (m *MapState) ClearSelectedScene() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectedScene = nil
}

// SelectUserMarker marks a user marker as selected by id.
func (m *MapState) SelectUserMarker(id string) (*models.UserMarker, error) {
	marker, err := m.repo.GetUserMarkerByID(id)
	if err != nil || marker == nil {
		return nil, err
	}
	m.mu.Lock()
	m.selectedMarker = marker
	m.mu.Unlock()
	return marker, nil
}

// ClearSelectedUserMarker clears the selected user marker.
func (m *MapState) ClearSelectedUserMarker() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectedMarker = nil
}
