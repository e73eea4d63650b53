package service

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/mapscenes-backend-go/internal/database"
	"github.com/yourname/mapscenes-backend-go/internal/models"
	"github.com/yourname/mapscenes-backend-go/internal/repository"
	"github.com/yourname/mapscenes-backend-go/internal/store"
)

func newTestState(t *testing.T) *MapState {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrationManager(db, zerolog.Nop()).RunMigrations())
	repo := repository.NewSceneRepository(store.NewSceneStore(db), store.NewUserMarkerStore(db), zerolog.Nop())
	require.NoError(t, repo.InitializeSampleData())
	return NewMapState(repo, zerolog.Nop())
}

func TestNewMapState_LoadsInitialState(t *testing.T) {
	state := newTestState(t)

	snap := state.Snapshot()
	assert.Len(t, snap.Scenes, 4)
	assert.Len(t, snap.FilteredScenes, 4)
	assert.Empty(t, snap.UserMarkers)
	assert.False(t, snap.Loading)
}

func TestFilterByType_ThenClear(t *testing.T) {
	state := newTestState(t)

	historical := models.SceneTypeHistorical
	state.FilterByType(&historical)
	snap := state.Snapshot()
	require.Len(t, snap.FilteredScenes, 2)
	assert.Equal(t, "1", snap.FilteredScenes[0].ID)
	assert.Equal(t, "2", snap.FilteredScenes[1].ID)

	state.FilterByType(nil)
	snap = state.Snapshot()
	assert.Equal(t, snap.Scenes, snap.FilteredScenes)
}

func TestSearchScenes_BlankResetsToFullList(t *testing.T) {
	state := newTestState(t)

	state.SearchScenes("颐和园")
	snap := state.Snapshot()
	require.Len(t, snap.FilteredScenes, 1)
	assert.Equal(t, "3", snap.FilteredScenes[0].ID)

	state.SearchScenes("")
	snap = state.Snapshot()
	assert.Equal(t, snap.Scenes, snap.FilteredScenes)
	assert.Empty(t, snap.SearchQuery)
}

func TestSearchAndFilter_LastCallWinsOnOutput(t *testing.T) {
	state := newTestState(t)

	historical := models.SceneTypeHistorical
	state.FilterByType(&historical)
	state.SearchScenes("颐和园")

	snap := state.Snapshot()
	// The search overwrote the filtered output, but the stored type filter
	// is retained: the two are not composed.
	require.Len(t, snap.FilteredScenes, 1)
	assert.Equal(t, "3", snap.FilteredScenes[0].ID)
	require.NotNil(t, snap.SelectedType)
	assert.Equal(t, historical, *snap.SelectedType)
}

func TestPlacementFlow(t *testing.T) {
	state := newTestState(t)

	// Idle: position events are ignored.
	assert.False(t, state.SetTempMarkerPosition(models.LatLng{Latitude: 39.9, Longitude: 116.4}))
	assert.Nil(t, state.Snapshot().TempMarkerPosition)

	state.StartAddingMarker()
	assert.True(t, state.Snapshot().AddingMarker)

	assert.True(t, state.SetTempMarkerPosition(models.LatLng{Latitude: 39.9, Longitude: 116.4}))
	snap := state.Snapshot()
	require.NotNil(t, snap.TempMarkerPosition)
	assert.Equal(t, 39.9, snap.TempMarkerPosition.Latitude)

	state.CancelAddingMarker()
	snap = state.Snapshot()
	assert.False(t, snap.AddingMarker)
	assert.Nil(t, snap.TempMarkerPosition)
}

func TestAddUserMarker_WithoutPositionIsNoOp(t *testing.T) {
	state := newTestState(t)

	state.StartAddingMarker()
	marker, err := state.AddUserMarker("Test", "", models.MarkerTypePlan, nil)
	require.NoError(t, err)
	assert.Nil(t, marker)
	assert.Empty(t, state.Snapshot().UserMarkers)
}

func TestAddUserMarker_PersistsAndReturnsToIdle(t *testing.T) {
	state := newTestState(t)

	state.StartAddingMarker()
	require.True(t, state.SetTempMarkerPosition(models.LatLng{Latitude: 39.9, Longitude: 116.4}))

	marker, err := state.AddUserMarker("Test", "", models.MarkerTypePlan, []string{"a", "b"})
	require.NoError(t, err)
	require.NotNil(t, marker)
	assert.NotEmpty(t, marker.ID)
	assert.Equal(t, 39.9, marker.Latitude)
	assert.Equal(t, 116.4, marker.Longitude)
	assert.Equal(t, models.MarkerTypePlan, marker.MarkerType)
	assert.Equal(t, []string{"a", "b"}, marker.Tags)
	assert.Equal(t, models.DefaultMarkerColor, marker.Color)
	assert.Positive(t, marker.CreatedAt)

	snap := state.Snapshot()
	assert.False(t, snap.AddingMarker)
	assert.Nil(t, snap.TempMarkerPosition)
	require.Len(t, snap.UserMarkers, 1)
	assert.Equal(t, marker.ID, snap.UserMarkers[0].ID)
}

func TestToggleFavorite_ReloadsLists(t *testing.T) {
	state := newTestState(t)

	favorite, err := state.ToggleFavorite("1")
	require.NoError(t, err)
	assert.True(t, favorite)

	snap := state.Snapshot()
	assert.True(t, snap.Scenes[0].IsFavorite)
	assert.True(t, snap.FilteredScenes[0].IsFavorite)
}

func TestToggleFavorite_MissingID(t *testing.T) {
	state := newTestState(t)

	favorite, err := state.ToggleFavorite("nonexistent")
	require.NoError(t, err)
	assert.False(t, favorite)
}

func TestDeleteUserMarker_ClearsSelection(t *testing.T) {
	state := newTestState(t)

	state.StartAddingMarker()
	require.True(t, state.SetTempMarkerPosition(models.LatLng{Latitude: 1, Longitude: 2}))
	marker, err := state.AddUserMarker("doomed", "", models.MarkerTypePersonal, nil)
	require.NoError(t, err)
	require.NotNil(t, marker)

	_, err = state.SelectUserMarker(marker.ID)
	require.NoError(t, err)
	require.NotNil(t, state.Snapshot().SelectedUserMarker)

	ok, err := state.DeleteUserMarker(marker.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	snap := state.Snapshot()
	assert.Empty(t, snap.UserMarkers)
	assert.Nil(t, snap.SelectedUserMarker)
}

func TestSelectScene(t *testing.T) {
	state := newTestState(t)

	scene, err := state.SelectScene("2")
	require.NoError(t, err)
	require.NotNil(t, scene)
	assert.Equal(t, "故宫博物院", scene.Name)
	assert.Equal(t, "2", state.Snapshot().SelectedScene.ID)

	absent, err := state.SelectScene("404")
	require.NoError(t, err)
	assert.Nil(t, absent)
	// Selection is untouched by a miss.
	assert.Equal(t, "2", state.Snapshot().SelectedScene.ID)

	state.ClearSelectedScene()
	assert.Nil(t, state.Snapshot().SelectedScene)
}

func TestAddScene_RefreshesLists(t *testing.T) {
	state := newTestState(t)

	err := state.AddScene(models.Scene{
		ID: "5", Name: "南锣鼓巷", Type: models.SceneTypeUrban, Tags: []string{},
	})
	require.NoError(t, err)

	snap := state.Snapshot()
	assert.Len(t, snap.Scenes, 5)
	assert.Len(t, snap.FilteredScenes, 5)
}
