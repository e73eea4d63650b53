package store

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourname/mapscenes-backend-go/internal/database"
	"github.com/yourname/mapscenes-backend-go/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrationManager(db, zerolog.Nop()).RunMigrations())
	return db
}

func sceneEntity(id, name, typeName string) models.SceneEntity {
	return models.SceneEntity{
		ID:        id,
		Name:      name,
		Type:      typeName,
		Latitude:  39.9,
		Longitude: 116.4,
		Tags:      "[]",
	}
}

func TestSceneStore_UpsertAndByID(t *testing.T) {
	s := NewSceneStore(newTestDB(t))

	require.NoError(t, s.Upsert(sceneEntity("1", "故宫", "HISTORICAL")))

	got, err := s.ByID("1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "故宫", got.Name)

	// Upsert replaces the record with the same id.
	require.NoError(t, s.Upsert(sceneEntity("1", "故宫博物院", "HISTORICAL")))
	got, err = s.ByID("1")
	require.NoError(t, err)
	assert.Equal(t, "故宫博物院", got.Name)

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSceneStore_ByID_Absent(t *testing.T) {
	s := NewSceneStore(newTestDB(t))

	got, err := s.ByID("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSceneStore_ByType(t *testing.T) {
	s := NewSceneStore(newTestDB(t))
	require.NoError(t, s.UpsertAll([]models.SceneEntity{
		sceneEntity("1", "天安门广场", "HISTORICAL"),
		sceneEntity("2", "故宫博物院", "HISTORICAL"),
		sceneEntity("3", "颐和园", "NATURAL"),
	}))

	got, err := s.ByType("HISTORICAL")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "2", got[1].ID)
}

func TestSceneStore_SearchText(t *testing.T) {
	s := NewSceneStore(newTestDB(t))
	e1 := sceneEntity("1", "Summer Palace", "NATURAL")
	e1.Description = "imperial garden"
	e2 := sceneEntity("2", "798 Art Zone", "CULTURAL")
	e2.Description = "modern art district"
	require.NoError(t, s.UpsertAll([]models.SceneEntity{e1, e2}))

	got, err := s.SearchText("art")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	// Case-insensitive, matches description too.
	got, err = s.SearchText("IMPERIAL")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestSceneStore_SetFavorite(t *testing.T) {
	s := NewSceneStore(newTestDB(t))
	require.NoError(t, s.Upsert(sceneEntity("1", "颐和园", "NATURAL")))

	require.NoError(t, s.SetFavorite("1", true))
	got, err := s.ByID("1")
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)

	favs, err := s.Favorites()
	require.NoError(t, err)
	require.Len(t, favs, 1)

	require.NoError(t, s.SetFavorite("1", false))
	favs, err = s.Favorites()
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestSceneStore_WatchAll_EmitsOnWrite(t *testing.T) {
	s := NewSceneStore(newTestDB(t))
	stream := s.WatchAll(nil)
	defer stream.Close()

	select {
	case initial := <-stream.C:
		assert.Empty(t, initial)
	case <-time.After(2 * time.Second):
		t.Fatal("no initial emission")
	}

	require.NoError(t, s.Upsert(sceneEntity("1", "颐和园", "NATURAL")))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case entities := <-stream.C:
			if len(entities) == 1 {
				assert.Equal(t, "1", entities[0].ID)
				return
			}
		case <-deadline:
			t.Fatal("no emission after write")
		}
	}
}

func markerEntity(id, name, typeName string) models.UserMarkerEntity {
	return models.UserMarkerEntity{
		ID:         id,
		Name:       name,
		MarkerType: typeName,
		Latitude:   39.9,
		Longitude:  116.4,
		CreatedAt:  1700000000000,
		Tags:       "[]",
		Color:      models.DefaultMarkerColor,
	}
}

func TestUserMarkerStore_CRUD(t *testing.T) {
	s := NewUserMarkerStore(newTestDB(t))

	require.NoError(t, s.Upsert(markerEntity("m1", "home", "PERSONAL")))
	require.NoError(t, s.Upsert(markerEntity("m2", "trip", "PLAN")))

	all, err := s.All()
	require.NoError(t, err)
	require.Len(t, all, 2)

	byType, err := s.ByType("PLAN")
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "m2", byType[0].ID)

	updated := markerEntity("m1", "work", "VISITED")
	require.NoError(t, s.Update(updated))
	got, err := s.ByID("m1")
	require.NoError(t, err)
	assert.Equal(t, "work", got.Name)
	assert.Equal(t, "VISITED", got.MarkerType)

	require.NoError(t, s.Delete("m1"))
	got, err = s.ByID("m1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting an absent id is a no-op, not an error.
	require.NoError(t, s.Delete("m1"))

	count, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserMarkerStore_UpdateMissingIsNoOp(t *testing.T) {
	s := NewUserMarkerStore(newTestDB(t))

	require.NoError(t, s.Update(markerEntity("ghost", "x", "PERSONAL")))

	count, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}
