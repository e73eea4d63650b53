package repository

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yourname/mapscenes-backend-go/internal/codec"
	"github.com/yourname/mapscenes-backend-go/internal/models"
	"github.com/yourname/mapscenes-backend-go/internal/reactive"
	"github.com/yourname/mapscenes-backend-go/internal/store"
)

// SceneRepository is the single authority translating between durable records
// and domain objects for both collections, and the single place compound
// mutations are defined.
type SceneRepository struct {
	scenes  *store.SceneStore
	markers *store.UserMarkerStore
	log     zerolog.Logger
}

// NewSceneRepository creates a new scene repository
func NewSceneRepository(scenes *store.SceneStore, markers *store.UserMarkerStore, log zerolog.Logger) *SceneRepository {
	return &SceneRepository{scenes: scenes, markers: markers, log: log}
}

// streamErr logs query or decode failures inside live views. Subscribers stay
// on the last good emission.
func (r *SceneRepository) streamErr(err error) {
	r.log.Error().Err(err).Msg("live view refresh failed")
}

// ObserveScenes returns a live view of all scenes, re-decoded on every store
// write. New subscribers receive the current state, then all future states.
func (r *SceneRepository) ObserveScenes() *reactive.Stream[[]models.Scene] {
	return reactive.Watch(r.scenes.Changes(), r.GetScenes, r.streamErr)
}

// ObserveUserMarkers returns a live view of all user markers.
func (r *SceneRepository) ObserveUserMarkers() *reactive.Stream[[]models.UserMarker] {
	return reactive.Watch(r.markers.Changes(), r.GetUserMarkers, r.streamErr)
}

// GetScenes returns a snapshot of the full scene collection.
func (r *SceneRepository) GetScenes() ([]models.Scene, error) {
	entities, err := r.scenes.All()
	if err != nil {
		return nil, err
	}
	return codec.DecodeScenes(entities)
}

// GetSceneByID returns a single scene, nil if absent.
func (r *SceneRepository) GetSceneByID(id string) (*models.Scene, error) {
	entity, err := r.scenes.ByID(id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, nil
	}
	s, err := codec.DecodeScene(*entity)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AddScene persists a scene, replacing any existing record with the same id.
func (r *SceneRepository) AddScene(s models.Scene) error {
	return r.scenes.Upsert(codec.EncodeScene(s))
}

// GetScenesByType returns a live view filtered by exact type equality.
func (r *SceneRepository) GetScenesByType(t models.SceneType) *reactive.Stream[[]models.Scene] {
	return reactive.Watch(r.scenes.Changes(), func() ([]models.Scene, error) {
		entities, err := r.scenes.ByType(string(t))
		if err != nil {
			return nil, err
		}
		return codec.DecodeScenes(entities)
	}, r.streamErr)
}

// GetScenesByTypeOnce returns a snapshot of scenes of the given type, the
// first value a live view would deliver.
func (r *SceneRepository) GetScenesByTypeOnce(t models.SceneType) ([]models.Scene, error) {
	entities, err := r.scenes.ByType(string(t))
	if err != nil {
		return nil, err
	}
	return codec.DecodeScenes(entities)
}

// SearchScenes returns scenes whose name or description contains the query.
func (r *SceneRepository) SearchScenes(query string) ([]models.Scene, error) {
	entities, err := r.scenes.SearchText(query)
	if err != nil {
		return nil, err
	}
	return codec.DecodeScenes(entities)
}

// ToggleFavorite flips the favorite flag of a scene and returns the new
// value. A missing id is a benign no-op returning false.
func (r *SceneRepository) ToggleFavorite(sceneID string) (bool, error) {
	scene, err := r.GetSceneByID(sceneID)
	if err != nil {
		return false, err
	}
	if scene == nil {
		return false, nil
	}

	next := !scene.IsFavorite
	if err := r.scenes.SetFavorite(sceneID, next); err != nil {
		return false, err
	}
	return next, nil
}

// GetFavoriteScenes returns a live view of favorited scenes.
func (r *SceneRepository) GetFavoriteScenes() *reactive.Stream[[]models.Scene] {
	return reactive.Watch(r.scenes.Changes(), r.GetFavoriteScenesOnce, r.streamErr)
}

// GetFavoriteScenesOnce returns a snapshot of favorited scenes.
func (r *SceneRepository) GetFavoriteScenesOnce() ([]models.Scene, error) {
	entities, err := r.scenes.Favorites()
	if err != nil {
		return nil, err
	}
	return codec.DecodeScenes(entities)
}

// AddUserMarker persists a user marker.
func (r *SceneRepository) AddUserMarker(m models.UserMarker) error {
	return r.markers.Upsert(codec.EncodeUserMarker(m))
}

// GetUserMarkers returns a snapshot of the full user marker collection.
func (r *SceneRepository) GetUserMarkers() ([]models.UserMarker, error) {
	entities, err := r.markers.All()
	if err != nil {
		return nil, err
	}
	return codec.DecodeUserMarkers(entities)
}

// GetUserMarkerByID returns a single user marker, nil if absent.
func (r *SceneRepository) GetUserMarkerByID(id string) (*models.UserMarker, error) {
	entity, err := r.markers.ByID(id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, nil
	}
	m, err := codec.DecodeUserMarker(*entity)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteUserMarker removes a user marker by id. Deleting is idempotent: a
// missing id still reports success.
func (r *SceneRepository) DeleteUserMarker(markerID string) (bool, error) {
	if err := r.markers.Delete(markerID); err != nil {
		return false, err
	}
	return true, nil
}

// UpdateUserMarker replaces an existing user marker record.
func (r *SceneRepository) UpdateUserMarker(m models.UserMarker) (bool, error) {
	if err := r.markers.Update(codec.EncodeUserMarker(m)); err != nil {
		return false, err
	}
	return true, nil
}

// GetUserMarkersByType returns a live view filtered by marker type.
func (r *SceneRepository) GetUserMarkersByType(t models.MarkerType) *reactive.Stream[[]models.UserMarker] {
	return reactive.Watch(r.markers.Changes(), func() ([]models.UserMarker, error) {
		entities, err := r.markers.ByType(string(t))
		if err != nil {
			return nil, err
		}
		return codec.DecodeUserMarkers(entities)
	}, r.streamErr)
}

// SearchUserMarkers returns markers whose name or description contains the query.
func (r *SceneRepository) SearchUserMarkers(query string) ([]models.UserMarker, error) {
	entities, err := r.markers.SearchText(query)
	if err != nil {
		return nil, err
	}
	return codec.DecodeUserMarkers(entities)
}

// GetUserMarkersByTypeOnce returns a snapshot of markers of the given type.
func (r *SceneRepository) GetUserMarkersByTypeOnce(t models.MarkerType) ([]models.UserMarker, error) {
	entities, err := r.markers.ByType(string(t))
	if err != nil {
		return nil, err
	}
	return codec.DecodeUserMarkers(entities)
}

// InitializeSampleData inserts the fixed seed set if and only if the scene
// collection is empty. The seed uses fixed ids, so a repeated run replaces
// identical records instead of duplicating them. Single active writer is
// assumed; the check-then-insert is not isolated against concurrent seeders.
func (r *SceneRepository) InitializeSampleData() error {
	count, err := r.scenes.Count()
	if err != nil {
		return fmt.Errorf("failed to check scene count: %w", err)
	}
	if count > 0 {
		return nil
	}

	entities := make([]models.SceneEntity, 0, len(sampleScenes))
	for _, s := range sampleScenes {
		entities = append(entities, codec.EncodeScene(s))
	}
	if err := r.scenes.UpsertAll(entities); err != nil {
		return fmt.Errorf("failed to insert sample data: %w", err)
	}

	r.log.Info().Int("count", len(sampleScenes)).Msg("initialized sample scenes")
	return nil
}

// sampleScenes is the fixed initial catalog. 北京四个示例景点
var sampleScenes = []models.Scene{
	{
		ID:                  "1",
		Name:                "天安门广场",
		Description:         "中国北京天安门广场",
		DetailedDescription: "天安门广场位于北京市中心，是世界上最大的城市广场之一。它见证了中国的许多重大历史事件，是中国的象征之一。",
		Latitude:            39.9042,
		Longitude:           116.4074,
		Type:                models.SceneTypeHistorical,
		Rating:              4.8,
		Address:             "北京市东城区东长安街",
		OpeningHours:        "全天开放",
		TicketPrice:         "免费",
		Tags:                []string{"历史", "政治", "广场"},
		VisitCount:          15000,
	},
	{
		ID:                  "2",
		Name:                "故宫博物院",
		Description:         "明清两代的皇家宫殿",
		DetailedDescription: "故宫又称紫禁城，是中国明清两代的皇家宫殿，是世界上现存规模最大、保存最为完整的木质结构古建筑群之一。",
		Latitude:            39.9163,
		Longitude:           116.3972,
		Type:                models.SceneTypeHistorical,
		Rating:              4.9,
		Address:             "北京市东城区景山前街4号",
		OpeningHours:        "08:30-17:00",
		TicketPrice:         "60元",
		Tags:                []string{"博物馆", "古建筑", "皇家"},
		VisitCount:          12000,
	},
	{
		ID:                  "3",
		Name:                "颐和园",
		Description:         "清代皇家园林",
		DetailedDescription: "颐和园是中国清朝时期皇家园林，以昆明湖、万寿山为基址，以杭州西湖为蓝本，汲取江南园林的设计手法而建成的一座大型山水园林。",
		Latitude:            39.9999,
		Longitude:           116.2735,
		Type:                models.SceneTypeNatural,
		Rating:              4.7,
		Address:             "北京市海淀区新建宫门路19号",
		OpeningHours:        "06:30-18:00",
		TicketPrice:         "30元",
		Tags:                []string{"园林", "湖泊", "皇家"},
		VisitCount:          8000,
	},
	{
		ID:                  "4",
		Name:                "798艺术区",
		Description:         "现代艺术聚集地",
		DetailedDescription: "798艺术区是北京的文化创意产业集聚区，原为国营798厂等电子工业的老厂区所在地，如今已成为画廊、艺术中心、艺术家工作室、设计公司等各种空间的聚合。",
		Latitude:            39.9834,
		Longitude:           116.4951,
		Type:                models.SceneTypeCultural,
		Rating:              4.5,
		Address:             "北京市朝阳区酒仙桥路4号798艺术区",
		OpeningHours:        "10:00-18:00",
		TicketPrice:         "免费",
		Tags:                []string{"艺术", "创意", "展览"},
		VisitCount:          5000,
	},
}
