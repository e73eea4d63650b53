// Package store implements the durable keyed entity stores for the two
// collections, scenes and user_markers. Every successful write signals the
// collection's change hub so live views re-query.
package store

import (
	"database/sql"
	"fmt"

	"github.com/yourname/mapscenes-backend-go/internal/database"
	"github.com/yourname/mapscenes-backend-go/internal/models"
	"github.com/yourname/mapscenes-backend-go/internal/reactive"
)

const sceneColumns = `id, name, description, detailed_description, latitude, longitude, type,
	rating, image_url, address, opening_hours, ticket_price, contact_phone, website, tags,
	is_favorite, visit_count, last_visited`

// SceneStore handles database operations for scene records
type SceneStore struct {
	db      *sql.DB
	changes *reactive.Hub
}

// NewSceneStore creates a new scene store
func NewSceneStore(db *sql.DB) *SceneStore {
	return &SceneStore{db: db, changes: reactive.NewHub()}
}

// Changes returns the hub signalled after every write to the collection.
func (s *SceneStore) Changes() *reactive.Hub {
	return s.changes
}

func scanScene(rows *sql.Rows) (models.SceneEntity, error) {
	var e models.SceneEntity
	err := rows.Scan(
		&e.ID, &e.Name, &e.Description, &e.DetailedDescription, &e.Latitude, &e.Longitude,
		&e.Type, &e.Rating, &e.ImageURL, &e.Address, &e.OpeningHours, &e.TicketPrice,
		&e.ContactPhone, &e.Website, &e.Tags, &e.IsFavorite, &e.VisitCount, &e.LastVisited,
	)
	return e, err
}

func (s *SceneStore) queryScenes(query string, args ...interface{}) ([]models.SceneEntity, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenes: %w", err)
	}
	defer rows.Close()

	var entities []models.SceneEntity
	for rows.Next() {
		e, err := scanScene(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scene: %w", err)
		}
		entities = append(entities, e)
	}

	return entities, rows.Err()
}

// All retrieves every scene record in store order.
func (s *SceneStore) All() ([]models.SceneEntity, error) {
	return s.queryScenes(`SELECT ` + sceneColumns + ` FROM scenes ORDER BY rowid`)
}

// WatchAll returns a live view of the full collection, re-emitting on every write.
func (s *SceneStore) WatchAll(onErr func(error)) *reactive.Stream[[]models.SceneEntity] {
	return reactive.Watch(s.changes, s.All, onErr)
}

// ByID retrieves a single scene record, nil if absent.
func (s *SceneStore) ByID(id string) (*models.SceneEntity, error) {
	rows, err := s.db.Query(`SELECT `+sceneColumns+` FROM scenes WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get scene: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	e, err := scanScene(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan scene: %w", err)
	}
	return &e, nil
}

const sceneUpsertSQL = `
	INSERT OR REPLACE INTO scenes (` + sceneColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func sceneArgs(e models.SceneEntity) []interface{} {
	return []interface{}{
		e.ID, e.Name, e.Description, e.DetailedDescription, e.Latitude, e.Longitude,
		e.Type, e.Rating, e.ImageURL, e.Address, e.OpeningHours, e.TicketPrice,
		e.ContactPhone, e.Website, e.Tags, e.IsFavorite, e.VisitCount, e.LastVisited,
	}
}

// Upsert inserts or replaces a scene record keyed by id.
func (s *SceneStore) Upsert(e models.SceneEntity) error {
	if _, err := s.db.Exec(sceneUpsertSQL, sceneArgs(e)...); err != nil {
		return fmt.Errorf("failed to upsert scene: %w", err)
	}
	s.changes.Notify()
	return nil
}

// UpsertAll inserts or replaces a batch of scene records in one transaction.
func (s *SceneStore) UpsertAll(entities []models.SceneEntity) error {
	err := database.Transaction(s.db, func(tx *sql.Tx) error {
		for _, e := range entities {
			if _, err := tx.Exec(sceneUpsertSQL, sceneArgs(e)...); err != nil {
				return fmt.Errorf("failed to upsert scene %s: %w", e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.changes.Notify()
	return nil
}

// Update replaces an existing scene record. A missing id is a no-op.
func (s *SceneStore) Update(e models.SceneEntity) error {
	query := `UPDATE scenes SET name = ?, description = ?, detailed_description = ?,
		latitude = ?, longitude = ?, type = ?, rating = ?, image_url = ?, address = ?,
		opening_hours = ?, ticket_price = ?, contact_phone = ?, website = ?, tags = ?,
		is_favorite = ?, visit_count = ?, last_visited = ? WHERE id = ?`

	_, err := s.db.Exec(query,
		e.Name, e.Description, e.DetailedDescription, e.Latitude, e.Longitude, e.Type,
		e.Rating, e.ImageURL, e.Address, e.OpeningHours, e.TicketPrice, e.ContactPhone,
		e.Website, e.Tags, e.IsFavorite, e.VisitCount, e.LastVisited, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update scene: %w", err)
	}
	s.changes.Notify()
	return nil
}

// Delete removes a scene record, no-op if absent.
func (s *SceneStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM scenes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete scene: %w", err)
	}
	s.changes.Notify()
	return nil
}

// ByType retrieves scene records matching the stored enum name exactly.
func (s *SceneStore) ByType(typeName string) ([]models.SceneEntity, error) {
	return s.queryScenes(`SELECT `+sceneColumns+` FROM scenes WHERE type = ? ORDER BY rowid`, typeName)
}

// WatchByType returns a live view filtered by type.
func (s *SceneStore) WatchByType(typeName string, onErr func(error)) *reactive.Stream[[]models.SceneEntity] {
	return reactive.Watch(s.changes, func() ([]models.SceneEntity, error) {
		return s.ByType(typeName)
	}, onErr)
}

// SearchText retrieves scene records whose name or description contains the
// query, case-insensitive.
func (s *SceneStore) SearchText(query string) ([]models.SceneEntity, error) {
	pattern := "%" + query + "%"
	return s.queryScenes(
		`SELECT `+sceneColumns+` FROM scenes WHERE name LIKE ? OR description LIKE ? ORDER BY rowid`,
		pattern, pattern,
	)
}

// Favorites retrieves scene records with is_favorite set.
func (s *SceneStore) Favorites() ([]models.SceneEntity, error) {
	return s.queryScenes(`SELECT ` + sceneColumns + ` FROM scenes WHERE is_favorite = 1 ORDER BY rowid`)
}

// WatchFavorites returns a live view of favorited scenes.
func (s *SceneStore) WatchFavorites(onErr func(error)) *reactive.Stream[[]models.SceneEntity] {
	return reactive.Watch(s.changes, s.Favorites, onErr)
}

// SetFavorite updates only the is_favorite column for one record.
func (s *SceneStore) SetFavorite(id string, favorite bool) error {
	if _, err := s.db.Exec(`UPDATE scenes SET is_favorite = ? WHERE id = ?`, favorite, id); err != nil {
		return fmt.Errorf("failed to set favorite status: %w", err)
	}
	s.changes.Notify()
	return nil
}

// Count returns the number of scene records.
func (s *SceneStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM scenes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count scenes: %w", err)
	}
	return count, nil
}
