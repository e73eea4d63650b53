package store

import (
	"database/sql"
	"fmt"

	"github.com/yourname/mapscenes-backend-go/internal/database"
	"github.com/yourname/mapscenes-backend-go/internal/models"
	"github.com/yourname/mapscenes-backend-go/internal/reactive"
)

const markerColumns = `id, name, description, latitude, longitude, marker_type, created_at, tags, color`

// UserMarkerStore handles database operations for user marker records
type UserMarkerStore struct {
	db      *sql.DB
	changes *reactive.Hub
}

// NewUserMarkerStore creates a new user marker store
func NewUserMarkerStore(db *sql.DB) *UserMarkerStore {
	return &UserMarkerStore{db: db, changes: reactive.NewHub()}
}

// Changes returns the hub signalled after every write to the collection.
func (s *UserMarkerStore) Changes() *reactive.Hub {
	return s.changes
}

func scanMarker(rows *sql.Rows) (models.UserMarkerEntity, error) {
	var e models.UserMarkerEntity
	err := rows.Scan(
		&e.ID, &e.Name, &e.Description, &e.Latitude, &e.Longitude,
		&e.MarkerType, &e.CreatedAt, &e.Tags, &e.Color,
	)
	return e, err
}

func (s *UserMarkerStore) queryMarkers(query string, args ...interface{}) ([]models.UserMarkerEntity, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user markers: %w", err)
	}
	defer rows.Close()

	var entities []models.UserMarkerEntity
	for rows.Next() {
		e, err := scanMarker(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user marker: %w", err)
		}
		entities = append(entities, e)
	}

	return entities, rows.Err()
}

// All retrieves every user marker record in store order.
func (s *UserMarkerStore) All() ([]models.UserMarkerEntity, error) {
	return s.queryMarkers(`SELECT ` + markerColumns + ` FROM user_markers ORDER BY rowid`)
}

// WatchAll returns a live view of the full collection, re-emitting on every write.
func (s *UserMarkerStore) WatchAll(onErr func(error)) *reactive.Stream[[]models.UserMarkerEntity] {
	return reactive.Watch(s.changes, s.All, onErr)
}

// ByID retrieves a single user marker record, nil if absent.
func (s *UserMarkerStore) ByID(id string) (*models.UserMarkerEntity, error) {
	rows, err := s.db.Query(`SELECT `+markerColumns+` FROM user_markers WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user marker: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	e, err := scanMarker(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan user marker: %w", err)
	}
	return &e, nil
}

const markerUpsertSQL = `
	INSERT OR REPLACE INTO user_markers (` + markerColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

func markerArgs(e models.UserMarkerEntity) []interface{} {
	return []interface{}{
		e.ID, e.Name, e.Description, e.Latitude, e.Longitude,
		e.MarkerType, e.CreatedAt, e.Tags, e.Color,
	}
}

// Upsert inserts or replaces a user marker record keyed by id.
func (s *UserMarkerStore) Upsert(e models.UserMarkerEntity) error {
	if _, err := s.db.Exec(markerUpsertSQL, markerArgs(e)...); err != nil {
		return fmt.Errorf("failed to upsert user marker: %w", err)
	}
	s.changes.Notify()
	return nil
}

// UpsertAll inserts or replaces a batch of user marker records in one transaction.
func (s *UserMarkerStore) UpsertAll(entities []models.UserMarkerEntity) error {
	err := database.Transaction(s.db, func(tx *sql.Tx) error {
		for _, e := range entities {
			if _, err := tx.Exec(markerUpsertSQL, markerArgs(e)...); err != nil {
				return fmt.Errorf("failed to upsert user marker %s: %w", e.ID, err)
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

// Update replaces an existing user marker record. A missing id is a no-op.
func (s *UserMarkerStore) Update(e models.UserMarkerEntity) error {
	query := `UPDATE user_markers SET name = ?, description = ?, latitude = ?, longitude = ?,
		marker_type = ?, created_at = ?, tags = ?, color = ? WHERE id = ?`

	_, err := s.db.Exec(query,
		e.Name, e.Description, e.Latitude, e.Longitude,
		e.MarkerType, e.CreatedAt, e.Tags, e.Color, e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user marker: %w", err)
	}
	s.changes.Notify()
	return nil
}

// Delete removes a user marker record, no-op if absent.
func (s *UserMarkerStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM user_markers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete user marker: %w", err)
	}
	s.changes.Notify()
	return nil
}

// ByType retrieves user marker records matching the stored enum name exactly.
func (s *UserMarkerStore) ByType(typeName string) ([]models.UserMarkerEntity, error) {
	return s.queryMarkers(`SELECT `+markerColumns+` FROM user_markers WHERE marker_type = ? ORDER BY rowid`, typeName)
}

// WatchByType returns a live view filtered by marker type.
func (s *UserMarkerStore) WatchByType(typeName string, onErr func(error)) *reactive.Stream[[]models.UserMarkerEntity] {
	return reactive.Watch(s.changes, func() ([]models.UserMarkerEntity, error) {
		return s.ByType(typeName)
	}, onErr)
}

// SearchText retrieves user marker records whose name or description contains
// the query, case-insensitive.
func (s *UserMarkerStore) SearchText(query string) ([]models.UserMarkerEntity, error) {
	pattern := "%" + query + "%"
	return s.queryMarkers(
		`SELECT `+markerColumns+` FROM user_markers WHERE name LIKE ? OR description LIKE ? ORDER BY rowid`,
		pattern, pattern,
	)
}

// Count returns the number of user marker records.
func (s *UserMarkerStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM user_markers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count user markers: %w", err)
	}
	return count, nil
}
