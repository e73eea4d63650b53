// Package codec maps between durable entity records and domain models.
// Encoding is total; decoding fails with models.DecodeError on unknown enum
// names or malformed tag blobs.
package codec

import (
	"strings"

	json "github.com/goccy/go-json"

	"github.com/yourname/mapscenes-backend-go/internal/models"
)

// EncodeTags serializes a tag list as a JSON string blob. Never fails.
func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return string(b)
}

// DecodeTags parses a tag blob. A blank blob yields an empty list; anything
// else must be a JSON string array.
func DecodeTags(entity, blob string) ([]string, error) {
	if strings.TrimSpace(blob) == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(blob), &tags); err != nil {
		return nil, &models.DecodeError{Entity: entity, Field: "tags", Value: blob, Err: err}
	}
	return tags, nil
}

// EncodeScene converts a domain scene to its durable record shape.
func EncodeScene(s models.Scene) models.SceneEntity {
	return models.SceneEntity{
		ID:                  s.ID,
		Name:                s.Name,
		Description:         s.Description,
		DetailedDescription: s.DetailedDescription,
		Latitude:            s.Latitude,
		Longitude:           s.Longitude,
		Type:                string(s.Type),
		Rating:              s.Rating,
		ImageURL:            s.ImageURL,
		Address:             s.Address,
		OpeningHours:        s.OpeningHours,
		TicketPrice:         s.TicketPrice,
		ContactPhone:        s.ContactPhone,
		Website:             s.Website,
		Tags:                EncodeTags(s.Tags),
		IsFavorite:          s.IsFavorite,
		VisitCount:          s.VisitCount,
		LastVisited:         s.LastVisited,
	}
}

// DecodeScene converts a durable scene record back to the domain model.
func DecodeScene(e models.SceneEntity) (models.Scene, error) {
	t, err := models.ParseSceneType(e.Type)
	if err != nil {
		return models.Scene{}, err
	}
	tags, err := DecodeTags("scene", e.Tags)
	if err != nil {
		return models.Scene{}, err
	}
	return models.Scene{
		ID:                  e.ID,
		Name:                e.Name,
		Description:         e.Description,
		DetailedDescription: e.DetailedDescription,
		Latitude:            e.Latitude,
		Longitude:           e.Longitude,
		Type:                t,
		Rating:              e.Rating,
		ImageURL:            e.ImageURL,
		Address:             e.Address,
		OpeningHours:        e.OpeningHours,
		TicketPrice:         e.TicketPrice,
		ContactPhone:        e.ContactPhone,
		Website:             e.Website,
		Tags:                tags,
		IsFavorite:          e.IsFavorite,
		VisitCount:          e.VisitCount,
		LastVisited:         e.LastVisited,
	}, nil
}

// DecodeScenes decodes a full collection. A single malformed record fails the
// whole read so corruption surfaces instead of silently shrinking the list.
func DecodeScenes(entities []models.SceneEntity) ([]models.Scene, error) {
	scenes := make([]models.Scene, 0, len(entities))
	for _, e := range entities {
		s, err := DecodeScene(e)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, s)
	}
	return scenes, nil
}

// EncodeUserMarker converts a domain marker to its durable record shape.
func EncodeUserMarker(m models.UserMarker) models.UserMarkerEntity {
	return models.UserMarkerEntity{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Latitude:    m.Latitude,
		Longitude:   m.Longitude,
		MarkerType:  string(m.MarkerType),
		CreatedAt:   m.CreatedAt,
		Tags:        EncodeTags(m.Tags),
		Color:       m.Color,
	}
}

// DecodeUserMarker converts a durable marker record back to the domain model.
func DecodeUserMarker(e models.UserMarkerEntity) (models.UserMarker, error) {
	t, err := models.ParseMarkerType(e.MarkerType)
	if err != nil {
		return models.UserMarker{}, err
	}
	tags, err := DecodeTags("user_marker", e.Tags)
	if err != nil {
		return models.UserMarker{}, err
	}
	return models.UserMarker{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Latitude:    e.Latitude,
		Longitude:   e.Longitude,
		MarkerType:  t,
		CreatedAt:   e.CreatedAt,
		Tags:        tags,
		Color:       e.Color,
	}, nil
}

// DecodeUserMarkers decodes a full collection, failing on the first malformed record.
func DecodeUserMarkers(entities []models.UserMarkerEntity) ([]models.UserMarker, error) {
	markers := make([]models.UserMarker, 0, len(entities))
	for _, e := range entities {
		m, err := DecodeUserMarker(e)
		if err != nil {
			return nil, err
		}
		markers = append(markers, m)
	}
	return markers, nil
}
