package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMarkerColor is applied when a new marker specifies no color. 默认蓝色
const DefaultMarkerColor = "#2196F3"

// MarkerType classifies a user-authored marker.
type MarkerType string

const (
	MarkerTypePersonal MarkerType = "PERSONAL"
	MarkerTypeFavorite MarkerType = "FAVORITE"
	MarkerTypePlan     MarkerType = "PLAN"
	MarkerTypeVisited  MarkerType = "VISITED"
)

var markerTypeDisplay = map[MarkerType]string{
	MarkerTypePersonal: "自然风光",
	MarkerTypeFavorite: "历史古迹",
	MarkerTypePlan:     "探险挑战",
	MarkerTypeVisited:  "美食探店",
}

// ParseMarkerType resolves a stored enum name to a MarkerType.
func ParseMarkerType(name string) (MarkerType, error) {
	t := MarkerType(name)
	if _, ok := markerTypeDisplay[t]; !ok {
		return "", &DecodeError{Entity: "user_marker", Field: "markerType", Value: name}
	}
	return t, nil
}

// MarkerTypes returns all known variants in declaration order.
func MarkerTypes() []MarkerType {
	return []MarkerType{MarkerTypePersonal, MarkerTypeFavorite, MarkerTypePlan, MarkerTypeVisited}
}

// DisplayName returns the human-readable label for the type.
func (t MarkerType) DisplayName() string { return markerTypeDisplay[t] }

// UserMarker represents a user-authored point annotation
type UserMarker struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	MarkerType  MarkerType `json:"markerType"`
	CreatedAt   int64      `json:"createdAt"` // epoch millis, set at creation
	Tags        []string   `json:"tags"`
	Color       string     `json:"color"`
}

// NewUserMarker builds a marker with a fresh unique id, the current creation
// time and the default color.
func NewUserMarker(name, description string, lat, lng float64, t MarkerType, tags []string) UserMarker {
	if tags == nil {
		tags = []string{}
	}
	return UserMarker{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Latitude:    lat,
		Longitude:   lng,
		MarkerType:  t,
		CreatedAt:   time.Now().UnixMilli(),
		Tags:        tags,
		Color:       DefaultMarkerColor,
	}
}

// UserMarkerEntity is the durable record shape for the user_markers table.
type UserMarkerEntity struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Description string  `db:"description"`
	Latitude    float64 `db:"latitude"`
	Longitude   float64 `db:"longitude"`
	MarkerType  string  `db:"marker_type"`
	CreatedAt   int64   `db:"created_at"`
	Tags        string  `db:"tags"`
	Color       string  `db:"color"`
}
