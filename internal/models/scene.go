package models

// SceneType classifies a scene. The symbolic name (e.g. "HISTORICAL") is the
// durable representation; display name and color are presentation metadata.
type SceneType string

const (
	SceneTypeNatural    SceneType = "NATURAL"
	SceneTypeHistorical SceneType = "HISTORICAL"
	SceneTypeCultural   SceneType = "CULTURAL"
	SceneTypeUrban      SceneType = "URBAN"
	SceneTypeFood       SceneType = "FOOD"
	SceneTypeAdventure  SceneType = "ADVENTURE"
)

// sceneTypeMeta maps each variant to its display metadata.
// 显示名称与地图标记颜色
var sceneTypeMeta = map[SceneType]struct {
	DisplayName string
	Color       string
}{
	SceneTypeNatural:    {"自然风光", "#4CAF50"},
	SceneTypeHistorical: {"历史古迹", "#FF9800"},
	SceneTypeCultural:   {"文化遗址", "#9C27B0"},
	SceneTypeUrban:      {"城市景观", "#2196F3"},
	SceneTypeFood:       {"美食探店", "#F44336"},
	SceneTypeAdventure:  {"探险挑战", "#795548"},
}

// ParseSceneType resolves a stored enum name to a SceneType.
// Unknown names are a decode error, never silently defaulted.
func ParseSceneType(name string) (SceneType, error) {
	t := SceneType(name)
	if _, ok := sceneTypeMeta[t]; !ok {
		return "", &DecodeError{Entity: "scene", Field: "type", Value: name}
	}
	return t, nil
}

// SceneTypes returns all known variants in declaration order.
func SceneTypes() []SceneType {
	return []SceneType{
		SceneTypeNatural, SceneTypeHistorical, SceneTypeCultural,
		SceneTypeUrban, SceneTypeFood, SceneTypeAdventure,
	}
}

// DisplayName returns the human-readable label for the type.
func (t SceneType) DisplayName() string { return sceneTypeMeta[t].DisplayName }

// Color returns the marker color associated with the type.
func (t SceneType) Color() string { return sceneTypeMeta[t].Color }

// Scene represents a curated point of interest with descriptive metadata
type Scene struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	DetailedDescription string    `json:"detailedDescription"` // falls back to Description for display when empty
	Latitude            float64   `json:"latitude"`
	Longitude           float64   `json:"longitude"`
	Type                SceneType `json:"type"`
	Rating              float64   `json:"rating"` // conventionally 0-5, not enforced
	ImageURL            string    `json:"imageUrl,omitempty"`
	Address             string    `json:"address"`
	OpeningHours        string    `json:"openingHours"`
	TicketPrice         string    `json:"ticketPrice"`
	ContactPhone        string    `json:"contactPhone"`
	Website             string    `json:"website"`
	Tags                []string  `json:"tags"`
	IsFavorite          bool      `json:"isFavorite"`
	VisitCount          int       `json:"visitCount"`
	LastVisited         int64     `json:"lastVisited"` // epoch millis, 0 = never
}

// DisplayDescription returns the detailed description, falling back to the
// short description when no detailed text exists.
func (s *Scene) DisplayDescription() string {
	if s.DetailedDescription != "" {
		return s.DetailedDescription
	}
	return s.Description
}

// SceneEntity is the durable record shape for the scenes table. Type is the
// enum's symbolic name, Tags a JSON string blob.
type SceneEntity struct {
	ID                  string  `db:"id"`
	Name                string  `db:"name"`
	Description         string  `db:"description"`
	DetailedDescription string  `db:"detailed_description"`
	Latitude            float64 `db:"latitude"`
	Longitude           float64 `db:"longitude"`
	Type                string  `db:"type"`
	Rating              float64 `db:"rating"`
	ImageURL            string  `db:"image_url"`
	Address             string  `db:"address"`
	OpeningHours        string  `db:"opening_hours"`
	TicketPrice         string  `db:"ticket_price"`
	ContactPhone        string  `db:"contact_phone"`
	Website             string  `db:"website"`
	Tags                string  `db:"tags"`
	IsFavorite          bool    `db:"is_favorite"`
	VisitCount          int     `db:"visit_count"`
	LastVisited         int64   `db:"last_visited"`
}
