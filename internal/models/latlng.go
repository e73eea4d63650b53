package models

// LatLng is a WGS-84 coordinate pair handed over by the map widget,
// e.g. where the user long-pressed.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
