package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Polygon represents a simple polygon in GeoJSON coordinate layout:
// [rings][points][lon,lat]. The first ring is the boundary; holes are
// carried through JSON but ignored by the geometry computations.
// SRID 4326 (WGS84) is used for lat/lng coordinates.
type Polygon struct {
	Coordinates [][][2]float64 // GeoJSON coordinate structure
	SRID        int            // Spatial Reference ID (default: 4326)
}

// OuterRing returns the boundary ring of the polygon, or nil when the
// polygon has no coordinates.
func (p *Polygon) OuterRing() [][2]float64 {
	if p == nil || len(p.Coordinates) == 0 {
		return nil
	}
	return p.Coordinates[0]
}

// IsEmpty reports whether the polygon carries no coordinates at all.
func (p *Polygon) IsEmpty() bool {
	return p == nil || len(p.Coordinates) == 0 || len(p.Coordinates[0]) == 0
}

// Scan implements sql.Scanner for reading polygon geometry from the
// database. Postgres returns the geometry as GeoJSON via ST_AsGeoJSON.
func (p *Polygon) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan Polygon: expected []byte or string, got %T", value)
	}

	var geom struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}

	if err := json.Unmarshal(bytes, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal polygon geometry: %w", err)
	}

	if geom.Type != "Polygon" {
		return fmt.Errorf("expected Polygon type, got %s", geom.Type)
	}

	p.Coordinates = geom.Coordinates
	p.SRID = 4326 // Default to WGS84

	return nil
}

// Value implements driver.Valuer for writing polygon geometry to the
// database. Returns a GeoJSON string for use with ST_GeomFromGeoJSON.
func (p Polygon) Value() (driver.Value, error) {
	if len(p.Coordinates) == 0 {
		return nil, nil
	}

	geom := map[string]interface{}{
		"type":        "Polygon",
		"coordinates": p.Coordinates,
	}

	geoJSON, err := json.Marshal(geom)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal polygon to GeoJSON: %w", err)
	}

	return string(geoJSON), nil
}

// MarshalJSON implements json.Marshaler for API responses.
// Returns GeoJSON-compliant format for frontend consumption.
func (p Polygon) MarshalJSON() ([]byte, error) {
	geom := struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}{
		Type:        "Polygon",
		Coordinates: p.Coordinates,
	}
	return json.Marshal(geom)
}

// UnmarshalJSON implements json.Unmarshaler for parsing GeoJSON input
// supplied by the data-fetch collaborators.
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var geom struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}

	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal polygon: %w", err)
	}

	if geom.Type != "" && geom.Type != "Polygon" {
		return fmt.Errorf("expected Polygon type, got %s", geom.Type)
	}

	p.Coordinates = geom.Coordinates
	p.SRID = 4326

	return nil
}
