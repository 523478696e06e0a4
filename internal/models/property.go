package models

import (
	"time"
)

// RawFactorInputs carries the per-hazard and per-record raw values supplied
// by the upstream data-fetch collaborators. Every field is optional;
// nil means the provider had no data and a deterministic fallback value is
// substituted before normalization.
type RawFactorInputs struct {
	FloodZone            *string  `json:"flood_zone,omitempty"`
	FloodClaims          *int     `json:"flood_claims,omitempty"`
	WildfireDistanceKm   *float64 `json:"wildfire_distance_km,omitempty"`
	WildfireSeverity     *float64 `json:"wildfire_severity,omitempty"`
	EarthquakeMagnitude  *float64 `json:"earthquake_magnitude,omitempty"`
	EarthquakeDistanceKm *float64 `json:"earthquake_distance_km,omitempty"`
	TransferCount        *int     `json:"transfer_count,omitempty"`
	AvgHoldingYears      *float64 `json:"avg_holding_years,omitempty"`
	YearBuilt            *int     `json:"year_built,omitempty"`
	RecordedAreaSqft     *float64 `json:"recorded_area_sqft,omitempty"`
	BuildingSqft         *float64 `json:"building_sqft,omitempty"`
}

// PropertyRecord is a stored snapshot of county/provider data for one
// address. It is the persistence-side counterpart of the analyze request:
// when a request omits geometry or raw inputs, the record (if one exists)
// fills the gaps before the engine runs.
// All nullable fields use pointers to distinguish zero values from NULL.
type PropertyRecord struct {
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
	Address            string          `json:"address"`
	ParcelID           *string         `json:"parcelId,omitempty"`
	Zoning             *string         `json:"zoning,omitempty"`
	Parcel             Polygon         `json:"parcel"`
	Building           *Polygon        `json:"building,omitempty"`
	Easements          []Polygon       `json:"easements,omitempty"`
	ZoningMaxCoverage  *float64        `json:"zoningMaxCoverage,omitempty"`
	Inputs             RawFactorInputs `json:"inputs"`
	ID                 uint            `json:"id"`
}
