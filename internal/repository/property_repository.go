package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/titleguard/api/internal/database"
	"github.com/titleguard/api/internal/models"
)

// PropertyRepository defines the interface for stored property record
// lookups. The repository is the engine's data-fetch collaborator: it
// either returns a record or "unavailable" (nil), never partial errors per
// field.
type PropertyRepository interface {
	// FindByAddress finds the stored property record for the given address.
	// Matching is case-insensitive on the full address string.
	// Returns nil, nil if no record is stored (not an error).
	// Returns error only for actual database failures.
	FindByAddress(ctx context.Context, address string) (*models.PropertyRecord, error)
}

// propertyRepository is the concrete implementation of PropertyRepository.
type propertyRepository struct {
	db *database.Database
}

// NewPropertyRepository creates a new instance of PropertyRepository.
func NewPropertyRepository(db *database.Database) PropertyRepository {
	return &propertyRepository{
		db: db,
	}
}

// FindByAddress queries the property_records table for one address.
// Parcel and building geometry are stored as PostGIS polygons and returned
// as GeoJSON; easements are stored as a JSONB array of GeoJSON polygons.
func (r *propertyRepository) FindByAddress(ctx context.Context, address string) (*models.PropertyRecord, error) {
	query := `
		SELECT
			id,
			address,
			parcel_id,
			zoning,
			zoning_max_coverage,
			ST_AsGeoJSON(parcel_geom) as parcel_geometry,
			ST_AsGeoJSON(building_geom) as building_geometry,
			easements,
			flood_zone,
			flood_claims,
			wildfire_distance_km,
			wildfire_severity,
			earthquake_magnitude,
			earthquake_distance_km,
			transfer_count,
			avg_holding_years,
			year_built,
			recorded_area_sqft,
			building_sqft,
			created_at,
			updated_at
		FROM property_records
		WHERE lower(address) = lower($1)
		LIMIT 1
	`

	var record models.PropertyRecord
	var parcelJSON []byte
	var buildingJSON []byte
	var easementsJSON []byte

	err := r.db.Pool.QueryRow(ctx, query, address).Scan(
		&record.ID,
		&record.Address,
		&record.ParcelID,
		&record.Zoning,
		&record.ZoningMaxCoverage,
		&parcelJSON,
		&buildingJSON,
		&easementsJSON,
		&record.Inputs.FloodZone,
		&record.Inputs.FloodClaims,
		&record.Inputs.WildfireDistanceKm,
		&record.Inputs.WildfireSeverity,
		&record.Inputs.EarthquakeMagnitude,
		&record.Inputs.EarthquakeDistanceKm,
		&record.Inputs.TransferCount,
		&record.Inputs.AvgHoldingYears,
		&record.Inputs.YearBuilt,
		&record.Inputs.RecordedAreaSqft,
		&record.Inputs.BuildingSqft,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	// Handle no rows found - this is not an error at the repository level
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property record for %q: %w", address, err)
	}

	// Parse GeoJSON geometry into Polygon types using their Scanner
	if err := record.Parcel.Scan(parcelJSON); err != nil {
		return nil, fmt.Errorf("failed to parse parcel geometry for record %d: %w", record.ID, err)
	}

	if buildingJSON != nil {
		var building models.Polygon
		if err := building.Scan(buildingJSON); err != nil {
			return nil, fmt.Errorf("failed to parse building geometry for record %d: %w", record.ID, err)
		}
		record.Building = &building
	}

	if easementsJSON != nil {
		if err := json.Unmarshal(easementsJSON, &record.Easements); err != nil {
			return nil, fmt.Errorf("failed to parse easements for record %d: %w", record.ID, err)
		}
	}

	return &record, nil
}
