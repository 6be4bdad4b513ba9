package postgres

import (
	"context"
	"fmt"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
)

// FacilityRepo serves the curated fallback facility catalog from the
// fallback_facilities table. It implements ports.FallbackSource for
// deployments that manage the catalog in Postgres instead of a JSON file.
type FacilityRepo struct {
	db *DB
}

// NewFacilityRepo creates a new FacilityRepo.
func NewFacilityRepo(db *DB) *FacilityRepo {
	return &FacilityRepo{db: db}
}

// Facilities returns the full catalog grouped by stored category.
func (r *FacilityRepo) Facilities(ctx context.Context) (domain.FallbackFacilities, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT category, name, lat, lon
		FROM fallback_facilities
		ORDER BY category, name
	`)
	if err != nil {
		return domain.FallbackFacilities{}, fmt.Errorf("query fallback facilities: %w", err)
	}
	defer rows.Close()

	var out domain.FallbackFacilities
	for rows.Next() {
		var category, name string
		var lat, lon float64
		if err := rows.Scan(&category, &name, &lat, &lon); err != nil {
			return domain.FallbackFacilities{}, fmt.Errorf("scan fallback facility: %w", err)
		}
		f := domain.Facility{Name: name, Location: domain.GeoPoint{Lat: lat, Lon: lon}}
		switch category {
		case "asphalt_plants":
			out.AsphaltPlants = append(out.AsphaltPlants, f)
		case "waste_sites":
			out.WasteSites = append(out.WasteSites, f)
		case "rubber_recycling":
			out.RubberRecycling = append(out.RubberRecycling, f)
		case "rubber_production":
			out.RubberProduction = append(out.RubberProduction, f)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.FallbackFacilities{}, fmt.Errorf("iterate fallback facilities: %w", err)
	}
	return out, nil
}

// Upsert inserts or replaces one catalog entry.
func (r *FacilityRepo) Upsert(ctx context.Context, category string, f domain.Facility) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO fallback_facilities (category, name, lat, lon)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (category, name) DO UPDATE
		SET lat = EXCLUDED.lat, lon = EXCLUDED.lon
	`, category, f.Name, f.Location.Lat, f.Location.Lon)
	if err != nil {
		return fmt.Errorf("upsert fallback facility: %w", err)
	}
	return nil
}
