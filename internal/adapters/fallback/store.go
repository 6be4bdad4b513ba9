// Package fallback loads the curated local facility dataset consulted when
// the live geodata service has no results for a category.
package fallback

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
)

// Store reads fallback facilities from a JSON file. A missing or malformed
// file degrades to an empty dataset; an analysis never fails because of it.
type Store struct {
	path string
}

// New creates a Store reading from path.
func New(path string) *Store {
	return &Store{path: path}
}

// fileRecord mirrors the on-disk schema: four fixed category keys, each an
// array of named coordinates.
type fileRecord struct {
	AsphaltPlants    []fileFacility `json:"asphalt_plants"`
	WasteSites       []fileFacility `json:"waste_sites"`
	RubberRecycling  []fileFacility `json:"rubber_recycling"`
	RubberProduction []fileFacility `json:"rubber_production"`
}

type fileFacility struct {
	Name string   `json:"name"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
}

// Facilities returns the dataset grouped as stored. Entries without usable
// coordinates are skipped.
func (s *Store) Facilities(ctx context.Context) (domain.FallbackFacilities, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		slog.Debug("fallback dataset unavailable", "path", s.path, "error", err)
		return domain.FallbackFacilities{}, nil
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		slog.Warn("fallback dataset malformed, ignoring", "path", s.path, "error", err)
		return domain.FallbackFacilities{}, nil
	}

	return domain.FallbackFacilities{
		AsphaltPlants:    convert(rec.AsphaltPlants),
		WasteSites:       convert(rec.WasteSites),
		RubberRecycling:  convert(rec.RubberRecycling),
		RubberProduction: convert(rec.RubberProduction),
	}, nil
}

func convert(items []fileFacility) []domain.Facility {
	out := make([]domain.Facility, 0, len(items))
	for _, it := range items {
		if it.Lat == nil || it.Lon == nil {
			continue
		}
		out = append(out, domain.Facility{
			Name:     it.Name,
			Location: domain.GeoPoint{Lat: *it.Lat, Lon: *it.Lon},
		})
	}
	return out
}
