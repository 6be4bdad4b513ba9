package domain

import (
	"encoding/json"
	"fmt"
)

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

type geoJSONDoc struct {
	Type     string           `json:"type"`
	Geometry *geoJSONGeometry `json:"geometry"`
	Features []struct {
		Geometry *geoJSONGeometry `json:"geometry"`
	} `json:"features"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// ParsePathGeoJSON extracts a route path from a GeoJSON document carrying a
// LineString or MultiLineString geometry. The document may be a bare
// geometry, a Feature, or a FeatureCollection (first feature is used).
// GeoJSON positions are lon,lat ordered; the returned path is lat,lon.
func ParsePathGeoJSON(data []byte) (Path, error) {
	var doc geoJSONDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	geom := doc.Geometry
	if geom == nil && len(doc.Features) > 0 {
		geom = doc.Features[0].Geometry
	}
	if geom == nil && len(doc.Coordinates) > 0 {
		geom = &geoJSONGeometry{Type: doc.Type, Coordinates: doc.Coordinates}
	}
	if geom == nil {
		return nil, fmt.Errorf("invalid geojson: no geometry found")
	}

	switch geom.Type {
	case "LineString":
		var coords [][]float64
		if err := json.Unmarshal(geom.Coordinates, &coords); err != nil {
			return nil, fmt.Errorf("parse linestring coordinates: %w", err)
		}
		return pathFromPositions(coords)
	case "MultiLineString":
		var lines [][][]float64
		if err := json.Unmarshal(geom.Coordinates, &lines); err != nil {
			return nil, fmt.Errorf("parse multilinestring coordinates: %w", err)
		}
		var path Path
		for _, coords := range lines {
			part, err := pathFromPositions(coords)
			if err != nil {
				return nil, err
			}
			path = append(path, part...)
		}
		return path, nil
	default:
		return nil, fmt.Errorf("unsupported geojson geometry type %q, expected LineString or MultiLineString", geom.Type)
	}
}

func pathFromPositions(coords [][]float64) (Path, error) {
	path := make(Path, 0, len(coords))
	for i, c := range coords {
		if len(c) < 2 {
			return nil, fmt.Errorf("invalid geojson position at index %d", i)
		}
		path = append(path, GeoPoint{Lat: c[1], Lon: c[0]})
	}
	return path, nil
}
