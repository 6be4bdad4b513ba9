// Package maprender writes a self-contained Leaflet HTML map for an analysis.
package maprender

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
)

// Leaflet implements ports.MapRenderer: it renders the route, scored
// candidates and fallback layers into a single HTML page (Leaflet from CDN)
// under the runs directory. Callers treat render errors as non-fatal.
type Leaflet struct {
	runsDir string
}

// New creates a Leaflet renderer writing into runsDir.
func New(runsDir string) *Leaflet {
	return &Leaflet{runsDir: runsDir}
}

type marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
	Layer string  `json:"layer"`
}

type pageData struct {
	CenterLat float64
	CenterLon float64
	RouteJSON template.JS
	Markers   template.JS
}

// Render writes the map artifact and returns its path.
func (l *Leaflet) Render(ctx context.Context, path domain.Path, result *domain.AnalysisResult) (string, error) {
	if len(path) < 2 {
		return "", fmt.Errorf("path too short to render")
	}
	if err := os.MkdirAll(l.runsDir, 0o755); err != nil {
		return "", fmt.Errorf("create runs dir: %w", err)
	}

	route := make([][2]float64, 0, len(path))
	for _, p := range path {
		route = append(route, [2]float64{p.Lat, p.Lon})
	}
	routeJSON, err := json.Marshal(route)
	if err != nil {
		return "", fmt.Errorf("encode route: %w", err)
	}

	markers := collectMarkers(result)
	markersJSON, err := json.Marshal(markers)
	if err != nil {
		return "", fmt.Errorf("encode markers: %w", err)
	}

	mid := path.Midpoint()
	data := pageData{
		CenterLat: mid.Lat,
		CenterLon: mid.Lon,
		RouteJSON: template.JS(routeJSON),
		Markers:   template.JS(markersJSON),
	}

	out := filepath.Join(l.runsDir, fmt.Sprintf("planner_map_%d.html", time.Now().Unix()))
	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("create map file: %w", err)
	}
	defer f.Close()

	if err := pageTemplate.Execute(f, data); err != nil {
		return "", fmt.Errorf("render map: %w", err)
	}
	return out, nil
}

func collectMarkers(result *domain.AnalysisResult) []marker {
	var out []marker
	add := func(layer, label string, p domain.GeoPoint) {
		out = append(out, marker{Lat: p.Lat, Lon: p.Lon, Label: label, Layer: layer})
	}
	for _, c := range result.Existing {
		add("existing", fmt.Sprintf("%s (%.3f)", c.Name, c.Score.TotalScoreNorm), c.Location)
	}
	for _, c := range result.Proposed {
		add("proposed", fmt.Sprintf("%s (%.3f)", c.Name, c.Score.TotalScoreNorm), c.Location)
	}
	for _, group := range []struct {
		layer string
		items []domain.Facility
	}{
		{"quarries", result.Quarries},
		{"rubbers", result.Rubbers},
		{"bitumen", result.BitumenSources},
		{"fallback", result.FallbackSets.Asphalt},
		{"fallback", result.FallbackSets.Waste},
		{"fallback", result.FallbackSets.RubberRecycling},
		{"fallback", result.FallbackSets.RubberProduction},
	} {
		for _, f := range group.items {
			add(group.layer, f.Name, f.Location)
		}
	}
	return out
}

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>TransCalc — Route Analysis</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
  <style>html,body,#map{height:100%;margin:0}</style>
</head>
<body>
  <div id="map"></div>
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <script>
    var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], 9);
    L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
      attribution: '&copy; OpenStreetMap contributors'
    }).addTo(map);

    var route = {{.RouteJSON}};
    L.polyline(route, {color: '#1f6feb', weight: 4}).addTo(map);

    var colors = {
      existing: '#d62728', proposed: '#2ca02c', quarries: '#8c564b',
      rubbers: '#9467bd', bitumen: '#ff7f0e', fallback: '#7f7f7f'
    };
    var markers = {{.Markers}};
    markers.forEach(function (m) {
      L.circleMarker([m.lat, m.lon], {
        radius: 7, color: colors[m.layer] || '#333', fillOpacity: 0.8
      }).addTo(map).bindPopup(m.label + ' [' + m.layer + ']');
    });
  </script>
</body>
</html>
`))
