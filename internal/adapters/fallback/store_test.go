package fallback_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yusefelshater/TransCalc/internal/adapters/fallback"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fallback_facilities.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func TestStore_LoadsAllCategories(t *testing.T) {
	path := writeFile(t, `{
		"asphalt_plants": [{"name": "Arab Contractors Asphalt", "lat": 30.1, "lon": 31.3}],
		"waste_sites": [{"name": "Cairo Waste Hub", "lat": 30.2, "lon": 31.4}],
		"rubber_recycling": [{"name": "Tire Recycle Co", "lat": 29.9, "lon": 31.2}],
		"rubber_production": []
	}`)

	fb, err := fallback.New(path).Facilities(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fb.AsphaltPlants) != 1 {
		t.Errorf("expected 1 asphalt plant, got %d", len(fb.AsphaltPlants))
	}
	if fb.AsphaltPlants[0].Name != "Arab Contractors Asphalt" {
		t.Errorf("unexpected name: %s", fb.AsphaltPlants[0].Name)
	}
	if len(fb.WasteSites) != 1 || len(fb.RubberRecycling) != 1 {
		t.Errorf("expected waste and rubber recycling entries")
	}
	if len(fb.RubberProduction) != 0 {
		t.Errorf("expected empty rubber production, got %d", len(fb.RubberProduction))
	}
}

func TestStore_MissingFileDegradesToEmpty(t *testing.T) {
	fb, err := fallback.New(filepath.Join(t.TempDir(), "nope.json")).Facilities(context.Background())
	if err != nil {
		t.Fatalf("missing file must not error, got %v", err)
	}
	if len(fb.AsphaltPlants)+len(fb.WasteSites)+len(fb.RubberRecycling)+len(fb.RubberProduction) != 0 {
		t.Error("expected empty dataset")
	}
}

func TestStore_MalformedFileDegradesToEmpty(t *testing.T) {
	path := writeFile(t, `{"asphalt_plants": "not-an-array"`)

	fb, err := fallback.New(path).Facilities(context.Background())
	if err != nil {
		t.Fatalf("malformed file must not error, got %v", err)
	}
	if len(fb.AsphaltPlants) != 0 {
		t.Error("expected empty dataset for malformed file")
	}
}

func TestStore_SkipsEntriesWithoutCoordinates(t *testing.T) {
	path := writeFile(t, `{
		"asphalt_plants": [
			{"name": "No Coords"},
			{"name": "Good", "lat": 30.0, "lon": 31.0}
		]
	}`)

	fb, err := fallback.New(path).Facilities(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fb.AsphaltPlants) != 1 || fb.AsphaltPlants[0].Name != "Good" {
		t.Errorf("expected only the entry with coordinates, got %+v", fb.AsphaltPlants)
	}
}
