package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/yusefelshater/TransCalc/internal/adapters/export"
	"github.com/yusefelshater/TransCalc/internal/core/domain"
)

func sampleReport() export.Report {
	dist := 4250.0
	result := &domain.AnalysisResult{
		Existing: []domain.Candidate{
			{
				Name:     "Plant A",
				Category: domain.CategoryAsphalt,
				Location: domain.GeoPoint{Lat: 30.5, Lon: 31.0},
				Score: domain.ScoreBreakdown{
					Point: domain.GeoPoint{Lat: 30.5, Lon: 31.0},
					Scores: domain.FactorScores{
						NearRoad:       0.98,
						Midpoint:       0.95,
						LanduseScore:   1.0,
						LanduseLabel:   "industrial",
						BuildingsCount: 1,
					},
					TotalScore:     11.4,
					TotalScoreNorm: 0.82,
				},
			},
		},
		Proposed: []domain.Candidate{
			{
				Name:     "Proposed Site 1",
				Category: domain.CategoryProposed,
				Location: domain.GeoPoint{Lat: 30.9, Lon: 31.0},
				Score:    domain.ScoreBreakdown{TotalScore: 6.2, TotalScoreNorm: 0.45},
			},
		},
		FacilitySets: domain.FacilitySets{
			Quarries: []domain.Facility{
				{Name: "East Quarry", Category: domain.CategoryQuarry, Location: domain.GeoPoint{Lat: 30.6, Lon: 31.3}, DistanceToPath: &dist},
			},
		},
		FallbackSets: domain.FallbackSets{
			Asphalt: []domain.Facility{
				{Name: "Registry Plant", Category: domain.CategoryFallbackAsphalt, Location: domain.GeoPoint{Lat: 30.2, Lon: 31.1}},
			},
		},
	}
	route := domain.Path{{Lat: 30.0, Lon: 31.0}, {Lat: 31.0, Lon: 31.0}}
	return export.NewReport(route, domain.DefaultWeights(), result)
}

func TestJSON_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := export.JSON(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	var decoded export.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("exported JSON must parse back: %v", err)
	}
	if decoded.Result == nil || len(decoded.Result.Existing) != 1 {
		t.Fatalf("result lost in round trip: %+v", decoded.Result)
	}
	if decoded.Result.Existing[0].Name != "Plant A" {
		t.Errorf("unexpected candidate name %s", decoded.Result.Existing[0].Name)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("expected pretty-printed output")
	}
}

func TestCSV_SectionsAndHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := export.CSV(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	wantHeader := []string{
		"section", "name", "category", "lat", "lon",
		"total_score", "total_score_norm", "landuse", "buildings", "distance_to_path_m",
	}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Fatalf("header column %d: got %s want %s", i, rows[0][i], col)
		}
	}

	sections := map[string]string{}
	for _, row := range rows[1:] {
		sections[row[0]] = row[1]
	}
	if sections["existing"] != "Plant A" {
		t.Errorf("missing existing candidate row: %v", sections)
	}
	if sections["proposed"] != "Proposed Site 1" {
		t.Errorf("missing proposed row: %v", sections)
	}
	if sections["quarries"] != "East Quarry" {
		t.Errorf("missing quarry row: %v", sections)
	}
	if sections["fallback_asphalt"] != "Registry Plant" {
		t.Errorf("missing fallback row: %v", sections)
	}
}

func TestCSV_DistanceColumn(t *testing.T) {
	var buf bytes.Buffer
	if err := export.CSV(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range rows[1:] {
		if row[0] == "quarries" && row[9] != "4250" {
			t.Errorf("expected distance 4250 on the quarry row, got %q", row[9])
		}
		if row[0] == "existing" && row[9] != "" {
			t.Errorf("candidates have no path distance, got %q", row[9])
		}
	}
}

func TestExcel_Workbook(t *testing.T) {
	var buf bytes.Buffer
	if err := export.Excel(&buf, sampleReport()); err != nil {
		t.Fatal(err)
	}

	wb, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("exported workbook must open: %v", err)
	}
	defer wb.Close()

	for _, sheet := range []string{"Existing", "Proposed", "Facilities", "Fallback", "Weights"} {
		if idx, err := wb.GetSheetIndex(sheet); err != nil || idx < 0 {
			t.Errorf("missing sheet %s", sheet)
		}
	}

	name, err := wb.GetCellValue("Existing", "A2")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Plant A" {
		t.Errorf("expected Plant A in Existing!A2, got %q", name)
	}

	rows, err := wb.GetRows("Weights")
	if err != nil {
		t.Fatal(err)
	}
	// Header plus one row per default weight.
	if len(rows) != len(domain.DefaultWeights())+1 {
		t.Errorf("expected %d weight rows, got %d", len(domain.DefaultWeights())+1, len(rows))
	}
}
