package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
)

// Excel writes the report as an XLSX workbook with one sheet per section.
func Excel(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := candidateSheet(f, "Existing", r.Result.Existing); err != nil {
		return err
	}
	if err := candidateSheet(f, "Proposed", r.Result.Proposed); err != nil {
		return err
	}

	if err := facilitySheet(f, "Facilities", []facilityGroup{
		{"quarries", r.Result.Quarries},
		{"rubbers", r.Result.Rubbers},
		{"highways", r.Result.Highways},
		{"ready_mix", r.Result.ReadyMix},
		{"bitumen_sources", r.Result.BitumenSources},
	}); err != nil {
		return err
	}
	if err := facilitySheet(f, "Fallback", []facilityGroup{
		{"fallback_asphalt", r.Result.FallbackSets.Asphalt},
		{"fallback_waste", r.Result.FallbackSets.Waste},
		{"fallback_rubber_recycling", r.Result.FallbackSets.RubberRecycling},
		{"fallback_rubber_production", r.Result.FallbackSets.RubberProduction},
	}); err != nil {
		return err
	}
	if err := weightsSheet(f, r.Weights); err != nil {
		return err
	}

	// Drop the default sheet so the workbook opens on Existing.
	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type facilityGroup struct {
	section string
	items   []domain.Facility
}

func candidateSheet(f *excelize.File, name string, cands []domain.Candidate) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("new sheet %s: %w", name, err)
	}
	headers := []interface{}{"name", "category", "lat", "lon", "total_score", "total_score_norm", "scores"}
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("sheet %s header: %w", name, err)
	}
	for i, c := range cands {
		// The per-factor breakdown goes in one cell as compact JSON.
		scores, _ := json.Marshal(c.Score.Scores)
		row := []interface{}{
			c.Name, string(c.Category), c.Location.Lat, c.Location.Lon,
			c.Score.TotalScore, c.Score.TotalScoreNorm, string(scores),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", name, i+2, err)
		}
	}
	return sizeColumns(f, name, len(headers))
}

func facilitySheet(f *excelize.File, name string, groups []facilityGroup) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("new sheet %s: %w", name, err)
	}
	headers := []interface{}{"section", "name", "category", "lat", "lon", "distance_to_path_m"}
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("sheet %s header: %w", name, err)
	}
	rowIdx := 2
	for _, g := range groups {
		for _, item := range g.items {
			var dist interface{}
			if item.DistanceToPath != nil {
				dist = *item.DistanceToPath
			}
			row := []interface{}{
				g.section, item.Name, string(item.Category),
				item.Location.Lat, item.Location.Lon, dist,
			}
			cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("sheet %s row %d: %w", name, rowIdx, err)
			}
			rowIdx++
		}
	}
	return sizeColumns(f, name, len(headers))
}

func weightsSheet(f *excelize.File, weights domain.WeightSet) error {
	const name = "Weights"
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("new sheet %s: %w", name, err)
	}
	headers := []interface{}{"factor", "weight"}
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return fmt.Errorf("sheet %s header: %w", name, err)
	}

	factors := make([]string, 0, len(weights))
	for factor := range weights {
		factors = append(factors, factor)
	}
	sort.Strings(factors)

	for i, factor := range factors {
		row := []interface{}{factor, weights[factor]}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", name, i+2, err)
		}
	}
	return sizeColumns(f, name, len(headers))
}

func sizeColumns(f *excelize.File, sheet string, cols int) error {
	last, _ := excelize.ColumnNumberToName(cols)
	if err := f.SetColWidth(sheet, "A", last, 22); err != nil {
		return fmt.Errorf("size columns %s: %w", sheet, err)
	}
	return nil
}
