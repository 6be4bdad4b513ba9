package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
)

// CSV writes the report as flat rows: one per candidate and facility, with a
// section column distinguishing the lists.
func CSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)

	header := []string{
		"section", "name", "category", "lat", "lon",
		"total_score", "total_score_norm", "landuse", "buildings", "distance_to_path_m",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	writeCandidates := func(section string, cands []domain.Candidate) error {
		for _, c := range cands {
			row := []string{
				section,
				c.Name,
				string(c.Category),
				formatFloat(c.Location.Lat),
				formatFloat(c.Location.Lon),
				formatFloat(c.Score.TotalScore),
				formatFloat(c.Score.TotalScoreNorm),
				c.Score.Scores.LanduseLabel,
				strconv.Itoa(c.Score.Scores.BuildingsCount),
				"",
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		return nil
	}

	writeFacilities := func(section string, items []domain.Facility) error {
		for _, f := range items {
			dist := ""
			if f.DistanceToPath != nil {
				dist = formatFloat(*f.DistanceToPath)
			}
			row := []string{
				section,
				f.Name,
				string(f.Category),
				formatFloat(f.Location.Lat),
				formatFloat(f.Location.Lon),
				"", "", "", "",
				dist,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
		return nil
	}

	res := r.Result
	if err := writeCandidates("existing", res.Existing); err != nil {
		return err
	}
	if err := writeCandidates("proposed", res.Proposed); err != nil {
		return err
	}
	for _, set := range []struct {
		section string
		items   []domain.Facility
	}{
		{"quarries", res.Quarries},
		{"rubbers", res.Rubbers},
		{"highways", res.Highways},
		{"ready_mix", res.ReadyMix},
		{"bitumen_sources", res.BitumenSources},
		{"fallback_asphalt", res.FallbackSets.Asphalt},
		{"fallback_waste", res.FallbackSets.Waste},
		{"fallback_rubber_recycling", res.FallbackSets.RubberRecycling},
		{"fallback_rubber_production", res.FallbackSets.RubberProduction},
	} {
		if err := writeFacilities(set.section, set.items); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
