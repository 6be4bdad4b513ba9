// Package export writes analysis reports as JSON, CSV, or XLSX.
package export

import (
	"time"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
)

// Report is the exportable snapshot of one route analysis.
type Report struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Route       domain.Path            `json:"route"`
	Weights     domain.WeightSet       `json:"weights"`
	Result      *domain.AnalysisResult `json:"result"`
}

// NewReport stamps an analysis result for export.
func NewReport(route domain.Path, weights domain.WeightSet, result *domain.AnalysisResult) Report {
	return Report{
		GeneratedAt: time.Now().UTC(),
		Route:       route,
		Weights:     weights,
		Result:      result,
	}
}
