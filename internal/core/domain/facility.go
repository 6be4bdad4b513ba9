package domain

// Category identifies a kind of facility or infrastructure around a route.
type Category string

// Categories resolved against the live geodata service.
const (
	CategoryAsphalt  Category = "asphalt"
	CategoryQuarry   Category = "quarry"
	CategoryRubber   Category = "rubber"
	CategoryHighway  Category = "highway_major"
	CategoryReadyMix Category = "ready_mix"
	CategoryBitumen  Category = "bitumen"
)

// Categories served from the fallback dataset when live results are absent.
const (
	CategoryFallbackAsphalt          Category = "fallback_asphalt"
	CategoryFallbackWaste            Category = "fallback_waste"
	CategoryFallbackRubberRecycling  Category = "fallback_rubber_recycling"
	CategoryFallbackRubberProduction Category = "fallback_rubber_production"
)

// CategoryProposed marks synthesized candidate sites.
const CategoryProposed Category = "proposed"

// LiveCategories returns the live categories in query order.
func LiveCategories() []Category {
	return []Category{
		CategoryAsphalt,
		CategoryQuarry,
		CategoryRubber,
		CategoryHighway,
		CategoryReadyMix,
		CategoryBitumen,
	}
}

// Facility is a located facility or infrastructure element.
type Facility struct {
	ID             int64    `json:"id,omitempty"`
	Name           string   `json:"name"`
	Category       Category `json:"type"`
	Location       GeoPoint `json:"location"`
	DistanceToPath *float64 `json:"distance_to_path_m,omitempty"` // computed field
}

// Factor names recognized by the scoring engine.
const (
	WeightRoadProximity     = "road_proximity"
	WeightMidpoint          = "midpoint_preference"
	WeightQuarryProximity   = "quarry_proximity"
	WeightRubberProximity   = "rubber_proximity"
	WeightLandusePreference = "landuse_preference"
	WeightHighwayProximity  = "highway_proximity"
	WeightReadyMixProximity = "ready_mix_proximity"
	WeightBitumenProximity  = "bitumen_source_proximity"
)

// WeightSet maps factor names to non-negative weights. Unknown names are
// ignored by the weighted total but still count toward the normalizing sum,
// which keeps caller-supplied extras (notably ready_mix_proximity) from
// inflating normalized scores.
type WeightSet map[string]float64

// DefaultWeights returns the stock factor weighting.
func DefaultWeights() WeightSet {
	return WeightSet{
		WeightRoadProximity:     5.0,
		WeightMidpoint:          4.0,
		WeightQuarryProximity:   2.0,
		WeightRubberProximity:   1.0,
		WeightLandusePreference: 3.0,
		WeightHighwayProximity:  2.5,
		WeightBitumenProximity:  1.0,
	}
}

// Get returns the weight for name, or fallback when the name is absent.
func (w WeightSet) Get(name string, fallback float64) float64 {
	if v, ok := w[name]; ok {
		return v
	}
	return fallback
}

// Sum returns the sum of the non-negative weights, or 1 when that sum is
// zero, so it is always safe as a normalizing divisor.
func (w WeightSet) Sum() float64 {
	sum := 0.0
	for _, v := range w {
		if v > 0 {
			sum += v
		}
	}
	if sum == 0 {
		return 1
	}
	return sum
}

// FactorScores holds the per-factor components of a candidate score, each in
// [0,1] except the raw buildings count.
type FactorScores struct {
	NearRoad       float64 `json:"near_road"`
	Midpoint       float64 `json:"midpoint"`
	Quarry         float64 `json:"quarry"`
	Rubber         float64 `json:"rubber"`
	Highway        float64 `json:"highway"`
	ReadyMix       float64 `json:"ready_mix"`
	Bitumen        float64 `json:"bitumen"`
	LanduseScore   float64 `json:"landuse_score"`
	LanduseLabel   string  `json:"landuse_label,omitempty"`
	BuildingsCount int     `json:"buildings_count"`
}

// ScoreBreakdown is the full scoring result for one candidate point.
type ScoreBreakdown struct {
	Point          GeoPoint     `json:"point"`
	Scores         FactorScores `json:"scores"`
	TotalScore     float64      `json:"total_score"`
	TotalScoreNorm float64      `json:"total_score_norm"`
}

/// Candidate is a scored location: an existing facility or a proposed site.
type Candidate struct {
	Name     string         `json:"name"`
	Location GeoPoint       `json:"location"`
	Category Category       `json:"type"`
	Score    ScoreBreakdown `json:"score"`
}

// FacilitySets carries the supporting facility layers consulted by the
// scoring engine.
type FacilitySets struct {
	Quarries       []Facility `json:"quarries"`
	Rubbers        []Facility `json:"rubbers"`
	Highways       []Facility `json:"highways"`
	ReadyMix       []Facility `json:"ready_mix"`
	BitumenSources []Facility `json:"bitumen_sources"`
}

// FallbackFacilities is the raw fallback dataset grouped as stored.
type FallbackFacilities struct {
	AsphaltPlants    []Facility `json:"asphalt_plants"`
	WasteSites       []Facility `json:"waste_sites"`
	RubberRecycling  []Facility `json:"rubber_recycling"`
	RubberProduction []Facility `json:"rubber_production"`
}

// FallbackSets carries the gated fallback facility layers of an analysis.
type FallbackSets struct {
	Asphalt          []Facility `json:"fallback_asphalt"`
	Waste            []Facility `json:"fallback_waste"`
	RubberRecycling  []Facility `json:"fallback_rubber_recycling"`
	RubberProduction []Facility `json:"fallback_rubber_production"`
}

// AnalysisResult is the complete outcome of a route analysis.
type AnalysisResult struct {
	Existing []Candidate `json:"existing"`
	Proposed []Candidate `json:"proposed"`
	FacilitySets
	FallbackSets
	MapPath string `json:"map_path,omitempty"`
}

// BidirectionalResult pairs the analyses of the forward and reverse slices
// extracted from the same route.
type BidirectionalResult struct {
	Forward *AnalysisResult `json:"forward"`
	Reverse *AnalysisResult `json:"reverse"`
}
