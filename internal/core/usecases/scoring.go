package usecases

import (
	"context"
	"math"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
	"github.com/yusefelshater/TransCalc/internal/core/ports"
)

// Decay scales in meters for the proximity factors.
const (
	DecayScaleRoad     = 1500.0
	DecayScaleMidpoint = 25000.0
	DecayScaleQuarry   = 50000.0
	DecayScaleRubber   = 50000.0
	DecayScaleHighway  = 8000.0
	DecayScaleReadyMix = 50000.0
	DecayScaleBitumen  = 80000.0
)

// Penalties applied to the weighted total.
const (
	// Land-use scores at or below this value zero the candidate outright.
	unsuitableLanduseMax = 0.05

	// Building counts within buildingRadiusM soften the score in steps
	// rather than zeroing it.
	buildingRadiusM      = 120.0
	buildingCountOpen    = 2
	buildingCountSparse  = 5
	densityPenaltyOpen   = 1.0
	densityPenaltySparse = 0.7
	densityPenaltyDense  = 0.4

	// Candidates projected into the first or last tenth of the route length
	// are heavily discouraged.
	edgeFractionLow  = 0.10
	edgeFractionHigh = 0.90
	edgePenalty      = 0.2
)

// Nearest-facility distance reported when a category has no facilities.
const emptySetDistanceM = 1e9

// ExpDecay maps a distance to a score in [0,1] falling off exponentially
// with the given scale in meters. Non-positive scales score 0; negative
// distances are treated as 0.
func ExpDecay(distanceM, scaleM float64) float64 {
	if scaleM <= 1e-9 {
		return 0
	}
	if distanceM < 0 {
		distanceM = 0
	}
	return math.Exp(-distanceM / scaleM)
}

// Scorer computes multi-factor suitability scores for candidate sites.
type Scorer struct {
	gateway ports.FacilityGateway
}

// NewScorer creates a new Scorer.
func NewScorer(gateway ports.FacilityGateway) *Scorer {
	return &Scorer{gateway: gateway}
}

// Score rates one candidate point against the route and its facility layers.
func (s *Scorer) Score(ctx context.Context, point domain.GeoPoint, path domain.Path, sets domain.FacilitySets, weights domain.WeightSet) domain.ScoreBreakdown {
	scores := domain.FactorScores{
		NearRoad: ExpDecay(path.MinDistanceTo(point), DecayScaleRoad),
		Midpoint: ExpDecay(point.Distance(path.Midpoint()), DecayScaleMidpoint),
		Quarry:   ExpDecay(nearestDistance(point, sets.Quarries), DecayScaleQuarry),
		Rubber:   ExpDecay(nearestDistance(point, sets.Rubbers), DecayScaleRubber),
		Highway:  ExpDecay(nearestDistance(point, sets.Highways), DecayScaleHighway),
		ReadyMix: ExpDecay(nearestDistance(point, sets.ReadyMix), DecayScaleReadyMix),
		Bitumen:  ExpDecay(nearestDistance(point, sets.BitumenSources), DecayScaleBitumen),
	}
	scores.LanduseScore, scores.LanduseLabel = s.gateway.LanduseScore(ctx, point)
	scores.BuildingsCount = s.gateway.BuildingDensity(ctx, point, buildingRadiusM)

	densityPenalty := densityPenaltyDense
	switch {
	case scores.BuildingsCount <= buildingCountOpen:
		densityPenalty = densityPenaltyOpen
	case scores.BuildingsCount <= buildingCountSparse:
		densityPenalty = densityPenaltySparse
	}

	// The ready-mix factor is reported but excluded from the weighted total;
	// its weight still counts toward the normalizing sum.
	weighted := weights.Get(domain.WeightRoadProximity, 5.0)*scores.NearRoad +
		weights.Get(domain.WeightMidpoint, 4.0)*scores.Midpoint +
		weights.Get(domain.WeightQuarryProximity, 2.0)*scores.Quarry +
		weights.Get(domain.WeightRubberProximity, 1.0)*scores.Rubber +
		weights.Get(domain.WeightLandusePreference, 3.0)*scores.LanduseScore +
		weights.Get(domain.WeightHighwayProximity, 2.5)*scores.Highway +
		weights.Get(domain.WeightBitumenProximity, 1.0)*scores.Bitumen

	var total float64
	if scores.LanduseScore > unsuitableLanduseMax {
		total = weighted * densityPenalty
		if frac := path.FractionAlong(point); frac <= edgeFractionLow || frac >= edgeFractionHigh {
			total *= edgePenalty
		}
	}

	norm := math.Max(0, math.Min(1, total/weights.Sum()))

	return domain.ScoreBreakdown{
		Point:          point,
		Scores:         scores,
		TotalScore:     total,
		TotalScoreNorm: norm,
	}
}

func nearestDistance(p domain.GeoPoint, facilities []domain.Facility) float64 {
	if len(facilities) == 0 {
		return emptySetDistanceM
	}
	best := math.Inf(1)
	for _, f := range facilities {
		if d := p.Distance(f.Location); d < best {
			best = d
		}
	}
	return best
}
