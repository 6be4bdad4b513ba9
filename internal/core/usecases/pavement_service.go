package usecases

import (
	"fmt"
	"math"

	"github.com/yusefelshater/TransCalc/internal/core/domain"
)

// Strains outside this range trigger report warnings.
const (
	strainWarnLow  = 1e-6
	strainWarnHigh = 1e-3
)

// PavementService runs the pavement mix performance and cost model.
type PavementService struct{}

// NewPavementService creates a new PavementService.
func NewPavementService() *PavementService {
	return &PavementService{}
}

// Report validates the design and computes quantities, effective modulus,
// strains, fatigue and rutting lives, and costs. When a target design life
// is set, the fatigue and rutting coefficients are derived from it instead
// of the calibration defaults.
func (s *PavementService) Report(design domain.MixDesign) (*domain.MixReport, error) {
	if err := design.Validate(); err != nil {
		return nil, err
	}

	volume := design.LengthKm * 1000 * design.WidthM * design.ThicknessM
	mass := volume * design.DensityTonM3
	binder := mass * design.BitumenFraction
	plastic := binder * design.PlasticFraction
	rubber := binder * design.RubberFraction
	aggregate := mass - binder
	newBitumen := binder - plastic - rubber
	if newBitumen < 0 {
		return nil, fmt.Errorf("new bitumen mass cannot be negative")
	}

	coeffs := design.Coefficients.Effective()

	tempFactor := math.Exp(-coeffs.KTemp * (design.TemperatureC - coeffs.T0C))
	modulus := coeffs.E0MPa * tempFactor *
		(1 + coeffs.PPlastic*design.PlasticFraction) /
		(1 + coeffs.RRubber*design.RubberFraction)
	modulus = math.Max(coeffs.MinE, math.Min(modulus, coeffs.MaxE))

	tensile := coeffs.KEpsT / (modulus * design.ThicknessM)
	compressive := coeffs.KEpsC / modulus

	kFatigue, kRutting := domain.DefaultKFatigue, domain.DefaultKRutting
	if design.TargetDesignLife != nil {
		needed := design.AnnualESALs * *design.TargetDesignLife
		kFatigue = needed * math.Pow(tensile, coeffs.MFatigue)
		kRutting = needed * math.Pow(compressive, coeffs.MRutting)
	}

	fatigueCapacity := kFatigue * math.Pow(1/tensile, coeffs.MFatigue)
	ruttingCapacity := kRutting * math.Pow(1/compressive, coeffs.MRutting)

	fatigueLife := fatigueCapacity / design.AnnualESALs
	ruttingLife := ruttingCapacity / design.AnnualESALs
	designLife := math.Min(fatigueLife, ruttingLife)

	costs := domain.MixCosts{
		Aggregate: aggregate * design.CostAggregatePerTon,
		Bitumen:   newBitumen * design.CostBitumenPerTon,
		Plastic:   plastic * design.CostPlasticPerTon,
		Rubber:    rubber * design.CostRubberPerTon,
		Overhead:  design.Overhead,
	}
	materialCost := costs.Aggregate + costs.Bitumen + costs.Plastic + costs.Rubber
	totalCost := materialCost + design.Overhead

	area := design.LengthKm * 1000 * design.WidthM

	report := &domain.MixReport{
		Quantities: domain.MixQuantities{
			VolumeM3:          volume,
			TotalMassTon:      mass,
			BinderMassTon:     binder,
			PlasticMassTon:    plastic,
			RubberMassTon:     rubber,
			AggregateMassTon:  aggregate,
			NewBitumenMassTon: newBitumen,
		},
		ModulusMPa:        modulus,
		TensileStrain:     tensile,
		CompressiveStrain: compressive,
		FatigueLifeYears:  fatigueLife,
		RuttingLifeYears:  ruttingLife,
		DesignLifeYears:   designLife,
		MaterialCost:      materialCost,
		TotalCost:         totalCost,
		Costs:             costs,
		CostPerM2:         totalCost / area,
		CostPerTon:        totalCost / mass,
		Coefficients:      coeffs,
		Warnings:          mixWarnings(designLife, tensile, compressive),
	}
	return report, nil
}

func mixWarnings(designLife, tensile, compressive float64) []string {
	var warnings []string
	if designLife > 100 {
		warnings = append(warnings, "design life exceeds 100 years, check calibration constants and strains")
	}
	tensileOut := tensile < strainWarnLow || tensile > strainWarnHigh
	compressiveOut := compressive < strainWarnLow || compressive > strainWarnHigh
	if tensileOut {
		warnings = append(warnings, "tensile strain is outside the normal range (1e-6 to 1e-3), check k_eps_t, modulus and thickness")
	}
	if compressiveOut {
		warnings = append(warnings, "compressive strain is outside the normal range (1e-6 to 1e-3), check k_eps_c and modulus")
	}
	if tensileOut || compressiveOut {
		warnings = append(warnings, "strains are outside the normal range, check calibration coefficients")
	}
	return warnings
}
