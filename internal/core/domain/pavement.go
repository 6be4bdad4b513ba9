package domain

import "fmt"

// Operating limits for mix design inputs.
const (
	MaxBitumenFraction  = 0.055
	MaxPlasticFraction  = 0.08
	MaxRubberFraction   = 0.12
	MaxModifierFraction = 0.3
	MinThicknessM       = 0.03
	MinTemperatureC     = 0.0
	MaxTemperatureC     = 70.0
)

// Default calibration coefficients for the pavement performance model.
const (
	DefaultE0MPa      = 3500.0
	DefaultKTemp      = 0.025
	DefaultT0C        = 25.0
	DefaultPPlastic   = 1.8
	DefaultRRubber    = 0.8
	DefaultKEpsT      = 0.028
	DefaultKEpsC      = 0.005
	DefaultKFatigue   = 1.0e-3
	DefaultMFatigue   = 4.0
	DefaultKRutting   = 5.0e-4
	DefaultMRutting   = 4.0
	DefaultMinModulus = 500.0  // MPa
	DefaultMaxModulus = 15000.0 // MPa
)

// MixDesign is the input to the pavement performance model. Bitumen fraction
// is relative to the total mix mass; plastic and rubber fractions are
// relative to the binder mass. Costs are per ton, overhead is a flat amount.
type MixDesign struct {
	LengthKm        float64 `json:"length_km"`
	WidthM          float64 `json:"width_m"`
	ThicknessM      float64 `json:"thickness_m"`
	DensityTonM3    float64 `json:"density_ton_m3"`
	BitumenFraction float64 `json:"bitumen_fraction"`
	PlasticFraction float64 `json:"plastic_fraction"`
	RubberFraction  float64 `json:"rubber_fraction"`
	TemperatureC    float64 `json:"temperature_c"`
	AnnualESALs     float64 `json:"annual_esals_million"`

	CostAggregatePerTon float64 `json:"cost_aggregate_per_ton"`
	CostBitumenPerTon   float64 `json:"cost_bitumen_per_ton"`
	CostPlasticPerTon   float64 `json:"cost_plastic_per_ton"`
	CostRubberPerTon    float64 `json:"cost_rubber_per_ton"`
	Overhead            float64 `json:"overhead,omitempty"`

	TargetDesignLife *float64              `json:"target_design_life_years,omitempty"`
	Coefficients     *MixCoefficients      `json:"coefficients,omitempty"`
	AllowedRanges    map[string][2]float64 `json:"allowed_ranges,omitempty"`
}

// MixCoefficients overrides individual calibration coefficients; nil fields
// keep their defaults.
type MixCoefficients struct {
	E0MPa    *float64 `json:"e0_mpa,omitempty"`
	KTemp    *float64 `json:"k_temp,omitempty"`
	T0C      *float64 `json:"t0_c,omitempty"`
	PPlastic *float64 `json:"p_plastic,omitempty"`
	RRubber  *float64 `json:"r_rubber,omitempty"`
	KEpsT    *float64 `json:"k_eps_t,omitempty"`
	KEpsC    *float64 `json:"k_eps_c,omitempty"`
	MFatigue *float64 `json:"m_f,omitempty"`
	MRutting *float64 `json:"m_r,omitempty"`
	MinE     *float64 `json:"min_e,omitempty"`
	MaxE     *float64 `json:"max_e,omitempty"`
}

// EffectiveCoefficients records the calibration actually used for a report,
// after overrides, so results are reproducible.
type EffectiveCoefficients struct {
	E0MPa    float64 `json:"e0_mpa"`
	KTemp    float64 `json:"k_temp"`
	T0C      float64 `json:"t0_c"`
	PPlastic float64 `json:"p_plastic"`
	RRubber  float64 `json:"r_rubber"`
	KEpsT    float64 `json:"k_eps_t"`
	KEpsC    float64 `json:"k_eps_c"`
	MFatigue float64 `json:"m_f"`
	MRutting float64 `json:"m_r"`
	MinE     float64 `json:"min_e"`
	MaxE     float64 `json:"max_e"`
}

// MixQuantities holds the computed volumes and component masses.
type MixQuantities struct {
	VolumeM3          float64 `json:"volume_m3"`
	TotalMassTon      float64 `json:"total_mass_ton"`
	BinderMassTon     float64 `json:"binder_mass_ton"`
	PlasticMassTon    float64 `json:"plastic_mass_ton"`
	RubberMassTon     float64 `json:"rubber_mass_ton"`
	AggregateMassTon  float64 `json:"aggregate_mass_ton"`
	NewBitumenMassTon float64 `json:"new_bitumen_mass_ton"`
}

// MixCosts breaks the total cost down by component.
type MixCosts struct {
	Aggregate float64 `json:"aggregate"`
	Bitumen   float64 `json:"bitumen"`
	Plastic   float64 `json:"plastic"`
	Rubber    float64 `json:"rubber"`
	Overhead  float64 `json:"overhead"`
}

// MixReport is the full outcome of a pavement model run.
type MixReport struct {
	Quantities        MixQuantities         `json:"quantities"`
	ModulusMPa        float64               `json:"modulus_mpa"`
	TensileStrain     float64               `json:"tensile_strain"`
	CompressiveStrain float64               `json:"compressive_strain"`
	FatigueLifeYears  float64               `json:"fatigue_life_years"`
	RuttingLifeYears  float64               `json:"rutting_life_years"`
	DesignLifeYears   float64               `json:"design_life_years"`
	MaterialCost      float64               `json:"material_cost"`
	TotalCost         float64               `json:"total_cost"`
	Costs             MixCosts              `json:"costs"`
	CostPerM2         float64               `json:"cost_per_m2"`
	CostPerTon        float64               `json:"cost_per_ton"`
	Coefficients      EffectiveCoefficients `json:"coefficients_effective"`
	Warnings          []string              `json:"warnings"`
}

// Validate checks the design against the operating limits, plus any
// caller-supplied allowed ranges (keyed by standards preset field names).
func (d MixDesign) Validate() error {
	if d.LengthKm <= 0 {
		return fmt.Errorf("road length must be positive")
	}
	if d.WidthM <= 0 {
		return fmt.Errorf("road width must be positive")
	}
	if d.DensityTonM3 <= 0 {
		return fmt.Errorf("mixture density must be positive")
	}
	if d.BitumenFraction <= 0 || d.BitumenFraction > MaxBitumenFraction {
		return fmt.Errorf("bitumen fraction must be in (0, %g]", MaxBitumenFraction)
	}
	if d.PlasticFraction < 0 || d.PlasticFraction > MaxPlasticFraction {
		return fmt.Errorf("plastic fraction must be between 0 and %g", MaxPlasticFraction)
	}
	if d.RubberFraction < 0 || d.RubberFraction > MaxRubberFraction {
		return fmt.Errorf("rubber fraction must be between 0 and %g", MaxRubberFraction)
	}
	if d.PlasticFraction+d.RubberFraction > MaxModifierFraction {
		return fmt.Errorf("plastic and rubber fractions cannot exceed %g combined", MaxModifierFraction)
	}
	if d.ThicknessM <= 0 {
		return fmt.Errorf("layer thickness must be positive")
	}
	if d.ThicknessM < MinThicknessM {
		return fmt.Errorf("layer thickness must be at least %g m", MinThicknessM)
	}
	if d.AnnualESALs <= 0 {
		return fmt.Errorf("annual ESALs must be positive")
	}
	if d.TemperatureC < MinTemperatureC || d.TemperatureC > MaxTemperatureC {
		return fmt.Errorf("temperature must be between %g and %g degrees C", MinTemperatureC, MaxTemperatureC)
	}

	for name, val := range map[string]float64{
		"layer_thickness_m":          d.ThicknessM,
		"mixture_density_ton_per_m3": d.DensityTonM3,
		"bitumen_content_prop":       d.BitumenFraction,
		"plastic_of_bitumen_prop":    d.PlasticFraction,
		"rubber_of_bitumen_prop":     d.RubberFraction,
		"temperature_C":              d.TemperatureC,
		"annual_ESALs_million":       d.AnnualESALs,
	} {
		if rng, ok := d.AllowedRanges[name]; ok && (val < rng[0] || val > rng[1]) {
			return fmt.Errorf("%s must be between %g and %g", name, rng[0], rng[1])
		}
	}
	return nil
}

// Effective resolves the coefficient overrides against the defaults.
func (c *MixCoefficients) Effective() EffectiveCoefficients {
	eff := EffectiveCoefficients{
		E0MPa:    DefaultE0MPa,
		KTemp:    DefaultKTemp,
		T0C:      DefaultT0C,
		PPlastic: DefaultPPlastic,
		RRubber:  DefaultRRubber,
		KEpsT:    DefaultKEpsT,
		KEpsC:    DefaultKEpsC,
		MFatigue: DefaultMFatigue,
		MRutting: DefaultMRutting,
		MinE:     DefaultMinModulus,
		MaxE:     DefaultMaxModulus,
	}
	if c == nil {
		return eff
	}
	override := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	override(&eff.E0MPa, c.E0MPa)
	override(&eff.KTemp, c.KTemp)
	override(&eff.T0C, c.T0C)
	override(&eff.PPlastic, c.PPlastic)
	override(&eff.RRubber, c.RRubber)
	override(&eff.KEpsT, c.KEpsT)
	override(&eff.KEpsC, c.KEpsC)
	override(&eff.MFatigue, c.MFatigue)
	override(&eff.MRutting, c.MRutting)
	override(&eff.MinE, c.MinE)
	override(&eff.MaxE, c.MaxE)
	return eff
}
