package estimator

import "covid-estimator/internal/model"

// Default ratios, as fractions.
const (
	DefaultBedAvailability     = 0.35
	DefaultICURate             = 0.05
	DefaultVentilatorRate      = 0.02
	DefaultHospitalizationRate = 0.15
	DefaultDoublingPeriod      = 3
)

// Ratios are the tunable parameters of the pipeline. Rates are fractions
// in [0,1]; DoublingPeriod is the number of days for infections to double.
type Ratios struct {
	BedAvailability     float64
	ICURate             float64
	VentilatorRate      float64
	HospitalizationRate float64
	DoublingPeriod      int
}

func DefaultRatios() Ratios {
	return Ratios{
		BedAvailability:     DefaultBedAvailability,
		ICURate:             DefaultICURate,
		VentilatorRate:      DefaultVentilatorRate,
		HospitalizationRate: DefaultHospitalizationRate,
		DoublingPeriod:      DefaultDoublingPeriod,
	}
}

// FromPercent converts a whole-number percentage to a fraction. No bounds
// are enforced.
func FromPercent(pct int) float64 {
	return float64(pct) / 100
}

// Apply returns r with every ratio set in p replacing r's value.
func (r Ratios) Apply(p model.RatioPercentages) Ratios {
	if p.BedAvailability != nil {
		r.BedAvailability = FromPercent(*p.BedAvailability)
	}
	if p.ICURate != nil {
		r.ICURate = FromPercent(*p.ICURate)
	}
	if p.VentilatorRate != nil {
		r.VentilatorRate = FromPercent(*p.VentilatorRate)
	}
	if p.HospitalizationRate != nil {
		r.HospitalizationRate = FromPercent(*p.HospitalizationRate)
	}
	if p.DoublingPeriodDays != nil {
		r.DoublingPeriod = *p.DoublingPeriodDays
	}
	return r
}

// Percentages reports r back as whole-number percentages, rounded.
func (r Ratios) Percentages() model.RatioPercentages {
	return model.RatioPercentages{
		BedAvailability:     model.Pct(toPercent(r.BedAvailability)),
		ICURate:             model.Pct(toPercent(r.ICURate)),
		VentilatorRate:      model.Pct(toPercent(r.VentilatorRate)),
		HospitalizationRate: model.Pct(toPercent(r.HospitalizationRate)),
		DoublingPeriodDays:  model.Pct(r.DoublingPeriod),
	}
}

func toPercent(f float64) int {
	p := f * 100
	if p < 0 {
		return int(p - 0.5)
	}
	return int(p + 0.5)
}
