package model

// RatioPercentages carries estimator ratios as whole-number percentages
// (35 means 35%). DoublingPeriodDays is in days. Nil fields are unset and
// fall back to whatever the caller merges them onto.
type RatioPercentages struct {
	BedAvailability     *int `json:"bed_availability,omitempty" yaml:"bed_availability"`
	ICURate             *int `json:"icu_rate,omitempty" yaml:"icu_rate"`
	VentilatorRate      *int `json:"ventilator_rate,omitempty" yaml:"ventilator_rate"`
	HospitalizationRate *int `json:"hospitalization_rate,omitempty" yaml:"hospitalization_rate"`
	DoublingPeriodDays  *int `json:"doubling_period_days,omitempty" yaml:"doubling_period_days"`
}

// Merge returns p with every field set in over replacing p's value.
func (p RatioPercentages) Merge(over RatioPercentages) RatioPercentages {
	if over.BedAvailability != nil {
		p.BedAvailability = over.BedAvailability
	}
	if over.ICURate != nil {
		p.ICURate = over.ICURate
	}
	if over.VentilatorRate != nil {
		p.VentilatorRate = over.VentilatorRate
	}
	if over.HospitalizationRate != nil {
		p.HospitalizationRate = over.HospitalizationRate
	}
	if over.DoublingPeriodDays != nil {
		p.DoublingPeriodDays = over.DoublingPeriodDays
	}
	return p
}

// Pct returns a pointer to v.
func Pct(v int) *int {
	return &v
}
