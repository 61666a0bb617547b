package estimator

import (
	"fmt"
	"math"

	"covid-estimator/internal/model"
)

// NormalizeDays converts the input's elapsed period to days. Without a
// period type the result is 0. Weeks count 7 days and months 30; any other
// period type is taken as days. Negative results clamp to 0.
func NormalizeDays(in model.Input) (int64, error) {
	if in.PeriodType == nil || in.TimeToElapse == nil {
		return 0, nil
	}
	t, err := in.TimeToElapse.Float()
	if err != nil {
		return 0, fmt.Errorf("timeToElapse: %w", err)
	}

	switch *in.PeriodType {
	case model.PeriodWeeks:
		t *= 7
	case model.PeriodMonths:
		t *= 30
	}

	days, err := Truncate(t)
	if err != nil {
		return 0, fmt.Errorf("timeToElapse: %w", err)
	}
	if days < 0 {
		return 0, nil
	}
	return days, nil
}

// InfectionMultiplier returns 2^floor(days/period): infections double once
// per completed doubling period.
func InfectionMultiplier(days int64, period int) float64 {
	if period < 1 {
		period = 1
	}
	return math.Pow(2, float64(days/int64(period)))
}

// AvailableBeds returns the truncated share of the input's hospital beds
// available to severe cases, or 0 when the bed count is absent.
func AvailableBeds(in model.Input, bedAvailability float64) (int64, error) {
	if in.TotalHospitalBeds == nil {
		return 0, nil
	}
	beds, err := in.TotalHospitalBeds.Float()
	if err != nil {
		return 0, fmt.Errorf("totalHospitalBeds: %w", err)
	}
	n, err := Truncate(beds * bedAvailability)
	if err != nil {
		return 0, fmt.Errorf("totalHospitalBeds: %w", err)
	}
	return n, nil
}
