package estimator

import (
	"fmt"

	"covid-estimator/internal/model"
)

// Scenario is one projection branch and its infection multiplier.
type Scenario struct {
	Name           string
	InfectedFactor float64
}

var (
	Mild   = Scenario{Name: "impact", InfectedFactor: 10}
	Severe = Scenario{Name: "severeImpact", InfectedFactor: 50}
)

// Env is everything a stage reads besides the branch itself.
type Env struct {
	Input    model.Input
	Ratios   Ratios
	Scenario Scenario
}

// Stage derives one field of a branch from the input and from the fields
// it requires.
type Stage struct {
	Name     string
	Field    model.Field
	Requires []model.Field
	Compute  func(env Env, b model.Impact) (float64, error)
}

// Apply returns b with the stage's field derived. A field already present
// is kept as is. On error b is returned unchanged.
func (s Stage) Apply(env Env, b model.Impact) (model.Impact, error) {
	if b.Has(s.Field) {
		return b, nil
	}
	for _, r := range s.Requires {
		if !b.Has(r) {
			return b, fmt.Errorf("%w: %s requires %s", ErrMissingPrecondition, s.Field, r)
		}
	}
	v, err := s.Compute(env, b)
	if err != nil {
		return b, err
	}
	n, err := Truncate(v)
	if err != nil {
		return b, err
	}
	return b.With(s.Field, n), nil
}

func value(b model.Impact, f model.Field) float64 {
	v, _ := b.Get(f)
	return float64(v)
}

var (
	CurrentlyInfectedStage = Stage{
		Name:  "calculateCurrentlyInfected",
		Field: model.CurrentlyInfected,
		Compute: func(env Env, _ model.Impact) (float64, error) {
			if env.Input.ReportedCases == nil {
				return 0, missingInput("reportedCases")
			}
			cases, err := env.Input.ReportedCases.Float()
			if err != nil {
				return 0, fmt.Errorf("reportedCases: %w", err)
			}
			return cases * env.Scenario.InfectedFactor, nil
		},
	}

	InfectionsByRequestedTimeStage = Stage{
		Name:     "calculateInfectionsByRequestedTime",
		Field:    model.InfectionsByRequestedTime,
		Requires: []model.Field{model.CurrentlyInfected},
		Compute: func(env Env, b model.Impact) (float64, error) {
			days, err := NormalizeDays(env.Input)
			if err != nil {
				return 0, err
			}
			return value(b, model.CurrentlyInfected) * InfectionMultiplier(days, env.Ratios.DoublingPeriod), nil
		},
	}

	SevereCasesByRequestedTimeStage = Stage{
		Name:     "calculateSevereCasesByRequestedTime",
		Field:    model.SevereCasesByRequestedTime,
		Requires: []model.Field{model.InfectionsByRequestedTime},
		Compute: func(env Env, b model.Impact) (float64, error) {
			return value(b, model.InfectionsByRequestedTime) * env.Ratios.HospitalizationRate, nil
		},
	}

	HospitalBedsByRequestedTimeStage = Stage{
		Name:     "calculateHospitalBedsByRequestedTime",
		Field:    model.HospitalBedsByRequestedTime,
		Requires: []model.Field{model.SevereCasesByRequestedTime},
		Compute: func(env Env, b model.Impact) (float64, error) {
			beds, err := AvailableBeds(env.Input, env.Ratios.BedAvailability)
			if err != nil {
				return 0, err
			}
			// A negative result is a bed deficit and is kept.
			return float64(beds) - value(b, model.SevereCasesByRequestedTime), nil
		},
	}

	CasesForICUByRequestedTimeStage = Stage{
		Name:     "calculateCasesForICUByRequestedTime",
		Field:    model.CasesForICUByRequestedTime,
		Requires: []model.Field{model.InfectionsByRequestedTime},
		Compute: func(env Env, b model.Impact) (float64, error) {
			return value(b, model.InfectionsByRequestedTime) * env.Ratios.ICURate, nil
		},
	}

	CasesForVentilatorsByRequestedTimeStage = Stage{
		Name:     "calculateCasesForVentilatorsByRequestedTime",
		Field:    model.CasesForVentilatorsByRequestedTime,
		Requires: []model.Field{model.InfectionsByRequestedTime},
		Compute: func(env Env, b model.Impact) (float64, error) {
			return value(b, model.InfectionsByRequestedTime) * env.Ratios.VentilatorRate, nil
		},
	}

	DollarsInFlightStage = Stage{
		Name:     "calculateDollarsInFlight",
		Field:    model.DollarsInFlight,
		Requires: []model.Field{model.InfectionsByRequestedTime},
		Compute:  dollarsInFlight,
	}
)

func dollarsInFlight(env Env, b model.Impact) (float64, error) {
	region := env.Input.Region
	if region == nil {
		return 0, missingInput("region")
	}
	if region.AvgDailyIncomePopulation == nil {
		return 0, missingInput("region.avgDailyIncomePopulation")
	}
	if region.AvgDailyIncomeInUSD == nil {
		return 0, missingInput("region.avgDailyIncomeInUSD")
	}
	population, err := region.AvgDailyIncomePopulation.Float()
	if err != nil {
		return 0, fmt.Errorf("region.avgDailyIncomePopulation: %w", err)
	}
	income, err := region.AvgDailyIncomeInUSD.Float()
	if err != nil {
		return 0, fmt.Errorf("region.avgDailyIncomeInUSD: %w", err)
	}

	days, err := NormalizeDays(env.Input)
	if err != nil {
		return 0, err
	}
	if days < 1 {
		days = 1
	}
	return value(b, model.InfectionsByRequestedTime) * population * income / float64(days), nil
}

// Stages returns the pipeline stages in the order ComputeResponse runs them.
func Stages() []Stage {
	return []Stage{
		CurrentlyInfectedStage,
		InfectionsByRequestedTimeStage,
		SevereCasesByRequestedTimeStage,
		HospitalBedsByRequestedTimeStage,
		CasesForICUByRequestedTimeStage,
		CasesForVentilatorsByRequestedTimeStage,
		DollarsInFlightStage,
	}
}

var pipeline = mustGraph(Stages()...)

func mustGraph(stages ...Stage) *Graph {
	g, err := NewGraph(stages...)
	if err != nil {
		panic(err)
	}
	return g
}

// Pipeline returns the graph of the seven standard stages.
func Pipeline() *Graph {
	return pipeline
}

var registry = func() map[string]Stage {
	m := make(map[string]Stage)
	for _, s := range Stages() {
		m[s.Name] = s
		m[string(s.Field)] = s
	}
	return m
}()

// Lookup finds a stage by operation name (calculateDollarsInFlight) or by
// the field it produces (dollarsInFlight).
func Lookup(name string) (Stage, bool) {
	s, ok := registry[name]
	return s, ok
}
