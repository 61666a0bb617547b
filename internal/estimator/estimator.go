package estimator

import (
	"fmt"
	"log/slog"

	"covid-estimator/internal/model"
)

// Estimator owns one input record and its two projection branches. Stages
// only ever add fields to a branch, so running any Calculate method more
// than once has no further effect. An Estimator is not safe for concurrent
// use; build one per request.
type Estimator struct {
	input        model.Input
	impact       model.Impact
	severeImpact model.Impact
	ratios       Ratios
	graph        *Graph
	logger       *slog.Logger

	skips []Skip
	seen  map[string]struct{}
}

type Option func(*Estimator)

func WithRatios(r Ratios) Option {
	return func(e *Estimator) { e.ratios = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Estimator) { e.logger = l }
}

func New(input model.Input, opts ...Option) *Estimator {
	e := &Estimator{
		input:  input,
		ratios: DefaultRatios(),
		graph:  pipeline,
		logger: slog.Default(),
		seen:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate builds an Estimator for input, runs the full pipeline and
// returns the result.
func Estimate(input model.Input, opts ...Option) model.Output {
	return New(input, opts...).ComputeResponse()
}

// ComputeResponse runs every stage in pipeline order and returns the output.
func (e *Estimator) ComputeResponse() model.Output {
	e.CalculateCurrentlyInfected().
		CalculateInfectionsByRequestedTime().
		CalculateSevereCasesByRequestedTime().
		CalculateHospitalBedsByRequestedTime().
		CalculateCasesForICUByRequestedTime().
		CalculateCasesForVentilatorsByRequestedTime().
		CalculateDollarsInFlight()
	return e.Output()
}

func (e *Estimator) CalculateCurrentlyInfected() *Estimator {
	return e.Calculate(model.CurrentlyInfected)
}

func (e *Estimator) CalculateInfectionsByRequestedTime() *Estimator {
	return e.Calculate(model.InfectionsByRequestedTime)
}

func (e *Estimator) CalculateSevereCasesByRequestedTime() *Estimator {
	return e.Calculate(model.SevereCasesByRequestedTime)
}

func (e *Estimator) CalculateHospitalBedsByRequestedTime() *Estimator {
	return e.Calculate(model.HospitalBedsByRequestedTime)
}

func (e *Estimator) CalculateCasesForICUByRequestedTime() *Estimator {
	return e.Calculate(model.CasesForICUByRequestedTime)
}

func (e *Estimator) CalculateCasesForVentilatorsByRequestedTime() *Estimator {
	return e.Calculate(model.CasesForVentilatorsByRequestedTime)
}

func (e *Estimator) CalculateDollarsInFlight() *Estimator {
	return e.Calculate(model.DollarsInFlight)
}

// Calculate derives f in both branches, deriving missing prerequisites first.
func (e *Estimator) Calculate(f model.Field) *Estimator {
	e.impact = e.resolve(Mild, e.impact, f)
	e.severeImpact = e.resolve(Severe, e.severeImpact, f)
	return e
}

// Run calculates the stage registered under name.
func (e *Estimator) Run(name string) error {
	s, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStage, name)
	}
	e.Calculate(s.Field)
	return nil
}

func (e *Estimator) resolve(sc Scenario, b model.Impact, f model.Field) model.Impact {
	next, skips := e.graph.Resolve(Env{Input: e.input, Ratios: e.ratios, Scenario: sc}, b, f)
	for _, s := range skips {
		e.record(s)
	}
	return next
}

func (e *Estimator) record(s Skip) {
	key := s.Scenario + "/" + string(s.Field) + "/" + s.Code()
	if _, dup := e.seen[key]; dup {
		return
	}
	e.seen[key] = struct{}{}
	e.skips = append(e.skips, s)
	e.logger.Debug("estimator: field not derived",
		"scenario", s.Scenario, "field", s.Field, "code", s.Code(), "err", s.Err)
}

// Skips returns every field that could not be derived, in the order the
// failures occurred. Each failure is reported once.
func (e *Estimator) Skips() []Skip {
	out := make([]Skip, len(e.skips))
	copy(out, e.skips)
	return out
}

func (e *Estimator) Output() model.Output {
	return model.Output{
		Data:         e.input,
		Impact:       e.impact,
		SevereImpact: e.severeImpact,
	}
}

func (e *Estimator) Input() model.Input { return e.input }

func (e *Estimator) Impact() model.Impact { return e.impact }

func (e *Estimator) SetImpact(b model.Impact) { e.impact = b }

func (e *Estimator) SevereImpact() model.Impact { return e.severeImpact }

func (e *Estimator) SetSevereImpact(b model.Impact) { e.severeImpact = b }

func (e *Estimator) Ratios() Ratios { return e.ratios }

func (e *Estimator) BedAvailability() float64 { return e.ratios.BedAvailability }

// SetBedAvailability takes a whole-number percentage.
func (e *Estimator) SetBedAvailability(pct int) { e.ratios.BedAvailability = FromPercent(pct) }

func (e *Estimator) ICURate() float64 { return e.ratios.ICURate }

// SetICURate takes a whole-number percentage.
func (e *Estimator) SetICURate(pct int) { e.ratios.ICURate = FromPercent(pct) }

func (e *Estimator) VentilatorRate() float64 { return e.ratios.VentilatorRate }

// SetVentilatorRate takes a whole-number percentage.
func (e *Estimator) SetVentilatorRate(pct int) { e.ratios.VentilatorRate = FromPercent(pct) }

func (e *Estimator) HospitalizationRate() float64 { return e.ratios.HospitalizationRate }

// SetHospitalizationRate takes a whole-number percentage.
func (e *Estimator) SetHospitalizationRate(pct int) { e.ratios.HospitalizationRate = FromPercent(pct) }

func (e *Estimator) DoublingPeriod() int { return e.ratios.DoublingPeriod }

// SetDoublingPeriod takes the number of days for infections to double.
// Values below 1 are evaluated as 1.
func (e *Estimator) SetDoublingPeriod(days int) { e.ratios.DoublingPeriod = days }
