package estimator

import (
	"errors"
	"reflect"
	"testing"

	"covid-estimator/internal/model"
)

func africa() model.Input {
	return model.Input{
		Region: &model.Region{
			Name:                     "Africa",
			AvgAge:                   model.Num(19.7),
			AvgDailyIncomeInUSD:      model.Num(5),
			AvgDailyIncomePopulation: model.Num(0.71),
		},
		PeriodType:        model.Period("days"),
		TimeToElapse:      model.Num(58),
		ReportedCases:     model.Num(674),
		Population:        model.Num(66622705),
		TotalHospitalBeds: model.Num(1380614),
	}
}

func mustGet(t *testing.T, b model.Impact, f model.Field) int64 {
	t.Helper()
	v, ok := b.Get(f)
	if !ok {
		t.Fatalf("%s missing from branch %v", f, b.Map())
	}
	return v
}

func TestComputeResponse_Africa(t *testing.T) {
	out := New(africa()).ComputeResponse()

	want := map[string]map[model.Field]int64{
		"impact": {
			model.CurrentlyInfected:                  6740,
			model.InfectionsByRequestedTime:          3533701120,
			model.SevereCasesByRequestedTime:         530055168,
			model.HospitalBedsByRequestedTime:        -529571954,
			model.CasesForICUByRequestedTime:         176685056,
			model.CasesForVentilatorsByRequestedTime: 70674022,
			model.DollarsInFlight:                    216286878,
		},
		"severeImpact": {
			model.CurrentlyInfected:                  33700,
			model.InfectionsByRequestedTime:          17668505600,
			model.SevereCasesByRequestedTime:         2650275840,
			model.HospitalBedsByRequestedTime:        -2649792626,
			model.CasesForICUByRequestedTime:         883425280,
			model.CasesForVentilatorsByRequestedTime: 353370112,
			model.DollarsInFlight:                    1081434394,
		},
	}
	branches := map[string]model.Impact{"impact": out.Impact, "severeImpact": out.SevereImpact}

	for name, fields := range want {
		b := branches[name]
		if b.Len() != len(model.Fields) {
			t.Errorf("%s: expected all %d fields, got %v", name, len(model.Fields), b.Map())
		}
		for f, v := range fields {
			if got := mustGet(t, b, f); got != v {
				t.Errorf("%s.%s = %d, want %d", name, f, got, v)
			}
		}
	}

	if out.Data.RegionName() != "Africa" {
		t.Errorf("input not echoed: %+v", out.Data)
	}
}

func TestComputeResponse_Idempotent(t *testing.T) {
	e := New(africa())
	first := e.ComputeResponse()
	second := e.ComputeResponse()
	if !reflect.DeepEqual(first.Impact.Map(), second.Impact.Map()) {
		t.Errorf("impact changed on second run: %v vs %v", first.Impact.Map(), second.Impact.Map())
	}
	if !reflect.DeepEqual(first.SevereImpact.Map(), second.SevereImpact.Map()) {
		t.Errorf("severeImpact changed on second run")
	}
}

func TestCalculate_StageTwiceIsNoop(t *testing.T) {
	e := New(africa())
	e.CalculateSevereCasesByRequestedTime()
	before := e.Impact().Map()
	e.CalculateSevereCasesByRequestedTime()
	if !reflect.DeepEqual(before, e.Impact().Map()) {
		t.Errorf("second call changed impact: %v vs %v", before, e.Impact().Map())
	}
}

func TestCalculate_ResolvesPrerequisites(t *testing.T) {
	e := New(africa())
	e.CalculateDollarsInFlight()

	for _, b := range []model.Impact{e.Impact(), e.SevereImpact()} {
		for _, f := range []model.Field{model.CurrentlyInfected, model.InfectionsByRequestedTime, model.DollarsInFlight} {
			mustGet(t, b, f)
		}
		if b.Has(model.SevereCasesByRequestedTime) {
			t.Errorf("severeCasesByRequestedTime derived but not requested")
		}
	}

	// Running the rest afterwards reaches the same result as a full run.
	full := New(africa()).ComputeResponse()
	if got := e.ComputeResponse(); !reflect.DeepEqual(got.Impact.Map(), full.Impact.Map()) {
		t.Errorf("out-of-order run = %v, want %v", got.Impact.Map(), full.Impact.Map())
	}
}

func TestComputeResponse_MissingRegion(t *testing.T) {
	in := africa()
	in.Region = nil
	e := New(in)
	out := e.ComputeResponse()

	for name, b := range map[string]model.Impact{"impact": out.Impact, "severeImpact": out.SevereImpact} {
		if b.Has(model.DollarsInFlight) {
			t.Errorf("%s: dollarsInFlight present without region", name)
		}
		if b.Len() != len(model.Fields)-1 {
			t.Errorf("%s: expected %d fields, got %v", name, len(model.Fields)-1, b.Map())
		}
	}

	skips := e.Skips()
	if len(skips) != 2 {
		t.Fatalf("expected a skip per branch, got %v", skips)
	}
	for _, s := range skips {
		if s.Field != model.DollarsInFlight || !errors.Is(s.Err, ErrMissingInput) {
			t.Errorf("unexpected skip %v", s)
		}
	}

	// Asking again does not report the same failure twice.
	e.CalculateDollarsInFlight()
	if len(e.Skips()) != 2 {
		t.Errorf("skips duplicated: %v", e.Skips())
	}
}

func TestComputeResponse_MissingHospitalBeds(t *testing.T) {
	in := africa()
	in.TotalHospitalBeds = nil
	out := New(in).ComputeResponse()

	severe := mustGet(t, out.Impact, model.SevereCasesByRequestedTime)
	if got := mustGet(t, out.Impact, model.HospitalBedsByRequestedTime); got != -severe {
		t.Errorf("hospitalBedsByRequestedTime = %d, want %d", got, -severe)
	}
}

func TestComputeResponse_MissingReportedCases(t *testing.T) {
	in := africa()
	in.ReportedCases = nil
	e := New(in)
	out := e.ComputeResponse()

	if out.Impact.Len() != 0 || out.SevereImpact.Len() != 0 {
		t.Fatalf("expected empty branches, got %v / %v", out.Impact.Map(), out.SevereImpact.Map())
	}
	if got := len(e.Skips()); got != 2*len(model.Fields) {
		t.Errorf("expected %d skips, got %d", 2*len(model.Fields), got)
	}
}

func TestComputeResponse_NonNumericCases(t *testing.T) {
	in := africa()
	in.ReportedCases = model.RawNumeric(`"Hello"`)
	e := New(in)
	out := e.ComputeResponse()

	if out.Impact.Has(model.CurrentlyInfected) {
		t.Error("currentlyInfected derived from a non-numeric value")
	}
	skips := e.Skips()
	if len(skips) == 0 || skips[0].Code() != model.CodeNotANumber {
		t.Fatalf("expected NOT_A_NUMBER first, got %v", skips)
	}
}

func TestComputeResponse_NumericStrings(t *testing.T) {
	in := africa()
	in.ReportedCases = model.RawNumeric(`"674"`)
	in.TimeToElapse = model.RawNumeric(`"58"`)
	out := New(in).ComputeResponse()

	if got := mustGet(t, out.Impact, model.InfectionsByRequestedTime); got != 3533701120 {
		t.Errorf("infectionsByRequestedTime = %d, want 3533701120", got)
	}
}

func TestComputeResponse_WeeksAndMonths(t *testing.T) {
	tests := []struct {
		period string
		time   float64
		want   int64 // impact.infectionsByRequestedTime
	}{
		{period: "weeks", time: 2, want: 6740 * 16}, // 14 days
		{period: "months", time: 1, want: 6740 * 1024},
	}
	for _, tt := range tests {
		in := africa()
		in.PeriodType = model.Period(tt.period)
		in.TimeToElapse = model.Num(tt.time)
		out := Estimate(in)
		if got := mustGet(t, out.Impact, model.InfectionsByRequestedTime); got != tt.want {
			t.Errorf("%v %s: infections = %d, want %d", tt.time, tt.period, got, tt.want)
		}
	}
}

func TestRatioAccessors(t *testing.T) {
	e := New(africa())

	if e.BedAvailability() != 0.35 || e.ICURate() != 0.05 || e.VentilatorRate() != 0.02 ||
		e.HospitalizationRate() != 0.15 || e.DoublingPeriod() != 3 {
		t.Fatalf("unexpected defaults: %+v", e.Ratios())
	}

	e.SetBedAvailability(20)
	e.SetICURate(10)
	e.SetVentilatorRate(20)
	e.SetHospitalizationRate(25)
	e.SetDoublingPeriod(4)

	if e.BedAvailability() != 0.2 {
		t.Errorf("BedAvailability = %v, want 0.2", e.BedAvailability())
	}
	if e.ICURate() != 0.1 {
		t.Errorf("ICURate = %v, want 0.1", e.ICURate())
	}
	if e.VentilatorRate() != 0.2 {
		t.Errorf("VentilatorRate = %v, want 0.2", e.VentilatorRate())
	}
	if e.HospitalizationRate() != 0.25 {
		t.Errorf("HospitalizationRate = %v, want 0.25", e.HospitalizationRate())
	}
	if e.DoublingPeriod() != 4 {
		t.Errorf("DoublingPeriod = %d, want 4", e.DoublingPeriod())
	}

	out := e.ComputeResponse()
	// 58 days / 4 = 14 doublings
	if got := mustGet(t, out.Impact, model.InfectionsByRequestedTime); got != 6740*16384 {
		t.Errorf("infections = %d, want %d", got, 6740*16384)
	}
	if got := mustGet(t, out.Impact, model.SevereCasesByRequestedTime); got != 6740*16384/4 {
		t.Errorf("severe cases = %d, want %d", got, 6740*16384/4)
	}
}

func TestWithRatios(t *testing.T) {
	r := DefaultRatios().Apply(model.RatioPercentages{ICURate: model.Pct(50)})
	e := New(africa(), WithRatios(r))
	out := e.ComputeResponse()
	if got := mustGet(t, out.Impact, model.CasesForICUByRequestedTime); got != 3533701120/2 {
		t.Errorf("ICU = %d, want %d", got, 3533701120/2)
	}
}

func TestBranchAccessors(t *testing.T) {
	e := New(africa())
	if e.Impact().Len() != 0 || e.SevereImpact().Len() != 0 {
		t.Fatal("new estimator should start with empty branches")
	}

	seeded := model.Impact{}.With(model.CurrentlyInfected, 20)
	e.SetImpact(seeded)
	e.SetSevereImpact(seeded)
	if !reflect.DeepEqual(e.Impact().Map(), seeded.Map()) {
		t.Errorf("Impact() = %v, want %v", e.Impact().Map(), seeded.Map())
	}

	// A seeded field is never recomputed.
	e.CalculateInfectionsByRequestedTime()
	if got := mustGet(t, e.Impact(), model.CurrentlyInfected); got != 20 {
		t.Errorf("currentlyInfected = %d, want 20", got)
	}
	if got := mustGet(t, e.SevereImpact(), model.InfectionsByRequestedTime); got != 20*524288 {
		t.Errorf("severe infections = %d, want %d", got, 20*524288)
	}
}

func TestRun(t *testing.T) {
	e := New(africa())
	if err := e.Run("calculateCasesForICUByRequestedTime"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	mustGet(t, e.Impact(), model.CasesForICUByRequestedTime)

	if err := e.Run("calculateEverything"); !errors.Is(err, ErrUnknownStage) {
		t.Errorf("expected ErrUnknownStage, got %v", err)
	}
}
