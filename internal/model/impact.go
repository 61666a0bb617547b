package model

// Field names a derived value in an Impact branch.
type Field string

const (
	CurrentlyInfected                  Field = "currentlyInfected"
	InfectionsByRequestedTime          Field = "infectionsByRequestedTime"
	SevereCasesByRequestedTime         Field = "severeCasesByRequestedTime"
	HospitalBedsByRequestedTime        Field = "hospitalBedsByRequestedTime"
	CasesForICUByRequestedTime         Field = "casesForICUByRequestedTime"
	CasesForVentilatorsByRequestedTime Field = "casesForVentilatorsByRequestedTime"
	DollarsInFlight                    Field = "dollarsInFlight"
)

// Fields lists every Impact field in output order.
var Fields = []Field{
	CurrentlyInfected,
	InfectionsByRequestedTime,
	SevereCasesByRequestedTime,
	HospitalBedsByRequestedTime,
	CasesForICUByRequestedTime,
	CasesForVentilatorsByRequestedTime,
	DollarsInFlight,
}

// Impact is one projection branch. A nil field has not been derived.
// Values are never mutated once set; With returns a new snapshot.
type Impact struct {
	CurrentlyInfected                  *int64 `json:"currentlyInfected,omitempty"`
	InfectionsByRequestedTime          *int64 `json:"infectionsByRequestedTime,omitempty"`
	SevereCasesByRequestedTime         *int64 `json:"severeCasesByRequestedTime,omitempty"`
	HospitalBedsByRequestedTime        *int64 `json:"hospitalBedsByRequestedTime,omitempty"`
	CasesForICUByRequestedTime         *int64 `json:"casesForICUByRequestedTime,omitempty"`
	CasesForVentilatorsByRequestedTime *int64 `json:"casesForVentilatorsByRequestedTime,omitempty"`
	DollarsInFlight                    *int64 `json:"dollarsInFlight,omitempty"`
}

func (b *Impact) slot(f Field) **int64 {
	switch f {
	case CurrentlyInfected:
		return &b.CurrentlyInfected
	case InfectionsByRequestedTime:
		return &b.InfectionsByRequestedTime
	case SevereCasesByRequestedTime:
		return &b.SevereCasesByRequestedTime
	case HospitalBedsByRequestedTime:
		return &b.HospitalBedsByRequestedTime
	case CasesForICUByRequestedTime:
		return &b.CasesForICUByRequestedTime
	case CasesForVentilatorsByRequestedTime:
		return &b.CasesForVentilatorsByRequestedTime
	case DollarsInFlight:
		return &b.DollarsInFlight
	}
	return nil
}

// Get returns the value of f and whether it has been derived.
func (b Impact) Get(f Field) (int64, bool) {
	s := b.slot(f)
	if s == nil || *s == nil {
		return 0, false
	}
	return **s, true
}

// Has reports whether f has been derived.
func (b Impact) Has(f Field) bool {
	_, ok := b.Get(f)
	return ok
}

// With returns a copy of b with f set to v. Unknown fields leave b unchanged.
func (b Impact) With(f Field, v int64) Impact {
	s := b.slot(f)
	if s == nil {
		return b
	}
	*s = &v
	return b
}

// Len returns the number of derived fields.
func (b Impact) Len() int {
	n := 0
	for _, f := range Fields {
		if b.Has(f) {
			n++
		}
	}
	return n
}

// Map returns the derived fields keyed by their JSON names.
func (b Impact) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(Fields))
	for _, f := range Fields {
		if v, ok := b.Get(f); ok {
			m[string(f)] = v
		}
	}
	return m
}

// Output is the result of an estimate: the echoed input and both branches.
type Output struct {
	Data         Input  `json:"data"`
	Impact       Impact `json:"impact"`
	SevereImpact Impact `json:"severeImpact"`
}
