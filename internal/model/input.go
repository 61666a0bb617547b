package model

// Period types accepted in Input.PeriodType.
const (
	PeriodDays   = "days"
	PeriodWeeks  = "weeks"
	PeriodMonths = "months"
)

// Input is the record an estimate is computed from. Every field is
// optional; an absent field suppresses the outputs that depend on it.
type Input struct {
	Region            *Region  `json:"region,omitempty"`
	PeriodType        *string  `json:"periodType,omitempty"`
	TimeToElapse      *Numeric `json:"timeToElapse,omitempty"`
	ReportedCases     *Numeric `json:"reportedCases,omitempty"`
	Population        *Numeric `json:"population,omitempty"`
	TotalHospitalBeds *Numeric `json:"totalHospitalBeds,omitempty"`
}

type Region struct {
	Name                     string   `json:"name,omitempty"`
	AvgAge                   *Numeric `json:"avgAge,omitempty"`
	AvgDailyIncomeInUSD      *Numeric `json:"avgDailyIncomeInUSD,omitempty"`
	AvgDailyIncomePopulation *Numeric `json:"avgDailyIncomePopulation,omitempty"`
}

// RegionName returns the region name, or "" when no region is set.
func (in Input) RegionName() string {
	if in.Region == nil {
		return ""
	}
	return in.Region.Name
}

// Period returns a pointer to p, for building inputs in code.
func Period(p string) *string {
	return &p
}
