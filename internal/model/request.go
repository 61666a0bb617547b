package model

type CalculationRequest struct {
	TenantID  string            `json:"tenant_id"`
	Ratios    *RatioPercentages `json:"ratios,omitempty"`
	Stages    []string          `json:"stages,omitempty"`
	Estimates []Input           `json:"estimates"`
}
