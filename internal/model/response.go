package model

import json "github.com/goccy/go-json"

type CalculationResponse struct {
	CalculationMetadata CalculationMetadata `json:"calculation_metadata"`
	CalculationResult   CalculationResult   `json:"calculation_result"`
}

type CalculationMetadata struct {
	CalculationID          string `json:"calculation_id"`
	TenantID               string `json:"tenant_id"`
	CalculationStartedAt   string `json:"calculation_started_at"`
	CalculationCompletedAt string `json:"calculation_completed_at"`
	CalculationDurationMs  int64  `json:"calculation_duration_ms"`
	CalculationOutcome     string `json:"calculation_outcome"`
}

type CalculationResult struct {
	Messages  []CalculationMessage `json:"messages"`
	Estimates []EstimateResult     `json:"estimates"`
}

type EstimateResult struct {
	Index                     int              `json:"index"`
	Ratios                    RatioPercentages `json:"ratios"`
	Stages                    []ProcessedStage `json:"stages"`
	Output                    Output           `json:"output"`
	CalculationMessageIndexes []int            `json:"calculation_message_indexes,omitempty"`
}

// ProcessedStage records what one stage added to each branch, as
// RFC 6902 operations.
type ProcessedStage struct {
	Stage                     string    `json:"stage"`
	Impact                    []PatchOp `json:"impact"`
	SevereImpact              []PatchOp `json:"severe_impact"`
	CalculationMessageIndexes []int     `json:"calculation_message_indexes,omitempty"`
}

type PatchOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailure = "FAILURE"
)
