package model

type CalculationMessage struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)

// Message codes.
const (
	CodeNotANumber          = "NOT_A_NUMBER"
	CodeOutOfRange          = "OUT_OF_RANGE"
	CodeMissingInput        = "MISSING_INPUT"
	CodeMissingPrecondition = "MISSING_PRECONDITION"
	CodeUnknownStage        = "UNKNOWN_STAGE"
	CodeFieldSkipped        = "FIELD_SKIPPED"
)
