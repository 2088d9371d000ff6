package entity

import "github.com/google/uuid"

type ClarificationType string

const (
	ClarificationLowConfidence   ClarificationType = "low_confidence"
	ClarificationOutOfRange      ClarificationType = "out_of_range"
	ClarificationConflict        ClarificationType = "conflict"
	ClarificationMissing         ClarificationType = "missing"
	ClarificationValidationError ClarificationType = "validation_error"
)

// BenchmarkRange is an expected band for a numeric field, carried on
// out-of-range requests so the UI can show it next to the extracted value.
type BenchmarkRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ClarificationRequest is one prioritized question raised by the Clarify
// phase. Generated once per phase entry; immutable afterwards.
type ClarificationRequest struct {
	Id             uuid.UUID         `json:"id"`
	FieldPath      string            `json:"field_path"`
	Label          string            `json:"label"`
	ExtractedValue string            `json:"extracted_value,omitempty"`
	Suggestions    []string          `json:"suggestions,omitempty"`
	Benchmark      *BenchmarkRange   `json:"benchmark,omitempty"`
	Type           ClarificationType `json:"type"`
	Reason         string            `json:"reason"`
	Priority       int               `json:"priority"`
}

type ClarificationAction string

const (
	AnswerAccept   ClarificationAction = "accept"
	AnswerOverride ClarificationAction = "override"
	AnswerSkip     ClarificationAction = "skip"
)

// ClarificationAnswer resolves one request. Consumed exactly once when the
// session resumes.
type ClarificationAnswer struct {
	RequestId uuid.UUID           `json:"request_id"`
	Action    ClarificationAction `json:"action"`
	Value     string              `json:"value,omitempty"`
}
