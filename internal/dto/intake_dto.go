package dto

import (
	"time"

	"deal-intake-be/internal/entity"
)

type SubmitIntakeResponse struct {
	SessionId string `json:"sessionId"`
	StreamURL string `json:"streamUrl"`
}

type ClarificationAnswerRequest struct {
	RequestId string `json:"requestId" validate:"required,uuid"`
	Action    string `json:"action" validate:"required,oneof=accept override skip"`
	Value     string `json:"value"`
}

type ResumeIntakeRequest struct {
	Answers []ClarificationAnswerRequest `json:"answers" validate:"dive"`
}

type ResumeIntakeResponse struct {
	SessionId string `json:"sessionId"`
	Resumed   bool   `json:"resumed"`
}

type PhaseStatusResponse struct {
	Phase      string `json:"phase"`
	Status     string `json:"status"`
	DurationMs int64  `json:"durationMs"`
	Summary    string `json:"summary,omitempty"`
}

type SessionStatusResponse struct {
	SessionId         string                        `json:"sessionId"`
	Status            string                        `json:"status"`
	CurrentPhase      string                        `json:"currentPhase,omitempty"`
	Phases            []PhaseStatusResponse         `json:"phases"`
	CompletenessScore int                           `json:"completenessScore"`
	MissingDocuments  []string                      `json:"missingDocuments,omitempty"`
	ConfidenceScore   int                           `json:"confidenceScore"`
	Clarifications    []entity.ClarificationRequest `json:"clarifications,omitempty"`
	RedFlags          []entity.RedFlag              `json:"redFlags,omitempty"`
	ToolResults       []entity.ToolResult           `json:"toolResults,omitempty"`
	DealId            string                        `json:"dealId,omitempty"`
	Synthesis         *entity.Synthesis             `json:"synthesis,omitempty"`
	Error             string                        `json:"error,omitempty"`
	CreatedAt         time.Time                     `json:"createdAt"`
	UpdatedAt         time.Time                     `json:"updatedAt"`
}

// FromSession builds the status payload from a session snapshot. Phases come
// back in pipeline order so clients can render a stable progress list.
func FromSession(s entity.IntakeSession) SessionStatusResponse {
	phases := make([]PhaseStatusResponse, 0, len(entity.PhaseOrder))
	for _, p := range entity.PhaseOrder {
		rec := s.Phases[p]
		if rec == nil {
			continue
		}
		phases = append(phases, PhaseStatusResponse{
			Phase:      string(p),
			Status:     string(rec.Status),
			DurationMs: rec.DurationMs,
			Summary:    rec.Summary,
		})
	}

	resp := SessionStatusResponse{
		SessionId:         s.Id.String(),
		Status:            string(s.Status),
		CurrentPhase:      string(s.CurrentPhase),
		Phases:            phases,
		CompletenessScore: s.CompletenessScore,
		MissingDocuments:  s.MissingDocuments,
		ConfidenceScore:   s.ConfidenceScore,
		Clarifications:    s.Clarifications,
		RedFlags:          s.RedFlags,
		ToolResults:       s.ToolResults,
		Synthesis:         s.Synthesis,
		Error:             s.Error,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if s.DealId != nil {
		resp.DealId = s.DealId.String()
	}
	return resp
}
