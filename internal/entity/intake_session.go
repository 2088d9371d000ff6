package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionIdle      SessionStatus = "idle"
	SessionRunning   SessionStatus = "running"
	SessionPaused    SessionStatus = "paused_for_clarification"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// IsTerminal reports whether the session can no longer change state.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionFailed
}

type Phase string

const (
	PhaseIngest     Phase = "ingest"
	PhaseExtract    Phase = "extract"
	PhaseClarify    Phase = "clarify"
	PhaseAssemble   Phase = "assemble"
	PhaseAnalyze    Phase = "analyze"
	PhaseTools      Phase = "tools"
	PhaseSynthesize Phase = "synthesize"
)

// PhaseOrder is the fixed execution order of the intake pipeline.
var PhaseOrder = []Phase{
	PhaseIngest,
	PhaseExtract,
	PhaseClarify,
	PhaseAssemble,
	PhaseAnalyze,
	PhaseTools,
	PhaseSynthesize,
}

type PhaseStatus string

const (
	PhasePending   PhaseStatus = "pending"
	PhaseRunning   PhaseStatus = "running"
	PhaseCompleted PhaseStatus = "completed"
	PhaseFailed    PhaseStatus = "failed"
	PhaseSkipped   PhaseStatus = "skipped"
)

// PhaseRecord tracks one phase of one session. Append-only once completed.
type PhaseRecord struct {
	Status     PhaseStatus `json:"status"`
	StartedAt  *time.Time  `json:"started_at,omitempty"`
	EndedAt    *time.Time  `json:"ended_at,omitempty"`
	DurationMs int64       `json:"duration_ms"`
	Summary    string      `json:"summary,omitempty"`
}

// IntakeSession is the aggregate root of one intake run. It is owned
// exclusively by the sequencer goroutine for its lifetime; external callers
// observe it through events and status snapshots only.
type IntakeSession struct {
	Id           uuid.UUID
	Status       SessionStatus
	CurrentPhase Phase
	Phases       map[Phase]*PhaseRecord

	Files []*ParsedFile
	Deal  *ExtractedDealData

	Clarifications []ClarificationRequest
	Answers        []ClarificationAnswer
	ToolResults    []ToolResult
	RedFlags       []RedFlag

	CompletenessScore int
	MissingDocuments  []string
	ConfidenceScore   int

	DealId    *uuid.UUID
	Synthesis *Synthesis
	Error     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewIntakeSession() *IntakeSession {
	now := time.Now()
	phases := make(map[Phase]*PhaseRecord, len(PhaseOrder))
	for _, p := range PhaseOrder {
		phases[p] = &PhaseRecord{Status: PhasePending}
	}
	return &IntakeSession{
		Id:        uuid.New(),
		Status:    SessionIdle,
		Phases:    phases,
		Deal:      NewExtractedDealData(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BeginPhase marks the phase running and makes it the current phase.
func (s *IntakeSession) BeginPhase(p Phase) *PhaseRecord {
	now := time.Now()
	rec := s.Phases[p]
	rec.Status = PhaseRunning
	rec.StartedAt = &now
	s.CurrentPhase = p
	s.UpdatedAt = now
	return rec
}

// EndPhase closes out the current phase record with the given status.
func (s *IntakeSession) EndPhase(p Phase, status PhaseStatus, summary string) {
	now := time.Now()
	rec := s.Phases[p]
	rec.Status = status
	rec.EndedAt = &now
	rec.Summary = summary
	if rec.StartedAt != nil {
		rec.DurationMs = now.Sub(*rec.StartedAt).Milliseconds()
	}
	s.UpdatedAt = now
}

// AddRedFlags appends flags; the list is monotonically non-decreasing
// within a run.
func (s *IntakeSession) AddRedFlags(flags ...RedFlag) {
	s.RedFlags = append(s.RedFlags, flags...)
}

// CriticalFlagCount counts flags with critical severity.
func (s *IntakeSession) CriticalFlagCount() int {
	n := 0
	for _, f := range s.RedFlags {
		if f.Severity == SeverityCritical {
			n++
		}
	}
	return n
}

// UnansweredRequests returns clarification requests with no recorded answer.
func (s *IntakeSession) UnansweredRequests() []ClarificationRequest {
	answered := make(map[uuid.UUID]bool, len(s.Answers))
	for _, a := range s.Answers {
		answered[a.RequestId] = true
	}
	var open []ClarificationRequest
	for _, r := range s.Clarifications {
		if !answered[r.Id] {
			open = append(open, r)
		}
	}
	return open
}
