package entity

import "github.com/google/uuid"

type FlagSeverity string

const (
	SeverityCritical FlagSeverity = "critical"
	SeverityWarning  FlagSeverity = "warning"
)

// RedFlag is a rule-triggered finding about the deal. Flags accumulate
// across phases and are never removed within a session.
type RedFlag struct {
	Id       uuid.UUID    `json:"id"`
	Severity FlagSeverity `json:"severity"`
	Category string       `json:"category"`
	Message  string       `json:"message"`
	Phase    Phase        `json:"phase"`
}

func NewRedFlag(severity FlagSeverity, category, message string, phase Phase) RedFlag {
	return RedFlag{
		Id:       uuid.New(),
		Severity: severity,
		Category: category,
		Message:  message,
		Phase:    phase,
	}
}
