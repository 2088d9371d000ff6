package pipeline

import (
	"context"

	"deal-intake-be/internal/entity"
	"deal-intake-be/pkg/cms"
	"deal-intake-be/pkg/llm"
	"deal-intake-be/pkg/parser"
	"deal-intake-be/pkg/tools"

	"github.com/google/uuid"
)

// SubmittedFile is one uploaded document as received at submission.
type SubmittedFile struct {
	Filename  string
	MediaType string
	Content   []byte
}

// DealWriter durably creates a deal record and its facilities from the
// session's working record. Failure is non-fatal for the run: the deal
// reference stays unset and the session still completes.
type DealWriter interface {
	CreateDeal(ctx context.Context, session *entity.IntakeSession) (uuid.UUID, error)
}

// SnapshotPublisher persists a session snapshot at phase boundaries.
// Best-effort: implementations log failures, they never propagate.
type SnapshotPublisher interface {
	PublishSnapshot(session *entity.IntakeSession)
}

// PauseNotifier is invoked when the session pauses for clarification.
// Best-effort: implementations log failures, they never propagate.
type PauseNotifier interface {
	NotifyPaused(session *entity.IntakeSession, requests []entity.ClarificationRequest)
}

// Collaborators are the external dependencies the sequencer drives. Only
// Texts and Classifier are required; every other collaborator may be nil
// and the corresponding step degrades gracefully.
type Collaborators struct {
	Texts      parser.TextExtractor
	Classifier parser.Classifier
	Contents   parser.ContentExtractor
	Matcher    cms.Matcher
	Tools      tools.Runner
	Summarizer llm.LLMProvider
	Writer     DealWriter
	Snapshots  SnapshotPublisher
	Notifier   PauseNotifier
}
