// Package pipeline drives the seven-phase intake workflow:
// Ingest → Extract → Clarify → Assemble → Analyze → Tools → Synthesize.
// One sequencer owns one session for its whole lifetime; callers observe it
// through the event channel and Snapshot.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"deal-intake-be/internal/entity"
	"deal-intake-be/internal/pkg/logger"
	"deal-intake-be/pkg/stream"
)

type phaseFunc func(ctx context.Context) (summary string, err error)

type Sequencer struct {
	session *entity.IntakeSession
	channel *stream.Channel
	collab  Collaborators
	logger  logger.ILogger

	// mu guards session fields against concurrent Snapshot/Resume callers.
	mu sync.Mutex

	// Single-slot continuation for the Clarify suspension; the resume call
	// fulfills it at most once.
	resume chan []entity.ClarificationAnswer
}

func NewSequencer(session *entity.IntakeSession, channel *stream.Channel, collab Collaborators, log logger.ILogger) *Sequencer {
	return &Sequencer{
		session: session,
		channel: channel,
		collab:  collab,
		logger:  log,
		resume:  make(chan []entity.ClarificationAnswer, 1),
	}
}

// Channel returns the session's event channel.
func (s *Sequencer) Channel() *stream.Channel {
	return s.channel
}

// Execute runs all phases in order. It returns only when the session has
// reached a terminal status; there is no return value because the outcome is
// observable through events and session state.
func (s *Sequencer) Execute(ctx context.Context, files []SubmittedFile) {
	s.mutate(func(sess *entity.IntakeSession) {
		sess.Status = entity.SessionRunning
	})
	s.channel.Publish(stream.EventPipelineStarted, map[string]interface{}{
		"fileCount": len(files),
	})

	phases := []struct {
		name entity.Phase
		fn   phaseFunc
	}{
		{entity.PhaseIngest, func(ctx context.Context) (string, error) { return s.runIngest(ctx, files) }},
		{entity.PhaseExtract, s.runExtract},
		{entity.PhaseClarify, s.runClarify},
		{entity.PhaseAssemble, s.runAssemble},
		{entity.PhaseAnalyze, s.runAnalyze},
		{entity.PhaseTools, s.runTools},
		{entity.PhaseSynthesize, s.runSynthesize},
	}

	for _, p := range phases {
		if err := s.runPhase(ctx, p.name, p.fn); err != nil {
			s.fail(p.name, err)
			return
		}
	}

	s.mutate(func(sess *entity.IntakeSession) {
		sess.Status = entity.SessionCompleted
	})
	s.logger.Info("Pipeline", "Intake run completed", map[string]interface{}{
		"session_id": s.session.Id,
	})
	s.channel.Publish(stream.EventPipelineComplete, map[string]interface{}{
		"synthesis": s.session.Synthesis,
	})
}

func (s *Sequencer) runPhase(ctx context.Context, phase entity.Phase, fn phaseFunc) error {
	s.mutate(func(sess *entity.IntakeSession) {
		sess.BeginPhase(phase)
	})
	s.channel.Publish(stream.EventPhaseStarted, map[string]interface{}{
		"phase": phase,
	})
	s.logger.Info("Pipeline", fmt.Sprintf("Phase %s started", phase), map[string]interface{}{
		"session_id": s.session.Id,
	})

	summary, err := fn(ctx)
	if err != nil {
		s.mutate(func(sess *entity.IntakeSession) {
			sess.EndPhase(phase, entity.PhaseFailed, err.Error())
		})
		return err
	}

	s.mutate(func(sess *entity.IntakeSession) {
		sess.EndPhase(phase, entity.PhaseCompleted, summary)
	})
	s.channel.Publish(stream.EventPhaseCompleted, map[string]interface{}{
		"phase":      phase,
		"summary":    summary,
		"durationMs": s.session.Phases[phase].DurationMs,
	})

	s.persistSnapshot()
	return nil
}

// fail marks the session failed and emits the single pipeline_error event.
// Later phases do not run; partial progress already emitted stays valid.
func (s *Sequencer) fail(phase entity.Phase, err error) {
	s.mutate(func(sess *entity.IntakeSession) {
		sess.Status = entity.SessionFailed
		sess.Error = err.Error()
	})
	s.logger.Error("Pipeline", fmt.Sprintf("Phase %s failed", phase), map[string]interface{}{
		"session_id": s.session.Id,
		"error":      err.Error(),
	})
	s.persistSnapshot()
	s.channel.Publish(stream.EventPipelineError, map[string]interface{}{
		"phase":   phase,
		"message": err.Error(),
	})
}

// Resume hands a set of clarification answers to a paused session. Returns
// false when the session is not paused; the call is then a no-op.
func (s *Sequencer) Resume(answers []entity.ClarificationAnswer) bool {
	s.mu.Lock()
	paused := s.session.Status == entity.SessionPaused
	s.mu.Unlock()
	if !paused {
		return false
	}
	select {
	case s.resume <- answers:
		return true
	default:
		// A resume is already in flight.
		return false
	}
}

// Snapshot returns a point-in-time copy of the session's observable state.
// The copy is deep where later phases mutate in place (phase records, the
// working record, synthesis); callers read it without holding any lock.
func (s *Sequencer) Snapshot() entity.IntakeSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := *s.session
	snap.Phases = make(map[entity.Phase]*entity.PhaseRecord, len(s.session.Phases))
	for p, rec := range s.session.Phases {
		copied := *rec
		snap.Phases[p] = &copied
	}
	snap.Deal = s.session.Deal.Clone()
	snap.Synthesis = s.session.Synthesis.Clone()
	snap.Files = append([]*entity.ParsedFile(nil), s.session.Files...)
	snap.Clarifications = append([]entity.ClarificationRequest(nil), s.session.Clarifications...)
	snap.Answers = append([]entity.ClarificationAnswer(nil), s.session.Answers...)
	snap.ToolResults = append([]entity.ToolResult(nil), s.session.ToolResults...)
	snap.RedFlags = append([]entity.RedFlag(nil), s.session.RedFlags...)
	snap.MissingDocuments = append([]string(nil), s.session.MissingDocuments...)
	return snap
}

func (s *Sequencer) mutate(fn func(sess *entity.IntakeSession)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.session)
}

func (s *Sequencer) persistSnapshot() {
	if s.collab.Snapshots == nil {
		return
	}
	s.collab.Snapshots.PublishSnapshot(s.session)
}
