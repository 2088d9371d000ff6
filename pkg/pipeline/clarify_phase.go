package pipeline

import (
	"context"
	"fmt"

	"deal-intake-be/internal/entity"
	"deal-intake-be/pkg/pipeline/clarify"
	"deal-intake-be/pkg/stream"
)

// runClarify is the pipeline's only suspension point. When the negotiator
// raises requests, the phase parks on the resume channel with no timeout;
// the session stays paused_for_clarification until an external call
// supplies answers. Unanswered requests are treated as skip.
func (s *Sequencer) runClarify(ctx context.Context) (string, error) {
	var requests []entity.ClarificationRequest
	s.mutate(func(sess *entity.IntakeSession) {
		requests = clarify.Generate(sess.Deal)
		sess.Clarifications = requests
	})

	if len(requests) == 0 {
		return "no clarifications needed", nil
	}

	s.mutate(func(sess *entity.IntakeSession) {
		sess.Status = entity.SessionPaused
	})
	s.channel.Publish(stream.EventClarificationNeeded, map[string]interface{}{
		"count":    len(requests),
		"requests": requests,
	})
	s.logger.Info("Clarify", "Session paused awaiting clarification", map[string]interface{}{
		"session_id": s.session.Id,
		"requests":   len(requests),
	})

	if s.collab.Notifier != nil {
		s.collab.Notifier.NotifyPaused(s.session, requests)
	}

	var answers []entity.ClarificationAnswer
	select {
	case answers = <-s.resume:
	case <-ctx.Done():
		return "", fmt.Errorf("session terminated while awaiting clarification: %w", ctx.Err())
	}

	applied := 0
	s.mutate(func(sess *entity.IntakeSession) {
		sess.Status = entity.SessionRunning
		sess.Answers = answers
		applied = clarify.Apply(sess.Deal, requests, answers)
	})

	s.channel.Publish(stream.EventClarificationsResolved, map[string]interface{}{
		"answered": len(answers),
		"applied":  applied,
		"skipped":  len(requests) - len(answers),
	})

	return fmt.Sprintf("%d requests raised, %d answered, %d overrides applied", len(requests), len(answers), applied), nil
}
