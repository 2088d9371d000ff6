package pipeline

import (
	"context"
	"fmt"

	"deal-intake-be/internal/entity"
	"deal-intake-be/pkg/pipeline/rules"
	"deal-intake-be/pkg/stream"
)

// runAnalyze recomputes completeness from the current file set, runs the
// financial red-flag rules and derives the overall confidence score.
func (s *Sequencer) runAnalyze(ctx context.Context) (string, error) {
	var flags []entity.RedFlag
	s.mutate(func(sess *entity.IntakeSession) {
		sess.CompletenessScore, sess.MissingDocuments = rules.Completeness(sess.Files)
		flags = rules.FinancialFlags(sess.Deal, entity.PhaseAnalyze)
		sess.AddRedFlags(flags...)
		sess.ConfidenceScore = confidenceScore(sess)
	})

	s.channel.Publish(stream.EventCompletenessCheck, map[string]interface{}{
		"score":   s.session.CompletenessScore,
		"missing": s.session.MissingDocuments,
	})
	for _, flag := range flags {
		s.channel.Publish(stream.EventRedFlag, map[string]interface{}{
			"severity": flag.Severity,
			"category": flag.Category,
			"message":  flag.Message,
		})
	}
	s.channel.Publish(stream.EventAnalysisComplete, map[string]interface{}{
		"completeness": s.session.CompletenessScore,
		"confidence":   s.session.ConfidenceScore,
		"redFlags":     len(s.session.RedFlags),
	})

	return fmt.Sprintf("completeness %d, confidence %d, %d new flags", s.session.CompletenessScore, s.session.ConfidenceScore, len(flags)), nil
}

// confidenceScore blends document extraction confidence with facility
// evidence: average file confidence, a bonus for registry-matched
// facilities, and a penalty when nothing was extractable at all.
func confidenceScore(sess *entity.IntakeSession) int {
	if len(sess.Files) == 0 {
		return 0
	}

	total := 0
	for _, f := range sess.Files {
		total += f.Confidence
	}
	score := total / len(sess.Files)

	for _, fac := range sess.Deal.Facilities {
		if fac.MatchConfidence > 0 {
			score += 5
		}
	}
	if !sess.Deal.Financials.HasAnchor() {
		score -= 20
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
