package pipeline

import (
	"context"
	"fmt"

	"deal-intake-be/internal/entity"
	"deal-intake-be/pkg/pipeline/rules"
	"deal-intake-be/pkg/stream"
)

// runAssemble enriches facilities against the external registry, folds
// registry signals into critical flags, and writes the deal record. Both
// the registry and the writer are degradable collaborators: an unreachable
// registry or a failed write is logged and the run proceeds.
func (s *Sequencer) runAssemble(ctx context.Context) (string, error) {
	matched := 0
	if s.collab.Matcher != nil {
		for i := range s.session.Deal.Facilities {
			if s.matchFacility(ctx, i) {
				matched++
			}
		}
	}

	if s.collab.Writer != nil {
		dealId, err := s.collab.Writer.CreateDeal(ctx, s.session)
		if err != nil {
			s.logger.Warn("Assemble", "Deal record write failed, continuing without reference", map[string]interface{}{
				"session_id": s.session.Id,
				"error":      err.Error(),
			})
		} else {
			s.mutate(func(sess *entity.IntakeSession) {
				sess.DealId = &dealId
			})
			s.channel.Publish(stream.EventDealCreated, map[string]interface{}{
				"dealId": dealId,
				"name":   s.session.Deal.SuggestedName,
			})
		}
	}

	return fmt.Sprintf("%d of %d facilities matched in registry", matched, len(s.session.Deal.Facilities)), nil
}

func (s *Sequencer) matchFacility(ctx context.Context, i int) bool {
	fac := s.session.Deal.Facilities[i]

	match, err := s.collab.Matcher.Match(ctx, fac.Name, fac.City, fac.State, fac.Beds)
	if err != nil {
		s.logger.Warn("Assemble", "Registry lookup unavailable", map[string]interface{}{
			"facility": fac.Name,
			"error":    err.Error(),
		})
		return false
	}
	if match == nil {
		return false
	}

	var flags []entity.RedFlag
	s.mutate(func(sess *entity.IntakeSession) {
		f := &sess.Deal.Facilities[i]
		if f.CCN == "" {
			f.CCN = match.CCN
		}
		if f.Beds == 0 {
			f.Beds = match.Beds
		}
		if f.City == "" {
			f.City = match.City
		}
		if f.State == "" {
			f.State = match.State
		}
		f.CMSRating = match.Rating
		f.SpecialFocus = match.SpecialFocus
		f.MatchConfidence = match.Confidence

		flags = rules.RegistryFlags(*f, entity.PhaseAssemble)
		sess.AddRedFlags(flags...)
	})

	s.channel.Publish(stream.EventCMSMatched, map[string]interface{}{
		"facility":   fac.Name,
		"ccn":        match.CCN,
		"rating":     match.Rating,
		"confidence": match.Confidence,
	})
	for _, flag := range flags {
		s.channel.Publish(stream.EventRedFlag, map[string]interface{}{
			"severity": flag.Severity,
			"category": flag.Category,
			"message":  flag.Message,
		})
	}
	return true
}
