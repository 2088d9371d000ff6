package pipeline

import (
	"context"
	"fmt"

	"deal-intake-be/internal/entity"
	"deal-intake-be/pkg/parser"
	"deal-intake-be/pkg/stream"
)

// runExtract folds field values and facility mentions from every parsed
// file into the working record. Files that failed ingestion are skipped.
func (s *Sequencer) runExtract(ctx context.Context) (string, error) {
	factCount := 0
	before := 0
	s.mu.Lock()
	before = len(s.session.Deal.Facilities)
	s.mu.Unlock()

	for _, file := range s.session.Files {
		if file.Text == "" {
			continue
		}

		var facts []parser.Fact
		var facilities []entity.ExtractedFacility
		s.mutate(func(sess *entity.IntakeSession) {
			facts, facilities = parser.ExtractFacts(file, sess.Deal)
			sess.Deal.MergeFacilities(facilities)
		})

		for _, fact := range facts {
			s.channel.Publish(stream.EventFieldExtracted, map[string]interface{}{
				"field": fact.Field,
				"value": fact.Value,
				"file":  fact.File,
			})
		}
		for _, fac := range facilities {
			s.channel.Publish(stream.EventFacilityDetected, map[string]interface{}{
				"name":       fac.Name,
				"ccn":        fac.CCN,
				"beds":       fac.Beds,
				"confidence": fac.Confidence,
			})
		}
		factCount += len(facts)
	}

	// A deal with facilities but no explicit name borrows the first
	// facility's name as a suggestion.
	s.mutate(func(sess *entity.IntakeSession) {
		if sess.Deal.SuggestedName == "" && len(sess.Deal.Facilities) > 0 {
			name := sess.Deal.Facilities[0].Name
			if len(sess.Deal.Facilities) > 1 {
				name += " Portfolio"
			}
			sess.Deal.SuggestedName = name
		}
	})

	added := len(s.session.Deal.Facilities) - before
	return fmt.Sprintf("extracted %d fields, %d facilities", factCount, added), nil
}
