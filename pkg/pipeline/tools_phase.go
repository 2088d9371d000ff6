package pipeline

import (
	"context"
	"fmt"

	"deal-intake-be/internal/entity"
	"deal-intake-be/pkg/stream"
	"deal-intake-be/pkg/tools"
)

// runTools executes the financial calculators as a concurrent batch.
// tool_executed events arrive in completion order; one failed tool never
// aborts the others.
func (s *Sequencer) runTools(ctx context.Context) (string, error) {
	if s.collab.Tools == nil {
		return "no tool runner configured", nil
	}

	var in tools.Inputs
	s.mu.Lock()
	in = tools.Inputs{
		Financials: s.session.Deal.Financials,
		Metrics:    s.session.Deal.Metrics,
		TotalBeds:  s.session.Deal.TotalBeds(),
	}
	s.mu.Unlock()

	results := s.collab.Tools.Run(ctx, in, func(res entity.ToolResult) {
		s.channel.Publish(stream.EventToolExecuted, map[string]interface{}{
			"name":   res.Name,
			"status": res.Status,
			"value":  res.Value,
			"unit":   res.Unit,
			"reason": res.Reason,
		})
	})

	succeeded := 0
	for _, r := range results {
		if r.Status == entity.ToolSuccess {
			succeeded++
		}
	}
	s.mutate(func(sess *entity.IntakeSession) {
		sess.ToolResults = append(sess.ToolResults, results...)
	})

	return fmt.Sprintf("%d of %d tools succeeded", succeeded, len(results)), nil
}
