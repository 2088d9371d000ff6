package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"deal-intake-be/internal/entity"
	"deal-intake-be/pkg/llm"
	"deal-intake-be/pkg/pipeline/rules"
)

// runSynthesize produces the final structured synthesis plus a narrative.
// The narrative prefers the AI summarizer but degrades to a rule-based
// rendering; an unreachable model never blocks completion.
func (s *Sequencer) runSynthesize(ctx context.Context) (string, error) {
	var synth *entity.Synthesis
	s.mutate(func(sess *entity.IntakeSession) {
		synth = buildSynthesis(sess)
		sess.Synthesis = synth
	})

	narrative := s.narrative(ctx, synth)
	s.mutate(func(sess *entity.IntakeSession) {
		sess.Synthesis.Narrative = narrative
	})

	return fmt.Sprintf("recommendation: %s", synth.Recommendation), nil
}

func buildSynthesis(sess *entity.IntakeSession) *entity.Synthesis {
	name := sess.Deal.SuggestedName
	if name == "" {
		name = "Unnamed Deal"
	}

	var strengths, concerns, nextSteps []string

	if sess.CompletenessScore >= 70 {
		strengths = append(strengths, fmt.Sprintf("document package is %d%% complete", sess.CompletenessScore))
	}
	if margin, ok := sess.Deal.Financials.NOIMargin(); ok && margin >= rules.NOIMarginFloor && margin <= rules.NOIMarginHigh {
		strengths = append(strengths, fmt.Sprintf("NOI margin of %.0f%% sits inside the expected band", margin*100))
	}
	if sess.Deal.Metrics.Occupancy >= 0.90 {
		strengths = append(strengths, fmt.Sprintf("occupancy of %.0f%% is strong", sess.Deal.Metrics.Occupancy*100))
	}

	for _, flag := range sess.RedFlags {
		concerns = append(concerns, flag.Message)
	}

	for _, missing := range sess.MissingDocuments {
		nextSteps = append(nextSteps, fmt.Sprintf("request %s from the seller", missing))
	}
	if len(sess.UnansweredRequests()) > 0 {
		nextSteps = append(nextSteps, "revisit skipped clarification items before underwriting")
	}

	recommendation := rules.Recommend(sess.RedFlags, sess.ConfidenceScore)

	thesis := fmt.Sprintf("%s: %d-facility %s opportunity", name, len(sess.Deal.Facilities), assetLabel(sess.Deal.AssetType))
	if margin, ok := sess.Deal.Financials.NOIMargin(); ok {
		thesis += fmt.Sprintf(" with revenue of $%.0f and a %.0f%% NOI margin", sess.Deal.Financials.Revenue, margin*100)
	}
	thesis += fmt.Sprintf("; recommendation is %s", recommendation)

	return &entity.Synthesis{
		DealName:         name,
		Recommendation:   recommendation,
		ConfidenceScore:  sess.ConfidenceScore,
		InvestmentThesis: thesis,
		Strengths:        strengths,
		Concerns:         concerns,
		NextSteps:        nextSteps,
	}
}

func assetLabel(assetType string) string {
	if assetType == "" {
		return "senior housing"
	}
	return strings.ReplaceAll(assetType, "_", " ")
}

func (s *Sequencer) narrative(ctx context.Context, synth *entity.Synthesis) string {
	if s.collab.Summarizer != nil {
		inputs, err := json.Marshal(synth)
		if err == nil {
			prompt := fmt.Sprintf(
				"Write a concise investment committee summary (one paragraph) for this deal intake result. Keep every figure as given.\n\n%s",
				string(inputs),
			)
			out, err := s.collab.Summarizer.Generate(ctx, prompt, llm.WithTemperature(0.3))
			if err == nil && strings.TrimSpace(out) != "" {
				return strings.TrimSpace(out)
			}
			s.logger.Warn("Synthesize", "AI summarizer unavailable, using rule-based narrative", map[string]interface{}{
				"session_id": s.session.Id,
			})
		}
	}
	return ruleBasedNarrative(synth)
}

func ruleBasedNarrative(synth *entity.Synthesis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s. ", synth.InvestmentThesis)
	if len(synth.Strengths) > 0 {
		fmt.Fprintf(&b, "Strengths: %s. ", strings.Join(synth.Strengths, "; "))
	}
	if len(synth.Concerns) > 0 {
		fmt.Fprintf(&b, "Concerns: %s. ", strings.Join(synth.Concerns, "; "))
	}
	if len(synth.NextSteps) > 0 {
		fmt.Fprintf(&b, "Next steps: %s.", strings.Join(synth.NextSteps, "; "))
	}
	return strings.TrimSpace(b.String())
}
