package parser

import (
	"context"
	"fmt"
	"strings"

	"deal-intake-be/internal/entity"
	"deal-intake-be/pkg/llm"
)

// ContentExtractor produces the per-document summary, key findings and
// confidence score. The default implementation asks the configured LLM and
// falls back to a rule-based summary when no provider is reachable, so a
// missing model never blocks ingestion.
type ContentExtractor interface {
	Extract(ctx context.Context, file *entity.ParsedFile) (summary string, findings []string, confidence int, err error)
}

type contentExtractor struct {
	provider llm.LLMProvider
}

func NewContentExtractor(provider llm.LLMProvider) ContentExtractor {
	return &contentExtractor{provider: provider}
}

func (e *contentExtractor) Extract(ctx context.Context, file *entity.ParsedFile) (string, []string, int, error) {
	findings := keyFindings(file)
	confidence := documentConfidence(file, findings)

	if e.provider != nil {
		prompt := fmt.Sprintf(
			"Summarize this %s from a senior-housing acquisition package in two sentences. Focus on figures a deal analyst cares about.\n\n%s",
			strings.ReplaceAll(file.DocumentType, "_", " "),
			truncate(file.Text, 4000),
		)
		summary, err := e.provider.Generate(ctx, prompt, llm.WithTemperature(0.2))
		if err == nil && strings.TrimSpace(summary) != "" {
			return strings.TrimSpace(summary), findings, confidence, nil
		}
	}

	return ruleBasedSummary(file, findings), findings, confidence, nil
}

func ruleBasedSummary(file *entity.ParsedFile, findings []string) string {
	label := strings.ReplaceAll(file.DocumentType, "_", " ")
	if len(findings) == 0 {
		return fmt.Sprintf("%s (%d bytes), no key figures identified", label, file.Size)
	}
	return fmt.Sprintf("%s: %s", label, strings.Join(findings, "; "))
}

func keyFindings(file *entity.ParsedFile) []string {
	var findings []string
	probe := entity.NewExtractedDealData()
	facts, facilities := ExtractFacts(&entity.ParsedFile{Filename: file.Filename, Text: file.Text}, probe)
	for _, f := range facts {
		findings = append(findings, fmt.Sprintf("%s = %s", f.Field, f.Value))
	}
	for _, fac := range facilities {
		findings = append(findings, fmt.Sprintf("facility %s", fac.Name))
	}
	return findings
}

// documentConfidence scores how well a document was understood: classified
// type, extractable text and recognized figures each contribute.
func documentConfidence(file *entity.ParsedFile, findings []string) int {
	if file.Text == "" {
		return 0
	}
	score := 30
	if file.DocumentType != entity.DocUnknown {
		score += 30
	}
	score += 10 * len(findings)
	if score > 95 {
		score = 95
	}
	return score
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
