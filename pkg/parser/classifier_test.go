package parser

import (
	"testing"

	"deal-intake-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewKeywordClassifier()

	tests := []struct {
		name     string
		filename string
		text     string
		want     string
	}{
		{"filename match", "Offering Memorandum - Final.pdf", "", entity.DocOfferingMemorandum},
		{"body match when filename is opaque", "scan_001.txt", "Net Operating Income: $180,000", entity.DocIncomeStatement},
		{"underscored filename falls through to body", "rent_roll.csv", "unit mix summary", entity.DocRentRoll},
		{"census keywords", "report.txt", "Payer Mix\nMedicaid: 62%", entity.DocCensusReport},
		{"payroll keywords", "staffing report Q2.xlsx", "", entity.DocPayrollReport},
		{"nothing recognizable", "notes.txt", "lunch meeting agenda", entity.DocUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.filename, tt.text))
		})
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	c := NewKeywordClassifier()
	// both cost report and income statement keywords present; the more
	// specific document type is listed first
	got := c.Classify("doc.txt", "Medicare Cost Report with attached income statement")
	assert.Equal(t, entity.DocCostReport, got)
}
