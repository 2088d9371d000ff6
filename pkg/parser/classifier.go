package parser

import (
	"strings"

	"deal-intake-be/internal/entity"
)

// Classifier assigns a document type label from filename and text. The
// pipeline only depends on this contract; the keyword implementation below
// is the default collaborator.
type Classifier interface {
	Classify(filename, text string) string
}

type keywordRule struct {
	docType  string
	keywords []string
}

// Ordered: the first rule with a hit wins, so more specific document types
// come first.
var classificationRules = []keywordRule{
	{entity.DocCostReport, []string{"cost report", "cms-2540", "worksheet s-3"}},
	{entity.DocOfferingMemorandum, []string{"offering memorandum", "confidential offering", "investment summary"}},
	{entity.DocIncomeStatement, []string{"income statement", "profit and loss", "p&l", "trailing 12", "t-12", "t12", "net operating income"}},
	{entity.DocRentRoll, []string{"rent roll", "unit mix", "resident roster"}},
	{entity.DocCensusReport, []string{"census", "payer mix", "patient days", "occupancy report"}},
	{entity.DocPayrollReport, []string{"payroll", "staffing report", "ppd hours", "agency usage"}},
	{entity.DocFacilityLicense, []string{"facility license", "certificate of need", "certification number"}},
	{entity.DocAppraisal, []string{"appraisal", "appraised value"}},
	{entity.DocCapexSummary, []string{"capital expenditure", "capex"}},
}

// KeywordClassifier matches against a fixed keyword table, filename first
// then document text.
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

func (c *KeywordClassifier) Classify(filename, text string) string {
	name := strings.ToLower(filename)
	body := strings.ToLower(text)

	for _, rule := range classificationRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.docType
			}
		}
	}
	for _, rule := range classificationRules {
		for _, kw := range rule.keywords {
			if strings.Contains(body, kw) {
				return rule.docType
			}
		}
	}
	return entity.DocUnknown
}
