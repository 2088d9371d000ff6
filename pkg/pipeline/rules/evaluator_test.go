package rules

import (
	"testing"

	"deal-intake-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func fileOfType(docType string) *entity.ParsedFile {
	return &entity.ParsedFile{Filename: docType + ".txt", DocumentType: docType}
}

func TestCompleteness(t *testing.T) {
	t.Run("empty set scores zero with all documents missing", func(t *testing.T) {
		score, missing := Completeness(nil)
		assert.Equal(t, 0, score)
		assert.Len(t, missing, len(RequiredDocuments))
	})

	t.Run("two of seven rounds to 29", func(t *testing.T) {
		files := []*entity.ParsedFile{
			fileOfType(entity.DocIncomeStatement),
			fileOfType(entity.DocRentRoll),
		}
		score, missing := Completeness(files)
		assert.Equal(t, 29, score)
		assert.Len(t, missing, 5)
		assert.Contains(t, missing, "Offering Memorandum")
		assert.NotContains(t, missing, "Rent Roll")
	})

	t.Run("score is independent of file order", func(t *testing.T) {
		forward := []*entity.ParsedFile{
			fileOfType(entity.DocIncomeStatement),
			fileOfType(entity.DocRentRoll),
			fileOfType(entity.DocCensusReport),
		}
		backward := []*entity.ParsedFile{forward[2], forward[1], forward[0]}

		scoreA, _ := Completeness(forward)
		scoreB, _ := Completeness(backward)
		assert.Equal(t, scoreA, scoreB)
	})

	t.Run("duplicates and optional documents do not inflate the score", func(t *testing.T) {
		files := []*entity.ParsedFile{
			fileOfType(entity.DocIncomeStatement),
			fileOfType(entity.DocIncomeStatement),
			fileOfType(entity.DocAppraisal),
			fileOfType(entity.DocUnknown),
		}
		score, _ := Completeness(files)
		assert.Equal(t, 14, score) // 1 of 7
	})

	t.Run("full package scores 100", func(t *testing.T) {
		var files []*entity.ParsedFile
		for _, doc := range RequiredDocuments {
			files = append(files, fileOfType(doc))
		}
		score, missing := Completeness(files)
		assert.Equal(t, 100, score)
		assert.Empty(t, missing)
	})
}

func TestFinancialFlags(t *testing.T) {
	t.Run("silent when inputs are absent", func(t *testing.T) {
		flags := FinancialFlags(entity.NewExtractedDealData(), entity.PhaseAnalyze)
		assert.Empty(t, flags)
	})

	t.Run("high margin raises exactly one add-backs warning", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		d.Financials.Revenue = 1_000_000
		d.Financials.NOI = 300_000 // 30% margin

		flags := FinancialFlags(d, entity.PhaseAnalyze)
		assert.Len(t, flags, 1)
		assert.Equal(t, entity.SeverityWarning, flags[0].Severity)
		assert.Contains(t, flags[0].Message, "seller add-backs")
	})

	t.Run("margin below viability floor is critical", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		d.Financials.Revenue = 1_000_000
		d.Financials.NOI = 30_000 // 3% margin

		flags := FinancialFlags(d, entity.PhaseAnalyze)
		assert.Len(t, flags, 1)
		assert.Equal(t, entity.SeverityCritical, flags[0].Severity)
	})

	t.Run("rules trigger independently", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		d.Financials.Revenue = 1_000_000
		d.Financials.NOI = 150_000   // in band
		d.Financials.LaborCost = 300_000 // 30%, below floor
		d.Metrics.Occupancy = 0.70       // below floor
		d.Metrics.PayerMix["medicaid"] = 0.72

		flags := FinancialFlags(d, entity.PhaseAnalyze)
		assert.Len(t, flags, 3)
		categories := make([]string, 0, len(flags))
		for _, f := range flags {
			categories = append(categories, f.Category)
		}
		assert.ElementsMatch(t, []string{"labor_cost", "occupancy", "payer_mix"}, categories)
	})

	t.Run("agency labor above ceiling", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		d.Financials.NursingLabor = 500_000
		d.Financials.AgencyLabor = 100_000 // 20%

		flags := FinancialFlags(d, entity.PhaseAnalyze)
		assert.Len(t, flags, 1)
		assert.Equal(t, "agency_labor", flags[0].Category)
	})
}

func TestRegistryFlags(t *testing.T) {
	f := entity.ExtractedFacility{
		Name:         "Sunrise Manor",
		SpecialFocus: true,
		CMSRating:    2,
	}
	flags := RegistryFlags(f, entity.PhaseAssemble)
	assert.Len(t, flags, 2)
	for _, flag := range flags {
		assert.Equal(t, entity.SeverityCritical, flag.Severity)
	}

	clean := entity.ExtractedFacility{Name: "Sunrise Manor", CMSRating: 4}
	assert.Empty(t, RegistryFlags(clean, entity.PhaseAssemble))
}

func TestRecommend(t *testing.T) {
	critical := entity.NewRedFlag(entity.SeverityCritical, "quality_rating", "2-star", entity.PhaseAssemble)
	warning := entity.NewRedFlag(entity.SeverityWarning, "occupancy", "low", entity.PhaseAnalyze)

	tests := []struct {
		name       string
		flags      []entity.RedFlag
		confidence int
		want       entity.Recommendation
	}{
		{"three criticals force pass", []entity.RedFlag{critical, critical, critical}, 95, entity.RecommendPass},
		{"clean and confident pursues", []entity.RedFlag{warning}, 80, entity.RecommendPursue},
		{"confidence at threshold stays conditional", nil, 70, entity.RecommendConditional},
		{"one critical is conditional regardless of confidence", []entity.RedFlag{critical}, 95, entity.RecommendConditional},
		{"low confidence is conditional", nil, 40, entity.RecommendConditional},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recommend(tt.flags, tt.confidence))
		})
	}
}
