package parser

import (
	"testing"

	"deal-intake-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func parsedFile(name, text string) *entity.ParsedFile {
	return &entity.ParsedFile{Filename: name, Text: text}
}

func TestExtractFactsFinancials(t *testing.T) {
	deal := entity.NewExtractedDealData()
	file := parsedFile("income.txt", `Sunrise Manor Operating Statement
Total Revenue: $1,200,000
Net Operating Income: $180,000
Total Labor Expense: 620,000
Agency Labor: $45,000
Asking Price: $2,400,000
Occupancy: 88%
`)

	facts, _ := ExtractFacts(file, deal)

	assert.Equal(t, 1_200_000.0, deal.Financials.Revenue)
	assert.Equal(t, 180_000.0, deal.Financials.NOI)
	assert.Equal(t, 45_000.0, deal.Financials.AgencyLabor)
	assert.Equal(t, 2_400_000.0, deal.Financials.AskingPrice)
	assert.InDelta(t, 0.88, deal.Metrics.Occupancy, 1e-9)
	assert.NotEmpty(t, facts)
}

func TestExtractFactsFirstWriterWins(t *testing.T) {
	deal := entity.NewExtractedDealData()
	ExtractFacts(parsedFile("a.txt", "Total Revenue: $1,000,000"), deal)
	ExtractFacts(parsedFile("b.txt", "Total Revenue: $9,999,999"), deal)

	assert.Equal(t, 1_000_000.0, deal.Financials.Revenue)
}

func TestExtractFactsPayerMix(t *testing.T) {
	deal := entity.NewExtractedDealData()
	ExtractFacts(parsedFile("census.txt", `Payer Mix
Medicaid: 62%
Medicare: 18%
Private Pay: 20%
`), deal)

	assert.InDelta(t, 0.62, deal.Metrics.PayerMix["medicaid"], 1e-9)
	assert.InDelta(t, 0.18, deal.Metrics.PayerMix["medicare"], 1e-9)
	assert.InDelta(t, 0.20, deal.Metrics.PayerMix["private_pay"], 1e-9)
}

func TestExtractFactsNameAndAssetType(t *testing.T) {
	deal := entity.NewExtractedDealData()
	facts, _ := ExtractFacts(parsedFile("om.txt", `Portfolio Name: Sunrise Collection
A three-building skilled nursing portfolio in central Texas.
`), deal)

	assert.Equal(t, "Sunrise Collection", deal.SuggestedName)
	assert.Equal(t, "skilled_nursing", deal.AssetType)
	assert.Len(t, facts, 2)
}

func TestExtractFacilities(t *testing.T) {
	t.Run("full line scores high", func(t *testing.T) {
		deal := entity.NewExtractedDealData()
		_, facilities := ExtractFacts(parsedFile("license.txt",
			"Facility: Sunrise Manor (CCN: 675001), 120 beds, Austin, TX\n"), deal)

		assert.Len(t, facilities, 1)
		f := facilities[0]
		assert.Equal(t, "Sunrise Manor", f.Name)
		assert.Equal(t, "675001", f.CCN)
		assert.Equal(t, 120, f.Beds)
		assert.Equal(t, "Austin", f.City)
		assert.Equal(t, "TX", f.State)
		assert.Equal(t, 95, f.Confidence)
	})

	t.Run("bare name scores below the clarification floor", func(t *testing.T) {
		deal := entity.NewExtractedDealData()
		_, facilities := ExtractFacts(parsedFile("notes.txt", "Facility: Oak Ridge Care\n"), deal)

		assert.Len(t, facilities, 1)
		assert.Equal(t, 40, facilities[0].Confidence)
	})

	t.Run("name plus ccn", func(t *testing.T) {
		deal := entity.NewExtractedDealData()
		_, facilities := ExtractFacts(parsedFile("notes.txt",
			"Facility: Maple Grove (CCN: 675002)\n"), deal)

		assert.Len(t, facilities, 1)
		assert.Equal(t, 70, facilities[0].Confidence)
	})

	t.Run("multiple facility lines", func(t *testing.T) {
		deal := entity.NewExtractedDealData()
		_, facilities := ExtractFacts(parsedFile("license.txt",
			"Facility: Sunrise Manor (CCN: 675001), 120 beds, Austin, TX\nFacility: Oak Ridge Care, 80 beds\n"), deal)

		assert.Len(t, facilities, 2)
	})
}
