package clarify

import (
	"testing"

	"deal-intake-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	t.Run("empty record asks for deal name first", func(t *testing.T) {
		reqs := Generate(entity.NewExtractedDealData())
		assert.Len(t, reqs, 2)
		assert.Equal(t, FieldDealName, reqs[0].FieldPath)
		assert.Equal(t, 10, reqs[0].Priority)
		assert.Equal(t, FieldRevenue, reqs[1].FieldPath)
		assert.Equal(t, 9, reqs[1].Priority)
	})

	t.Run("no requests for a well-formed record", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		d.Facilities = []entity.ExtractedFacility{{Name: "Sunrise Manor", Confidence: 80}}
		d.Financials.Revenue = 1_000_000
		d.Financials.NOI = 150_000

		assert.Empty(t, Generate(d))
	})

	t.Run("out-of-band margin carries the benchmark", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		d.Facilities = []entity.ExtractedFacility{{Name: "Sunrise Manor", Confidence: 80}}
		d.Financials.Revenue = 1_000_000
		d.Financials.NOI = 500_000 // 50% margin

		reqs := Generate(d)
		assert.Len(t, reqs, 1)
		assert.Equal(t, entity.ClarificationOutOfRange, reqs[0].Type)
		assert.NotNil(t, reqs[0].Benchmark)
		assert.Equal(t, MarginBandMin, reqs[0].Benchmark.Min)
		assert.Equal(t, MarginBandMax, reqs[0].Benchmark.Max)
	})

	t.Run("low-confidence facility is questioned", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		d.Facilities = []entity.ExtractedFacility{
			{Name: "Sunrise Manor", Confidence: 40},
			{Name: "Oak Ridge Care", Confidence: 95},
		}
		d.Financials.Revenue = 1_000_000
		d.Financials.NOI = 150_000

		reqs := Generate(d)
		assert.Len(t, reqs, 1)
		assert.Equal(t, entity.ClarificationLowConfidence, reqs[0].Type)
		assert.Contains(t, reqs[0].FieldPath, "sunrise manor")
	})

	t.Run("requests come back sorted by priority descending", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		d.Facilities = nil // missing name, priority 10
		// no anchor, priority 9

		reqs := Generate(d)
		for i := 1; i < len(reqs); i++ {
			assert.GreaterOrEqual(t, reqs[i-1].Priority, reqs[i].Priority)
		}
	})
}

func TestApply(t *testing.T) {
	t.Run("empty answers apply nothing", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		reqs := Generate(d)

		applied := Apply(d, reqs, nil)
		assert.Equal(t, 0, applied)
		assert.Empty(t, d.SuggestedName)
	})

	t.Run("accept leaves the extracted value", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		d.Financials.Revenue = 1_000_000
		d.Financials.NOI = 500_000
		d.Facilities = []entity.ExtractedFacility{{Name: "Sunrise Manor", Confidence: 80}}
		reqs := Generate(d)

		applied := Apply(d, reqs, []entity.ClarificationAnswer{
			{RequestId: reqs[0].Id, Action: entity.AnswerAccept},
		})
		assert.Equal(t, 0, applied)
		assert.Equal(t, 500_000.0, d.Financials.NOI)
	})

	t.Run("override writes the deal name", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		reqs := Generate(d)

		applied := Apply(d, reqs, []entity.ClarificationAnswer{
			{RequestId: reqs[0].Id, Action: entity.AnswerOverride, Value: "Sunrise Portfolio"},
		})
		assert.Equal(t, 1, applied)
		assert.Equal(t, "Sunrise Portfolio", d.SuggestedName)
	})

	t.Run("unparseable numeric override is not applied", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		reqs := Generate(d) // reqs[1] is revenue

		applied := Apply(d, reqs, []entity.ClarificationAnswer{
			{RequestId: reqs[1].Id, Action: entity.AnswerOverride, Value: "about twelve million"},
		})
		assert.Equal(t, 0, applied)
		assert.Equal(t, 0.0, d.Financials.Revenue)
	})

	t.Run("facility override corrects the name and pins confidence", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		d.Financials.Revenue = 1_000_000
		d.Financials.NOI = 150_000
		d.Facilities = []entity.ExtractedFacility{{Name: "Sunrse Mnr", Confidence: 40}}
		reqs := Generate(d)
		assert.Len(t, reqs, 1)

		applied := Apply(d, reqs, []entity.ClarificationAnswer{
			{RequestId: reqs[0].Id, Action: entity.AnswerOverride, Value: "Sunrise Manor"},
		})
		assert.Equal(t, 1, applied)
		assert.Equal(t, "Sunrise Manor", d.Facilities[0].Name)
		assert.Equal(t, 100, d.Facilities[0].Confidence)
	})

	t.Run("answers for unknown requests are ignored", func(t *testing.T) {
		d := entity.NewExtractedDealData()
		reqs := Generate(d)

		applied := Apply(d, reqs, []entity.ClarificationAnswer{
			{Action: entity.AnswerOverride, Value: "whatever"},
		})
		assert.Equal(t, 0, applied)
	})
}
