package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeKey(t *testing.T) {
	withCCN := ExtractedFacility{Name: "Sunrise Manor", CCN: "675001"}
	assert.Equal(t, "ccn:675001", withCCN.MergeKey())

	byName := ExtractedFacility{Name: "  Sunrise   MANOR "}
	assert.Equal(t, "name:sunrise manor", byName.MergeKey())
}

func TestMergeFacilities(t *testing.T) {
	t.Run("merge is idempotent", func(t *testing.T) {
		d := NewExtractedDealData()
		in := []ExtractedFacility{{Name: "Sunrise Manor", CCN: "675001", Confidence: 70}}

		d.MergeFacilities(in)
		d.MergeFacilities(in)
		assert.Len(t, d.Facilities, 1)
	})

	t.Run("existing entry absorbs missing fields", func(t *testing.T) {
		d := NewExtractedDealData()
		d.MergeFacilities([]ExtractedFacility{{Name: "Sunrise Manor", CCN: "675001", Confidence: 70}})
		d.MergeFacilities([]ExtractedFacility{{CCN: "675001", Beds: 120, City: "Austin", State: "TX", Confidence: 55}})

		assert.Len(t, d.Facilities, 1)
		f := d.Facilities[0]
		assert.Equal(t, "Sunrise Manor", f.Name)
		assert.Equal(t, 120, f.Beds)
		assert.Equal(t, "Austin", f.City)
		assert.Equal(t, "TX", f.State)
		assert.Equal(t, 70, f.Confidence) // max wins
	})

	t.Run("higher incoming confidence wins", func(t *testing.T) {
		d := NewExtractedDealData()
		d.MergeFacilities([]ExtractedFacility{{Name: "Sunrise Manor", Confidence: 40}})
		d.MergeFacilities([]ExtractedFacility{{Name: "sunrise manor", Confidence: 85}})

		assert.Len(t, d.Facilities, 1)
		assert.Equal(t, 85, d.Facilities[0].Confidence)
	})

	t.Run("distinct keys stay separate", func(t *testing.T) {
		d := NewExtractedDealData()
		d.MergeFacilities([]ExtractedFacility{
			{Name: "Sunrise Manor", CCN: "675001"},
			{Name: "Oak Ridge Care", CCN: "675002"},
		})
		assert.Len(t, d.Facilities, 2)
	})

	t.Run("nameless and ccn-less entries are dropped", func(t *testing.T) {
		d := NewExtractedDealData()
		d.MergeFacilities([]ExtractedFacility{{Beds: 50}})
		assert.Empty(t, d.Facilities)
	})
}

func TestDealFinancials(t *testing.T) {
	t.Run("anchor requires any dollar figure", func(t *testing.T) {
		assert.False(t, DealFinancials{}.HasAnchor())
		assert.True(t, DealFinancials{Revenue: 1}.HasAnchor())
		assert.True(t, DealFinancials{NOI: 1}.HasAnchor())
		assert.True(t, DealFinancials{AskingPrice: 1}.HasAnchor())
	})

	t.Run("margin needs revenue", func(t *testing.T) {
		_, ok := DealFinancials{NOI: 100}.NOIMargin()
		assert.False(t, ok)

		margin, ok := DealFinancials{Revenue: 1000, NOI: 150}.NOIMargin()
		assert.True(t, ok)
		assert.InDelta(t, 0.15, margin, 1e-9)
	})
}

func TestTotalBeds(t *testing.T) {
	d := NewExtractedDealData()
	d.Facilities = []ExtractedFacility{{Name: "A", Beds: 120}, {Name: "B", Beds: 80}, {Name: "C"}}
	assert.Equal(t, 200, d.TotalBeds())
}
