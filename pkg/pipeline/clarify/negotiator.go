// Package clarify generates prioritized clarification requests from the
// working record and applies user answers back onto it.
package clarify

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"deal-intake-be/internal/entity"

	"github.com/google/uuid"
)

// Benchmark band for NOI margin; values outside it raise an out_of_range
// request carrying the band for display.
const (
	MarginBandMin = 0.02
	MarginBandMax = 0.30
)

// ConfidenceFloor is the facility extraction confidence below which a
// low_confidence request is raised.
const ConfidenceFloor = 50

// Field paths understood by Apply. A fixed mapping, not a generic
// reflective write.
const (
	FieldDealName    = "dealName"
	FieldRevenue     = "financials.revenue"
	FieldNOI         = "financials.noi"
	FieldFacilityKey = "facilities."
)

// Generate scans the working record and returns requests sorted descending
// by priority.
func Generate(d *entity.ExtractedDealData) []entity.ClarificationRequest {
	var reqs []entity.ClarificationRequest

	if len(d.Facilities) == 0 {
		reqs = append(reqs, entity.ClarificationRequest{
			Id:        uuid.New(),
			FieldPath: FieldDealName,
			Label:     "Deal Name",
			Type:      entity.ClarificationMissing,
			Reason:    "no facility could be identified in the submitted documents; a deal name is required to proceed",
			Priority:  10,
		})
	}

	if !d.Financials.HasAnchor() {
		reqs = append(reqs, entity.ClarificationRequest{
			Id:        uuid.New(),
			FieldPath: FieldRevenue,
			Label:     "Annual Revenue",
			Type:      entity.ClarificationMissing,
			Reason:    "no revenue, NOI or asking price was found in any document",
			Priority:  9,
		})
	}

	if margin, ok := d.Financials.NOIMargin(); ok && (margin < MarginBandMin || margin > MarginBandMax) {
		reqs = append(reqs, entity.ClarificationRequest{
			Id:             uuid.New(),
			FieldPath:      FieldNOI,
			Label:          "Net Operating Income",
			ExtractedValue: fmt.Sprintf("%.0f", d.Financials.NOI),
			Benchmark:      &entity.BenchmarkRange{Min: MarginBandMin, Max: MarginBandMax},
			Type:           entity.ClarificationOutOfRange,
			Reason:         fmt.Sprintf("NOI margin %.1f%% falls outside the expected %.0f%%-%.0f%% band", margin*100, MarginBandMin*100, MarginBandMax*100),
			Priority:       8,
		})
	}

	for _, f := range d.Facilities {
		if f.Confidence < ConfidenceFloor {
			reqs = append(reqs, entity.ClarificationRequest{
				Id:             uuid.New(),
				FieldPath:      FieldFacilityKey + f.MergeKey(),
				Label:          fmt.Sprintf("Facility: %s", f.Name),
				ExtractedValue: f.Name,
				Type:           entity.ClarificationLowConfidence,
				Reason:         fmt.Sprintf("facility was extracted with confidence %d, below the floor of %d", f.Confidence, ConfidenceFloor),
				Priority:       7,
			})
		}
	}

	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].Priority > reqs[j].Priority
	})
	return reqs
}

// Apply mutates the record with the supplied answers. Requests with no
// answer are treated as skip, so an empty answer list is always valid.
// Returns the number of override writes applied.
func Apply(d *entity.ExtractedDealData, requests []entity.ClarificationRequest, answers []entity.ClarificationAnswer) int {
	byId := make(map[uuid.UUID]entity.ClarificationAnswer, len(answers))
	for _, a := range answers {
		byId[a.RequestId] = a
	}

	applied := 0
	for _, req := range requests {
		answer, ok := byId[req.Id]
		if !ok || answer.Action != entity.AnswerOverride {
			// skip and accept leave the field untouched.
			continue
		}
		if applyOverride(d, req.FieldPath, answer.Value) {
			applied++
		}
	}
	return applied
}

func applyOverride(d *entity.ExtractedDealData, fieldPath, value string) bool {
	switch {
	case fieldPath == FieldDealName:
		d.SuggestedName = value
		return true

	case fieldPath == FieldRevenue:
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			d.Financials.Revenue = v
			return true
		}

	case fieldPath == FieldNOI:
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			d.Financials.NOI = v
			return true
		}

	case strings.HasPrefix(fieldPath, FieldFacilityKey):
		key := strings.TrimPrefix(fieldPath, FieldFacilityKey)
		for i := range d.Facilities {
			if d.Facilities[i].MergeKey() == key {
				// A human-corrected name is authoritative.
				d.Facilities[i].Name = value
				d.Facilities[i].Confidence = 100
				return true
			}
		}
	}
	return false
}
