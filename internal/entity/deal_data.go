package entity

import "strings"

// ExtractedFacility is one facility pulled out of the document set.
// Facilities are deduplicated by CCN when present, otherwise by normalized
// name; a merge keeps the union of fields and the highest confidence.
type ExtractedFacility struct {
	Name            string  `json:"name"`
	CCN             string  `json:"ccn,omitempty"`
	City            string  `json:"city,omitempty"`
	State           string  `json:"state,omitempty"`
	Beds            int     `json:"beds,omitempty"`
	Confidence      int     `json:"confidence"`
	CMSRating       int     `json:"cms_rating,omitempty"`
	SpecialFocus    bool    `json:"special_focus,omitempty"`
	MatchConfidence float64 `json:"match_confidence,omitempty"`
}

// MergeKey identifies a facility across documents: the certification number
// wins, otherwise the normalized name.
func (f ExtractedFacility) MergeKey() string {
	if f.CCN != "" {
		return "ccn:" + f.CCN
	}
	return "name:" + NormalizeFacilityName(f.Name)
}

// NormalizeFacilityName lowercases and collapses whitespace so that
// "Sunrise  Manor" and "sunrise manor" dedupe to the same facility.
func NormalizeFacilityName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// DealFinancials holds the aggregated dollar figures of the working record.
type DealFinancials struct {
	Revenue      float64 `json:"revenue,omitempty"`
	NOI          float64 `json:"noi,omitempty"`
	LaborCost    float64 `json:"labor_cost,omitempty"`
	AgencyLabor  float64 `json:"agency_labor,omitempty"`
	NursingLabor float64 `json:"nursing_labor,omitempty"`
	AskingPrice  float64 `json:"asking_price,omitempty"`
}

// HasAnchor reports whether any financial anchor figure was extracted at all.
func (f DealFinancials) HasAnchor() bool {
	return f.Revenue > 0 || f.NOI > 0 || f.AskingPrice > 0
}

// NOIMargin returns NOI/revenue and whether the ratio is computable.
func (f DealFinancials) NOIMargin() (float64, bool) {
	if f.Revenue <= 0 {
		return 0, false
	}
	return f.NOI / f.Revenue, true
}

// OperatingMetrics holds occupancy and payer mix shares (0..1).
type OperatingMetrics struct {
	Occupancy float64            `json:"occupancy,omitempty"`
	PayerMix  map[string]float64 `json:"payer_mix,omitempty"`
}

// ExtractedDealData is the working record of a session. Mutated by the
// Extract, Clarify and Assemble phases only.
type ExtractedDealData struct {
	SuggestedName string              `json:"suggested_name,omitempty"`
	AssetType     string              `json:"asset_type,omitempty"`
	Facilities    []ExtractedFacility `json:"facilities"`
	Financials    DealFinancials      `json:"financials"`
	Metrics       OperatingMetrics    `json:"metrics"`
}

func NewExtractedDealData() *ExtractedDealData {
	return &ExtractedDealData{
		Metrics: OperatingMetrics{PayerMix: map[string]float64{}},
	}
}

// MergeFacilities folds incoming facilities into the record. Merging is
// idempotent: an existing entry absorbs non-zero fields it is missing and
// keeps the maximum confidence seen for its key.
func (d *ExtractedDealData) MergeFacilities(incoming []ExtractedFacility) {
	index := make(map[string]int, len(d.Facilities))
	for i, f := range d.Facilities {
		index[f.MergeKey()] = i
	}
	for _, in := range incoming {
		if in.Name == "" && in.CCN == "" {
			continue
		}
		i, ok := index[in.MergeKey()]
		if !ok {
			d.Facilities = append(d.Facilities, in)
			index[in.MergeKey()] = len(d.Facilities) - 1
			continue
		}
		existing := &d.Facilities[i]
		if existing.CCN == "" {
			existing.CCN = in.CCN
		}
		if existing.City == "" {
			existing.City = in.City
		}
		if existing.State == "" {
			existing.State = in.State
		}
		if existing.Beds == 0 {
			existing.Beds = in.Beds
		}
		if in.Confidence > existing.Confidence {
			existing.Confidence = in.Confidence
		}
		if existing.CMSRating == 0 {
			existing.CMSRating = in.CMSRating
		}
		existing.SpecialFocus = existing.SpecialFocus || in.SpecialFocus
	}
}

// Clone returns a deep copy of the record. Later in-place edits (facility
// merges, clarification overrides) cannot reach the copy.
func (d *ExtractedDealData) Clone() *ExtractedDealData {
	if d == nil {
		return nil
	}
	out := *d
	out.Facilities = append([]ExtractedFacility(nil), d.Facilities...)
	if d.Metrics.PayerMix != nil {
		out.Metrics.PayerMix = make(map[string]float64, len(d.Metrics.PayerMix))
		for k, v := range d.Metrics.PayerMix {
			out.Metrics.PayerMix[k] = v
		}
	}
	return &out
}

// TotalBeds sums bed counts across facilities.
func (d *ExtractedDealData) TotalBeds() int {
	total := 0
	for _, f := range d.Facilities {
		total += f.Beds
	}
	return total
}
