package parser

import (
	"regexp"
	"strconv"
	"strings"

	"deal-intake-be/internal/entity"
)

// Fact is one field value pulled out of a document, reported on the event
// stream as field_extracted.
type Fact struct {
	Field string `json:"field"`
	Value string `json:"value"`
	File  string `json:"file"`
}

var (
	reRevenue     = regexp.MustCompile(`(?i)(?:total\s+)?revenue[:\s]+\$?\s*([\d,]+(?:\.\d+)?)`)
	reNOI         = regexp.MustCompile(`(?i)(?:net\s+operating\s+income|noi)[:\s]+\$?\s*([\d,]+(?:\.\d+)?)`)
	reLabor       = regexp.MustCompile(`(?i)(?:total\s+)?labor(?:\s+cost)?s?[:\s]+\$?\s*([\d,]+(?:\.\d+)?)`)
	reAgencyLabor = regexp.MustCompile(`(?i)agency\s+(?:labor|staffing)[:\s]+\$?\s*([\d,]+(?:\.\d+)?)`)
	reNursing     = regexp.MustCompile(`(?i)nursing\s+labor[:\s]+\$?\s*([\d,]+(?:\.\d+)?)`)
	reAsking      = regexp.MustCompile(`(?i)asking\s+price[:\s]+\$?\s*([\d,]+(?:\.\d+)?)`)
	reOccupancy   = regexp.MustCompile(`(?i)occupancy[:\s]+([\d.]+)\s*%`)
	rePayerMix    = regexp.MustCompile(`(?i)(medicaid|medicare|private\s+pay|managed\s+care)[:\s]+([\d.]+)\s*%`)
	reDealName    = regexp.MustCompile(`(?i)(?:portfolio|deal|project)\s+name[:\s]+([^\n]+)`)
	reFacility    = regexp.MustCompile(`(?im)^facility[:\s]+([^,(\n]+?)(?:\s*\(ccn[:\s#]*(\d{6})\))?(?:,\s*(\d+)\s*beds)?(?:,\s*([A-Za-z .'-]+),\s*([A-Z]{2}))?\s*$`)
)

var assetTypeKeywords = []struct {
	keyword   string
	assetType string
}{
	{"skilled nursing", "skilled_nursing"},
	{"snf", "skilled_nursing"},
	{"assisted living", "assisted_living"},
	{"memory care", "memory_care"},
	{"independent living", "independent_living"},
}

// ExtractFacts scans one parsed file for financial figures, operating
// metrics and facility mentions and folds them into the working record.
// A later document never overwrites a figure an earlier one already set;
// facility mentions go through the dedup merge.
func ExtractFacts(file *entity.ParsedFile, deal *entity.ExtractedDealData) ([]Fact, []entity.ExtractedFacility) {
	var facts []Fact
	text := file.Text

	grab := func(re *regexp.Regexp, field string, dst *float64) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			return
		}
		if *dst == 0 {
			*dst = v
		}
		facts = append(facts, Fact{Field: field, Value: m[1], File: file.Filename})
	}

	grab(reRevenue, "financials.revenue", &deal.Financials.Revenue)
	grab(reNOI, "financials.noi", &deal.Financials.NOI)
	grab(reAgencyLabor, "financials.agency_labor", &deal.Financials.AgencyLabor)
	grab(reNursing, "financials.nursing_labor", &deal.Financials.NursingLabor)
	grab(reAsking, "financials.asking_price", &deal.Financials.AskingPrice)

	// Labor after agency/nursing so the generic pattern does not swallow
	// their more specific lines on single-line documents.
	grab(reLabor, "financials.labor_cost", &deal.Financials.LaborCost)

	if m := reOccupancy.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && deal.Metrics.Occupancy == 0 {
			deal.Metrics.Occupancy = v / 100
			facts = append(facts, Fact{Field: "metrics.occupancy", Value: m[1] + "%", File: file.Filename})
		}
	}

	for _, m := range rePayerMix.FindAllStringSubmatch(text, -1) {
		payer := strings.Join(strings.Fields(strings.ToLower(m[1])), "_")
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			if _, exists := deal.Metrics.PayerMix[payer]; !exists {
				deal.Metrics.PayerMix[payer] = v / 100
				facts = append(facts, Fact{Field: "metrics.payer_mix." + payer, Value: m[2] + "%", File: file.Filename})
			}
		}
	}

	if m := reDealName.FindStringSubmatch(text); m != nil && deal.SuggestedName == "" {
		deal.SuggestedName = strings.TrimSpace(m[1])
		facts = append(facts, Fact{Field: "dealName", Value: deal.SuggestedName, File: file.Filename})
	}

	if deal.AssetType == "" {
		lower := strings.ToLower(text)
		for _, at := range assetTypeKeywords {
			if strings.Contains(lower, at.keyword) {
				deal.AssetType = at.assetType
				facts = append(facts, Fact{Field: "assetType", Value: at.assetType, File: file.Filename})
				break
			}
		}
	}

	facilities := extractFacilities(file)
	return facts, facilities
}

func extractFacilities(file *entity.ParsedFile) []entity.ExtractedFacility {
	var out []entity.ExtractedFacility
	for _, m := range reFacility.FindAllStringSubmatch(file.Text, -1) {
		f := entity.ExtractedFacility{
			Name:       strings.TrimSpace(m[1]),
			CCN:        m[2],
			Confidence: facilityConfidence(m),
		}
		if m[3] != "" {
			f.Beds, _ = strconv.Atoi(m[3])
		}
		f.City = strings.TrimSpace(m[4])
		f.State = m[5]
		if f.Name != "" {
			out = append(out, f)
		}
	}
	return out
}

// Confidence grows with how much of the facility line was present: a bare
// name scores below the clarification floor, a full line with CCN and
// location scores high.
func facilityConfidence(m []string) int {
	score := 40
	if m[2] != "" {
		score += 30 // CCN
	}
	if m[3] != "" {
		score += 10 // beds
	}
	if m[5] != "" {
		score += 15 // location
	}
	return score
}
