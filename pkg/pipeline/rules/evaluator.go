// Package rules implements the stateless completeness and red-flag rule
// engine. Everything here is a pure function of the current file set and
// working record; no external calls.
package rules

import (
	"fmt"
	"math"

	"deal-intake-be/internal/entity"
)

// RequiredDocuments is the fixed table of document types a complete deal
// package must contain. The completeness score is the fraction of these
// present among the submitted files.
var RequiredDocuments = []string{
	entity.DocOfferingMemorandum,
	entity.DocIncomeStatement,
	entity.DocRentRoll,
	entity.DocCensusReport,
	entity.DocPayrollReport,
	entity.DocFacilityLicense,
	entity.DocCostReport,
}

// OptionalDocuments improve extraction quality but do not affect the score.
var OptionalDocuments = []string{
	entity.DocAppraisal,
	entity.DocCapexSummary,
}

// DocumentLabels maps type tags to the labels shown in missing-document
// lists and clarification prompts.
var DocumentLabels = map[string]string{
	entity.DocOfferingMemorandum: "Offering Memorandum",
	entity.DocIncomeStatement:    "Trailing-12 Income Statement",
	entity.DocRentRoll:           "Rent Roll",
	entity.DocCensusReport:       "Census / Payer Mix Report",
	entity.DocPayrollReport:      "Payroll Report",
	entity.DocFacilityLicense:    "Facility License",
	entity.DocCostReport:         "Medicare Cost Report",
	entity.DocAppraisal:          "Appraisal",
	entity.DocCapexSummary:       "CapEx Summary",
}

// Completeness scores the file set against the required-document table and
// returns the missing labels. Always recomputed from the current set.
func Completeness(files []*entity.ParsedFile) (int, []string) {
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f.DocumentType] = true
	}

	found := 0
	var missing []string
	for _, doc := range RequiredDocuments {
		if present[doc] {
			found++
		} else {
			missing = append(missing, DocumentLabels[doc])
		}
	}

	score := int(math.Round(float64(found) / float64(len(RequiredDocuments)) * 100))
	return score, missing
}

// Benchmark thresholds for the financial red-flag rules. Ratios, not
// percentages.
const (
	NOIMarginHigh    = 0.25
	NOIMarginFloor   = 0.05
	LaborRatioFloor  = 0.45
	AgencyRatioCeil  = 0.15
	OccupancyFloor   = 0.75
	MedicaidShareCap = 0.60
)

// FinancialFlags runs the threshold checks over the working record. Each
// rule triggers independently; rules whose inputs are absent stay silent.
// Evaluation is additive: callers append the returned flags, earlier flags
// are never recomputed or removed.
func FinancialFlags(d *entity.ExtractedDealData, phase entity.Phase) []entity.RedFlag {
	var flags []entity.RedFlag

	if margin, ok := d.Financials.NOIMargin(); ok {
		if margin > NOIMarginHigh {
			flags = append(flags, entity.NewRedFlag(entity.SeverityWarning, "noi_margin",
				fmt.Sprintf("NOI margin %.0f%% is above the %.0f%% benchmark: possible seller add-backs", margin*100, NOIMarginHigh*100),
				phase))
		} else if margin < NOIMarginFloor {
			flags = append(flags, entity.NewRedFlag(entity.SeverityCritical, "noi_margin",
				fmt.Sprintf("NOI margin %.0f%% is below the %.0f%% viability floor", margin*100, NOIMarginFloor*100),
				phase))
		}
	}

	if d.Financials.Revenue > 0 && d.Financials.LaborCost > 0 {
		ratio := d.Financials.LaborCost / d.Financials.Revenue
		if ratio < LaborRatioFloor {
			flags = append(flags, entity.NewRedFlag(entity.SeverityWarning, "labor_cost",
				fmt.Sprintf("labor cost is %.0f%% of revenue, below the %.0f%% norm: possible understaffing", ratio*100, LaborRatioFloor*100),
				phase))
		}
	}

	if d.Financials.NursingLabor > 0 && d.Financials.AgencyLabor > 0 {
		ratio := d.Financials.AgencyLabor / d.Financials.NursingLabor
		if ratio > AgencyRatioCeil {
			flags = append(flags, entity.NewRedFlag(entity.SeverityWarning, "agency_labor",
				fmt.Sprintf("agency labor is %.0f%% of nursing labor, above the %.0f%% ceiling", ratio*100, AgencyRatioCeil*100),
				phase))
		}
	}

	if d.Metrics.Occupancy > 0 && d.Metrics.Occupancy < OccupancyFloor {
		flags = append(flags, entity.NewRedFlag(entity.SeverityWarning, "occupancy",
			fmt.Sprintf("occupancy %.0f%% is below the %.0f%% floor", d.Metrics.Occupancy*100, OccupancyFloor*100),
			phase))
	}

	if share, ok := d.Metrics.PayerMix["medicaid"]; ok && share > MedicaidShareCap {
		flags = append(flags, entity.NewRedFlag(entity.SeverityWarning, "payer_mix",
			fmt.Sprintf("medicaid share %.0f%% exceeds %.0f%%: reimbursement risk", share*100, MedicaidShareCap*100),
			phase))
	}

	return flags
}

// CMSRatingFloor is the quality rating at or below which a facility raises a
// critical flag during Assemble.
const CMSRatingFloor = 2

// RegistryFlags folds external registry signals into critical flags once a
// facility lookup resolves.
func RegistryFlags(f entity.ExtractedFacility, phase entity.Phase) []entity.RedFlag {
	var flags []entity.RedFlag
	if f.SpecialFocus {
		flags = append(flags, entity.NewRedFlag(entity.SeverityCritical, "regulatory",
			fmt.Sprintf("%s appears on the special focus facility watch list", f.Name),
			phase))
	}
	if f.CMSRating > 0 && f.CMSRating <= CMSRatingFloor {
		flags = append(flags, entity.NewRedFlag(entity.SeverityCritical, "quality_rating",
			fmt.Sprintf("%s has a %d-star CMS rating", f.Name, f.CMSRating),
			phase))
	}
	return flags
}

// Recommend derives the final recommendation from the flag set and the
// overall confidence score.
func Recommend(flags []entity.RedFlag, confidence int) entity.Recommendation {
	critical := 0
	for _, f := range flags {
		if f.Severity == entity.SeverityCritical {
			critical++
		}
	}
	switch {
	case critical >= 3:
		return entity.RecommendPass
	case critical == 0 && confidence > 70:
		return entity.RecommendPursue
	default:
		return entity.RecommendConditional
	}
}
