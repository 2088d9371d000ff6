package entity

// Document type labels assigned by the classifier. The required set drives
// the completeness score.
const (
	DocOfferingMemorandum = "offering_memorandum"
	DocIncomeStatement    = "income_statement"
	DocRentRoll           = "rent_roll"
	DocCensusReport       = "census_report"
	DocPayrollReport      = "payroll_report"
	DocFacilityLicense    = "facility_license"
	DocCostReport         = "cost_report"
	DocAppraisal          = "appraisal"
	DocCapexSummary       = "capex_summary"
	DocUnknown            = "unknown"
)

// TableData is one tabular block pulled out of a spreadsheet-like document.
type TableData struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
}

// ParsedFile is the ingest result for one uploaded document. Immutable once
// produced; later phases only read it. A file that failed to parse keeps its
// filename with empty text and zero confidence.
type ParsedFile struct {
	Filename     string      `json:"filename"`
	MediaType    string      `json:"media_type"`
	Size         int64       `json:"size"`
	DocumentType string      `json:"document_type"`
	Text         string      `json:"text"`
	Summary      string      `json:"summary"`
	KeyFindings  []string    `json:"key_findings"`
	Confidence   int         `json:"confidence"`
	Tables       []TableData `json:"tables,omitempty"`
	ParseError   string      `json:"parse_error,omitempty"`
}
