package entity

type ToolStatus string

const (
	ToolSuccess ToolStatus = "success"
	ToolSkipped ToolStatus = "skipped"
	ToolFailed  ToolStatus = "failed"
)

// ToolResult is the outcome of one financial calculator. Each tool is
// independently success/skipped/failed; one failure never aborts the batch.
type ToolResult struct {
	Name   string     `json:"name"`
	Status ToolStatus `json:"status"`
	Value  float64    `json:"value,omitempty"`
	Unit   string     `json:"unit,omitempty"`
	Detail string     `json:"detail,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

type Recommendation string

const (
	RecommendPursue      Recommendation = "pursue"
	RecommendConditional Recommendation = "conditional"
	RecommendPass        Recommendation = "pass"
)

// Synthesis is the final structured + narrative output of a successful run.
// The narrative degrades to a rule-based rendering when no AI summarizer is
// reachable.
type Synthesis struct {
	DealName         string         `json:"dealName"`
	Recommendation   Recommendation `json:"recommendation"`
	ConfidenceScore  int            `json:"confidenceScore"`
	InvestmentThesis string         `json:"investmentThesis"`
	Strengths        []string       `json:"strengths"`
	Concerns         []string       `json:"concerns"`
	NextSteps        []string       `json:"nextSteps"`
	Narrative        string         `json:"narrative"`
}

// Clone returns a deep copy, detached from later narrative writes.
func (s *Synthesis) Clone() *Synthesis {
	if s == nil {
		return nil
	}
	out := *s
	out.Strengths = append([]string(nil), s.Strengths...)
	out.Concerns = append([]string(nil), s.Concerns...)
	out.NextSteps = append([]string(nil), s.NextSteps...)
	return &out
}
