package models

// MatchResult is the compatibility score of one candidate for one job.
// Score is always within [0,100].
type MatchResult struct {
	Score           int      `json:"score"`
	Reasoning       string   `json:"reasoning"`
	Strengths       []string `json:"strengths"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
	Provider        string   `json:"provider"`
	Model           string   `json:"model"`
}

// IsFallback reports whether the rule-based scorer produced the result.
func (m MatchResult) IsFallback() bool {
	return m.Provider == FallbackProvider
}

const (
	FallbackProvider = "fallback"
	FallbackModel    = "rule-based"
)
