package analysis

import "strings"

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RiskResult is the 3-level rating derived from keyword counting and
// the compliance score.
type RiskResult struct {
	Level   string   `json:"level"`
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
}

var highRiskTerms = []string{"termination", "liability", "indemnification", "breach", "penalty"}

// AssessRisk adds 15 points per high-risk term present, 20 more when
// the compliance score is under 70, then maps the total to the
// ordinal: 50+ high, 25+ medium, else low. Score is capped at 100.
func AssessRisk(text string, compliance ComplianceResult) RiskResult {
	lower := strings.ToLower(text)
	score := 0
	var factors []string

	for _, term := range highRiskTerms {
		if strings.Contains(lower, term) {
			score += 15
			factors = append(factors, "Contains "+term+" clause - requires careful review")
		}
	}

	if compliance.Score < 70 {
		score += 20
		factors = append(factors, "Low compliance score indicates potential legal risks")
	}

	level := RiskLow
	switch {
	case score >= 50:
		level = RiskHigh
	case score >= 25:
		level = RiskMedium
	}

	if score > 100 {
		score = 100
	}

	return RiskResult{Level: level, Score: score, Factors: factors}
}
