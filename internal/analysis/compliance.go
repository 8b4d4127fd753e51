package analysis

import (
	"strings"

	"github.com/legastream/legastream/internal/models"
)

// ComplianceResult scores regulatory and contractual language on a
// 0-100 scale. Deductions are fixed per missing safeguard.
type ComplianceResult struct {
	Score           int      `json:"score"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// CheckCompliance is a pure function of substring presence. The score
// starts at 100 and each triggered check subtracts a fixed amount,
// floored at 0.
func CheckCompliance(text string, entities []ExtractedEntity) ComplianceResult {
	lower := strings.ToLower(text)
	var issues []string
	score := 100

	if strings.Contains(lower, "gdpr") || strings.Contains(lower, "data protection") {
		if !strings.Contains(lower, "consent") && !strings.Contains(lower, "privacy policy") {
			issues = append(issues, "GDPR compliance: Missing explicit consent or privacy policy reference")
			score -= 15
		}
	}

	if strings.Contains(lower, "confidential") {
		if !strings.Contains(lower, "non-disclosure") && !strings.Contains(lower, "nda") {
			issues = append(issues, "Confidentiality: Consider adding NDA clause")
			score -= 10
		}
	}

	if hasEntityType(entities, models.EntityAmount) {
		if !strings.Contains(lower, "payment") && !strings.Contains(lower, "compensation") {
			issues = append(issues, "Financial terms: Payment terms should be clearly defined")
			score -= 10
		}
	}

	if score < 0 {
		score = 0
	}

	recommendations := make([]string, len(issues))
	for i, issue := range issues {
		recommendations[i] = "Review: " + issue
	}

	return ComplianceResult{
		Score:           score,
		Issues:          issues,
		Recommendations: recommendations,
	}
}

func hasEntityType(entities []ExtractedEntity, entityType string) bool {
	for _, e := range entities {
		if e.Type == entityType {
			return true
		}
	}
	return false
}
