package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/legastream/legastream/internal/models"
)

func TestCheckCompliance(t *testing.T) {
	amount := []ExtractedEntity{{Type: models.EntityAmount, Value: "$5,000"}}

	tests := []struct {
		name       string
		text       string
		entities   []ExtractedEntity
		wantScore  int
		wantIssues int
	}{
		{
			name:      "clean document keeps full score",
			text:      "This services agreement covers payment and consent terms.",
			wantScore: 100,
		},
		{
			name:       "gdpr without consent language",
			text:       "Processing is subject to GDPR requirements.",
			wantScore:  85,
			wantIssues: 1,
		},
		{
			name:      "gdpr with consent language passes",
			text:      "Processing is subject to GDPR requirements and explicit consent.",
			wantScore: 100,
		},
		{
			name:       "confidential without nda",
			text:       "All materials are strictly confidential.",
			wantScore:  90,
			wantIssues: 1,
		},
		{
			name:      "confidential with nda clause passes",
			text:      "Confidential materials are covered by the NDA in section 4.",
			wantScore: 100,
		},
		{
			name:       "monetary entity without payment terms",
			text:       "The sum of $5,000 is referenced herein.",
			entities:   amount,
			wantScore:  90,
			wantIssues: 1,
		},
		{
			name:      "monetary entity with payment terms passes",
			text:      "Payment of $5,000 is due within 30 days.",
			entities:  amount,
			wantScore: 100,
		},
		{
			name:       "all three checks trigger",
			text:       "GDPR applies. This confidential document mentions $5,000.",
			entities:   amount,
			wantScore:  65,
			wantIssues: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckCompliance(tt.text, tt.entities)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.Len(t, got.Issues, tt.wantIssues)
			assert.Len(t, got.Recommendations, tt.wantIssues)
			for i, rec := range got.Recommendations {
				assert.Equal(t, "Review: "+got.Issues[i], rec)
			}
		})
	}
}

// Adding trigger keywords can only lower the score, and it never goes
// below zero.
func TestCheckComplianceMonotonicNonIncreasing(t *testing.T) {
	triggers := []string{
		"gdpr applies here.",
		"this is confidential.",
		"the amount is large.",
	}
	entities := []ExtractedEntity{{Type: models.EntityAmount, Value: "$1"}}

	prev := CheckCompliance("plain agreement text", entities).Score
	text := "plain agreement text"
	for _, trigger := range triggers {
		text += " " + trigger
		score := CheckCompliance(text, entities).Score
		assert.LessOrEqual(t, score, prev)
		assert.GreaterOrEqual(t, score, 0)
		prev = score
	}
}

func TestCheckComplianceScoreFloor(t *testing.T) {
	text := strings.Repeat("gdpr confidential amount ", 50)
	got := CheckCompliance(text, []ExtractedEntity{{Type: models.EntityAmount, Value: "$1"}})
	assert.GreaterOrEqual(t, got.Score, 0)
}
