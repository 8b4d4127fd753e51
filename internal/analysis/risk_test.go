package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessRisk(t *testing.T) {
	goodCompliance := ComplianceResult{Score: 100}
	lowCompliance := ComplianceResult{Score: 60}

	tests := []struct {
		name       string
		text       string
		compliance ComplianceResult
		wantLevel  string
		wantScore  int
	}{
		{
			name:       "no risk terms",
			text:       "A simple services agreement.",
			compliance: goodCompliance,
			wantLevel:  RiskLow,
			wantScore:  0,
		},
		{
			name:       "one term stays low",
			text:       "Either party may seek termination.",
			compliance: goodCompliance,
			wantLevel:  RiskLow,
			wantScore:  15,
		},
		{
			name:       "two terms reach medium",
			text:       "Termination and liability provisions apply.",
			compliance: goodCompliance,
			wantLevel:  RiskMedium,
			wantScore:  30,
		},
		{
			name:       "low compliance alone stays low",
			text:       "A simple services agreement.",
			compliance: lowCompliance,
			wantLevel:  RiskLow,
			wantScore:  20,
		},
		{
			name:       "one term plus low compliance reaches medium",
			text:       "Breach consequences are described.",
			compliance: lowCompliance,
			wantLevel:  RiskMedium,
			wantScore:  35,
		},
		{
			name:       "four terms reach high",
			text:       "Termination, liability, indemnification and breach are all covered.",
			compliance: goodCompliance,
			wantLevel:  RiskHigh,
			wantScore:  60,
		},
		{
			name:       "all terms plus low compliance cap at 95",
			text:       "Termination liability indemnification breach penalty.",
			compliance: lowCompliance,
			wantLevel:  RiskHigh,
			wantScore:  95,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessRisk(tt.text, tt.compliance)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantScore, got.Score)
			assert.LessOrEqual(t, got.Score, 100)
		})
	}
}

func TestAssessRiskThresholdBoundaries(t *testing.T) {
	// Each term adds 15, so 30 is the closest reachable value above
	// the medium boundary of 25.
	medium := AssessRisk("termination and breach", ComplianceResult{Score: 100})
	assert.Equal(t, RiskMedium, medium.Level)
	assert.Equal(t, 30, medium.Score)

	// Two terms plus the low-compliance bonus land exactly on the high
	// boundary of 50; the boundary is inclusive.
	high := AssessRisk("termination liability", ComplianceResult{Score: 60})
	assert.Equal(t, RiskHigh, high.Level)
	assert.Equal(t, 50, high.Score)
}
