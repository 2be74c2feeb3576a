package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rispar0529/De-Sign/internal/workflow"
)

const sampleAnalysis = `{
  "analysis": [
    {
      "clause_name": "Indemnification",
      "is_present": true,
      "confidence_score": 0.92,
      "risk_level": "Low",
      "justification": "Mutual obligations with a liability cap.",
      "cited_text": "Each party shall indemnify the other."
    },
    {
      "clause_name": "Force Majeure",
      "is_present": false,
      "confidence_score": 0.85,
      "risk_level": "High",
      "justification": "No force majeure provision found.",
      "cited_text": ""
    }
  ]
}`

func TestParseClauseFindings(t *testing.T) {
	findings, err := parseClauseFindings(sampleAnalysis)
	require.NoError(t, err)
	require.Len(t, findings, 2)

	assert.Equal(t, "Indemnification", findings[0].ClauseName)
	assert.True(t, findings[0].IsPresent)
	assert.Equal(t, workflow.RiskLow, findings[0].RiskLevel)
	assert.Equal(t, 0.92, findings[0].ConfidenceScore)

	assert.Equal(t, "Force Majeure", findings[1].ClauseName)
	assert.False(t, findings[1].IsPresent)
	assert.Equal(t, workflow.RiskHigh, findings[1].RiskLevel)
	assert.Empty(t, findings[1].CitedText)
}

func TestParseClauseFindingsFenced(t *testing.T) {
	fenced := "```json\n" + sampleAnalysis + "\n```"
	findings, err := parseClauseFindings(fenced)
	require.NoError(t, err)
	assert.Len(t, findings, 2)
}

func TestParseClauseFindingsRejectsGarbage(t *testing.T) {
	_, err := parseClauseFindings("I could not produce JSON, sorry.")
	assert.Error(t, err)

	_, err = parseClauseFindings(`{"analysis": []}`)
	assert.Error(t, err)
}

func TestNormalizeRiskLevel(t *testing.T) {
	tests := []struct {
		in   string
		want workflow.RiskLevel
	}{
		{"Low", workflow.RiskLow},
		{"LOW", workflow.RiskLow},
		{" medium ", workflow.RiskMedium},
		{"High", workflow.RiskHigh},
		{"critical", workflow.RiskHigh},
		{"", workflow.RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeRiskLevel(tt.in), tt.in)
	}
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0.0, clampConfidence(-0.3))
	assert.Equal(t, 1.0, clampConfidence(4.2))
	assert.Equal(t, 0.5, clampConfidence(0.5))
}
