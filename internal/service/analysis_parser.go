package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rispar0529/De-Sign/internal/workflow"
)

type rawClauseFinding struct {
	ClauseName      string  `json:"clause_name"`
	IsPresent       bool    `json:"is_present"`
	ConfidenceScore float64 `json:"confidence_score"`
	RiskLevel       string  `json:"risk_level"`
	Justification   string  `json:"justification"`
	CitedText       string  `json:"cited_text"`
}

// parseClauseFindings decodes the model's risk assessment output. Findings
// keep the order the model emitted them in.
func parseClauseFindings(response string) ([]workflow.ClauseFinding, error) {
	cleaned := stripCodeFence(response)

	var payload struct {
		Analysis []rawClauseFinding `json:"analysis"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("decode risk analysis: %w", err)
	}
	if len(payload.Analysis) == 0 {
		return nil, fmt.Errorf("risk analysis contained no findings")
	}

	findings := make([]workflow.ClauseFinding, len(payload.Analysis))
	for i, raw := range payload.Analysis {
		findings[i] = workflow.ClauseFinding{
			ClauseName:      raw.ClauseName,
			IsPresent:       raw.IsPresent,
			RiskLevel:       normalizeRiskLevel(raw.RiskLevel),
			ConfidenceScore: clampConfidence(raw.ConfidenceScore),
			Justification:   raw.Justification,
			CitedText:       raw.CitedText,
		}
	}
	return findings, nil
}

// stripCodeFence isolates JSON from a possibly fenced model response.
func stripCodeFence(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// normalizeRiskLevel folds the model's mixed-case labels into the canonical
// grades. Anything unrecognized is treated as HIGH rather than dropped.
func normalizeRiskLevel(level string) workflow.RiskLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "LOW":
		return workflow.RiskLow
	case "MEDIUM":
		return workflow.RiskMedium
	case "HIGH":
		return workflow.RiskHigh
	default:
		return workflow.RiskHigh
	}
}

func clampConfidence(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
