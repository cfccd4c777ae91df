package core

import "fmt"

// IntentType enumerates the request categories the assistant can dispatch.
type IntentType string

const (
	// IntentQA is a question answered from document content.
	IntentQA IntentType = "qa"
	// IntentSummarization is a request for a summary or overview.
	IntentSummarization IntentType = "summarization"
	// IntentCalculation is a request for arithmetic over document data.
	IntentCalculation IntentType = "calculation"
	// IntentUnknown is anything that does not clearly fit the above.
	IntentUnknown IntentType = "unknown"
)

// Intent is the classifier's verdict for a single turn. It is created once per
// turn and read-only afterwards.
type Intent struct {
	Type       IntentType `json:"type"`
	Confidence float64    `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
}

// NewIntent constructs a validated Intent. Confidence outside [0,1] is rejected.
func NewIntent(t IntentType, confidence float64, reasoning string) (Intent, error) {
	if err := ValidateConfidence(confidence); err != nil {
		return Intent{}, err
	}
	return Intent{Type: t, Confidence: confidence, Reasoning: reasoning}, nil
}

// ValidateConfidence enforces the [0,1] confidence invariant shared by Intent
// and all Response variants.
func ValidateConfidence(c float64) error {
	if c < 0.0 || c > 1.0 {
		return fmt.Errorf("confidence %v outside [0,1]", c)
	}
	return nil
}
