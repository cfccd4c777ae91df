package core

import (
	"fmt"
	"time"
)

// Response is the closed union of typed handler results. Concrete variants
// implement the unexported isResponse marker; consumers switch exhaustively on
// the concrete type instead of probing fields.
type Response interface{ isResponse() }

// AnswerResponse is the QA handler result.
type AnswerResponse struct {
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Sources    []string  `json:"sources"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// isResponse implements the Response interface for AnswerResponse.
func (AnswerResponse) isResponse() {}

// CalculationResponse is the calculation handler result.
type CalculationResponse struct {
	Expression  string   `json:"expression"`
	Result      float64  `json:"result"`
	Explanation string   `json:"explanation"`
	Units       string   `json:"units,omitempty"`
	Sources     []string `json:"sources"`
	Confidence  float64  `json:"confidence"`
}

// isResponse implements the Response interface for CalculationResponse.
func (CalculationResponse) isResponse() {}

// SummarizationResponse is the summarization handler result.
type SummarizationResponse struct {
	Summary        string   `json:"summary"`
	KeyPoints      []string `json:"key_points"`
	OriginalLength int      `json:"original_length,omitempty"`
	DocumentIDs    []string `json:"document_ids"`
	Confidence     float64  `json:"confidence"`
}

// isResponse implements the Response interface for SummarizationResponse.
func (SummarizationResponse) isResponse() {}

// NewAnswerResponse constructs a validated AnswerResponse stamped with the
// current time.
func NewAnswerResponse(question, answer string, sources []string, confidence float64) (AnswerResponse, error) {
	if err := ValidateConfidence(confidence); err != nil {
		return AnswerResponse{}, err
	}
	if sources == nil {
		sources = []string{}
	}
	return AnswerResponse{
		Question:   question,
		Answer:     answer,
		Sources:    sources,
		Confidence: confidence,
		Timestamp:  time.Now().UTC(),
	}, nil
}

// NewCalculationResponse constructs a validated CalculationResponse.
func NewCalculationResponse(expression string, result float64, explanation, units string, sources []string, confidence float64) (CalculationResponse, error) {
	if err := ValidateConfidence(confidence); err != nil {
		return CalculationResponse{}, err
	}
	if sources == nil {
		sources = []string{}
	}
	return CalculationResponse{
		Expression:  expression,
		Result:      result,
		Explanation: explanation,
		Units:       units,
		Sources:     sources,
		Confidence:  confidence,
	}, nil
}

// NewSummarizationResponse constructs a validated SummarizationResponse.
func NewSummarizationResponse(summary string, keyPoints []string, originalLength int, documentIDs []string, confidence float64) (SummarizationResponse, error) {
	if err := ValidateConfidence(confidence); err != nil {
		return SummarizationResponse{}, err
	}
	if keyPoints == nil {
		keyPoints = []string{}
	}
	if documentIDs == nil {
		documentIDs = []string{}
	}
	return SummarizationResponse{
		Summary:        summary,
		KeyPoints:      keyPoints,
		OriginalLength: originalLength,
		DocumentIDs:    documentIDs,
		Confidence:     confidence,
	}, nil
}

// ResponseText extracts the user-facing display text of a response variant.
// The switch is exhaustive over the closed union.
func ResponseText(r Response) string {
	switch v := r.(type) {
	case AnswerResponse:
		return v.Answer
	case CalculationResponse:
		return fmt.Sprintf("%s Result: %s", v.Explanation, FormatNumber(v.Result))
	case SummarizationResponse:
		return v.Summary
	case nil:
		return ""
	default:
		// Unreachable while the union stays closed.
		return fmt.Sprintf("%v", v)
	}
}

// ResponseConfidence extracts the confidence of a response variant.
func ResponseConfidence(r Response) float64 {
	switch v := r.(type) {
	case AnswerResponse:
		return v.Confidence
	case CalculationResponse:
		return v.Confidence
	case SummarizationResponse:
		return v.Confidence
	default:
		return 0.0
	}
}
