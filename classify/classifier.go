// Package classify maps a user utterance (plus recent history) to one of the
// assistant's intents. With a backend configured it asks the model for a
// structured verdict; without one it falls back to a deterministic whole-word
// keyword rule.
package classify

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hupe1980/docassist/core"
	"github.com/hupe1980/docassist/logging"
	"github.com/hupe1980/docassist/model"
	"github.com/hupe1980/docassist/prompt"
)

// historyWindow bounds how much history is embedded into the classification prompt.
const historyWindow = 5

// ruleConfidence is the fixed confidence of the keyword fallback.
const ruleConfidence = 0.7

// Whole-word matching keeps "sum" from firing inside "summarize".
var (
	summarizationKeywords = regexp.MustCompile(`(?i)\b(summarize|summarization|summary|overview)\b`)
	calculationKeywords   = regexp.MustCompile(`(?i)\b(calculate|sum|total|average|multiply|divide|subtract|add)\b`)
)

// Options configures a Classifier.
type Options struct {
	Logger logging.Logger
}

// Classifier produces one Intent per turn. It is stateless and safe for
// concurrent use.
type Classifier struct {
	backend model.Model
	logger  logging.Logger
}

// New constructs a Classifier. A nil backend selects the rule-based path.
func New(backend model.Model, optFns ...func(o *Options)) *Classifier {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Classifier{backend: backend, logger: opts.Logger}
}

// Classify returns the intent for userInput plus the handler route it maps
// to. Backend failures propagate; the rule-based path cannot fail.
func (c *Classifier) Classify(ctx context.Context, userInput string, history []core.Message) (core.Intent, core.IntentType, error) {
	if c.backend == nil {
		intent := classifyByRule(userInput)
		c.logger.Debug("classify.rule", "intent", string(intent.Type), "input", userInput)
		return intent, Route(intent.Type), nil
	}

	req := model.Request{
		Messages: []core.Message{
			core.NewUserMessage(prompt.IntentClassification(userInput, core.LastN(history, historyWindow))),
		},
	}

	var intent core.Intent
	if err := c.backend.GenerateStructured(ctx, req, &intent); err != nil {
		return core.Intent{}, core.IntentQA, fmt.Errorf("classify intent: %w", err)
	}
	if err := core.ValidateConfidence(intent.Confidence); err != nil {
		return core.Intent{}, core.IntentQA, fmt.Errorf("classify intent: %w", err)
	}

	c.logger.Debug("classify.model", "intent", string(intent.Type), "confidence", intent.Confidence)

	return intent, Route(intent.Type), nil
}

// classifyByRule is the deterministic fallback. Summarization keywords are
// checked first so overlapping inputs like "summarize the total" classify as
// summarization.
func classifyByRule(userInput string) core.Intent {
	switch {
	case summarizationKeywords.MatchString(userInput):
		return core.Intent{
			Type:       core.IntentSummarization,
			Confidence: ruleConfidence,
			Reasoning:  "Rule-based classification: detected summarization keywords",
		}
	case calculationKeywords.MatchString(userInput):
		return core.Intent{
			Type:       core.IntentCalculation,
			Confidence: ruleConfidence,
			Reasoning:  "Rule-based classification: detected calculation keywords",
		}
	default:
		return core.Intent{
			Type:       core.IntentQA,
			Confidence: ruleConfidence,
			Reasoning:  "Rule-based classification: no summarization or calculation keywords detected",
		}
	}
}

// Route maps an intent type to the handler that serves it. Anything outside
// the three handler intents defaults to qa.
func Route(t core.IntentType) core.IntentType {
	switch t {
	case core.IntentQA, core.IntentSummarization, core.IntentCalculation:
		return t
	default:
		return core.IntentQA
	}
}
