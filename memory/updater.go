// Package memory maintains the rolling conversation memory: a short natural
// language summary of the dialogue plus the set of documents currently under
// discussion. The memory is recomputed after every completed turn and carried
// forward in the turn state, not persisted on its own.
package memory

import (
	"context"
	"fmt"

	"github.com/hupe1980/docassist/core"
	"github.com/hupe1980/docassist/logging"
	"github.com/hupe1980/docassist/model"
	"github.com/hupe1980/docassist/prompt"
)

// historyWindow bounds how many prior messages feed the summarization prompt.
const historyWindow = 10

// State is the rolling memory carried between turns.
type State struct {
	Summary         string   `json:"summary"`
	ActiveDocuments []string `json:"active_documents"`
}

// Options configures an Updater.
type Options struct {
	Logger logging.Logger
}

// Updater recomputes the memory state after each turn. With a backend it asks
// the model for a structured summary; without one it degrades to a literal
// restatement of the user input.
type Updater struct {
	backend model.Model
	logger  logging.Logger
}

// New constructs an Updater. A nil backend selects the degraded path.
func New(backend model.Model, optFns ...func(o *Options)) *Updater {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Updater{backend: backend, logger: opts.Logger}
}

// Update derives the new memory state from the completed exchange. Backend
// failures propagate so the caller can decide whether to keep the prior state.
func (u *Updater) Update(ctx context.Context, userInput string, response core.Response, history []core.Message) (State, error) {
	if u.backend == nil {
		return State{
			Summary:         fmt.Sprintf("User asked: %s", userInput),
			ActiveDocuments: []string{},
		}, nil
	}

	req := model.Request{
		Messages: []core.Message{
			core.NewUserMessage(prompt.MemoryUpdate(userInput, core.ResponseText(response), core.LastN(history, historyWindow))),
		},
	}

	var state State
	if err := u.backend.GenerateStructured(ctx, req, &state); err != nil {
		return State{}, fmt.Errorf("update memory: %w", err)
	}
	if state.ActiveDocuments == nil {
		state.ActiveDocuments = []string{}
	}

	u.logger.Debug("memory.update", "active_documents", len(state.ActiveDocuments))

	return state, nil
}
