// Package docassist is a conversational document assistant. It classifies
// each user message into an intent (question answering, summarization or
// calculation), dispatches it to the matching handler which may call the
// calculator and document reader tools, and maintains a rolling conversation
// memory plus a persistent session transcript.
//
// The Assistant works fully offline: without a configured model it falls back
// to rule-based intent classification and canned handler replies.
package docassist

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/docassist/classify"
	"github.com/hupe1980/docassist/core"
	"github.com/hupe1980/docassist/engine"
	"github.com/hupe1980/docassist/handler"
	"github.com/hupe1980/docassist/logging"
	"github.com/hupe1980/docassist/memory"
	"github.com/hupe1980/docassist/model"
	"github.com/hupe1980/docassist/retrieval"
	"github.com/hupe1980/docassist/session"
	"github.com/hupe1980/docassist/tool"
)

// Options configures an Assistant.
type Options struct {
	// Model is the language model backend. Nil selects the rule-based
	// offline mode.
	Model model.Model

	// SessionStore persists session transcripts. Defaults to an in-memory
	// store.
	SessionStore core.SessionStore

	// AutoSave persists the session after every processed message.
	AutoSave bool

	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger logging.Logger
}

// Stats is a point-in-time snapshot of assistant state.
type Stats struct {
	NumDocuments           int
	NumSessions            int
	CurrentSessionID       string
	CurrentSessionMessages int
}

// Assistant is the top-level façade tying together the document store, the
// tool registry, the turn engine and session persistence. Safe for concurrent
// use; turns against the same session are serialized.
type Assistant struct {
	mu sync.Mutex

	docs     *retrieval.Store
	engine   *engine.Engine
	store    core.SessionStore
	logger   logging.Logger
	autoSave bool

	current *core.Session
	mem     memory.State
}

// New constructs an Assistant with a fresh session.
func New(optFns ...func(o *Options)) (*Assistant, error) {
	opts := Options{
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	docs := retrieval.NewStore(func(o *retrieval.StoreOptions) {
		o.Logger = opts.Logger
	})

	tools := tool.NewRegistry(
		tool.NewCalculator(func(o *tool.CalculatorOptions) {
			o.Logger = opts.Logger
		}),
		tool.NewDocumentReader(docs, func(o *tool.DocumentReaderOptions) {
			o.Logger = opts.Logger
		}),
	)

	handlerOpts := func(o *handler.Options) { o.Logger = opts.Logger }

	summarization, err := handler.NewSummarization(opts.Model, tools, handlerOpts)
	if err != nil {
		return nil, err
	}
	calculation, err := handler.NewCalculation(opts.Model, tools, handlerOpts)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(
		classify.New(opts.Model, func(o *classify.Options) { o.Logger = opts.Logger }),
		[]handler.Handler{
			handler.NewQA(opts.Model, tools, handlerOpts),
			summarization,
			calculation,
		},
		memory.New(opts.Model, func(o *memory.Options) { o.Logger = opts.Logger }),
		func(o *engine.Options) { o.Logger = opts.Logger },
	)
	if err != nil {
		return nil, err
	}

	return &Assistant{
		docs:     docs,
		engine:   eng,
		store:    opts.SessionStore,
		logger:   opts.Logger,
		autoSave: opts.AutoSave,
		current:  core.NewSession(""),
	}, nil
}

// LoadDocuments ingests documents from a file or directory path into the
// retrieval corpus. Returns the number of documents added.
func (a *Assistant) LoadDocuments(path string) (int, error) {
	return a.docs.Load(path)
}

// AddDocument adds a single in-memory document to the retrieval corpus.
// Metadata may be nil.
func (a *Assistant) AddDocument(content, source string, metadata map[string]string) {
	a.docs.Add(retrieval.Document{Content: content, Source: source, Metadata: metadata})
}

// DocumentStore exposes the underlying retrieval store, e.g. for attaching a
// directory watcher.
func (a *Assistant) DocumentStore() *retrieval.Store {
	return a.docs
}

// ProcessMessage runs one conversation turn: the user message is appended to
// the session, the turn pipeline produces a typed response, and the assistant
// reply is appended. Pipeline failures do not fail the call; they surface as
// an error-text assistant reply so the transcript stays consistent.
func (a *Assistant) ProcessMessage(ctx context.Context, userInput string) (core.Response, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	history := a.current.Messages()
	a.current.AppendMessage(core.NewUserMessage(userInput))

	state, err := a.engine.Run(ctx, engine.TurnState{
		UserInput:           userInput,
		History:             history,
		ConversationSummary: a.mem.Summary,
		ActiveDocuments:     a.mem.ActiveDocuments,
	})
	if err != nil {
		a.logger.Error("assistant.turn.failed", "session_id", a.current.ID, "error", err)
		errText := fmt.Sprintf("Error processing query: %v", err)
		a.current.AppendMessage(core.NewAssistantMessage(errText))
		a.persistIfAutoSave()
		resp, respErr := core.NewAnswerResponse(userInput, errText, nil, 0)
		if respErr != nil {
			return nil, respErr
		}
		return resp, nil
	}

	a.mem = memory.State{
		Summary:         state.ConversationSummary,
		ActiveDocuments: state.ActiveDocuments,
	}
	a.current.AppendMessage(core.NewAssistantMessage(core.ResponseText(state.Response)))
	a.persistIfAutoSave()

	a.logger.Info("assistant.turn.done",
		"session_id", a.current.ID,
		"intent", string(state.Intent.Type),
		"tools_used", len(state.ToolsUsed),
	)

	return state.Response, nil
}

// StartSession abandons the current session and starts a fresh one, returning
// its id. An empty id generates one.
func (a *Assistant) StartSession(id string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = core.NewSession(id)
	a.mem = memory.State{}
	return a.current.ID
}

// LoadSession replaces the current session with a stored one. On failure the
// current session is left untouched.
func (a *Assistant) LoadSession(id string) error {
	sess, err := a.store.Load(id)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = sess
	a.mem = memory.State{}
	return nil
}

// SaveSession persists the current session.
func (a *Assistant) SaveSession() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.Save(a.current)
}

// ListSessions returns the ids of all persisted sessions.
func (a *Assistant) ListSessions() ([]string, error) {
	return a.store.List()
}

// ClearSession empties the current session's transcript and memory, keeping
// its id.
func (a *Assistant) ClearSession() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = core.NewSession(a.current.ID)
	a.mem = memory.State{}
}

// History returns a copy of the current session's messages.
func (a *Assistant) History() []core.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current.Messages()
}

// Memory returns the current rolling conversation memory.
func (a *Assistant) Memory() memory.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mem
}

// Stats returns a snapshot of assistant state. A session-store listing error
// leaves NumSessions at zero.
func (a *Assistant) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	numSessions := 0
	if ids, err := a.store.List(); err == nil {
		numSessions = len(ids)
	}

	return Stats{
		NumDocuments:           a.docs.Count(),
		NumSessions:            numSessions,
		CurrentSessionID:       a.current.ID,
		CurrentSessionMessages: a.current.MessageCount(),
	}
}

// persistIfAutoSave saves the current session when auto-save is enabled.
// Persistence failures are logged, not propagated; the in-memory transcript
// stays authoritative.
func (a *Assistant) persistIfAutoSave() {
	if !a.autoSave {
		return
	}
	if err := a.store.Save(a.current); err != nil {
		a.logger.Error("assistant.session.save_failed", "session_id", a.current.ID, "error", err)
	}
}
