package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session represents a conversational container tracking an ordered message
// history plus free-form metadata. It is safe for concurrent access.
//
// Contract:
//   - AppendMessage updates the Updated timestamp
//   - Messages returns a defensive copy to avoid external mutation
//   - Clone performs deep copies of maps/slices for safe divergence.
type Session struct {
	ID       string            `json:"session_id"`
	Msgs     []Message         `json:"messages"`
	Metadata map[string]string `json:"metadata"`
	Created  time.Time         `json:"created"`
	Updated  time.Time         `json:"updated"`
	mu       sync.RWMutex
}

// NewSession creates a new session with the given ID. An empty id is replaced
// with a freshly generated one.
func NewSession(id string) *Session {
	if id == "" {
		id = NewID()
	}
	now := time.Now().UTC()
	return &Session{
		ID:       id,
		Msgs:     []Message{},
		Metadata: map[string]string{"created_at": now.Format(time.RFC3339)},
		Created:  now,
		Updated:  now,
	}
}

// AppendMessage appends a message to the history updating the Updated timestamp.
func (s *Session) AppendMessage(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Msgs = append(s.Msgs, m)
	s.Updated = time.Now().UTC()
}

// Messages returns a defensive copy of the full message slice.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := make([]Message, len(s.Msgs))
	copy(msgs, s.Msgs)
	return msgs
}

// MessageCount returns the number of messages in the session.
func (s *Session) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Msgs)
}

// SetMetadata sets a metadata key updating the Updated timestamp.
func (s *Session) SetMetadata(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Metadata[key] = value
	s.Updated = time.Now().UTC()
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:       s.ID,
		Msgs:     make([]Message, len(s.Msgs)),
		Metadata: make(map[string]string, len(s.Metadata)),
		Created:  s.Created,
		Updated:  s.Updated,
	}
	copy(clone.Msgs, s.Msgs)
	for k, v := range s.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}

// SessionStore persists whole-session snapshots. Saving overwrites any prior
// snapshot for the same id (last write wins); no optimistic concurrency check
// is performed.
type SessionStore interface {
	Save(s *Session) error
	Load(id string) (*Session, error)
	List() ([]string, error)
	Delete(id string) error
}

// NewID generates a new unique identifier for sessions and turns.
func NewID() string { return uuid.NewString() }
