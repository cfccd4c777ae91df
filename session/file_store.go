// Package session provides SessionStore implementations: a JSON file store
// for durable persistence across process restarts and an in-memory store for
// tests and ephemeral use.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hupe1980/docassist/core"
	"github.com/hupe1980/docassist/logging"
)

// sessionFileExt is the extension of persisted session snapshots. The file
// stem is the session id.
const sessionFileExt = ".json"

// ErrSessionNotFound is returned by Load and Delete when no snapshot exists
// for the given id.
var ErrSessionNotFound = errors.New("session not found")

// FileStoreOptions configures a FileStore.
type FileStoreOptions struct {
	Logger logging.Logger
}

// FileStore persists each session as one JSON file named <id>.json under a
// base directory. Saves are atomic (write to a temp file, then rename) so a
// crash mid-write never corrupts an existing snapshot.
type FileStore struct {
	dir    string
	logger logging.Logger
}

// NewFileStore constructs a FileStore rooted at dir, creating the directory
// if needed.
func NewFileStore(dir string, optFns ...func(o *FileStoreOptions)) (*FileStore, error) {
	opts := FileStoreOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	return &FileStore{dir: dir, logger: opts.Logger}, nil
}

// Save implements core.SessionStore. The snapshot is a deep copy, so
// concurrent appends during serialization cannot tear the written file.
func (s *FileStore) Save(sess *core.Session) error {
	if sess == nil || sess.ID == "" {
		return fmt.Errorf("session must have an id")
	}

	data, err := json.MarshalIndent(sess.Clone(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sess.ID, err)
	}

	final := s.path(sess.ID)
	tmp, err := os.CreateTemp(s.dir, sess.ID+".tmp-*")
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}

	s.logger.Debug("session.saved", "session_id", sess.ID, "messages", sess.MessageCount())

	return nil
}

// Load implements core.SessionStore.
func (s *FileStore) Load(id string) (*core.Session, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var sess core.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if sess.Msgs == nil {
		sess.Msgs = []core.Message{}
	}
	if sess.Metadata == nil {
		sess.Metadata = map[string]string{}
	}

	return &sess, nil
}

// List implements core.SessionStore. IDs are derived from the file stems;
// non-JSON files in the directory are ignored.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), sessionFileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), sessionFileExt))
	}

	return ids, nil
}

// Delete implements core.SessionStore.
func (s *FileStore) Delete(id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+sessionFileExt)
}
