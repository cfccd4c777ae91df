package retrieval

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// supportedExtensions lists the file types the loader ingests.
var supportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".json": true,
	".csv":  true,
}

// Load ingests documents from a filesystem path. A file path loads that single
// file; a directory path recursively loads every file with a supported
// extension. Unreadable files are skipped with a diagnostic and do not affect
// already-loaded documents. Returns the number of documents added.
func (s *Store) Load(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("load documents from %q: %w", path, err)
	}

	if !info.IsDir() {
		if err := s.loadFile(path); err != nil {
			return 0, err
		}
		return 1, nil
	}

	added := 0
	walkErr := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("retrieval.load.skip", "path", p, "error", err.Error())
			return nil
		}
		if d.IsDir() || !supportedExtensions[filepath.Ext(p)] {
			return nil
		}
		if err := s.loadFile(p); err != nil {
			s.logger.Warn("retrieval.load.skip", "path", p, "error", err.Error())
			return nil
		}
		added++
		return nil
	})
	if walkErr != nil {
		return added, fmt.Errorf("walk %q: %w", path, walkErr)
	}

	s.logger.Info("retrieval.load.complete", "path", path, "added", added)

	return added, nil
}

// loadFile reads a single file into the corpus.
func (s *Store) loadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}
	s.Add(Document{
		Content: string(content),
		Source:  path,
		Metadata: map[string]string{
			"filename":  filepath.Base(path),
			"extension": filepath.Ext(path),
		},
	})
	return nil
}
