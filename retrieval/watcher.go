package retrieval

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/hupe1980/docassist/logging"
)

// Watcher keeps a store in sync with a corpus directory: newly created files
// with supported extensions are added, modified files are replaced in place
// (corpus order and count are preserved). Removals are ignored; the store only
// shrinks via an explicit Clear.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	logger  logging.Logger
	done    chan struct{}
}

// WatcherOptions configures a Watcher.
type WatcherOptions struct {
	Logger logging.Logger
}

// NewWatcher starts watching dir and applying corpus updates until Close is
// called. The directory must already be loaded into the store for modify
// events to find their document.
func NewWatcher(store *Store, dir string, optFns ...func(o *WatcherOptions)) (*Watcher, error) {
	opts := WatcherOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %q: %w", dir, err)
	}

	w := &Watcher{store: store, watcher: fw, logger: opts.Logger, done: make(chan struct{})}
	go w.run()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("retrieval.watch.error", "error", err.Error())
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !supportedExtensions[filepath.Ext(event.Name)] {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	content, err := os.ReadFile(event.Name)
	if err != nil {
		w.logger.Warn("retrieval.watch.skip", "path", event.Name, "error", err.Error())
		return
	}

	if w.store.replaceBySource(event.Name, string(content)) {
		w.logger.Info("retrieval.watch.replaced", "path", event.Name)
		return
	}

	w.store.Add(Document{
		Content: string(content),
		Source:  event.Name,
		Metadata: map[string]string{
			"filename":  filepath.Base(event.Name),
			"extension": filepath.Ext(event.Name),
		},
	})
	w.logger.Info("retrieval.watch.added", "path", event.Name)
}
