package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/everlight/aetherius/pkg/logging"
	"github.com/everlight/aetherius/pkg/server"
)

// Watcher reprocesses archive documents as they change on disk, so the
// index and resource listing track the directory without a restart.
type Watcher struct {
	dir      string
	index    *Index
	handlers *Handlers
	srv      *server.Server
	logger   logging.Logger
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for the handlers' document directory
func NewWatcher(handlers *Handlers, srv *server.Server, logger logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(handlers.dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", handlers.dir, err)
	}

	if logger == nil {
		logger = logging.Nop()
	}
	return &Watcher{
		dir:      handlers.dir,
		index:    handlers.index,
		handlers: handlers,
		srv:      srv,
		logger:   logger,
		watcher:  fsw,
	}, nil
}

// Run processes filesystem events until the context is canceled
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Warn("file watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	filename := filepath.Base(event.Name)
	if !IsSupported(filename) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		content, err := os.ReadFile(event.Name)
		if err != nil {
			w.logger.WithError(err).Warn("failed to read changed document",
				logging.String("filename", filename),
			)
			return
		}

		w.index.Process(Document{Filename: filename, Content: string(content)})
		if event.Op.Has(fsnotify.Create) {
			w.handlers.registerDocumentResource(w.srv, filename)
		}
		w.logger.Info("document reindexed",
			logging.String("filename", filename),
			logging.String("op", event.Op.String()),
		)

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		// Records are never implicitly deleted; the index keeps the last
		// processed state until the file reappears
		w.logger.Info("document removed from directory",
			logging.String("filename", filename),
		)
	}
}
