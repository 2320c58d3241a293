package journal

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch observes a user's quick-note directory with fsnotify and
// reports externally-made changes (a note dropped into or removed from
// the folder by another program) through cb until ctx is cancelled.
//
// The watcher observes and notifies only; diary reconciliation stays
// driven by the API operations that originate the change. Applying
// reconciliation here as well would double-book API-originated events,
// and appending a note-link is not idempotent.
func Watch(ctx context.Context, noteDir string, logger *slog.Logger, cb EventFunc, user string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(noteDir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("dir", noteDir), slog.String("user", user))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped", slog.String("user", user))
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".md") {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				logger.Debug("watcher: note changed", slog.String("filename", name))
				if cb != nil {
					cb("note.created", user, name)
				}
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// A rename surfaces on the old path only; the new path
				// arrives as a separate Create event.
				logger.Debug("watcher: note removed", slog.String("filename", name))
				if cb != nil {
					cb("note.deleted", user, name)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
