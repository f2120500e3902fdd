package directory

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 200 * time.Millisecond

// Watch observes the SQLite database file for changes made outside this
// process (a second instance, a migration script, a manual edit) and calls
// reload after each burst of writes. Events are debounced so one logical
// write produces one reload. Watch blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file itself: SQLite in WAL
// mode touches sidecar files, and the main file can be replaced wholesale.
func Watch(ctx context.Context, dbPath string, logger *slog.Logger, reload func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dir := filepath.Dir(dbPath)
	if err := w.Add(dir); err != nil {
		return err
	}

	base := filepath.Base(dbPath)
	related := map[string]struct{}{
		base:          {},
		base + "-wal": {},
		base + "-shm": {},
	}

	logger.Info("directory watcher: started", slog.String("db", dbPath))

	var debounce *time.Timer
	var debounceCh <-chan time.Time
	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(debounceInterval)
			debounceCh = debounce.C
		} else {
			debounce.Reset(debounceInterval)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("directory watcher: stopped")
			return nil

		case <-debounceCh:
			reload()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if _, hit := related[filepath.Base(ev.Name)]; !hit {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				schedule()
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("directory watcher: error", slog.String("error", werr.Error()))
		}
	}
}
