package journal

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/raido/internal/storage"
)

// WatchMediaDir starts an fsnotify watcher on the media directory and
// prunes media rows whose backing file is removed from disk, so the
// journal never lists photos that no longer exist. Runs until ctx is
// cancelled. Rename events are followed by a debounced reconciliation
// pass that removes any stragglers.
func WatchMediaDir(ctx context.Context, repo *Repository, files storage.Provider, dir string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("media watcher: started", slog.String("dir", dir))

	// reconcileTimer debounces rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("media watcher: stopped")
			return nil

		case <-reconcileCh:
			ReconcileMedia(repo, files, logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if strings.HasPrefix(name, ".") {
				continue // tmp files from atomic writes
			}

			switch {
			case ev.Op&fsnotify.Remove != 0:
				n, err := repo.RemoveMediaByURI(name)
				if err != nil {
					logger.Warn("media watcher: prune failed",
						slog.String("file", name), slog.String("error", err.Error()))
					continue
				}
				if n > 0 {
					logger.Debug("media watcher: pruned",
						slog.String("file", name), slog.Int("rows", n))
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the old path only; treat it
				// as a removal and reconcile shortly after.
				if _, err := repo.RemoveMediaByURI(name); err != nil {
					logger.Warn("media watcher: rename prune failed",
						slog.String("file", name), slog.String("error", err.Error()))
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("media watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// isLocalURI reports whether a media URI names a file in the media
// directory. Remote or platform URIs (anything with a scheme or path
// separator) are never reconciled against disk.
func isLocalURI(uri string) bool {
	return uri != "" && !strings.ContainsAny(uri, "/\\") && !strings.Contains(uri, "://")
}

// ReconcileMedia removes media rows whose file is missing from the media
// directory. Called at startup and after rename bursts.
func ReconcileMedia(repo *Repository, files storage.Provider, logger *slog.Logger) {
	uris, err := repo.MediaURIs()
	if err != nil {
		logger.Warn("media reconcile: uris failed", slog.String("error", err.Error()))
		return
	}
	for uri := range uris {
		if !isLocalURI(uri) || files.Exists(uri) {
			continue
		}
		if n, err := repo.RemoveMediaByURI(uri); err == nil && n > 0 {
			logger.Debug("media reconcile: removed stale", slog.String("uri", uri))
		}
	}
}
