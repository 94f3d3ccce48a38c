// Package watch reports changes to a fixed set of files using fsnotify.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the parent directories of a set of files and reports
// writes to those files only. Files replaced via rename stay tracked.
type Watcher struct {
	w     *fsnotify.Watcher
	log   *slog.Logger
	files map[string]string // Cleaned absolute path -> path as given
}

// New creates a watcher for files. A nil logger disables logging.
func New(files []string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &Watcher{w: w, log: logger.With(slog.String("component", "watch")), files: make(map[string]string, len(files))}
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		fw.files[abs] = f
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
		fw.log.Debug("watching directory", slog.String("dir", dir))
	}

	return fw, nil
}

// Run calls fn with the original path of every written or recreated file
// until ctx is done or the watcher is closed. fn runs on the Run goroutine.
func (fw *Watcher) Run(ctx context.Context, fn func(path string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			path, tracked := fw.files[filepath.Clean(ev.Name)]
			if !tracked {
				continue
			}
			fw.log.Debug("file changed", slog.String("file", path), slog.String("op", ev.Op.String()))
			fn(path)
		case err, ok := <-fw.w.Errors:
			if !ok {
				return nil
			}
			fw.log.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}

// Close stops watching.
func (fw *Watcher) Close() error {
	return fw.w.Close()
}
