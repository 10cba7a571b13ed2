package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/JaimeStill/regtriage/internal/categories"
)

// DefaultDebounce collapses the burst of events an editor or copy produces
// for one logical change.
const DefaultDebounce = 500 * time.Millisecond

const watchOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// InputFiles returns the manifest and the category membership lists.
func InputFiles(manifest, listsDir string) []string {
	return []string{
		manifest,
		filepath.Join(listsDir, categories.CoreFile),
		filepath.Join(listsDir, categories.NCDiffFile),
		filepath.Join(listsDir, categories.SimulateDiffFile),
	}
}

// Watch calls fn whenever one of files is created, written, removed or
// renamed. The parent directories are watched, so files replaced by rename
// or created later are still seen. Events arriving within debounce of each
// other produce a single call. Watch blocks until ctx is done.
func Watch(ctx context.Context, files []string, debounce time.Duration, logger *slog.Logger, fn func(context.Context)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", f, err)
		}
		watched[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
		logger.Debug("watching directory", "dir", dir)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(event.Name)] || event.Op&watchOps == 0 {
				continue
			}
			logger.Debug("input changed", "file", event.Name, "op", event.Op.String())
			pending = time.After(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)

		case <-pending:
			pending = nil
			fn(ctx)
		}
	}
}
