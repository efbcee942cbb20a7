package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ivlev/present3d/internal/envpath"
)

// WatchDelay is how long Watch waits for a burst of file events to settle
// before reloading.
var WatchDelay = 200 * time.Millisecond

// watchedFiles returns the presentation file and the files it depends on.
func (s *Session) watchedFiles() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	files := make(map[string]bool)
	if s.file == "" {
		return files
	}
	files[s.file] = true
	root, ok := s.pres.Graph.Node(s.pres.Root)
	if !ok {
		return files
	}

	restore := s.Paths.Prepend(filepath.Dir(s.file))
	defer restore()
	for _, name := range root.Meta.FilePaths {
		if path := s.Paths.Find(envpath.ExpandEnvVars(name)); path != "" {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			files[path] = true
		}
	}
	return files
}

// Watch reloads the presentation whenever it or a file it depends on
// changes, until ctx is cancelled.
func (s *Session) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	dirs := make(map[string]bool)
	files := s.watchedFiles()
	if len(files) == 0 {
		return fmt.Errorf("watch: no presentation loaded")
	}
	addDirs := func() {
		for f := range files {
			dir := filepath.Dir(f)
			if dirs[dir] {
				continue
			}
			if err := w.Add(dir); err != nil {
				s.Logger.Warn("cannot watch directory", "dir", dir, "error", err)
				continue
			}
			dirs[dir] = true
		}
	}
	addDirs()

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !files[filepath.Clean(ev.Name)] || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			s.Logger.Debug("file changed", "file", ev.Name, "op", ev.Op.String())
			settle = time.After(WatchDelay)

		case <-settle:
			settle = nil
			err := s.Reload(ctx)
			if err != nil {
				s.Logger.Warn("reload failed, keeping the current presentation", "error", err)
			} else {
				files = s.watchedFiles()
				addDirs()
			}
			if s.OnReload != nil {
				s.OnReload(err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.Logger.Warn("watch error", "error", err)
		}
	}
}
