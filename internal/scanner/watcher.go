package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

const DefaultWatchDelay = 250 * time.Millisecond

var ErrAlreadyWatching = errors.New("watcher already running")

// watchSet tracks which files a watch reacts to. Directory roots accept
// every supported file beneath them; file roots accept only themselves.
type watchSet struct {
	accept func(path string) bool
	files  map[string]struct{}
	dirs   map[string]struct{}
}

func (w watchSet) wants(path string) bool {
	if _, ok := w.files[path]; ok {
		return true
	}
	for dir := range w.dirs {
		if isWithin(dir, path) && w.accept(path) {
			return true
		}
	}
	return false
}

func isWithin(dir string, path string) bool {
	relative, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	if relative == "." || relative == ".." || filepath.IsAbs(relative) {
		return false
	}
	return !strings.HasPrefix(relative, ".."+string(os.PathSeparator))
}

// Watch blocks until ctx is done, calling onChange once a file has been
// quiet for delay after a write or create. onChange may run concurrently
// for different paths.
func (s *Service) Watch(ctx context.Context, roots []string, delay time.Duration, onChange func(path string)) error {
	if delay <= 0 {
		delay = DefaultWatchDelay
	}

	s.mu.Lock()
	if s.watching {
		s.mu.Unlock()
		return ErrAlreadyWatching
	}
	s.watching = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.watching = false
		s.mu.Unlock()
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	set := watchSet{accept: s.accept, files: map[string]struct{}{}, dirs: map[string]struct{}{}}
	for _, root := range roots {
		if err := addWatchRoot(watcher, set, root); err != nil {
			return err
		}
	}

	var debouncersMu sync.Mutex
	debouncers := make(map[string]func(func()))
	schedule := func(path string) {
		debouncersMu.Lock()
		debounced, ok := debouncers[path]
		if !ok {
			debounced = debounce.New(delay)
			debouncers[path] = debounced
		}
		debouncersMu.Unlock()

		debounced(func() {
			if ctx.Err() != nil {
				return
			}
			onChange(path)
		})
	}

	s.emitProgress(Progress{Phase: "watch", Message: fmt.Sprintf("Watching %d roots", len(roots)), Status: "running"})

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			path := filepath.Clean(event.Name)
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
					if underWatchedDir(set, path) {
						_ = addDirTree(watcher, path)
					}
					continue
				}
			}
			if !set.wants(path) {
				continue
			}
			schedule(path)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.emitProgress(Progress{Phase: "watch", Message: watchErr.Error(), Status: "failed"})
		}
	}
}

func addWatchRoot(watcher *fsnotify.Watcher, set watchSet, root string) error {
	cleaned, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return fmt.Errorf("resolve watch root %s: %w", root, err)
	}

	info, err := os.Stat(cleaned)
	if err != nil {
		return fmt.Errorf("stat watch root %s: %w", root, err)
	}

	if !info.IsDir() {
		set.files[cleaned] = struct{}{}
		if err := watcher.Add(filepath.Dir(cleaned)); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(cleaned), err)
		}
		return nil
	}

	set.dirs[cleaned] = struct{}{}
	return addDirTree(watcher, cleaned)
}

func addDirTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil || !entry.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func underWatchedDir(set watchSet, path string) bool {
	for dir := range set.dirs {
		if isWithin(dir, path) {
			return true
		}
	}
	return false
}
