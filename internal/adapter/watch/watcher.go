// Package watch triggers rebuilds when bundle files or the config file change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when a zero debounce is configured.
const DefaultDebounce = 250 * time.Millisecond

// ChangeFunc receives one debounced batch of changed paths, sorted.
type ChangeFunc func(ctx context.Context, paths []string)

// Watcher collects filesystem events for YAML bundle directories and
// individual files and reports them in debounced batches.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	onChange ChangeFunc

	mu    sync.Mutex
	files map[string]bool // exact paths watched via their parent dir
	dirs  map[string]bool // bundle roots; any yaml below them counts
}

// New creates a Watcher. Call AddDir/AddFile, then Run.
func New(debounce time.Duration, onChange ChangeFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fsw:      fsw,
		debounce: debounce,
		onChange: onChange,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
	}, nil
}

// AddDir watches dir and its subdirectories for YAML changes. The directory
// is created if missing so bundles can be added later.
func (w *Watcher) AddDir(dir string) error {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	w.mu.Lock()
	w.dirs[dir] = true
	w.mu.Unlock()
	return w.addRecursive(dir)
}

// AddFile watches a single file. Its parent directory is watched so the file
// survives editors that replace it via rename.
func (w *Watcher) AddFile(path string) error {
	path = filepath.Clean(path)
	parent := filepath.Dir(path)
	if _, err := os.Stat(parent); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	w.mu.Lock()
	w.files[path] = true
	w.mu.Unlock()
	if err := w.fsw.Add(parent); err != nil {
		return fmt.Errorf("watch %s: %w", parent, err)
	}
	return nil
}

// Run processes events until ctx is done. Pending changes are dropped on
// shutdown.
func (w *Watcher) Run(ctx context.Context) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			slog.Debug("source change detected", "path", ev.Name, "op", ev.Op.String())
			pending[filepath.Clean(ev.Name)] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("watcher error", "error", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			w.onChange(ctx, paths)
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	isFile := w.files[path]
	w.mu.Unlock()
	if isFile {
		return true
	}
	if !w.underBundleDir(path) {
		return false
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addRecursive(path); err != nil {
				slog.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return true
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func (w *Watcher) underBundleDir(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for dir := range w.dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
