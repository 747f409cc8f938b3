// Package watcher follows filesystem changes in watched image directories.
// Write bursts are debounced so files are analyzed once they settle, and
// removals propagate to the analysis bookkeeping through callbacks.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Files must stay quiet this long before they are handed to onAnalyze.
const defaultDebounce = 500 * time.Millisecond

// Watcher watches directory roots and invokes callbacks for settled image
// files and removals.
type Watcher struct {
	roots      []string
	extensions []string
	recursive  bool
	onAnalyze  func(path string)
	onRemove   func(path string)
	debounce   time.Duration

	fsw      *fsnotify.Watcher
	mu       sync.Mutex
	pending  map[string]*time.Timer
	watched  map[string][]string // root -> directories registered for it
	done     chan struct{}
	started  bool
	stopOnce sync.Once
	logger   *zap.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets a logger for watch events.
func WithLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = logger }
}

// WithDebounce overrides the settle window applied to write bursts.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher over the given roots. onAnalyze runs for
// created or modified files once they settle, onRemove for deleted or
// renamed-away files. extensions filters which files qualify; empty
// accepts all.
func NewWatcher(roots, extensions []string, recursive bool, onAnalyze, onRemove func(path string), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		roots:      roots,
		extensions: extensions,
		recursive:  recursive,
		onAnalyze:  onAnalyze,
		onRemove:   onRemove,
		debounce:   defaultDebounce,
		pending:    make(map[string]*time.Timer),
		watched:    make(map[string][]string),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start registers the roots and begins dispatching events. It runs until
// ctx is cancelled or Stop is called. Missing roots are created.
func (w *Watcher) Start(ctx context.Context) error {
	opened, err := w.open()
	if err != nil || !opened {
		return err
	}
	go w.run(ctx)
	return nil
}

// open creates the fsnotify handle and registers every root. It reports
// false when the watcher is already running.
func (w *Watcher) open() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return false, nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}
	w.fsw = fsw
	w.started = true
	if w.logger != nil {
		w.logger.Debug("watcher starting",
			zap.Strings("roots", w.roots),
			zap.Strings("extensions", w.extensions),
			zap.Bool("recursive", w.recursive))
	}
	for _, root := range w.roots {
		if err := w.registerRootLocked(root); err != nil {
			_ = fsw.Close()
			w.fsw = nil
			w.started = false
			return false, err
		}
	}
	return true, nil
}

func (w *Watcher) run(ctx context.Context) {
	// Snapshot the fsnotify handle; Stop nils w.fsw but the captured
	// handle's channels close, which ends this loop cleanly.
	w.mu.Lock()
	fsw := w.fsw
	w.mu.Unlock()
	if fsw == nil {
		return
	}
	for {
		select {
		case <-w.done:
			return
		case <-ctx.Done():
			w.Stop()
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if err != nil && w.logger != nil {
				w.logger.Debug("watch error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := ev.Name
	if !w.underRoot(path) {
		return
	}
	if w.logger != nil {
		w.logger.Debug("watch event", zap.String("op", ev.Op.String()), zap.String("path", path))
	}

	if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.followNewDirectory(path)
			return
		}
		if matchExtension(path, w.extensions) {
			w.schedule(path)
		}
		return
	}

	// A rename delivers the old path, so it behaves like a removal here;
	// the file's new location arrives as a separate create event.
	if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		w.cancelPending(path)
		if matchExtension(path, w.extensions) && w.onRemove != nil {
			w.onRemove(path)
		}
	}
}

// followNewDirectory registers a directory that appeared inside a watched
// root and analyzes the files it already contains, covering folders moved
// in wholesale.
func (w *Watcher) followNewDirectory(dir string) {
	w.mu.Lock()
	recursive := w.recursive
	fsw := w.fsw
	w.mu.Unlock()
	if fsw == nil {
		return
	}

	if recursive {
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if addErr := fsw.Add(path); addErr != nil && w.logger != nil {
					w.logger.Debug("cannot watch directory", zap.String("path", path), zap.Error(addErr))
				}
			}
			return nil
		})
	} else if err := fsw.Add(dir); err != nil && w.logger != nil {
		w.logger.Debug("cannot watch directory", zap.String("path", dir), zap.Error(err))
	}

	w.scanDirectory(dir)
}

// underRoot reports whether path is one of the watched roots or lies
// beneath one.
func (w *Watcher) underRoot(path string) bool {
	w.mu.Lock()
	roots := append([]string(nil), w.roots...)
	w.mu.Unlock()
	clean := filepath.Clean(path)
	up := ".." + string(filepath.Separator)
	for _, root := range roots {
		rel, err := filepath.Rel(filepath.Clean(root), clean)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, up) {
			return true
		}
	}
	return false
}

func matchExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, candidate := range extensions {
		if strings.TrimPrefix(strings.ToLower(candidate), ".") == ext {
			return true
		}
	}
	return false
}

// schedule arms (or re-arms) the debounce timer for path. The callback
// fires only after the file has been quiet for the full window.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	t := time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		logger := w.logger
		w.mu.Unlock()
		if logger != nil {
			logger.Debug("file settled", zap.String("path", path))
		}
		if w.onAnalyze != nil {
			w.onAnalyze(path)
		}
	})
	w.pending[path] = t
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

// AddDirectory starts watching a new root. With scanExisting, files
// already present are handed to onAnalyze in the background.
func (w *Watcher) AddDirectory(root string, scanExisting bool) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	for _, r := range w.roots {
		if filepath.Clean(r) == filepath.Clean(abs) {
			return nil
		}
	}
	if err := w.registerRootLocked(abs); err != nil {
		return err
	}
	w.roots = append(w.roots, abs)
	if w.logger != nil {
		w.logger.Debug("directory added", zap.String("path", abs), zap.Bool("scan_existing", scanExisting))
	}
	if scanExisting && w.onAnalyze != nil {
		go w.scanDirectory(abs)
	}
	return nil
}

func (w *Watcher) registerRootLocked(root string) error {
	root = filepath.Clean(root)
	if _, err := os.Stat(root); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		if err := os.MkdirAll(root, 0755); err != nil {
			return err
		}
	}

	var registered []string
	if w.recursive {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if err := w.fsw.Add(path); err != nil {
				return err
			}
			registered = append(registered, path)
			return nil
		})
		if err != nil {
			return err
		}
	} else {
		if err := w.fsw.Add(root); err != nil {
			return err
		}
		registered = append(registered, root)
	}
	w.watched[root] = registered
	return nil
}

func (w *Watcher) scanDirectory(root string) {
	w.mu.Lock()
	exts := append([]string(nil), w.extensions...)
	onAnalyze := w.onAnalyze
	logger := w.logger
	w.mu.Unlock()
	if logger != nil {
		logger.Debug("scanning directory", zap.String("root", root))
	}
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if matchExtension(path, exts) && onAnalyze != nil {
			onAnalyze(path)
		}
		return nil
	})
}

// RemoveDirectory stops watching a root. Analyses of its files are kept.
func (w *Watcher) RemoveDirectory(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	abs = filepath.Clean(abs)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	kept := w.roots[:0]
	found := false
	for _, r := range w.roots {
		if filepath.Clean(r) == abs {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return nil
	}
	w.roots = kept
	for _, p := range w.watched[abs] {
		_ = w.fsw.Remove(p)
	}
	delete(w.watched, abs)
	if w.logger != nil {
		w.logger.Debug("directory removed", zap.String("path", abs))
	}
	return nil
}

// Directories returns a copy of the watched roots.
func (w *Watcher) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.roots...)
}

// SyncExistingFiles hands every matching file already under the watched
// roots to onAnalyze. Call after Start to pick up files that predate the
// watch.
func (w *Watcher) SyncExistingFiles() {
	w.mu.Lock()
	roots := append([]string(nil), w.roots...)
	w.mu.Unlock()
	if w.logger != nil {
		w.logger.Debug("syncing existing files", zap.Strings("roots", roots))
	}
	for _, root := range roots {
		w.scanDirectory(root)
	}
}

// Stop stops watching and cancels any pending debounce timers.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.fsw == nil {
		w.mu.Unlock()
		return
	}
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	_ = w.fsw.Close()
	w.fsw = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
