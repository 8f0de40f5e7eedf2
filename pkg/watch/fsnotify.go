package watch

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is used when NewFSNotify gets a non-positive delay.
const DefaultDebounce = 100 * time.Millisecond

// FSNotify implements Watcher on top of a single fsnotify watcher.
type FSNotify struct {
	mu sync.Mutex

	fsw   *fsnotify.Watcher
	delay time.Duration

	// dirs counts the registrations under each watched directory.
	dirs map[string]int
	// subs holds the callbacks per file, keyed by registration id.
	subs   map[string]map[uint64]Callback
	timers map[string]*time.Timer
	nextID uint64

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup

	logger zerolog.Logger
}

// NewFSNotify creates a watcher that fires at most once per delay for a
// burst of changes to the same file.
func NewFSNotify(delay time.Duration) (*FSNotify, error) {
	if delay <= 0 {
		delay = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrWatch, "failed to create file watcher")
	}

	w := &FSNotify{
		fsw:     fsw,
		delay:   delay,
		dirs:    make(map[string]int),
		subs:    make(map[string]map[uint64]Callback),
		timers:  make(map[string]*time.Timer),
		closeCh: make(chan struct{}),
		logger:  logging.GetLogger("watch"),
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch registers cb for changes to path.
func (w *FSNotify) Watch(path string, cb Callback) (Handle, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrWatch, "failed to resolve %s", path)
	}
	dir := filepath.Dir(absPath)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrWatcherClosed
	}

	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return nil, errors.Wrapf(err, errors.ErrWatch, "failed to watch %s", dir).
				WithDetail("path", absPath)
		}
		w.logger.Trace().Str("dir", dir).Msg("Watching directory")
	}
	w.dirs[dir]++

	w.nextID++
	id := w.nextID
	if w.subs[absPath] == nil {
		w.subs[absPath] = make(map[uint64]Callback)
	}
	w.subs[absPath][id] = cb

	return &fsHandle{w: w, path: absPath, id: id}, nil
}

// WatchedDirs returns the directories currently registered with fsnotify.
func (w *FSNotify) WatchedDirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	dirs := make([]string, 0, len(w.dirs))
	for d := range w.dirs {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

func (w *FSNotify) unwatch(path string, id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	cbs, ok := w.subs[path]
	if !ok {
		return
	}
	if _, ok := cbs[id]; !ok {
		return
	}
	delete(cbs, id)
	if len(cbs) == 0 {
		delete(w.subs, path)
		if t, ok := w.timers[path]; ok {
			t.Stop()
			delete(w.timers, path)
		}
	}

	dir := filepath.Dir(path)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if err := w.fsw.Remove(dir); err != nil {
			w.logger.Debug().Err(err).Str("dir", dir).Msg("Failed to remove directory watch")
		}
	}
}

// Close stops the watcher.
func (w *FSNotify) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.subs = make(map[string]map[uint64]Callback)
	w.dirs = make(map[string]int)
	w.mu.Unlock()

	w.closedWg.Wait()
	return w.fsw.Close()
}

// processLoop handles incoming fsnotify events.
func (w *FSNotify) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			w.schedule(filepath.Clean(ev.Name))

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("File watcher error")
		}
	}
}

// schedule starts or restarts the debounce timer of path.
func (w *FSNotify) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || len(w.subs[path]) == 0 {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.delay)
		return
	}
	w.timers[path] = time.AfterFunc(w.delay, func() { w.fire(path) })
}

func (w *FSNotify) fire(path string) {
	w.mu.Lock()
	delete(w.timers, path)
	if w.closed {
		w.mu.Unlock()
		return
	}
	ids := make([]uint64, 0, len(w.subs[path]))
	for id := range w.subs[path] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	cbs := make([]Callback, 0, len(ids))
	for _, id := range ids {
		cbs = append(cbs, w.subs[path][id])
	}
	w.mu.Unlock()

	w.logger.Debug().Str("path", path).Int("callbacks", len(cbs)).Msg("Source changed")
	for _, cb := range cbs {
		cb(path)
	}
}

type fsHandle struct {
	w    *FSNotify
	path string
	id   uint64
	once sync.Once
}

func (h *fsHandle) Dispose() error {
	h.once.Do(func() { h.w.unwatch(h.path, h.id) })
	return nil
}
