package testutil

import (
	"sort"
	"sync"

	"github.com/arthur-debert/snipsync/pkg/watch"
)

// FakeWatcher records registrations and fires callbacks on Trigger.
type FakeWatcher struct {
	mu       sync.Mutex
	nextID   int
	live     map[int]fakeRegistration
	watched  []string
	disposed int
	closed   bool

	// FailPaths makes Watch fail for the given paths.
	FailPaths map[string]error
}

type fakeRegistration struct {
	path string
	cb   watch.Callback
}

// NewFakeWatcher returns a watcher without registrations.
func NewFakeWatcher() *FakeWatcher {
	return &FakeWatcher{live: make(map[int]fakeRegistration), FailPaths: make(map[string]error)}
}

// Watch records a registration.
func (f *FakeWatcher) Watch(path string, cb watch.Callback) (watch.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, watch.ErrWatcherClosed
	}
	if err, ok := f.FailPaths[path]; ok {
		return nil, err
	}
	f.nextID++
	f.live[f.nextID] = fakeRegistration{path: path, cb: cb}
	f.watched = append(f.watched, path)
	return &fakeHandle{f: f, id: f.nextID}, nil
}

// Close drops every registration.
func (f *FakeWatcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.live = make(map[int]fakeRegistration)
	return nil
}

// Trigger fires every live callback registered for path, synchronously.
func (f *FakeWatcher) Trigger(path string) {
	f.mu.Lock()
	ids := make([]int, 0, len(f.live))
	for id, r := range f.live {
		if r.path == path {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	cbs := make([]watch.Callback, 0, len(ids))
	for _, id := range ids {
		cbs = append(cbs, f.live[id].cb)
	}
	f.mu.Unlock()

	for _, cb := range cbs {
		cb(path)
	}
}

// LiveCount returns the number of live registrations for path.
func (f *FakeWatcher) LiveCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.live {
		if r.path == path {
			n++
		}
	}
	return n
}

// LivePaths returns the distinct paths with live registrations in order.
func (f *FakeWatcher) LivePaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, r := range f.live {
		if !seen[r.path] {
			seen[r.path] = true
			out = append(out, r.path)
		}
	}
	sort.Strings(out)
	return out
}

// Disposed returns how many handles were disposed.
func (f *FakeWatcher) Disposed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disposed
}

// WatchCalls returns every path passed to Watch, in call order.
func (f *FakeWatcher) WatchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.watched...)
}

type fakeHandle struct {
	f    *FakeWatcher
	id   int
	once sync.Once
}

func (h *fakeHandle) Dispose() error {
	h.once.Do(func() {
		h.f.mu.Lock()
		defer h.f.mu.Unlock()
		if _, ok := h.f.live[h.id]; ok {
			delete(h.f.live, h.id)
			h.f.disposed++
		}
	})
	return nil
}
