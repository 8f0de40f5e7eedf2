package watch

import (
	"sort"
	"sync"

	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/rs/zerolog"
)

// RefreshFunc refreshes the blocks of doc that reference path.
type RefreshFunc func(doc, path string)

type registration struct {
	handle      Handle
	subscribers map[string]bool
}

// Coordinator maps source paths to the documents that reference them.
type Coordinator struct {
	mu      sync.Mutex
	watcher Watcher
	refresh RefreshFunc

	entries map[string]*registration
	docs    map[string]map[string]bool

	logger zerolog.Logger
}

// NewCoordinator creates a coordinator watching through w and calling
// refresh when a watched source changes.
func NewCoordinator(w Watcher, refresh RefreshFunc) *Coordinator {
	return &Coordinator{
		watcher: w,
		refresh: refresh,
		entries: make(map[string]*registration),
		docs:    make(map[string]map[string]bool),
		logger:  logging.GetLogger("watch"),
	}
}

// Register subscribes doc to path and installs a fresh watcher handle for
// path. An existing handle is disposed only after its replacement is live,
// so changes are never missed in between. When the new handle cannot be
// created the old one stays in place.
func (c *Coordinator) Register(doc, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	reg := c.entries[path]
	if reg == nil {
		reg = &registration{subscribers: make(map[string]bool)}
		c.entries[path] = reg
	}
	reg.subscribers[doc] = true
	if c.docs[doc] == nil {
		c.docs[doc] = make(map[string]bool)
	}
	c.docs[doc][path] = true

	h, err := c.watcher.Watch(path, c.fire)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Str("document", doc).Msg("Failed to watch snippet source")
		return
	}
	old := reg.handle
	reg.handle = h
	if old != nil {
		if err := old.Dispose(); err != nil {
			c.logger.Debug().Err(err).Str("path", path).Msg("Failed to dispose replaced watch")
		}
	}
	c.logger.Trace().Str("path", path).Str("document", doc).Msg("Watch registered")
}

// Retain drops every subscription of doc whose path is not in paths. A
// path left without subscribers stops being watched.
func (c *Coordinator) Retain(doc string, paths []string) {
	keep := make(map[string]bool, len(paths))
	for _, p := range paths {
		keep[p] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for path := range c.docs[doc] {
		if !keep[path] {
			c.unsubscribe(doc, path)
		}
	}
	if len(c.docs[doc]) == 0 {
		delete(c.docs, doc)
	}
}

// Forget drops every subscription of doc.
func (c *Coordinator) Forget(doc string) {
	c.Retain(doc, nil)
}

// unsubscribe must be called with c.mu held.
func (c *Coordinator) unsubscribe(doc, path string) {
	delete(c.docs[doc], path)
	reg := c.entries[path]
	if reg == nil {
		return
	}
	delete(reg.subscribers, doc)
	if len(reg.subscribers) > 0 {
		return
	}
	if reg.handle != nil {
		if err := reg.handle.Dispose(); err != nil {
			c.logger.Debug().Err(err).Str("path", path).Msg("Failed to dispose watch")
		}
	}
	delete(c.entries, path)
	c.logger.Trace().Str("path", path).Msg("Watch removed")
}

// DisposeAll disposes every handle and forgets every subscription.
func (c *Coordinator) DisposeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path, reg := range c.entries {
		if reg.handle != nil {
			if err := reg.handle.Dispose(); err != nil {
				c.logger.Debug().Err(err).Str("path", path).Msg("Failed to dispose watch")
			}
		}
	}
	c.entries = make(map[string]*registration)
	c.docs = make(map[string]map[string]bool)
}

// Paths returns the watched source paths in order.
func (c *Coordinator) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedKeys(c.entries)
}

// Subscribers returns the documents subscribed to path in order.
func (c *Coordinator) Subscribers(path string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	reg := c.entries[path]
	if reg == nil {
		return nil
	}
	return sortedKeys(reg.subscribers)
}

// DocumentPaths returns the source paths doc is subscribed to in order.
func (c *Coordinator) DocumentPaths(doc string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedKeys(c.docs[doc])
}

// fire runs the refresh function once per subscriber of path, outside the
// lock so that refreshes can register again.
func (c *Coordinator) fire(path string) {
	docs := c.Subscribers(path)
	c.logger.Debug().Str("path", path).Strs("documents", docs).Msg("Refreshing subscribers")
	for _, doc := range docs {
		c.refresh(doc, path)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
