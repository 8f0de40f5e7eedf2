package engine

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/arthur-debert/snipsync/internal/csync"
	"github.com/arthur-debert/snipsync/pkg/diagnostics"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/fence"
	"github.com/arthur-debert/snipsync/pkg/host"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/region"
	"github.com/arthur-debert/snipsync/pkg/synchronizer"
	"github.com/arthur-debert/snipsync/pkg/textdoc"
	"github.com/arthur-debert/snipsync/pkg/types"
	"github.com/arthur-debert/snipsync/pkg/watch"
	"github.com/rs/zerolog"
)

// Messages shown through host.Notify.
const (
	MsgActivated          = "Inline Snippets activated"
	MsgDeactivated        = "Inline Snippets deactivated"
	MsgAlreadyDeactivated = "Inline Snippets is already deactivated"
)

// maxStaleRetries bounds how often a pass is recomputed when the document
// changed between reading it and applying the edits.
const maxStaleRetries = 3

// Options configures an Engine.
type Options struct {
	Join region.JoinMode
	// IsDocument selects the documents that carry managed blocks. The
	// default accepts .mdx files.
	IsDocument func(id string) bool
	// CleanupOnDeactivate restores bare references in every visible
	// document when the engine is deactivated.
	CleanupOnDeactivate bool
}

// Engine synchronizes the documents of one host.
type Engine struct {
	host     host.Host
	fs       types.FS
	resolver synchronizer.Resolver
	sync     *synchronizer.Synchronizer
	coord    *watch.Coordinator
	diags    *diagnostics.Collection
	locks    *csync.Map[string, *sync.Mutex]
	opts     Options

	active atomic.Bool
	saveMu sync.Mutex
	saving atomic.Bool

	logger zerolog.Logger
}

var _ host.Events = (*Engine)(nil)

// New creates an inactive engine. Sources are read through fs and
// references resolved with resolver; w delivers source changes.
func New(h host.Host, fs types.FS, resolver synchronizer.Resolver, w watch.Watcher, opts Options) *Engine {
	if opts.IsDocument == nil {
		opts.IsDocument = func(id string) bool {
			return strings.EqualFold(filepath.Ext(id), ".mdx")
		}
	}
	e := &Engine{
		host:     h,
		fs:       fs,
		resolver: resolver,
		sync:     synchronizer.New(fs, resolver, synchronizer.Options{Join: opts.Join}),
		diags:    diagnostics.NewCollection(),
		locks:    csync.NewMap[string, *sync.Mutex](),
		opts:     opts,
		logger:   logging.GetLogger("engine"),
	}
	e.coord = watch.NewCoordinator(w, e.refresh)
	return e
}

// Active reports whether the engine reacts to events.
func (e *Engine) Active() bool {
	return e.active.Load()
}

// Diagnostics returns the diagnostics of every document.
func (e *Engine) Diagnostics() *diagnostics.Collection {
	return e.diags
}

// WatchedPaths returns the source paths currently watched.
func (e *Engine) WatchedPaths() []string {
	return e.coord.Paths()
}

// Subscribers returns the documents refreshed when path changes.
func (e *Engine) Subscribers(path string) []string {
	return e.coord.Subscribers(path)
}

// Activate turns the engine on and synchronizes the active document. With
// no active document nothing happens and an ErrNoActive coded error is
// returned.
func (e *Engine) Activate(ctx context.Context) error {
	id, ok := e.host.ActiveDocument(ctx)
	if !ok {
		return errors.New(errors.ErrNoActive, "no active document")
	}

	e.active.Store(true)
	e.host.Notify(MsgActivated)
	e.logger.Info().Str("document", id).Msg("Engine activated")

	if !e.opts.IsDocument(id) {
		return nil
	}
	_, err := e.SyncDocument(ctx, id)
	return err
}

// Deactivate turns the engine off: diagnostics are cleared, managed blocks
// of visible documents are restored to bare references when configured,
// and every watch is disposed.
func (e *Engine) Deactivate(ctx context.Context) error {
	if !e.active.Swap(false) {
		e.host.Notify(MsgAlreadyDeactivated)
		return nil
	}

	for _, entry := range e.diags.All() {
		e.host.PublishDiagnostics(entry.ID, nil)
	}
	e.diags.Clear()

	var firstErr error
	if e.opts.CleanupOnDeactivate {
		ids, err := e.host.VisibleDocuments(ctx)
		if err != nil {
			e.logger.Warn().Err(err).Msg("Cannot list visible documents for cleanup")
		}
		for _, id := range ids {
			if !e.opts.IsDocument(id) {
				continue
			}
			if _, err := e.Clean(ctx, id); err != nil {
				e.logger.Warn().Err(err).Str("document", id).Msg("Cleanup failed")
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}

	e.coord.DisposeAll()
	e.host.Notify(MsgDeactivated)
	e.logger.Info().Msg("Engine deactivated")
	return firstErr
}

// ShowInlineSnippets synchronizes the active document now.
func (e *Engine) ShowInlineSnippets(ctx context.Context) error {
	if !e.active.Load() {
		return nil
	}
	id, ok := e.host.ActiveDocument(ctx)
	if !ok {
		return errors.New(errors.ErrNoActive, "no active document")
	}
	if !e.opts.IsDocument(id) {
		return nil
	}
	_, err := e.SyncDocument(ctx, id)
	return err
}

// HandleActiveChanged implements host.Events.
func (e *Engine) HandleActiveChanged(ctx context.Context, id string) {
	if !e.active.Load() || !e.opts.IsDocument(id) {
		return
	}
	if _, err := e.SyncDocument(ctx, id); err != nil {
		e.logger.Warn().Err(err).Str("document", id).Msg("Sync after focus change failed")
	}
}

// HandleSaved implements host.Events. Saves the engine performs itself are
// ignored.
func (e *Engine) HandleSaved(ctx context.Context, id string) {
	if e.saving.Load() {
		e.logger.Trace().Str("document", id).Msg("Ignoring own save")
		return
	}
	if !e.active.Load() || !e.opts.IsDocument(id) || !e.isVisible(ctx, id) {
		return
	}
	if _, err := e.SyncDocument(ctx, id); err != nil {
		e.logger.Warn().Err(err).Str("document", id).Msg("Sync after save failed")
	}
}

// HandleFilesDeleted implements host.Events. Deleted documents lose their
// subscriptions and diagnostics; every visible document is then
// resynchronized, since a deleted file may be a referenced source.
func (e *Engine) HandleFilesDeleted(ctx context.Context, ids []string) {
	if !e.active.Load() {
		return
	}
	for _, id := range ids {
		e.coord.Forget(id)
		if e.diags.Get(id) != nil {
			e.diags.Delete(id)
			e.host.PublishDiagnostics(id, nil)
		}
		e.locks.Delete(id)
	}

	visible, err := e.host.VisibleDocuments(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Cannot list visible documents")
		return
	}
	for _, id := range visible {
		if !e.opts.IsDocument(id) {
			continue
		}
		if _, err := e.SyncDocument(ctx, id); err != nil {
			e.logger.Warn().Err(err).Str("document", id).Msg("Sync after deletion failed")
		}
	}
}

func (e *Engine) isVisible(ctx context.Context, id string) bool {
	ids, err := e.host.VisibleDocuments(ctx)
	if err != nil {
		return false
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (e *Engine) lock(id string) func() {
	mu := e.locks.GetOrCreate(id, func() *sync.Mutex { return &sync.Mutex{} })
	mu.Lock()
	return mu.Unlock
}

// SyncDocument runs a full pass over id: every managed block is
// synchronized, every attempted reference is watched, references the
// document no longer makes are unwatched and the document's diagnostics
// are replaced. The document is saved when anything changed.
func (e *Engine) SyncDocument(ctx context.Context, id string) (*synchronizer.Pass, error) {
	unlock := e.lock(id)
	defer unlock()

	var lastErr error
	for attempt := 0; attempt < maxStaleRetries; attempt++ {
		doc, err := e.host.Document(ctx, id)
		if err != nil {
			return nil, err
		}

		var attempted []string
		pass := e.sync.Run(doc.Text, synchronizer.PassOptions{
			OnAttempt: func(absPath, _ string) {
				attempted = append(attempted, absPath)
				e.coord.Register(id, absPath)
			},
		})
		e.coord.Retain(id, attempted)

		if !pass.Changed() {
			e.publish(id, doc.Text, pass.Results)
			e.logPass(id, pass)
			return pass, nil
		}

		lastErr = e.applyAndSave(ctx, doc, pass.Edits())
		if lastErr == nil {
			text, err := pass.Apply()
			if err != nil {
				return pass, err
			}
			e.publish(id, text, rebase(pass.Results))
			e.logPass(id, pass)
			return pass, nil
		}
		if !errors.IsErrorCode(lastErr, errors.ErrStale) {
			e.publish(id, doc.Text, pass.Results)
			return pass, lastErr
		}
		e.logger.Debug().Str("document", id).Int("attempt", attempt+1).Msg("Document changed during pass, retrying")
	}
	return nil, lastErr
}

// refresh is the watch callback: it re-synchronizes only the blocks of doc
// that reference path. A document whose blocks no longer reference path is
// left alone.
func (e *Engine) refresh(id, path string) {
	if !e.active.Load() {
		return
	}
	ctx := context.Background()
	unlock := e.lock(id)
	defer unlock()

	for attempt := 0; attempt < maxStaleRetries; attempt++ {
		doc, err := e.host.Document(ctx, id)
		if err != nil {
			e.logger.Debug().Err(err).Str("document", id).Msg("Refresh skipped, document unavailable")
			return
		}

		pass := e.sync.Run(doc.Text, synchronizer.PassOptions{
			Match: func(_ fence.Block, absPath string) bool { return absPath == path },
			OnAttempt: func(absPath, _ string) {
				e.coord.Register(id, absPath)
			},
		})
		if len(pass.Results) == 0 {
			e.logger.Debug().Str("document", id).Str("path", path).Msg("No block references changed source")
			return
		}
		if !pass.Changed() {
			return
		}

		err = e.applyAndSave(ctx, doc, pass.Edits())
		if err == nil {
			if text, err := pass.Apply(); err == nil {
				e.publish(id, text, e.sync.Sync(text).Results)
			}
			e.logger.Info().Str("document", id).Str("path", path).
				Int("blocks", len(pass.Results)).Msg("Refreshed blocks after source change")
			return
		}
		if !errors.IsErrorCode(err, errors.ErrStale) {
			e.logger.Warn().Err(err).Str("document", id).Msg("Refresh failed")
			return
		}
	}
}

// applyAndSave is the only path by which the engine writes documents.
func (e *Engine) applyAndSave(ctx context.Context, doc host.Document, edits []textdoc.Edit) error {
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	if err := e.host.ApplyEdits(ctx, doc.ID, doc.Version, edits); err != nil {
		return err
	}

	e.saving.Store(true)
	defer e.saving.Store(false)
	if err := e.host.Save(ctx, doc.ID); err != nil {
		return errors.Wrapf(err, errors.ErrHost, "cannot save %s", doc.ID)
	}
	return nil
}

// rebase moves the spans of results, given in document order, to where
// their blocks sit once every result's NewText is in place.
func rebase(results []synchronizer.Result) []synchronizer.Result {
	out := make([]synchronizer.Result, len(results))
	delta := 0
	for i, r := range results {
		oldLen := r.Block.Span.Len()
		newLen := oldLen
		if r.Changed() {
			newLen = len(r.NewText)
		}
		start := r.Block.Span.Start + delta
		r.Block.Span = textdoc.Span{Start: start, End: start + newLen}
		delta += newLen - oldLen
		out[i] = r
	}
	return out
}

func (e *Engine) publish(id, text string, results []synchronizer.Result) {
	diags := diagnostics.FromResults(text, results)
	e.diags.Set(id, diags)
	e.host.PublishDiagnostics(id, diags)
}

func (e *Engine) logPass(id string, pass *synchronizer.Pass) {
	e.logger.Debug().
		Str("document", id).
		Int("replaced", pass.Count(synchronizer.StatusReplaced)).
		Int("unchanged", pass.Count(synchronizer.StatusUnchanged)).
		Int("errors", pass.Count(synchronizer.StatusError)).
		Msg("Document synchronized")
}
