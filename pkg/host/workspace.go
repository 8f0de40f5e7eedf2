package host

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/snipsync/pkg/diagnostics"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/internal/hashutil"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/textdoc"
	"github.com/arthur-debert/snipsync/pkg/types"
	"github.com/arthur-debert/snipsync/pkg/watch"
	"github.com/rs/zerolog"
)

type buffer struct {
	text    string
	version int
	dirty   bool
}

// Workspace is a Host over a file system. Documents are identified by
// their absolute path, read into memory on Open and written back on Save.
//
// Once Follow is called, the workspace reports saves (its own and those
// made by other programs) and deletions of open documents to the given
// Events. Content it wrote itself is not reported a second time when the
// file system echoes the write.
type Workspace struct {
	mu sync.Mutex

	fs      types.FS
	buffers map[string]*buffer
	order   []string
	active  string
	// written holds the checksum of the last content Save wrote per
	// document.
	written map[string]string

	diags   *diagnostics.Collection
	notify  func(msg string)
	onDiags func(id string, diags []diagnostics.Diagnostic)

	watcher watch.Watcher
	events  Events
	handles map[string]watch.Handle

	logger zerolog.Logger
}

var _ Host = (*Workspace)(nil)

// NewWorkspace creates a workspace without open documents.
func NewWorkspace(fs types.FS) *Workspace {
	return &Workspace{
		fs:      fs,
		buffers: make(map[string]*buffer),
		written: make(map[string]string),
		diags:   diagnostics.NewCollection(),
		handles: make(map[string]watch.Handle),
		logger:  logging.GetLogger("host"),
	}
}

// SetNotifier routes Notify messages to fn instead of the log.
func (w *Workspace) SetNotifier(fn func(msg string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notify = fn
}

// SetDiagnosticsListener calls fn with every diagnostics publication.
func (w *Workspace) SetDiagnosticsListener(fn func(id string, diags []diagnostics.Diagnostic)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onDiags = fn
}

// Diagnostics returns the diagnostics published so far.
func (w *Workspace) Diagnostics() *diagnostics.Collection {
	return w.diags
}

// Open reads documents into memory. The first document opened becomes
// active when nothing is.
func (w *Workspace) Open(ids ...string) error {
	for _, id := range ids {
		id = filepath.Clean(id)
		data, err := w.fs.ReadFile(id)
		if err != nil {
			return errors.Wrapf(err, errors.ErrNotFound, "cannot open document %s", id).
				WithDetail("path", id)
		}

		w.mu.Lock()
		if _, ok := w.buffers[id]; !ok {
			w.buffers[id] = &buffer{text: string(data), version: 1}
			w.order = append(w.order, id)
		}
		if w.active == "" {
			w.active = id
		}
		following := w.watcher != nil
		w.mu.Unlock()

		if following {
			w.watchDocument(id)
		}
		w.logger.Debug().Str("document", id).Msg("Document opened")
	}
	return nil
}

// Close forgets a document. Unsaved changes are dropped.
func (w *Workspace) Close(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeLocked(id)
}

func (w *Workspace) closeLocked(id string) {
	if _, ok := w.buffers[id]; !ok {
		return
	}
	delete(w.buffers, id)
	delete(w.written, id)
	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if w.active == id {
		w.active = ""
		if len(w.order) > 0 {
			w.active = w.order[0]
		}
	}
	if h, ok := w.handles[id]; ok {
		_ = h.Dispose()
		delete(w.handles, id)
	}
}

// SetActive focuses an open document and reports the change.
func (w *Workspace) SetActive(ctx context.Context, id string) error {
	w.mu.Lock()
	if _, ok := w.buffers[id]; !ok {
		w.mu.Unlock()
		return errors.Newf(errors.ErrNotFound, "document %s is not open", id)
	}
	w.active = id
	events := w.events
	w.mu.Unlock()

	if events != nil {
		events.HandleActiveChanged(ctx, id)
	}
	return nil
}

// Document implements Host.
func (w *Workspace) Document(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, errors.Wrap(err, errors.ErrHost, "document read cancelled")
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.buffers[id]
	if !ok {
		return Document{}, errors.Newf(errors.ErrNotFound, "document %s is not open", id)
	}
	return Document{ID: id, Text: b.text, Version: b.version}, nil
}

// ApplyEdits implements Host.
func (w *Workspace) ApplyEdits(ctx context.Context, id string, version int, edits []textdoc.Edit) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrHost, "edit cancelled")
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	b, ok := w.buffers[id]
	if !ok {
		return errors.Newf(errors.ErrNotFound, "document %s is not open", id)
	}
	if b.version != version {
		return errors.Newf(errors.ErrStale, "document %s changed since version %d", id, version).
			WithDetail("current", b.version)
	}
	if len(edits) == 0 {
		return nil
	}
	text, err := textdoc.Apply(b.text, edits)
	if err != nil {
		return errors.Wrapf(err, errors.ErrHost, "cannot apply edits to %s", id)
	}
	b.text = text
	b.version++
	b.dirty = true
	return nil
}

// Save implements Host. Saving a document without changes does not touch
// the file.
func (w *Workspace) Save(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrHost, "save cancelled")
	}

	w.mu.Lock()
	b, ok := w.buffers[id]
	if !ok {
		w.mu.Unlock()
		return errors.Newf(errors.ErrNotFound, "document %s is not open", id)
	}
	if !b.dirty {
		w.mu.Unlock()
		return nil
	}
	text := b.text
	w.written[id] = hashutil.Checksum([]byte(text))
	if err := w.fs.WriteFile(id, []byte(text), 0644); err != nil {
		delete(w.written, id)
		w.mu.Unlock()
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot save %s", id).WithDetail("path", id)
	}
	b.dirty = false
	events := w.events
	w.mu.Unlock()

	w.logger.Debug().Str("document", id).Int("bytes", len(text)).Msg("Document saved")
	if events != nil {
		events.HandleSaved(ctx, id)
	}
	return nil
}

// VisibleDocuments implements Host.
func (w *Workspace) VisibleDocuments(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.order...), nil
}

// ActiveDocument implements Host.
func (w *Workspace) ActiveDocument(ctx context.Context) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active, w.active != ""
}

// PublishDiagnostics implements Host.
func (w *Workspace) PublishDiagnostics(id string, diags []diagnostics.Diagnostic) {
	w.diags.Set(id, diags)

	w.mu.Lock()
	fn := w.onDiags
	w.mu.Unlock()
	if fn != nil {
		fn(id, diags)
	}
}

// Notify implements Host.
func (w *Workspace) Notify(msg string) {
	w.mu.Lock()
	fn := w.notify
	w.mu.Unlock()

	if fn != nil {
		fn(msg)
		return
	}
	w.logger.Info().Msg(msg)
}

// Follow starts reporting document events to events, watching every open
// document through watcher.
func (w *Workspace) Follow(watcher watch.Watcher, events Events) {
	w.mu.Lock()
	w.watcher = watcher
	w.events = events
	ids := append([]string(nil), w.order...)
	w.mu.Unlock()

	for _, id := range ids {
		w.watchDocument(id)
	}
}

// Unfollow stops reporting document events.
func (w *Workspace) Unfollow() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, h := range w.handles {
		_ = h.Dispose()
		delete(w.handles, id)
	}
	w.watcher = nil
	w.events = nil
}

func (w *Workspace) watchDocument(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return
	}
	if _, ok := w.handles[id]; ok {
		return
	}
	h, err := w.watcher.Watch(id, w.onFileChanged)
	if err != nil {
		w.logger.Warn().Err(err).Str("document", id).Msg("Cannot watch document")
		return
	}
	w.handles[id] = h
}

// onFileChanged reconciles a document with its file after the file system
// reported a change.
func (w *Workspace) onFileChanged(path string) {
	ctx := context.Background()
	id := filepath.Clean(path)

	data, err := w.fs.ReadFile(id)
	if err != nil {
		if _, statErr := w.fs.Stat(id); !os.IsNotExist(statErr) {
			w.logger.Warn().Err(err).Str("document", id).Msg("Cannot read changed document")
			return
		}
		w.mu.Lock()
		_, open := w.buffers[id]
		w.closeLocked(id)
		events := w.events
		w.mu.Unlock()

		if open && events != nil {
			w.logger.Info().Str("document", id).Msg("Document deleted")
			events.HandleFilesDeleted(ctx, []string{id})
		}
		return
	}

	w.mu.Lock()
	b, ok := w.buffers[id]
	if !ok {
		w.mu.Unlock()
		return
	}
	text := string(data)
	if text == b.text || hashutil.Checksum(data) == w.written[id] {
		w.mu.Unlock()
		return
	}
	b.text = text
	b.version++
	b.dirty = false
	events := w.events
	w.mu.Unlock()

	w.logger.Debug().Str("document", id).Msg("Document changed on disk")
	if events != nil {
		events.HandleSaved(ctx, id)
	}
}
