package watchdocs

import (
	"context"
	"time"

	"github.com/arthur-debert/snipsync/pkg/commands/internal"
	"github.com/arthur-debert/snipsync/pkg/config"
	"github.com/arthur-debert/snipsync/pkg/diagnostics"
	"github.com/arthur-debert/snipsync/pkg/engine"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/paths"
	"github.com/arthur-debert/snipsync/pkg/types"
	"github.com/arthur-debert/snipsync/pkg/watch"
)

// WatchDocumentsOptions defines the options for the WatchDocuments command.
type WatchDocumentsOptions struct {
	Paths     *paths.Paths
	Config    *config.Config
	FS        types.FS
	Documents []string
	// Keep leaves synchronized blocks in place on exit.
	Keep bool
	// Watcher defaults to an fsnotify watcher using the configured
	// debounce; a watcher created here is closed on return.
	Watcher watch.Watcher

	// OnNotify receives engine notifications.
	OnNotify func(msg string)
	// OnDiagnostics receives every diagnostics publication, with the
	// document path as shown in output.
	OnDiagnostics func(path string, blocks []types.DisplayBlock)
	// OnReady is called once the engine is active and every document has
	// been synchronized.
	OnReady func()
}

// WatchDocuments activates the engine over the documents and keeps them in
// sync with their sources until ctx is done. The engine is then
// deactivated, which restores bare references unless Keep is set. The
// result holds the diagnostics standing at the time ctx ended.
func WatchDocuments(ctx context.Context, opts WatchDocumentsOptions) (*types.DisplayResult, error) {
	logger := logging.GetLogger("commands.watch")

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	w := opts.Watcher
	if w == nil {
		fsw, err := watch.NewFSNotify(cfg.Watch.Debounce)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrWatch, "cannot start file watcher")
		}
		defer func() {
			if err := fsw.Close(); err != nil {
				logger.Warn().Err(err).Msg("Closing file watcher failed")
			}
		}()
		w = fsw
	}

	s, err := internal.NewSession(internal.SessionOptions{
		Paths:   opts.Paths,
		Config:  cfg,
		FS:      opts.FS,
		Watcher: w,
		Keep:    opts.Keep,
	})
	if err != nil {
		return nil, err
	}
	docs, err := s.Documents(opts.Documents)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.New(errors.ErrNoActive, "no documents to watch")
	}

	if opts.OnNotify != nil {
		s.Workspace.SetNotifier(opts.OnNotify)
	}
	if opts.OnDiagnostics != nil {
		s.Workspace.SetDiagnosticsListener(func(id string, diags []diagnostics.Diagnostic) {
			opts.OnDiagnostics(s.Rel(id), internal.BlocksFromDiagnostics(diags))
		})
	}

	if err := s.Workspace.Open(docs...); err != nil {
		return nil, err
	}
	s.Workspace.Follow(w, s.Engine)
	defer s.Workspace.Unfollow()

	if err := s.Engine.Activate(ctx); err != nil {
		return nil, err
	}
	for _, doc := range docs[1:] {
		if _, err := s.Engine.SyncDocument(ctx, doc); err != nil {
			logger.Warn().Err(err).Str("document", doc).Msg("Initial sync failed")
		}
	}

	logger.Info().
		Int("documents", len(docs)).
		Int("sources", len(s.Engine.WatchedPaths())).
		Msg("Watching documents")
	if opts.OnReady != nil {
		opts.OnReady()
	}

	<-ctx.Done()

	result := snapshot(s)
	if err := s.Engine.Deactivate(context.Background()); err != nil {
		return result, err
	}
	result.Message = engine.MsgDeactivated
	logger.Info().Msg("Command finished")
	return result, nil
}

func snapshot(s *internal.Session) *types.DisplayResult {
	result := &types.DisplayResult{
		Command:   "watch",
		Documents: []types.DisplayDocument{},
		Timestamp: time.Now(),
	}
	for _, entry := range s.Engine.Diagnostics().All() {
		result.Documents = append(result.Documents, types.DisplayDocument{
			Path:   s.Rel(entry.ID),
			Blocks: internal.BlocksFromDiagnostics(entry.Diagnostics),
		})
	}
	return result
}
