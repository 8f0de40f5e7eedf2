package internal

import (
	"path/filepath"

	"github.com/arthur-debert/snipsync/pkg/check"
	"github.com/arthur-debert/snipsync/pkg/config"
	"github.com/arthur-debert/snipsync/pkg/engine"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/filesystem"
	"github.com/arthur-debert/snipsync/pkg/host"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/paths"
	"github.com/arthur-debert/snipsync/pkg/synchronizer"
	"github.com/arthur-debert/snipsync/pkg/types"
	"github.com/arthur-debert/snipsync/pkg/watch"
)

// SessionOptions describes the workspace a command runs against.
type SessionOptions struct {
	Paths  *paths.Paths
	Config *config.Config
	// FS defaults to the OS file system.
	FS types.FS
	// Watcher defaults to a watcher that never fires.
	Watcher watch.Watcher
	// Keep disables restoring bare references on deactivation, overriding
	// the configured cleanup.on_exit.
	Keep bool
}

// Session wires a workspace host and an engine for one command run.
type Session struct {
	Paths        *paths.Paths
	Config       *config.Config
	FS           types.FS
	Workspace    *host.Workspace
	Engine       *engine.Engine
	Synchronizer *synchronizer.Synchronizer
}

// NewSession builds the host and engine. The snippet root comes from the
// configuration.
func NewSession(opts SessionOptions) (*Session, error) {
	if opts.Paths == nil {
		return nil, errors.New(errors.ErrInvalidInput, "workspace paths are required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	w := opts.Watcher
	if w == nil {
		w = watch.Nop()
	}

	p := opts.Paths.WithSnippetRoot(cfg.Snippets.Root)
	ws := host.NewWorkspace(fsys)
	eng := engine.New(ws, fsys, p, w, engine.Options{
		Join:                cfg.JoinMode(),
		IsDocument:          cfg.IsDocument,
		CleanupOnDeactivate: cfg.Cleanup.OnExit && !opts.Keep,
	})

	logger := logging.GetLogger("commands.session")
	logger.Debug().
		Str("workspace", p.Workspace()).
		Str("snippetRoot", p.SnippetRoot()).
		Msg("Session created")

	return &Session{
		Paths:        p,
		Config:       cfg,
		FS:           fsys,
		Workspace:    ws,
		Engine:       eng,
		Synchronizer: synchronizer.New(fsys, p, synchronizer.Options{Join: cfg.JoinMode()}),
	}, nil
}

// Documents resolves the documents a command acts on. Explicit arguments
// are taken relative to the workspace and must be documents; with none,
// every document under the configured directories is used.
func (s *Session) Documents(args []string) ([]string, error) {
	if len(args) == 0 {
		return check.Discover(s.FS, check.DiscoverOptions{
			Root:       s.Paths.Workspace(),
			Dirs:       s.Config.Documents.Dirs,
			IsDocument: s.Config.IsDocument,
			Exclude:    s.Paths.SnippetRoot(),
		})
	}

	docs := make([]string, 0, len(args))
	for _, arg := range args {
		abs := s.Paths.Abs(arg)
		if !filepath.IsAbs(arg) {
			if cwdAbs, err := filepath.Abs(arg); err == nil {
				if _, statErr := s.FS.Stat(cwdAbs); statErr == nil {
					abs = cwdAbs
				}
			}
		}
		if !s.Config.IsDocument(abs) {
			return nil, errors.Newf(errors.ErrInvalidInput, "%s is not a managed document (extensions: %v)",
				arg, s.Config.Documents.Extensions).WithDetail("path", abs)
		}
		docs = append(docs, abs)
	}
	return docs, nil
}

// Rel returns a path as shown in command output.
func (s *Session) Rel(path string) string {
	return filepath.ToSlash(s.Paths.Rel(path))
}
