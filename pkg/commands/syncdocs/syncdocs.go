package syncdocs

import (
	"context"
	"time"

	"github.com/arthur-debert/snipsync/pkg/commands/internal"
	"github.com/arthur-debert/snipsync/pkg/config"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/paths"
	"github.com/arthur-debert/snipsync/pkg/synchronizer"
	"github.com/arthur-debert/snipsync/pkg/types"
)

// SyncDocumentsOptions defines the options for the SyncDocuments command.
type SyncDocumentsOptions struct {
	Paths  *paths.Paths
	Config *config.Config
	FS     types.FS
	// Documents are the documents to synchronize; empty means every
	// document of the workspace.
	Documents []string
	// DryRun reports what would change without writing.
	DryRun bool
}

// SyncDocuments runs one synchronization pass over each document, writing
// the ones that change.
func SyncDocuments(opts SyncDocumentsOptions) (*types.DisplayResult, error) {
	logger := logging.GetLogger("commands.sync")
	logger.Debug().Strs("documents", opts.Documents).Bool("dryRun", opts.DryRun).Msg("Executing command")
	defer logging.LogOperationStart(logger, "sync")()

	s, err := internal.NewSession(internal.SessionOptions{Paths: opts.Paths, Config: opts.Config, FS: opts.FS})
	if err != nil {
		return nil, err
	}
	docs, err := s.Documents(opts.Documents)
	if err != nil {
		return nil, err
	}

	result := &types.DisplayResult{
		Command:   "sync",
		Documents: make([]types.DisplayDocument, 0, len(docs)),
		DryRun:    opts.DryRun,
		Timestamp: time.Now(),
	}

	ctx := context.Background()
	for _, doc := range docs {
		pass, err := run(ctx, s, doc, opts.DryRun)
		if err != nil {
			return nil, err
		}

		text, applied := pass.Doc, false
		if !opts.DryRun && pass.Changed() {
			if text, err = pass.Apply(); err != nil {
				return nil, err
			}
			applied = true
		}
		result.Documents = append(result.Documents, types.DisplayDocument{
			Path:    s.Rel(doc),
			Changed: pass.Changed(),
			Blocks:  internal.BlocksFromResults(text, pass.Results, applied),
		})
	}

	logger.Info().
		Int("documents", len(result.Documents)).
		Int("replaced", result.Count(types.StatusReplaced)).
		Int("errors", result.Count(types.StatusError)).
		Msg("Command finished")
	return result, nil
}

func run(ctx context.Context, s *internal.Session, doc string, dryRun bool) (*synchronizer.Pass, error) {
	if dryRun {
		data, err := s.FS.ReadFile(doc)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "cannot read document %s", doc)
		}
		return s.Synchronizer.Sync(string(data)), nil
	}
	if err := s.Workspace.Open(doc); err != nil {
		return nil, err
	}
	return s.Engine.SyncDocument(ctx, doc)
}
