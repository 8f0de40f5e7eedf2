package clean

import (
	"context"
	"strings"
	"time"

	"github.com/arthur-debert/snipsync/pkg/commands/internal"
	"github.com/arthur-debert/snipsync/pkg/config"
	"github.com/arthur-debert/snipsync/pkg/fence"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/paths"
	"github.com/arthur-debert/snipsync/pkg/textdoc"
	"github.com/arthur-debert/snipsync/pkg/types"
)

// CleanDocumentsOptions defines the options for the CleanDocuments command.
type CleanDocumentsOptions struct {
	Paths     *paths.Paths
	Config    *config.Config
	FS        types.FS
	Documents []string
	DryRun    bool
}

// CleanDocuments restores every generated block to a bare reference.
// Documents without generated blocks are left out of the result.
func CleanDocuments(opts CleanDocumentsOptions) (*types.DisplayResult, error) {
	logger := logging.GetLogger("commands.clean")
	logger.Debug().Strs("documents", opts.Documents).Bool("dryRun", opts.DryRun).Msg("Executing command")
	defer logging.LogOperationStart(logger, "clean")()

	s, err := internal.NewSession(internal.SessionOptions{Paths: opts.Paths, Config: opts.Config, FS: opts.FS})
	if err != nil {
		return nil, err
	}
	docs, err := s.Documents(opts.Documents)
	if err != nil {
		return nil, err
	}

	result := &types.DisplayResult{
		Command:   "clean",
		Documents: []types.DisplayDocument{},
		DryRun:    opts.DryRun,
		Timestamp: time.Now(),
	}

	ctx := context.Background()
	for _, doc := range docs {
		if err := s.Workspace.Open(doc); err != nil {
			return nil, err
		}
		current, err := s.Workspace.Document(ctx, doc)
		if err != nil {
			return nil, err
		}

		edits := fence.StripEdits(current.Text)
		if len(edits) == 0 {
			continue
		}
		if !opts.DryRun {
			if _, err := s.Engine.Clean(ctx, doc); err != nil {
				return nil, err
			}
		}
		result.Documents = append(result.Documents, types.DisplayDocument{
			Path:    s.Rel(doc),
			Changed: true,
			Blocks:  restored(current.Text, edits),
		})
	}

	logger.Info().Int("documents", len(result.Documents)).Int("restored", result.Count(types.StatusRestored)).
		Msg("Command finished")
	return result, nil
}

func restored(text string, edits []textdoc.Edit) []types.DisplayBlock {
	index := textdoc.NewIndex(text)
	blocks := make([]types.DisplayBlock, 0, len(edits))
	for _, e := range edits {
		pos := index.PositionAt(e.Span.Start)
		open, _, _ := strings.Cut(e.NewText, "\n")
		ref, _ := fence.RefFromInfo(open)
		blocks = append(blocks, types.DisplayBlock{
			Ref:    ref,
			Line:   pos.Line + 1,
			Column: pos.Column + 1,
			Status: types.StatusRestored,
		})
	}
	return blocks
}
