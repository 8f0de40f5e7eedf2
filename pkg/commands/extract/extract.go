package extract

import (
	"github.com/arthur-debert/snipsync/pkg/commands/internal"
	"github.com/arthur-debert/snipsync/pkg/config"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/paths"
	"github.com/arthur-debert/snipsync/pkg/types"
)

// ExtractOptions defines the options for the Extract command.
type ExtractOptions struct {
	Paths  *paths.Paths
	Config *config.Config
	FS     types.FS
	// Ref is a snippetPath value, resolved against the snippet root.
	Ref string
}

// Extract returns what a managed block referencing Ref would inject.
func Extract(opts ExtractOptions) (*types.ExtractResult, error) {
	s, err := internal.NewSession(internal.SessionOptions{Paths: opts.Paths, Config: opts.Config, FS: opts.FS})
	if err != nil {
		return nil, err
	}

	content, err := s.Synchronizer.Content(opts.Ref)
	if err != nil {
		return nil, err
	}
	logger := logging.GetLogger("commands.extract")
	logger.Debug().Str("ref", opts.Ref).Int("bytes", len(content)).Msg("Snippet extracted")

	return &types.ExtractResult{
		Ref:     opts.Ref,
		Path:    s.Rel(s.Paths.Resolve(opts.Ref)),
		Content: content,
	}, nil
}
