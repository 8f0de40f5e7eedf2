package renderdoc

import (
	"github.com/arthur-debert/snipsync/pkg/commands/internal"
	"github.com/arthur-debert/snipsync/pkg/config"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/paths"
	"github.com/arthur-debert/snipsync/pkg/render"
	"github.com/arthur-debert/snipsync/pkg/types"
)

// RenderDocumentOptions defines the options for the RenderDocument command.
type RenderDocumentOptions struct {
	Paths    *paths.Paths
	Config   *config.Config
	FS       types.FS
	Document string
	// Output receives the expanded document; empty returns the content.
	Output string
	// ValidateOnly checks that every reference exists without expanding.
	ValidateOnly bool
}

// RenderDocument expands every referencing code block of a document with
// its snippet content, for publishing. Missing references fail the whole
// document.
func RenderDocument(opts RenderDocumentOptions) (*types.RenderResult, error) {
	logger := logging.GetLogger("commands.render")

	s, err := internal.NewSession(internal.SessionOptions{Paths: opts.Paths, Config: opts.Config, FS: opts.FS})
	if err != nil {
		return nil, err
	}
	docs, err := s.Documents([]string{opts.Document})
	if err != nil {
		return nil, err
	}
	doc := docs[0]

	source, err := s.FS.ReadFile(doc)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "cannot read document %s", doc)
	}
	result := &types.RenderResult{Path: s.Rel(doc)}

	if opts.ValidateOnly {
		err := render.Validate(source, func(ref string) bool {
			info, err := s.FS.Stat(s.Paths.Resolve(ref))
			return err == nil && !info.IsDir()
		})
		if err != nil {
			return nil, err
		}
		result.Validated = true
		logger.Info().Str("document", doc).Msg("References validated")
		return result, nil
	}

	out, err := render.Render(source, s.Synchronizer)
	if err != nil {
		return nil, err
	}

	if opts.Output == "" {
		result.Content = string(out)
		return result, nil
	}
	target := s.Paths.Abs(opts.Output)
	if err := s.FS.WriteFile(target, out, 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", target)
	}
	result.Written = s.Rel(target)
	logger.Info().Str("document", doc).Str("output", target).Msg("Document rendered")
	return result, nil
}
