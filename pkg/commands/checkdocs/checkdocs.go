package checkdocs

import (
	"github.com/arthur-debert/snipsync/pkg/check"
	"github.com/arthur-debert/snipsync/pkg/commands/internal"
	"github.com/arthur-debert/snipsync/pkg/config"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/paths"
	"github.com/arthur-debert/snipsync/pkg/types"
)

// CheckDocumentsOptions defines the options for the CheckDocuments command.
type CheckDocumentsOptions struct {
	Paths     *paths.Paths
	Config    *config.Config
	FS        types.FS
	Documents []string
}

// CheckDocuments reports documents that still carry injected code. The
// result's Failed method tells whether the check failed.
func CheckDocuments(opts CheckDocumentsOptions) (*types.DisplayResult, error) {
	logger := logging.GetLogger("commands.check")
	logger.Debug().Strs("documents", opts.Documents).Msg("Executing command")

	s, err := internal.NewSession(internal.SessionOptions{Paths: opts.Paths, Config: opts.Config, FS: opts.FS})
	if err != nil {
		return nil, err
	}
	docs, err := s.Documents(opts.Documents)
	if err != nil {
		return nil, err
	}
	return check.Run(s.FS, check.Options{Documents: docs, Rel: s.Rel})
}
