package links

import (
	"time"

	"github.com/arthur-debert/snipsync/pkg/commands/internal"
	"github.com/arthur-debert/snipsync/pkg/config"
	"github.com/arthur-debert/snipsync/pkg/engine"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/fence"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/paths"
	"github.com/arthur-debert/snipsync/pkg/textdoc"
	"github.com/arthur-debert/snipsync/pkg/types"
)

// ListLinksOptions defines the options for the ListLinks command.
type ListLinksOptions struct {
	Paths     *paths.Paths
	Config    *config.Config
	FS        types.FS
	Documents []string
}

// ListLinks reports every snippetPath attribute of the documents. Those
// whose target exists are the document links an editor would show; the
// rest are reported as missing.
func ListLinks(opts ListLinksOptions) (*types.DisplayResult, error) {
	logger := logging.GetLogger("commands.links")

	s, err := internal.NewSession(internal.SessionOptions{Paths: opts.Paths, Config: opts.Config, FS: opts.FS})
	if err != nil {
		return nil, err
	}
	docs, err := s.Documents(opts.Documents)
	if err != nil {
		return nil, err
	}

	result := &types.DisplayResult{
		Command:   "links",
		Documents: make([]types.DisplayDocument, 0, len(docs)),
		Timestamp: time.Now(),
	}
	for _, doc := range docs {
		data, err := s.FS.ReadFile(doc)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "cannot read document %s", doc)
		}
		text := string(data)

		found := make(map[textdoc.Position]bool)
		for _, l := range engine.LinksIn(text, s.Paths.Resolve, exists(s.FS)) {
			found[l.Range.Start] = true
		}

		index := textdoc.NewIndex(text)
		d := types.DisplayDocument{Path: s.Rel(doc)}
		for _, l := range fence.Links(text) {
			r := index.Range(l.Span)
			b := types.DisplayBlock{
				Ref:    l.Ref,
				Line:   r.Start.Line + 1,
				Column: r.Start.Column + 1,
				Target: s.Rel(s.Paths.Resolve(l.Ref)),
				Status: types.StatusMissing,
			}
			if found[r.Start] {
				b.Status = types.StatusFound
			}
			d.Blocks = append(d.Blocks, b)
		}
		result.Documents = append(result.Documents, d)
	}

	logger.Info().Int("found", result.Count(types.StatusFound)).Int("missing", result.Count(types.StatusMissing)).
		Msg("Command finished")
	return result, nil
}

func exists(fsys types.ReadFS) func(path string) bool {
	return func(path string) bool {
		info, err := fsys.Stat(path)
		return err == nil && !info.IsDir()
	}
}
