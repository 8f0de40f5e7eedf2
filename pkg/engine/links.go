package engine

import (
	"context"

	"github.com/arthur-debert/snipsync/pkg/fence"
	"github.com/arthur-debert/snipsync/pkg/textdoc"
)

// DocumentLink is a clickable snippetPath attribute whose target exists.
type DocumentLink struct {
	Range  textdoc.Range `json:"range"`
	Ref    string        `json:"ref"`
	Target string        `json:"target"`
}

// Links returns the document links of id. Attributes whose target does not
// exist produce no link.
func (e *Engine) Links(ctx context.Context, id string) ([]DocumentLink, error) {
	doc, err := e.host.Document(ctx, id)
	if err != nil {
		return nil, err
	}
	return LinksIn(doc.Text, e.resolver.Resolve, e.exists), nil
}

// LinksIn computes the document links of text.
func LinksIn(text string, resolve func(ref string) string, exists func(path string) bool) []DocumentLink {
	var (
		links []DocumentLink
		index *textdoc.Index
	)
	for _, l := range fence.Links(text) {
		target := resolve(l.Ref)
		if !exists(target) {
			continue
		}
		if index == nil {
			index = textdoc.NewIndex(text)
		}
		links = append(links, DocumentLink{Range: index.Range(l.Span), Ref: l.Ref, Target: target})
	}
	return links
}

func (e *Engine) exists(path string) bool {
	info, err := e.fs.Stat(path)
	return err == nil && !info.IsDir()
}

// Clean restores every generated block of id to a bare reference and saves
// the document. It returns the number of blocks restored.
func (e *Engine) Clean(ctx context.Context, id string) (int, error) {
	unlock := e.lock(id)
	defer unlock()

	doc, err := e.host.Document(ctx, id)
	if err != nil {
		return 0, err
	}
	edits := fence.StripEdits(doc.Text)
	if len(edits) == 0 {
		return 0, nil
	}
	if err := e.applyAndSave(ctx, doc, edits); err != nil {
		return 0, err
	}
	e.logger.Debug().Str("document", id).Int("blocks", len(edits)).Msg("Restored bare references")
	return len(edits), nil
}
