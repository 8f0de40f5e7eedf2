package internal

import (
	"github.com/arthur-debert/snipsync/pkg/diagnostics"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/synchronizer"
	"github.com/arthur-debert/snipsync/pkg/textdoc"
	"github.com/arthur-debert/snipsync/pkg/types"
)

// BlocksFromResults converts a pass into display blocks, one per managed
// block, positioned at the block's opening line in text. When applied is
// set, text is the document after the pass's edits and block offsets are
// shifted accordingly.
func BlocksFromResults(text string, results []synchronizer.Result, applied bool) []types.DisplayBlock {
	if len(results) == 0 {
		return nil
	}
	index := textdoc.NewIndex(text)
	blocks := make([]types.DisplayBlock, 0, len(results))
	delta := 0
	for _, r := range results {
		pos := index.PositionAt(r.Block.Span.Start + delta)
		if applied && r.Changed() {
			delta += len(r.NewText) - r.Block.Span.Len()
		}
		b := types.DisplayBlock{
			Ref:    r.Block.Ref,
			Line:   pos.Line + 1,
			Column: pos.Column + 1,
		}
		switch r.Status {
		case synchronizer.StatusReplaced:
			b.Status = types.StatusReplaced
		case synchronizer.StatusUnchanged:
			b.Status = types.StatusUnchanged
		default:
			b.Status = types.StatusError
			b.Severity = diagnostics.SeverityError.String()
			b.Code = string(errors.GetErrorCode(r.Err))
			b.Message = errors.MessageOf(r.Err)
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// BlocksFromDiagnostics converts published diagnostics into error blocks.
func BlocksFromDiagnostics(diags []diagnostics.Diagnostic) []types.DisplayBlock {
	blocks := make([]types.DisplayBlock, 0, len(diags))
	for _, d := range diags {
		blocks = append(blocks, types.DisplayBlock{
			Ref:      d.Ref,
			Line:     d.Range.Start.Line + 1,
			Column:   d.Range.Start.Column + 1,
			Status:   types.StatusError,
			Severity: d.Severity.String(),
			Code:     string(d.Code),
			Message:  d.Message,
		})
	}
	return blocks
}
