package fence

import "github.com/arthur-debert/snipsync/pkg/textdoc"

// StripEdits returns the edits that reduce every exactly-wrapped block of
// text back to a bare reference. Blocks without the wrapper, or with
// hand-written lines around it, are left alone.
func StripEdits(text string) []textdoc.Edit {
	var edits []textdoc.Edit
	for _, b := range Locate(text) {
		if !b.Generated || !b.Exact {
			continue
		}
		edits = append(edits, textdoc.Edit{Span: b.Span, NewText: b.Bare()})
	}
	return edits
}

// Strip applies StripEdits and reports how many blocks were restored.
func Strip(text string) (string, int) {
	edits := StripEdits(text)
	if len(edits) == 0 {
		return text, 0
	}
	out, err := textdoc.Apply(text, edits)
	if err != nil {
		// Locate never yields overlapping spans.
		return text, 0
	}
	return out, len(edits)
}
