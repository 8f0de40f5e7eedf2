package synchronizer

import (
	"github.com/arthur-debert/snipsync/pkg/fence"
	"github.com/arthur-debert/snipsync/pkg/textdoc"
)

// Status is the outcome of synchronizing one block.
type Status int

const (
	// StatusUnchanged means the block already holds its canonical text.
	StatusUnchanged Status = iota
	// StatusReplaced means the block gets new content.
	StatusReplaced
	// StatusError means the block could not be synchronized; a degraded
	// replacement may still apply.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusReplaced:
		return "replaced"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome for one block.
type Result struct {
	Block  fence.Block
	Status Status
	// Old is the block text the pass started from.
	Old string
	// NewText is what the block's span holds after the pass.
	NewText string
	// Path is the resolved absolute reference path, empty when the block
	// failed before resolution.
	Path string
	// Err is a *errors.SnipError when Status is StatusError.
	Err error
}

// Changed reports whether the result requires an edit.
func (r Result) Changed() bool {
	return r.NewText != r.Old
}

// Edit returns the edit for this result.
func (r Result) Edit() textdoc.Edit {
	return textdoc.Edit{Span: r.Block.Span, NewText: r.NewText}
}

// Pass holds the results of one scan over a document.
type Pass struct {
	Doc     string
	Results []Result
}

// Edits returns the document-wide edit set, in document order.
func (p *Pass) Edits() []textdoc.Edit {
	var edits []textdoc.Edit
	for _, r := range p.Results {
		if r.Changed() {
			edits = append(edits, r.Edit())
		}
	}
	return edits
}

// Changed reports whether any block needs an edit.
func (p *Pass) Changed() bool {
	for _, r := range p.Results {
		if r.Changed() {
			return true
		}
	}
	return false
}

// Errors returns the failed results.
func (p *Pass) Errors() []Result {
	var out []Result
	for _, r := range p.Results {
		if r.Status == StatusError {
			out = append(out, r)
		}
	}
	return out
}

// Count returns how many results have the given status.
func (p *Pass) Count(s Status) int {
	n := 0
	for _, r := range p.Results {
		if r.Status == s {
			n++
		}
	}
	return n
}

// Apply returns the document with every edit applied.
func (p *Pass) Apply() (string, error) {
	return textdoc.Apply(p.Doc, p.Edits())
}
