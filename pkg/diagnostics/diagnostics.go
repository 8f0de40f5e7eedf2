package diagnostics

import (
	"fmt"

	"github.com/arthur-debert/snipsync/internal/csync"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/synchronizer"
	"github.com/arthur-debert/snipsync/pkg/textdoc"
)

// Source names the producer of every diagnostic.
const Source = "snipsync"

// Severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is one positioned problem in a document.
type Diagnostic struct {
	Range    textdoc.Range    `json:"range"`
	Severity Severity         `json:"severity"`
	Code     errors.ErrorCode `json:"code"`
	Message  string           `json:"message"`
	// Ref is the snippetPath of the failing block.
	Ref string `json:"ref,omitempty"`
	// Path is the resolved source path, when resolution happened.
	Path string `json:"path,omitempty"`
}

// String formats the diagnostic as line:col severity [code] message, with
// 1-based positions.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d %s [%s] %s",
		d.Range.Start.Line+1, d.Range.Start.Column+1, d.Severity, d.Code, d.Message)
}

// FromResults maps the failed results of a pass over doc to diagnostics
// covering each failing block.
func FromResults(doc string, results []synchronizer.Result) []Diagnostic {
	var (
		diags []Diagnostic
		index *textdoc.Index
	)
	for _, r := range results {
		if r.Status != synchronizer.StatusError {
			continue
		}
		if index == nil {
			index = textdoc.NewIndex(doc)
		}
		diags = append(diags, Diagnostic{
			Range:    index.Range(r.Block.Span),
			Severity: SeverityError,
			Code:     errors.GetErrorCode(r.Err),
			Message:  errors.MessageOf(r.Err),
			Ref:      r.Block.Ref,
			Path:     r.Path,
		})
	}
	return diags
}

// Collection holds the current diagnostics of every document. It is safe
// for concurrent use.
type Collection struct {
	m *csync.Map[string, []Diagnostic]
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{m: csync.NewMap[string, []Diagnostic]()}
}

// Set replaces the diagnostics of id. An empty set removes the entry.
func (c *Collection) Set(id string, diags []Diagnostic) {
	if len(diags) == 0 {
		c.m.Delete(id)
		return
	}
	cp := make([]Diagnostic, len(diags))
	copy(cp, diags)
	c.m.Set(id, cp)
}

// Get returns the diagnostics of id.
func (c *Collection) Get(id string) []Diagnostic {
	diags, _ := c.m.Get(id)
	return diags
}

// Delete drops the diagnostics of id.
func (c *Collection) Delete(id string) {
	c.m.Delete(id)
}

// Clear drops every diagnostic.
func (c *Collection) Clear() {
	c.m.Clear()
}

// Entry pairs a document id with its diagnostics.
type Entry struct {
	ID          string       `json:"document"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// All returns every non-empty entry ordered by document id.
func (c *Collection) All() []Entry {
	var entries []Entry
	for _, id := range csync.SortedKeys(c.m) {
		if diags, ok := c.m.Get(id); ok {
			entries = append(entries, Entry{ID: id, Diagnostics: diags})
		}
	}
	return entries
}

// Count returns the number of diagnostics across all documents.
func (c *Collection) Count() int {
	n := 0
	for _, diags := range c.m.ToMap() {
		n += len(diags)
	}
	return n
}
