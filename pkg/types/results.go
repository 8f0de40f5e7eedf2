package types

import "time"

// Block statuses shown in command output.
const (
	StatusReplaced  = "replaced"
	StatusUnchanged = "unchanged"
	StatusError     = "error"
	StatusRestored  = "restored"
	StatusFound     = "found"
	StatusMissing   = "missing"
)

// DisplayResult is the top-level structure every document command renders.
type DisplayResult struct {
	Command   string            `json:"command"`
	Message   string            `json:"message,omitempty"`
	Documents []DisplayDocument `json:"documents"`
	DryRun    bool              `json:"dryRun,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// DisplayDocument is one document of a command result.
type DisplayDocument struct {
	Path    string         `json:"path"`
	Changed bool           `json:"changed"`
	Blocks  []DisplayBlock `json:"blocks"`
}

// DisplayBlock is one managed block, link or finding inside a document.
type DisplayBlock struct {
	Ref      string `json:"ref,omitempty"`
	Target   string `json:"target,omitempty"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Status   string `json:"status"`
	Severity string `json:"severity,omitempty"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
}

// GetDocumentStatus aggregates the statuses of a document's blocks:
// "alert" when any block failed, "success" when something changed or
// everything is in place, "queue" for an empty document.
func (d *DisplayDocument) GetDocumentStatus() string {
	if len(d.Blocks) == 0 {
		return "queue"
	}
	for _, b := range d.Blocks {
		if b.Status == StatusError || b.Status == StatusMissing {
			return "alert"
		}
	}
	return "success"
}

// Failed reports whether any block of any document failed.
func (r *DisplayResult) Failed() bool {
	for i := range r.Documents {
		if r.Documents[i].GetDocumentStatus() == "alert" {
			return true
		}
	}
	return false
}

// Count returns how many blocks across all documents have the status.
func (r *DisplayResult) Count(status string) int {
	n := 0
	for _, d := range r.Documents {
		for _, b := range d.Blocks {
			if b.Status == status {
				n++
			}
		}
	}
	return n
}

// GenConfigResult holds the result of the 'genconfig' command.
type GenConfigResult struct {
	ConfigContent string   `json:"configContent"`
	FilesWritten  []string `json:"filesWritten"`
}

// ExtractResult holds what a reference to a file injects.
type ExtractResult struct {
	Ref     string `json:"ref"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

// RenderResult holds a document expanded for publishing.
type RenderResult struct {
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
	// Written is the file the expansion was written to, if any.
	Written string `json:"written,omitempty"`
	// Validated is set when only the references were checked.
	Validated bool `json:"validated,omitempty"`
}
