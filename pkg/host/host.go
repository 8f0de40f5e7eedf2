package host

import (
	"context"

	"github.com/arthur-debert/snipsync/pkg/diagnostics"
	"github.com/arthur-debert/snipsync/pkg/textdoc"
)

// Document is a snapshot of an open document.
type Document struct {
	ID   string
	Text string
	// Version increases with every change to Text. Edits computed against
	// one version are rejected once the document moved on.
	Version int
}

// Host supplies documents to the engine and carries out its edits.
type Host interface {
	// Document returns the current snapshot of an open document.
	Document(ctx context.Context, id string) (Document, error)
	// ApplyEdits applies non-overlapping edits atomically. It fails with
	// an ErrStale coded error when the document is no longer at version.
	ApplyEdits(ctx context.Context, id string, version int, edits []textdoc.Edit) error
	// Save persists the document.
	Save(ctx context.Context, id string) error
	// VisibleDocuments lists the open documents in display order.
	VisibleDocuments(ctx context.Context) ([]string, error)
	// ActiveDocument returns the focused document, if any.
	ActiveDocument(ctx context.Context) (string, bool)
	// PublishDiagnostics replaces the diagnostics shown for id.
	PublishDiagnostics(id string, diags []diagnostics.Diagnostic)
	// Notify shows an informational message.
	Notify(msg string)
}

// Events receives the document events a host observes.
type Events interface {
	HandleActiveChanged(ctx context.Context, id string)
	HandleSaved(ctx context.Context, id string)
	HandleFilesDeleted(ctx context.Context, ids []string)
}
