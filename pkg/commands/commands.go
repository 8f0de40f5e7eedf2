// Package commands provides the high-level command implementations for
// snipsync.
//
// It is the orchestration layer between the CLI and the engine: each
// command builds a workspace session (host, engine, synchronizer) from the
// loaded configuration, runs, and returns a result for pkg/ui to render.
//
// Each command is implemented in its own subdirectory:
//   - syncdocs/  - SyncDocuments: one synchronization pass per document
//   - watchdocs/ - WatchDocuments: keep documents in sync until cancelled
//   - clean/     - CleanDocuments: restore bare references
//   - checkdocs/ - CheckDocuments: pre-commit injected-code check
//   - renderdoc/ - RenderDocument: build-time expansion
//   - links/     - ListLinks: snippetPath links and their targets
//   - extract/   - Extract: what a reference injects
//   - genconfig/ - GenConfig: commented configuration file
//   - internal/  - shared session wiring
//
// This file re-exports every command function.
package commands

import (
	"context"

	"github.com/arthur-debert/snipsync/pkg/commands/checkdocs"
	"github.com/arthur-debert/snipsync/pkg/commands/clean"
	"github.com/arthur-debert/snipsync/pkg/commands/extract"
	"github.com/arthur-debert/snipsync/pkg/commands/genconfig"
	"github.com/arthur-debert/snipsync/pkg/commands/links"
	"github.com/arthur-debert/snipsync/pkg/commands/renderdoc"
	"github.com/arthur-debert/snipsync/pkg/commands/syncdocs"
	"github.com/arthur-debert/snipsync/pkg/commands/watchdocs"
	"github.com/arthur-debert/snipsync/pkg/types"
)

// SyncDocuments synchronizes every managed block of the documents.
type SyncDocumentsOptions = syncdocs.SyncDocumentsOptions

func SyncDocuments(opts SyncDocumentsOptions) (*types.DisplayResult, error) {
	return syncdocs.SyncDocuments(opts)
}

// WatchDocuments keeps documents in sync until ctx is done.
type WatchDocumentsOptions = watchdocs.WatchDocumentsOptions

func WatchDocuments(ctx context.Context, opts WatchDocumentsOptions) (*types.DisplayResult, error) {
	return watchdocs.WatchDocuments(ctx, opts)
}

// CleanDocuments restores generated blocks to bare references.
type CleanDocumentsOptions = clean.CleanDocumentsOptions

func CleanDocuments(opts CleanDocumentsOptions) (*types.DisplayResult, error) {
	return clean.CleanDocuments(opts)
}

// CheckDocuments reports documents that still carry injected code.
type CheckDocumentsOptions = checkdocs.CheckDocumentsOptions

func CheckDocuments(opts CheckDocumentsOptions) (*types.DisplayResult, error) {
	return checkdocs.CheckDocuments(opts)
}

// RenderDocument expands a document for publishing.
type RenderDocumentOptions = renderdoc.RenderDocumentOptions

func RenderDocument(opts RenderDocumentOptions) (*types.RenderResult, error) {
	return renderdoc.RenderDocument(opts)
}

// ListLinks reports the snippetPath links of documents.
type ListLinksOptions = links.ListLinksOptions

func ListLinks(opts ListLinksOptions) (*types.DisplayResult, error) {
	return links.ListLinks(opts)
}

// Extract returns what a reference injects.
type ExtractOptions = extract.ExtractOptions

func Extract(opts ExtractOptions) (*types.ExtractResult, error) {
	return extract.Extract(opts)
}

// GenConfig outputs or writes the commented configuration.
type GenConfigOptions = genconfig.GenConfigOptions

func GenConfig(opts GenConfigOptions) (*types.GenConfigResult, error) {
	return genconfig.GenConfig(opts)
}
