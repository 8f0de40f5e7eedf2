package snipsync

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep code snippets in documentation in sync with their sources"
	MsgSyncShort       = "Inject the referenced code into every managed block"
	MsgWatchShort      = "Keep documents in sync while sources change"
	MsgCleanShort      = "Restore managed blocks to bare references"
	MsgCheckShort      = "Fail when documents contain injected code"
	MsgRenderShort     = "Expand a document for publishing"
	MsgLinksShort      = "List snippet references and their targets"
	MsgLinksLong       = "List every snippetPath reference of the documents with the file it resolves to, and whether that file exists."
	MsgExtractShort    = "Print what a reference to a file injects"
	MsgExtractLong     = "Print the content a managed block referencing the file would receive: its regions joined, or the whole file when it has none. The reference is resolved against the snippet root."
	MsgGenConfigShort  = "Generate the default configuration file"
	MsgGenConfigLong   = "Output the default configuration, commented out, to stdout, or write it to the workspace .snipsync.toml with -w. An existing file is never overwritten."
	MsgTopicsShort     = "List all topics or show help for a topic"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice = "\nDRY RUN MODE - No changes were made"
	MsgWatching     = "Watching for changes, press Ctrl-C to stop"
	MsgVersionLine  = "snipsync version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrInitPaths    = "failed to initialize paths: %w"
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrSync         = "failed to synchronize documents: %w"
	MsgErrWatch        = "failed to watch documents: %w"
	MsgErrClean        = "failed to clean documents: %w"
	MsgErrCheck        = "failed to check documents: %w"
	MsgErrRender       = "failed to render document: %w"
	MsgErrLinks        = "failed to list links: %w"
	MsgErrExtract      = "failed to extract snippet: %w"
	MsgErrGenConfig    = "failed to generate config: %w"
	MsgErrBlocksFailed = "%d snippet reference(s) could not be synchronized"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagWorkspace = "Workspace root (default: nearest .snipsync.toml, git root or current directory)"
	MsgFlagRoot      = "Snippet root, overriding snippets.root"
	MsgFlagFormat    = "Output format: auto, term, text, json"
	MsgFlagFormatCS  = "Output format: auto, term, text, json, checkstyle"
	MsgFlagDryRun    = "Preview changes without writing documents"
	MsgFlagKeep      = "Leave generated code in place on exit"
	MsgFlagValidate  = "Only check that every referenced file exists"
	MsgFlagOutput    = "Write the expanded document to this file"
	MsgFlagWrite     = "Write .snipsync.toml instead of printing it"

	// Debug messages
	MsgDebugWorkspace = "Debug: Using workspace: %s (fallback=%v)\n"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/sync-long.txt
	msgSyncLongRaw string
	MsgSyncLong    = strings.TrimSpace(msgSyncLongRaw)

	//go:embed msgs/sync-example.txt
	msgSyncExampleRaw string
	MsgSyncExample    = strings.TrimRight(msgSyncExampleRaw, "\n")

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/watch-example.txt
	msgWatchExampleRaw string
	MsgWatchExample    = strings.TrimRight(msgWatchExampleRaw, "\n")

	//go:embed msgs/clean-long.txt
	msgCleanLongRaw string
	MsgCleanLong    = strings.TrimSpace(msgCleanLongRaw)

	//go:embed msgs/check-long.txt
	msgCheckLongRaw string
	MsgCheckLong    = strings.TrimSpace(msgCheckLongRaw)

	//go:embed msgs/check-example.txt
	msgCheckExampleRaw string
	MsgCheckExample    = strings.TrimRight(msgCheckExampleRaw, "\n")

	//go:embed msgs/render-long.txt
	msgRenderLongRaw string
	MsgRenderLong    = strings.TrimSpace(msgRenderLongRaw)

	//go:embed msgs/render-example.txt
	msgRenderExampleRaw string
	MsgRenderExample    = strings.TrimRight(msgRenderExampleRaw, "\n")

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw) + "\n"

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
