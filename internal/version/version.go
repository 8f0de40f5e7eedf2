// Package version holds build information for snipsync binaries.
package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/snipsync/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/snipsync/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/snipsync/internal/version.Date={{.Date}}
)
