package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/snipsync/pkg/region"
)

// Config is the resolved snipsync configuration.
type Config struct {
	Snippets  Snippets  `koanf:"snippets"`
	Documents Documents `koanf:"documents"`
	Watch     Watch     `koanf:"watch"`
	Cleanup   Cleanup   `koanf:"cleanup"`
}

// Snippets holds reference resolution settings
type Snippets struct {
	Root string `koanf:"root"`
	Join string `koanf:"join"`
}

// Documents selects the files that carry managed blocks
type Documents struct {
	Extensions []string `koanf:"extensions"`
	Dirs       []string `koanf:"dirs"`
}

// Watch holds watch mode settings
type Watch struct {
	Debounce time.Duration `koanf:"debounce"`
}

// Cleanup holds teardown settings
type Cleanup struct {
	OnExit bool `koanf:"on_exit"`
}

// JoinMode returns the validated region join mode.
func (c *Config) JoinMode() region.JoinMode {
	mode, err := region.ParseJoinMode(c.Snippets.Join)
	if err != nil {
		return region.JoinConcat
	}
	return mode
}

// IsDocument reports whether path has one of the configured document
// extensions.
func (c *Config) IsDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Documents.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool)
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}
