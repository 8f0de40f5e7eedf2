// Package styles is the named lipgloss style registry used by the
// terminal renderer and the CLI. Colors are adaptive (light and dark
// variants). Defaults come from the embedded styles.yaml; a user file
// named by SNIPSYNC_STYLES replaces them.
package styles

import (
	_ "embed"
	"os"
	"sync"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// EnvStylesFile names a YAML file that replaces the embedded styles.
const EnvStylesFile = "SNIPSYNC_STYLES"

//go:embed styles.yaml
var defaultStyles []byte

type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is one entry of the styles section. Foreground and
// Background name an entry of the colors section.
type StyleDef struct {
	Bold         bool   `yaml:"bold,omitempty"`
	Italic       bool   `yaml:"italic,omitempty"`
	Underline    bool   `yaml:"underline,omitempty"`
	Foreground   string `yaml:"foreground,omitempty"`
	Background   string `yaml:"background,omitempty"`
	Width        int    `yaml:"width,omitempty"`
	MarginLeft   int    `yaml:"marginLeft,omitempty"`
	MarginBottom int    `yaml:"marginBottom,omitempty"`
	MarginTop    int    `yaml:"marginTop,omitempty"`
}

type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

var (
	mu       sync.RWMutex
	registry map[string]lipgloss.Style
)

func init() {
	if err := LoadStyles(defaultStyles); err != nil {
		panic("embedded styles: " + err.Error())
	}
}

// LoadFromEnv applies the file named by EnvStylesFile, if any.
func LoadFromEnv() error {
	path := os.Getenv(EnvStylesFile)
	if path == "" {
		return nil
	}
	return LoadStylesFile(path)
}

// LoadStylesFile replaces the registry with the styles of a YAML file.
func LoadStylesFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNotFound, "read styles file %s", path)
	}
	return LoadStyles(data)
}

// LoadStyles replaces the registry with the styles of a YAML document.
// On error the registry is left as it was.
func LoadStyles(data []byte) error {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return errors.Wrap(err, errors.ErrConfigParse, "parse styles")
	}

	next := make(map[string]lipgloss.Style, len(cfg.Styles))
	for name, def := range cfg.Styles {
		next[name] = def.build(cfg.Colors)
	}

	mu.Lock()
	registry = next
	mu.Unlock()
	return nil
}

func (d StyleDef) build(colors map[string]ColorDef) lipgloss.Style {
	s := lipgloss.NewStyle()
	// Only true flags are set; an explicit false would block Inherit.
	if d.Bold {
		s = s.Bold(true)
	}
	if d.Italic {
		s = s.Italic(true)
	}
	if d.Underline {
		s = s.Underline(true)
	}
	if c, ok := colors[d.Foreground]; ok {
		s = s.Foreground(lipgloss.AdaptiveColor{Light: c.Light, Dark: c.Dark})
	}
	if c, ok := colors[d.Background]; ok {
		s = s.Background(lipgloss.AdaptiveColor{Light: c.Light, Dark: c.Dark})
	}
	for _, apply := range []struct {
		n   int
		set func(lipgloss.Style, int) lipgloss.Style
	}{
		{d.Width, func(s lipgloss.Style, n int) lipgloss.Style { return s.Width(n) }},
		{d.MarginLeft, func(s lipgloss.Style, n int) lipgloss.Style { return s.MarginLeft(n) }},
		{d.MarginTop, func(s lipgloss.Style, n int) lipgloss.Style { return s.MarginTop(n) }},
		{d.MarginBottom, func(s lipgloss.Style, n int) lipgloss.Style { return s.MarginBottom(n) }},
	} {
		if apply.n > 0 {
			s = apply.set(s, apply.n)
		}
	}
	return s
}

func Has(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[name]
	return ok
}

// GetStyle returns the named style, or an empty style that renders
// text unchanged.
func GetStyle(name string) lipgloss.Style {
	mu.RLock()
	defer mu.RUnlock()
	if s, ok := registry[name]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// MergeStyles layers the named styles; earlier names win.
func MergeStyles(names ...string) lipgloss.Style {
	out := lipgloss.NewStyle()
	for _, n := range names {
		out = out.Inherit(GetStyle(n))
	}
	return out
}

var statusStyles = map[string]string{
	"replaced": "Success", "restored": "Success", "found": "Success", "success": "Success",
	"error": "Error", "missing": "Error", "alert": "Error",
	"unchanged": "Muted", "queue": "Muted",
}

// ForStatus maps a block or document status to its style. Unknown
// statuses render as Info.
func ForStatus(status string) lipgloss.Style {
	if name, ok := statusStyles[status]; ok {
		return GetStyle(name)
	}
	return GetStyle("Info")
}
