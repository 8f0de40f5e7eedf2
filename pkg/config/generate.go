package config

import (
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const generatedHeader = "# snipsync configuration. Uncomment a value to override it."

// GenerateConfigContent renders cfg as a .snipsync.toml laid out like the
// embedded defaults, documentation comments included, with every value
// commented out.
func GenerateConfigContent(cfg *Config) (string, error) {
	encoded, err := toml.Marshal(map[string]map[string]interface{}{
		"snippets":  {"root": cfg.Snippets.Root, "join": cfg.Snippets.Join},
		"documents": {"extensions": cfg.Documents.Extensions, "dirs": cfg.Documents.Dirs},
		"watch":     {"debounce": cfg.Watch.Debounce.String()},
		"cleanup":   {"on_exit": cfg.Cleanup.OnExit},
	})
	if err != nil {
		return "", fmt.Errorf("render configuration: %w", err)
	}
	current := assignments(string(encoded))

	lines := strings.Split(strings.TrimRight(string(defaultConfig), "\n"), "\n")
	out := []string{generatedHeader}
	section := ""
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case i == 0 && strings.HasPrefix(trimmed, "#"):
			// the defaults' own header
		case strings.HasPrefix(trimmed, "["):
			section = strings.Trim(trimmed, "[]")
			out = append(out, line)
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			out = append(out, line)
		default:
			if v, ok := current[section+"."+keyOf(trimmed)]; ok {
				line = v
			}
			out = append(out, "# "+line)
		}
	}
	return strings.Join(out, "\n") + "\n", nil
}

// assignments indexes the "key = value" lines of a TOML document by
// section.key.
func assignments(doc string) map[string]string {
	found := map[string]string{}
	section := ""
	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "["):
			section = strings.Trim(trimmed, "[]")
		case strings.Contains(trimmed, "="):
			found[section+"."+keyOf(trimmed)] = trimmed
		}
	}
	return found
}

func keyOf(assignment string) string {
	key, _, _ := strings.Cut(assignment, "=")
	return strings.TrimSpace(key)
}
