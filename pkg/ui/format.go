package ui

import (
	"os"
	"strings"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects a Renderer.
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText from the output.
	FormatAuto Format = iota
	FormatTerminal
	FormatText
	FormatJSON
	// FormatCheckstyle is a checkstyle XML report, for CI annotations.
	FormatCheckstyle
)

// formatNames holds the canonical name first, then accepted aliases.
var formatNames = map[Format][]string{
	FormatAuto:       {"auto", ""},
	FormatTerminal:   {"term", "terminal"},
	FormatText:       {"text", "plain"},
	FormatJSON:       {"json"},
	FormatCheckstyle: {"checkstyle", "xml"},
}

// FormatNames lists the canonical format names, for flag help and
// completion.
func FormatNames() []string {
	out := make([]string, 0, len(formatNames))
	for f := FormatAuto; f <= FormatCheckstyle; f++ {
		out = append(out, formatNames[f][0])
	}
	return out
}

func (f Format) String() string {
	if names, ok := formatNames[f]; ok {
		return names[0]
	}
	return "unknown"
}

// ParseFormat accepts a canonical name or alias, case-insensitively.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, names := range formatNames {
		for _, n := range names {
			if n == s {
				return f, nil
			}
		}
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format %q (want one of %s)",
		s, strings.Join(FormatNames(), ", "))
}

// DetectFormat resolves FormatAuto for an output file. Anything that is
// not a color-capable terminal, or any NO_COLOR setting, gets plain text.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.NewOutput(output).Profile == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
