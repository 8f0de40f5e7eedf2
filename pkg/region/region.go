package region

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/arthur-debert/snipsync/pkg/errors"
)

const (
	// StartMarker opens a region once whitespace is removed from the line.
	StartMarker = "//[[start]]"
	// EndMarker closes the innermost open region.
	EndMarker = "//[[end]]"
)

// JoinMode decides how several top-level regions of one file are combined.
type JoinMode string

const (
	// JoinConcat joins every top-level region with a newline.
	JoinConcat JoinMode = "concat"
	// JoinFirst keeps only the first top-level region.
	JoinFirst JoinMode = "first"
)

// ParseJoinMode validates a configured join mode. The empty string selects
// JoinConcat.
func ParseJoinMode(s string) (JoinMode, error) {
	switch JoinMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", JoinConcat:
		return JoinConcat, nil
	case JoinFirst:
		return JoinFirst, nil
	default:
		return "", errors.Newf(errors.ErrConfigValid, "unknown region join mode %q (want %q or %q)", s, JoinConcat, JoinFirst)
	}
}

// Options tunes extraction.
type Options struct {
	Join JoinMode
}

// Region is one resolved region of a source file.
type Region struct {
	// Lines holds the dedented content, nested regions already spliced in.
	Lines []string
	// Depth is the nesting depth at extraction time, 0 for top-level regions.
	Depth int
	// StartLine and EndLine are the 1-based lines of the markers.
	StartLine int
	EndLine   int
}

// Text returns the region content joined with newlines.
func (r Region) Text() string {
	return strings.Join(r.Lines, "\n")
}

type markerKind int

const (
	noMarker markerKind = iota
	openMarker
	closeMarker
)

// frame is a suspended region buffer while an inner region is parsed.
type frame struct {
	lines     []string
	indent    int
	startLine int
}

func classify(line string) markerKind {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, line)
	switch {
	case strings.HasPrefix(compact, StartMarker):
		return openMarker
	case strings.HasPrefix(compact, EndMarker):
		return closeMarker
	default:
		return noMarker
	}
}

// HasMarkers reports whether text contains at least one region marker line.
func HasMarkers(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if classify(line) != noMarker {
			return true
		}
	}
	return false
}

func leadingWhitespace(line string) int {
	return len(line) - len(strings.TrimLeftFunc(line, unicode.IsSpace))
}

// dedent removes at most width bytes of leading whitespace.
func dedent(line string, width int) string {
	ws := leadingWhitespace(line)
	if ws > width {
		ws = width
	}
	return line[ws:]
}

// Parse resolves every region of text. The result is flat and ordered by
// closing marker, so inner regions precede the region that contains them.
// Unmatched markers fail the whole file.
func Parse(text string) ([]Region, error) {
	var (
		stack   []frame
		regions []Region
		current frame
	)

	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		switch classify(line) {
		case openMarker:
			stack = append(stack, current)
			current = frame{indent: leadingWhitespace(line), startLine: lineNo}
		case closeMarker:
			if len(stack) == 0 {
				return nil, errors.Newf(errors.ErrUnmatchedClose, "unmatched [[end]] tag found on line %d", lineNo).
					WithDetail("line", lineNo)
			}
			depth := len(stack) - 1
			content := strings.Join(current.lines, "\n")
			regions = append(regions, Region{
				Lines:     current.lines,
				Depth:     depth,
				StartLine: current.startLine,
				EndLine:   lineNo,
			})
			parent := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if depth > 0 {
				parent.lines = append(parent.lines, content)
			}
			current = parent
		default:
			if len(stack) == 0 {
				continue
			}
			current.lines = append(current.lines, dedent(line, current.indent))
		}
	}

	if len(stack) > 0 {
		return nil, errors.Newf(errors.ErrUnmatchedOpen, "unmatched [[start]] tag found on line %d", current.startLine).
			WithDetail("line", current.startLine)
	}
	return regions, nil
}

// Extract returns what a reference to a file with this text injects: the
// whole text when it carries no markers, otherwise its top-level regions
// combined according to opts.Join.
func Extract(text string, opts Options) (string, error) {
	if !HasMarkers(text) {
		return text, nil
	}
	regions, err := Parse(text)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, r := range regions {
		if r.Depth != 0 {
			continue
		}
		parts = append(parts, r.Text())
		if opts.Join == JoinFirst {
			break
		}
	}
	return strings.Join(parts, "\n"), nil
}

// String implements fmt.Stringer for debugging output.
func (r Region) String() string {
	return fmt.Sprintf("region[%d-%d depth=%d lines=%d]", r.StartLine, r.EndLine, r.Depth, len(r.Lines))
}
