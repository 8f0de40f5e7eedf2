package fence

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/snipsync/pkg/textdoc"
)

const (
	// Marker opens and closes a fence.
	Marker = "```"
	// BeginSentinel starts the generated body of a synchronized block.
	BeginSentinel = "// AUTOMATICALLY GENERATED: DO NOT MODIFY //"
	// EndSentinel ends the generated body of a synchronized block.
	EndSentinel = "// AUTOMATICALLY GENERATED END //"
	// InjectionMarker is the prefix shared by every generated body; a
	// document containing it still carries injected code.
	InjectionMarker = "// AUTOMATICALLY GENERATED:"
)

var (
	// openLineRegex matches the opening line of a managed fence:
	// indentation, backticks, optional language, the snippetPath attribute
	// and any trailing attributes.
	openLineRegex = regexp.MustCompile("^([ \\t]*)" + Marker + `(.*?) snippetPath="(.*?)"(.*)$`)

	// attrRegex finds snippetPath attributes anywhere in a document.
	attrRegex = regexp.MustCompile(`snippetPath="(.*?)"`)
)

// Block is one managed fence found in a document.
type Block struct {
	// Span covers the opening line through the end of the closing fence
	// line, excluding the closing line's newline.
	Span textdoc.Span
	// OpenLine and CloseLine are zero-based line numbers.
	OpenLine  int
	CloseLine int

	Indent string
	Lang   string
	Ref    string
	Extra  string

	FirstLine   string
	ClosingLine string
	Body        string

	// Generated is set when the body carries the sentinel wrapper.
	Generated bool
	// Exact is set when the body is nothing but the wrapper and its content,
	// which is the only shape Strip undoes.
	Exact bool
	// SameLine marks a fence closed on its opening line; it has no body.
	SameLine bool
	// Unclosed marks an opening line without a closing fence.
	Unclosed bool
}

// Text returns the block's current text in doc.
func (b Block) Text(doc string) string {
	return doc[b.Span.Start:b.Span.End]
}

// Bare returns the block reduced to its reference: the opening line and the
// closing fence.
func (b Block) Bare() string {
	return b.FirstLine + "\n" + b.ClosingLine
}

type line struct {
	text  string
	start int
}

func splitLines(text string) []line {
	var lines []line
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, line{text: text[start:i], start: start})
			start = i + 1
		}
	}
	return append(lines, line{text: text[start:], start: start})
}

func isClosing(s string) bool {
	return strings.TrimSpace(s) == Marker
}

func isSentinel(s, sentinel string) bool {
	return strings.TrimSpace(s) == sentinel
}

// Locate returns every managed fence of text in document order.
func Locate(text string) []Block {
	return LocateRef(text, nil)
}

// LocateRef returns the managed fences whose reference satisfies match.
// A nil match keeps every block.
func LocateRef(text string, match func(ref string) bool) []Block {
	lines := splitLines(text)
	var blocks []Block

	for i := 0; i < len(lines); i++ {
		m := openLineRegex.FindStringSubmatch(lines[i].text)
		if m == nil {
			continue
		}
		b := Block{
			OpenLine:  i,
			CloseLine: i,
			Indent:    m[1],
			Lang:      m[2],
			Ref:       m[3],
			Extra:     m[4],
			FirstLine: lines[i].text,
		}

		if idx := strings.Index(b.Extra, Marker); idx >= 0 {
			b.SameLine = true
			b.Extra = b.Extra[:idx]
			end := lines[i].start + len(lines[i].text) - len(m[4]) + idx + len(Marker)
			b.Span = textdoc.Span{Start: lines[i].start, End: end}
			if match == nil || match(b.Ref) {
				blocks = append(blocks, b)
			}
			continue
		}

		closeIdx := findClosing(lines, i, &b)
		if closeIdx < 0 {
			b.Unclosed = true
			b.Span = textdoc.Span{Start: lines[i].start, End: lines[i].start + len(lines[i].text)}
			if match == nil || match(b.Ref) {
				blocks = append(blocks, b)
			}
			continue
		}

		closing := lines[closeIdx]
		b.CloseLine = closeIdx
		b.ClosingLine = closing.text
		b.Span = textdoc.Span{Start: lines[i].start, End: closing.start + len(closing.text)}
		if closeIdx > i+1 {
			b.Body = text[lines[i+1].start : closing.start-1]
		}
		if match == nil || match(b.Ref) {
			blocks = append(blocks, b)
		}
		i = closeIdx
	}
	return blocks
}

// findClosing returns the index of the closing fence of the block opened on
// line open, or -1. A generated body is skipped as a unit so that fences
// inside injected content cannot end the block early.
func findClosing(lines []line, open int, b *Block) int {
	first := open + 1
	if first < len(lines) && strings.TrimSpace(lines[first].text) == "" {
		first++
	}
	if first < len(lines) && isSentinel(lines[first].text, BeginSentinel) {
		for k := first + 1; k < len(lines); k++ {
			// A lost end sentinel must not pair with a later block's.
			if openLineRegex.MatchString(lines[k].text) {
				break
			}
			if !isSentinel(lines[k].text, EndSentinel) {
				continue
			}
			for j := k + 1; j < len(lines); j++ {
				if openLineRegex.MatchString(lines[j].text) {
					break
				}
				if isClosing(lines[j].text) {
					b.Generated = true
					b.Exact = j == k+1
					return j
				}
			}
			break
		}
	}

	for j := open + 1; j < len(lines); j++ {
		if isClosing(lines[j].text) {
			return j
		}
		if openLineRegex.MatchString(lines[j].text) {
			return -1
		}
	}
	return -1
}

// HasInjectedCode reports whether text still contains generated content.
func HasInjectedCode(text string) bool {
	return strings.Contains(text, InjectionMarker)
}
