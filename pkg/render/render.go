package render

import (
	"sort"
	"strings"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/fence"
	"github.com/arthur-debert/snipsync/pkg/textdoc"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Source supplies the content a reference expands to.
type Source interface {
	Content(ref string) (string, error)
}

// Block is a fenced code block carrying a snippet reference.
type Block struct {
	Ref  string
	Lang string
	// Line is the zero-based line of the opening fence.
	Line int
	// Indent is the indentation of the opening fence line.
	Indent string
	// Body covers the lines between the fences; it is empty, positioned
	// after the opening line, when the block has no body.
	Body textdoc.Span
}

// Blocks returns the referencing code blocks of source in document order.
func Blocks(source []byte) ([]Block, error) {
	var blocks []Block
	root := goldmark.DefaultParser().Parse(text.NewReader(source))
	index := textdoc.NewIndex(string(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fcb, ok := node.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}

		info := fcb.Info.Segment
		ref, ok := fence.RefFromInfo(string(info.Value(source)))
		if !ok {
			return ast.WalkSkipChildren, nil
		}

		openStart := lineStart(source, info.Start)
		block := Block{
			Ref:    ref,
			Lang:   string(fcb.Language(source)),
			Indent: leadingIndent(source[openStart:]),
		}

		lines := fcb.Lines()
		if lines.Len() > 0 {
			block.Body = textdoc.Span{
				Start: lineStart(source, lines.At(0).Start),
				End:   lines.At(lines.Len() - 1).Stop,
			}
		} else {
			after := nextLine(source, info.Stop)
			block.Body = textdoc.Span{Start: after, End: after}
		}

		block.Line = index.PositionAt(openStart).Line
		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}
	sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].Body.Start < blocks[j].Body.Start })
	return blocks, nil
}

// Render returns source with the body of every referencing block replaced
// by the content of its reference. Every missing reference is reported in
// one SNIPPET_MISSING error.
func Render(source []byte, src Source) ([]byte, error) {
	blocks, err := Blocks(source)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to parse document")
	}

	var (
		edits   []textdoc.Edit
		missing []string
	)
	for _, b := range blocks {
		content, err := src.Content(b.Ref)
		if err != nil {
			if errors.IsErrorCode(err, errors.ErrFileNotFound) {
				missing = append(missing, b.Ref)
				continue
			}
			return nil, err
		}
		edits = append(edits, textdoc.Edit{Span: b.Body, NewText: body(content, b.Indent)})
	}
	if len(missing) > 0 {
		return nil, missingError(missing)
	}

	out, err := textdoc.Apply(string(source), edits)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to expand snippets")
	}
	return []byte(out), nil
}

// Validate checks that every reference of source exists.
func Validate(source []byte, exists func(ref string) bool) error {
	blocks, err := Blocks(source)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to parse document")
	}
	var missing []string
	for _, b := range blocks {
		if !exists(b.Ref) {
			missing = append(missing, b.Ref)
		}
	}
	if len(missing) > 0 {
		return missingError(missing)
	}
	return nil
}

func missingError(refs []string) error {
	msg := "Snippet file " + refs[0] + " does not exist"
	if len(refs) > 1 {
		msg = "Snippet files " + strings.Join(refs, ", ") + " do not exist"
	}
	return errors.New(errors.ErrSnippetMissing, msg).WithDetail("refs", refs)
}

func body(content, indent string) string {
	content = strings.TrimRight(content, "\r\n")
	if content == "" {
		return ""
	}
	var sb strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if line != "" {
			sb.WriteString(indent)
			sb.WriteString(line)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func lineStart(source []byte, offset int) int {
	for offset > 0 && source[offset-1] != '\n' {
		offset--
	}
	return offset
}

func nextLine(source []byte, offset int) int {
	for offset < len(source) && source[offset] != '\n' {
		offset++
	}
	if offset < len(source) {
		offset++
	}
	return offset
}

func leadingIndent(line []byte) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return string(line[:i])
}
