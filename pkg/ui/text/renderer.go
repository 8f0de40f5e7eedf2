// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/types"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders any result type as plain text
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *types.DisplayResult:
		_, err := io.WriteString(r.output, FormatResult(v))
		return err
	case *types.GenConfigResult:
		return r.renderGenConfig(v)
	case *types.ExtractResult:
		_, err := fmt.Fprintln(r.output, strings.TrimRight(v.Content, "\n"))
		return err
	case *types.RenderResult:
		_, err := io.WriteString(r.output, FormatRender(v))
		return err
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderGenConfig(v *types.GenConfigResult) error {
	if len(v.FilesWritten) == 0 {
		_, err := io.WriteString(r.output, v.ConfigContent)
		return err
	}
	for _, path := range v.FilesWritten {
		if _, err := fmt.Fprintf(r.output, "Wrote %s\n", path); err != nil {
			return err
		}
	}
	return nil
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "Error: %s\n", errors.MessageOf(err))
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// FormatResult lays a result out one document per section, one block per
// line, with a closing message.
func FormatResult(result *types.DisplayResult) string {
	var sb strings.Builder
	for _, doc := range result.Documents {
		sb.WriteString(doc.Path)
		sb.WriteByte('\n')
		if len(doc.Blocks) == 0 {
			sb.WriteString("  (no snippet references)\n")
		}
		for _, b := range doc.Blocks {
			sb.WriteString("  ")
			sb.WriteString(FormatBlock(b))
			sb.WriteByte('\n')
		}
	}
	if summary := Summary(result); summary != "" {
		sb.WriteString(summary)
		sb.WriteByte('\n')
	}
	if result.Message != "" {
		sb.WriteString(result.Message)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatBlock renders one block as "status ref (line:col) target message".
func FormatBlock(b types.DisplayBlock) string {
	parts := []string{fmt.Sprintf("%-10s", b.Status)}
	if b.Ref != "" {
		parts = append(parts, b.Ref)
	}
	if b.Line > 0 {
		parts = append(parts, fmt.Sprintf("(%d:%d)", b.Line, b.Column))
	}
	if b.Target != "" {
		parts = append(parts, "-> "+b.Target)
	}
	if b.Message != "" {
		parts = append(parts, b.Message)
	}
	return strings.Join(parts, " ")
}

// Summary counts blocks per status, in a fixed order, skipping zeroes.
func Summary(result *types.DisplayResult) string {
	order := []string{
		types.StatusReplaced, types.StatusUnchanged, types.StatusRestored,
		types.StatusFound, types.StatusMissing, types.StatusError,
	}
	var parts []string
	for _, status := range order {
		if n := result.Count(status); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, status))
		}
	}
	return strings.Join(parts, ", ")
}

// FormatRender describes a render result; an expansion returned in memory
// is printed as is.
func FormatRender(v *types.RenderResult) string {
	switch {
	case v.Validated:
		return fmt.Sprintf("All snippet references of %s exist\n", v.Path)
	case v.Written != "":
		return fmt.Sprintf("Rendered %s to %s\n", v.Path, v.Written)
	default:
		return v.Content
	}
}
