// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/types"
	"github.com/arthur-debert/snipsync/pkg/ui/styles"
	"github.com/arthur-debert/snipsync/pkg/ui/text"
	"github.com/pterm/pterm"
)

// Renderer provides rich terminal output using the style registry
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

// RenderResult renders any result type with rich terminal formatting
func (r *Renderer) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *types.DisplayResult:
		if v.Command == "links" {
			return r.renderLinks(v)
		}
		return r.renderDocuments(v)
	case *types.GenConfigResult:
		if len(v.FilesWritten) == 0 {
			_, err := io.WriteString(r.output, v.ConfigContent)
			return err
		}
		for _, path := range v.FilesWritten {
			line := styles.GetStyle("Success").Render("✓") + " Wrote " + styles.GetStyle("Ref").Render(path)
			if _, err := fmt.Fprintln(r.output, line); err != nil {
				return err
			}
		}
		return nil
	case *types.RenderResult:
		if v.Content != "" {
			_, err := io.WriteString(r.output, v.Content)
			return err
		}
		_, err := io.WriteString(r.output, styles.GetStyle("Success").Render("✓")+" "+text.FormatRender(v))
		return err
	case *types.ExtractResult:
		header := styles.GetStyle("MutedItalic").Render(v.Ref + " (" + v.Path + ")")
		_, err := fmt.Fprintf(r.output, "%s\n%s\n", header, strings.TrimRight(v.Content, "\n"))
		return err
	default:
		_, err := fmt.Fprintf(r.output, "%+v\n", result)
		return err
	}
}

func (r *Renderer) renderDocuments(result *types.DisplayResult) error {
	var sb strings.Builder
	for _, doc := range result.Documents {
		marker := styles.ForStatus(doc.GetDocumentStatus()).Render("●")
		sb.WriteString(marker + " " + styles.GetStyle("DocumentHeader").Render(doc.Path) + "\n")
		if len(doc.Blocks) == 0 {
			sb.WriteString(styles.GetStyle("NoContent").Render("no snippet references") + "\n")
			continue
		}
		for _, b := range doc.Blocks {
			sb.WriteString(styles.GetStyle("Indent").Render(r.block(b)) + "\n")
		}
	}
	if summary := text.Summary(result); summary != "" {
		sb.WriteString(styles.GetStyle("Muted").Render(summary) + "\n")
	}
	if result.Message != "" {
		style := styles.GetStyle("Info")
		if result.Failed() {
			style = styles.GetStyle("Error")
		}
		sb.WriteString(style.Render(result.Message) + "\n")
	}
	_, err := io.WriteString(r.output, sb.String())
	return err
}

func (r *Renderer) block(b types.DisplayBlock) string {
	parts := []string{
		styles.MergeStyles("Status").Inherit(styles.ForStatus(b.Status)).Render(b.Status),
	}
	if b.Ref != "" {
		parts = append(parts, styles.GetStyle("Ref").Render(b.Ref))
	}
	if b.Line > 0 {
		parts = append(parts, styles.GetStyle("Muted").Render(fmt.Sprintf("%d:%d", b.Line, b.Column)))
	}
	if b.Code != "" && b.Status == types.StatusError {
		parts = append(parts, styles.GetStyle("Code").Render("["+b.Code+"]"))
	}
	if b.Message != "" {
		parts = append(parts, b.Message)
	}
	return strings.Join(parts, " ")
}

func (r *Renderer) renderLinks(result *types.DisplayResult) error {
	data := pterm.TableData{{"Document", "Line", "Reference", "Target", "Status"}}
	for _, doc := range result.Documents {
		for _, b := range doc.Blocks {
			data = append(data, []string{
				doc.Path,
				fmt.Sprintf("%d:%d", b.Line, b.Column),
				b.Ref,
				b.Target,
				styles.ForStatus(b.Status).Render(b.Status),
			})
		}
	}
	if len(data) == 1 {
		_, err := fmt.Fprintln(r.output, styles.GetStyle("NoContent").Render("no snippet references"))
		return err
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render links table")
	}
	_, err = fmt.Fprintln(r.output, table)
	return err
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	msg := styles.GetStyle("Error").Render("Error:") + " " + errors.MessageOf(err)
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		msg += " " + styles.GetStyle("Muted").Render("["+string(code)+"]")
	}
	_, werr := fmt.Fprintln(r.output, msg)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, styles.GetStyle("Info").Render(msg))
	return err
}
