// Package checkstyle renders results as checkstyle XML, the report format
// most CI systems turn into inline annotations.
package checkstyle

import (
	"io"
	"strconv"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/types"
	"github.com/beevik/etree"
)

// Version is the checkstyle report version written to the root element.
const Version = "4.3"

// Source prefixes the code of every reported error.
const Source = "snipsync"

// Renderer writes one checkstyle document per rendered result
type Renderer struct {
	output io.Writer
}

// New creates a new checkstyle renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderResult renders the failing blocks of a result. Results that are not
// document results produce an empty report.
func (r *Renderer) RenderResult(result interface{}) error {
	doc, root := newReport()
	if v, ok := result.(*types.DisplayResult); ok {
		for _, d := range v.Documents {
			file := root.CreateElement("file")
			file.CreateAttr("name", d.Path)
			for _, b := range d.Blocks {
				if b.Status != types.StatusError && b.Status != types.StatusMissing {
					continue
				}
				addError(file, b)
			}
		}
	}
	return write(doc, r.output)
}

// RenderError reports a command failure as a file-less error.
func (r *Renderer) RenderError(err error) error {
	doc, root := newReport()
	file := root.CreateElement("file")
	file.CreateAttr("name", "")
	addError(file, types.DisplayBlock{
		Severity: "error",
		Code:     string(errors.GetErrorCode(err)),
		Message:  errors.MessageOf(err),
	})
	return write(doc, r.output)
}

// RenderMessage is a no-op: checkstyle has no place for free text.
func (r *Renderer) RenderMessage(msg string) error {
	return nil
}

func newReport() (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("checkstyle")
	root.CreateAttr("version", Version)
	return doc, root
}

func addError(file *etree.Element, b types.DisplayBlock) {
	el := file.CreateElement("error")
	if b.Line > 0 {
		el.CreateAttr("line", strconv.Itoa(b.Line))
		el.CreateAttr("column", strconv.Itoa(b.Column))
	}
	severity := b.Severity
	if severity == "" {
		severity = "error"
	}
	el.CreateAttr("severity", severity)
	el.CreateAttr("message", b.Message)
	source := Source
	if b.Code != "" {
		source += "." + b.Code
	}
	el.CreateAttr("source", source)
}

func write(doc *etree.Document, w io.Writer) error {
	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write checkstyle report")
	}
	return nil
}
