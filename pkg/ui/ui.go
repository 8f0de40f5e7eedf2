// Package ui renders command results in the format the user asked for:
// styled terminal output, plain text, JSON, or a checkstyle report.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/ui/checkstyle"
	"github.com/arthur-debert/snipsync/pkg/ui/json"
	"github.com/arthur-debert/snipsync/pkg/ui/terminal"
	"github.com/arthur-debert/snipsync/pkg/ui/text"
)

// Renderer writes command output. RenderResult takes one of the result
// types in pkg/types; renderers reject types they cannot show.
type Renderer interface {
	RenderResult(result interface{}) error
	RenderError(err error) error
	RenderMessage(msg string) error
}

var constructors = map[Format]func(io.Writer) (Renderer, error){
	FormatTerminal:   func(w io.Writer) (Renderer, error) { return terminal.New(w) },
	FormatText:       func(w io.Writer) (Renderer, error) { return text.New(w) },
	FormatJSON:       func(w io.Writer) (Renderer, error) { return json.New(w) },
	FormatCheckstyle: func(w io.Writer) (Renderer, error) { return checkstyle.New(w) },
}

// Resolve turns FormatAuto into a concrete format for output. Writers
// that are not files resolve to FormatText.
func Resolve(format Format, output io.Writer) Format {
	if format != FormatAuto {
		return format
	}
	if file, ok := output.(*os.File); ok {
		return DetectFormat(file)
	}
	return FormatText
}

// NewRenderer returns the renderer for format writing to output.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	build, ok := constructors[Resolve(format, output)]
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
	return build(output)
}
