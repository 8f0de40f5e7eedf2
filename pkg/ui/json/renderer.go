// Package json writes command output as indented JSON, one document per
// call, for scripts and editor integrations.
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/snipsync/pkg/errors"
)

type Renderer struct {
	enc *json.Encoder
}

type errorPayload struct {
	Error   string                 `json:"error"`
	Code    errors.ErrorCode       `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type messagePayload struct {
	Message string `json:"message"`
}

func New(output io.Writer) (*Renderer, error) {
	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	return &Renderer{enc: enc}, nil
}

// RenderResult encodes result as is; the result types carry their own
// json tags.
func (r *Renderer) RenderResult(result interface{}) error {
	if result == nil {
		return errors.New(errors.ErrInvalidInput, "no result to render")
	}
	return r.enc.Encode(result)
}

// RenderError encodes the message with the code and details of a
// SnipError. Uncoded errors get only the message.
func (r *Renderer) RenderError(err error) error {
	p := errorPayload{Error: errors.MessageOf(err)}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		p.Code = code
		p.Details = errors.GetErrorDetails(err)
	}
	return r.enc.Encode(p)
}

func (r *Renderer) RenderMessage(msg string) error {
	return r.enc.Encode(messagePayload{Message: msg})
}
