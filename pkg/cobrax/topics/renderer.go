package topics

import "github.com/charmbracelet/glamour"

// Renderer turns a topic's raw content into what the terminal shows.
// ext is the topic file's extension, dot included.
type Renderer func(content, ext string) string

// Plain shows topics unchanged.
func Plain(content, _ string) string { return content }

// Glamour renders markdown topics with glamour. style is a glamour style
// name or file; "" or "auto" picks one from the terminal background.
// width 0 keeps glamour's wrapping. Non-markdown topics and rendering
// failures fall back to the raw content.
func Glamour(style string, width int) Renderer {
	return func(content, ext string) string {
		if ext != ".md" {
			return content
		}
		opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
		if style != "" && style != "auto" {
			opts[0] = glamour.WithStylePath(style)
		}
		if width > 0 {
			opts = append(opts, glamour.WithWordWrap(width))
		}
		r, err := glamour.NewTermRenderer(opts...)
		if err != nil {
			return content
		}
		out, err := r.Render(content)
		if err != nil {
			return content
		}
		return out
	}
}
