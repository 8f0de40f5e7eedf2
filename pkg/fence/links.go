package fence

import "github.com/arthur-debert/snipsync/pkg/textdoc"

// Link is a clickable snippetPath attribute.
type Link struct {
	// Span covers the whole snippetPath="..." attribute.
	Span textdoc.Span
	Ref  string
}

// Links returns every snippetPath attribute of text, in or out of a
// well-formed fence.
func Links(text string) []Link {
	var links []Link
	for _, m := range attrRegex.FindAllStringSubmatchIndex(text, -1) {
		links = append(links, Link{
			Span: textdoc.Span{Start: m[0], End: m[1]},
			Ref:  text[m[2]:m[3]],
		})
	}
	return links
}

// RefFromInfo returns the snippetPath of a fence info string.
func RefFromInfo(info string) (string, bool) {
	m := attrRegex.FindStringSubmatch(info)
	if m == nil {
		return "", false
	}
	return m[1], true
}
