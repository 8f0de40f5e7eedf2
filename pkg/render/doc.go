// Package render expands snippet references at build time.
//
// Documents are parsed as Markdown with goldmark; every fenced code block
// whose info string carries snippetPath="..." gets the extracted content
// of the referenced file as its body. Unlike editor synchronization the
// output carries no generated-content sentinels, and a missing reference
// is a hard error.
package render
