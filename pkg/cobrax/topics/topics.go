// Package topics adds topic pages to a cobra help command. Topics are
// files of an fs.FS, usually embedded in the binary; "help <topic>"
// shows one and "help topics" lists them. Files named option-<flag>
// document a flag and also answer to "help --<flag>".
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/snipsync/pkg/errors"
)

const optionPrefix = "option-"

type Topic struct {
	Name string
	// Title is the first non-blank line with any markdown heading
	// marks removed.
	Title   string
	Path    string
	Content string
}

type Options struct {
	// Extensions considered topic files; defaults to .txt and .md.
	Extensions []string
	// Renderer defaults to Plain.
	Renderer Renderer
}

// Index holds the topics found in a file system.
type Index struct {
	topics map[string]Topic
	render Renderer
}

// Load walks fsys and indexes every file with a topic extension. A file
// name seen twice keeps the last one walked.
func Load(fsys fs.FS, opts Options) (*Index, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{".txt", ".md"}
	}
	idx := &Index{topics: map[string]Topic{}, render: opts.Renderer}
	if idx.render == nil {
		idx.render = Plain
	}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := path.Ext(p)
		if !contains(exts, ext) {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), ext)
		idx.topics[name] = Topic{Name: name, Title: title(string(data)), Path: p, Content: string(data)}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "scan help topics")
	}
	return idx, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func title(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(strings.TrimLeft(line, "# ")); line != "" {
			return line
		}
	}
	return ""
}

// Lookup finds a topic by name. "--keep", "-keep" and "keep" all find
// option-keep when no topic is named keep.
func (idx *Index) Lookup(name string) (Topic, bool) {
	name = strings.TrimLeft(name, "-")
	if t, ok := idx.topics[name]; ok {
		return t, true
	}
	t, ok := idx.topics[optionPrefix+name]
	return t, ok
}

// Names returns every topic name, sorted.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.topics))
	for n := range idx.topics {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Show writes a topic through the index's renderer.
func (idx *Index) Show(w io.Writer, t Topic) {
	fmt.Fprint(w, idx.render(t.Content, path.Ext(t.Path)))
}

// WriteList prints the topic index: general topics first, then option
// topics under their flag name.
func (idx *Index) WriteList(w io.Writer, program string) {
	names := idx.Names()
	if len(names) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	var general, options []Topic
	for _, n := range names {
		if strings.HasPrefix(n, optionPrefix) {
			options = append(options, idx.topics[n])
		} else {
			general = append(general, idx.topics[n])
		}
	}

	fmt.Fprintln(w, "Available help topics:")
	section := func(heading string, list []Topic, label func(Topic) string) {
		if len(list) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s:\n", heading)
		for _, t := range list {
			fmt.Fprintf(w, "  %-16s %s\n", label(t), t.Title)
		}
	}
	section("General topics", general, func(t Topic) string { return t.Name })
	section("Option topics", options, func(t Topic) string { return "--" + strings.TrimPrefix(t.Name, optionPrefix) })
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", program)
}
