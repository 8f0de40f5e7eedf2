// Command snipsync-completions writes shell completion scripts for
// packaging. With a single shell name the script goes to stdout; with
// "all" and a directory every script is written there.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/snipsync/cmd/snipsync"
)

type generator struct {
	file string
	gen  func(*cobra.Command, io.Writer) error
}

var generators = map[string]generator{
	"bash": {"snipsync.bash", func(c *cobra.Command, w io.Writer) error { return c.GenBashCompletionV2(w, true) }},
	"zsh":  {"_snipsync", func(c *cobra.Command, w io.Writer) error { return c.GenZshCompletion(w) }},
	"fish": {"snipsync.fish", func(c *cobra.Command, w io.Writer) error { return c.GenFishCompletion(w, true) }},
	"powershell": {"snipsync.ps1", func(c *cobra.Command, w io.Writer) error {
		return c.GenPowerShellCompletionWithDesc(w)
	}},
}

func shells() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "snipsync-completions: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: snipsync-completions <%s|all> [dir]", joinShells())
	}
	root := snipsync.NewRootCmd()

	if args[0] == "all" {
		if len(args) < 2 {
			return fmt.Errorf("all requires an output directory")
		}
		return writeAll(root, args[1])
	}

	g, ok := generators[args[0]]
	if !ok {
		return fmt.Errorf("unknown shell %q (supported: %s)", args[0], joinShells())
	}
	if len(args) > 1 {
		return writeOne(root, g, args[1])
	}
	return g.gen(root, stdout)
}

func writeAll(root *cobra.Command, dir string) error {
	for _, name := range shells() {
		if err := writeOne(root, generators[name], dir); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func writeOne(root *cobra.Command, g generator, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, g.file))
	if err != nil {
		return err
	}
	if err := g.gen(root, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func joinShells() string {
	return strings.Join(shells(), "|")
}
