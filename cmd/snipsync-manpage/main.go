package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/snipsync/cmd/snipsync"
	"github.com/arthur-debert/snipsync/internal/version"
)

func main() {
	rootCmd := snipsync.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "SNIPSYNC",
		Section: "1",
		Source:  "snipsync " + version.Version,
		Manual:  "snipsync manual",
	}

	// One page per command when a directory is given, the root page on
	// stdout otherwise.
	if len(os.Args) > 1 {
		if err := doc.GenManTree(rootCmd, header, os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating man pages: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
