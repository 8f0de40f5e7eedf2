package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/snipsync/cmd/snipsync"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/ui/styles"
)

func main() {
	rootCmd := snipsync.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))

		// Usage mistakes (unknown command, bad arguments) get the help text;
		// failures reported by a command do not.
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			fmt.Fprintln(os.Stderr)
			_ = rootCmd.Usage()
		}

		os.Exit(1)
	}
}
