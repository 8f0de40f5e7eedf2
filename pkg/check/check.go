package check

import (
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/fence"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/types"
)

const (
	// MsgInjected reports one document that still carries injected code.
	MsgInjected = "File %s contains injected code from the Inline Snippets extension."
	// MsgFailed closes a failed check.
	MsgFailed = "Please deactivate the Inline Snippets extension and remove all injected code before committing."
	// MsgClean closes a passing check.
	MsgClean = "No injected code found in documents."
)

// Options configures a check run.
type Options struct {
	// Documents are the files to scan.
	Documents []string
	// Rel turns an absolute path into the path shown in reports.
	Rel func(path string) string
}

// Run scans every document for the injection marker. Each offending line
// becomes an error block of its document; clean documents are left out of
// the result. The returned result's Failed reports whether the check
// failed.
func Run(fsys types.ReadFS, opts Options) (*types.DisplayResult, error) {
	logger := logging.GetLogger("check")

	rel := opts.Rel
	if rel == nil {
		rel = func(p string) string { return p }
	}

	result := &types.DisplayResult{
		Command:   "check",
		Documents: []types.DisplayDocument{},
		Timestamp: time.Now(),
	}

	for _, path := range opts.Documents {
		data, err := fsys.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrNotFound, "cannot read document %s", path)
		}

		findings := Scan(string(data))
		if len(findings) == 0 {
			continue
		}

		doc := types.DisplayDocument{Path: rel(path)}
		for _, f := range findings {
			f.Message = fmt.Sprintf(MsgInjected, doc.Path)
			doc.Blocks = append(doc.Blocks, f)
		}
		logger.Warn().Str("path", path).Int("findings", len(findings)).Msg("Document contains injected code")
		result.Documents = append(result.Documents, doc)
	}

	result.Message = MsgClean
	if result.Failed() {
		result.Message = MsgFailed
	}
	logger.Info().
		Int("scanned", len(opts.Documents)).
		Int("failed", len(result.Documents)).
		Msg("Check completed")
	return result, nil
}

// Scan returns one error block per line of text that carries the injection
// marker. Lines and columns are 1-based.
func Scan(text string) []types.DisplayBlock {
	var blocks []types.DisplayBlock
	for i, line := range strings.Split(text, "\n") {
		col := strings.Index(line, fence.InjectionMarker)
		if col < 0 {
			continue
		}
		blocks = append(blocks, types.DisplayBlock{
			Line:     i + 1,
			Column:   col + 1,
			Status:   types.StatusError,
			Severity: "error",
			Code:     string(errors.ErrInjectedCode),
		})
	}
	return blocks
}
