package synchronizer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/fence"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/region"
	"github.com/arthur-debert/snipsync/pkg/types"
	"github.com/rs/zerolog"
)

// Resolver maps a snippetPath reference to an absolute file path.
type Resolver interface {
	Resolve(ref string) string
	// RootHint names the directory references are resolved against, for
	// error messages.
	RootHint() string
}

// Options configures a Synchronizer.
type Options struct {
	Join region.JoinMode
}

// PassOptions scopes a single pass.
type PassOptions struct {
	// Match restricts the pass to blocks it accepts. Blocks it rejects are
	// not reported at all.
	Match func(b fence.Block, absPath string) bool
	// OnAttempt runs for every block whose reference was read, successfully
	// or not, before the next block is processed.
	OnAttempt func(absPath, ref string)
}

// Synchronizer reads referenced sources and renders managed blocks.
type Synchronizer struct {
	fs       types.ReadFS
	resolver Resolver
	opts     Options
	logger   zerolog.Logger
}

// New creates a Synchronizer reading sources through fsys.
func New(fsys types.ReadFS, resolver Resolver, opts Options) *Synchronizer {
	if opts.Join == "" {
		opts.Join = region.JoinConcat
	}
	return &Synchronizer{
		fs:       fsys,
		resolver: resolver,
		opts:     opts,
		logger:   logging.GetLogger("synchronizer"),
	}
}

// Sync runs a pass over every managed block of doc.
func (s *Synchronizer) Sync(doc string) *Pass {
	return s.Run(doc, PassOptions{})
}

// Run runs a pass over doc with the given scope and hooks.
func (s *Synchronizer) Run(doc string, po PassOptions) *Pass {
	pass := &Pass{Doc: doc}

	for _, b := range fence.Locate(doc) {
		old := b.Text(doc)

		if b.SameLine || b.Unclosed {
			if po.Match != nil && !po.Match(b, s.resolver.Resolve(b.Ref)) {
				continue
			}
			pass.Results = append(pass.Results, Result{
				Block:   b,
				Status:  StatusError,
				Old:     old,
				NewText: old,
				Err:     structuralError(b),
			})
			continue
		}

		abs := s.resolver.Resolve(b.Ref)
		if po.Match != nil && !po.Match(b, abs) {
			continue
		}

		content, err := s.Content(b.Ref)
		if po.OnAttempt != nil {
			po.OnAttempt(abs, b.Ref)
		}

		res := Result{Block: b, Old: old, Path: abs}
		if err != nil {
			res.Status = StatusError
			res.Err = err
			res.NewText = b.Bare()
			s.logger.Debug().Str("ref", b.Ref).Str("path", abs).Err(err).Msg("Snippet reference failed")
		} else {
			res.NewText = Render(b, content)
			res.Status = StatusReplaced
			if res.NewText == old {
				res.Status = StatusUnchanged
			}
		}
		pass.Results = append(pass.Results, res)
	}

	s.logger.Debug().
		Int("blocks", len(pass.Results)).
		Int("replaced", pass.Count(StatusReplaced)).
		Int("errors", pass.Count(StatusError)).
		Msg("Synchronization pass computed")
	return pass
}

// Content reads the source a reference points to and extracts what a
// managed block injects from it.
func (s *Synchronizer) Content(ref string) (string, error) {
	abs := s.resolver.Resolve(ref)
	data, err := s.fs.ReadFile(abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileNotFound,
			"File path not found. %s doesn't exist. Note: The snippet path looks at %s/<provided_path>.",
			abs, s.resolver.RootHint()).
			WithDetail("path", abs).
			WithDetail("ref", ref)
	}

	content, err := region.Extract(string(data), region.Options{Join: s.opts.Join})
	if err != nil {
		return "", errors.Newf(errors.GetErrorCode(err),
			"Cannot extract snippet from %s: %s. Note: The snippet path looks at %s/<provided_path>.",
			abs, errors.MessageOf(err), s.resolver.RootHint()).
			WithDetail("path", abs).
			WithDetail("ref", ref)
	}
	return content, nil
}

func structuralError(b fence.Block) error {
	if b.SameLine {
		return errors.New(errors.ErrSameLineFence, "Opening and closing backticks cannot be on the same line.").
			WithDetail("ref", b.Ref)
	}
	return errors.Newf(errors.ErrUnclosedFence, "Closing backticks not found for snippetPath=%q.", b.Ref).
		WithDetail("ref", b.Ref)
}

// Render builds the canonical text of a synchronized block: the preserved
// opening line, the begin sentinel, the content with trailing whitespace
// removed from every line, the end sentinel and the closing fence. Lines
// take the indentation of the fence.
func Render(b fence.Block, content string) string {
	var sb strings.Builder
	sb.WriteString(b.FirstLine)
	sb.WriteByte('\n')
	sb.WriteString(b.Indent + fence.BeginSentinel + "\n")

	content = strings.TrimRight(content, "\r\n")
	if content != "" {
		for _, line := range strings.Split(content, "\n") {
			line = strings.TrimRightFunc(line, unicode.IsSpace)
			if line != "" {
				sb.WriteString(b.Indent)
				sb.WriteString(line)
			}
			sb.WriteByte('\n')
		}
	}

	sb.WriteString(b.Indent + fence.EndSentinel + "\n")
	sb.WriteString(b.ClosingLine)
	return sb.String()
}

// Describe formats a result for logs and terminal output.
func Describe(r Result) string {
	if r.Err != nil {
		return fmt.Sprintf("%s %s: %s", r.Status, r.Block.Ref, errors.MessageOf(r.Err))
	}
	return fmt.Sprintf("%s %s", r.Status, r.Block.Ref)
}
