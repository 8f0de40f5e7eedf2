package snipsync

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/arthur-debert/snipsync/internal/version"
	"github.com/arthur-debert/snipsync/pkg/cobrax/topics"
	"github.com/arthur-debert/snipsync/pkg/commands"
	"github.com/arthur-debert/snipsync/pkg/errors"
	"github.com/arthur-debert/snipsync/pkg/types"
	"github.com/arthur-debert/snipsync/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// documentsCompletion completes document arguments with the configured
// document extensions.
func documentsCompletion(opts *globalOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		_, cfg, err := opts.load(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		exts := make([]string, 0, len(cfg.Documents.Extensions))
		for _, ext := range cfg.Documents.Extensions {
			exts = append(exts, ext[1:])
		}
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}

func newSyncCmd(opts *globalOptions) *cobra.Command {
	var (
		dryRun bool
		format string
	)

	cmd := &cobra.Command{
		Use:               "sync [documents...]",
		Short:             MsgSyncShort,
		Long:              MsgSyncLong,
		Example:           MsgSyncExample,
		GroupID:           "core",
		ValidArgsFunction: documentsCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, f, err := newRenderer(cmd, format)
			if err != nil {
				return err
			}
			p, cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			log.Info().Bool("dry_run", dryRun).Strs("documents", args).Msg("Synchronizing documents")

			result, err := commands.SyncDocuments(commands.SyncDocumentsOptions{
				Paths:     p,
				Config:    cfg,
				Documents: args,
				DryRun:    dryRun,
			})
			if err != nil {
				return fmt.Errorf(MsgErrSync, err)
			}

			if err := renderer.RenderResult(result); err != nil {
				return err
			}
			if dryRun && !structured(f) {
				_ = renderer.RenderMessage(MsgDryRunNotice)
			}

			if n := result.Count(types.StatusError); n > 0 {
				return errors.Newf(errors.ErrBlocksFailed, MsgErrBlocksFailed, n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)
	addFormatFlag(cmd, &format, "auto", MsgFlagFormatCS)

	return cmd
}

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:               "watch [documents...]",
		Short:             MsgWatchShort,
		Long:              MsgWatchLong,
		Example:           MsgWatchExample,
		GroupID:           "core",
		ValidArgsFunction: documentsCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, _, err := newRenderer(cmd, "auto")
			if err != nil {
				return err
			}
			p, cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Callbacks arrive from watcher goroutines
			var mu sync.Mutex
			say := func(fn func()) {
				mu.Lock()
				defer mu.Unlock()
				fn()
			}

			log.Info().Bool("keep", keep).Strs("documents", args).Msg("Starting watch mode")

			result, err := commands.WatchDocuments(ctx, commands.WatchDocumentsOptions{
				Paths:     p,
				Config:    cfg,
				Documents: args,
				Keep:      keep,
				OnNotify: func(msg string) {
					say(func() { _ = renderer.RenderMessage(msg) })
				},
				OnDiagnostics: func(path string, blocks []types.DisplayBlock) {
					if len(blocks) == 0 {
						return
					}
					say(func() {
						_ = renderer.RenderResult(&types.DisplayResult{
							Command:   "watch",
							Documents: []types.DisplayDocument{{Path: path, Blocks: blocks}},
						})
					})
				},
				OnReady: func() {
					say(func() { _ = renderer.RenderMessage(MsgWatching) })
				},
			})
			if err != nil {
				return fmt.Errorf(MsgErrWatch, err)
			}

			say(func() { _ = renderer.RenderMessage(result.Message) })
			return nil
		},
	}

	cmd.Flags().BoolVarP(&keep, "keep", "k", false, MsgFlagKeep)

	return cmd
}

func newCleanCmd(opts *globalOptions) *cobra.Command {
	var (
		dryRun bool
		format string
	)

	cmd := &cobra.Command{
		Use:               "clean [documents...]",
		Short:             MsgCleanShort,
		Long:              MsgCleanLong,
		GroupID:           "core",
		ValidArgsFunction: documentsCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, f, err := newRenderer(cmd, format)
			if err != nil {
				return err
			}
			p, cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			result, err := commands.CleanDocuments(commands.CleanDocumentsOptions{
				Paths:     p,
				Config:    cfg,
				Documents: args,
				DryRun:    dryRun,
			})
			if err != nil {
				return fmt.Errorf(MsgErrClean, err)
			}

			if err := renderer.RenderResult(result); err != nil {
				return err
			}
			if dryRun && !structured(f) {
				_ = renderer.RenderMessage(MsgDryRunNotice)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)
	addFormatFlag(cmd, &format, "auto", MsgFlagFormat)

	return cmd
}

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:               "check [documents...]",
		Short:             MsgCheckShort,
		Long:              MsgCheckLong,
		Example:           MsgCheckExample,
		GroupID:           "core",
		ValidArgsFunction: documentsCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, _, err := newRenderer(cmd, format)
			if err != nil {
				return err
			}
			p, cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			result, err := commands.CheckDocuments(commands.CheckDocumentsOptions{
				Paths:     p,
				Config:    cfg,
				Documents: args,
			})
			if err != nil {
				return fmt.Errorf(MsgErrCheck, err)
			}

			if err := renderer.RenderResult(result); err != nil {
				return err
			}
			if result.Failed() {
				return errors.Newf(errors.ErrInjectedCode, "injected code found in %d document(s)", len(result.Documents))
			}
			return nil
		},
	}

	addFormatFlag(cmd, &format, "auto", MsgFlagFormatCS)

	return cmd
}

func newRenderCmd(opts *globalOptions) *cobra.Command {
	var (
		validate bool
		output   string
		format   string
	)

	cmd := &cobra.Command{
		Use:               "render <document>",
		Short:             MsgRenderShort,
		Long:              MsgRenderLong,
		Example:           MsgRenderExample,
		Args:              cobra.ExactArgs(1),
		GroupID:           "core",
		ValidArgsFunction: documentsCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, _, err := newRenderer(cmd, format)
			if err != nil {
				return err
			}
			p, cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			// -o is taken relative to where the command runs
			if output != "" {
				if abs, err := filepath.Abs(output); err == nil {
					output = abs
				}
			}

			result, err := commands.RenderDocument(commands.RenderDocumentOptions{
				Paths:        p,
				Config:       cfg,
				Document:     args[0],
				Output:       output,
				ValidateOnly: validate,
			})
			if err != nil {
				return fmt.Errorf(MsgErrRender, err)
			}
			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, MsgFlagValidate)
	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	addFormatFlag(cmd, &format, "text", MsgFlagFormat)

	return cmd
}

func newLinksCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:               "links [documents...]",
		Short:             MsgLinksShort,
		Long:              MsgLinksLong,
		GroupID:           "inspect",
		ValidArgsFunction: documentsCompletion(opts),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, _, err := newRenderer(cmd, format)
			if err != nil {
				return err
			}
			p, cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			result, err := commands.ListLinks(commands.ListLinksOptions{
				Paths:     p,
				Config:    cfg,
				Documents: args,
			})
			if err != nil {
				return fmt.Errorf(MsgErrLinks, err)
			}
			return renderer.RenderResult(result)
		},
	}

	addFormatFlag(cmd, &format, "auto", MsgFlagFormat)

	return cmd
}

func newExtractCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "extract <snippet-path>",
		Short:   MsgExtractShort,
		Long:    MsgExtractLong,
		Args:    cobra.ExactArgs(1),
		GroupID: "inspect",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, _, err := newRenderer(cmd, format)
			if err != nil {
				return err
			}
			p, cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			result, err := commands.Extract(commands.ExtractOptions{
				Paths:  p,
				Config: cfg,
				Ref:    args[0],
			})
			if err != nil {
				return fmt.Errorf(MsgErrExtract, err)
			}
			return renderer.RenderResult(result)
		},
	}

	addFormatFlag(cmd, &format, "text", MsgFlagFormat)

	return cmd
}

func newGenConfigCmd(opts *globalOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, _, err := newRenderer(cmd, "text")
			if err != nil {
				return err
			}
			p, cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			result, err := commands.GenConfig(commands.GenConfigOptions{
				Paths:  p,
				Config: cfg,
				Write:  write,
			})
			if err != nil {
				return fmt.Errorf(MsgErrGenConfig, err)
			}
			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)

	return cmd
}

func newTopicsCmd(idx *topics.Index) *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			idx.WriteList(cmd.OutOrStdout(), cmd.Root().Name())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionLine, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// addFormatFlag registers --format with completion of the format names.
func addFormatFlag(cmd *cobra.Command, format *string, def, usage string) {
	cmd.Flags().StringVarP(format, "format", "f", def, usage)
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return ui.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	})
}
