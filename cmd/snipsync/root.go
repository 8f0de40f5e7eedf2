package snipsync

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/snipsync/internal/version"
	"github.com/arthur-debert/snipsync/pkg/cobrax/topics"
	"github.com/arthur-debert/snipsync/pkg/config"
	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/paths"
	"github.com/arthur-debert/snipsync/pkg/ui"
	"github.com/arthur-debert/snipsync/pkg/ui/styles"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicsFS embed.FS

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbosity int
	workspace string
	root      string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "snipsync",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			if err := styles.LoadFromEnv(); err != nil {
				log.Warn().Err(err).Msg("Keeping default styles")
			}
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help but still signal incorrect usage
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&opts.workspace, "workspace", "C", "", MsgFlagWorkspace)
	rootCmd.PersistentFlags().StringVar(&opts.root, "root", "", MsgFlagRoot)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspect",
		Title: "INSPECT:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newSyncCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newCleanCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newRenderCmd(opts))
	rootCmd.AddCommand(newLinksCmd(opts))
	rootCmd.AddCommand(newExtractCmd(opts))
	rootCmd.AddCommand(newGenConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Topic-based help, replacing cobra's help command
	helpFS, err := fs.Sub(topicsFS, "topics")
	if err == nil {
		idx, err := topics.Install(rootCmd, helpFS, topics.Options{
			Extensions: []string{".md"},
			Renderer:   topics.Glamour("auto", 0),
		})
		if err == nil {
			rootCmd.SetHelpCommandGroupID("misc")
			rootCmd.AddCommand(newTopicsCmd(idx))
		} else {
			log.Debug().Err(err).Msg("Help topics unavailable")
		}
	}

	return rootCmd
}

// initPaths discovers the workspace and warns when the current directory
// is used as a fallback.
func initPaths(workspace string, stderr io.Writer) (*paths.Paths, error) {
	p, err := paths.New(workspace)
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}

	if p.UsedFallback() {
		fmt.Fprintf(stderr, MsgFallbackWarning, p.Workspace())
	} else if os.Getenv("SNIPSYNC_DEBUG") != "" {
		fmt.Fprintf(stderr, MsgDebugWorkspace, p.Workspace(), p.UsedFallback())
	}

	return p, nil
}

// load resolves the workspace and its configuration. The --root flag
// overrides snippets.root.
func (o *globalOptions) load(cmd *cobra.Command) (*paths.Paths, *config.Config, error) {
	p, err := initPaths(o.workspace, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}

	overrides := map[string]interface{}{}
	if o.root != "" {
		overrides["snippets.root"] = o.root
	}
	cfg, err := config.Load(p.ConfigPath(), overrides)
	if err != nil {
		return nil, nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	log.Info().
		Str("workspace", p.Workspace()).
		Str("snippet_root", cfg.Snippets.Root).
		Msg("Workspace loaded")
	return p, cfg, nil
}

// newRenderer builds the renderer for the --format flag value, writing to
// the command's output.
func newRenderer(cmd *cobra.Command, format string) (ui.Renderer, ui.Format, error) {
	f, err := ui.ParseFormat(format)
	if err != nil {
		return nil, f, err
	}
	r, err := ui.NewRenderer(f, cmd.OutOrStdout())
	return r, f, err
}

// structured reports whether a format is meant for machines, so no
// free-form notices may be mixed into it.
func structured(f ui.Format) bool {
	return f == ui.FormatJSON || f == ui.FormatCheckstyle
}
