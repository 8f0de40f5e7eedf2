package topics

import (
	"io/fs"

	"github.com/spf13/cobra"
)

// Install loads the topics of fsys and replaces root's help command and
// help func with topic-aware ones. Names that are not topics fall
// through to cobra's regular command help.
func Install(root *cobra.Command, fsys fs.FS, opts Options) (*Index, error) {
	idx, err := Load(fsys, opts)
	if err != nil {
		return nil, err
	}
	cobraHelp := root.HelpFunc()
	name := root.Name()

	root.SetHelpCommand(&cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: "Help shows the usage of a command or the text of a help topic.\n" +
			"Run '" + name + " help topics' for the list of topics.",
		// "help --keep" must reach Run as an argument.
		DisableFlagParsing: true,
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			out := []string{"topics"}
			for _, c := range root.Commands() {
				if c.IsAvailableCommand() {
					out = append(out, c.Name())
				}
			}
			return append(out, idx.Names()...), cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			switch {
			case len(args) == 0:
				cobraHelp(root, nil)
			case args[0] == "topics":
				idx.WriteList(cmd.OutOrStdout(), name)
			default:
				if t, ok := idx.Lookup(args[0]); ok {
					idx.Show(cmd.OutOrStdout(), t)
					return
				}
				target, _, err := root.Find(args)
				if err != nil || target == nil {
					target = root
				}
				cobraHelp(target, args)
			}
		},
	})

	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if t, ok := idx.Lookup(args[0]); ok {
				idx.Show(cmd.OutOrStdout(), t)
				return
			}
		}
		cobraHelp(cmd, args)
	})
	return idx, nil
}
