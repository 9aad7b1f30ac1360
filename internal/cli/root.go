package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/ui"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "grocery",
		Short: "grocery - build, save and export grocery lists",
		Long: `grocery keeps one working list (the draft) plus any number of saved lists.
Edit the draft with add/rm/edit, store it with save, and export it as PDF or HTML.`,
		Example: `  grocery new "Weekly Shop"
  grocery add Milk -q 2 -u l
  grocery add Onion -q 1 -p chopped
  grocery save
  grocery export`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown subcommand: %s", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return usagef("missing subcommand")
		},
		PersistentPreRun: func(*cobra.Command, []string) {
			ui.SetColorForcing(false, a.opt.NoColor)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usagef("%v", err)
	})

	f := root.PersistentFlags()
	f.StringVar(&a.opt.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/grocery/config.yaml)")
	f.StringVar(&a.opt.DataDir, "data-dir", "", "directory holding the saved state")
	f.StringVar(&a.opt.Backend, "backend", "", "storage backend: json or sqlite")
	f.StringVar(&a.opt.ExportDir, "export-dir", "", "where exported files are written")
	f.StringVar(&a.opt.Theme, "theme", "", "output theme: "+strings.Join(ui.Themes(), ", "))
	f.BoolVarP(&a.opt.Verbose, "verbose", "v", false, "mirror the log to stderr")
	f.BoolVar(&a.opt.Ephemeral, "ephemeral", false, "keep state in memory only")
	f.BoolVar(&a.opt.NoColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newNewCmd(a),
		newAddCmd(a),
		newRmCmd(a),
		newEditCmd(a),
		newClearCmd(a),
		newCloseCmd(a),
		newRenameCmd(a),
		newSaveCmd(a),
		newShowCmd(a),
		newListsCmd(a),
		newLoadCmd(a),
		newDupCmd(a),
		newRenameListCmd(a),
		newDeleteCmd(a),
		newSuggestCmd(a),
		newExportCmd(a),
		newTUICmd(a),
	)
	return root
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return usagef("usage: %s", cmd.UseLine())
	}
	return nil
}

// itemAt resolves a 1-based position in the draft.
func (a *app) itemAt(d model.List, arg string) (model.Item, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return model.Item{}, usagef("not a number: %s", arg)
	}
	if n < 1 || n > len(d.Items) {
		a.print.Hint("Hint: run `grocery show` to see valid positions")
		return model.Item{}, usagef("index out of range: have %d, got %d", len(d.Items), n)
	}
	return d.Items[n-1], nil
}

// listID resolves either a position from `grocery lists` or a list id.
func listID(lists []model.List, arg string) (int64, error) {
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, usagef("not a number: %s", arg)
	}
	if n >= 1 && n <= int64(len(lists)) {
		return lists[n-1].ID, nil
	}
	return n, nil
}
