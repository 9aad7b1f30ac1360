package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/grocery/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "tui",
		Aliases: []string{"ui"},
		Short:   "Edit lists interactively",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), sess)
		},
	}
}
