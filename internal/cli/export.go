package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grocery/internal/export"
	"github.com/idilsaglam/grocery/internal/session"
)

func newExportCmd(a *app) *cobra.Command {
	var htmlOnly, yes bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the current list as PDF (or HTML)",
		Long: `Export the current list. Lists containing Devanagari are rasterized when
raster_font is configured; otherwise they get a simplified PDF and an
offer to also write an HTML version, which renders every script.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := session.ExportDraft{HTMLOnly: htmlOnly}
			if yes {
				c.Prompter = export.PromptFunc(func(context.Context, string) bool { return true })
			}
			res, err := a.dispatch(cmd, c)
			if err != nil {
				return err
			}
			rep := res.Export
			for _, f := range rep.Failures {
				a.print.Warn(f.Error())
			}
			if rep.Disclaimer && !rep.AcceptedHTML {
				a.print.Warn("Devanagari may not display correctly in this PDF; try `grocery export --html`")
			}
			a.print.OK(res.Message)
			for _, p := range rep.Paths {
				a.print.Println("  " + p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&htmlOnly, "html", false, "write only the HTML version")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "accept the HTML offer without asking")
	return cmd
}
