package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grocery/internal/apperr"
	"github.com/idilsaglam/grocery/internal/draft"
	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/session"
	"github.com/idilsaglam/grocery/internal/ui"
)

func newNewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new <name...>",
		Short: "Start a new empty list",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.dispatch(cmd, session.NewList{Name: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			a.print.OK(res.Message)
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var quantity, unit, prep string
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Add an item to the current list",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.dispatch(cmd, session.AddItem{
				Name:        strings.Join(args, " "),
				Quantity:    quantity,
				Unit:        unit,
				Preparation: prep,
			})
			if err != nil {
				return err
			}
			it := res.Item
			a.print.OK(fmt.Sprintf("added %s (%d %s)", it.Name, it.Quantity, it.Unit))
			return nil
		},
	}
	cmd.Flags().StringVarP(&quantity, "qty", "q", "1", "quantity (positive integer)")
	cmd.Flags().StringVarP(&unit, "unit", "u", "", "unit, one of: "+unitNames())
	cmd.Flags().StringVarP(&prep, "prep", "p", "", "preparation note, e.g. chopped")
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <position>",
		Short: "Remove an item from the current list",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			it, err := a.itemAt(sess.Draft(), args[0])
			if err != nil {
				return err
			}
			if _, err := sess.Dispatch(cmd.Context(), session.RemoveItem{ID: it.ID}); err != nil {
				return err
			}
			a.print.OK("removed " + it.Name)
			return nil
		},
	}
}

// newEditCmd pulls an item out of the list. With any field flag it is
// re-added right away with the changed values; without, the recalled
// values are printed so the user can add it back.
func newEditCmd(a *app) *cobra.Command {
	var name, quantity, unit, prep string
	cmd := &cobra.Command{
		Use:   "edit <position>",
		Short: "Recall an item for editing",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			it, err := a.itemAt(sess.Draft(), args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("qty") && !flags.Changed("unit") && !flags.Changed("prep") {
				res, err := sess.Dispatch(cmd.Context(), session.EditItem{ID: it.ID})
				if err != nil {
					return err
				}
				in := *res.Recalled
				a.print.Warn(fmt.Sprintf("%s removed; add it back with:", in.Name))
				a.print.Println(fmt.Sprintf("  grocery add %s -q %s -u %s%s",
					strconv.Quote(in.Name), in.Quantity, in.Unit, prepFlag(in.Preparation)))
				return nil
			}

			in := draft.InputOf(it)
			if flags.Changed("name") {
				in.Name = name
			}
			if flags.Changed("qty") {
				in.Quantity = quantity
			}
			if flags.Changed("unit") {
				in.Unit = unit
			}
			if flags.Changed("prep") {
				in.Preparation = prep
			}
			if err := checkInput(in); err != nil {
				return err
			}

			res, err := sess.Dispatch(cmd.Context(), session.EditItem{ID: it.ID})
			if err != nil {
				return err
			}
			added, err := sess.Dispatch(cmd.Context(), addCommand(in))
			if err != nil {
				if _, restoreErr := sess.Dispatch(cmd.Context(), addCommand(*res.Recalled)); restoreErr != nil {
					a.print.Hint(fmt.Sprintf("Hint: %s could not be restored; re-add it with `grocery add`", it.Name))
				}
				return err
			}
			a.print.OK(fmt.Sprintf("updated %s (%d %s)", added.Item.Name, added.Item.Quantity, added.Item.Unit))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new item name")
	cmd.Flags().StringVarP(&quantity, "qty", "q", "", "new quantity")
	cmd.Flags().StringVarP(&unit, "unit", "u", "", "new unit")
	cmd.Flags().StringVarP(&prep, "prep", "p", "", "new preparation note")
	return cmd
}

// checkInput rejects what AddItem would reject, so an edit never drops
// the original item for an input that cannot be re-added.
func checkInput(in draft.ItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Invalid("name", "please enter an ingredient name")
	}
	if _, err := model.ParseUnit(in.Unit, model.DefaultUnit); err != nil {
		return apperr.Invalid("unit", err.Error())
	}
	return nil
}

func addCommand(in draft.ItemInput) session.AddItem {
	return session.AddItem{Name: in.Name, Quantity: in.Quantity, Unit: in.Unit, Preparation: in.Preparation}
}

func prepFlag(prep string) string {
	if prep == "" {
		return ""
	}
	return " -p " + strconv.Quote(prep)
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every item from the current list",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if len(sess.Draft().Items) > 0 && !yes && !a.confirm("Clear all items?") {
				a.print.Println("Clear cancelled")
				return nil
			}
			res, err := sess.Dispatch(cmd.Context(), session.ClearItems{})
			if err != nil {
				return err
			}
			a.print.OK(res.Message)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newCloseCmd(a *app) *cobra.Command {
	var save, discard bool
	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close the current list, optionally saving it first",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			if len(sess.Draft().Items) > 0 && !discard {
				if save || a.confirm("Save the current list before closing?") {
					res, err := sess.Dispatch(cmd.Context(), session.SaveDraft{})
					if err != nil {
						return err
					}
					a.print.OK(res.Message)
				}
			}
			res, err := sess.Dispatch(cmd.Context(), session.CloseList{})
			if err != nil {
				return err
			}
			a.print.OK(res.Message)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save before closing without asking")
	cmd.Flags().BoolVar(&discard, "discard", false, "close without saving and without asking")
	cmd.MarkFlagsMutuallyExclusive("save", "discard")
	return cmd
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <name...>",
		Short: "Rename the current list",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.dispatch(cmd, session.RenameDraft{Name: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			a.print.OK(res.Message)
			return nil
		},
	}
}

func newSaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the current list",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.dispatch(cmd, session.SaveDraft{})
			if err != nil {
				return err
			}
			a.print.OK(res.Message)
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current list",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			d := sess.Draft()
			t := ui.Current()
			lines := []string{ui.Header(d.Name, len(d.Items))}
			if d.CreatedAt != nil {
				lines = append(lines, t.Muted.Render("Created: "+d.CreatedAt.Local().Format("02 Jan 2006")))
			}
			lines = append(lines, "")
			if len(d.Items) == 0 {
				lines = append(lines, t.Muted.Render("no items"))
			} else {
				lines = append(lines, ui.ItemsTable(d.Items, ui.TerminalWidth()-4))
			}
			lines = append(lines, "", fmt.Sprintf("Total Items: %d", len(d.Items)))
			if !d.HasID() || !listSaved(sess, d.ID) {
				lines = append(lines, t.Muted.Render("Tip: store it with `grocery save`"))
			}
			a.print.Panel(lines...)
			return nil
		},
	}
}

func listSaved(sess *session.Session, id int64) bool {
	_, err := sess.List(id)
	return err == nil
}
