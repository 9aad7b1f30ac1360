package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/session"
	"github.com/idilsaglam/grocery/internal/ui"
)

func unitNames() string {
	units := model.Units()
	names := make([]string, len(units))
	for i, u := range units {
		names[i] = string(u)
	}
	return strings.Join(names, ", ")
}

// CopyName is the name suggested for a duplicate.
func CopyName(name string) string { return name + " (Copy)" }

func newListsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Show saved lists",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			lists := sess.Lists()
			if len(lists) == 0 {
				a.print.Println(ui.Current().Muted.Render("No saved lists yet"))
				return nil
			}
			a.print.Println(ui.Header("Saved lists", len(lists)))
			a.print.Println(ui.ListsTable(lists, ui.TerminalWidth()))
			return nil
		},
	}
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <#|id>",
		Short: "Open a saved list as the current list",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			id, err := listID(sess.Lists(), args[0])
			if err != nil {
				return err
			}
			res, err := sess.Dispatch(cmd.Context(), session.LoadList{ID: id})
			if err != nil {
				return err
			}
			a.print.OK(res.Message)
			return nil
		},
	}
}

func newDupCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "dup <#|id>",
		Short: "Duplicate a saved list",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			id, err := listID(sess.Lists(), args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				src, err := sess.List(id)
				if err != nil {
					return err
				}
				name = CopyName(src.Name)
			}
			res, err := sess.Dispatch(cmd.Context(), session.DuplicateList{ID: id, Name: name})
			if err != nil {
				return err
			}
			a.print.OK(res.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", `name of the copy (default "<name> (Copy)")`)
	return cmd
}

func newRenameListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename-list <#|id> <name...>",
		Short: "Rename a saved list",
		Args:  minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			id, err := listID(sess.Lists(), args[0])
			if err != nil {
				return err
			}
			res, err := sess.Dispatch(cmd.Context(), session.RenameList{ID: id, Name: strings.Join(args[1:], " ")})
			if err != nil {
				return err
			}
			a.print.OK(res.Message)
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <#|id>",
		Short: "Delete a saved list",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.session(cmd.Context())
			if err != nil {
				return err
			}
			id, err := listID(sess.Lists(), args[0])
			if err != nil {
				return err
			}
			if l, err := sess.List(id); err == nil && !yes {
				if !a.confirm(fmt.Sprintf("Delete %q?", l.Name)) {
					a.print.Println("Deletion cancelled")
					return nil
				}
			}
			res, err := sess.Dispatch(cmd.Context(), session.DeleteList{ID: id})
			if err != nil {
				return err
			}
			if res.Changed {
				a.print.OK(res.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newSuggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "suggest <items|preps> <query>",
		Short:     "Suggest item names or preparations from history",
		Args:      minArgs(2),
		ValidArgs: []string{"items", "preps"},
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args[1:], " ")
			var c session.Command
			switch args[0] {
			case "items":
				c = session.SuggestItems{Query: query}
			case "preps":
				c = session.SuggestPreparations{Query: query}
			default:
				return usagef("suggest: want items or preps, got %s", args[0])
			}
			res, err := a.dispatch(cmd, c)
			if err != nil {
				return err
			}
			for _, s := range res.Suggestions {
				a.print.Println(s)
			}
			return nil
		},
	}
}
