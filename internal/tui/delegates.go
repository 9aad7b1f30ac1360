package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/ui"
)

// itemRow adapts a draft item to bubbles/list.Item.
type itemRow struct {
	pos  int
	item model.Item
}

func (r itemRow) FilterValue() string { return r.item.Name }

func itemRows(items []model.Item) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = itemRow{pos: i + 1, item: it}
	}
	return out
}

// savedRow adapts a saved list.
type savedRow struct{ list model.List }

func (r savedRow) FilterValue() string { return r.list.Name }

func savedRows(lists []model.List) []list.Item {
	out := make([]list.Item, len(lists))
	for i, l := range lists {
		out[i] = savedRow{list: l}
	}
	return out
}

// rowDelegate draws single-line rows for both lists.
type rowDelegate struct{}

func (d rowDelegate) Height() int                         { return 1 }
func (d rowDelegate) Spacing() int                        { return 0 }
func (d rowDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	t := ui.Current()
	var line string
	switch r := li.(type) {
	case itemRow:
		line = fmt.Sprintf("%s %s  %s",
			t.Muted.Render(fmt.Sprintf("%2d.", r.pos)),
			ui.Truncate(r.item.Name, 40),
			t.Accent.Render(fmt.Sprintf("%d %s", r.item.Quantity, r.item.Unit)))
		if r.item.Preparation != "" {
			line += "  " + t.Muted.Render("("+ui.Truncate(r.item.Preparation, 30)+")")
		}
	case savedRow:
		updated := ""
		if r.list.UpdatedAt != nil {
			updated = r.list.UpdatedAt.Local().Format("02 Jan 2006")
		}
		line = fmt.Sprintf("%s  %s  %s",
			ui.Truncate(r.list.Name, 40),
			t.Accent.Render(fmt.Sprintf("%d items", len(r.list.Items))),
			t.Muted.Render(updated))
	default:
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(">") + " "
	}
	fmt.Fprint(w, prefix+line)
}
