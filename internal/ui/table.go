package ui

import (
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/idilsaglam/grocery/internal/model"
)

const (
	minCellWidth = 8
	maxCellWidth = 40
)

// TerminalWidth reports the stdout width, or 80 when it is not a terminal.
func TerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// Truncate shortens s to at most width cells. Devanagari clusters and wide
// characters are measured by display width, not bytes.
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// textWidth splits the room left after the fixed columns between n text
// columns.
func textWidth(termWidth, fixed, n int) int {
	w := (termWidth - fixed) / n
	if w < minCellWidth {
		return minCellWidth
	}
	if w > maxCellWidth {
		return maxCellWidth
	}
	return w
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(current.Table)
	return t
}

// ItemsTable renders the five-column item table.
func ItemsTable(items []model.Item, termWidth int) string {
	t := newTable()
	t.AppendHeader(table.Row{"#", "Item", "Qty", "Unit", "Preparation"})
	w := textWidth(termWidth, 30, 2)
	for i, it := range items {
		t.AppendRow(table.Row{
			i + 1,
			Truncate(it.Name, w),
			it.Quantity,
			string(it.Unit),
			Truncate(it.PreparationOrDash(), w),
		})
	}
	return t.Render()
}

// ListsTable renders saved lists, newest first as stored. The # column is
// the position commands accept in place of the id.
func ListsTable(lists []model.List, termWidth int) string {
	t := newTable()
	t.AppendHeader(table.Row{"#", "ID", "Name", "Items", "Updated"})
	w := textWidth(termWidth, 50, 1)
	for i, l := range lists {
		updated := "-"
		if l.UpdatedAt != nil {
			updated = l.UpdatedAt.Local().Format("02 Jan 2006 15:04")
		}
		t.AppendRow(table.Row{
			i + 1,
			strconv.FormatInt(l.ID, 10),
			Truncate(l.Name, w),
			len(l.Items),
			updated,
		})
	}
	return t.Render()
}
