package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PanelString frames lines with the current theme's border.
func PanelString(lines ...string) string {
	t := current
	border := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderTint).
		Padding(0, 1)
	return border.Render(strings.Join(lines, "\n"))
}

// Panel prints a framed box.
func (p Printer) Panel(lines ...string) {
	fmt.Fprintln(p.Out, PanelString(lines...))
}

// Header is the "<title>  N items" line shown above a list.
func Header(title string, count int) string {
	t := current
	noun := "items"
	if count == 1 {
		noun = "item"
	}
	return fmt.Sprintf("%s  %s %s",
		t.Title.Render(title),
		t.Accent.Render(fmt.Sprint(count)),
		t.Muted.Render(noun))
}
