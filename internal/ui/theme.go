package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
)

// Theme bundles palette, symbols and borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Warn lipgloss.Style
	Selected, Faint                            lipgloss.Style

	Border     lipgloss.Border
	BorderTint lipgloss.TerminalColor
	Table      table.Style

	SymOK, SymFail, SymWarn, SymBullet string
}

var current = classic()

// Themes lists the accepted theme names.
func Themes() []string { return []string{"classic", "neon", "mono"} }

// SetTheme switches the palette. Unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Name:       "neon",
			Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Warn:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Selected:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Faint:      lipgloss.NewStyle().Faint(true),
			Border:     lipgloss.RoundedBorder(),
			BorderTint: lipgloss.Color("13"),
			Table:      table.StyleColoredBright,
			SymOK:      "✔", SymFail: "✖", SymWarn: "!", SymBullet: "•",
		}
	case "mono":
		plain := lipgloss.NewStyle()
		current = Theme{
			Name:  "mono",
			Title: plain.Bold(true), Muted: plain, Accent: plain,
			Success: plain, Error: plain, Warn: plain,
			Selected: plain.Reverse(true), Faint: plain,
			Border:     lipgloss.NormalBorder(),
			BorderTint: lipgloss.NoColor{},
			Table:      table.StyleDefault,
			SymOK:      "ok", SymFail: "error:", SymWarn: "warning:", SymBullet: "-",
		}
	default:
		current = classic()
	}
}

func classic() Theme {
	return Theme{
		Name:       "classic",
		Title:      lipgloss.NewStyle().Bold(true),
		Muted:      lipgloss.NewStyle().Faint(true),
		Accent:     lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warn:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected:   lipgloss.NewStyle().Bold(true).Reverse(true),
		Faint:      lipgloss.NewStyle().Faint(true),
		Border:     lipgloss.RoundedBorder(),
		BorderTint: lipgloss.Color("8"),
		Table:      table.StyleLight,
		SymOK:      "✔", SymFail: "✖", SymWarn: "!", SymBullet: "•",
	}
}

// Current returns the active theme.
func Current() Theme { return current }

// SetColorForcing overrides terminal detection. disable wins over force.
func SetColorForcing(force, disable bool) {
	switch {
	case disable:
		lipgloss.SetColorProfile(termenv.Ascii)
	case force:
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}
