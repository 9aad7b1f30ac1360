package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/grocery/internal/draft"
	"github.com/idilsaglam/grocery/internal/session"
	"github.com/idilsaglam/grocery/internal/ui"
)

const (
	fieldName = iota
	fieldQty
	fieldUnit
	fieldPrep
	fieldCount
)

var fieldLabels = [fieldCount]string{"Item", "Qty", "Unit", "Preparation"}

// form is the inline add/edit form. Name and preparation offer
// suggestions from history.
type form struct {
	fields      [fieldCount]textinput.Model
	focus       int
	suggestions []string
	sel         int
	recalled    bool // filled from an item pulled out by edit
	err         string
}

func newForm() form {
	var f form
	placeholders := [fieldCount]string{"e.g. Milk", "1", "kg, g, l, ml, pcs, dozen, packet, bunch, नग, जुडी", "optional, e.g. chopped"}
	for i := range f.fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 200
		f.fields[i] = ti
	}
	f.fields[fieldQty].CharLimit = 6
	return f
}

// open resets the form, optionally filled from a recalled item.
func (f *form) open(in *draft.ItemInput) tea.Cmd {
	for i := range f.fields {
		f.fields[i].SetValue("")
	}
	f.recalled = in != nil
	if in != nil {
		f.fields[fieldName].SetValue(in.Name)
		f.fields[fieldQty].SetValue(in.Quantity)
		f.fields[fieldUnit].SetValue(in.Unit)
		f.fields[fieldPrep].SetValue(in.Preparation)
	}
	f.err = ""
	f.suggestions = nil
	return f.focusField(fieldName)
}

func (f *form) focusField(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	f.suggestions = nil
	f.sel = 0
	var cmd tea.Cmd
	for j := range f.fields {
		if j == f.focus {
			cmd = f.fields[j].Focus()
			f.fields[j].CursorEnd()
		} else {
			f.fields[j].Blur()
		}
	}
	return cmd
}

func (f *form) command() session.AddItem {
	return session.AddItem{
		Name:        f.fields[fieldName].Value(),
		Quantity:    f.fields[fieldQty].Value(),
		Unit:        f.fields[fieldUnit].Value(),
		Preparation: f.fields[fieldPrep].Value(),
	}
}

// suggestable reports whether the focused field draws from history.
func (f *form) suggestable() bool { return f.focus == fieldName || f.focus == fieldPrep }

func (f *form) query() string { return strings.TrimSpace(f.fields[f.focus].Value()) }

// complete fills the focused field with the highlighted suggestion and
// reports whether that changed anything.
func (f *form) complete() bool {
	if len(f.suggestions) == 0 {
		return false
	}
	s := f.suggestions[f.sel]
	if f.fields[f.focus].Value() == s {
		return false
	}
	f.fields[f.focus].SetValue(s)
	f.fields[f.focus].CursorEnd()
	f.suggestions = nil
	f.sel = 0
	return true
}

func (f *form) moveSelection(delta int) {
	if len(f.suggestions) == 0 {
		return
	}
	f.sel = (f.sel + delta + len(f.suggestions)) % len(f.suggestions)
}

func (f form) view() string {
	t := ui.Current()
	title := "Add item"
	if f.recalled {
		title = "Edit item"
	}
	if f.err != "" {
		title += "  " + t.Error.Render(f.err)
	}
	lines := []string{t.Title.Render(title)}
	for i, fld := range f.fields {
		label := t.Muted.Render(fieldLabels[i] + ": ")
		if i == f.focus {
			label = t.Accent.Render(fieldLabels[i] + ": ")
		}
		lines = append(lines, label+fld.View())
		if i == f.focus && len(f.suggestions) > 0 {
			for j, s := range f.suggestions {
				mark := "   "
				if j == f.sel {
					mark = " " + t.Selected.Render(">") + " "
				}
				lines = append(lines, mark+s)
			}
		}
	}
	lines = append(lines, t.Faint.Render("enter add • tab complete/next • ctrl+n/ctrl+p pick • esc cancel"))
	return strings.Join(lines, "\n")
}
