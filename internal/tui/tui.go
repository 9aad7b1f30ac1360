// Package tui is the interactive grocery editor.
package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/grocery/internal/apperr"
	"github.com/idilsaglam/grocery/internal/export"
	"github.com/idilsaglam/grocery/internal/session"
	"github.com/idilsaglam/grocery/internal/ui"
)

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeInput
	modeConfirm
	modeLists
)

type inputPurpose int

const (
	inputNewList inputPurpose = iota
	inputRenameDraft
	inputRenameList
)

// step continues the model after a confirmation or a guarded action.
type step func(Model) (Model, tea.Cmd)

type exportDoneMsg struct {
	res session.Result
	err error
}

// Model is the bubbletea model over a session.
type Model struct {
	ctx  context.Context
	sess *session.Session
	keys keyMap

	items list.Model
	saved list.Model

	mode mode
	back mode // where input and confirm return to

	form    form
	input   textinput.Model
	purpose inputPurpose
	target  int64 // saved list an input refers to

	question  string
	onYes     step
	onNo      step
	exporting bool

	status string
	errMsg string
	width  int
	height int
}

// New builds the model. The session must already be open.
func New(ctx context.Context, sess *session.Session) Model {
	keys := newKeyMap()
	width, height := ui.TerminalWidth(), 24

	items := list.New(nil, rowDelegate{}, width-4, height-8)
	items.SetShowTitle(false)
	items.SetShowStatusBar(true)
	items.SetFilteringEnabled(true)
	items.SetStatusBarItemName("item", "items")
	items.Styles.HelpStyle = ui.Current().Faint
	items.FilterInput.Prompt = "/ "
	items.KeyMap.Quit.SetEnabled(false)
	items.AdditionalShortHelpKeys = keys.draftHelp
	items.AdditionalFullHelpKeys = keys.draftFullHelp

	saved := list.New(nil, rowDelegate{}, width-4, height-8)
	saved.SetShowTitle(false)
	saved.SetStatusBarItemName("list", "lists")
	saved.Styles.HelpStyle = ui.Current().Faint
	saved.KeyMap.Quit.SetEnabled(false)
	saved.AdditionalShortHelpKeys = keys.listsHelp

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 200

	m := Model{
		ctx:    ctx,
		sess:   sess,
		keys:   keys,
		items:  items,
		saved:  saved,
		form:   newForm(),
		input:  input,
		width:  width,
		height: height,
	}
	m.refresh()
	return m
}

// Run starts the program and flushes the session when it exits.
func Run(ctx context.Context, sess *session.Session) error {
	p := tea.NewProgram(New(ctx, sess), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return sess.Flush(ctx)
}

func (m Model) Init() tea.Cmd { return nil }

func (m *Model) refresh() {
	m.items.SetItems(itemRows(m.sess.Draft().Items))
	m.saved.SetItems(savedRows(m.sess.Lists()))
}

// unsaved reports whether the draft has items that differ from its saved
// record.
func (m Model) unsaved() bool {
	d := m.sess.Draft()
	if len(d.Items) == 0 {
		return false
	}
	rec, err := m.sess.List(d.ID)
	if err != nil {
		return true
	}
	return rec.Name != d.Name || !slices.Equal(rec.Items, d.Items)
}

// do dispatches cmd and records the outcome in the status line.
func (m *Model) do(cmd session.Command) (session.Result, bool) {
	res, err := m.sess.Dispatch(m.ctx, cmd)
	if err != nil {
		m.errMsg = errText(err)
		m.status = ""
		return res, false
	}
	m.errMsg = ""
	if res.Message != "" {
		m.status = res.Message
	}
	m.refresh()
	return res, true
}

func errText(err error) string {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return err.Error()
}

func (m Model) ask(question string, yes, no step) (Model, tea.Cmd) {
	if m.mode != modeConfirm {
		m.back = m.mode
	}
	m.mode = modeConfirm
	m.question = question
	m.onYes, m.onNo = yes, no
	return m, nil
}

func (m Model) openInput(p inputPurpose, value, placeholder string) (Model, tea.Cmd) {
	if m.mode != modeInput {
		m.back = m.mode
	}
	m.mode = modeInput
	m.purpose = p
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	return m, m.input.Focus()
}

// guardUnsaved offers to save before next replaces or drops the draft.
func (m Model) guardUnsaved(next step) (Model, tea.Cmd) {
	if !m.unsaved() {
		return next(m)
	}
	return m.ask("Save the current list first?", func(m Model) (Model, tea.Cmd) {
		if _, ok := m.do(session.SaveDraft{}); !ok {
			m.mode = m.back
			return m, nil
		}
		return next(m)
	}, next)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.items.SetSize(msg.Width-4, msg.Height-8)
		m.saved.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	case exportDoneMsg:
		return m.exportDone(msg)
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeInput:
			return m.updateInput(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeLists:
			return m.updateLists(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeForm:
		m.form.fields[m.form.focus], cmd = m.form.fields[m.form.focus].Update(msg)
	case modeInput:
		m.input, cmd = m.input.Update(msg)
	case modeLists:
		m.saved, cmd = m.saved.Update(msg)
	default:
		m.items, cmd = m.items.Update(msg)
	}
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.items.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.items, cmd = m.items.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.guardUnsaved(func(m Model) (Model, tea.Cmd) { return m, tea.Quit })
	case key.Matches(msg, m.keys.Add):
		m.mode = modeForm
		return m, m.form.open(nil)
	case key.Matches(msg, m.keys.Edit):
		row, ok := m.items.SelectedItem().(itemRow)
		if !ok {
			return m, nil
		}
		res, ok := m.do(session.EditItem{ID: row.item.ID})
		if !ok {
			return m, nil
		}
		m.mode = modeForm
		return m, m.form.open(res.Recalled)
	case key.Matches(msg, m.keys.Delete):
		if row, ok := m.items.SelectedItem().(itemRow); ok {
			m.do(session.RemoveItem{ID: row.item.ID})
		}
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		if len(m.items.Items()) == 0 {
			return m, nil
		}
		return m.ask("Clear all items?", func(m Model) (Model, tea.Cmd) {
			m.do(session.ClearItems{})
			m.mode = m.back
			return m, nil
		}, nil)
	case key.Matches(msg, m.keys.Save):
		m.do(session.SaveDraft{})
		return m, nil
	case key.Matches(msg, m.keys.Rename):
		return m.openInput(inputRenameDraft, m.sess.Draft().Name, "List name")
	case key.Matches(msg, m.keys.New):
		return m.guardUnsaved(func(m Model) (Model, tea.Cmd) {
			m.mode = modeBrowse
			return m.openInput(inputNewList, "", "Name of the new list")
		})
	case key.Matches(msg, m.keys.Close):
		return m.guardUnsaved(func(m Model) (Model, tea.Cmd) {
			m.do(session.CloseList{})
			m.mode = modeBrowse
			return m, nil
		})
	case key.Matches(msg, m.keys.Export):
		return m.startExport(false)
	case key.Matches(msg, m.keys.Lists):
		m.refresh()
		m.mode = modeLists
		return m, nil
	}

	var cmd tea.Cmd
	m.items, cmd = m.items.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.form.recalled {
			m.status = "Edit cancelled; the item was removed"
		}
		m.form.err = ""
		m.mode = modeBrowse
		return m, nil
	case "enter":
		if _, ok := m.do(m.form.command()); !ok {
			m.form.err = m.errMsg
			m.errMsg = ""
			return m, nil
		}
		m.mode = modeBrowse
		return m, nil
	case "tab":
		if m.form.suggestable() && m.form.complete() {
			return m, nil
		}
		return m, m.form.focusField(m.form.focus + 1)
	case "shift+tab":
		return m, m.form.focusField(m.form.focus - 1)
	case "ctrl+n", "down":
		m.form.moveSelection(1)
		return m, nil
	case "ctrl+p", "up":
		m.form.moveSelection(-1)
		return m, nil
	}

	var cmd tea.Cmd
	f := &m.form
	f.fields[f.focus], cmd = f.fields[f.focus].Update(msg)
	if f.suggestable() {
		var c session.Command = session.SuggestItems{Query: f.query()}
		if f.focus == fieldPrep {
			c = session.SuggestPreparations{Query: f.query()}
		}
		if res, err := m.sess.Dispatch(m.ctx, c); err == nil {
			f.suggestions = res.Suggestions
			if f.sel >= len(f.suggestions) {
				f.sel = 0
			}
		}
	}
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.mode = m.back
		return m, nil
	case "enter":
		value := m.input.Value()
		var cmd session.Command
		switch m.purpose {
		case inputNewList:
			cmd = session.NewList{Name: value}
		case inputRenameDraft:
			cmd = session.RenameDraft{Name: value}
		case inputRenameList:
			cmd = session.RenameList{ID: m.target, Name: value}
		}
		if _, ok := m.do(cmd); !ok {
			return m, nil
		}
		m.input.Blur()
		m.mode = m.back
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var next step
	switch strings.ToLower(msg.String()) {
	case "y":
		next = m.onYes
	case "n", "esc":
		next = m.onNo
	default:
		return m, nil
	}
	m.mode = m.back
	m.question = ""
	m.onYes, m.onNo = nil, nil
	if next == nil {
		return m, nil
	}
	return next(m)
}

func (m Model) updateLists(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.saved.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.saved, cmd = m.saved.Update(msg)
		return m, cmd
	}
	row, selected := m.saved.SelectedItem().(savedRow)

	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeBrowse
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m.guardUnsaved(func(m Model) (Model, tea.Cmd) { return m, tea.Quit })
	case key.Matches(msg, m.keys.Load):
		if !selected {
			return m, nil
		}
		id := row.list.ID
		return m.guardUnsaved(func(m Model) (Model, tea.Cmd) {
			if _, ok := m.do(session.LoadList{ID: id}); ok {
				m.mode = modeBrowse
			}
			return m, nil
		})
	case key.Matches(msg, m.keys.Duplicate):
		if selected {
			m.do(session.DuplicateList{ID: row.list.ID, Name: row.list.Name + " (Copy)"})
		}
		return m, nil
	case key.Matches(msg, m.keys.RenameList):
		if !selected {
			return m, nil
		}
		m.target = row.list.ID
		return m.openInput(inputRenameList, row.list.Name, "New name")
	case key.Matches(msg, m.keys.DeleteList):
		if !selected {
			return m, nil
		}
		id := row.list.ID
		return m.ask(fmt.Sprintf("Delete %q?", row.list.Name), func(m Model) (Model, tea.Cmd) {
			m.do(session.DeleteList{ID: id})
			return m, nil
		}, nil)
	}

	var cmd tea.Cmd
	m.saved, cmd = m.saved.Update(msg)
	return m, cmd
}

// startExport renders in the background. The HTML offer is asked here
// rather than from inside the pipeline.
func (m Model) startExport(htmlOnly bool) (Model, tea.Cmd) {
	if m.exporting {
		m.errMsg = apperr.ErrExportInProgress.Error()
		return m, nil
	}
	m.exporting = true
	m.errMsg = ""
	m.status = "Exporting…"
	ctx, sess := m.ctx, m.sess
	return m, func() tea.Msg {
		res, err := sess.Dispatch(ctx, session.ExportDraft{Prompter: export.Decline, HTMLOnly: htmlOnly})
		return exportDoneMsg{res: res, err: err}
	}
}

func (m Model) exportDone(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	m.exporting = false
	if msg.err != nil {
		m.status = ""
		m.errMsg = errText(msg.err)
		return m, nil
	}
	rep := msg.res.Export
	m.status = msg.res.Message + " " + strings.Join(rep.Paths, ", ")
	if rep.OfferedHTML && !rep.AcceptedHTML {
		return m.ask(export.HTMLOfferMessage, func(m Model) (Model, tea.Cmd) {
			return m.startExport(true)
		}, nil)
	}
	return m, nil
}

func (m Model) View() string {
	t := ui.Current()
	d := m.sess.Draft()

	header := ui.Header(d.Name, len(d.Items))
	if m.unsaved() {
		header += "  " + t.Warn.Render("unsaved")
	}
	if m.mode == modeLists {
		header = ui.Header("Saved lists", len(m.saved.Items()))
	}

	var body string
	switch m.mode {
	case modeLists:
		body = m.saved.View()
	case modeForm:
		body = m.items.View() + "\n" + ui.PanelString(m.form.view())
	case modeInput:
		label := map[inputPurpose]string{
			inputNewList:     "New list",
			inputRenameDraft: "Rename list",
			inputRenameList:  "Rename saved list",
		}[m.purpose]
		body = m.listView() + "\n" + ui.PanelString(t.Title.Render(label), m.input.View())
	case modeConfirm:
		body = m.listView() + "\n" + ui.PanelString(m.question+" "+t.Muted.Render("(y/n)"))
	default:
		body = m.items.View()
	}

	lines := []string{header, "", body}
	if m.errMsg != "" {
		lines = append(lines, t.Error.Render(t.SymFail+" "+m.errMsg))
	} else if m.status != "" {
		lines = append(lines, t.Success.Render(t.SymOK+" "+m.status))
	}
	return ui.PanelString(lines...)
}

func (m Model) listView() string {
	if m.back == modeLists {
		return m.saved.View()
	}
	return m.items.View()
}
