package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Add, Edit, Delete, Clear, Save, Rename, New, Close, Export, Lists, Quit key.Binding

	Load, DeleteList, Duplicate, RenameList, Back key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Rename: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new list")),
		Close:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "close list")),
		Export: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),
		Lists:  key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "saved lists")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Load:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		DeleteList: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete")),
		Duplicate:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "duplicate")),
		RenameList: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rename")),
		Back:       key.NewBinding(key.WithKeys("esc", "l"), key.WithHelp("esc", "back")),
	}
}

func (k keyMap) draftHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Save, k.Export, k.Lists}
}

func (k keyMap) draftFullHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Clear, k.Save, k.Rename, k.New, k.Close, k.Export, k.Lists}
}

func (k keyMap) listsHelp() []key.Binding {
	return []key.Binding{k.Load, k.Duplicate, k.RenameList, k.DeleteList, k.Back}
}
