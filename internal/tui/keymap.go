package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit         key.Binding
	reload       key.Binding
	toggleHelp   key.Binding
	settings     key.Binding
	moveUp       key.Binding
	moveDown     key.Binding
	switchPane   key.Binding
	expand       key.Binding
	newItem      key.Binding
	editItem     key.Binding
	deleteItem   key.Binding
	reorderUp    key.Binding
	reorderDown  key.Binding
	transfer     key.Binding
	complete     key.Binding
	toggleNote   key.Binding
	undo         key.Binding
	yank         key.Binding
	dismiss      key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		settings:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		moveUp:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		moveDown:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		switchPane:  key.NewBinding(key.WithKeys("tab", "h", "l", "left", "right"), key.WithHelp("tab/h/l", "switch pane")),
		expand:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand notes")),
		newItem:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		editItem:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		deleteItem:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		reorderUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move up")),
		reorderDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),
		transfer:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move to other pane")),
		complete:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		toggleNote:  key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "toggle note")),
		undo:        key.NewBinding(key.WithKeys("u", "z"), key.WithHelp("u", "undo")),
		yank:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy text")),
		dismiss:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.newItem, k.editItem, k.complete, k.transfer, k.expand, k.undo, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveUp, k.moveDown, k.switchPane, k.expand, k.dismiss},
		{k.newItem, k.editItem, k.deleteItem, k.reorderUp, k.reorderDown, k.transfer},
		{k.complete, k.toggleNote, k.undo, k.yank, k.reload, k.settings, k.toggleHelp, k.quit},
	}
}
