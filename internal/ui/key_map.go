package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	back      key.Binding
	next      key.Binding
	prev      key.Binding
	all       key.Binding
	favorites key.Binding
	login     key.Binding
	submit    key.Binding
	profile   key.Binding
	logout    key.Binding
	toggle    key.Binding
	open      key.Binding
	refresh   key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		all:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all stories")),
		favorites: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorites")),
		login:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "login/signup")),
		submit:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "submit")),
		profile:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		logout:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "logout")),
		toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "favorite")),
		open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle, k.open},
		{k.all, k.favorites, k.submit, k.profile},
		{k.login, k.logout, k.refresh, k.quit},
	}
}
