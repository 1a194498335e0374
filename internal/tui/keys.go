package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keybindings for the agent picker.
type keyMap struct {
	Quit      key.Binding
	Confirm   key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "cancel"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "toggle"),
	),
	ToggleAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "toggle all"),
	),
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Toggle, k.ToggleAll, k.Confirm, k.Quit}
}
