package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the exercise panel.
type KeyMap struct {
	Open    key.Binding
	Test    key.Binding
	TestAll key.Binding
	Next    key.Binding
	Prev    key.Binding
	Refresh key.Binding
	Report  key.Binding
	Clear   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter", "open"),
		),
		Test: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "test"),
		),
		TestAll: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "test all"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Report: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "report"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear statuses"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Test, k.Refresh, k.Report, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Test, k.TestAll},
		{k.Next, k.Prev, k.Refresh},
		{k.Report, k.Clear, k.Help, k.Quit},
	}
}
