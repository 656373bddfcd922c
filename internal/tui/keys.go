package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/brief/internal/config"
)

// keyMap holds the configurable bindings. Each action also answers to
// modifier+key so it stays reachable while a text input has focus.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Select  key.Binding
	Search  key.Binding
	Refresh key.Binding
	Theme   key.Binding
	Open    key.Binding
	Copy    key.Binding
	Filter  key.Binding
	Back    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap(cfg *config.Config) keyMap {
	mod := cfg.Keys.Modifier + "+"
	b := cfg.Keys.Bindings

	action := func(k, desc string) key.Binding {
		return key.NewBinding(
			key.WithKeys(k, mod+k),
			key.WithHelp(k, desc),
		)
	}

	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		Search:  action(b.Search, "search"),
		Refresh: action(b.Refresh, "refresh"),
		Theme:   action(b.Theme, "theme"),
		Open:    action(b.Open, "open"),
		Copy:    action(b.Copy, "copy link"),
		Filter:  action(b.Filter, "filter"),
		Back:    key.NewBinding(key.WithKeys(b.Back), key.WithHelp(b.Back, "back")),
		Help:    key.NewBinding(key.WithKeys(b.Help), key.WithHelp(b.Help, "help")),
		Quit:    key.NewBinding(key.WithKeys(b.Quit, "ctrl+c"), key.WithHelp(b.Quit, "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Refresh, k.Theme, k.Open, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Open, k.Copy},
		{k.Search, k.Filter, k.Refresh},
		{k.Theme, k.Back, k.Help, k.Quit},
	}
}

// readerKeys is the help shown in the reader view.
type readerKeys struct {
	keyMap
}

func (k readerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Copy, k.Theme, k.Back, k.Quit}
}

func (k readerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
