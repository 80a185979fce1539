package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Prev     key.Binding
	Next     key.Binding
	Open     key.Binding
	Focus    key.Binding
	Unfocus  key.Binding
	Up       key.Binding
	Down     key.Binding
	Sections key.Binding
	Menu     key.Binding
	Book     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next gallery")),
		Unfocus:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous gallery")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Sections: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6"), key.WithHelp("1-6", "jump to section")),
		Menu:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		Book:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "copy booking link")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Open, k.Focus, k.Sections, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Open},
		{k.Focus, k.Unfocus, k.Up, k.Down},
		{k.Sections, k.Menu, k.Book},
		{k.Help, k.Quit},
	}
}

// modalKeys is shown while the modal carousel is open.
type modalKeys struct {
	Prev  key.Binding
	Next  key.Binding
	Close key.Binding
}

func newModalKeys() modalKeys {
	return modalKeys{
		Prev:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
		Next:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		Close: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

func (k modalKeys) ShortHelp() []key.Binding { return []key.Binding{k.Prev, k.Next, k.Close} }

func (k modalKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
