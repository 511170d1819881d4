package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the terminal key bindings. Player two shares the keyboard
// in local play; over SSH every session is player one of its own keyboard.
type KeyMap struct {
	Left, Right, Up, Down key.Binding
	Serve, Catch          key.Binding
	Confirm, Back, Pause  key.Binding

	P2Left, P2Right, P2Serve, P2Catch key.Binding

	Help, Screenshot, Leave, Quit key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	k := KeyMap{
		Left:    key.NewBinding(key.WithKeys("a", "left"), key.WithHelp("←/a", "left")),
		Right:   key.NewBinding(key.WithKeys("d", "right"), key.WithHelp("→/d", "right")),
		Up:      key.NewBinding(key.WithKeys("w", "up"), key.WithHelp("↑/w", "up")),
		Down:    key.NewBinding(key.WithKeys("s", "down"), key.WithHelp("↓/s", "down")),
		Serve:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "serve")),
		Catch:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "catch")),
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),

		P2Left:  key.NewBinding(key.WithKeys("j"), key.WithHelp("j/l", "P2 move")),
		P2Right: key.NewBinding(key.WithKeys("l"), key.WithHelp("j/l", "P2 move")),
		P2Serve: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "P2 serve")),
		P2Catch: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "P2 catch")),

		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Screenshot: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "screenshot")),
		Leave:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "leave room")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
	k.Leave.SetEnabled(false)
	return k
}

// SoloKeyMap returns the bindings for a room seat: one player per
// keyboard, and q leaves the room from its menu.
func SoloKeyMap() KeyMap {
	k := DefaultKeyMap()
	k.Leave.SetEnabled(true)
	for _, b := range []*key.Binding{&k.P2Left, &k.P2Right, &k.P2Serve, &k.P2Catch} {
		b.SetEnabled(false)
	}
	return k
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Serve, k.Catch, k.Pause, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Serve, k.Catch, k.Confirm, k.Back, k.Pause},
		{k.P2Left, k.P2Serve, k.P2Catch},
		{k.Help, k.Screenshot, k.Leave, k.Quit},
	}
}
