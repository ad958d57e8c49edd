package tableui

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Up, Down, Left, Right key.Binding
	PageUp, PageDown      key.Binding
	PinTop, PinBottom     key.Binding
	PinLeft, PinRight     key.Binding
	Unpin                 key.Binding
	Edit, Copy            key.Binding
	AddRow, DeleteRow     key.Binding
	SwapRow               key.Binding
	Unlock                key.Binding
	Help, Quit            key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "scroll left")),
		Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "scroll right")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown", "space"), key.WithHelp("pgdn", "page down")),
		PinTop:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "pin row top")),
		PinBottom: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "pin row bottom")),
		PinLeft:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "pin column left")),
		PinRight:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "pin column right")),
		Unpin:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "clear pins")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit cell")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
		AddRow:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "add row")),
		DeleteRow: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "delete row")),
		SwapRow:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "swap row down")),
		Unlock:    key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "unlock sizes")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.Copy, k.AddRow, k.DeleteRow, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown},
		{k.PinTop, k.PinBottom, k.PinLeft, k.PinRight, k.Unpin},
		{k.Edit, k.Copy, k.AddRow, k.DeleteRow, k.SwapRow, k.Unlock},
		{k.Help, k.Quit},
	}
}
