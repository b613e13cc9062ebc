package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Prev       key.Binding
	Next       key.Binding
	Yes        key.Binding
	No         key.Binding
	Mark       key.Binding
	MarkAll    key.Binding
	BulkYes    key.Binding
	BulkNo     key.Binding
	Export     key.Binding
	Open       key.Binding
	Copy       key.Binding
	Find       key.Binding
	Reset      key.Binding
	Enter      key.Binding
	Quit       key.Binding
	DetailUp   key.Binding
	DetailDown key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k", "ctrl+k"),
		key.WithHelp("up", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j", "ctrl+j"),
		key.WithHelp("dn", "down"),
	),
	Prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("h", "prev"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("l", "next"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "match"),
	),
	No: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "no match"),
	),
	Mark: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "mark"),
	),
	MarkAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "mark all"),
	),
	BulkYes: key.NewBinding(
		key.WithKeys("Y"),
		key.WithHelp("Y/N", "bulk"),
	),
	BulkNo: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "bulk no"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy url"),
	),
	Find: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "find"),
	),
	Reset: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "load"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c", "q"),
		key.WithHelp("esc", "quit"),
	),
	DetailUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "detail up"),
	),
	DetailDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "detail down"),
	),
}

// reviewHelp is the key order shown in the status bar.
var reviewHelp = []key.Binding{
	keys.Yes, keys.No, keys.Next, keys.Mark, keys.BulkYes,
	keys.Find, keys.Open, keys.Copy, keys.Export, keys.Reset, keys.Quit,
}
