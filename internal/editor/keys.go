package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings of the main grid view. The legend is rendered
// from the same bindings, so disabled ones drop out of it.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Top      key.Binding
	Bottom   key.Binding

	Edit   key.Binding
	Commit key.Binding
	Next   key.Binding
	Cancel key.Binding

	Repr   key.Binding
	Width  key.Binding
	Reset  key.Binding
	Undo   key.Binding
	Redo   key.Binding
	Find   key.Binding
	Goto   key.Binding
	Copy   key.Binding
	Paste  key.Binding
	Open   key.Binding
	Save   key.Binding
	SaveAs key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "page down")),
		Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("Home", "row start")),
		End:      key.NewBinding(key.WithKeys("end"), key.WithHelp("End", "row end")),
		Top:      key.NewBinding(key.WithKeys("ctrl+home"), key.WithHelp("C-Home", "first byte")),
		Bottom:   key.NewBinding(key.WithKeys("ctrl+end"), key.WithHelp("C-End", "last byte")),

		Edit:   key.NewBinding(key.WithKeys("enter", "r"), key.WithHelp("r", "edit")),
		Commit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "apply")),
		Next:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "apply+next")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "cancel")),

		Repr:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "repr")),
		Width:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "width")),
		Reset:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset")),
		Undo:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Redo:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "redo")),
		Find:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "find")),
		Goto:   key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "goto")),
		Copy:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("^C", "copy row")),
		Paste:  key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("^V", "paste")),
		Open:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Save:   key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		SaveAs: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "save as")),
		Help:   key.NewBinding(key.WithKeys("h", "?"), key.WithHelp("h", "help")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Quit, k.Help, k.Open, k.Save, k.SaveAs, k.Edit, k.Repr, k.Width,
		k.Reset, k.Undo, k.Redo, k.Find, k.Goto, k.Copy, k.Paste,
	}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Home, k.End, k.Top, k.Bottom},
		{k.Edit, k.Commit, k.Next, k.Cancel, k.Undo, k.Redo, k.Reset, k.Copy, k.Paste},
		{k.Open, k.Save, k.SaveAs, k.Repr, k.Width, k.Find, k.Goto, k.Help, k.Quit},
	}
}

// EditingHelp is the legend shown while a cell is being edited.
func (k KeyMap) EditingHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Next, k.Cancel}
}
