package keys

import "github.com/charmbracelet/bubbles/key"

// ConsoleKeys are the bindings of the printer console
type ConsoleKeys struct {
	CommonKeys
	Enter            key.Binding
	HistoryUp        key.Binding
	HistoryDown      key.Binding
	Up               key.Binding
	Down             key.Binding
	GotoTop          key.Binding
	GotoBottom       key.Binding
	Clear            key.Binding
	ToggleTimestamps key.Binding

	// Shortcuts sending a canned command in normal mode
	Home        key.Binding
	Level       key.Binding
	Temperature key.Binding
	Info        key.Binding
}

func NewConsoleKeys() ConsoleKeys {
	return ConsoleKeys{
		CommonKeys: NewCommonKeys(),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send command"),
		),
		HistoryUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous command"),
		),
		HistoryDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next command"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "goto top"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "goto bottom"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear log"),
		),
		ToggleTimestamps: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle timestamps"),
		),
		Home: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "home (G28)"),
		),
		Level: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "level bed (G29)"),
		),
		Temperature: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "temperatures (M105)"),
		),
		Info: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "firmware info (M115)"),
		),
	}
}

func (k ConsoleKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.InsertMode, k.Home, k.Temperature, k.Quit}
}

func (k ConsoleKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.InsertMode, k.Escape, k.Enter, k.HistoryUp, k.HistoryDown},
		{k.Up, k.Down, k.GotoTop, k.GotoBottom},
		{k.Clear, k.ToggleTimestamps},
		{k.Home, k.Level, k.Temperature, k.Info},
		{k.Help, k.Quit},
	}
}
