package keys

import "github.com/charmbracelet/bubbles/key"

// PlotKeys are the key bindings of the live chart
type PlotKeys struct {
	Quit            key.Binding
	Interrupt       key.Binding
	Help            key.Binding
	Snapshot        key.Binding
	Clear           key.Binding
	ToggleTimestamp key.Binding
	ScrollUp        key.Binding
	ScrollDown      key.Binding
}

func NewPlotKeys() PlotKeys {
	return PlotKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "esc"),
			key.WithHelp("q/esc", "quit"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "interrupt"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Snapshot: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save PNG"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear events"),
		),
		ToggleTimestamp: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle timestamps"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll events"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll events"),
		),
	}
}

func (k PlotKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Snapshot, k.Clear, k.Quit}
}

func (k PlotKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Snapshot, k.Clear, k.ToggleTimestamp, k.ScrollUp, k.ScrollDown},
		{k.Help, k.Quit, k.Interrupt},
	}
}
