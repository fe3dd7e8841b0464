package viz

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause key.Binding
	Reset key.Binding
	More  key.Binding
	Less  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Pause: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "pause")),
		Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		More:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "payload +0.5kg")),
		Less:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "payload -0.5kg")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.More, k.Less, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Reset},
		{k.More, k.Less},
		{k.Help, k.Quit},
	}
}
