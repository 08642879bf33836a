package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding

	Filter key.Binding
	Escape key.Binding

	ViewAll    key.Binding
	ViewDirty  key.Binding
	ViewFailed key.Binding
	Sort       key.Binding

	Rescan key.Binding
	Fetch  key.Binding

	Help key.Binding
	Quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Top:      key.NewBinding(key.WithKeys("g", "home")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end")),
		HalfUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfDown: key.NewBinding(key.WithKeys("ctrl+d")),

		Filter: key.NewBinding(key.WithKeys("/")),
		Escape: key.NewBinding(key.WithKeys("esc")),

		ViewAll:    key.NewBinding(key.WithKeys("1")),
		ViewDirty:  key.NewBinding(key.WithKeys("2")),
		ViewFailed: key.NewBinding(key.WithKeys("3")),
		Sort:       key.NewBinding(key.WithKeys("s")),

		Rescan: key.NewBinding(key.WithKeys("r")),
		Fetch:  key.NewBinding(key.WithKeys("f")),

		Help: key.NewBinding(key.WithKeys("?")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c")),
	}
}

func (k keyMap) helpText() []string {
	return []string{
		"j/k, ↑/↓    move cursor",
		"g/G         jump to top/bottom",
		"ctrl+u/d    scroll half page",
		"/           filter repositories",
		"1/2/3       view: all / dirty / failed",
		"s           toggle sort (changes/path)",
		"f           git fetch selected repo",
		"r           rescan",
		"?           toggle this help",
		"q           quit",
	}
}
