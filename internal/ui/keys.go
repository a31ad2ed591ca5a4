package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keyboard bindings. The query field always holds focus,
// so every shortcut uses a modifier or a key that never produces text.
type keyMap struct {
	Submit      key.Binding
	SubmitChord key.Binding
	Clear       key.Binding
	Close       key.Binding
	Quit        key.Binding

	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding

	Activity        key.Binding
	RefreshActivity key.Binding
	CycleTheme      key.Binding
	ToggleMarkdown  key.Binding
	Help            key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Ask"),
		),
		SubmitChord: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+s"),
			key.WithHelp("alt+enter", "Ask"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Clear answer"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Close panel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),

		ScrollUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "Scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "Scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "Page down"),
		),

		Activity: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "Activity log"),
		),
		RefreshActivity: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "Reload activity"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "Cycle theme"),
		),
		ToggleMarkdown: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "Toggle markdown"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "Toggle help"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Help, k.Quit}
}

// FullHelp returns key bindings grouped as Query, Answer, Activity and
// General.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.SubmitChord, k.Clear},
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown, k.ToggleMarkdown},
		{k.Activity, k.RefreshActivity, k.Close},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
