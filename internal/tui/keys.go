package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/cj3636/gitt/internal/config"
)

// KeyMap binds semantic actions to keys.
type KeyMap struct {
	Quit         key.Binding
	Help         key.Binding
	SwitchFocus  key.Binding
	Down         key.Binding
	Up           key.Binding
	PageDown     key.Binding
	PageUp       key.Binding
	HalfPageDown key.Binding
	HalfPageUp   key.Binding
	Top          key.Binding
	Bottom       key.Binding
	CopyID       key.Binding
}

// NewKeyMap builds the key map from configured bindings.
func NewKeyMap(kb config.Keybindings) KeyMap {
	bind := func(action, desc string) key.Binding {
		keys := kb[action]
		if len(keys) == 0 {
			keys = config.DefaultKeybindings()[action]
		}
		return key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(displayKeys(keys), desc),
		)
	}

	return KeyMap{
		Quit:         bind(config.ActionQuit, "quit"),
		Help:         bind(config.ActionToggleHelp, "help"),
		SwitchFocus:  bind(config.ActionSwitchFocus, "switch pane"),
		Down:         bind(config.ActionScrollDown, "down"),
		Up:           bind(config.ActionScrollUp, "up"),
		PageDown:     bind(config.ActionPageDown, "page down"),
		PageUp:       bind(config.ActionPageUp, "page up"),
		HalfPageDown: bind(config.ActionHalfPageDown, "half page down"),
		HalfPageUp:   bind(config.ActionHalfPageUp, "half page up"),
		Top:          bind(config.ActionGoTop, "top"),
		Bottom:       bind(config.ActionGoBottom, "bottom"),
		CopyID:       bind(config.ActionCopyID, "copy hash"),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.SwitchFocus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.Top, k.Bottom},
		{k.PageDown, k.PageUp, k.HalfPageDown, k.HalfPageUp},
		{k.SwitchFocus, k.CopyID, k.Help, k.Quit},
	}
}

var keyGlyphs = map[string]string{
	"down":  "↓",
	"up":    "↑",
	"left":  "←",
	"right": "→",
}

func displayKeys(keys []string) string {
	shown := make([]string, len(keys))
	for i, k := range keys {
		if g, ok := keyGlyphs[k]; ok {
			k = g
		}
		shown[i] = k
	}
	return strings.Join(shown, "/")
}
