// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the editing keys of an Input. Printable runes are not
// bound; they are typed (or composed while the input method is on).
type KeyMap struct {
	Left       key.Binding
	Right      key.Binding
	Home       key.Binding
	End        key.Binding
	Backspace  key.Binding
	Delete     key.Binding
	Clear      key.Binding
	Newline    key.Binding
	Compose    key.Binding
	Cancel     key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

// DefaultKeyMap returns the default editing bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "ctrl+b"),
			key.WithHelp("left", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "ctrl+f"),
			key.WithHelp("right", "move right"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "ctrl+a"),
			key.WithHelp("Home/C-a", "start"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "ctrl+e"),
			key.WithHelp("End/C-e", "end"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("Bksp", "delete back"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete", "ctrl+d"),
			key.WithHelp("Del", "delete forward"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("C-u", "clear"),
		),
		Newline: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "newline/submit"),
		),
		Compose: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("C-k", "toggle input method"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel composition"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
	}
}

// ShortHelp returns keybindings to show in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Compose, k.Clear, k.Newline}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Home, k.End},
		{k.Backspace, k.Delete, k.Clear, k.Newline},
		{k.Compose, k.Cancel, k.ScrollUp, k.ScrollDown},
	}
}
