// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the constrained input component of the
textguard form.

# Core Components

Input (input.go) - A guarded text field or text area with a border, caret,
character counter and an optional simulated input method.
KeyMap (keys.go) - The editing keys, with help bindings.

# Bubble Tea Integration

Input follows the Bubble Tea Update/View pattern. Events raised by the
guard while a key is applied are returned as commands:

	in, err := components.NewInput(cfg.Inputs[0], components.WithTheme(theme))
	if err != nil {
		return err
	}
	cmd := in.Focus()
	in, cmd = in.Update(msg)

PreventedMsg reports a truncated or rejected edit, HeightMsg a new content
height of an auto-resizing area and SubmitMsg a return that leaves the input.

# Composition

Ctrl+K toggles the simulated input method. While it is on, letters are
collected as marked text; space or enter commits the candidate for the
typed pinyin (or the letters themselves when there is none) and esc
cancels. The budget and format apply only after the commit.
*/
package components
