// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the textguard form.

# Color System (colors.go)

Accent colors carry meaning in the form:

  - Cyan - focus ring, focused label, caret
  - Purple - composition (marked) text, underlined
  - Amber - truncated edits, counter at 75% of the budget
  - Rose - rejected edits, counter at the budget

All colors are lipgloss.AdaptiveColor values and resolve against the
background chosen by NewTheme.

# Theme (theme.go)

	theme := styles.NewTheme(cfg.UI.Theme) // "dark", "light" or "auto"
	box := theme.InputBoxFocused.Render(text)
	counter := theme.CharCountStyle(n, max).Render("3 / 11")

Status messages pair a color with a StatusIndicators shape so they stay
readable without color.
*/
package styles
