// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/textguard/internal/ui/styles"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the header, the inputs, the status line and the help.
func (m Model) View() string {
	parts := []string{m.renderHeader(), ""}
	for _, in := range m.inputs {
		parts = append(parts, in.View(), "")
	}
	parts = append(parts, m.renderStatusBar(), m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("textguard")
	sub := m.theme.HeaderSubtitle.Render(fmt.Sprintf("%d inputs", len(m.inputs)))
	return m.theme.Header.Width(m.inputWidth()).Render(title + "  " + sub)
}

// renderStatusBar renders the last event with its indicator and the edit
// count.
func (m Model) renderStatusBar() string {
	var indicator string
	style := m.theme.ShortcutDesc
	switch m.statusKind {
	case StatusSuccess:
		indicator, style = styles.StatusIndicators.Success, m.theme.SuccessStyle
	case StatusWarning:
		indicator, style = styles.StatusIndicators.Warning, m.theme.WarningStyle
	case StatusError:
		indicator, style = styles.StatusIndicators.Error, m.theme.ErrorStyle
	default:
		indicator = styles.StatusIndicators.Info
	}

	var b strings.Builder
	b.WriteString(style.Render(indicator + " " + m.status))
	b.WriteString("  ")
	b.WriteString(m.theme.ShortcutKey.Render(fmt.Sprintf("%d", m.stats.total)))
	b.WriteString(m.theme.ShortcutDesc.Render(" edits"))
	return m.theme.StatusBar.Width(m.inputWidth()).Render(b.String())
}
