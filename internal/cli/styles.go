// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Styling for the textguard line-mode commands.
//
// Colors are disabled for non-TTY output and respect NO_COLOR and
// FORCE_COLOR (see terminal.go).

package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// init configures lipgloss color profile based on terminal capabilities.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// LabelStyle is used for field labels (left-aligned)
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(12)

	// ValueStyle is used for regular values and text
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")) // Off-white

	// SuccessStyle is used for edits that came through unchanged
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")). // Green
			Bold(true)

	// ErrorStyle is used for error messages and rejected edits
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// WarningStyle is used for truncated and rolled back edits
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Yellow/Orange

	// DimStyle is used for secondary information and hints
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")) // Dim gray
)

// RenderLabel renders a label with the standard label style.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}

// RenderOutcome colors an edit outcome.
func RenderOutcome(outcome string) string {
	switch outcome {
	case OutcomeAccepted:
		return SuccessStyle.Render(outcome)
	case OutcomeRejected:
		return ErrorStyle.Render(outcome)
	case OutcomeUnchanged:
		return DimStyle.Render(outcome)
	default:
		return WarningStyle.Render(outcome)
	}
}
