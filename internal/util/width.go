// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// StringWidth returns the display width of a string in terminal cells.
// Double-width characters (CJK, most emoji) count as 2 columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth truncates s to at most maxWidth display columns without
// splitting a grapheme cluster.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	width := 0
	state := -1
	rest := s
	var b strings.Builder
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		w := runewidth.StringWidth(cluster)
		if width+w > maxWidth {
			break
		}
		b.WriteString(cluster)
		width += w
	}
	return b.String()
}

// WrappedLineCount returns how many rows s occupies when soft-wrapped at
// width columns. Hard newlines always start a new row; an empty string
// still occupies one row.
func WrappedLineCount(s string, width int) int {
	if width <= 0 {
		return strings.Count(s, "\n") + 1
	}

	rows := 0
	for _, line := range strings.Split(s, "\n") {
		w := runewidth.StringWidth(line)
		if w == 0 {
			rows++
			continue
		}
		rows += (w + width - 1) / width
	}
	return rows
}
