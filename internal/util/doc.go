// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides the text primitives shared by the textguard packages.
//
// Every length in textguard is measured in grapheme clusters (what a user
// perceives as one character), never in bytes or runes. The helpers in this
// package convert between grapheme indices and byte offsets so that callers
// can slice and splice Go strings without splitting a cluster.
//
// # Key Functions
//
// Grapheme Utilities:
//   - GraphemeLen: number of user-perceived characters
//   - TruncateGraphemes: longest prefix that fits a cluster budget
//   - SpliceGraphemes: replace a [start, start+length) cluster range
//
// Display Utilities:
//   - StringWidth, TruncateWidth: terminal column widths (CJK aware)
//   - WrappedLineCount: rows needed to show text at a given width
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	// Keep at most 11 characters without splitting emoji or combining marks
//	safe := util.TruncateGraphemes(pasted, 11)
//
//	// Replace the selection with typed text
//	text = util.SpliceGraphemes(text, sel.Location, sel.Length, typed)
package util
