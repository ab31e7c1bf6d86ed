// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package native is the host text control that textguard wraps.
//
// A Control owns the text buffer, the selection, the optional marked
// (composition) range and a single Delegate slot, and behaves like the
// editable controls of common UI toolkits: every user edit is offered to
// Delegate.ShouldChange first, applied only when approved, then announced
// through Delegate.DidChange and a TextDidChange notification. SetText is the
// toolkit's raw programmatic setter and consults nobody.
//
// All ranges are grapheme cluster ranges (see util.Range).
package native
