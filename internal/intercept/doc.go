// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package intercept decides what happens to a proposed text edit.

An Interceptor is consulted twice per edit. Before the host applies a
proposal, Decide returns Allow, Reject, or AllowModified (the proposal
truncated at a grapheme boundary so it fits the length budget). After the
host has applied an edit, Settle performs the post-change correction:
over-length text left behind by an IME commit is truncated, and text that
fails the format pattern is rolled back to the last valid snapshot.

# Composition

While an input method is composing (the host reports a marked range), the
intermediate text does not represent final input: typing "huang" to produce
one ideograph must not hit a five character limit. The Interceptor tracks
Idle and Composing states and defers all enforcement until composition ends.

# Rules

With a finite MaxLength and no composition in progress:

 1. Pure deletions are always allowed.
 2. If the projected length fits, the edit is allowed.
 3. Otherwise the replacement is truncated to the remaining budget. No budget
    left means Reject; a partial fit means AllowModified.

All counts are grapheme clusters.
*/
package intercept
