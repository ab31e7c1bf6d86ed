// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package form provides the interactive demo form: every configured input
// in one Bubble Tea program, with focus cycling, a status line reporting
// prevented edits and height changes, and hot reload of the constraints.
package form
