// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package guard wraps native text controls with a length budget and a
// format whitelist.
//
// A wrapper installs its own proxy in the control's delegate slot and keeps
// it there: delegates assigned to the control later are adopted by the proxy
// instead of replacing it. Every proposed edit runs through an
// intercept.Interceptor before the control applies it, and every applied
// edit is settled afterwards (truncation after a composition commit, silent
// rollback to the last valid text on a format mismatch).
//
// Each logical change is observed exactly once, whether it came from typing,
// a paste, an input method commit or SetText.
//
// Observers are held weakly. Keep a reference to the *Observer for as long
// as it should receive callbacks.
package guard
