// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package guard

import (
	"weak"

	"github.com/google/uuid"

	"github.com/jeranaias/textguard/internal/intercept"
	"github.com/jeranaias/textguard/internal/native"
	"github.com/jeranaias/textguard/internal/util"
)

// Input is the behaviour shared by TextField and TextArea.
type Input interface {
	ID() uuid.UUID
	Text() string
	SetText(text string)
	Control() *native.Control
	Constraint() intercept.Constraint
	SetObserver(o *Observer)
}

// Prevented describes an edit that was rejected or shortened.
type Prevented struct {
	// Range is the span the edit targeted. After a composition commit it is
	// the selection at the time of truncation.
	Range util.Range
	// Replacement is the full text that was attempted.
	Replacement string
	// HasReplacement is false for position-only reports.
	HasReplacement bool
}

// Observer receives the callbacks of a wrapper. Every field is optional;
// nil fields are skipped.
type Observer struct {
	// ShouldChange may veto an edit that passed the constraint.
	ShouldChange func(in Input, r util.Range, replacement string) bool
	DidChange    func(in Input)

	DidBeginEditing func(in Input)
	DidEndEditing   func(in Input)

	// ChangePrevented reports truncated or rejected edits. It never fires
	// for a format rollback.
	ChangePrevented func(in Input, p Prevented)

	// ShouldReturn is asked by a TextArea before a newline is inserted.
	// Returning true treats return as submit and drops the newline.
	ShouldReturn func(in Input) bool

	// HeightChanged reports a new content height of an auto-resizing
	// TextArea, in rows.
	HeightChanged func(in Input, height int)

	// DidScroll reports the first visible row of a TextArea.
	DidScroll func(in Input, offset int)
}

// binding is the weak reference to the public observer plus the adapter of
// a native delegate adopted by the proxy.
type binding struct {
	observer weak.Pointer[Observer]
	adopted  *Observer
}

func (b *binding) set(o *Observer) {
	if o == nil {
		b.observer = weak.Pointer[Observer]{}
		return
	}
	b.observer = weak.Make(o)
}

func (b *binding) all() []*Observer {
	out := make([]*Observer, 0, 2)
	if o := b.observer.Value(); o != nil {
		out = append(out, o)
	}
	if b.adopted != nil {
		out = append(out, b.adopted)
	}
	return out
}

// adapt exposes a native delegate through the Observer callbacks.
func adapt(ctl *native.Control, d native.Delegate) *Observer {
	return &Observer{
		ShouldChange: func(_ Input, r util.Range, replacement string) bool {
			return d.ShouldChange(ctl, r, replacement)
		},
		DidChange:       func(Input) { d.DidChange(ctl) },
		DidBeginEditing: func(Input) { d.DidBeginEditing(ctl) },
		DidEndEditing:   func(Input) { d.DidEndEditing(ctl) },
		DidScroll:       func(_ Input, offset int) { d.DidScroll(ctl, offset) },
	}
}
