// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package guard

import (
	"fmt"

	"github.com/jeranaias/textguard/internal/native"
)

// TextArea is a constrained multi-line input. It adds return-key
// interception, scroll forwarding and optional auto-resize.
type TextArea struct {
	*core
}

var _ Input = (*TextArea)(nil)

// NewTextArea wraps a new multi-line control.
func NewTextArea(opts ...Option) (*TextArea, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("text area: %w", err)
	}

	a := &TextArea{core: newCore(native.MultiLine, o)}
	a.owner = a
	return a, nil
}

// MustNewTextArea is like NewTextArea but panics on error.
func MustNewTextArea(opts ...Option) *TextArea {
	a, err := NewTextArea(opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// AutoResizable reports whether height changes are reported.
func (a *TextArea) AutoResizable() bool { return a.autoResize }

// SetAutoResizable toggles height reporting. Enabling it reports the
// current height if it differs from the last one reported.
func (a *TextArea) SetAutoResizable(enabled bool) {
	a.autoResize = enabled
	a.updateHeight()
}

// Height returns the last computed content height in rows.
func (a *TextArea) Height() int { return a.height }

// SetWidth changes the layout width and recomputes the height.
func (a *TextArea) SetWidth(width int) {
	a.ctl.SetWidth(width)
	a.updateHeight()
}
