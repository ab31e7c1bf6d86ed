// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package guard

import (
	"fmt"

	"github.com/jeranaias/textguard/internal/native"
)

// TextField is a constrained single-line input.
type TextField struct {
	*core
}

var _ Input = (*TextField)(nil)

// NewTextField wraps a new single-line control.
func NewTextField(opts ...Option) (*TextField, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("text field: %w", err)
	}
	if o.autoResize {
		return nil, fmt.Errorf("text field: %w", ErrAutoResizeField)
	}

	f := &TextField{core: newCore(native.SingleLine, o)}
	f.owner = f
	return f, nil
}

// MustNewTextField is like NewTextField but panics on error.
func MustNewTextField(opts ...Option) *TextField {
	f, err := NewTextField(opts...)
	if err != nil {
		panic(err)
	}
	return f
}
