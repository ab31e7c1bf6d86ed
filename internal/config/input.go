// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"

	"github.com/jeranaias/textguard/internal/format"
	"github.com/jeranaias/textguard/internal/guard"
)

// =============================================================================
// INPUT CONSTRUCTION
// =============================================================================

// FormatKind parses the format name of the entry.
func (in InputConfig) FormatKind() (format.Kind, error) {
	return format.ParseKind(in.Format)
}

// Compile builds the format pattern of the entry. It returns nil for an
// unrestricted entry.
func (in InputConfig) Compile() (*format.Pattern, error) {
	kind, err := in.FormatKind()
	if err != nil {
		return nil, err
	}
	if in.Pattern != "" && kind != format.Custom {
		return nil, errors.New("pattern requires format = \"custom\"")
	}
	p, err := format.New(kind, in.Pattern, format.Options{
		IgnoreSpaces: in.IgnoreSpaces,
		FoldWidth:    in.FoldWidth,
	})
	if err != nil {
		return nil, err
	}
	if kind == format.Unrestricted {
		return nil, nil
	}
	return p, nil
}

// MaxLengthBudget converts MaxLength to the guard budget, where 0 means
// unbounded.
func (in InputConfig) MaxLengthBudget() int {
	if in.MaxLength == 0 {
		return guard.Unlimited
	}
	return in.MaxLength
}

// GuardOptions returns the options that construct the entry. extra is
// appended last.
func (in InputConfig) GuardOptions(extra ...guard.Option) ([]guard.Option, error) {
	p, err := in.Compile()
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", in.Name, err)
	}
	opts := []guard.Option{
		guard.WithMaxLength(in.MaxLengthBudget()),
		guard.WithPattern(p),
		guard.WithReactToProgrammaticChanges(in.React()),
	}
	if in.Multiline {
		opts = append(opts, guard.WithAutoResize(in.AutoResizable))
	}
	return append(opts, extra...), nil
}
