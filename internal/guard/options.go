// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package guard

import (
	"errors"
	"fmt"
	"log"

	"github.com/jeranaias/textguard/internal/format"
	"github.com/jeranaias/textguard/internal/intercept"
	"github.com/jeranaias/textguard/internal/native"
)

// Unlimited is the MaxLength of an input without a length budget.
const Unlimited = intercept.NoLimit

var (
	// ErrNegativeLength is returned for a negative length budget.
	ErrNegativeLength = errors.New("max length must not be negative")
	// ErrAutoResizeField is returned when auto-resize is requested for a
	// single-line field.
	ErrAutoResizeField = errors.New("auto-resize is only supported by text areas")
)

type options struct {
	maxLength  int
	format     *format.Pattern
	react      bool
	logger     *log.Logger
	center     *native.NotificationCenter
	width      int
	autoResize bool
	err        error
}

func defaultOptions() *options {
	return &options{
		maxLength: Unlimited,
		react:     true,
	}
}

// Option configures a TextField or TextArea.
type Option func(*options)

func (o *options) fail(err error) {
	if o.err == nil {
		o.err = err
	}
}

// WithMaxLength sets the length budget in grapheme clusters.
func WithMaxLength(n int) Option {
	return func(o *options) {
		if n < 0 {
			o.fail(ErrNegativeLength)
			return
		}
		o.maxLength = n
	}
}

// WithFormat compiles a format. A malformed custom expression makes the
// constructor fail.
func WithFormat(kind format.Kind, custom string, fo format.Options) Option {
	return func(o *options) {
		p, err := format.New(kind, custom, fo)
		if err != nil {
			o.fail(fmt.Errorf("format: %w", err))
			return
		}
		o.format = p
	}
}

// WithPattern installs a compiled pattern. nil is unrestricted.
func WithPattern(p *format.Pattern) Option {
	return func(o *options) {
		o.format = p
	}
}

// WithReactToProgrammaticChanges controls whether SetText runs the
// pipeline. It is enabled by default.
func WithReactToProgrammaticChanges(react bool) Option {
	return func(o *options) {
		o.react = react
	}
}

// WithLogger logs every decision to l.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCenter posts notifications to nc instead of native.DefaultCenter.
func WithCenter(nc *native.NotificationCenter) Option {
	return func(o *options) {
		o.center = nc
	}
}

// WithWidth sets the layout width in columns.
func WithWidth(width int) Option {
	return func(o *options) {
		o.width = width
	}
}

// WithAutoResize makes a TextArea report content height changes.
func WithAutoResize(enabled bool) Option {
	return func(o *options) {
		o.autoResize = enabled
	}
}

func buildOptions(opts []Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return nil, o.err
	}
	return o, nil
}
