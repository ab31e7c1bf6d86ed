// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package guard

import (
	"log"

	"github.com/google/uuid"

	"github.com/jeranaias/textguard/internal/format"
	"github.com/jeranaias/textguard/internal/intercept"
	"github.com/jeranaias/textguard/internal/native"
	"github.com/jeranaias/textguard/internal/util"
)

// core is the pipeline shared by TextField and TextArea.
type core struct {
	ctl        *native.Control
	ic         *intercept.Interceptor
	constraint intercept.Constraint
	lastValid  string
	react      bool
	binding    binding
	proxy      *proxy
	logger     *log.Logger

	// owner is the public wrapper handed to observer callbacks.
	owner Input

	multiline  bool
	autoResize bool
	height     int

	// guard is set while the pipeline mutates the control or delivers to
	// observers. Re-entrant SetText calls apply silently while it is set.
	guard bool
}

func newCore(kind native.Kind, o *options) *core {
	var nopts []native.Option
	if o.center != nil {
		nopts = append(nopts, native.WithCenter(o.center))
	}
	if o.width > 0 {
		nopts = append(nopts, native.WithWidth(o.width))
	}

	c := &core{
		ctl:        native.New(kind, nopts...),
		ic:         intercept.New(),
		constraint: intercept.Constraint{MaxLength: o.maxLength, Format: o.format},
		react:      o.react,
		logger:     o.logger,
		multiline:  kind == native.MultiLine,
		autoResize: o.autoResize,
	}
	c.proxy = &proxy{c: c}
	c.ctl.SetDelegate(c.proxy)
	c.height = c.ctl.ContentHeight()
	return c
}

// =============================================================================
// PUBLIC SURFACE
// =============================================================================

// ID identifies the underlying control.
func (c *core) ID() uuid.UUID { return c.ctl.ID() }

// Text returns the current text.
func (c *core) Text() string { return c.ctl.Text() }

// Len returns the text length in grapheme clusters.
func (c *core) Len() int { return c.ctl.Len() }

// Control returns the wrapped native control. Assigning a delegate to it
// adds an observer; it never removes the wrapper's interception.
func (c *core) Control() *native.Control { return c.ctl }

// Constraint returns the active length budget and format.
func (c *core) Constraint() intercept.Constraint { return c.constraint }

// LastValid returns the last text that satisfied the format.
func (c *core) LastValid() string { return c.lastValid }

// SetObserver binds o weakly. nil unbinds.
func (c *core) SetObserver(o *Observer) { c.binding.set(o) }

// Observer returns the bound observer, or nil once it was collected.
func (c *core) Observer() *Observer { return c.binding.observer.Value() }

// MaxLength returns the length budget in grapheme clusters.
func (c *core) MaxLength() int { return c.constraint.MaxLength }

// SetMaxLength changes the length budget. It applies from the next edit.
// Unlimited removes the budget.
func (c *core) SetMaxLength(n int) error {
	if n < 0 {
		return ErrNegativeLength
	}
	c.constraint.MaxLength = n
	return nil
}

// Format returns the active pattern, nil when unrestricted.
func (c *core) Format() *format.Pattern { return c.constraint.Format }

// SetFormat replaces the pattern. The last valid snapshot restarts from the
// current text when it matches, otherwise from "".
func (c *core) SetFormat(p *format.Pattern) {
	c.constraint.Format = p
	c.lastValid = ""
	if p.Matches(c.ctl.Text()) {
		c.lastValid = c.ctl.Text()
	}
}

// SetFormatKind compiles and installs a format. A malformed custom
// expression is returned as an error and leaves the current format alone.
func (c *core) SetFormatKind(kind format.Kind, custom string, opts format.Options) error {
	p, err := format.New(kind, custom, opts)
	if err != nil {
		return err
	}
	c.SetFormat(p)
	return nil
}

// ReactToProgrammaticChanges reports whether SetText runs the pipeline.
func (c *core) ReactToProgrammaticChanges() bool { return c.react }

// SetReactToProgrammaticChanges toggles whether SetText runs the pipeline.
func (c *core) SetReactToProgrammaticChanges(react bool) { c.react = react }

// SetText assigns text programmatically. Unless reacting to programmatic
// changes is disabled, the assignment is checked like a paste over the
// whole text and observed as exactly one change.
func (c *core) SetText(text string) {
	if text == c.ctl.Text() {
		return
	}

	// Re-entered from an observer callback.
	if c.guard {
		c.ctl.SetText(text)
		c.settle(true)
		return
	}

	if !c.react {
		c.ctl.SetText(text)
		if c.constraint.Format.Matches(c.ctl.Text()) {
			c.lastValid = c.ctl.Text()
		}
		c.updateHeight()
		return
	}

	if !c.shouldChange(util.Range{Length: c.ctl.Len()}, text) {
		// Rejected, or AllowModified already committed and notified.
		return
	}
	c.commit(text, util.Range{Location: util.GraphemeLen(text)})
}

// =============================================================================
// PIPELINE
// =============================================================================

func (c *core) shouldChange(r util.Range, replacement string) bool {
	if c.multiline && replacement == "\n" && c.asksReturn() {
		return false
	}

	snap := intercept.Snapshot{Text: c.ctl.Text(), Composing: c.ctl.Composing()}
	d := c.ic.Decide(snap, intercept.Proposal{Range: r, Replacement: replacement}, c.constraint)
	c.logf("GUARD: id=%s decision=%s range=%s replacement=%q", c.ctl.ID(), d.Outcome, r, replacement)

	switch d.Outcome {
	case intercept.Reject:
		c.prevented(Prevented{Range: r, Replacement: replacement, HasReplacement: true})
		return false
	case intercept.AllowModified:
		c.commit(d.Text, d.Selection)
		c.prevented(Prevented{Range: r, Replacement: replacement, HasReplacement: true})
		return false
	}
	return c.askChange(r, replacement)
}

// commit applies text the control never proposed and broadcasts it once.
func (c *core) commit(text string, sel util.Range) {
	prev := c.guard
	c.guard = true
	c.ctl.SetText(text)
	c.ctl.Select(sel)
	c.guard = prev
	c.rebroadcast()
}

// rebroadcast stands in for the native change path after a commit.
func (c *core) rebroadcast() {
	c.didChange()
	if !c.guard {
		c.ctl.Post(native.TextDidChange)
	}
}

// didChange runs after every applied edit. The control posts its own
// notification afterwards on the native path.
func (c *core) didChange() {
	if c.guard {
		c.settle(true)
		return
	}
	c.settle(false)
	c.notify(func(o *Observer) {
		if o.DidChange != nil {
			o.DidChange(c.owner)
		}
	})
	c.updateHeight()
}

// settle enforces the constraint on applied text. Truncation is reported
// unless silent; rollback never is.
func (c *core) settle(silent bool) {
	snap := intercept.Snapshot{Text: c.ctl.Text(), Composing: c.ctl.Composing()}
	s := c.ic.Settle(snap, c.constraint, c.lastValid)
	c.lastValid = s.LastValid
	if s.Text == snap.Text {
		return
	}

	sel := c.ctl.Selection()
	prev := c.guard
	c.guard = true
	c.ctl.SetText(s.Text)
	c.ctl.Select(sel)
	c.guard = prev
	sel = c.ctl.Selection()

	if s.RolledBack {
		c.logf("GUARD: id=%s rollback to %q", c.ctl.ID(), s.Text)
	}
	if s.Truncated {
		c.logf("GUARD: id=%s truncated to %d clusters", c.ctl.ID(), c.constraint.MaxLength)
		if !silent {
			c.prevented(Prevented{Range: sel})
		}
	}
}

func (c *core) updateHeight() {
	if !c.autoResize {
		return
	}
	h := c.ctl.ContentHeight()
	if h == c.height {
		return
	}
	c.height = h
	c.notify(func(o *Observer) {
		if o.HeightChanged != nil {
			o.HeightChanged(c.owner, h)
		}
	})
}

// =============================================================================
// OBSERVER DELIVERY
// =============================================================================

// notify runs fn for every bound observer under the re-entry guard. It does
// nothing while a delivery is already in progress.
func (c *core) notify(fn func(o *Observer)) {
	if c.guard {
		return
	}
	c.guard = true
	defer func() { c.guard = false }()
	for _, o := range c.binding.all() {
		fn(o)
	}
}

func (c *core) prevented(p Prevented) {
	c.notify(func(o *Observer) {
		if o.ChangePrevented != nil {
			o.ChangePrevented(c.owner, p)
		}
	})
}

func (c *core) askChange(r util.Range, replacement string) bool {
	ok := true
	c.notify(func(o *Observer) {
		if ok && o.ShouldChange != nil {
			ok = o.ShouldChange(c.owner, r, replacement)
		}
	})
	return ok
}

func (c *core) asksReturn() bool {
	submit := false
	c.notify(func(o *Observer) {
		if !submit && o.ShouldReturn != nil {
			submit = o.ShouldReturn(c.owner)
		}
	})
	return submit
}

func (c *core) logf(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(msg, args...)
	}
}
