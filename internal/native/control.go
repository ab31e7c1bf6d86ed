// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package native

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jeranaias/textguard/internal/util"
)

// =============================================================================
// DELEGATE
// =============================================================================

// Delegate receives the callbacks of a Control.
type Delegate interface {
	// ShouldChange is asked before an edit replaces r with replacement.
	ShouldChange(c *Control, r util.Range, replacement string) bool
	// DidChange is called after an edit was applied.
	DidChange(c *Control)
	DidBeginEditing(c *Control)
	DidEndEditing(c *Control)
	// DidScroll reports the new first visible row of a multi-line control.
	DidScroll(c *Control, offset int)
}

// Interposer is a Delegate that owns its slot for good. Once installed,
// later SetDelegate calls hand the new delegate to Adopt instead of
// replacing the interposer.
type Interposer interface {
	Delegate
	Adopt(d Delegate)
}

// =============================================================================
// CONTROL
// =============================================================================

// Kind selects single-line or multi-line behaviour.
type Kind int

const (
	// SingleLine controls flatten newlines to spaces.
	SingleLine Kind = iota
	// MultiLine controls keep newlines and can scroll.
	MultiLine
)

// Control is an editable text buffer with a selection and an optional
// composition range. It is not safe for concurrent use.
type Control struct {
	id        uuid.UUID
	kind      Kind
	text      string
	selection util.Range
	marked    util.Range
	composing bool
	delegate  Delegate
	center    *NotificationCenter
	width     int
	scroll    int
	focused   bool
}

// Option configures a Control.
type Option func(*Control)

// WithCenter posts notifications to nc instead of DefaultCenter.
func WithCenter(nc *NotificationCenter) Option {
	return func(c *Control) {
		if nc != nil {
			c.center = nc
		}
	}
}

// WithWidth sets the layout width in terminal columns.
func WithWidth(width int) Option {
	return func(c *Control) {
		c.width = width
	}
}

// New creates an empty control.
func New(kind Kind, opts ...Option) *Control {
	c := &Control{
		id:     uuid.New(),
		kind:   kind,
		center: DefaultCenter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID identifies the control in notifications.
func (c *Control) ID() uuid.UUID { return c.id }

// Kind returns the control kind.
func (c *Control) Kind() Kind { return c.kind }

// Text returns the current text.
func (c *Control) Text() string { return c.text }

// Len returns the text length in grapheme clusters.
func (c *Control) Len() int { return util.GraphemeLen(c.text) }

// Selection returns the selected range. An empty range is the caret.
func (c *Control) Selection() util.Range { return c.selection }

// MarkedRange returns the composition range and whether one exists.
func (c *Control) MarkedRange() (util.Range, bool) { return c.marked, c.composing }

// Composing reports whether an input method is composing.
func (c *Control) Composing() bool { return c.composing }

// Center returns the notification center the control posts to.
func (c *Control) Center() *NotificationCenter { return c.center }

// Focused reports whether the control is being edited.
func (c *Control) Focused() bool { return c.focused }

// Width returns the layout width in columns.
func (c *Control) Width() int { return c.width }

// SetWidth changes the layout width in columns.
func (c *Control) SetWidth(width int) { c.width = width }

// ScrollOffset returns the first visible row.
func (c *Control) ScrollOffset() int { return c.scroll }

// Delegate returns the installed delegate.
func (c *Control) Delegate() Delegate { return c.delegate }

// SetDelegate installs d. If the current delegate is an Interposer, d
// (including nil) is adopted by it and the slot is left alone.
func (c *Control) SetDelegate(d Delegate) {
	if ip, ok := c.delegate.(Interposer); ok && d != Delegate(ip) {
		ip.Adopt(d)
		return
	}
	c.delegate = d
}

// ContentHeight returns the rows needed to show the text at Width.
func (c *Control) ContentHeight() int {
	return util.WrappedLineCount(c.text, c.width)
}

// =============================================================================
// PROGRAMMATIC MUTATION
// =============================================================================

// SetText replaces the whole text without consulting the delegate and
// without notifications. The caret moves to the end and any composition is
// dropped.
func (c *Control) SetText(text string) {
	c.text = c.normalize(text)
	c.composing = false
	c.marked = util.Range{}
	c.selection = util.Range{Location: c.Len()}
}

// Select sets the selection, clamped to the text.
func (c *Control) Select(r util.Range) {
	c.selection = r.Clamp(c.Len())
}

// MoveCursor moves the caret by delta clusters and collapses the selection.
func (c *Control) MoveCursor(delta int) {
	loc := c.selection.Location + delta
	if delta > 0 && c.selection.Length > 0 {
		loc = c.selection.End()
	}
	c.Select(util.Range{Location: loc})
}

// =============================================================================
// USER EDITING
// =============================================================================

// Replace offers an edit to the delegate and applies it when approved.
// It reports whether the edit was applied.
func (c *Control) Replace(r util.Range, replacement string) bool {
	r = r.Clamp(c.Len())
	replacement = c.normalize(replacement)
	if r.IsEmpty() && replacement == "" {
		return false
	}

	if c.delegate != nil && !c.delegate.ShouldChange(c, r, replacement) {
		return false
	}

	var span util.Range
	c.text, span = util.SpliceGraphemesSpan(c.text, r.Location, r.Length, replacement)
	c.selection = util.Range{Location: span.End()}
	c.changed()
	return true
}

// Insert replaces the selection with text (typing or paste).
func (c *Control) Insert(text string) bool {
	if c.composing {
		c.CommitComposition("")
	}
	return c.Replace(c.selection, text)
}

// DeleteBackward removes the selection, or the cluster before the caret.
func (c *Control) DeleteBackward() bool {
	r := c.selection
	if r.IsEmpty() {
		if r.Location == 0 {
			return false
		}
		r = util.Range{Location: r.Location - 1, Length: 1}
	}
	return c.Replace(r, "")
}

// DeleteForward removes the selection, or the cluster after the caret.
func (c *Control) DeleteForward() bool {
	r := c.selection
	if r.IsEmpty() {
		if r.Location >= c.Len() {
			return false
		}
		r = util.Range{Location: r.Location, Length: 1}
	}
	return c.Replace(r, "")
}

// =============================================================================
// COMPOSITION
// =============================================================================

// SetMarkedText replaces the composition (or the selection when none is in
// progress) with provisional text. The delegate is asked while the
// composition range is already reported, as input methods do.
func (c *Control) SetMarkedText(text string) bool {
	r := c.selection
	if c.composing {
		r = c.marked
	}
	r = r.Clamp(c.Len())

	wasComposing, prevMarked := c.composing, c.marked
	c.composing = true
	c.marked = r
	if c.delegate != nil && !c.delegate.ShouldChange(c, r, text) {
		c.composing, c.marked = wasComposing, prevMarked
		return false
	}

	// Marked text joined to a neighbouring cluster marks the whole cluster.
	c.text, c.marked = util.SpliceGraphemesSpan(c.text, r.Location, r.Length, text)
	c.selection = util.Range{Location: c.marked.End()}
	if text == "" {
		c.composing = false
		c.marked = util.Range{}
	}
	c.changed()
	return true
}

// CommitComposition ends the composition, replacing the marked text with
// final (an input method candidate). An empty final keeps the marked text
// as typed. The delegate is not asked: candidate selection goes straight to
// the buffer, so enforcement happens in DidChange.
func (c *Control) CommitComposition(final string) {
	if !c.composing {
		return
	}
	r := c.marked
	if final != "" {
		c.text, r = util.SpliceGraphemesSpan(c.text, r.Location, r.Length, c.normalize(final))
	}
	c.composing = false
	c.marked = util.Range{}
	c.selection = util.Range{Location: r.End()}.Clamp(c.Len())
	c.changed()
}

// CancelComposition removes the marked text.
func (c *Control) CancelComposition() {
	if !c.composing {
		return
	}
	var caret util.Range
	c.text, caret = util.SpliceGraphemesSpan(c.text, c.marked.Location, c.marked.Length, "")
	c.composing = false
	c.marked = util.Range{}
	c.selection = caret
	c.changed()
}

// =============================================================================
// FOCUS AND SCROLL
// =============================================================================

// Focus begins editing.
func (c *Control) Focus() {
	if c.focused {
		return
	}
	c.focused = true
	if c.delegate != nil {
		c.delegate.DidBeginEditing(c)
	}
	c.Post(TextDidBeginEditing)
}

// Blur ends editing, committing any composition first.
func (c *Control) Blur() {
	if !c.focused {
		return
	}
	c.CommitComposition("")
	c.focused = false
	if c.delegate != nil {
		c.delegate.DidEndEditing(c)
	}
	c.Post(TextDidEndEditing)
}

// ScrollTo sets the first visible row of a multi-line control.
func (c *Control) ScrollTo(offset int) {
	if c.kind != MultiLine {
		return
	}
	if offset < 0 {
		offset = 0
	}
	if offset == c.scroll {
		return
	}
	c.scroll = offset
	if c.delegate != nil {
		c.delegate.DidScroll(c, offset)
	}
}

// =============================================================================
// INTERNALS
// =============================================================================

func (c *Control) changed() {
	if c.delegate != nil {
		c.delegate.DidChange(c)
	}
	c.Post(TextDidChange)
}

// Post sends a notification with this control as the source.
func (c *Control) Post(name string) {
	c.center.Post(Notification{Name: name, Source: c.id, Text: c.text})
}

func (c *Control) normalize(s string) string {
	if c.kind == SingleLine && strings.ContainsAny(s, "\r\n") {
		s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	}
	return s
}
