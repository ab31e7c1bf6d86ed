// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package intercept

import (
	"math"

	"github.com/jeranaias/textguard/internal/format"
	"github.com/jeranaias/textguard/internal/util"
)

// NoLimit is the MaxLength of an unbounded constraint.
const NoLimit = math.MaxInt

// =============================================================================
// CONSTRAINT AND PROPOSAL
// =============================================================================

// Constraint is the length budget and format whitelist of one control.
type Constraint struct {
	// MaxLength is measured in grapheme clusters. NoLimit disables it.
	MaxLength int
	// Format is the whitelist. nil accepts everything.
	Format *format.Pattern
}

// Unbounded returns a constraint that accepts everything.
func Unbounded() Constraint {
	return Constraint{MaxLength: NoLimit}
}

// Limited reports whether a length budget applies.
func (c Constraint) Limited() bool {
	return c.MaxLength != NoLimit
}

func (c Constraint) budget() int {
	if c.MaxLength < 0 {
		return 0
	}
	return c.MaxLength
}

// Proposal is one edit offered by the host: replace Range with Replacement.
type Proposal struct {
	Range       util.Range
	Replacement string
}

// IsDeletion reports whether the proposal only removes text.
func (p Proposal) IsDeletion() bool {
	return p.Range.Length > 0 && p.Replacement == ""
}

// Snapshot is what the host reports about itself when asking.
type Snapshot struct {
	Text      string
	Composing bool
}

// =============================================================================
// DECISIONS
// =============================================================================

// Outcome is the verdict on a proposal.
type Outcome int

const (
	// Allow lets the host apply the proposal as is.
	Allow Outcome = iota
	// Reject drops the proposal; nothing changes.
	Reject
	// AllowModified drops the proposal and asks the caller to apply
	// Decision.Text instead.
	AllowModified
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Allow:
		return "Allow"
	case Reject:
		return "Reject"
	case AllowModified:
		return "AllowModified"
	default:
		return "Outcome(?)"
	}
}

// Decision is the result of Decide.
type Decision struct {
	Outcome Outcome
	// Text is the complete text after applying the truncated replacement.
	// Only set for AllowModified.
	Text string
	// Selection is the caret after the inserted text. Only set for
	// AllowModified.
	Selection util.Range
	// Inserted is the truncated replacement. Only set for AllowModified.
	Inserted string
}

// Settlement is the result of the post-change correction.
type Settlement struct {
	// Text is the corrected text. Equal to the input when nothing changed.
	Text string
	// Truncated is set when the text exceeded the length budget.
	Truncated bool
	// RolledBack is set when the text failed the format and was replaced by
	// the last valid snapshot.
	RolledBack bool
	// Committed is set when this settle observed the end of a composition.
	Committed bool
	// LastValid is the snapshot to keep for the next settle.
	LastValid string
}

// =============================================================================
// STATE MACHINE
// =============================================================================

// State is the composition state.
type State int

const (
	// Idle means no composition is in progress.
	Idle State = iota
	// Composing means an input method holds a marked range.
	Composing
)

// String returns the state name.
func (s State) String() string {
	if s == Composing {
		return "Composing"
	}
	return "Idle"
}

// Interceptor holds the composition state of one control. It is not safe
// for concurrent use; all calls happen on the event loop of the control.
type Interceptor struct {
	state State
}

// New returns an Interceptor in the Idle state.
func New() *Interceptor {
	return &Interceptor{}
}

// State returns the current composition state.
func (i *Interceptor) State() State {
	return i.state
}

// Observe records whether the host currently reports a composition and
// returns true on the Composing to Idle transition.
func (i *Interceptor) Observe(composing bool) (committed bool) {
	switch {
	case composing:
		i.state = Composing
	case i.state == Composing:
		i.state = Idle
		committed = true
	}
	return committed
}

// Decide rules on a proposal before the host applies it.
func (i *Interceptor) Decide(s Snapshot, p Proposal, c Constraint) Decision {
	i.Observe(s.Composing)

	// Composition text is provisional; Settle enforces once it is committed.
	if i.state == Composing || !c.Limited() {
		return Decision{Outcome: Allow}
	}
	if p.IsDeletion() {
		return Decision{Outcome: Allow}
	}

	limit := c.budget()
	current := util.GraphemeLen(s.Text)
	r := p.Range.Clamp(current)

	// Measured on the candidate: a combining mark or a ZWJ joins the cluster
	// before it and does not lengthen the text.
	projected := util.GraphemeLen(util.SpliceGraphemes(s.Text, r.Location, r.Length, p.Replacement))
	if projected <= limit {
		return Decision{Outcome: Allow}
	}

	allowed := limit - current + r.Length
	if allowed <= 0 {
		return Decision{Outcome: Reject}
	}

	inserted := util.TruncateGraphemes(p.Replacement, allowed)
	n := util.GraphemeLen(inserted)
	if n == 0 || n > allowed {
		return Decision{Outcome: Reject}
	}

	text, span := util.SpliceGraphemesSpan(s.Text, r.Location, r.Length, inserted)
	return Decision{
		Outcome:   AllowModified,
		Text:      text,
		Selection: util.Range{Location: span.End()},
		Inserted:  inserted,
	}
}

// Settle runs the post-change correction on text the host has applied.
// lastValid is the previous snapshot; the returned Settlement carries the
// next one.
func (i *Interceptor) Settle(s Snapshot, c Constraint, lastValid string) Settlement {
	out := Settlement{Text: s.Text, LastValid: lastValid}
	out.Committed = i.Observe(s.Composing)
	if i.state == Composing {
		return out
	}

	if c.Limited() && util.GraphemeLen(out.Text) > c.budget() {
		out.Text = util.TruncateGraphemes(out.Text, c.budget())
		out.Truncated = true
	}

	if c.Format.Matches(out.Text) {
		out.LastValid = out.Text
	} else {
		out.Text = lastValid
		out.RolledBack = true
	}
	return out
}
