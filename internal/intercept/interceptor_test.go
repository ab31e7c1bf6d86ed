// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package intercept

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/textguard/internal/format"
	"github.com/jeranaias/textguard/internal/util"
)

func limit(n int) Constraint {
	return Constraint{MaxLength: n}
}

func insertAt(loc int, text string) Proposal {
	return Proposal{Range: util.Range{Location: loc}, Replacement: text}
}

// =============================================================================
// DECIDE TESTS
// =============================================================================

func TestDecide_DeletionAlwaysAllowed(t *testing.T) {
	texts := []string{"", "a", "hello", "中文输入", "\U0001F600\U0001F600"}
	for _, text := range texts {
		for n := 0; n <= 6; n++ {
			for loc := 0; loc <= util.GraphemeLen(text); loc++ {
				for length := 1; loc+length <= util.GraphemeLen(text); length++ {
					ic := New()
					p := Proposal{Range: util.Range{Location: loc, Length: length}}
					d := ic.Decide(Snapshot{Text: text}, p, limit(n))
					assert.Equal(t, Allow, d.Outcome, "text=%q max=%d range=%v", text, n, p.Range)
				}
			}
		}
	}
}

func TestDecide_ProjectedWithinLimitAllows(t *testing.T) {
	ic := New()
	d := ic.Decide(Snapshot{Text: "hell"}, insertAt(4, "o"), limit(5))
	assert.Equal(t, Allow, d.Outcome)

	// Replacing a selection keeps the length level.
	d = ic.Decide(Snapshot{Text: "hello"}, Proposal{Range: util.Range{Location: 0, Length: 2}, Replacement: "HE"}, limit(5))
	assert.Equal(t, Allow, d.Outcome)
}

func TestDecide_JoiningClusterAtLimitAllows(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		insert string
	}{
		{"combining mark", "hello", "\u0301"},
		{"second flag half", "abcd\U0001F1FA", "\U0001F1F8"},
		{"zwj sequence", "abcd\U0001F468", "\u200d\U0001F469"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ic := New()
			d := ic.Decide(Snapshot{Text: tc.text}, insertAt(5, tc.insert), limit(5))
			assert.Equal(t, Allow, d.Outcome)
		})
	}

	// A joining mark followed by a new cluster still lengthens the text.
	ic := New()
	d := ic.Decide(Snapshot{Text: "hello"}, insertAt(5, "\u0301x"), limit(5))
	assert.Equal(t, Reject, d.Outcome)
}

func TestDecide_NoBudgetRejects(t *testing.T) {
	ic := New()
	d := ic.Decide(Snapshot{Text: "hello"}, insertAt(5, "!"), limit(5))
	assert.Equal(t, Reject, d.Outcome)
	assert.Empty(t, d.Text)
}

func TestDecide_ZeroLimitRejectsInsertions(t *testing.T) {
	ic := New()
	d := ic.Decide(Snapshot{}, insertAt(0, "a"), limit(0))
	assert.Equal(t, Reject, d.Outcome)
}

func TestDecide_PartialFitIsTruncated(t *testing.T) {
	ic := New()
	d := ic.Decide(Snapshot{}, insertAt(0, "1234567890112"), limit(11))

	require.Equal(t, AllowModified, d.Outcome)
	assert.Equal(t, "12345678901", d.Text)
	assert.Equal(t, "12345678901", d.Inserted)
	assert.Equal(t, util.Range{Location: 11}, d.Selection)
}

func TestDecide_TruncationRespectsClusters(t *testing.T) {
	family := "\U0001F468\u200d\U0001F469\u200d\U0001F467"
	ic := New()
	d := ic.Decide(Snapshot{Text: "ab"}, insertAt(1, family+family+"x"), limit(4))

	require.Equal(t, AllowModified, d.Outcome)
	assert.Equal(t, "a"+family+family+"b", d.Text)
	assert.Equal(t, 4, util.GraphemeLen(d.Text))
	assert.Equal(t, util.Range{Location: 3}, d.Selection)
}

func TestDecide_TruncationReplacesSelection(t *testing.T) {
	ic := New()
	// Replace "ll" with a six letter paste under a limit of 6: budget is 3.
	p := Proposal{Range: util.Range{Location: 2, Length: 2}, Replacement: "ABCDEF"}
	d := ic.Decide(Snapshot{Text: "hello"}, p, limit(6))

	require.Equal(t, AllowModified, d.Outcome)
	assert.Equal(t, "heABCo", d.Text)
	assert.Equal(t, util.Range{Location: 5}, d.Selection)
}

func TestDecide_ComposingNeverEnforces(t *testing.T) {
	ic := New()
	d := ic.Decide(Snapshot{Text: "hello", Composing: true}, insertAt(5, "zhongwen"), limit(5))
	assert.Equal(t, Allow, d.Outcome)
	assert.Equal(t, Composing, ic.State())
}

func TestDecide_Unbounded(t *testing.T) {
	ic := New()
	d := ic.Decide(Snapshot{Text: "hello"}, insertAt(5, " world, this is long"), Unbounded())
	assert.Equal(t, Allow, d.Outcome)
}

func TestDecide_RangeIsClamped(t *testing.T) {
	ic := New()
	d := ic.Decide(Snapshot{Text: "abc"}, insertAt(10, "defg"), limit(5))
	require.Equal(t, AllowModified, d.Outcome)
	assert.Equal(t, "abcde", d.Text)
}

// =============================================================================
// STATE MACHINE TESTS
// =============================================================================

func TestObserve_Transitions(t *testing.T) {
	ic := New()
	assert.Equal(t, Idle, ic.State())
	assert.False(t, ic.Observe(false))

	assert.False(t, ic.Observe(true))
	assert.Equal(t, Composing, ic.State())
	assert.False(t, ic.Observe(true))

	assert.True(t, ic.Observe(false), "Composing -> Idle is a commit")
	assert.Equal(t, Idle, ic.State())
	assert.False(t, ic.Observe(false))
}

// =============================================================================
// SETTLE TESTS
// =============================================================================

func TestSettle_TruncatesAfterCommit(t *testing.T) {
	ic := New()
	c := limit(5)

	s := ic.Settle(Snapshot{Text: "hellozhong", Composing: true}, c, "hello")
	assert.Equal(t, "hellozhong", s.Text, "no enforcement while composing")
	assert.False(t, s.Truncated)
	assert.Equal(t, "hello", s.LastValid)

	s = ic.Settle(Snapshot{Text: "hello中"}, c, "hello")
	assert.True(t, s.Committed)
	assert.True(t, s.Truncated)
	assert.Equal(t, "hello", s.Text)
}

func TestSettle_PatternRollback(t *testing.T) {
	ic := New()
	c := Constraint{MaxLength: NoLimit, Format: format.MustNew(format.Digits, "", format.Options{})}

	s := ic.Settle(Snapshot{Text: "123a"}, c, "123")
	assert.True(t, s.RolledBack)
	assert.Equal(t, "123", s.Text)
	assert.Equal(t, "123", s.LastValid)

	s = ic.Settle(Snapshot{Text: "1234"}, c, "123")
	assert.False(t, s.RolledBack)
	assert.Equal(t, "1234", s.LastValid)
}

func TestSettle_EmptyAlwaysValid(t *testing.T) {
	ic := New()
	c := Constraint{MaxLength: 3, Format: format.MustNew(format.DigitsAndLetters, "", format.Options{})}

	s := ic.Settle(Snapshot{Text: ""}, c, "abc")
	assert.False(t, s.RolledBack)
	assert.Equal(t, "", s.LastValid)
}

func TestSettle_TruncateThenValidate(t *testing.T) {
	ic := New()
	c := Constraint{MaxLength: 3, Format: format.MustNew(format.Digits, "", format.Options{})}

	// "12a" after truncation still fails the pattern.
	s := ic.Settle(Snapshot{Text: "12a45"}, c, "12")
	assert.True(t, s.Truncated)
	assert.True(t, s.RolledBack)
	assert.Equal(t, "12", s.Text)

	s = ic.Settle(Snapshot{Text: "12345"}, c, "12")
	assert.True(t, s.Truncated)
	assert.False(t, s.RolledBack)
	assert.Equal(t, "123", s.Text)
	assert.Equal(t, "123", s.LastValid)
}

func TestOutcomeAndStateStrings(t *testing.T) {
	assert.Equal(t, "Allow", Allow.String())
	assert.Equal(t, "Reject", Reject.String())
	assert.Equal(t, "AllowModified", AllowModified.String())
	assert.Equal(t, "Composing", Composing.String())
	assert.Equal(t, "Idle", Idle.String())
}
