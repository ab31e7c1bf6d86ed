// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// GRAPHEME TESTS
// =============================================================================

var graphemeSamples = []string{
	"",
	"hello",
	"he\u0301llo",
	"\U0001F468\u200d\U0001F469\u200d\U0001F467ab",
	"\U0001F1E8\U0001F1F3\U0001F1FA\U0001F1F8",
	"\U0001F44D\U0001F3FDx",
	"中文输入法",
	"mixed 中文 and \U0001F600 text",
}

func TestTruncateGraphemes_Table(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"ascii", "hello", 3, "hel"},
		{"fits", "hello", 5, "hello"},
		{"larger budget", "hello", 50, "hello"},
		{"zero", "hello", 0, ""},
		{"negative", "hello", -3, ""},
		{"combining mark stays attached", "he\u0301llo", 2, "he\u0301"},
		{"zwj family is one cluster", "\U0001F468\u200d\U0001F469\u200d\U0001F467ab", 1, "\U0001F468\u200d\U0001F469\u200d\U0001F467"},
		{"regional indicator pair", "\U0001F1E8\U0001F1F3\U0001F1FA\U0001F1F8", 1, "\U0001F1E8\U0001F1F3"},
		{"skin tone modifier", "\U0001F44D\U0001F3FDx", 1, "\U0001F44D\U0001F3FD"},
		{"cjk", "中文输入法", 2, "中文"},
		{"empty", "", 4, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateGraphemes(tc.in, tc.max)
			if got != tc.want {
				t.Errorf("TruncateGraphemes(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestTruncateGraphemes_NeverSplitsAndIsIdempotent(t *testing.T) {
	for _, s := range graphemeSamples {
		clusters := Graphemes(s)
		for n := -1; n <= len(clusters)+1; n++ {
			got := TruncateGraphemes(s, n)

			if !strings.HasPrefix(s, got) {
				t.Fatalf("TruncateGraphemes(%q, %d) = %q is not a prefix", s, n, got)
			}
			if GraphemeLen(got) > n && n >= 0 {
				t.Errorf("TruncateGraphemes(%q, %d) has %d clusters", s, n, GraphemeLen(got))
			}

			// The result must be exactly the first k clusters of the input.
			k := n
			if k < 0 {
				k = 0
			}
			if k > len(clusters) {
				k = len(clusters)
			}
			if want := strings.Join(clusters[:k], ""); got != want {
				t.Errorf("TruncateGraphemes(%q, %d) = %q, want cluster prefix %q", s, n, got, want)
			}

			if again := TruncateGraphemes(got, n); again != got {
				t.Errorf("TruncateGraphemes not idempotent for %q, %d: %q then %q", s, n, got, again)
			}
		}
	}
}

func TestGraphemeLen(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"he\u0301llo", 5},
		{"\U0001F468\u200d\U0001F469\u200d\U0001F467", 1},
		{"中文", 2},
	}
	for _, tc := range tests {
		if got := GraphemeLen(tc.in); got != tc.want {
			t.Errorf("GraphemeLen(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSpliceGraphemes(t *testing.T) {
	tests := []struct {
		name          string
		in            string
		start, length int
		insert        string
		want          string
	}{
		{"append", "hello", 5, 0, "!", "hello!"},
		{"delete middle", "hello", 1, 3, "", "ho"},
		{"replace cjk", "中文", 1, 1, "国", "中国"},
		{"replace emoji", "a\U0001F44D\U0001F3FDb", 1, 1, "c", "acb"},
		{"start past end clamps", "abc", 10, 2, "x", "abcx"},
		{"negative start clamps", "abc", -1, 1, "x", "xbc"},
		{"replace all", "abc", 0, 3, "xyz", "xyz"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SpliceGraphemes(tc.in, tc.start, tc.length, tc.insert)
			if got != tc.want {
				t.Errorf("SpliceGraphemes(%q, %d, %d, %q) = %q, want %q",
					tc.in, tc.start, tc.length, tc.insert, got, tc.want)
			}
		})
	}
}

func TestSpliceGraphemesSpan(t *testing.T) {
	tests := []struct {
		name          string
		in            string
		start, length int
		insert        string
		want          string
		span          Range
	}{
		{"append", "hello", 5, 0, "!", "hello!", Range{Location: 5, Length: 1}},
		{"replace middle", "abc", 1, 1, "XY", "aXYc", Range{Location: 1, Length: 2}},
		{"delete", "hello", 1, 3, "", "ho", Range{Location: 1}},
		{"combining mark joins base", "e", 1, 0, "\u0301", "e\u0301", Range{Location: 0, Length: 1}},
		{"base before mark", "\u0301x", 0, 0, "e", "e\u0301x", Range{Location: 0, Length: 1}},
		{"second flag half", "\U0001F1FA", 1, 0, "\U0001F1F8", "\U0001F1FA\U0001F1F8", Range{Location: 0, Length: 1}},
		{"zwj sequence", "a\U0001F468", 2, 0, "\u200d\U0001F469", "a\U0001F468\u200d\U0001F469", Range{Location: 1, Length: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, span := SpliceGraphemesSpan(tc.in, tc.start, tc.length, tc.insert)
			if got != tc.want {
				t.Errorf("text = %q, want %q", got, tc.want)
			}
			if span != tc.span {
				t.Errorf("span = %s, want %s", span, tc.span)
			}
			if span.End() > GraphemeLen(got) {
				t.Errorf("span %s past the end of %q", span, got)
			}
		})
	}
}

func TestSliceGraphemes(t *testing.T) {
	if got := SliceGraphemes("he\u0301llo", 1, 3); got != "e\u0301l" {
		t.Errorf("SliceGraphemes = %q", got)
	}
	if got := SliceGraphemes("abc", 2, 1); got != "" {
		t.Errorf("inverted range should be empty, got %q", got)
	}
	if got := SliceGraphemes("abc", 1, 99); got != "bc" {
		t.Errorf("end should clamp, got %q", got)
	}
}

// =============================================================================
// DISPLAY WIDTH TESTS
// =============================================================================

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"ab", 5, "ab"},
		{"中文abc", 3, "中"},
		{"中文abc", 5, "中文a"},
		{"abc", 0, ""},
	}
	for _, tc := range tests {
		if got := TruncateWidth(tc.in, tc.max); got != tc.want {
			t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestWrappedLineCount(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  int
	}{
		{"", 10, 1},
		{"abc\ndef", 10, 2},
		{"abcdefghij", 4, 3},
		{"中文中文", 4, 2},
		{"a\n\nb", 10, 3},
		{"a\nb", 0, 2},
	}
	for _, tc := range tests {
		if got := WrappedLineCount(tc.in, tc.width); got != tc.want {
			t.Errorf("WrappedLineCount(%q, %d) = %d, want %d", tc.in, tc.width, got, tc.want)
		}
	}
}

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "deep", "config.toml")

	if err := AtomicWriteFile(path, []byte("max_length = 11\n"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != "max_length = 11\n" {
		t.Errorf("Content mismatch: got %q", string(content))
	}
}

func TestAtomicWriteFile_OverwritesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := AtomicWriteFile(path, []byte("initial"), 0600); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("updated"), 0600); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != "updated" {
		t.Errorf("Content not updated: got %q", string(content))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries", len(entries))
	}
}

// =============================================================================
// RANGE TESTS
// =============================================================================

func TestRangeClamp(t *testing.T) {
	tests := []struct {
		in   Range
		n    int
		want Range
	}{
		{Range{1, 2}, 5, Range{1, 2}},
		{Range{4, 3}, 5, Range{4, 1}},
		{Range{9, 3}, 5, Range{5, 0}},
		{Range{-2, 3}, 5, Range{0, 1}},
		{Range{2, -1}, 5, Range{2, 0}},
	}
	for _, tc := range tests {
		if got := tc.in.Clamp(tc.n); got != tc.want {
			t.Errorf("%v.Clamp(%d) = %v, want %v", tc.in, tc.n, got, tc.want)
		}
	}
	if s := (Range{3, 4}).String(); s != "{3, 4}" {
		t.Errorf("String() = %q", s)
	}
}
