// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/rivo/uniseg"
)

// UNICODE: All functions in this file walk cluster boundaries with
// uniseg.StepString. Raw index slicing would split a base letter from its
// combining marks or break an emoji ZWJ sequence.

// GraphemeLen returns the number of grapheme clusters in s.
func GraphemeLen(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// TruncateGraphemes returns the longest prefix of s holding at most
// maxClusters grapheme clusters. It returns "" when maxClusters <= 0 and s
// unchanged when it already fits.
func TruncateGraphemes(s string, maxClusters int) string {
	if maxClusters <= 0 {
		return ""
	}
	end := GraphemeToByteOffset(s, maxClusters)
	return s[:end]
}

// GraphemeToByteOffset converts a grapheme index to a byte offset.
// Returns 0 if graphemeIdx <= 0 and len(s) if graphemeIdx is past the end.
func GraphemeToByteOffset(s string, graphemeIdx int) int {
	if graphemeIdx <= 0 {
		return 0
	}

	idx := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		_, rest, _, state = uniseg.StepString(rest, state)
		idx++
		if idx == graphemeIdx {
			return len(s) - len(rest)
		}
	}
	return len(s)
}

// SliceGraphemes returns the clusters in [start, end) of s.
// Out-of-range bounds are clamped; an inverted range yields "".
func SliceGraphemes(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end <= start {
		return ""
	}
	startByte := GraphemeToByteOffset(s, start)
	endByte := GraphemeToByteOffset(s, end)
	return s[startByte:endByte]
}

// SpliceGraphemes replaces length clusters starting at cluster start with
// insert. The range is clamped to s.
func SpliceGraphemes(s string, start, length int, insert string) string {
	if start < 0 {
		start = 0
	}
	if length < 0 {
		length = 0
	}
	startByte := GraphemeToByteOffset(s, start)
	endByte := GraphemeToByteOffset(s, start+length)

	var b strings.Builder
	b.Grow(startByte + len(insert) + len(s) - endByte)
	b.WriteString(s[:startByte])
	b.WriteString(insert)
	b.WriteString(s[endByte:])
	return b.String()
}

// Graphemes splits s into its grapheme clusters.
func Graphemes(s string) []string {
	var clusters []string
	state := -1
	var cluster string
	for len(s) > 0 {
		cluster, s, _, state = uniseg.StepString(s, state)
		clusters = append(clusters, cluster)
	}
	return clusters
}

// SpliceGraphemesSpan is SpliceGraphemes that also returns the clusters of
// the result covering insert. An insert can join the clusters around it (a
// combining mark, a ZWJ, the second half of a flag), so the span is measured
// on the result and may start before start. An empty insert yields an empty
// span at the boundary after the splice point.
func SpliceGraphemesSpan(s string, start, length int, insert string) (string, Range) {
	if start < 0 {
		start = 0
	}
	from := GraphemeToByteOffset(s, start)
	out := SpliceGraphemes(s, start, length, insert)
	return out, ClusterSpan(out, from, from+len(insert))
}

// ClusterSpan returns the clusters of s touched by the bytes [from, to).
// Clusters straddling either end are included. When from == to the span is
// empty and sits after any cluster straddling from.
func ClusterSpan(s string, from, to int) Range {
	loc, end, idx, pos := 0, 0, 0, 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		next := pos + len(cluster)
		if next <= from {
			loc = idx + 1
		}
		if pos < to {
			end = idx + 1
		}
		pos = next
		idx++
	}
	if from >= to {
		return Range{Location: end}
	}
	if end < loc {
		end = loc
	}
	return Range{Location: loc, Length: end - loc}
}
