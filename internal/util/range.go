// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "strconv"

// Range is the span [Location, Location+Length) measured in grapheme
// clusters. It describes selections, composition spans and edit targets.
type Range struct {
	Location int
	Length   int
}

// End returns the exclusive end of the range.
func (r Range) End() int {
	return r.Location + r.Length
}

// IsEmpty reports whether the range covers no clusters (a caret).
func (r Range) IsEmpty() bool {
	return r.Length <= 0
}

// Clamp restricts r to a text of n clusters.
func (r Range) Clamp(n int) Range {
	if r.Location < 0 {
		r.Length += r.Location
		r.Location = 0
	}
	if r.Location > n {
		r.Location = n
	}
	if r.Length < 0 {
		r.Length = 0
	}
	if r.End() > n {
		r.Length = n - r.Location
	}
	return r
}

// String formats the range as {location, length}.
func (r Range) String() string {
	return "{" + strconv.Itoa(r.Location) + ", " + strconv.Itoa(r.Length) + "}"
}
