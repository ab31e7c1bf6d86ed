// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package format validates text against a whitelist shape.

A Pattern pairs a Kind (phone number, national ID, CJK only, digits, letters,
digits and letters, or a caller supplied expression) with optional charset
and whitespace rules. Matching is always anchored to the whole string, and
the empty string always matches so that a field can be cleared whatever its
constraint.

# Usage

	p, err := format.New(format.Phone, "", format.Options{FoldWidth: true})
	if err != nil {
		return err
	}
	p.Matches("13800138000") // true
	p.Matches("１３８")       // true, fullwidth digits fold to ASCII
	p.Matches("138-0013")    // false

Custom expressions use the .NET/ICU dialect implemented by
github.com/dlclark/regexp2, so escapes such as \u4e00 work as they do in the
pattern strings commonly shared between mobile platforms. A malformed custom
expression is reported by New, never at edit time.
*/
package format
