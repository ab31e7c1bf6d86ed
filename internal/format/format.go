// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/width"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnknownKind is returned when a kind name cannot be parsed.
	ErrUnknownKind = errors.New("unknown format kind")

	// ErrInvalidPattern is returned when a custom expression does not compile.
	ErrInvalidPattern = errors.New("invalid format pattern")
)

// MatchTimeout bounds a single match so a pathological custom expression
// cannot stall the event loop. A timed out match counts as a mismatch.
const MatchTimeout = 250 * time.Millisecond

// =============================================================================
// KINDS
// =============================================================================

// Kind identifies a format constraint.
type Kind int

const (
	// Unrestricted accepts any text.
	Unrestricted Kind = iota
	// Phone accepts up to 11 digits.
	Phone
	// CJK accepts CJK unified ideographs only.
	CJK
	// IDNumber accepts 1-17 digits optionally followed by a check digit or X.
	IDNumber
	// Digits accepts ASCII digits.
	Digits
	// Letters accepts ASCII letters.
	Letters
	// DigitsAndLetters accepts ASCII letters and digits.
	DigitsAndLetters
	// Custom accepts whatever the caller supplied expression matches.
	Custom
)

var kindNames = map[Kind]string{
	Unrestricted:     "unrestricted",
	Phone:            "phone",
	CJK:              "cjk",
	IDNumber:         "id_number",
	Digits:           "digits",
	Letters:          "letters",
	DigitsAndLetters: "digits_and_letters",
	Custom:           "custom",
}

var kindDescriptions = map[Kind]string{
	Unrestricted:     "no restriction",
	Phone:            "phone number only",
	CJK:              "Chinese characters only",
	IDNumber:         "national ID number",
	Digits:           "digits",
	Letters:          "letters",
	DigitsAndLetters: "digits and letters",
	Custom:           "custom",
}

// builtin expressions, written without anchors.
var kindExpressions = map[Kind]string{
	Phone:            `[0-9]{0,11}`,
	CJK:              `[\u4e00-\u9fa5]*`,
	IDNumber:         `[0-9]{1,17}[0-9Xx]?`,
	Digits:           `[0-9]*`,
	Letters:          `[A-Za-z]*`,
	DigitsAndLetters: `[A-Za-z0-9]+`,
}

// String returns the config name of the kind (e.g. "id_number").
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Description returns a short human readable description.
func (k Kind) Description() string {
	if d, ok := kindDescriptions[k]; ok {
		return d
	}
	return k.String()
}

// Expression returns the builtin expression for k, or "" for Unrestricted
// and Custom.
func (k Kind) Expression() string {
	return kindExpressions[k]
}

// ParseKind parses a config name. Dashes, spaces and case are ignored, and
// the empty string means Unrestricted. A few aliases are accepted.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)

	switch norm {
	case "", "default", "none":
		return Unrestricted, nil
	case "phone_number":
		return Phone, nil
	case "chinese":
		return CJK, nil
	case "id", "id_card":
		return IDNumber, nil
	case "number", "numbers":
		return Digits, nil
	case "alphabet":
		return Letters, nil
	case "alphanumeric", "number_and_alphabet":
		return DigitsAndLetters, nil
	}

	for k, name := range kindNames {
		if name == norm {
			return k, nil
		}
	}
	return Unrestricted, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// =============================================================================
// PATTERN
// =============================================================================

// Options are the charset and whitespace rules applied before matching.
// They change what is validated, never the text held by the control.
type Options struct {
	// IgnoreSpaces removes all Unicode white space before matching, so
	// "138 0013 8000" satisfies Phone.
	IgnoreSpaces bool
	// FoldWidth folds fullwidth forms to their ASCII equivalents, so
	// "１２３" satisfies Digits.
	FoldWidth bool
}

// Pattern is a compiled format constraint. A nil *Pattern is unrestricted.
type Pattern struct {
	kind Kind
	expr string
	re   *regexp2.Regexp
	opts Options
}

// New compiles a pattern. custom is only consulted for the Custom kind,
// where it is required.
func New(kind Kind, custom string, opts Options) (*Pattern, error) {
	if _, ok := kindNames[kind]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}

	p := &Pattern{kind: kind, opts: opts}
	switch kind {
	case Unrestricted:
		return p, nil
	case Custom:
		if strings.TrimSpace(custom) == "" {
			return nil, fmt.Errorf("%w: custom kind requires an expression", ErrInvalidPattern)
		}
		p.expr = custom
	default:
		p.expr = kind.Expression()
	}

	re, err := regexp2.Compile(`\A(?:`+p.expr+`)\z`, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, p.expr, err)
	}
	re.MatchTimeout = MatchTimeout
	p.re = re
	return p, nil
}

// MustNew is like New but panics on error. Intended for builtin kinds and
// expressions known at compile time.
func MustNew(kind Kind, custom string, opts Options) *Pattern {
	p, err := New(kind, custom, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// Kind returns the pattern kind. A nil pattern reports Unrestricted.
func (p *Pattern) Kind() Kind {
	if p == nil {
		return Unrestricted
	}
	return p.kind
}

// Expr returns the unanchored expression, "" when unrestricted.
func (p *Pattern) Expr() string {
	if p == nil {
		return ""
	}
	return p.expr
}

// Options returns the charset and whitespace rules.
func (p *Pattern) Options() Options {
	if p == nil {
		return Options{}
	}
	return p.opts
}

// String describes the pattern for logs.
func (p *Pattern) String() string {
	if p == nil || p.re == nil {
		return Unrestricted.String()
	}
	return p.kind.String() + "(" + p.expr + ")"
}

// Matches reports whether the whole of text satisfies the pattern.
// The empty string always matches.
func (p *Pattern) Matches(text string) bool {
	if text == "" || p == nil || p.re == nil {
		return true
	}

	candidate := text
	if p.opts.FoldWidth {
		candidate = width.Fold.String(candidate)
	}
	if p.opts.IgnoreSpaces {
		candidate = stripSpaces(candidate)
		if candidate == "" {
			return true
		}
	}

	ok, err := p.re.MatchString(candidate)
	if err != nil {
		return false
	}
	return ok
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
