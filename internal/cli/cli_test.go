// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This test file covers argument parsing and command dispatch.
package cli

import (
	"strings"
	"testing"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"check", "--max", "11"},
			wantSub: "check",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("max") != "11" {
					t.Errorf("Flag(max) = %q, want %q", p.Flag("max"), "11")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"check", "--pattern=[a-z]+"},
			wantSub: "check",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("pattern") != "[a-z]+" {
					t.Errorf("Flag(pattern) = %q, want %q", p.Flag("pattern"), "[a-z]+")
				}
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"show", "--json"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be true")
				}
			},
		},
		{
			name:    "explicit false",
			args:    []string{"show", "--json=false"},
			wantSub: "show",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be false")
				}
				if !p.HasFlag("json") {
					t.Error("HasFlag(json) should be true")
				}
			},
		},
		{
			name:    "multiple positional args",
			args:    []string{"check", "hello", "big", "world"},
			wantSub: "check",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 4 {
					t.Errorf("PositionalCount() = %d, want 4", p.PositionalCount())
				}
				joined := strings.Join(p.PositionalFrom(1), " ")
				if joined != "hello big world" {
					t.Errorf("PositionalFrom(1) joined = %q, want %q", joined, "hello big world")
				}
			},
		},
		{
			name:    "mixed flags and positional",
			args:    []string{"check", "--format", "cjk", "张三"},
			wantSub: "check",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("format") != "cjk" {
					t.Errorf("Flag(format) = %q, want %q", p.Flag("format"), "cjk")
				}
				if p.Positional(1) != "张三" {
					t.Errorf("Positional(1) = %q, want %q", p.Positional(1), "张三")
				}
			},
		},
		{
			name:    "double dash ends flags",
			args:    []string{"check", "--", "--max", "-5"},
			wantSub: "check",
			validate: func(t *testing.T, p *ArgParser) {
				if p.HasFlag("max") {
					t.Error("HasFlag(max) should be false after --")
				}
				if got := JoinPositionalArgs(p, 1); got != "--max -5" {
					t.Errorf("JoinPositionalArgs = %q, want %q", got, "--max -5")
				}
			},
		},
		{
			name:    "single dash is positional",
			args:    []string{"-"},
			wantSub: "-",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args)
			if parser.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", parser.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, parser)
			}
		})
	}
}

func TestArgParser_BoolNamesDoNotConsume(t *testing.T) {
	parser := NewArgParser([]string{"--fold-width", "１２３"}, "fold-width")
	if !parser.BoolFlag("fold-width") {
		t.Error("BoolFlag(fold-width) should be true")
	}
	if parser.Positional(0) != "１２３" {
		t.Errorf("Positional(0) = %q, want %q", parser.Positional(0), "１２３")
	}

	// Without the declaration the value is consumed.
	parser = NewArgParser([]string{"--fold-width", "１２３"})
	if parser.Flag("fold-width") != "１２３" {
		t.Errorf("Flag(fold-width) = %q", parser.Flag("fold-width"))
	}
}

func TestArgParser_FlagIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		flagName   string
		defaultVal int
		want       int
	}{
		{"present", []string{"--max", "11"}, "max", 0, 11},
		{"missing", []string{}, "max", 7, 7},
		{"not a number", []string{"--max", "eleven"}, "max", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args)
			if got := parser.FlagIntOrDefault(tt.flagName, tt.defaultVal); got != tt.want {
				t.Errorf("FlagIntOrDefault(%q, %d) = %d, want %d", tt.flagName, tt.defaultVal, got, tt.want)
			}
		})
	}
}

func TestArgParser_EmptyArgs(t *testing.T) {
	parser := NewArgParser([]string{})
	if parser.Subcommand() != "" {
		t.Errorf("Subcommand() = %q, want empty", parser.Subcommand())
	}
	if parser.PositionalCount() != 0 {
		t.Errorf("PositionalCount() = %d, want 0", parser.PositionalCount())
	}
}

func TestArgParser_FlagOrDefault(t *testing.T) {
	parser := NewArgParser([]string{"cmd", "--present", "value"})

	if parser.FlagOrDefault("present", "default") != "value" {
		t.Error("FlagOrDefault should return actual value when present")
	}
	if parser.FlagOrDefault("missing", "default") != "default" {
		t.Error("FlagOrDefault should return default when missing")
	}
}

// =============================================================================
// PARSE BOOL STRING TESTS
// =============================================================================

func TestParseBoolString(t *testing.T) {
	trueValues := []string{"true", "TRUE", "yes", "y", "1", "on"}
	falseValues := []string{"false", "FALSE", "no", "n", "0", "off"}

	for _, v := range trueValues {
		t.Run("true_"+v, func(t *testing.T) {
			got, err := ParseBoolString(v)
			if err != nil || !got {
				t.Errorf("ParseBoolString(%q) = %v, %v; want true", v, got, err)
			}
		})
	}
	for _, v := range falseValues {
		t.Run("false_"+v, func(t *testing.T) {
			got, err := ParseBoolString(v)
			if err != nil || got {
				t.Errorf("ParseBoolString(%q) = %v, %v; want false", v, got, err)
			}
		})
	}

	if _, err := ParseBoolString("maybe"); err == nil {
		t.Error("ParseBoolString(maybe) should error")
	}
}

func TestParseIntWithValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"valid positive", "42", 42, false},
		{"zero is invalid", "0", 0, true},
		{"negative is invalid", "-5", 0, true},
		{"empty is invalid", "", 0, true},
		{"non-numeric is invalid", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIntWithValidation(tt.input, "count")
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseIntWithValidation(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseIntWithValidation(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

// =============================================================================
// PARSE TESTS (cli.go)
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		wantCmd  Command
		validate func(*testing.T, Args)
	}{
		{name: "no args opens the form", argv: nil, wantCmd: CmdForm},
		{name: "flags only opens the form", argv: []string{"--log", "debug.log"}, wantCmd: CmdForm,
			validate: func(t *testing.T, a Args) {
				if a.LogPath != "debug.log" {
					t.Errorf("LogPath = %q", a.LogPath)
				}
			}},
		{name: "version", argv: []string{"version"}, wantCmd: CmdVersion},
		{name: "unknown command", argv: []string{"bogus"}, wantCmd: CmdHelp},
		{name: "help flag", argv: []string{"check", "--help"}, wantCmd: CmdHelp},
		{name: "case insensitive", argv: []string{"CHECK", "x"}, wantCmd: CmdCheck},
		{name: "config subcommand", argv: []string{"config", "init", "--force"}, wantCmd: CmdConfig,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "init" {
					t.Errorf("Subcommand = %q, want init", a.Subcommand)
				}
				if !a.Parser.BoolFlag("force") {
					t.Error("force should be set")
				}
			}},
		{name: "global flags before command", argv: []string{"--json", "-q", "--config", "x.toml", "check", "123"}, wantCmd: CmdCheck,
			validate: func(t *testing.T, a Args) {
				if !a.JSON || !a.Quiet || a.ConfigPath != "x.toml" {
					t.Errorf("globals = %+v", a)
				}
				if a.Parser.Positional(0) != "123" {
					t.Errorf("Positional(0) = %q, want 123", a.Parser.Positional(0))
				}
			}},
		{name: "check text and flags", argv: []string{"check", "--format", "phone", "--max", "11", "1234567890112"}, wantCmd: CmdCheck,
			validate: func(t *testing.T, a Args) {
				if a.Parser.Flag("format") != "phone" || a.Parser.Flag("max") != "11" {
					t.Errorf("flags = %v", a.Raw)
				}
				if JoinPositionalArgs(a.Parser, 0) != "1234567890112" {
					t.Errorf("text = %q", JoinPositionalArgs(a.Parser, 0))
				}
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := Parse(tt.argv)
			if cmd != tt.wantCmd {
				t.Errorf("Parse(%v) command = %v, want %v", tt.argv, cmd, tt.wantCmd)
			}
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

// =============================================================================
// BENCHMARKS
// =============================================================================

func BenchmarkArgParser_Simple(b *testing.B) {
	args := []string{"check", "1234567890112"}
	for i := 0; i < b.N; i++ {
		NewArgParser(args, boolFlagNames...)
	}
}

func BenchmarkArgParser_Complex(b *testing.B) {
	args := []string{"check", "--input", "id", "--ignore-spaces", "--max", "18", "-q", "--", "110101 19900307 123X"}
	for i := 0; i < b.N; i++ {
		NewArgParser(args, boolFlagNames...)
	}
}
