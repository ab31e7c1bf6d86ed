// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for textguard.
package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdForm Command = iota
	CmdCheck
	CmdRepl
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string // --config: explicit config file
	LogPath    string // --log: debug log file for the TUI
	JSON       bool   // Output in JSON format
	Quiet      bool

	// Command-specific
	Subcommand string
	Parser     *ArgParser

	// Raw args after the command name
	Raw []string
}

// boolFlagNames never take a value.
var boolFlagNames = []string{
	"json", "quiet", "q", "ignore-spaces", "fold-width", "multiline",
	"no-react", "force", "help", "h",
}

const usageText = `textguard - constrained text inputs for the terminal

Enforces a length budget (in user-perceived characters) and a format
whitelist on every edit: typing, paste, input method commits and
programmatic assignment.

Usage:
  textguard                         Open the input form (default)
  textguard check [flags] TEXT      Paste TEXT into a headless input
  textguard repl [flags]            Paste each line into a headless input
  textguard config [show|init|path] Configuration
  textguard version                 Show version
  textguard help                    Show this help

Input flags (check, repl):
  --input NAME          Use the constraint of a configured input
  --max N               Length budget (0 = unbounded)
  --format KIND         unrestricted, phone, cjk, id_number, digits,
                        letters, digits_and_letters, custom
  --pattern EXPR        Expression of a custom format
  --ignore-spaces       Drop spaces before matching
  --fold-width          Match fullwidth digits and letters as ASCII
  --multiline           Use a text area
  --initial TEXT        Text assigned before the paste

Global flags:
  --config PATH         Config file (default ~/.textguard/config.toml)
  --log PATH            Write debug log to PATH
  --json                Output in JSON format
  -q, --quiet           Less output

Examples:
  textguard check --format phone --max 11 1234567890112
  textguard check --input id -- "110101 19900307 123X"
  textguard config init
`

// PrintUsage writes the usage text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "textguard %s (commit %s, built %s, %s/%s)\n",
		Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)
}

// Parse parses command line arguments (without the program name).
func Parse(argv []string) (Command, Args) {
	parser := NewArgParser(argv, boolFlagNames...)
	args := Args{
		ConfigPath: parser.Flag("config"),
		LogPath:    parser.Flag("log"),
		JSON:       parser.BoolFlag("json"),
		Quiet:      parser.BoolFlag("quiet") || parser.BoolFlag("q"),
	}

	if parser.BoolFlag("help") || parser.BoolFlag("h") {
		return CmdHelp, args
	}

	// The command is the first argument that is not a flag or flag value.
	name := parser.Subcommand()
	cmd, ok := commandNames[strings.ToLower(name)]
	if !ok {
		if name == "" {
			return CmdForm, args
		}
		// Unknown words are treated as help so typos are visible.
		args.Raw = argv
		return CmdHelp, args
	}

	args.Raw = withoutFirst(argv, name)
	args.Parser = NewArgParser(args.Raw, boolFlagNames...)
	args.Subcommand = args.Parser.Subcommand()
	return cmd, args
}

var commandNames = map[string]Command{
	"form":    CmdForm,
	"check":   CmdCheck,
	"repl":    CmdRepl,
	"config":  CmdConfig,
	"version": CmdVersion,
	"help":    CmdHelp,
}

// withoutFirst removes the first occurrence of name.
func withoutFirst(argv []string, name string) []string {
	out := make([]string, 0, len(argv))
	removed := false
	for _, a := range argv {
		if !removed && a == name {
			removed = true
			continue
		}
		out = append(out, a)
	}
	return out
}
