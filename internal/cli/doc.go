// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the line-mode commands of
// textguard.
//
// The interactive form lives in internal/ui; everything here works without
// a terminal and is safe to script.
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Parsed global flags plus the parser of the command arguments
//   - Env: Configuration and streams a command runs against
//   - Session: One headless input driven line by line (repl)
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	env := cli.DefaultEnv()
//	switch cmd {
//	case cli.CmdCheck:
//	    err = cli.RunCheck(args, env)
//	case cli.CmdRepl:
//	    err = cli.RunRepl(args, env)
//	case cli.CmdConfig:
//	    err = cli.RunConfig(args, env)
//	}
//	os.Exit(cli.GetExitCode(err))
//
// # Commands Overview
//
//   - check: paste text into a constrained input and report what it kept
//   - repl: edit a constrained input line by line, including compositions
//   - config: show, initialise or locate the configuration
//   - version, help
//
// # Exit Codes
//
//	0  success
//	1  general error
//	2  usage error (bad flag, unknown input, malformed pattern)
//	3  configuration error
//	4  check: the paste was truncated, rejected or rolled back
package cli
