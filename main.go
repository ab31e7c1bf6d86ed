// textguard - constrained text inputs for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/textguard/internal/cli"
	"github.com/jeranaias/textguard/internal/config"
	"github.com/jeranaias/textguard/internal/ui/form"
	"github.com/jeranaias/textguard/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])
	env := cli.DefaultEnv()

	var err error
	switch cmd {
	case cli.CmdForm:
		err = runForm(args)
	case cli.CmdCheck:
		err = withLog(args, env, func() error { return cli.RunCheck(args, env) })
	case cli.CmdRepl:
		err = withLog(args, env, func() error { return cli.RunRepl(args, env) })
	case cli.CmdConfig:
		err = cli.RunConfig(args, env)
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		if len(args.Raw) > 0 {
			err = cli.NewValidationError("command", args.Raw[0], "unknown command")
		}
	}

	if err != nil {
		// The changed outcome of check is an exit status, not an error.
		if !errors.Is(err, cli.ErrEditChanged) {
			cli.DisplayError(os.Stderr, err, args.JSON)
		}
		os.Exit(cli.GetExitCode(err))
	}
}

// withLog routes guard decisions to --log while fn runs.
func withLog(args cli.Args, env *cli.Env, fn func() error) error {
	if args.LogPath == "" {
		return fn()
	}
	logger, closer, err := cli.OpenLog(args.LogPath)
	if err != nil {
		return err
	}
	defer closer.Close()
	env.Logger = logger
	return fn()
}

// =============================================================================
// FORM
// =============================================================================

func runForm(args cli.Args) error {
	if !cli.CanRunForm() {
		return cli.NewValidationErrorWithExample("terminal", "", "the form needs a terminal on stdin and stdout",
			"textguard check --format phone --max 11 TEXT")
	}

	cfg, err := cli.LoadConfig(args)
	if err != nil {
		return err
	}
	config.SetGlobal(cfg)

	// The terminal belongs to Bubble Tea, so the log goes to a file.
	var logger *log.Logger
	logPath := args.LogPath
	if logPath == "" {
		logPath = cfg.UI.Log
	}
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "textguard ")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logger = log.Default()
	} else {
		log.SetOutput(io.Discard)
	}

	m, err := form.New(cfg,
		form.WithTheme(styles.NewTheme(cfg.UI.Theme)),
		form.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Mouse wheel scrolls text areas
	)

	if path := watchPath(args); path != "" {
		w, err := form.Watch(p, path)
		if err != nil {
			log.Printf("CONFIG: watch %s: %v", path, err)
		} else {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running textguard: %w", err)
	}
	return nil
}

// watchPath returns the config file to hot reload, or "" when the form runs
// on defaults.
func watchPath(args cli.Args) string {
	if args.ConfigPath != "" {
		return args.ConfigPath
	}
	for _, fn := range []func() (string, error){config.ConfigPathTOML, config.ConfigPathJSON} {
		path, err := fn()
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
