// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// configcmd.go - The config command.
//
// Command: config [subcommand]
// Short:   Show or create the configuration
//
// Subcommands:
//   show (default)      Print the effective configuration
//   init [--force]      Write the default configuration
//   path                Print the configuration file path
//
// Examples:
//   textguard config show --json
//   textguard config init --config ./inputs.toml

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/textguard/internal/config"
)

// RunConfig handles the config command.
func RunConfig(args Args, env *Env) error {
	switch args.Subcommand {
	case "", "show":
		return configShow(args, env)
	case "init":
		return configInit(args, env)
	case "path":
		path, err := configPath(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Stdout, path)
		return nil
	default:
		return NewValidationErrorWithExample("subcommand", args.Subcommand,
			"unknown config subcommand", "textguard config show")
	}
}

func configPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

func configShow(args Args, env *Env) error {
	cfg, err := env.config(args)
	if err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("config", cfg).Print(env.Stdout)
	}
	if err := toml.NewEncoder(env.Stdout).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func configInit(args Args, env *Env) error {
	path, err := configPath(args)
	if err != nil {
		return err
	}
	force := args.Parser != nil && args.Parser.BoolFlag("force")
	if _, err := os.Stat(path); err == nil && !force {
		return NewValidationErrorWithExample("config", path,
			"file already exists", "textguard config init --force")
	}

	cfg := config.Default()
	if strings.HasSuffix(path, ".json") {
		err = config.SaveJSON(cfg, path)
	} else {
		err = config.SaveTOML(cfg, path)
	}
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]string{"path": path}).Print(env.Stdout)
	}
	if !args.Quiet {
		fmt.Fprintf(env.Stdout, "%s Wrote %s\n", SuccessStyle.Render("[OK]"), path)
	}
	return nil
}
