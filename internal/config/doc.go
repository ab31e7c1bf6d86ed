// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for textguard.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure
//   - UIConfig: Terminal host settings
//   - InputConfig: One constrained input (length budget, format, behaviour)
//   - Watcher: Hot reload of a config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (TEXTGUARD_*)
//   - ~/.textguard/config.toml
//   - ~/.textguard/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Build an input from an entry:
//
//	opts, err := cfg.Inputs[0].GuardOptions()
//	field, err := guard.NewTextField(opts...)
package config
