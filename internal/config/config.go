// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/textguard/internal/util"
)

// ErrNoInputs is returned when a configuration declares no inputs.
var ErrNoInputs = errors.New("no inputs configured")

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete textguard configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Inputs shown by the form, in order
	Inputs []InputConfig `toml:"inputs" json:"inputs"`
}

// UIConfig contains terminal host configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// Width is the input width in columns (0 = follow the terminal)
	Width int `toml:"width" json:"width"`
	// Log is the path of the debug log (empty = no log)
	Log string `toml:"log" json:"log"`
}

// InputConfig describes one constrained input.
type InputConfig struct {
	// Name identifies the input; it must be unique
	Name string `toml:"name" json:"name"`
	// Label is shown next to the input (empty = Name)
	Label string `toml:"label" json:"label,omitempty"`
	// Multiline selects a text area instead of a text field
	Multiline bool `toml:"multiline" json:"multiline"`
	// MaxLength is the budget in user-perceived characters (0 = unbounded)
	MaxLength int `toml:"max_length" json:"max_length"`
	// Format is the whitelist kind: "unrestricted", "phone", "cjk",
	// "id_number", "digits", "letters", "digits_and_letters", "custom"
	Format string `toml:"format" json:"format"`
	// Pattern is the expression of a custom format
	Pattern string `toml:"pattern" json:"pattern,omitempty"`
	// IgnoreSpaces drops spaces before matching
	IgnoreSpaces bool `toml:"ignore_spaces" json:"ignore_spaces"`
	// FoldWidth matches fullwidth digits and letters as ASCII
	FoldWidth bool `toml:"fold_width" json:"fold_width"`
	// ReactToProgrammaticChanges runs assigned text through the constraint
	// (nil = true)
	ReactToProgrammaticChanges *bool `toml:"react_to_programmatic_changes" json:"react_to_programmatic_changes,omitempty"`
	// AutoResizable grows a text area with its content
	AutoResizable bool `toml:"auto_resizable" json:"auto_resizable"`
	// ReturnSubmits makes return leave a text area instead of inserting a newline
	ReturnSubmits bool `toml:"return_submits" json:"return_submits"`
	// Placeholder is shown while the input is empty
	Placeholder string `toml:"placeholder" json:"placeholder,omitempty"`
	// Initial is assigned after construction
	Initial string `toml:"initial" json:"initial,omitempty"`
}

// React reports whether programmatic changes are constrained.
func (in InputConfig) React() bool {
	return in.ReactToProgrammaticChanges == nil || *in.ReactToProgrammaticChanges
}

// DisplayLabel returns the label, falling back to the name.
func (in InputConfig) DisplayLabel() string {
	if in.Label != "" {
		return in.Label
	}
	return in.Name
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		UI: UIConfig{
			Theme: "dark",
			Width: 0, // follow the terminal
		},

		Inputs: []InputConfig{
			{
				Name:        "phone",
				Label:       "Phone",
				MaxLength:   11,
				Format:      "phone",
				FoldWidth:   true,
				Placeholder: "11 digits",
			},
			{
				Name:        "name",
				Label:       "Name (CJK)",
				MaxLength:   6,
				Format:      "cjk",
				Placeholder: "Ctrl+K to compose",
			},
			{
				Name:         "id",
				Label:        "ID number",
				MaxLength:    18,
				Format:       "id_number",
				IgnoreSpaces: true,
			},
			{
				Name:          "bio",
				Label:         "Bio",
				Multiline:     true,
				MaxLength:     140,
				Format:        "unrestricted",
				AutoResizable: true,
				Placeholder:   "Tell us about yourself",
			},
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the textguard configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".textguard"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadJSON decodes a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		// Default to TOML
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	for i := range cfg.Inputs {
		if cfg.Inputs[i].Format == "" {
			cfg.Inputs[i].Format = "unrestricted"
		}
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// RELIABILITY: Atomic write with fsync prevents a half-written config.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# textguard configuration file")
	fmt.Fprintln(&buf, "# max_length = 0 means unbounded")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validThemes = map[string]bool{"dark": true, "light": true, "auto": true}

// Validate validates the configuration and returns any errors.
// Every entry must be constructible: unknown formats and malformed
// patterns are rejected here rather than at edit time.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInputs
	}

	var errs ValidateErrors

	if c.UI.Theme != "" && !validThemes[c.UI.Theme] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be one of: dark, light, auto (got %q)", c.UI.Theme),
		})
	}
	if c.UI.Width < 0 {
		errs = append(errs, ValidationError{Field: "ui.width", Message: "must not be negative"})
	}

	seen := make(map[string]bool, len(c.Inputs))
	for i, in := range c.Inputs {
		field := "inputs[" + strconv.Itoa(i) + "]"
		if in.Name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "is required"})
		} else if seen[in.Name] {
			errs = append(errs, ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate name %q", in.Name)})
		}
		seen[in.Name] = true

		if in.MaxLength < 0 {
			errs = append(errs, ValidationError{Field: field + ".max_length", Message: "must not be negative"})
		}
		if _, err := in.Compile(); err != nil {
			errs = append(errs, ValidationError{Field: field + ".format", Message: err.Error()})
		}
		if in.AutoResizable && !in.Multiline {
			errs = append(errs, ValidationError{Field: field + ".auto_resizable", Message: "requires multiline"})
		}
		if in.ReturnSubmits && !in.Multiline {
			errs = append(errs, ValidationError{Field: field + ".return_submits", Message: "requires multiline"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Input returns the entry called name.
func (c *Config) Input(name string) (InputConfig, bool) {
	for _, in := range c.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return InputConfig{}, false
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - TEXTGUARD_MAX_LENGTH: overrides max_length of every input
//   - TEXTGUARD_FORMAT: overrides format of every input
//   - TEXTGUARD_REACT_PROGRAMMATIC: "1"/"true" or "0"/"false" for every input
//   - TEXTGUARD_THEME: overrides ui.theme
//   - TEXTGUARD_LOG: overrides ui.log
func (c *Config) ApplyEnvOverrides() {
	// TEXTGUARD_MAX_LENGTH
	if v := os.Getenv("TEXTGUARD_MAX_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			for i := range c.Inputs {
				c.Inputs[i].MaxLength = n
			}
		}
	}

	// TEXTGUARD_FORMAT
	if v := os.Getenv("TEXTGUARD_FORMAT"); v != "" {
		for i := range c.Inputs {
			c.Inputs[i].Format = v
		}
	}

	// TEXTGUARD_REACT_PROGRAMMATIC
	if v := os.Getenv("TEXTGUARD_REACT_PROGRAMMATIC"); v != "" {
		react := v == "1" || strings.ToLower(v) == "true"
		for i := range c.Inputs {
			c.Inputs[i].ReactToProgrammaticChanges = &react
		}
	}

	// TEXTGUARD_THEME
	if v := os.Getenv("TEXTGUARD_THEME"); v != "" {
		c.UI.Theme = v
	}

	// TEXTGUARD_LOG
	if v := os.Getenv("TEXTGUARD_LOG"); v != "" {
		c.UI.Log = v
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Inputs != nil {
		clone.Inputs = make([]InputConfig, len(c.Inputs))
		for i, in := range c.Inputs {
			if in.ReactToProgrammaticChanges != nil {
				react := *in.ReactToProgrammaticChanges
				in.ReactToProgrammaticChanges = &react
			}
			clone.Inputs[i] = in
		}
	}
	return &clone
}

// String returns a string representation of the config for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
