// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/textguard/internal/config"
)

func newEnv() (*Env, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Env{
		Config: config.Default(),
		Stdin:  strings.NewReader(""),
		Stdout: out,
		Stderr: &bytes.Buffer{},
	}, out
}

func runCheck(t *testing.T, env *Env, argv ...string) error {
	t.Helper()
	cmd, args := Parse(append([]string{"check"}, argv...))
	require.Equal(t, CmdCheck, cmd)
	return RunCheck(args, env)
}

type checkResponse struct {
	Success bool
	Data    CheckResult
	Error   *string
}

func checkJSON(t *testing.T, argv ...string) (checkResponse, error) {
	t.Helper()
	env, out := newEnv()
	err := runCheck(t, env, append([]string{"--json"}, argv...)...)
	var resp checkResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp), out.String())
	return resp, err
}

func fullwidth(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '!' && r <= '~' {
			return r + 0xFEE0
		}
		return r
	}, s)
}

// =============================================================================
// CHECK
// =============================================================================

func TestCheck_PhonePasteTruncated(t *testing.T) {
	resp, err := checkJSON(t, "--format", "phone", "--max", "11", "1234567890112")
	require.ErrorIs(t, err, ErrEditChanged)
	assert.Equal(t, ExitEditChanged, GetExitCode(err))

	assert.False(t, resp.Success)
	assert.Equal(t, "12345678901", resp.Data.Text)
	assert.Equal(t, 11, resp.Data.Length)
	assert.Equal(t, 11, resp.Data.MaxLength)
	assert.Equal(t, OutcomeTruncated, resp.Data.Outcome)
	assert.Equal(t, 1, resp.Data.Changes)
	require.Len(t, resp.Data.Prevented, 1)
	p := resp.Data.Prevented[0]
	assert.Equal(t, 0, p.Location)
	assert.Equal(t, 0, p.Length)
	require.NotNil(t, p.Replacement)
	assert.Equal(t, "1234567890112", *p.Replacement)
}

func TestCheck_Accepted(t *testing.T) {
	env, out := newEnv()
	err := runCheck(t, env, "--input", "name", "张三")
	require.NoError(t, err)
	assert.Contains(t, out.String(), OutcomeAccepted)
	assert.Contains(t, out.String(), `"张三" (2/6)`)
}

func TestCheck_RejectedAtLimit(t *testing.T) {
	env, out := newEnv()
	err := runCheck(t, env, "--max", "3", "--initial", "abc", "d")
	require.ErrorIs(t, err, ErrEditChanged)
	assert.Contains(t, out.String(), OutcomeRejected)
	assert.Contains(t, out.String(), `prevented "d" at {3, 0}`)
}

func TestCheck_FormatRollbackIsSilent(t *testing.T) {
	resp, err := checkJSON(t, "--format", "digits", "abc")
	require.ErrorIs(t, err, ErrEditChanged)
	assert.Equal(t, OutcomeRolledBack, resp.Data.Outcome)
	assert.Equal(t, "", resp.Data.Text)
	assert.Empty(t, resp.Data.Prevented)
}

func TestCheck_CustomPattern(t *testing.T) {
	resp, err := checkJSON(t, "--pattern", "[a-z]+", "abc")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "custom", resp.Data.Format)
	assert.Equal(t, 0, resp.Data.MaxLength)
	assert.Equal(t, OutcomeAccepted, resp.Data.Outcome)
}

func TestCheck_FullwidthFoldFromConfig(t *testing.T) {
	resp, err := checkJSON(t, "--input", "phone", fullwidth("13800138000"))
	require.NoError(t, err)
	assert.Equal(t, fullwidth("13800138000"), resp.Data.Text)
	assert.Equal(t, "phone", resp.Data.Input)
}

func TestCheck_Stdin(t *testing.T) {
	env, out := newEnv()
	env.Stdin = strings.NewReader("138 0013 8000\n")
	err := runCheck(t, env, "-q", "--format", "phone", "--ignore-spaces", "-")
	require.NoError(t, err)
	assert.Equal(t, "138 0013 8000\n", out.String())
}

func TestCheck_QuietPrintsText(t *testing.T) {
	env, out := newEnv()
	err := runCheck(t, env, "-q", "--max", "2", "abc")
	require.ErrorIs(t, err, ErrEditChanged)
	assert.Equal(t, "ab\n", out.String())
}

func TestCheck_UsageErrors(t *testing.T) {
	tests := []struct {
		name  string
		argv  []string
		field string
	}{
		{"negative max", []string{"--max=-1", "x"}, "max"},
		{"unknown input", []string{"--input", "nope", "x"}, "input"},
		{"bad pattern", []string{"--pattern", "(", "x"}, "format"},
		{"pattern without custom", []string{"--format", "digits", "--pattern", "abc", "x"}, "format"},
		{"unknown format", []string{"--format", "emoji", "x"}, "format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, _ := newEnv()
			err := runCheck(t, env, tt.argv...)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, ExitUsageError, GetExitCode(err))
		})
	}
}

// =============================================================================
// REPL SESSION
// =============================================================================

func newSession(t *testing.T, in config.InputConfig) (*Session, *bytes.Buffer) {
	t.Helper()
	if in.Name == "" {
		in.Name = "test"
	}
	if in.Format == "" {
		in.Format = "unrestricted"
	}
	env, out := newEnv()
	s, err := NewSession(in, env)
	require.NoError(t, err)
	return s, out
}

func TestSession_Editing(t *testing.T) {
	s, _ := newSession(t, config.InputConfig{})

	assert.False(t, s.Exec("hello"))
	assert.Equal(t, "hello", s.Text())

	s.Exec(":bs 2")
	assert.Equal(t, "hel", s.Text())

	s.Exec(":left 1")
	s.Exec("X")
	assert.Equal(t, "heXl", s.Text())

	s.Exec(":del")
	assert.Equal(t, "heX", s.Text())

	s.Exec(":clear")
	assert.Equal(t, "", s.Text())
}

func TestSession_CompositionCommitTruncates(t *testing.T) {
	s, out := newSession(t, config.InputConfig{MaxLength: 3})

	s.Exec("ab")
	s.Exec(":compose zhong")
	assert.Contains(t, out.String(), `marked {2, 5} "zhong"`)

	out.Reset()
	s.Exec(":commit 中文")
	assert.Equal(t, "ab中", s.Text())
	assert.Contains(t, out.String(), "prevented at {3, 0}")
}

func TestSession_SetAndMax(t *testing.T) {
	s, out := newSession(t, config.InputConfig{MaxLength: 3})

	s.Exec(":set abcdef")
	assert.Equal(t, "abc", s.Text())
	assert.Contains(t, out.String(), `prevented "abcdef" at {0, 0}`)

	s.Exec(":max 0")
	s.Exec("def")
	assert.Equal(t, "abcdef", s.Text())
	assert.Contains(t, out.String(), "6/unbounded")
}

func TestSession_Commands(t *testing.T) {
	s, out := newSession(t, config.InputConfig{})

	assert.True(t, s.Exec(":q"))
	assert.True(t, s.Exec(":quit"))
	assert.False(t, s.Exec(":nope"))
	assert.Contains(t, out.String(), "unknown command :nope")

	s.Exec(":max x")
	assert.Contains(t, out.String(), "non-negative")

	out.Reset()
	s.Exec(":help")
	assert.Contains(t, out.String(), ":compose TEXT")
}

func TestSession_TextArea(t *testing.T) {
	s, out := newSession(t, config.InputConfig{Multiline: true, AutoResizable: true})

	s.Exec("a")
	s.Exec(":nl")
	s.Exec("b")
	assert.Equal(t, "a\nb", s.Text())
	assert.Contains(t, out.String(), "height 2")
}

func TestSession_ReturnSubmits(t *testing.T) {
	s, out := newSession(t, config.InputConfig{Multiline: true, ReturnSubmits: true})

	s.Exec("a")
	s.Exec(":nl")
	assert.Equal(t, "a", s.Text())
	assert.Contains(t, out.String(), "submitted")
}

// =============================================================================
// CONFIG COMMAND
// =============================================================================

func runConfig(t *testing.T, env *Env, argv ...string) error {
	t.Helper()
	cmd, args := Parse(append([]string{"config"}, argv...))
	require.Equal(t, CmdConfig, cmd)
	return RunConfig(args, env)
}

func TestConfig_InitAndPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	want := filepath.Join(home, ".textguard", "config.toml")

	env, out := newEnv()
	require.NoError(t, runConfig(t, env, "path"))
	assert.Equal(t, want+"\n", out.String())

	require.NoError(t, runConfig(t, env, "init"))
	_, err := os.Stat(want)
	require.NoError(t, err)

	err = runConfig(t, env, "init")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, want, ve.Value)

	require.NoError(t, runConfig(t, env, "init", "--force"))

	cfg, err := config.LoadFromPath(want)
	require.NoError(t, err)
	assert.Len(t, cfg.Inputs, len(config.Default().Inputs))
}

func TestConfig_InitJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputs.json")
	env, _ := newEnv()
	require.NoError(t, runConfig(t, env, "-q", "init", "--config", path))

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	_, ok := cfg.Input("phone")
	assert.True(t, ok)
}

func TestConfig_Show(t *testing.T) {
	env, out := newEnv()
	require.NoError(t, runConfig(t, env))
	assert.Contains(t, out.String(), `name = "phone"`)

	out.Reset()
	require.NoError(t, runConfig(t, env, "show", "--json"))
	var resp struct {
		Success bool
		Data    config.Config
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data.Inputs, 4)
}

func TestConfig_UnknownSubcommand(t *testing.T) {
	env, _ := newEnv()
	err := runConfig(t, env, "frobnicate")
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

// =============================================================================
// ERRORS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"edit changed", fmt.Errorf("check: %w", ErrEditChanged), ExitEditChanged},
		{"validation", NewValidationError("max", "x", "bad"), ExitUsageError},
		{"config", config.ValidateErrors{{Field: "inputs[0].name", Message: "is required"}}, ExitConfigError},
		{"no inputs", fmt.Errorf("invalid config: %w", config.ErrNoInputs), ExitConfigError},
		{"other", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, NewValidationErrorWithExample("max", "-1", "must be a non-negative integer", "--max 11"), true)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "validation_error", got["error_type"])
	assert.Equal(t, "max", got["field"])
	assert.Equal(t, false, got["success"])

	buf.Reset()
	DisplayError(&buf, errors.New("boom"), false)
	assert.Contains(t, buf.String(), "[ERROR] boom")
}
