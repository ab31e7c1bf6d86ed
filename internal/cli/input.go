// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// input.go - Headless inputs for the line-mode commands.
//
// check and repl build the same guarded field or area the form uses, from a
// configured input (--input NAME) with flag overrides on top.

package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/jeranaias/textguard/internal/config"
	"github.com/jeranaias/textguard/internal/guard"
	"github.com/jeranaias/textguard/internal/util"
)

// Env carries the configuration and streams of a command.
type Env struct {
	// Config is used as is when set; otherwise it is loaded from
	// --config or the default locations.
	Config *config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Logger receives the guard decision log (nil = discard)
	Logger *log.Logger
}

// DefaultEnv returns an Env bound to the process streams.
func DefaultEnv() *Env {
	return &Env{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// LoadConfig loads the configuration named by args.
func LoadConfig(args Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		return config.LoadFromPath(args.ConfigPath)
	}
	return config.Load()
}

func (e *Env) config(args Args) (*config.Config, error) {
	if e.Config != nil {
		return e.Config, nil
	}
	cfg, err := LoadConfig(args)
	if err != nil {
		return nil, err
	}
	e.Config = cfg
	return cfg, nil
}

// OpenLog opens path for appending and returns a logger writing to it.
func OpenLog(path string) (*log.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return log.New(f, "", log.LstdFlags|log.Lmicroseconds), f, nil
}

// =============================================================================
// INPUT RESOLUTION
// =============================================================================

// inputFromArgs resolves the input description from --input and the
// constraint flags. A --pattern without --format selects the custom format.
func inputFromArgs(p *ArgParser, cfg *config.Config) (config.InputConfig, error) {
	in := config.InputConfig{Name: "cli", Format: "unrestricted"}
	if name := p.Flag("input"); name != "" {
		found, ok := cfg.Input(name)
		if !ok {
			return in, NewValidationError("input", name, "no such input in config")
		}
		in = found
	}

	if p.HasFlag("max") {
		n, err := strconv.Atoi(p.Flag("max"))
		if err != nil || n < 0 {
			return in, NewValidationErrorWithExample("max", p.Flag("max"),
				"must be a non-negative integer", "--max 11")
		}
		in.MaxLength = n
	}
	if f := p.Flag("format"); f != "" {
		in.Format = f
		if f != "custom" {
			in.Pattern = ""
		}
	}
	if expr := p.Flag("pattern"); expr != "" {
		in.Pattern = expr
		if p.Flag("format") == "" {
			in.Format = "custom"
		}
	}
	if p.BoolFlag("ignore-spaces") {
		in.IgnoreSpaces = true
	}
	if p.BoolFlag("fold-width") {
		in.FoldWidth = true
	}
	if p.BoolFlag("multiline") {
		in.Multiline = true
	}
	if p.BoolFlag("no-react") {
		react := false
		in.ReactToProgrammaticChanges = &react
	}
	if p.HasFlag("initial") {
		in.Initial = p.Flag("initial")
	}

	if _, err := in.Compile(); err != nil {
		return in, &ValidationError{Field: "format", Value: in.Format, Reason: err.Error()}
	}
	return in, nil
}

// editable is the part of TextField and TextArea the commands drive.
type editable interface {
	guard.Input
	Len() int
	MaxLength() int
	SetMaxLength(n int) error
	LastValid() string
}

// newInput constructs the field or area described by in. The initial text
// is assigned before the observer is attached.
func newInput(in config.InputConfig, logger *log.Logger, width int) (editable, error) {
	extra := []guard.Option{guard.WithLogger(logger)}
	if width > 0 {
		extra = append(extra, guard.WithWidth(width))
	}
	opts, err := in.GuardOptions(extra...)
	if err != nil {
		return nil, err
	}

	var e editable
	if in.Multiline {
		e, err = guard.NewTextArea(opts...)
	} else {
		e, err = guard.NewTextField(opts...)
	}
	if err != nil {
		return nil, err
	}
	if in.Initial != "" {
		e.SetText(in.Initial)
	}
	return e, nil
}

// =============================================================================
// EVENT RECORDER
// =============================================================================

// recorder collects the observer callbacks of one input.
type recorder struct {
	obs           *guard.Observer
	returnSubmits bool

	changes   int
	prevented []guard.Prevented
	heights   []int
	submitted int
}

func newRecorder(returnSubmits bool) *recorder {
	r := &recorder{returnSubmits: returnSubmits}
	r.obs = &guard.Observer{
		DidChange:       func(guard.Input) { r.changes++ },
		ChangePrevented: func(_ guard.Input, p guard.Prevented) { r.prevented = append(r.prevented, p) },
		HeightChanged:   func(_ guard.Input, h int) { r.heights = append(r.heights, h) },
		ShouldReturn: func(guard.Input) bool {
			if r.returnSubmits {
				r.submitted++
			}
			return r.returnSubmits
		},
	}
	return r
}

func (r *recorder) reset() {
	r.changes = 0
	r.prevented = nil
	r.heights = nil
	r.submitted = 0
}

// PreventedEvent is the JSON form of a prevented edit.
type PreventedEvent struct {
	Location    int     `json:"location"`
	Length      int     `json:"length"`
	Replacement *string `json:"replacement,omitempty"`
}

func preventedEvents(ps []guard.Prevented) []PreventedEvent {
	out := make([]PreventedEvent, 0, len(ps))
	for _, p := range ps {
		ev := PreventedEvent{Location: p.Range.Location, Length: p.Range.Length}
		if p.HasReplacement {
			repl := p.Replacement
			ev.Replacement = &repl
		}
		out = append(out, ev)
	}
	return out
}

func describePrevented(p guard.Prevented) string {
	if !p.HasReplacement {
		return fmt.Sprintf("prevented at %s", p.Range)
	}
	return fmt.Sprintf("prevented %q at %s", p.Replacement, p.Range)
}

func budgetString(max int) string {
	if max == guard.Unlimited {
		return "unbounded"
	}
	return util.IntToString(max)
}
