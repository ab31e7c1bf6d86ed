// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// check.go - The check command: paste text into a headless input.
//
// Command: check
// Short:   Report what a constrained input keeps of a paste
//
// Examples:
//   textguard check --format phone --max 11 1234567890112
//   textguard check --input name 张三丰
//   echo "138 0013 8000" | textguard check --format phone --ignore-spaces -
//
// Exit codes:
//   0   the paste was accepted unchanged
//   4   the paste was truncated, rejected or rolled back

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jeranaias/textguard/internal/guard"
	"github.com/jeranaias/textguard/internal/util"
)

// Edit outcomes.
const (
	OutcomeAccepted   = "accepted"
	OutcomeTruncated  = "truncated"
	OutcomeRejected   = "rejected"
	OutcomeRolledBack = "rolled_back"
	OutcomeUnchanged  = "unchanged"
)

// CheckResult is the result of one check.
type CheckResult struct {
	Input     string           `json:"input"`
	Attempted string           `json:"attempted"`
	Before    string           `json:"before,omitempty"`
	Text      string           `json:"text"`
	Length    int              `json:"length"`
	MaxLength int              `json:"max_length"`
	Format    string           `json:"format"`
	Outcome   string           `json:"outcome"`
	Prevented []PreventedEvent `json:"prevented"`
	Changes   int              `json:"changes"`
}

// RunCheck handles the check command.
func RunCheck(args Args, env *Env) error {
	cfg, err := env.config(args)
	if err != nil {
		return err
	}
	p := args.Parser
	if p == nil {
		p = NewArgParser(nil)
	}
	in, err := inputFromArgs(p, cfg)
	if err != nil {
		return err
	}

	text := JoinPositionalArgs(p, 0)
	if text == "-" {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\r\n")
	}

	e, err := newInput(in, env.Logger, 0)
	if err != nil {
		return err
	}
	result := paste(e, text, in.ReturnSubmits)
	result.Input = in.Name
	result.Format = in.Format
	if result.MaxLength == guard.Unlimited {
		result.MaxLength = 0
	}

	var outErr error
	if result.Outcome != OutcomeAccepted && result.Outcome != OutcomeUnchanged {
		outErr = ErrEditChanged
	}

	if args.JSON {
		resp := NewJSONResponse("check", result)
		if outErr != nil {
			resp = NewJSONErrorResponse("check", result, outErr)
		}
		if err := resp.Print(env.Stdout); err != nil {
			return err
		}
		return outErr
	}

	printCheck(env.Stdout, result, args.Quiet)
	return outErr
}

// paste inserts text at the end of e as a single edit and classifies what
// the input kept.
func paste(e editable, text string, returnSubmits bool) CheckResult {
	rec := newRecorder(returnSubmits)
	e.SetObserver(rec.obs)

	ctl := e.Control()
	before := e.Text()
	ctl.Select(util.Range{Location: ctl.Len()})
	ctl.Insert(text)
	after := e.Text()

	result := CheckResult{
		Attempted: text,
		Before:    before,
		Text:      after,
		Length:    e.Len(),
		MaxLength: e.MaxLength(),
		Prevented: preventedEvents(rec.prevented),
		Changes:   rec.changes,
	}
	switch {
	case text == "":
		result.Outcome = OutcomeUnchanged
	case after == before+text:
		result.Outcome = OutcomeAccepted
	case len(rec.prevented) > 0 && after == before:
		result.Outcome = OutcomeRejected
	case len(rec.prevented) > 0:
		result.Outcome = OutcomeTruncated
	default:
		result.Outcome = OutcomeRolledBack
	}
	return result
}

func printCheck(w io.Writer, r CheckResult, quiet bool) {
	if quiet {
		fmt.Fprintln(w, r.Text)
		return
	}
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Input:"), ValueStyle.Render(r.Input))
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Format:"), ValueStyle.Render(r.Format))
	maxLen := "unbounded"
	if r.MaxLength > 0 {
		maxLen = util.IntToString(r.MaxLength)
	}
	fmt.Fprintf(w, "%s%q\n", RenderLabel("Attempted:"), r.Attempted)
	fmt.Fprintf(w, "%s%q (%d/%s)\n", RenderLabel("Text:"), r.Text, r.Length, maxLen)
	fmt.Fprintf(w, "%s%s\n", RenderLabel("Outcome:"), RenderOutcome(r.Outcome))
	for _, p := range r.Prevented {
		if p.Replacement != nil {
			fmt.Fprintln(w, DimStyle.Render(fmt.Sprintf("  prevented %q at {%d, %d}", *p.Replacement, p.Location, p.Length)))
		} else {
			fmt.Fprintln(w, DimStyle.Render(fmt.Sprintf("  prevented at {%d, %d}", p.Location, p.Length)))
		}
	}
}
