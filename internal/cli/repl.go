// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repl.go - Interactive line-mode editing of a headless input.
//
// USABILITY: liner provides history and line editing
//
// Command: repl
// Short:   Paste each line into a constrained input
//
// Examples:
//   textguard repl --input phone
//   textguard repl --format cjk --max 4
//
// Interactive Commands:
//   TEXT                Paste TEXT at the caret
//   :set TEXT           Assign TEXT programmatically
//   :compose TEXT       Set the marked (composing) text
//   :commit [TEXT]      Commit the composition, optionally as TEXT
//   :cancel             Cancel the composition
//   :bs [N]             Delete N clusters before the caret
//   :del [N]            Delete N clusters after the caret
//   :left [N]           Move the caret left
//   :right [N]          Move the caret right
//   :nl                 Insert a newline (text areas)
//   :max N              Change the length budget (0 = unbounded)
//   :clear              Clear the text
//   :show               Show the input state
//   :help               Show this help
//   :quit, :q           Exit (Ctrl+D also exits)

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/textguard/internal/config"
	"github.com/jeranaias/textguard/internal/guard"
	"github.com/jeranaias/textguard/internal/util"
)

const replHelp = `Commands:
  TEXT            paste TEXT at the caret
  :set TEXT       assign TEXT programmatically
  :compose TEXT   set the composing text
  :commit [TEXT]  commit the composition, optionally as TEXT
  :cancel         cancel the composition
  :bs [N]         delete N clusters before the caret
  :del [N]        delete N clusters after the caret
  :left [N]       move the caret left
  :right [N]      move the caret right
  :nl             insert a newline
  :max N          change the length budget (0 = unbounded)
  :clear          clear the text
  :show           show the input state
  :quit, :q       exit
`

// =============================================================================
// SESSION STATE
// =============================================================================

// Session is one input driven line by line.
type Session struct {
	conf  config.InputConfig
	input editable
	rec   *recorder
	out   io.Writer
}

// NewSession builds the input described by in. Output goes to out.
func NewSession(in config.InputConfig, env *Env) (*Session, error) {
	e, err := newInput(in, env.Logger, 0)
	if err != nil {
		return nil, err
	}
	s := &Session{
		conf:  in,
		input: e,
		rec:   newRecorder(in.ReturnSubmits),
		out:   env.Stdout,
	}
	e.SetObserver(s.rec.obs)
	return s, nil
}

// Text returns the current text.
func (s *Session) Text() string { return s.input.Text() }

// Input returns the driven input.
func (s *Session) Input() guard.Input { return s.input }

// Exec runs one line and prints what changed. It reports whether the
// session should end.
func (s *Session) Exec(line string) (quit bool) {
	s.rec.reset()
	ctl := s.input.Control()

	if !strings.HasPrefix(line, ":") {
		ctl.Insert(line)
		s.report()
		return false
	}

	cmd, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	switch strings.ToLower(cmd) {
	case "q", "quit", "exit":
		return true
	case "help", "h":
		fmt.Fprint(s.out, replHelp)
		return false
	case "show":
		s.show()
		return false
	case "set":
		s.input.SetText(arg)
	case "clear":
		s.input.SetText("")
	case "compose":
		ctl.SetMarkedText(arg)
	case "commit":
		ctl.CommitComposition(arg)
	case "cancel":
		ctl.CancelComposition()
	case "bs":
		for i := 0; i < count(arg); i++ {
			ctl.DeleteBackward()
		}
	case "del":
		for i := 0; i < count(arg); i++ {
			ctl.DeleteForward()
		}
	case "left":
		ctl.MoveCursor(-count(arg))
	case "right":
		ctl.MoveCursor(count(arg))
	case "nl":
		ctl.Insert("\n")
	case "max":
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || n < 0 {
			fmt.Fprintln(s.out, ErrorStyle.Render("max must be a non-negative integer"))
			return false
		}
		if n == 0 {
			n = guard.Unlimited
		}
		s.input.SetMaxLength(n)
	default:
		fmt.Fprintf(s.out, "%s unknown command :%s (try :help)\n", ErrorStyle.Render("[ERROR]"), cmd)
		return false
	}
	s.report()
	return false
}

// count parses an optional repeat count.
func count(arg string) int {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// report prints the state followed by the events of the last line.
func (s *Session) report() {
	s.show()
	for _, p := range s.rec.prevented {
		fmt.Fprintln(s.out, WarningStyle.Render("  "+describePrevented(p)))
	}
	for _, h := range s.rec.heights {
		fmt.Fprintln(s.out, DimStyle.Render(fmt.Sprintf("  height %d", h)))
	}
	if s.rec.submitted > 0 {
		fmt.Fprintln(s.out, SuccessStyle.Render("  submitted"))
	}
}

func (s *Session) show() {
	ctl := s.input.Control()
	state := fmt.Sprintf("%q %d/%s caret %s", s.input.Text(), s.input.Len(),
		budgetString(s.input.MaxLength()), ctl.Selection())
	if r, ok := ctl.MarkedRange(); ok {
		state += fmt.Sprintf(" marked %s %q", r, util.SliceGraphemes(s.input.Text(), r.Location, r.End()))
	}
	fmt.Fprintln(s.out, ValueStyle.Render(state))
}

// =============================================================================
// LINE EDITOR
// =============================================================================

// RunRepl handles the repl command.
func RunRepl(args Args, env *Env) error {
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
	session, err := NewSession(in, env)
	if err != nil {
		return err
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyFile := replHistoryFile()
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(line, historyFile)

	if !args.Quiet {
		fmt.Fprintf(env.Stdout, "%s %s (%s, max %s). Type :help for commands.\n",
			SuccessStyle.Render("textguard"), in.DisplayLabel(), in.Format, budgetString(in.MaxLengthBudget()))
	}

	for {
		input, err := line.Prompt(in.Name + "> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(env.Stdout)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if session.Exec(input) {
			return nil
		}
	}
}

func replHistoryFile() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "repl_history")
}

// saveHistory persists history with owner-only permissions.
func saveHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
