// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package form

import (
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/jeranaias/textguard/internal/config"
	"github.com/jeranaias/textguard/internal/guard"
	"github.com/jeranaias/textguard/internal/native"
	"github.com/jeranaias/textguard/internal/ui/components"
	"github.com/jeranaias/textguard/internal/ui/styles"
)

const (
	defaultWidth = 60
	minWidth     = 20
)

// StatusKind selects the styling of the status line.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarning
	StatusError
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the form: the configured inputs stacked vertically, one focused.
type Model struct {
	cfg    *config.Config
	theme  *styles.Theme
	keys   KeyMap
	help   help.Model
	logger *log.Logger

	inputs []*components.Input
	focus  int

	// Private center so notifications from other forms are not counted.
	center *native.NotificationCenter
	stats  *stats

	status     string
	statusKind StatusKind

	width    int
	height   int
	showHelp bool
}

// stats counts applied edits per control from TextDidChange notifications.
type stats struct {
	edits  map[uuid.UUID]int
	total  int
	cancel func()
}

func newStats(nc *native.NotificationCenter) *stats {
	s := &stats{edits: make(map[uuid.UUID]int)}
	s.cancel = nc.Subscribe(native.TextDidChange, func(n native.Notification) {
		s.edits[n.Source]++
		s.total++
	})
	return s
}

type formOptions struct {
	theme  *styles.Theme
	logger *log.Logger
	keys   KeyMap
}

// Option configures a Model.
type Option func(*formOptions)

// WithTheme sets the theme (default: from the config).
func WithTheme(t *styles.Theme) Option {
	return func(o *formOptions) { o.theme = t }
}

// WithLogger logs guard decisions and form events.
func WithLogger(l *log.Logger) Option {
	return func(o *formOptions) { o.logger = l }
}

// WithKeyMap replaces the key bindings.
func WithKeyMap(k KeyMap) Option {
	return func(o *formOptions) { o.keys = k }
}

// New builds the form for cfg. The first input is focused.
func New(cfg *config.Config, opts ...Option) (Model, error) {
	if len(cfg.Inputs) == 0 {
		return Model{}, config.ErrNoInputs
	}
	o := &formOptions{keys: DefaultKeyMap()}
	for _, opt := range opts {
		opt(o)
	}
	if o.theme == nil {
		o.theme = styles.NewTheme(cfg.UI.Theme)
	}

	m := Model{
		cfg:    cfg,
		theme:  o.theme,
		keys:   o.keys,
		help:   help.New(),
		logger: o.logger,
		center: native.NewNotificationCenter(),
		width:  cfg.UI.Width,
		status: "Tab to move between inputs, Ctrl+K to compose",
	}
	m.stats = newStats(m.center)

	for _, conf := range cfg.Inputs {
		in, err := components.NewInput(conf,
			components.WithTheme(m.theme),
			components.WithLogger(m.logger),
			components.WithCenter(m.center),
			components.WithKeyMap(m.keys.Input),
			components.WithWidth(m.inputWidth()),
		)
		if err != nil {
			return Model{}, err
		}
		m.inputs = append(m.inputs, in)
	}
	m.inputs[0].Focus()
	return m, nil
}

// Init sets the window title.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("textguard")
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Inputs returns the inputs in display order.
func (m Model) Inputs() []*components.Input { return m.inputs }

// Focused returns the focused input.
func (m Model) Focused() *components.Input { return m.inputs[m.focus] }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

// StatusKind returns the kind of the status line.
func (m Model) StatusKind() StatusKind { return m.statusKind }

// Edits returns the number of applied edits of input in, or of all inputs
// when in is nil.
func (m Model) Edits(in *components.Input) int {
	if in == nil {
		return m.stats.total
	}
	return m.stats.edits[in.Guarded().ID()]
}

// Close stops counting notifications.
func (m Model) Close() {
	m.stats.cancel()
}

func (m Model) inputWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	if w < minWidth {
		w = minWidth
	}
	return w
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		_, cmd := m.Focused().Update(msg)
		return m, cmd

	case components.PreventedMsg:
		m.setStatus(StatusWarning, msg.Name+": "+describePrevented(msg.Prevented))
		return m, nil

	case components.HeightMsg:
		m.setStatus(StatusInfo, fmt.Sprintf("%s: height %d", msg.Name, msg.Height))
		return m, nil

	case components.SubmitMsg:
		return m.handleSubmit(msg)

	case ConfigReloadedMsg:
		return m.handleReload(msg.Config)

	case ConfigErrorMsg:
		m.setStatus(StatusError, "config: "+msg.Err.Error())
		return m, nil
	}
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.height = msg.Height
	m.help.Width = msg.Width
	if m.cfg.UI.Width > 0 {
		return m, nil
	}
	m.width = msg.Width

	var cmds []tea.Cmd
	for _, in := range m.inputs {
		cmds = append(cmds, in.SetWidth(m.inputWidth()))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Printable runes are text, even when a pasted chunk spells a key name.
	switch {
	case msg.Type == tea.KeyRunes:
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m.moveFocus(1)

	case key.Matches(msg, m.keys.Prev):
		return m.moveFocus(-1)
	}

	_, cmd := m.Focused().Update(msg)
	return m, cmd
}

// moveFocus focuses the input delta positions away, wrapping around.
func (m Model) moveFocus(delta int) (tea.Model, tea.Cmd) {
	n := len(m.inputs)
	blur := m.Focused().Blur()
	m.focus = ((m.focus+delta)%n + n) % n
	return m, tea.Batch(blur, m.Focused().Focus())
}

// handleSubmit moves on from the submitting input. Submitting the last one
// completes the form.
func (m Model) handleSubmit(msg components.SubmitMsg) (tea.Model, tea.Cmd) {
	idx := -1
	for i, in := range m.inputs {
		if in.Guarded().ID() == msg.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return m, nil
	}
	if m.logger != nil {
		m.logger.Printf("FORM: submit name=%s text=%q", msg.Name, m.inputs[idx].Text())
	}

	if idx == len(m.inputs)-1 {
		m.setStatus(StatusSuccess, fmt.Sprintf("submitted %d inputs", len(m.inputs)))
		return m, nil
	}
	m.setStatus(StatusInfo, msg.Name+": "+fmt.Sprintf("%q", m.inputs[idx].Text()))
	if idx != m.focus {
		return m, nil
	}
	return m.moveFocus(1)
}

// handleReload applies the constraints of cfg to the inputs with the same
// name. They take effect on the next edit. Inputs cannot be added or removed
// while running.
func (m Model) handleReload(cfg *config.Config) (tea.Model, tea.Cmd) {
	type change struct {
		in   *components.Input
		conf config.InputConfig
	}
	var changes []change
	for _, in := range m.inputs {
		conf, ok := cfg.Input(in.Name())
		if !ok {
			continue
		}
		if err := checkReload(in, conf); err != nil {
			m.setStatus(StatusError, fmt.Sprintf("config: input %q: %v", in.Name(), err))
			return m, nil
		}
		changes = append(changes, change{in: in, conf: conf})
	}
	for _, c := range changes {
		if err := c.in.Apply(c.conf); err != nil {
			m.setStatus(StatusError, fmt.Sprintf("config: input %q: %v", c.in.Name(), err))
			return m, nil
		}
	}
	if m.logger != nil {
		m.logger.Printf("FORM: config reloaded inputs=%d", len(changes))
	}

	m.cfg = cfg
	if len(changes) != len(cfg.Inputs) || len(changes) != len(m.inputs) {
		m.setStatus(StatusWarning, fmt.Sprintf("config reloaded (%d inputs); restart to add or remove inputs", len(changes)))
		return m, nil
	}
	m.setStatus(StatusSuccess, "config reloaded")
	return m, nil
}

// checkReload reports whether conf can be applied to in, so a reload is
// applied to every input or to none.
func checkReload(in *components.Input, conf config.InputConfig) error {
	if conf.Multiline != in.Config().Multiline {
		return components.ErrMultilineChanged
	}
	_, err := conf.Compile()
	return err
}

func (m *Model) setStatus(kind StatusKind, text string) {
	m.statusKind = kind
	m.status = text
}

// describePrevented summarizes a prevented edit for the status line.
func describePrevented(p guard.Prevented) string {
	if !p.HasReplacement {
		return "truncated at " + p.Range.String()
	}
	if p.Replacement == "\n" {
		return "return at the limit " + p.Range.String()
	}
	return fmt.Sprintf("prevented %q at %s", p.Replacement, p.Range)
}
