// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/jeranaias/textguard/internal/config"
	"github.com/jeranaias/textguard/internal/format"
	"github.com/jeranaias/textguard/internal/guard"
	"github.com/jeranaias/textguard/internal/native"
	"github.com/jeranaias/textguard/internal/ui/styles"
	"github.com/jeranaias/textguard/internal/util"
)

// =============================================================================
// MESSAGES
// =============================================================================

// PreventedMsg reports an edit an input truncated or rejected.
type PreventedMsg struct {
	ID        uuid.UUID
	Name      string
	Prevented guard.Prevented
}

// HeightMsg reports a new content height of an auto-resizing area.
type HeightMsg struct {
	ID     uuid.UUID
	Name   string
	Height int
}

// SubmitMsg reports Enter in a field, or return in an area that submits.
type SubmitMsg struct {
	ID   uuid.UUID
	Name string
}

// ErrMultilineChanged is returned by Apply when a reload turns a field into
// an area or back.
var ErrMultilineChanged = errors.New("multiline cannot change while running")

const (
	defaultWidth = 40
	defaultRows  = 4
	maxRows      = 8
)

// =============================================================================
// CONSTRAINED INPUT COMPONENT
// =============================================================================

// editable is the part of TextField and TextArea the component drives.
type editable interface {
	guard.Input
	Len() int
	MaxLength() int
	SetMaxLength(n int) error
	SetFormat(p *format.Pattern)
	SetReactToProgrammaticChanges(react bool)
}

// Input renders one guarded field or area and feeds it terminal input.
type Input struct {
	conf     config.InputConfig
	guarded  editable
	area     *guard.TextArea // nil for single-line inputs
	ctl      *native.Control
	observer *guard.Observer // held here; the wrapper only keeps a weak reference

	keys     KeyMap
	theme    *styles.Theme
	viewport viewport.Model
	width    int
	focused  bool
	ime      bool

	pending []tea.Msg
}

type inputOptions struct {
	theme  *styles.Theme
	logger *log.Logger
	center *native.NotificationCenter
	keys   KeyMap
	width  int
}

// InputOption configures an Input.
type InputOption func(*inputOptions)

// WithTheme sets the theme (default: dark).
func WithTheme(t *styles.Theme) InputOption {
	return func(o *inputOptions) { o.theme = t }
}

// WithLogger logs the guard decisions of the input.
func WithLogger(l *log.Logger) InputOption {
	return func(o *inputOptions) { o.logger = l }
}

// WithCenter posts the control notifications to nc.
func WithCenter(nc *native.NotificationCenter) InputOption {
	return func(o *inputOptions) { o.center = nc }
}

// WithKeyMap replaces the editing keys.
func WithKeyMap(k KeyMap) InputOption {
	return func(o *inputOptions) { o.keys = k }
}

// WithWidth sets the rendered width including the border.
func WithWidth(w int) InputOption {
	return func(o *inputOptions) { o.width = w }
}

// NewInput builds the input described by conf. The initial text is
// assigned before events are reported.
func NewInput(conf config.InputConfig, opts ...InputOption) (*Input, error) {
	o := &inputOptions{keys: DefaultKeyMap(), width: defaultWidth}
	for _, opt := range opts {
		opt(o)
	}
	if o.theme == nil {
		o.theme = styles.NewTheme("dark")
	}

	i := &Input{
		conf:     conf,
		keys:     o.keys,
		theme:    o.theme,
		width:    o.width,
		viewport: viewport.New(innerWidth(o.width), 1),
	}

	extra := []guard.Option{guard.WithLogger(o.logger), guard.WithWidth(innerWidth(o.width))}
	if o.center != nil {
		extra = append(extra, guard.WithCenter(o.center))
	}
	gopts, err := conf.GuardOptions(extra...)
	if err != nil {
		return nil, err
	}
	if conf.Multiline {
		a, err := guard.NewTextArea(gopts...)
		if err != nil {
			return nil, err
		}
		i.area, i.guarded = a, a
	} else {
		f, err := guard.NewTextField(gopts...)
		if err != nil {
			return nil, err
		}
		i.guarded = f
	}
	i.ctl = i.guarded.Control()

	if conf.Initial != "" {
		i.guarded.SetText(conf.Initial)
	}
	i.observer = i.newObserver()
	i.guarded.SetObserver(i.observer)
	i.viewport.Height = i.rows()
	return i, nil
}

func (i *Input) newObserver() *guard.Observer {
	return &guard.Observer{
		ChangePrevented: func(in guard.Input, p guard.Prevented) {
			i.pending = append(i.pending, PreventedMsg{ID: in.ID(), Name: i.conf.Name, Prevented: p})
		},
		HeightChanged: func(in guard.Input, h int) {
			i.viewport.Height = i.rows()
			i.pending = append(i.pending, HeightMsg{ID: in.ID(), Name: i.conf.Name, Height: h})
		},
		ShouldReturn: func(in guard.Input) bool {
			if i.conf.ReturnSubmits {
				i.pending = append(i.pending, SubmitMsg{ID: in.ID(), Name: i.conf.Name})
			}
			return i.conf.ReturnSubmits
		},
		DidScroll: func(_ guard.Input, offset int) {
			i.viewport.SetYOffset(offset)
		},
	}
}

// innerWidth is the text width inside the border and padding.
func innerWidth(w int) int {
	if w-4 < 1 {
		return 1
	}
	return w - 4
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Name returns the configured name.
func (i *Input) Name() string { return i.conf.Name }

// Config returns the configuration the input was built or last reloaded from.
func (i *Input) Config() config.InputConfig { return i.conf }

// Guarded returns the wrapper.
func (i *Input) Guarded() guard.Input { return i.guarded }

// Control returns the driven control.
func (i *Input) Control() *native.Control { return i.ctl }

// Text returns the current text.
func (i *Input) Text() string { return i.guarded.Text() }

// Len returns the length in user-perceived characters.
func (i *Input) Len() int { return i.guarded.Len() }

// Focused reports whether the input receives keys.
func (i *Input) Focused() bool { return i.focused }

// IMEEnabled reports whether typed letters are composed.
func (i *Input) IMEEnabled() bool { return i.ime }

// Height returns the content height in rows (1 for fields).
func (i *Input) Height() int {
	if i.area == nil {
		return 1
	}
	return i.area.Height()
}

// ScrollOffset returns the first visible row of an area.
func (i *Input) ScrollOffset() int { return i.ctl.ScrollOffset() }

// rows is the number of visible rows of an area.
func (i *Input) rows() int {
	if i.area == nil {
		return 1
	}
	if i.area.AutoResizable() {
		return clamp(i.area.Height(), 1, maxRows)
	}
	return defaultRows
}

// =============================================================================
// FOCUS, SIZE, RELOAD
// =============================================================================

// Focus begins editing.
func (i *Input) Focus() tea.Cmd {
	i.focused = true
	i.ctl.Focus()
	return i.flush()
}

// Blur ends editing. A composition in progress is committed as typed.
func (i *Input) Blur() tea.Cmd {
	i.focused = false
	i.ime = false
	i.ctl.Blur()
	return i.flush()
}

// SetWidth sets the rendered width including the border.
func (i *Input) SetWidth(w int) tea.Cmd {
	i.width = w
	inner := innerWidth(w)
	i.viewport.Width = inner
	if i.area != nil {
		i.area.SetWidth(inner)
	} else {
		i.ctl.SetWidth(inner)
	}
	i.viewport.Height = i.rows()
	return i.flush()
}

// Apply installs the constraint of conf. The new budget and format take
// effect on the next edit.
func (i *Input) Apply(conf config.InputConfig) error {
	if conf.Multiline != i.conf.Multiline {
		return ErrMultilineChanged
	}
	p, err := conf.Compile()
	if err != nil {
		return err
	}
	if err := i.guarded.SetMaxLength(conf.MaxLengthBudget()); err != nil {
		return err
	}
	i.guarded.SetFormat(p)
	i.guarded.SetReactToProgrammaticChanges(conf.React())
	if i.area != nil {
		i.area.SetAutoResizable(conf.AutoResizable)
		i.viewport.Height = i.rows()
	}
	conf.Initial = i.conf.Initial
	i.conf = conf
	return nil
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles terminal input.
func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if i.focused {
			i.handleKey(msg)
		}
	case tea.MouseMsg:
		if i.focused && i.area != nil {
			switch msg.Type {
			case tea.MouseWheelUp:
				i.scrollBy(-1)
			case tea.MouseWheelDown:
				i.scrollBy(1)
			}
		}
	}
	return i, i.flush()
}

func (i *Input) handleKey(msg tea.KeyMsg) {
	// Runes read together, a paste included, form one proposal. They are
	// matched before any binding so a chunk like "end" stays text.
	if msg.Type == tea.KeyRunes {
		if i.ime {
			i.handleCompose(msg)
		} else {
			i.ctl.Insert(string(msg.Runes))
		}
		return
	}

	if key.Matches(msg, i.keys.Compose) {
		i.ime = !i.ime
		if !i.ime {
			i.ctl.CommitComposition("")
		}
		return
	}
	if i.ime && i.handleCompose(msg) {
		return
	}

	switch {
	case key.Matches(msg, i.keys.Left):
		i.ctl.MoveCursor(-1)
	case key.Matches(msg, i.keys.Right):
		i.ctl.MoveCursor(1)
	case key.Matches(msg, i.keys.Home):
		i.ctl.Select(util.Range{})
	case key.Matches(msg, i.keys.End):
		i.ctl.Select(util.Range{Location: i.ctl.Len()})
	case key.Matches(msg, i.keys.Backspace):
		i.ctl.DeleteBackward()
	case key.Matches(msg, i.keys.Delete):
		i.ctl.DeleteForward()
	case key.Matches(msg, i.keys.Clear):
		i.ctl.Replace(util.Range{Length: i.ctl.Len()}, "")
	case key.Matches(msg, i.keys.Newline):
		if i.area != nil {
			i.ctl.Insert("\n")
		} else {
			i.pending = append(i.pending, SubmitMsg{ID: i.ctl.ID(), Name: i.conf.Name})
		}
	case key.Matches(msg, i.keys.ScrollUp):
		i.scrollBy(-i.rows())
	case key.Matches(msg, i.keys.ScrollDown):
		i.scrollBy(i.rows())
	case msg.Type == tea.KeySpace:
		i.ctl.Insert(" ")
	}
}

// handleCompose drives the simulated input method. It reports whether the
// key was consumed.
func (i *Input) handleCompose(msg tea.KeyMsg) bool {
	marked := i.markedText()
	composing := i.ctl.Composing()

	switch {
	case msg.Type == tea.KeyRunes:
		i.ctl.SetMarkedText(marked + string(msg.Runes))
		return true
	case !composing:
		return false
	case key.Matches(msg, i.keys.Backspace):
		g := util.Graphemes(marked)
		if len(g) <= 1 {
			// Dropping the last cluster ends the composition.
			i.ctl.CancelComposition()
			return true
		}
		i.ctl.SetMarkedText(strings.Join(g[:len(g)-1], ""))
		return true
	case key.Matches(msg, i.keys.Newline), msg.Type == tea.KeySpace:
		i.ctl.CommitComposition(Candidate(marked))
		return true
	case key.Matches(msg, i.keys.Cancel):
		i.ctl.CancelComposition()
		return true
	}
	return false
}

func (i *Input) markedText() string {
	r, ok := i.ctl.MarkedRange()
	if !ok {
		return ""
	}
	return util.SliceGraphemes(i.ctl.Text(), r.Location, r.End())
}

// scrollBy moves the first visible row, clamped to the content.
func (i *Input) scrollBy(delta int) {
	if i.area == nil {
		return
	}
	limit := i.area.Control().ContentHeight() - i.rows()
	if limit < 0 {
		limit = 0
	}
	i.ctl.ScrollTo(clamp(i.ctl.ScrollOffset()+delta, 0, limit))
}

// flush turns the events collected during an edit into commands.
func (i *Input) flush() tea.Cmd {
	if len(i.pending) == 0 {
		return nil
	}
	msgs := i.pending
	i.pending = nil

	cmds := make([]tea.Cmd, 0, len(msgs))
	for _, m := range msgs {
		m := m
		cmds = append(cmds, func() tea.Msg { return m })
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the label, the bordered text and the counter.
func (i *Input) View() string {
	label := i.conf.DisplayLabel()
	labelStyle := i.theme.Label
	if i.focused {
		labelStyle = i.theme.LabelFocused
	}
	if i.ime {
		label += " [IME]"
	}

	body := i.renderText()
	if i.area != nil {
		i.viewport.SetContent(body)
		i.viewport.SetYOffset(i.ctl.ScrollOffset())
		body = i.viewport.View()
	}

	box := i.theme.InputBox
	if i.focused {
		box = i.theme.InputBoxFocused
	}
	boxView := box.Width(i.width - 2).Render(body)

	counter := lipgloss.NewStyle().
		Width(i.width - 2).
		Align(lipgloss.Right).
		Render(i.renderCounter())

	return lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(label), boxView, counter)
}

// renderCounter renders "count / max" colored by how full the input is.
func (i *Input) renderCounter() string {
	n := i.guarded.Len()
	limit := i.guarded.MaxLength()
	var text string
	if limit == guard.Unlimited {
		limit = 0
		text = fmtNumber(n) + " chars"
	} else {
		text = fmtNumber(n) + " / " + fmtNumber(limit)
	}
	if i.area != nil {
		text += " | " + util.IntToString(i.ctl.ContentHeight()) + " lines"
	}
	return i.theme.CharCountStyle(n, limit).Render(text)
}

// renderText renders the text with the caret, the selection and the
// underlined composition. Areas are wrapped at the control width.
func (i *Input) renderText() string {
	text := i.ctl.Text()
	if text == "" && !i.ctl.Composing() {
		placeholder := i.theme.InputPlaceholder.Render(i.conf.Placeholder)
		if i.focused {
			return i.theme.Cursor.Render(" ") + placeholder
		}
		return placeholder
	}

	sel := i.ctl.Selection()
	marked, composing := i.ctl.MarkedRange()
	width := i.ctl.Width()

	var b strings.Builder
	col := 0
	graphemes := util.Graphemes(text)
	for idx, g := range graphemes {
		caret := i.focused && sel.IsEmpty() && idx == sel.Location
		if g == "\n" {
			if caret {
				b.WriteString(i.theme.Cursor.Render(" "))
			}
			b.WriteString("\n")
			col = 0
			continue
		}

		w := util.StringWidth(g)
		if i.area != nil && width > 0 && col > 0 && col+w > width {
			b.WriteString("\n")
			col = 0
		}
		col += w

		switch {
		case caret:
			b.WriteString(i.theme.Cursor.Render(g))
		case i.focused && !sel.IsEmpty() && idx >= sel.Location && idx < sel.End():
			b.WriteString(i.theme.Cursor.Render(g))
		case composing && idx >= marked.Location && idx < marked.End():
			b.WriteString(i.theme.Marked.Render(g))
		default:
			b.WriteString(i.theme.InputText.Render(g))
		}
	}
	if i.focused && sel.IsEmpty() && sel.Location >= len(graphemes) {
		b.WriteString(i.theme.Cursor.Render(" "))
	}
	return b.String()
}
