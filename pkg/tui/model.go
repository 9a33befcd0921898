// Package tui is the interactive gbp-pulse session.
//
// The bubbletea loop owns the session state. Gateway calls run as commands
// off the loop and come back as typed messages that carry the target they
// were issued for (tool, token, generation, wizard), so a late answer never
// lands on the wrong screen.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/helmcode/gbp-pulse/pkg/assistant"
	"github.com/helmcode/gbp-pulse/pkg/claim"
	"github.com/helmcode/gbp-pulse/pkg/diagnosis"
	"github.com/helmcode/gbp-pulse/pkg/gateway"
	"github.com/helmcode/gbp-pulse/pkg/model"
	"github.com/helmcode/gbp-pulse/pkg/plan"
	"github.com/helmcode/gbp-pulse/pkg/session"
	"github.com/helmcode/gbp-pulse/pkg/wizard"
)

// Options wires a Model to the core packages.
type Options struct {
	State     *session.State
	Gateway   gateway.Gateway
	Submitter wizard.Submitter
	// Copy writes text to the system clipboard.
	Copy    func(text string) error
	Timeout time.Duration
	Logger  *zap.Logger
}

type Model struct {
	state     *session.State
	gw        gateway.Gateway
	pipeline  *diagnosis.Pipeline
	guides    *plan.Guides
	chat      *assistant.Conversation
	submitter wizard.Submitter
	copy      func(string) error
	timeout   time.Duration
	logger    *zap.Logger
	ctx       context.Context

	input    textinput.Model
	vp       viewport.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer
	width    int
	height   int

	notice string
	isErr  bool

	diag       diagnosis.Input
	diagnosing bool
	diagToken  uint64

	guide        *model.StepGuide
	guideStep    string
	guideLoading bool

	scenario *claim.Guide
	showChat bool
}

func New(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	submitter := opts.Submitter
	if submitter == nil {
		submitter = wizard.SimulatedSubmitter{Delay: 2 * time.Second}
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = func(string) error { return nil }
	}

	ti := textinput.New()
	ti.Placeholder = "Type /help for commands"
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		logger.Warn("markdown rendering disabled", zap.Error(err))
	}

	m := Model{
		state:     opts.State,
		gw:        opts.Gateway,
		pipeline:  diagnosis.New(opts.Gateway, logger),
		guides:    plan.NewGuides(opts.Gateway, logger),
		chat:      assistant.New(logger),
		submitter: submitter,
		copy:      copyFn,
		timeout:   timeout,
		logger:    logger.Named("tui"),
		ctx:       ctx,
		input:     ti,
		vp:        viewport.New(80, 20),
		spin:      sp,
		renderer:  renderer,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Run starts the interactive session and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "pgup":
			m.vp.HalfViewUp()
			return m, nil
		case "pgdown":
			m.vp.HalfViewDown()
			return m, nil
		case "enter":
			line := m.input.Value()
			m.input.Reset()
			next, cmd := m.exec(line)
			if cmd == nil {
				return next, nil
			}
			return next, tea.Batch(cmd, next.spin.Tick)
		}

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		m.refresh()
		return m, cmd

	case diagnosisMsg, contentMsg, auditMsg, submitMsg, guideMsg, chatMsg:
		m = m.resolve(msg)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// busy reports whether any component is waiting on the gateway.
func (m Model) busy() bool {
	if m.diagnosing || m.guideLoading || m.chat.Thinking() {
		return true
	}
	st := m.state.Studio()
	for _, t := range model.Tools() {
		if st.InFlight(t) {
			return true
		}
	}
	switch m.state.Wizard().Phase() {
	case wizard.PhaseValidating, wizard.PhaseSubmitting:
		return true
	}
	return false
}

func (m *Model) resize() {
	w := m.width
	if w < 20 {
		w = 20
	}
	h := m.height - 7
	if h < 3 {
		h = 3
	}
	m.vp.Width = w
	m.vp.Height = h
	m.input.Width = w - 4
}

func (m *Model) say(format string, args ...any) {
	m.notice = fmt.Sprintf(format, args...)
	m.isErr = false
}

func (m *Model) fail(format string, args ...any) {
	m.notice = fmt.Sprintf(format, args...)
	m.isErr = true
}

// call bounds one gateway call by the configured timeout.
func (m Model) call() (context.Context, context.CancelFunc) {
	return context.WithTimeout(m.ctx, m.timeout)
}
