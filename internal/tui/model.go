// Package tui is the full-screen interactive front end. It confines a
// session.Machine to the bubbletea event loop: key presses become machine
// events, backend calls run as commands, and their replies come back as
// messages carrying the ticket they were issued under.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/askql/internal/api"
	"github.com/leapstack-labs/askql/internal/session"
)

// generatedMsg carries the reply to a generation request.
type generatedMsg struct {
	ticket session.Ticket
	gen    api.Generation
	err    error
}

// executedMsg carries the reply to an execution request.
type executedMsg struct {
	ticket session.Ticket
	exec   api.Execution
	err    error
}

const (
	defaultWidth  = 80
	defaultHeight = 24
	minResults    = 3
)

// Model is the bubbletea model for askql.
type Model struct {
	ctx     context.Context
	backend session.Backend
	logger  *slog.Logger
	machine *session.Machine
	title   string

	input   textinput.Model
	spinner spinner.Model
	results viewport.Model
	styles  styles

	width  int
	height int
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the model's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTitle sets the header line, typically naming the backend.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// New returns a Model in the Idle state. ctx bounds every backend call.
func New(ctx context.Context, backend session.Backend, opts ...Option) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about your data..."
	ti.CharLimit = 1000
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:     ctx,
		backend: backend,
		logger:  slog.New(slog.DiscardHandler),
		machine: session.NewMachine(),
		title:   "askql",
		input:   ti,
		spinner: sp,
		results: viewport.New(defaultWidth, defaultHeight),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.styles = newStyles()
	for _, opt := range opts {
		opt(&m)
	}
	m.spinner.Style = m.styles.spinner
	m.layout()
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		// Ticking stops on its own once nothing is in flight.
		if !m.machine.View().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generatedMsg:
		if !m.machine.Generated(msg.ticket, msg.gen, msg.err) {
			m.discarded("generation", msg.ticket)
			return m, nil
		}
		m.layout()
		return m, nil

	case executedMsg:
		if !m.machine.Executed(msg.ticket, msg.exec, msg.err) {
			m.discarded("execution", msg.ticket)
			return m, nil
		}
		m.layout()
		// A new result starts at its first row.
		m.results.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		return m.submit()

	case tea.KeyCtrlR:
		return m.run()

	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.machine.View().SubmitEnabled {
		return m, nil
	}
	ticket, ok := m.machine.Submit(m.input.Value())
	if !ok {
		return m, nil
	}
	question := m.machine.View().Question
	m.logger.Debug("submitting question", slog.Uint64("ticket", uint64(ticket)))
	m.layout()
	return m, tea.Batch(m.generate(ticket, question), m.spinner.Tick)
}

func (m Model) run() (tea.Model, tea.Cmd) {
	ticket, query, ok := m.machine.Run()
	if !ok {
		return m, nil
	}
	m.logger.Debug("running query", slog.Uint64("ticket", uint64(ticket)))
	m.layout()
	return m, tea.Batch(m.execute(ticket, query), m.spinner.Tick)
}

func (m Model) generate(ticket session.Ticket, question string) tea.Cmd {
	ctx, backend, logger := m.ctx, m.backend, m.logger
	return func() tea.Msg {
		gen, err := session.SafeGenerate(ctx, backend, logger, question)
		return generatedMsg{ticket: ticket, gen: gen, err: err}
	}
}

func (m Model) execute(ticket session.Ticket, query string) tea.Cmd {
	ctx, backend, logger := m.ctx, m.backend, m.logger
	return func() tea.Msg {
		exec, err := session.SafeExecute(ctx, backend, logger, query)
		return executedMsg{ticket: ticket, exec: exec, err: err}
	}
}

func (m Model) discarded(kind string, ticket session.Ticket) {
	m.logger.Debug("discarding superseded response",
		slog.String("kind", kind),
		slog.Uint64("ticket", uint64(ticket)),
		slog.Uint64("current", uint64(m.machine.Current())))
}

// layout sizes the results viewport to the space left under the header and
// refreshes its content from the current view.
func (m *Model) layout() {
	v := m.machine.View()
	used := lipgloss.Height(m.header(v)) + lipgloss.Height(m.footer(v))
	m.results.Width = m.width
	m.results.Height = max(m.height-used, minResults)
	m.results.SetContent(m.resultsContent(v))
}
