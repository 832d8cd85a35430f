package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/GPUOpen-Tools/update-check-api/internal/worker"
)

type checkKeyMap struct {
	Cancel key.Binding
	Retry  key.Binding
	Quit   key.Binding
}

// ShortHelp implements help.KeyMap
func (k checkKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Cancel, k.Retry, k.Quit}
}

// FullHelp implements help.KeyMap
func (k checkKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newCheckKeyMap() checkKeyMap {
	return checkKeyMap{
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "cancel check"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
			key.WithDisabled(),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "enter"),
			key.WithHelp("q", "quit"),
			key.WithDisabled(),
		),
	}
}

type checkState int

const (
	stateChecking checkState = iota
	stateFailed
	stateDone
)

type checkStartedMsg struct{ events <-chan worker.Event }

type checkStartErrMsg struct{ err error }

type checkEventMsg worker.Event

// CheckModel is the bubbletea model behind `check --interactive`. It runs
// one worker, shows a spinner while the check is in flight and lets the
// user cancel it or retry a failed one.
type CheckModel struct {
	ctx      context.Context
	worker   *worker.Worker
	location string

	keys    checkKeyMap
	help    help.Model
	spinner spinner.Model
	state   checkState
	last    worker.Event
	err     error
	colors  *ColorConfig
}

// NewCheckModel returns a model for w checking location.
func NewCheckModel(ctx context.Context, w *worker.Worker, location string) *CheckModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &CheckModel{
		ctx:      ctx,
		worker:   w,
		location: location,
		keys:     newCheckKeyMap(),
		help:     help.New(),
		spinner:  s,
		colors:   NewColorConfigFromGlobal(),
	}
}

// Init implements tea.Model
func (m *CheckModel) Init() tea.Cmd {
	// Style set here to avoid a terminal query before the program owns the screen
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return tea.Batch(m.spinner.Tick, m.startCmd())
}

func (m *CheckModel) startCmd() tea.Cmd {
	return func() tea.Msg {
		events, err := m.worker.Start(m.ctx)
		if err != nil {
			return checkStartErrMsg{err: err}
		}
		return checkStartedMsg{events: events}
	}
}

func waitForEvent(events <-chan worker.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return checkEventMsg{Kind: worker.Cancelled}
		}
		return checkEventMsg(ev)
	}
}

// Update implements tea.Model
func (m *CheckModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case checkStartedMsg:
		return m, waitForEvent(msg.events)

	case checkStartErrMsg:
		m.err = msg.err
		m.state = stateDone
		return m, tea.Quit

	case checkEventMsg:
		m.last = worker.Event(msg)
		if m.last.Kind == worker.Cancelled || m.last.Results.Successful {
			m.state = stateDone
			return m, tea.Quit
		}
		m.state = stateFailed
		m.keys.Retry.SetEnabled(true)
		m.keys.Quit.SetEnabled(true)
		return m, nil

	case spinner.TickMsg:
		if m.state != stateChecking {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *CheckModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.state == stateChecking {
			// The worker reports Cancelled once the download stops.
			m.worker.Cancel()
			return m, nil
		}
		m.state = stateDone
		return m, tea.Quit

	case key.Matches(msg, m.keys.Retry):
		m.state = stateChecking
		m.keys.Retry.SetEnabled(false)
		m.keys.Quit.SetEnabled(false)
		return m, tea.Batch(m.spinner.Tick, m.startCmd())

	case key.Matches(msg, m.keys.Quit):
		m.state = stateDone
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model
func (m *CheckModel) View() string {
	var b strings.Builder
	switch m.state {
	case stateChecking:
		fmt.Fprintf(&b, "%s Checking %s for updates...\n", m.spinner.View(), m.colors.Link(m.location))
	case stateFailed:
		b.WriteString(ErrorFor(m.last.Results.Err).Format(m.colors))
	case stateDone:
		return ""
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Outcome returns the last worker event and any error starting the worker.
func (m *CheckModel) Outcome() (worker.Event, error) {
	return m.last, m.err
}

// RunCheckTUI runs the interactive check until it completes, is cancelled
// or the user quits after a failure.
func RunCheckTUI(ctx context.Context, w *worker.Worker, location string) (worker.Event, error) {
	InitTerminal()
	m := NewCheckModel(ctx, w, location)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	_, err := p.Run()
	ResetTerminalAfterTUI()

	// The program may stop on ctx before the worker's event arrives.
	w.Cancel()
	if err != nil && ctx.Err() != nil {
		return worker.Event{Kind: worker.Cancelled}, nil
	}
	if err != nil {
		return worker.Event{}, err
	}
	return m.Outcome()
}
