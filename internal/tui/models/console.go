// Package models holds the bubbletea models of the printlink console.
package models

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	printlink "github.com/allbin/go-printlink"
	"github.com/allbin/go-printlink/internal/gcode"
	"github.com/allbin/go-printlink/internal/tui/components"
	"github.com/allbin/go-printlink/internal/tui/keys"
	"github.com/allbin/go-printlink/internal/tui/styles"
)

// InputMode represents the current input mode (vim-like)
type InputMode int

const (
	InputModeNormal InputMode = iota
	InputModeInsert
)

func (m InputMode) String() string {
	if m == InputModeInsert {
		return "INSERT"
	}
	return "NORMAL"
}

// Commander sends one command and waits for its acknowledgment
type Commander interface {
	SendCommand(ctx context.Context, cmd string) error
}

// StateMsg reports a session state transition
type StateMsg struct {
	Prev, Next printlink.State
	Timestamp  time.Time
}

// LineMsg carries a line received from the printer
type LineMsg struct {
	Line      string
	Timestamp time.Time
}

// CommandResultMsg completes the TX entry with the given ID
type CommandResultMsg struct {
	ID      int
	Err     error
	Elapsed time.Duration
}

// ErrorMsg shows an error in the status bar
type ErrorMsg struct {
	Err error
}

type tickMsg time.Time

// ConsoleOption configures a ConsoleModel
type ConsoleOption func(*ConsoleModel)

// WithMetrics shows the session counters in the status bar
func WithMetrics(m *printlink.SessionMetrics) ConsoleOption {
	return func(c *ConsoleModel) { c.metrics = m }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) ConsoleOption {
	return func(c *ConsoleModel) { c.now = now }
}

// ConsoleModel is an interactive G-code console over a printer session
type ConsoleModel struct {
	ctx     context.Context
	session Commander
	metrics *printlink.SessionMetrics
	now     func() time.Time

	terminal  *components.Terminal
	statusBar *components.StatusBar
	input     *components.Input
	help      help.Model
	keys      keys.ConsoleKeys

	inputMode InputMode
	ready     bool
	nextID    int
}

func NewConsole(ctx context.Context, session Commander, portPath string, baudRate int, opts ...ConsoleOption) *ConsoleModel {
	m := &ConsoleModel{
		ctx:       ctx,
		session:   session,
		now:       time.Now,
		terminal:  components.NewTerminal(0, 0),
		statusBar: components.NewStatusBar(portPath, baudRate),
		input:     components.NewInput("G-code or shortcut, e.g. G28 or home"),
		help:      help.New(),
		keys:      keys.NewConsoleKeys(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *ConsoleModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Entries returns the console log
func (m *ConsoleModel) Entries() []components.Entry {
	return m.terminal.Entries()
}

// Mode returns the current input mode
func (m *ConsoleModel) Mode() InputMode {
	return m.inputMode
}

func (m *ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// input box (3 lines with border) and the status bar
		m.terminal.SetSize(msg.Width, max(msg.Height-4, 1))
		m.input.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.ready = true
		cmds = append(cmds, m.terminal.Update(msg))

	case tickMsg:
		m.statusBar.SetCounters(m.metrics)
		cmds = append(cmds, tick())

	case StateMsg:
		m.statusBar.SetState(msg.Next)
		if text := describeTransition(msg.Prev, msg.Next); text != "" {
			m.terminal.Add(components.Entry{
				Timestamp: msg.Timestamp,
				Kind:      components.EntryEvent,
				Text:      text,
			})
		}

	case LineMsg:
		m.terminal.Add(components.Entry{
			Timestamp: msg.Timestamp,
			Kind:      components.EntryRX,
			Text:      msg.Line,
		})

	case CommandResultMsg:
		status := components.StatusFromError(msg.Err)
		detail := msg.Elapsed.Round(time.Millisecond).String()
		if msg.Err != nil {
			detail = msg.Err.Error()
			m.statusBar.SetError(msg.Err)
		}
		m.terminal.Resolve(msg.ID, status, detail)
		m.statusBar.SetCounters(m.metrics)

	case ErrorMsg:
		m.statusBar.SetError(msg.Err)

	case tea.KeyMsg:
		if m.inputMode == InputModeInsert {
			switch {
			case key.Matches(msg, m.keys.Escape):
				m.inputMode = InputModeNormal
				m.input.Blur()
				return m, nil
			case key.Matches(msg, m.keys.Enter):
				if line := m.input.Submit(); line != "" {
					cmds = append(cmds, m.send(translate(line)))
				}
				return m, tea.Batch(cmds...)
			case key.Matches(msg, m.keys.HistoryUp):
				m.input.HistoryUp()
				return m, nil
			case key.Matches(msg, m.keys.HistoryDown):
				m.input.HistoryDown()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.InsertMode):
			m.inputMode = InputModeInsert
			m.input.Focus()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Clear):
			m.terminal.Clear()
		case key.Matches(msg, m.keys.ToggleTimestamps):
			m.terminal.ToggleTimestamps()
		case key.Matches(msg, m.keys.Up):
			m.terminal.ScrollUp()
		case key.Matches(msg, m.keys.Down):
			m.terminal.ScrollDown()
		case key.Matches(msg, m.keys.GotoTop):
			m.terminal.GotoTop()
		case key.Matches(msg, m.keys.GotoBottom):
			m.terminal.GotoBottom()
		case key.Matches(msg, m.keys.Home):
			cmds = append(cmds, m.send(gcode.AutoHome))
		case key.Matches(msg, m.keys.Level):
			cmds = append(cmds, m.send(gcode.AutoBedLeveling))
		case key.Matches(msg, m.keys.Temperature):
			cmds = append(cmds, m.send(gcode.ReportTemp))
		case key.Matches(msg, m.keys.Info):
			cmds = append(cmds, m.send(gcode.SystemInfo))
		}
	}

	return m, tea.Batch(cmds...)
}

// send logs a pending TX entry and returns a command that performs the
// exchange off the UI goroutine. The session serializes concurrent sends.
func (m *ConsoleModel) send(line string) tea.Cmd {
	m.nextID++
	id := m.nextID
	m.terminal.Add(components.Entry{
		ID:        id,
		Timestamp: m.now(),
		Kind:      components.EntryTX,
		Text:      line,
		Status:    components.StatusPending,
	})

	ctx, session, now := m.ctx, m.session, m.now
	return func() tea.Msg {
		start := now()
		err := session.SendCommand(ctx, line)
		return CommandResultMsg{ID: id, Err: err, Elapsed: now().Sub(start)}
	}
}

// translate expands shortcut names such as "home" to their G-code
func translate(line string) string {
	if c, ok := gcode.Lookup(line); ok {
		return c.Code
	}
	return line
}

// describeTransition returns the event text for a state change, or "" for
// the transitions every command makes
func describeTransition(prev, next printlink.State) string {
	switch next {
	case printlink.StatePrinting:
		return ""
	case printlink.StateReady:
		if prev == printlink.StateConnecting {
			return "printer connected"
		}
		return ""
	case printlink.StateConnecting:
		return "connecting to printer"
	case printlink.StateError:
		if prev == printlink.StateConnecting {
			return "connection failed, retrying"
		}
		return "printer connection lost"
	case printlink.StateDisconnected:
		return "session stopped"
	}
	return fmt.Sprintf("%s -> %s", prev, next)
}

func (m *ConsoleModel) View() string {
	content := "Initializing..."
	if m.ready {
		content = m.terminal.View()
	}

	input := m.input.ViewWithMode(m.inputMode == InputModeInsert)
	statusBar := m.statusBar.View(m.inputMode.String(), m.now().Format("15:04:05"))

	parts := []string{styles.ContentBorderStyle.Render(content), input, statusBar}
	if m.help.ShowAll {
		parts = append(parts, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
