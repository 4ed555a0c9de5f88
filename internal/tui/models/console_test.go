package models

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	printlink "github.com/allbin/go-printlink"
	"github.com/allbin/go-printlink/internal/tui/components"
)

type recordingSession struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *recordingSession) SendCommand(_ context.Context, cmd string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, cmd)
	return s.err
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestConsole(session Commander) *ConsoleModel {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewConsole(context.Background(), session, "/dev/ttyACM0", 115200,
		WithClock(func() time.Time { return fixed }))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

// apply feeds msg to the model and runs any returned command once,
// feeding its result back
func apply(m *ConsoleModel, msg tea.Msg) {
	_, cmd := m.Update(msg)
	if cmd == nil {
		return
	}
	out := cmd()
	if batch, ok := out.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if res, ok := c().(CommandResultMsg); ok {
				m.Update(res)
			}
		}
		return
	}
	if res, ok := out.(CommandResultMsg); ok {
		m.Update(res)
	}
}

func TestConsoleSendsTypedCommand(t *testing.T) {
	session := &recordingSession{}
	m := newTestConsole(session)

	apply(m, runes("i"))
	require.Equal(t, InputModeInsert, m.Mode())

	m.input.SetValue("home")
	apply(m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, []string{"G28"}, session.sent)
	entries := m.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, components.EntryTX, entries[0].Kind)
	require.Equal(t, "G28", entries[0].Text)
	require.Equal(t, components.StatusOK, entries[0].Status)
}

func TestConsoleShortcutKeys(t *testing.T) {
	session := &recordingSession{}
	m := newTestConsole(session)

	apply(m, runes("H"))
	apply(m, runes("T"))

	require.Equal(t, []string{"G28", "M105"}, session.sent)
}

func TestConsoleShortcutIgnoredInInsertMode(t *testing.T) {
	session := &recordingSession{}
	m := newTestConsole(session)

	apply(m, runes("i"))
	apply(m, runes("H"))

	require.Empty(t, session.sent)
	require.Equal(t, "H", m.input.Value())
}

func TestConsoleCommandTimeout(t *testing.T) {
	session := &recordingSession{err: &printlink.AdapterError{Op: "send", Kind: printlink.ErrTimeout}}
	m := newTestConsole(session)

	apply(m, runes("F"))

	entries := m.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, components.StatusTimeout, entries[0].Status)
	require.Contains(t, entries[0].Detail, "timed out")
}

func TestConsoleStateAndLines(t *testing.T) {
	m := newTestConsole(&recordingSession{})
	now := time.Now()

	m.Update(StateMsg{Prev: printlink.StateDisconnected, Next: printlink.StateConnecting, Timestamp: now})
	m.Update(StateMsg{Prev: printlink.StateConnecting, Next: printlink.StateReady, Timestamp: now})
	m.Update(StateMsg{Prev: printlink.StateReady, Next: printlink.StatePrinting, Timestamp: now})
	m.Update(LineMsg{Line: "T:21.3 /0.0 B:20.9 /0.0\n", Timestamp: now})
	m.Update(StateMsg{Prev: printlink.StatePrinting, Next: printlink.StateReady, Timestamp: now})

	entries := m.Entries()
	require.Len(t, entries, 3)
	require.Equal(t, "connecting to printer", entries[0].Text)
	require.Equal(t, "printer connected", entries[1].Text)
	require.Equal(t, components.EntryRX, entries[2].Kind)
	require.Equal(t, printlink.StateReady, m.statusBar.State())
}

func TestConsoleQuit(t *testing.T) {
	m := newTestConsole(&recordingSession{})

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}
