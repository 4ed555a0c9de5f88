package components

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	printlink "github.com/allbin/go-printlink"
	"github.com/allbin/go-printlink/internal/tui/colors"
	"github.com/allbin/go-printlink/internal/tui/styles"
)

// EntryKind tells what produced a console entry
type EntryKind int

const (
	EntryTX    EntryKind = iota // command sent to the printer
	EntryRX                     // line received from the printer
	EntryEvent                  // session event such as a state change
)

// CommandStatus is the outcome of a sent command
type CommandStatus int

const (
	StatusPending CommandStatus = iota
	StatusOK
	StatusTimeout
	StatusFault
	StatusFailed
)

func (s CommandStatus) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusOK:
		return "OK"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusFault:
		return "FAULT"
	default:
		return "ERROR"
	}
}

// StatusFromError maps a SendCommand result to a CommandStatus
func StatusFromError(err error) CommandStatus {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, printlink.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	case errors.Is(err, printlink.ErrDeviceFault):
		return StatusFault
	default:
		return StatusFailed
	}
}

// Entry is one line of the console log
type Entry struct {
	ID        int
	Timestamp time.Time
	Kind      EntryKind
	Text      string
	Status    CommandStatus // TX only
	Detail    string        // error text or elapsed time, TX only
}

// EntryFormatter renders entries for the terminal view
type EntryFormatter struct {
	ShowTimestamps bool
}

func NewEntryFormatter() *EntryFormatter {
	return &EntryFormatter{ShowTimestamps: true}
}

func (f *EntryFormatter) FormatEntry(e Entry) string {
	var indicator string
	text := sanitize(e.Text)

	switch e.Kind {
	case EntryTX:
		indicator = lipgloss.NewStyle().
			Foreground(txColor(e.Status)).
			Bold(true).
			Render("↗ TX " + txGlyph(e.Status))
	case EntryRX:
		indicator = styles.RXStyle.Render("↙ RX")
	default:
		indicator = styles.EventStyle.Render("• ")
		text = styles.EventStyle.Render(text)
	}

	line := indicator + " " + text
	if e.Kind == EntryTX && e.Detail != "" {
		line += lipgloss.NewStyle().Foreground(colors.Overlay0).Render("  " + e.Detail)
	}

	if !f.ShowTimestamps {
		return line
	}
	ts := styles.TimestampStyle.Render(fmt.Sprintf("[%s]", e.Timestamp.Format("15:04:05.000")))
	return ts + " " + line
}

func (f *EntryFormatter) FormatEntries(entries []Entry) []string {
	formatted := make([]string, len(entries))
	for i, e := range entries {
		formatted[i] = f.FormatEntry(e)
	}
	return formatted
}

func txColor(s CommandStatus) lipgloss.Color {
	switch s {
	case StatusPending:
		return colors.Yellow
	case StatusOK:
		return colors.Green
	case StatusTimeout:
		return colors.Peach
	default:
		return colors.Red
	}
}

func txGlyph(s CommandStatus) string {
	switch s {
	case StatusPending:
		return "○"
	case StatusOK:
		return "✓"
	case StatusTimeout:
		return "⧗"
	default:
		return "✗"
	}
}

// sanitize drops the line terminator and control characters that would
// corrupt the terminal
func sanitize(s string) string {
	s = strings.TrimRight(s, "\r\n")
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return '·'
		}
		return r
	}, s)
}
