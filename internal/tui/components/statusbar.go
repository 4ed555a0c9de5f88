package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	printlink "github.com/allbin/go-printlink"
	"github.com/allbin/go-printlink/internal/tui/colors"
	"github.com/allbin/go-printlink/internal/tui/styles"
)

// StatusBar shows the session state and command counters in a single line
type StatusBar struct {
	portPath string
	baudRate int
	state    printlink.State
	err      error
	width    int

	sent     uint64
	acked    uint64
	timeouts uint64
}

func NewStatusBar(portPath string, baudRate int) *StatusBar {
	return &StatusBar{
		portPath: portPath,
		baudRate: baudRate,
		state:    printlink.StateDisconnected,
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetState(state printlink.State) {
	sb.state = state
	if state == printlink.StateReady {
		sb.err = nil
	}
}

func (sb *StatusBar) SetError(err error) {
	sb.err = err
}

func (sb *StatusBar) State() printlink.State {
	return sb.state
}

// SetCounters copies the command counters from session metrics
func (sb *StatusBar) SetCounters(m *printlink.SessionMetrics) {
	if m == nil {
		return
	}
	sb.sent = m.CommandSendCount.Load()
	sb.acked = m.CommandAckCount.Load()
	sb.timeouts = m.CommandTimeoutCount.Load()
}

func (sb *StatusBar) View(inputMode string, timestamp string) string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	modeBg := colors.Blue
	if inputMode == "INSERT" {
		modeBg = colors.Green
	}
	mode := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(modeBg).
		Bold(true).
		Padding(0, 1).
		Render(inputMode)

	port := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.portPath)

	state := lipgloss.NewStyle().
		Foreground(styles.StateColor(sb.state)).
		Padding(0, 1).
		Render(styles.StateIndicator(sb.state) + " " + sb.state.String())

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	left := lipgloss.JoinHorizontal(lipgloss.Left, mode, port, state, divider)
	if sb.err != nil {
		errText := lipgloss.NewStyle().Foreground(colors.Red).Render(truncate(sb.err.Error(), 48))
		left = lipgloss.JoinHorizontal(lipgloss.Left, left, errText)
	}

	info := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(fmt.Sprintf("⚡ %d baud  tx %d ok %d timeout %d", sb.baudRate, sb.sent, sb.acked, sb.timeouts))
	clock := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(timestamp)
	right := lipgloss.JoinHorizontal(lipgloss.Left, info, divider, clock)

	spacerWidth := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, left, spacer, right))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
