package styles

import (
	"github.com/charmbracelet/lipgloss"

	printlink "github.com/allbin/go-printlink"
	"github.com/allbin/go-printlink/internal/tui/colors"
)

var (
	// Content area styles
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	// Input styles
	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(0, 1)

	TimestampStyle = lipgloss.NewStyle().Foreground(colors.Subtext0)
	EventStyle     = lipgloss.NewStyle().Foreground(colors.Mauve).Italic(true)
	RXStyle        = lipgloss.NewStyle().Foreground(colors.Sky).Bold(true)
	FaultLineStyle = lipgloss.NewStyle().Foreground(colors.Red)
)

// StateColor returns the color a session state is shown in
func StateColor(state printlink.State) lipgloss.Color {
	switch state {
	case printlink.StateReady:
		return colors.Green
	case printlink.StatePrinting:
		return colors.Teal
	case printlink.StateConnecting, printlink.StatePaused:
		return colors.Yellow
	default:
		return colors.Red
	}
}

// StateIndicator returns a one-character glyph for a session state
func StateIndicator(state printlink.State) string {
	style := lipgloss.NewStyle().Foreground(StateColor(state))
	switch state {
	case printlink.StateReady:
		return style.Render("●")
	case printlink.StatePrinting:
		return style.Render("◉")
	case printlink.StateError:
		return style.Render("✗")
	default:
		return style.Render("○")
	}
}
