package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/go-printlink/internal/tui/colors"
)

// Input is a single-line G-code prompt with command history
type Input struct {
	textInput    textinput.Model
	history      []string
	historyIndex int
	currentInput string // input saved while browsing history
}

func NewInput(placeholder string) *Input {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Prompt = ""
	ti.Focus()

	return &Input{
		textInput:    ti,
		historyIndex: -1,
	}
}

func (i *Input) SetWidth(width int) {
	// border(2) + padding(2) + prompt(1) + space(1)
	i.textInput.Width = max(width-6, 20)
}

func (i *Input) Focus() { i.textInput.Focus() }
func (i *Input) Blur()  { i.textInput.Blur() }

func (i *Input) Value() string {
	return i.textInput.Value()
}

func (i *Input) SetValue(value string) {
	i.textInput.SetValue(value)
}

// Submit returns the trimmed input, records it in history and clears the
// prompt. Blank input returns "".
func (i *Input) Submit() string {
	value := strings.TrimSpace(i.textInput.Value())
	i.textInput.SetValue("")
	i.historyIndex = -1
	i.currentInput = ""
	if value == "" {
		return ""
	}
	if n := len(i.history); n == 0 || i.history[n-1] != value {
		i.history = append(i.history, value)
	}
	return value
}

func (i *Input) HistoryUp() {
	if len(i.history) == 0 {
		return
	}
	if i.historyIndex == -1 {
		i.currentInput = i.textInput.Value()
		i.historyIndex = len(i.history) - 1
	} else if i.historyIndex > 0 {
		i.historyIndex--
	}
	i.textInput.SetValue(i.history[i.historyIndex])
	i.textInput.CursorEnd()
}

func (i *Input) HistoryDown() {
	if i.historyIndex == -1 {
		return
	}
	if i.historyIndex < len(i.history)-1 {
		i.historyIndex++
		i.textInput.SetValue(i.history[i.historyIndex])
	} else {
		i.historyIndex = -1
		i.textInput.SetValue(i.currentInput)
	}
	i.textInput.CursorEnd()
}

func (i *Input) History() []string {
	return i.history
}

func (i *Input) Update(msg tea.Msg) (*Input, tea.Cmd) {
	var cmd tea.Cmd
	i.textInput, cmd = i.textInput.Update(msg)
	return i, cmd
}

func (i *Input) ViewWithMode(isInsertMode bool) string {
	prompt := lipgloss.NewStyle().Foreground(colors.Green).Bold(true).Render(">")
	if isInsertMode {
		return lipgloss.JoinHorizontal(lipgloss.Left, prompt, " ", i.textInput.View())
	}
	instruction := lipgloss.NewStyle().
		Foreground(colors.Overlay0).
		Render("Press 'i' to type a command")
	return lipgloss.JoinHorizontal(lipgloss.Left, prompt, " ", instruction)
}
