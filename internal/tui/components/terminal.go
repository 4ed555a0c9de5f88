package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultScrollback is the number of entries a Terminal keeps
const DefaultScrollback = 2000

// Terminal is a scrolling log of console entries. TX entries are updated in
// place when their command completes.
type Terminal struct {
	viewport   viewport.Model
	formatter  *EntryFormatter
	entries    []Entry
	scrollback int
	follow     bool
}

func NewTerminal(width, height int) *Terminal {
	return &Terminal{
		viewport:   viewport.New(width, height),
		formatter:  NewEntryFormatter(),
		scrollback: DefaultScrollback,
		follow:     true,
	}
}

func (t *Terminal) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

func (t *Terminal) Add(e Entry) {
	t.entries = append(t.entries, e)
	if over := len(t.entries) - t.scrollback; over > 0 {
		t.entries = append(t.entries[:0], t.entries[over:]...)
	}
	t.refresh()
}

// Resolve sets the outcome of the TX entry with the given id. It reports
// false when the entry has already scrolled out.
func (t *Terminal) Resolve(id int, status CommandStatus, detail string) bool {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].ID == id && t.entries[i].Kind == EntryTX {
			t.entries[i].Status = status
			t.entries[i].Detail = detail
			t.refresh()
			return true
		}
	}
	return false
}

func (t *Terminal) Entries() []Entry {
	return t.entries
}

func (t *Terminal) Clear() {
	t.entries = t.entries[:0]
	t.viewport.SetContent("")
}

func (t *Terminal) ToggleTimestamps() {
	t.formatter.ShowTimestamps = !t.formatter.ShowTimestamps
	t.refresh()
}

func (t *Terminal) ScrollUp() {
	t.follow = false
	t.viewport.LineUp(1)
}

func (t *Terminal) ScrollDown() {
	t.viewport.LineDown(1)
	t.follow = t.viewport.AtBottom()
}

func (t *Terminal) GotoTop() {
	t.follow = false
	t.viewport.GotoTop()
}

// GotoBottom scrolls to the newest entry and follows new output again
func (t *Terminal) GotoBottom() {
	t.follow = true
	t.viewport.GotoBottom()
}

func (t *Terminal) refresh() {
	t.viewport.SetContent(strings.Join(t.formatter.FormatEntries(t.entries), "\n"))
	if t.follow {
		t.viewport.GotoBottom()
	}
}

func (t *Terminal) Update(msg tea.Msg) tea.Cmd {
	// Key messages stay with the console so the viewport does not consume bindings
	if _, ok := msg.(tea.WindowSizeMsg); ok {
		var cmd tea.Cmd
		t.viewport, cmd = t.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (t *Terminal) View() string {
	return t.viewport.View()
}
