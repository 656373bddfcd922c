package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxTermLength matches the backend's limit on the tags parameter.
const maxTermLength = 100

// termSubmittedMsg carries a committed search term up to the App.
type termSubmittedMsg struct {
	term string
}

// themeToggledMsg carries the newly selected mode up to the App.
type themeToggledMsg struct {
	mode Mode
}

// header is the search bar. Its buffer is local: typing never changes the
// active term until the buffer is submitted.
type header struct {
	input textinput.Model
	mode  Mode
}

func newHeader(mode Mode) header {
	ti := textinput.New()
	ti.Placeholder = "Search news by topic..."
	ti.Prompt = "› "
	ti.CharLimit = maxTermLength * 2
	return header{input: ti, mode: mode}
}

// sanitizeTerm collapses whitespace runs, trims and caps the term.
func sanitizeTerm(s string) string {
	s = collapseSpace(s)
	r := []rune(s)
	if len(r) > maxTermLength {
		s = strings.TrimSpace(string(r[:maxTermLength]))
	}
	return s
}

// focus opens the buffer, seeded with the current term.
func (h *header) focus(term string) tea.Cmd {
	h.input.SetValue(term)
	h.input.CursorEnd()
	return h.input.Focus()
}

func (h *header) blur() {
	h.input.Blur()
}

func (h *header) focused() bool {
	return h.input.Focused()
}

// submit commits the buffer. Blank input is dropped without feedback.
func (h *header) submit() tea.Cmd {
	term := sanitizeTerm(h.input.Value())
	if term == "" {
		return nil
	}
	h.input.Blur()
	return func() tea.Msg { return termSubmittedMsg{term: term} }
}

func (h *header) toggleTheme() tea.Cmd {
	h.mode = h.mode.Toggle()
	mode := h.mode
	return func() tea.Msg { return themeToggledMsg{mode: mode} }
}

func (h *header) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.input, cmd = h.input.Update(msg)
	return cmd
}

func (h *header) setWidth(width int) {
	w := width - 24
	if w < 10 {
		w = 10
	}
	h.input.Width = w
}

// view draws the brand, the input or active term, and the mode indicator.
func (h *header) view(theme Theme, width int, term string) string {
	brand := theme.Brand.Render("brief ›")

	indicator := "☀ light"
	if h.mode == ModeDark {
		indicator = "☾ dark"
	}
	indicator = theme.Muted.Render(indicator)

	inner := width - lipgloss.Width(brand) - lipgloss.Width(indicator) - 8
	if inner < 10 {
		inner = 10
	}

	var body string
	if h.focused() {
		body = h.input.View()
	} else if term != "" {
		body = theme.CardTitle.Render(truncateEnd(term, inner))
	} else {
		body = theme.Muted.Render(h.input.Placeholder)
	}
	frame := renderInputFrame(theme, body, h.focused(), inner)

	return lipgloss.JoinHorizontal(lipgloss.Center, brand, " ", frame, " ", indicator)
}
