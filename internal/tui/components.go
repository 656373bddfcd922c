package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderHeader returns a consistently styled header with an optional muted subtitle.
// Width is used to guide truncation via helpers.
func renderHeader(theme Theme, title, subtitle string, width int) string {
	title = truncateEnd(title, width-2)
	subtitle = truncateEnd(subtitle, width-2)
	rows := []string{theme.Header.Render(title)}
	if subtitle != "" {
		rows = append(rows, theme.Muted.Render(subtitle))
	}
	return lipgloss.JoinVertical(lipgloss.Top, rows...)
}

// renderInputFrame draws a rounded bordered container around a rendered input view.
func renderInputFrame(theme Theme, inputView string, focused bool, contentWidth int) string {
	style := theme.InputFrame
	if focused {
		style = style.BorderForeground(lipgloss.Color(theme.Palette.Primary))
	}
	return style.Width(contentWidth + 4).Render(inputView)
}

// renderCentered centers the provided content within the given width/height box.
func renderCentered(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
