package tui

import "github.com/charmbracelet/lipgloss"

// StatusKind indicates severity for status messages.
type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusSuccess
	StatusWarn
	StatusError
)

func (k StatusKind) style(theme Theme) lipgloss.Style {
	switch k {
	case StatusSuccess:
		return theme.Success
	case StatusWarn:
		return theme.Warn
	case StatusError:
		return theme.Error
	default:
		return theme.Muted
	}
}
