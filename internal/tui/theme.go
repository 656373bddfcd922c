package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/brief/internal/config"
)

// Mode is the process-wide presentation mode.
type Mode int

const (
	ModeLight Mode = iota
	ModeDark
)

func ParseMode(s string) Mode {
	if s == "dark" {
		return ModeDark
	}
	return ModeLight
}

func (m Mode) String() string {
	if m == ModeDark {
		return "dark"
	}
	return "light"
}

func (m Mode) Toggle() Mode {
	if m == ModeDark {
		return ModeLight
	}
	return ModeDark
}

// Theme bundles the styles for one mode. It is built once per toggle and
// handed to every renderer instead of living in package globals.
type Theme struct {
	Mode    Mode
	Palette config.UIColors

	Brand        lipgloss.Style
	Header       lipgloss.Style
	Muted        lipgloss.Style
	Help         lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	Warn         lipgloss.Style
	Card         lipgloss.Style
	SelectedCard lipgloss.Style
	CardTitle    lipgloss.Style
	CardSummary  lipgloss.Style
	Tag          lipgloss.Style
	Meta         lipgloss.Style
	Link         lipgloss.Style
	Skeleton     lipgloss.Style
	SkeletonBar  lipgloss.Style
	InputFrame   lipgloss.Style
	Separator    lipgloss.Style
}

func NewTheme(mode Mode, colors config.ThemeColors) Theme {
	p := colors.Light
	if mode == ModeDark {
		p = colors.Dark
	}

	primary := lipgloss.Color(p.Primary)
	secondary := lipgloss.Color(p.Secondary)
	accent := lipgloss.Color(p.Accent)
	surface := lipgloss.Color(p.Surface)
	text := lipgloss.Color(p.Text)
	muted := lipgloss.Color(p.Muted)
	border := lipgloss.Color(p.Border)

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	return Theme{
		Mode:    mode,
		Palette: p,

		Brand: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),
		Header: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Help: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Success)),
		Warn: lipgloss.NewStyle().
			Foreground(accent),
		Card: card,
		SelectedCard: card.
			BorderForeground(primary).
			Border(lipgloss.ThickBorder()),
		CardTitle: lipgloss.NewStyle().
			Foreground(text).
			Bold(true),
		CardSummary: lipgloss.NewStyle().
			Foreground(text),
		Tag: lipgloss.NewStyle().
			Foreground(secondary),
		Meta: lipgloss.NewStyle().
			Foreground(muted).
			Faint(true),
		Link: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Skeleton: card.
			BorderForeground(surface),
		SkeletonBar: lipgloss.NewStyle().
			Foreground(surface),
		InputFrame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		Separator: lipgloss.NewStyle().
			Foreground(border),
	}
}

// GlamourStyle names the glamour standard style matching the mode.
func (t Theme) GlamourStyle() string {
	return t.Mode.String()
}
