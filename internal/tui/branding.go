package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

const (
	AppName = "brief"
	Tagline = "Terminal News Reader"
)

// LogoLines is the canonical block logo.
var LogoLines = []string{
	"██████  ██████  ██ ███████ ███████",
	"██   ██ ██   ██ ██ ██      ██     ",
	"██████  ██████  ██ █████   █████  ",
	"██   ██ ██   ██ ██ ██      ██     ",
	"██████  ██   ██ ██ ███████ ██     ",
}

// Banner gradient, ink to paper
var BannerColors = []lipgloss.Color{
	lipgloss.Color("#1D4ED8"),
	lipgloss.Color("#2563EB"),
	lipgloss.Color("#0EA5E9"),
	lipgloss.Color("#14B8A6"),
	lipgloss.Color("#F59E0B"),
}

// GetCompactBanner stacks the logo over a muted message.
func GetCompactBanner(theme Theme, message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, theme.Brand.Render(line))
	}

	return lipgloss.JoinVertical(
		lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, coloredLines...),
		"",
		theme.Help.Render(message),
	)
}

func versionTag(version string) string {
	if version == "" || version == "dev" {
		return ""
	}
	if version[0] != 'v' && version[0] != 'V' {
		return "v" + version
	}
	return version
}

// ShowBanner prints the startup banner to w.
func ShowBanner(w io.Writer, version string) {
	lines := make([]string, len(LogoLines)+1)
	copy(lines, LogoLines)

	tagline := Tagline
	if tag := versionTag(version); tag != "" {
		tagline = fmt.Sprintf("%s %s", Tagline, tag)
	}
	lines = append(lines, tagline)

	var coloredLines []string
	for i, line := range lines {
		if line == "" {
			coloredLines = append(coloredLines, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(BannerColors[i%len(BannerColors)]).
			Bold(i < len(LogoLines))
		coloredLines = append(coloredLines, style.Render(line))
	}

	border := lipgloss.Border{
		Top:         "═",
		Bottom:      "═",
		Left:        "║",
		Right:       "║",
		TopLeft:     "╔",
		TopRight:    "╗",
		BottomLeft:  "╚",
		BottomRight: "╝",
	}

	output := lipgloss.NewStyle().
		Border(border).
		BorderForeground(BannerColors[2]).
		Padding(1, 3).
		MarginTop(1).
		Render(lipgloss.JoinVertical(lipgloss.Center, coloredLines...))

	center := lipgloss.NewStyle().Width(70).Align(lipgloss.Center)
	fmt.Fprintln(w, center.Render(output))

	separator := lipgloss.NewStyle().
		Foreground(BannerColors[4]).
		Render("◆ ◇ ◆ ◇ ◆")
	fmt.Fprintln(w, center.MarginBottom(1).Render(separator))
}
