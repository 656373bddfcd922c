package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// truncateEnd shortens s to at most max characters, appending an ellipsis
// if truncation occurs. Handles negative or tiny limits gracefully.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

// truncateMiddle shortens s to at most limit characters by preserving the
// start and end of the string with a single ellipsis in the middle.
// Useful for URLs where both ends carry meaning.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	n := len(r)
	if n <= limit {
		return s
	}
	if limit <= 1 {
		return "…"
	}
	keep := limit - 1
	left := keep / 2
	right := keep - left
	if left <= 0 {
		return "…" + string(r[n-right:])
	}
	return string(r[:left]) + "…" + string(r[n-right:])
}

// wrapText greedily wraps plain text into at most maxLines lines of width
// cells. Overflow is cut and the last line ends with an ellipsis.
func wrapText(s string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return nil
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var current strings.Builder
	overflow := false

	for _, word := range words {
		if lipgloss.Width(word) > width {
			word = truncateEnd(word, width)
		}
		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case lipgloss.Width(current.String())+1+lipgloss.Width(word) <= width:
			current.WriteByte(' ')
			current.WriteString(word)
		default:
			lines = append(lines, current.String())
			current.Reset()
			if len(lines) == maxLines {
				overflow = true
				break
			}
			current.WriteString(word)
		}
		if overflow {
			break
		}
	}
	if !overflow && current.Len() > 0 {
		if len(lines) < maxLines {
			lines = append(lines, current.String())
		} else {
			overflow = true
		}
	}

	if overflow && len(lines) > 0 {
		last := lines[len(lines)-1]
		if lipgloss.Width(last)+1 > width {
			last = truncateEnd(last, width-1)
			last = strings.TrimSuffix(last, "…")
		}
		lines[len(lines)-1] = last + "…"
	}
	return lines
}

// collapseSpace turns runs of whitespace, including newlines and tabs, into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
