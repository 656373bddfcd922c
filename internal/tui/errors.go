package tui

import (
	"fmt"
	"strings"
)

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// statusError renders err on a single status line.
func statusError(err error, width int) string {
	if err == nil {
		return ""
	}
	text := "✗ " + collapseSpace(strings.ReplaceAll(err.Error(), "\n", " "))
	return truncateEnd(text, width-2)
}
