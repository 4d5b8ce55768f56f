// Package util provides utility functions for the statlens CLI.
package util

import (
	"syscall"

	"golang.org/x/term"
)

// TruncateString truncates a string to the specified length
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// IsInteractive returns true if stdin is a terminal
func IsInteractive() bool {
	return term.IsTerminal(int(syscall.Stdin))
}
