// Package term decides whether CLI output goes to an interactive terminal.
package term

import (
	"os"
)

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd uintptr) bool {
	return isTerminal(fd)
}

// ColorEnabled reports whether colored output should be written to f. It
// honors the NO_COLOR convention and TERM=dumb.
func ColorEnabled(f *os.File) bool {
	if f == nil {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return IsTerminal(f.Fd())
}
