//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

// CleanFileName makes output file name from the document name.
func CleanFileName(in string) string {
	return cleanName(in, "")
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	if len(os.Getenv("NO_COLOR")) > 0 || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(stream.Fd()))
}
