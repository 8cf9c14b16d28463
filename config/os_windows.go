//go:build windows

package config

import (
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

// CleanFileName makes output file name from the document name, characters
// reserved by Windows file systems are dropped.
func CleanFileName(in string) string {
	return cleanName(in, `<>":/\|?*`)
}

// EnableColorOutput checks if colorized output is possible and turns on VT100
// sequence processing, which is only available since Windows 10.
func EnableColorOutput(stream *os.File) bool {
	if len(os.Getenv("NO_COLOR")) > 0 {
		return false
	}
	if windows.RtlGetVersion().MajorVersion < 10 {
		return false
	}
	if !term.IsTerminal(int(stream.Fd())) {
		return false
	}

	h := windows.Handle(stream.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
