package config

import (
	"os"
	"strings"
	"unicode"
)

const badFileName = "_bad_file_name_"

// cleanName drops control characters, path separators and everything in
// reserved from the name. Leading dots would make result hidden or relative
// and trailing dots and spaces are not portable, both are trimmed.
func cleanName(in, reserved string) string {
	reserved += string(os.PathSeparator) + string(os.PathListSeparator)
	out := strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(reserved, sym) {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimRight(strings.TrimLeft(out, ". "), ". ")
	if len(out) == 0 {
		return badFileName
	}
	return out
}
