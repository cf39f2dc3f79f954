package format

import (
	"runtime"
)

// GetPlatformAgnosticNewline returns the line separator for the current OS.
func GetPlatformAgnosticNewline() string {
	newline := "\n"
	if runtime.GOOS == "windows" {
		newline = "\r\n"
	}
	return newline
}
