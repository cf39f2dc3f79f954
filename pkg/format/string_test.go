package format

import (
	"runtime"
	"testing"
)

func TestGetPlatformAgnosticNewline(t *testing.T) {
	result := GetPlatformAgnosticNewline()

	if runtime.GOOS == "windows" {
		if result != "\r\n" {
			t.Errorf("GetPlatformAgnosticNewline() on Windows = %q, want %q", result, "\r\n")
		}
	} else {
		if result != "\n" {
			t.Errorf("GetPlatformAgnosticNewline() on Unix = %q, want %q", result, "\n")
		}
	}
}
