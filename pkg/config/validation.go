package config

import (
	"fmt"
	"os"
	"time"

	"github.com/leakscout/leakscout/pkg/format"
)

// ValidateRoot validates that the scan root exists and is a directory.
func ValidateRoot(path string) error {
	if path == "" {
		return fmt.Errorf("scan root cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("invalid scan root: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("scan root %s is not a directory", path)
	}

	return nil
}

// ValidateMinChars validates the minimum value length filter.
func ValidateMinChars(minChars int) error {
	if minChars < 0 {
		return fmt.Errorf("min chars cannot be negative, got %d", minChars)
	}
	return nil
}

// ValidateTimeout validates the gathering deadline in seconds (0 = unlimited).
func ValidateTimeout(seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("timeout cannot be negative, got %d", seconds)
	}
	return nil
}

// ValidateProgressInterval validates the progress logging interval.
func ValidateProgressInterval(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("progress interval must be positive, got %s", interval)
	}
	return nil
}

// ParseMaxFileSize parses a human-readable size string (e.g., "500Kb", "2Mb")
// into bytes.
func ParseMaxFileSize(sizeStr string) (int64, error) {
	size, err := format.ParseHumanSize(sizeStr)
	if err != nil {
		return 0, fmt.Errorf("failed to parse max file size: %w", err)
	}
	return size, nil
}
