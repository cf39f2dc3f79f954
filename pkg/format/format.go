package format

import (
	gounits "github.com/docker/go-units"
)

// ParseHumanSize parses a human-readable size string (e.g., "500Kb", "2Mb") into bytes
func ParseHumanSize(size string) (int64, error) {
	return gounits.FromHumanSize(size)
}

// HumanSize renders a byte count as a human-readable size string
func HumanSize(size int64) string {
	return gounits.HumanSize(float64(size))
}
