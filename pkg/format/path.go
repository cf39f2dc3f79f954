package format

import (
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ExpandHome resolves a leading ~ in path to the current user's home directory.
// Paths without a ~ prefix are returned unchanged.
func ExpandHome(path string) (string, error) {
	return homedir.Expand(path)
}

// ContractHome replaces the current user's home directory prefix with ~ for display.
func ContractHome(path string) string {
	home, err := homedir.Dir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home+string(os.PathSeparator)) {
		return "~" + strings.TrimPrefix(path, home)
	}
	return path
}
