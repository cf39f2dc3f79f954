// Package config provides shared configuration types and validation helpers
// for leakscout. This package centralizes option handling so the CLI and the
// pipeline agree on defaults.
package config

import "time"

// ScanOptions contains every knob of a scan run.
type ScanOptions struct {
	// Root is the directory gathered for secret-bearing files
	Root string
	// MinChars drops gathered values shorter than this from the check
	MinChars int
	// Timeout bounds the gathering walk (0 = unlimited)
	Timeout time.Duration
	// KeepTempFile leaves the gathered-values file on disk after the check
	KeepTempFile bool
	// MaxPublicOccurrences hides leaks seen at least this often in public sources
	MaxPublicOccurrences int64
	// IncludePrivateKeys also gathers private key files
	IncludePrivateKeys bool
	// PatternsFile points to extra private key patterns (YAML)
	PatternsFile string
	// Classify runs local detectors over leaked values to label them
	Classify bool
	// GatherOnly stops after writing the values file, skipping the check
	GatherOnly bool
	// MaxFileSize skips files larger than this many bytes
	MaxFileSize int64
	// ProgressInterval bounds progress logging during gathering
	ProgressInterval time.Duration
	// ExcludedDirs are directory names never descended into
	ExcludedDirs []string
	// DotDirAllowlist are dot-directories descended into anyway
	DotDirAllowlist []string
	// ExcludedFiles are glob patterns for file basenames to skip
	ExcludedFiles []string
}

// DefaultScanOptions returns sensible default values for a scan run.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Root:                 "~",
		MinChars:             5,
		Timeout:              0,
		KeepTempFile:         false,
		MaxPublicOccurrences: 10,
		IncludePrivateKeys:   false,
		Classify:             false,
		GatherOnly:           false,
		MaxFileSize:          1000 * 1000, // 1Mb
		ProgressInterval:     time.Second,
	}
}
