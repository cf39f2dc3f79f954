package format

import "io/fs"

// Named file permission modes, so call sites do not sprinkle magic numbers.
const (
	// FilePublicRead is for files that may be world-readable (rw-r--r--),
	// such as generated documentation.
	FilePublicRead fs.FileMode = 0644

	// FileUserReadWrite is for files only the owner may read (rw-------).
	// The gathered values file must use this mode.
	FileUserReadWrite fs.FileMode = 0600
)
