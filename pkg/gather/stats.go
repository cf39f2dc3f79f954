package gather

import (
	"time"

	"github.com/leakscout/leakscout/pkg/provenance"
)

// Stats describes a single gather run. It is returned alongside the
// results, never kept as shared state.
type Stats struct {
	FilesProcessed int

	NpmrcFound       int
	NpmrcWithSecrets int

	EnvFilesFound       int
	EnvFilesWithSecrets int

	PrivateKeysFound int

	EnvVars     int
	GithubToken bool

	Elapsed     time.Duration
	TimedOut    bool
	Interrupted bool
}

// ValuesByKind counts gathered entries per source kind, derived from the
// provenance prefix of each key.
func ValuesByKind(values *ValueMap) map[provenance.SourceKind]int {
	counts := map[provenance.SourceKind]int{}
	values.Each(func(key, _ string) bool {
		counts[provenance.Decode(key).Kind]++
		return true
	})
	return counts
}
