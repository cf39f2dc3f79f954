package hmsl

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/leakscout/leakscout/pkg/format"
	"github.com/leakscout/leakscout/pkg/gather"
	"github.com/rs/zerolog/log"
)

// ValuesFileName matches the original tooling so operators recognize the
// temp file when --keep-temp-file leaves it behind.
const ValuesFileName = "gg_gathered_values"

// WriteValuesFile serializes gathered values as KEY=value lines, dropping
// values shorter than minChars and values containing a newline (they cannot
// survive the env format). Returns the written and dropped counts.
func WriteValuesFile(path string, values *gather.ValueMap, minChars int) (written, filtered int, err error) {
	var b strings.Builder
	values.Each(func(key, value string) bool {
		if utf8.RuneCountInString(value) < minChars {
			filtered++
			return true
		}
		if strings.ContainsAny(value, "\r\n") {
			log.Debug().Str("key", key).Msg("Dropping multi-line value, not representable in the env format")
			filtered++
			return true
		}
		if written > 0 {
			b.WriteString("\n")
		}
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(value)
		written++
		return true
	})

	if err := os.WriteFile(path, []byte(b.String()), format.FileUserReadWrite); err != nil {
		return 0, 0, err
	}
	return written, filtered, nil
}

// RemoveValuesFile deletes the temp file. A missing file is fine.
func RemoveValuesFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
