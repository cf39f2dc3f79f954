// Package extract pulls assignment-like values out of line-oriented text.
// It feeds the gatherer with candidate secrets from env files, npmrc files
// and similar KEY=value or JSON-styled configuration content.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Values longer than this are not credible secrets and blow up the checker
// payload. RE2 rejects repeat counts this large, so the cap is enforced
// after matching instead of inside the patterns.
const maxValueLength = 5000

var (
	assignmentRegex = regexp.MustCompile(`^\s*[a-zA-Z_]\w*\s*=\s*(.+)`)
	jsonPairRegex   = regexp.MustCompile(`"[a-zA-Z_]\w*"\s*:\s*"([^"]+)"`)
)

// Values extracts candidate secret values from text, line by line. Two
// shapes are recognized per line: an assignment (KEY=value) and quoted JSON
// pairs ("key": "value"), of which a line may hold several. Assignment
// values are trimmed and, when they contain a #, the part before it is
// emitted as an additional candidate, since env-style comments may or may
// not be part of the value. A single pair of matching outer quotes is
// stripped from every candidate. The result is de-duplicated and sorted so
// callers get a deterministic ordering.
func Values(text string) []string {
	seen := map[string]struct{}{}

	add := func(value string) {
		seen[removeQuotes(value)] = struct{}{}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")

		if m := assignmentRegex.FindStringSubmatch(line); m != nil {
			value := truncateValue(m[1])
			add(strings.TrimSpace(value))
			if strings.Contains(value, "#") {
				add(strings.TrimSpace(strings.SplitN(value, "#", 2)[0]))
			}
		}

		for _, m := range jsonPairRegex.FindAllStringSubmatch(line, -1) {
			if utf8.RuneCountInString(m[1]) > maxValueLength {
				continue
			}
			add(m[1])
		}
	}

	values := make([]string, 0, len(seen))
	for value := range seen {
		values = append(values, value)
	}
	sort.Strings(values)

	return values
}

// removeQuotes strips one pair of matching outer quotes, never more.
func removeQuotes(value string) string {
	if len(value) > 1 && value[0] == value[len(value)-1] && (value[0] == '\'' || value[0] == '"') {
		return value[1 : len(value)-1]
	}
	return value
}

func truncateValue(value string) string {
	if utf8.RuneCountInString(value) <= maxValueLength {
		return value
	}
	runes := []rune(value)
	return string(runes[:maxValueLength])
}
