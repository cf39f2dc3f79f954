package walk

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	defaultPrivateKeyFilenames = []string{
		"id_rsa",
		"id_dsa",
		"id_ecdsa",
		"id_ed25519",
		"certificate.p12",
		"secring.gpg",
		"private_key.dat",
	}

	defaultPrivateKeySuffixes = []string{".key", ".pem", ".p12", ".pfx"}
)

// PrivateKeyPatterns lists file basenames and suffixes identifying
// private-key material.
type PrivateKeyPatterns struct {
	Filenames []string `yaml:"filenames"`
	Suffixes  []string `yaml:"suffixes"`
}

// DefaultPrivateKeyPatterns returns the built-in pattern sets.
func DefaultPrivateKeyPatterns() *PrivateKeyPatterns {
	return &PrivateKeyPatterns{
		Filenames: append([]string(nil), defaultPrivateKeyFilenames...),
		Suffixes:  append([]string(nil), defaultPrivateKeySuffixes...),
	}
}

// LoadPrivateKeyPatterns reads a YAML patterns file and appends its entries
// to the built-in sets.
func LoadPrivateKeyPatterns(path string) (*PrivateKeyPatterns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading patterns file: %w", err)
	}

	var extra PrivateKeyPatterns
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parsing patterns file %s: %w", path, err)
	}

	patterns := DefaultPrivateKeyPatterns()
	patterns.Filenames = append(patterns.Filenames, extra.Filenames...)
	patterns.Suffixes = append(patterns.Suffixes, extra.Suffixes...)
	return patterns, nil
}

// Match reports whether a file basename looks like private-key material.
func (p *PrivateKeyPatterns) Match(name string) bool {
	for _, filename := range p.Filenames {
		if name == filename {
			return true
		}
	}
	for _, suffix := range p.Suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
