// Package provenance encodes the origin of a gathered value into the value's
// key and decodes checker-reported key names back into human-readable sources.
// Key names survive a round trip through the external checker, which may
// truncate them, so decoding can only ever be best-effort.
package provenance

import (
	"strings"
)

// SourceKind identifies where a gathered value came from.
type SourceKind int

const (
	SourceUnknown SourceKind = iota
	SourceEnvVar
	SourceGithubToken
	SourceNpmrc
	SourceEnvFile
	SourcePrivateKey
)

// Separator joins the segments of an encoded key: tag, optional encoded
// path, and the value segment.
const Separator = "__"

// Path encoding tokens. Slashes and dots would otherwise be mangled once
// the key is serialized into the flat env-format checker file.
const (
	slashToken = "__SLASH__"
	dotToken   = "__DOT__"
)

// PrivateKeyValueName is the synthetic value-name segment used for
// private-key files, whose content is gathered whole instead of being run
// through the extractor.
const PrivateKeyValueName = "KEY_DATA"

// Tag returns the wire tag used as the first segment of encoded keys.
// Tags contain single underscores only, so the first occurrence of
// Separator in a key always marks the end of the tag.
func (k SourceKind) Tag() string {
	switch k {
	case SourceEnvVar:
		return "ENVIRONMENT_VAR"
	case SourceGithubToken:
		return "GITHUB_TOKEN"
	case SourceNpmrc:
		return "NPMRC_HOME"
	case SourceEnvFile:
		return "ENV_FILE"
	case SourcePrivateKey:
		return "PRIVATE_KEY"
	}
	return "UNKNOWN"
}

// String returns the human-readable label shown in reports.
func (k SourceKind) String() string {
	switch k {
	case SourceEnvVar:
		return "Environment variable"
	case SourceGithubToken:
		return "GitHub Token"
	case SourceNpmrc:
		return "Configuration file"
	case SourceEnvFile:
		return "Environment file"
	case SourcePrivateKey:
		return "Private key file"
	}
	return "Unknown"
}

// HasPath reports whether keys of this kind carry an encoded file path.
func (k SourceKind) HasPath() bool {
	return k == SourceEnvFile || k == SourcePrivateKey
}

// Origin identifies a concrete source of gathered values. Path is only set
// for file-backed kinds.
type Origin struct {
	Kind SourceKind
	Path string
}

// EncodePath makes a filesystem path safe for embedding in an env key.
// Exactly reversible via DecodePath as long as the path itself contains no
// encoding tokens.
func EncodePath(path string) string {
	encoded := strings.ReplaceAll(path, "/", slashToken)
	return strings.ReplaceAll(encoded, ".", dotToken)
}

// DecodePath reverses EncodePath.
func DecodePath(encoded string) string {
	decoded := strings.ReplaceAll(encoded, slashToken, "/")
	return strings.ReplaceAll(decoded, dotToken, ".")
}

// Prefix returns the key prefix for this origin: the bare tag for pathless
// kinds, or tag plus encoded path for file-backed kinds.
func (o Origin) Prefix() string {
	if o.Kind.HasPath() && o.Path != "" {
		return o.Kind.Tag() + Separator + EncodePath(o.Path)
	}
	return o.Kind.Tag()
}

// Key builds the full provenance key. The final segment is the gathered
// value itself for extracted kinds, or the synthetic value name for
// private-key files.
func (o Origin) Key(final string) string {
	return o.Prefix() + Separator + final
}
