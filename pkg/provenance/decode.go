package provenance

import (
	"strings"
)

// Confidence grades how trustworthy a decoded key name is.
type Confidence int

const (
	ConfidenceUnknown Confidence = iota
	ConfidenceHeuristic
	ConfidenceExact
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceExact:
		return "exact"
	case ConfidenceHeuristic:
		return "heuristic"
	}
	return "unknown"
}

// Decoded is the best-effort interpretation of a checker-reported key name.
type Decoded struct {
	Kind       SourceKind
	Source     string
	Path       string
	SecretName string
	Confidence Confidence
}

// Anchor patterns locating the ".env" basename inside an encoded env-file
// key. Ordered by priority: the production anchor must be tried before the
// test anchor and both before the bare anchor, otherwise a .env.production
// key splits at ".env" and the rest of the filename bleeds into the secret
// name.
var envFileAnchors = []string{
	slashToken + dotToken + "env" + dotToken + "production" + Separator,
	slashToken + dotToken + "env" + dotToken + "test" + Separator,
	slashToken + dotToken + "env" + Separator,
}

// Decode interprets a key name reported by the checker. Names may have been
// truncated downstream, so every branch past the exact tag matches is a
// heuristic recovery.
func Decode(name string) Decoded {
	if !strings.Contains(name, Separator) {
		return Decoded{
			Kind:       SourceUnknown,
			Source:     SourceUnknown.String(),
			SecretName: name,
			Confidence: ConfidenceUnknown,
		}
	}

	parts := strings.SplitN(name, Separator, 2)
	prefix, remainder := parts[0], parts[1]

	switch prefix {
	case SourceEnvVar.Tag():
		return Decoded{
			Kind:       SourceEnvVar,
			Source:     SourceEnvVar.String(),
			Path:       "os.environ",
			SecretName: remainder,
			Confidence: ConfidenceExact,
		}
	case SourceGithubToken.Tag():
		return Decoded{
			Kind:       SourceGithubToken,
			Source:     SourceGithubToken.String(),
			Path:       "gh auth token",
			SecretName: remainder,
			Confidence: ConfidenceExact,
		}
	case SourceNpmrc.Tag():
		return Decoded{
			Kind:       SourceNpmrc,
			Source:     SourceNpmrc.String(),
			Path:       "~/.npmrc",
			SecretName: remainder,
			Confidence: ConfidenceExact,
		}
	case SourceEnvFile.Tag():
		return decodeEnvFileRemainder(remainder)
	case SourcePrivateKey.Tag():
		return decodePrivateKeyRemainder(remainder)
	}

	return decodeIrregularPrefix(prefix, remainder)
}

// decodeEnvFileRemainder recovers path and secret name from the remainder of
// a well-formed ENV_FILE key, where both live past the first separator.
func decodeEnvFileRemainder(remainder string) Decoded {
	for _, anchor := range envFileAnchors {
		idx := strings.Index(remainder, anchor)
		if idx == -1 {
			continue
		}

		// Keep the ".env" part of the anchor on the path side, drop the
		// trailing separator underscores.
		encodedPath := remainder[:idx] + strings.TrimRight(anchor, "_")
		path := DecodePath(encodedPath)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}

		return Decoded{
			Kind:       SourceEnvFile,
			Source:     SourceEnvFile.String(),
			Path:       path,
			SecretName: remainder[idx+len(anchor):],
			Confidence: ConfidenceHeuristic,
		}
	}

	// No anchor: either a non-canonical filename (.envrc and friends) or a
	// key truncated inside the path.
	return Decoded{
		Kind:       SourceEnvFile,
		Source:     SourceEnvFile.String(),
		SecretName: remainder,
		Confidence: ConfidenceHeuristic,
	}
}

func decodePrivateKeyRemainder(remainder string) Decoded {
	d := Decoded{
		Kind:       SourcePrivateKey,
		Source:     SourcePrivateKey.String(),
		Confidence: ConfidenceHeuristic,
	}

	suffix := Separator + PrivateKeyValueName
	if strings.HasSuffix(remainder, suffix) {
		d.Path = DecodePath(strings.TrimSuffix(remainder, suffix))
		d.SecretName = PrivateKeyValueName
		return d
	}

	d.Path = DecodePath(remainder)
	return d
}

// decodeIrregularPrefix handles prefixes that match no tag exactly: legacy
// key formats and names the checker truncated inside the encoded path.
func decodeIrregularPrefix(prefix, remainder string) Decoded {
	envFileTag := SourceEnvFile.Tag()

	if strings.HasPrefix(prefix, envFileTag) {
		var path string
		if strings.HasPrefix(prefix, envFileTag+Separator) {
			path = DecodePath(prefix[len(envFileTag+Separator):])
		} else {
			// Oldest key format encoded slashes as single underscores.
			path = strings.ReplaceAll(strings.TrimPrefix(prefix, envFileTag), "_", "/")
		}
		return Decoded{
			Kind:       SourceEnvFile,
			Source:     SourceEnvFile.String(),
			Path:       path,
			SecretName: remainder,
			Confidence: ConfidenceHeuristic,
		}
	}

	if strings.Contains(prefix, slashToken) || strings.Contains(prefix, dotToken) {
		return Decoded{
			Kind:       SourceEnvFile,
			Source:     SourceEnvFile.String(),
			Path:       recoverEnvFilePath(prefix),
			SecretName: remainder,
			Confidence: ConfidenceHeuristic,
		}
	}

	if strings.HasPrefix(prefix, "_Users_") {
		return Decoded{
			Kind:       SourceEnvFile,
			Source:     SourceEnvFile.String(),
			Path:       strings.ReplaceAll(prefix[1:], "_", "/"),
			SecretName: remainder,
			Confidence: ConfidenceHeuristic,
		}
	}

	return Decoded{
		Kind:       SourceUnknown,
		Source:     SourceUnknown.String(),
		Path:       prefix,
		SecretName: remainder,
		Confidence: ConfidenceUnknown,
	}
}

// recoverEnvFilePath rebuilds a file path from a prefix that still carries
// encoding tokens, which happens when the split landed inside the encoded
// path of a truncated key. The last "/.env" occurrence marks the basename;
// anything after the following underscore belonged to the value.
func recoverEnvFilePath(prefix string) string {
	decoded := DecodePath(prefix)
	if !strings.HasPrefix(decoded, "/") {
		decoded = "/" + decoded
	}

	const envPattern = "/.env"
	envIdx := strings.LastIndex(decoded, envPattern)
	if envIdx == -1 {
		return decoded
	}

	nextPartIdx := envIdx + len(envPattern)
	if nextPartIdx >= len(decoded) {
		return decoded
	}

	remaining := decoded[nextPartIdx:]
	if !strings.HasPrefix(remaining, ".") && !strings.HasPrefix(remaining, "_") {
		return decoded[:nextPartIdx]
	}

	// ".production" or "_production" style suffix: cut at the next
	// underscore boundary if one exists.
	var nextSeparator int
	if strings.HasPrefix(remaining, "_") {
		nextSeparator = strings.Index(remaining[1:], "_")
		if nextSeparator != -1 {
			nextSeparator++
		}
	} else {
		nextSeparator = strings.Index(remaining, "_")
	}

	if nextSeparator != -1 {
		return decoded[:nextPartIdx+nextSeparator]
	}
	return decoded
}
