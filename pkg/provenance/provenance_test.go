package provenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceKindTags(t *testing.T) {
	tests := []struct {
		name    string
		kind    SourceKind
		tag     string
		label   string
		hasPath bool
	}{
		{
			name:    "environment variable",
			kind:    SourceEnvVar,
			tag:     "ENVIRONMENT_VAR",
			label:   "Environment variable",
			hasPath: false,
		},
		{
			name:    "github token",
			kind:    SourceGithubToken,
			tag:     "GITHUB_TOKEN",
			label:   "GitHub Token",
			hasPath: false,
		},
		{
			name:    "npmrc",
			kind:    SourceNpmrc,
			tag:     "NPMRC_HOME",
			label:   "Configuration file",
			hasPath: false,
		},
		{
			name:    "env file",
			kind:    SourceEnvFile,
			tag:     "ENV_FILE",
			label:   "Environment file",
			hasPath: true,
		},
		{
			name:    "private key",
			kind:    SourcePrivateKey,
			tag:     "PRIVATE_KEY",
			label:   "Private key file",
			hasPath: true,
		},
		{
			name:    "unknown",
			kind:    SourceUnknown,
			tag:     "UNKNOWN",
			label:   "Unknown",
			hasPath: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.tag, tt.kind.Tag())
			assert.Equal(t, tt.label, tt.kind.String())
			assert.Equal(t, tt.hasPath, tt.kind.HasPath())
		})
	}
}

func TestEncodePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "plain env file path",
			path:     "/home/user/.env",
			expected: "__SLASH__home__SLASH__user__SLASH____DOT__env",
		},
		{
			name:     "path with dots inside segments",
			path:     "/srv/app.v2/.env.production",
			expected: "__SLASH__srv__SLASH__app__DOT__v2__SLASH____DOT__env__DOT__production",
		},
		{
			name:     "underscores survive untouched",
			path:     "/home/user/my_project/.env",
			expected: "__SLASH__home__SLASH__user__SLASH__my_project__SLASH____DOT__env",
		},
		{
			name:     "empty path",
			path:     "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := EncodePath(tt.path)
			assert.Equal(t, tt.expected, encoded)
			assert.Equal(t, tt.path, DecodePath(encoded))
		})
	}
}

func TestOriginKey(t *testing.T) {
	tests := []struct {
		name     string
		origin   Origin
		final    string
		expected string
	}{
		{
			name:     "environment variable keys off the value",
			origin:   Origin{Kind: SourceEnvVar},
			final:    "swordfish",
			expected: "ENVIRONMENT_VAR__swordfish",
		},
		{
			name:     "github token",
			origin:   Origin{Kind: SourceGithubToken},
			final:    "gho_abc123",
			expected: "GITHUB_TOKEN__gho_abc123",
		},
		{
			name:     "npmrc carries no path",
			origin:   Origin{Kind: SourceNpmrc, Path: "/home/user/.npmrc"},
			final:    "abc123",
			expected: "NPMRC_HOME__abc123",
		},
		{
			name:     "env file embeds the encoded path",
			origin:   Origin{Kind: SourceEnvFile, Path: "/home/user/.env"},
			final:    "swordfish",
			expected: "ENV_FILE____SLASH__home__SLASH__user__SLASH____DOT__env__swordfish",
		},
		{
			name:     "private key uses the synthetic value name",
			origin:   Origin{Kind: SourcePrivateKey, Path: "/home/user/.ssh/id_rsa"},
			final:    PrivateKeyValueName,
			expected: "PRIVATE_KEY____SLASH__home__SLASH__user__SLASH____DOT__ssh__SLASH__id_rsa__KEY_DATA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.origin.Key(tt.final))
		})
	}
}
