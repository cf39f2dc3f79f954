package gather

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const githubTokenTimeout = 5 * time.Second

var githubTokenPattern = regexp.MustCompile(`^(gho_|ghp_)`)

// GithubToken asks the gh CLI for its OAuth token. Every failure mode
// (missing binary, non-zero exit, timeout, output without a token prefix)
// degrades to "no token".
func GithubToken(ctx context.Context) (string, bool) {
	if _, err := exec.LookPath("gh"); err != nil {
		log.Debug().Msg("gh CLI not on PATH, skipping GitHub token")
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, githubTokenTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		log.Debug().Err(err).Msg("Failed reading gh auth token")
		return "", false
	}

	return tokenFromOutput(out)
}

// tokenFromOutput accepts gh output only when it looks like an OAuth token.
func tokenFromOutput(out []byte) (string, bool) {
	token := strings.TrimSpace(string(out))
	if !githubTokenPattern.MatchString(token) {
		log.Debug().Msg("gh auth token output does not look like a token")
		return "", false
	}
	return token, true
}
