// Package doctor checks the scanner's runtime prerequisites without
// touching any gathered value.
package doctor

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/acarl005/stripansi"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit/github_primary_ratelimit"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit/github_secondary_ratelimit"
	"github.com/google/go-github/v69/github"
	"github.com/leakscout/leakscout/pkg/httpclient"
	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

const (
	releaseOwner = "GitGuardian"
	releaseRepo  = "ggshield"

	installURL = "https://github.com/GitGuardian/ggshield#installation"
	pypiURL    = "https://pypi.org/pypi/ggshield/json"
)

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// Report is the outcome of a preflight run.
type Report struct {
	GgshieldPresent bool
	GgshieldVersion string
	GhPresent       bool
	GhVersion       string
	LatestRelease   string
	LatestPyPI      string
	UpdateAvailable bool
}

// Run checks the external binaries the scanner depends on and, unless
// offline is set, compares the installed ggshield against the latest
// published version.
func Run(ctx context.Context, offline bool) *Report {
	report := &Report{}

	if path, err := exec.LookPath("ggshield"); err == nil {
		report.GgshieldPresent = true
		report.GgshieldVersion = binaryVersion(ctx, "ggshield")
		log.Info().Str("path", path).Str("version", report.GgshieldVersion).Msg("ggshield found")
	} else {
		log.Error().Str("installUrl", installURL).Msg("ggshield not found on PATH, scanning cannot work without it")
	}

	if path, err := exec.LookPath("gh"); err == nil {
		report.GhPresent = true
		report.GhVersion = binaryVersion(ctx, "gh")
		log.Info().Str("path", path).Str("version", report.GhVersion).Msg("gh CLI found")
	} else {
		log.Warn().Msg("gh CLI not found, the GitHub token source will be skipped")
	}

	if offline {
		log.Info().Msg("Offline mode, skipping release lookups")
		return report
	}

	if tag, err := latestGithubRelease(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed fetching latest ggshield release from GitHub")
	} else {
		report.LatestRelease = tag
		log.Info().Str("tag", tag).Msg("Latest ggshield release on GitHub")
	}

	if version, err := latestPyPIVersion(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed fetching latest ggshield version from PyPI")
	} else {
		report.LatestPyPI = version
		log.Info().Str("version", version).Msg("Latest ggshield version on PyPI")
	}

	latest := report.LatestRelease
	if latest == "" {
		latest = report.LatestPyPI
	}
	if report.GgshieldPresent && latest != "" {
		if UpdateAvailable(report.GgshieldVersion, latest) {
			report.UpdateAvailable = true
			log.Warn().
				Str("installed", report.GgshieldVersion).
				Str("latest", latest).
				Msg("ggshield update available, run: pip install --upgrade ggshield")
		} else {
			log.Info().Msg("ggshield is up to date")
		}
	}

	return report
}

func binaryVersion(ctx context.Context, name string) string {
	out, err := exec.CommandContext(ctx, name, "--version").Output()
	if err != nil {
		log.Debug().Err(err).Str("binary", name).Msg("Failed reading version")
		return ""
	}
	return parseVersion(string(out))
}

// parseVersion pulls the first version-looking token out of CLI output,
// tolerating color codes and banner text around it.
func parseVersion(out string) string {
	return versionPattern.FindString(stripansi.Strip(out))
}

// UpdateAvailable reports whether latest is a newer semantic version than
// installed. Unparseable versions never claim an update.
func UpdateAvailable(installed, latest string) bool {
	installedVersion, err := semver.NewVersion(installed)
	if err != nil {
		log.Debug().Str("version", installed).Msg("Cannot parse installed version")
		return false
	}
	latestVersion, err := semver.NewVersion(latest)
	if err != nil {
		log.Debug().Str("version", latest).Msg("Cannot parse latest version")
		return false
	}
	return latestVersion.GreaterThan(installedVersion)
}

// latestGithubRelease asks the GitHub releases API for the newest ggshield
// tag, anonymously and with rate limiting support.
func latestGithubRelease(ctx context.Context) (string, error) {
	rateLimiter := github_ratelimit.New(httpclient.NewHTTPClient(nil).StandardClient().Transport,
		github_primary_ratelimit.WithLimitDetectedCallback(func(ctx *github_primary_ratelimit.CallbackContext) {
			log.Warn().Str("category", string(ctx.Category)).Msg("GitHub rate limit hit during release lookup")
		}),
		github_secondary_ratelimit.WithLimitDetectedCallback(func(ctx *github_secondary_ratelimit.CallbackContext) {
			log.Warn().Msg("GitHub secondary rate limit hit during release lookup")
		}),
	)

	client := github.NewClient(&http.Client{Transport: rateLimiter})
	release, _, err := client.Repositories.GetLatestRelease(ctx, releaseOwner, releaseRepo)
	if err != nil {
		return "", err
	}
	return release.GetTagName(), nil
}

type pypiProject struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
}

// latestPyPIVersion asks the package index ggshield installs from, the
// version pip would deliver can lag the GitHub tag.
func latestPyPIVersion(ctx context.Context) (string, error) {
	client := resty.New().SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	project := &pypiProject{}
	res, err := client.R().
		SetContext(ctx).
		SetResult(project).
		Get(pypiURL)
	if err != nil {
		return "", err
	}
	if res.StatusCode() >= 400 {
		return "", fmt.Errorf("pypi returned status %d", res.StatusCode())
	}
	return project.Info.Version, nil
}
