// Package gather collects candidate secret values from the process
// environment, the gh CLI and the filesystem, keyed by their provenance.
package gather

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/h2non/filetype"
	"github.com/leakscout/leakscout/pkg/extract"
	"github.com/leakscout/leakscout/pkg/logging"
	"github.com/leakscout/leakscout/pkg/provenance"
	"github.com/leakscout/leakscout/pkg/walk"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultProgressInterval bounds how often traversal progress is logged.
const DefaultProgressInterval = time.Second

// Options configure a Gatherer.
type Options struct {
	// Root is the directory walked for secret-bearing files.
	Root string

	// Walk configures traversal and file selection.
	Walk walk.Options

	// ProgressInterval bounds progress logging. Zero selects the default.
	ProgressInterval time.Duration
}

// Result couples gathered values with the stats of the run that produced
// them.
type Result struct {
	Values *ValueMap
	Stats  Stats
}

// Gatherer collects values from all sources in a fixed order: environment
// variables, then the gh CLI token, then files beneath the root.
type Gatherer struct {
	opts   Options
	walker *walk.Walker

	mu       sync.Mutex
	files    int
	gathered int
	started  time.Time
}

// NewGatherer builds a Gatherer, filling unset options with defaults.
func NewGatherer(opts Options) *Gatherer {
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	return &Gatherer{opts: opts, walker: walk.NewWalker(opts.Walk)}
}

// Gather runs all sources and returns whatever was collected. A deadline
// hit or an interrupt is not an error: the partial result is returned with
// the stats marking what cut the run short.
func (g *Gatherer) Gather(ctx context.Context) (Result, error) {
	start := time.Now()
	values := NewValueMap()
	stats := Stats{}

	g.mu.Lock()
	g.started = start
	g.mu.Unlock()

	logging.RegisterStatusHook(func() *zerolog.Event {
		files, gathered, elapsed := g.snapshot()
		return log.Info().
			Int("files", files).
			Int("values", gathered).
			Str("elapsed", elapsed.Round(time.Second).String())
	})

	g.gatherEnviron(values, &stats)
	g.gatherGithubToken(ctx, values, &stats)

	lastProgress := time.Time{}
	err := g.walker.Walk(ctx, g.opts.Root, func(path string, origin provenance.Origin) error {
		stats.FilesProcessed++

		if stats.FilesProcessed == 1 || time.Since(lastProgress) >= g.opts.ProgressInterval {
			lastProgress = time.Now()
			log.Info().
				Int("files", stats.FilesProcessed).
				Int("values", values.Len()).
				Msg("Gathering values")
		}

		g.gatherFile(path, origin, values, &stats)

		g.mu.Lock()
		g.files = stats.FilesProcessed
		g.gathered = values.Len()
		g.mu.Unlock()

		return nil
	})

	stats.Elapsed = time.Since(start)

	switch {
	case errors.Is(err, walk.ErrDeadlineReached):
		stats.TimedOut = true
		log.Warn().
			Int("files", stats.FilesProcessed).
			Str("elapsed", stats.Elapsed.Round(time.Second).String()).
			Msg("Gathering timed out, not all files were scanned. Specify a bigger --timeout to scan more")
	case errors.Is(err, walk.ErrInterrupted):
		stats.Interrupted = true
		log.Warn().Int("files", stats.FilesProcessed).Msg("Gathering interrupted, continuing with partial results")
	case err != nil:
		return Result{Values: values, Stats: stats}, err
	}

	return Result{Values: values, Stats: stats}, nil
}

func (g *Gatherer) snapshot() (files int, gathered int, elapsed time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.files, g.gathered, time.Since(g.started)
}

func (g *Gatherer) gatherEnviron(values *ValueMap, stats *Stats) {
	origin := provenance.Origin{Kind: provenance.SourceEnvVar}
	for _, entry := range os.Environ() {
		_, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		stats.EnvVars++
		values.Set(origin.Key(value), value)
	}
	log.Debug().Int("count", stats.EnvVars).Msg("Gathered environment variables")
}

func (g *Gatherer) gatherGithubToken(ctx context.Context, values *ValueMap, stats *Stats) {
	token, ok := GithubToken(ctx)
	if !ok {
		log.Debug().Msg("GitHub token not found")
		return
	}
	stats.GithubToken = true
	values.Set(provenance.Origin{Kind: provenance.SourceGithubToken}.Key(token), token)
	log.Debug().Msg("Gathered GitHub token")
}

func (g *Gatherer) gatherFile(path string, origin provenance.Origin, values *ValueMap, stats *Stats) {
	switch origin.Kind {
	case provenance.SourceNpmrc:
		stats.NpmrcFound++
	case provenance.SourceEnvFile:
		stats.EnvFilesFound++
	case provenance.SourcePrivateKey:
		stats.PrivateKeysFound++
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable file")
		return
	}

	if origin.Kind == provenance.SourcePrivateKey {
		values.Set(origin.Key(provenance.PrivateKeyValueName), strings.TrimSpace(string(data)))
		return
	}

	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		log.Debug().Str("path", path).Str("type", kind.MIME.Value).Msg("Skipping binary file")
		return
	}

	extracted := extract.Values(string(data))
	if len(extracted) > 0 {
		switch origin.Kind {
		case provenance.SourceNpmrc:
			stats.NpmrcWithSecrets++
		case provenance.SourceEnvFile:
			stats.EnvFilesWithSecrets++
		}
		log.Debug().Int("count", len(extracted)).Str("path", path).Msg("Extracted values")
	} else {
		log.Debug().Str("path", path).Msg("No values found")
	}

	for _, value := range extracted {
		values.Set(origin.Key(value), value)
	}
}
