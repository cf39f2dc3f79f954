package hmsl

import (
	"slices"

	"github.com/leakscout/leakscout/pkg/logging"
	"github.com/leakscout/leakscout/pkg/provenance"
	"github.com/rs/zerolog/log"
	"github.com/rxwycdh/rxhash"
)

// Classifier labels a leaked value with detector names. Optional.
type Classifier func(leakName string) []string

// ReportOptions control filtering and rendering of the verdict.
type ReportOptions struct {
	// MaxPublicOccurrences drops leaks seen in at least this many distinct
	// public repositories. Those are almost always well-known sample
	// values, not the operator's secrets.
	MaxPublicOccurrences int64

	// Classify annotates findings with local detector labels when set.
	Classify Classifier
}

// Report filters, deduplicates and renders the verdict as leak-level log
// events. Returns the number of findings shown.
func Report(verdict *Verdict, opts ReportOptions) int {
	kept := []Leak{}
	for _, leak := range verdict.Leaks {
		if leak.Count < opts.MaxPublicOccurrences {
			kept = append(kept, leak)
		}
	}

	if filtered := verdict.LeaksCount - int64(len(kept)); filtered > 0 {
		log.Info().
			Int64("count", filtered).
			Int64("threshold", opts.MaxPublicOccurrences).
			Msg("Filtered leaks with high public occurrence count")
	}

	kept = deduplicateLeaks(kept)

	if len(kept) == 0 {
		log.Info().Msg("All clear! No leaked secrets found")
		return 0
	}

	log.Warn().Int("count", len(kept)).Msg("Found leaked secrets")

	for i, leak := range kept {
		decoded := provenance.Decode(leak.Name)
		event := logging.Leak().
			Int("index", i+1).
			Str("name", decoded.SecretName).
			Str("source", decoded.Source).
			Str("path", decoded.Path).
			Str("confidence", decoded.Confidence.String()).
			Str("hash", leak.Hash).
			Int("publicOccurrences", int(leak.Count))
		if leak.URL != "" {
			event = event.Str("firstSeen", leak.URL)
		}
		if opts.Classify != nil {
			if labels := opts.Classify(leak.Name); len(labels) > 0 {
				event = event.Strs("detectors", labels)
			}
		}
		event.Msg("LEAK")
	}

	log.Info().Msg("Results may include false positives (non-secret values matching leak patterns), verify before acting")
	log.Info().Msg("If confirmed: revoke and rotate the credential immediately")
	log.Info().Msg("If confirmed: review when the leak occurred and which systems may be compromised")

	return len(kept)
}

// deduplicateLeaks drops records identical in every field. Key truncation
// can collapse two distinct gathered keys into the same reported name.
func deduplicateLeaks(leaks []Leak) []Leak {
	deduped := []Leak{}
	seen := []string{}
	for _, leak := range leaks {
		hash, _ := rxhash.HashStruct(leak)
		if slices.Contains(seen, hash) {
			continue
		}
		seen = append(seen, hash)
		deduped = append(deduped, leak)
	}

	if len(deduped) < len(leaks) {
		log.Debug().Int("count", len(leaks)-len(deduped)).Msg("Deduplicated identical leak records")
	}

	return deduped
}
