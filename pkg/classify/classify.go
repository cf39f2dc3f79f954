// Package classify labels gathered values with trufflehog detector names.
// Verification is always disabled: verifying would transmit the value to
// the detector's provider, which this tool promises never to do.
package classify

import (
	"context"
	"slices"
	"sync"

	"github.com/leakscout/leakscout/pkg/gather"
	"github.com/rs/zerolog/log"
	"github.com/trufflesecurity/trufflehog/v3/pkg/detectors"
	"github.com/trufflesecurity/trufflehog/v3/pkg/engine/defaults"
	"github.com/wandb/parallel"
)

const maxDetectorThreads = 4

var (
	corpusOnce sync.Once
	corpus     []detectors.Detector
)

// defaultDetectors builds the detector corpus once, it is expensive.
func defaultDetectors() []detectors.Detector {
	corpusOnce.Do(func() {
		corpus = defaults.DefaultDetectors()
	})
	return corpus
}

// Classifier maps leaked names back to gathered values and labels them
// with trufflehog's detector corpus.
type Classifier struct {
	values *gather.ValueMap
}

// New builds a Classifier over the gathered values.
func New(values *gather.ValueMap) *Classifier {
	return &Classifier{values: values}
}

// Labels resolves name to a gathered value and returns the detector names
// matching it. Names that resolve ambiguously (truncation can collapse two
// keys into one name) return nothing.
func (c *Classifier) Labels(ctx context.Context, name string) []string {
	_, value, ok := c.values.Find(name)
	if !ok {
		log.Debug().Str("name", name).Msg("No gathered value for leaked name, skipping classification")
		return nil
	}
	return DetectorLabels(ctx, value)
}

// DetectorLabels runs every default trufflehog detector over value with
// verification disabled and returns the sorted detector names that matched.
func DetectorLabels(ctx context.Context, value string) []string {
	data := []byte(value)
	group := parallel.Collect[[]string](parallel.Limited(ctx, maxDetectorThreads))

	for _, detector := range defaultDetectors() {
		group.Go(func(ctx context.Context) ([]string, error) {
			results, err := detector.FromData(ctx, false, data)
			if err != nil {
				log.Trace().Err(err).Msg("Detector failed")
				return nil, nil
			}

			labels := []string{}
			for _, result := range results {
				labels = append(labels, result.DetectorType.String())
			}
			return labels, nil
		})
	}

	results, err := group.Wait()
	if err != nil {
		log.Error().Err(err).Msg("Failed waiting for detector classification")
	}

	labels := slices.Concat(results...)
	slices.Sort(labels)
	return slices.Compact(labels)
}
