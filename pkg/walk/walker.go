// Package walk selects secret-bearing files beneath a root directory.
// Traversal is pre-order and lazy: files are handed to the callback one at
// a time, and excluded directories are pruned before descent so their
// contents are never touched.
package walk

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/leakscout/leakscout/pkg/provenance"
	"github.com/rs/zerolog/log"
)

var (
	// ErrDeadlineReached reports that the walk stopped because the
	// configured deadline elapsed. Results gathered so far remain valid.
	ErrDeadlineReached = errors.New("walk deadline reached")

	// ErrInterrupted reports that the walk stopped because its context was
	// canceled. Results gathered so far remain valid.
	ErrInterrupted = errors.New("walk interrupted")
)

// DefaultExcludedDirs are directory names never descended into.
var DefaultExcludedDirs = []string{"node_modules"}

// DefaultDotDirAllowlist are dot-directories that are descended into even
// though dot-directories are skipped by default. Names starting with ".env"
// are always allowed.
var DefaultDotDirAllowlist = []string{".env", ".ssh"}

// WalkFunc receives each selected file. Returning an error aborts the walk.
type WalkFunc func(path string, origin provenance.Origin) error

// Options configure a Walker.
type Options struct {
	// Deadline bounds the total walk duration. Zero means unlimited.
	Deadline time.Duration

	// ExcludedDirs are directory names to prune, appended to
	// DefaultExcludedDirs.
	ExcludedDirs []string

	// DotDirAllowlist are dot-directory names to descend into anyway,
	// appended to DefaultDotDirAllowlist.
	DotDirAllowlist []string

	// ExcludedFiles are glob patterns matched against file basenames.
	ExcludedFiles []string

	// IncludePrivateKeys enables selection of private-key files.
	IncludePrivateKeys bool

	// MaxFileSize skips files larger than this many bytes. Zero means
	// unlimited.
	MaxFileSize int64

	// PrivateKeyPatterns overrides the built-in private-key filename and
	// suffix sets. Nil selects the defaults.
	PrivateKeyPatterns *PrivateKeyPatterns
}

// Walker yields files worth extracting secrets from.
type Walker struct {
	opts      Options
	excluded  map[string]struct{}
	allowlist map[string]struct{}
	patterns  *PrivateKeyPatterns
}

// NewWalker builds a Walker. Configured directory names extend the default
// sets, they never replace them.
func NewWalker(opts Options) *Walker {
	w := &Walker{
		opts:      opts,
		excluded:  map[string]struct{}{},
		allowlist: map[string]struct{}{},
		patterns:  opts.PrivateKeyPatterns,
	}
	for _, name := range DefaultExcludedDirs {
		w.excluded[name] = struct{}{}
	}
	for _, name := range opts.ExcludedDirs {
		w.excluded[name] = struct{}{}
	}
	for _, name := range DefaultDotDirAllowlist {
		w.allowlist[name] = struct{}{}
	}
	for _, name := range opts.DotDirAllowlist {
		w.allowlist[name] = struct{}{}
	}
	if w.patterns == nil {
		w.patterns = DefaultPrivateKeyPatterns()
	}

	return w
}

// Walk traverses root pre-order and invokes fn for every selected file. The
// deadline is checked before each directory is opened and again after each
// selected file has been handled, so a slow callback cannot stall the walk
// past its deadline unnoticed. Returns ErrDeadlineReached or ErrInterrupted
// on early stops, nil when the tree is exhausted.
func (w *Walker) Walk(ctx context.Context, root string, fn WalkFunc) error {
	start := time.Now()

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable path")
			return nil
		}

		if d.IsDir() {
			if ctx.Err() != nil {
				return ErrInterrupted
			}
			if w.deadlineExceeded(start) {
				return ErrDeadlineReached
			}
			if path != root && w.shouldSkipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		origin, ok := w.Classify(path)
		if !ok {
			return nil
		}

		if w.opts.MaxFileSize > 0 {
			if info, infoErr := d.Info(); infoErr == nil && info.Size() > w.opts.MaxFileSize {
				log.Debug().Str("path", path).Int64("size", info.Size()).Msg("Skipping oversized file")
				return nil
			}
		}

		if err := fn(path, origin); err != nil {
			return err
		}

		if ctx.Err() != nil {
			return ErrInterrupted
		}
		if w.deadlineExceeded(start) {
			return ErrDeadlineReached
		}
		return nil
	})
}

func (w *Walker) deadlineExceeded(start time.Time) bool {
	return w.opts.Deadline > 0 && time.Since(start) >= w.opts.Deadline
}

// shouldSkipDir prunes dot-directories (except .env* names and the
// allowlist) and explicitly excluded names.
func (w *Walker) shouldSkipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		if strings.HasPrefix(name, ".env") {
			return false
		}
		_, allowed := w.allowlist[name]
		return !allowed
	}
	_, excluded := w.excluded[name]
	return excluded
}

// Classify decides whether a file is worth extracting from and under which
// source kind. Selection is purely name-based.
func (w *Walker) Classify(path string) (provenance.Origin, bool) {
	name := filepath.Base(path)

	for _, pattern := range w.opts.ExcludedFiles {
		if matched, _ := filepath.Match(pattern, name); matched {
			return provenance.Origin{}, false
		}
	}

	switch {
	case name == ".npmrc":
		return provenance.Origin{Kind: provenance.SourceNpmrc, Path: path}, true
	case strings.HasPrefix(name, ".env") && !strings.Contains(name, "example"):
		return provenance.Origin{Kind: provenance.SourceEnvFile, Path: path}, true
	}

	if w.opts.IncludePrivateKeys && w.patterns.Match(name) {
		return provenance.Origin{Kind: provenance.SourcePrivateKey, Path: path}, true
	}

	return provenance.Origin{}, false
}
