// Package hmsl is the boundary to the external HasMySecretLeaked checker.
// Values are handed to ggshield in hashed key mode, so only hashes and the
// opaque key names ever cross the process boundary.
package hmsl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/tidwall/gjson"
)

const installURL = "https://github.com/GitGuardian/ggshield#installation"

// ErrUnparseable reports checker output the JSON parser could not make
// sense of. Callers fall back to the cleartext mode for diagnostics.
var ErrUnparseable = errors.New("could not parse ggshield output")

// Leak is one finding reported by the checker.
type Leak struct {
	Name  string
	Hash  string
	Count int64
	URL   string
}

// Verdict is the checker's parsed answer.
type Verdict struct {
	LeaksCount int64
	Leaks      []Leak
}

// LookupBinary fails when ggshield is not installed. Run before gathering
// anything, a missing checker renders the whole run pointless.
func LookupBinary() error {
	if _, err := exec.LookPath("ggshield"); err != nil {
		return fmt.Errorf("ggshield not found on PATH, install it first: %s", installURL)
	}
	return nil
}

// Check runs ggshield over the values file in hashed key mode and parses
// the JSON verdict from stdout. The exit status is ignored on purpose:
// ggshield signals findings through it, the verdict is on stdout.
func Check(ctx context.Context, valuesFile string) (*Verdict, error) {
	cmd := exec.CommandContext(ctx, "ggshield", "hmsl", "check", valuesFile, "--type", "env", "-n", "key", "--json")
	out, err := cmd.Output()
	if len(out) == 0 {
		if err != nil {
			return nil, fmt.Errorf("running ggshield: %w", err)
		}
		return nil, ErrUnparseable
	}
	return parseVerdict(string(out))
}

func parseVerdict(out string) (*Verdict, error) {
	if !gjson.Valid(out) {
		return nil, ErrUnparseable
	}
	root := gjson.Parse(out)
	if !root.IsObject() {
		return nil, ErrUnparseable
	}

	verdict := &Verdict{LeaksCount: root.Get("leaks_count").Int()}
	root.Get("leaks").ForEach(func(_, leak gjson.Result) bool {
		verdict.Leaks = append(verdict.Leaks, Leak{
			Name:  leak.Get("name").String(),
			Hash:  leak.Get("hash").String(),
			Count: leak.Get("count").Int(),
			URL:   leak.Get("url").String(),
		})
		return true
	})
	return verdict, nil
}

// CheckCleartext re-runs the checker in human-readable mode, streamed
// straight to the terminal. Diagnostic fallback for unparseable verdicts.
func CheckCleartext(ctx context.Context, valuesFile string) error {
	cmd := exec.CommandContext(ctx, "ggshield", "hmsl", "check", valuesFile, "-n", "cleartext")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
