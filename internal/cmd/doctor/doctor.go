package doctor

import (
	"context"

	pkgdoctor "github.com/leakscout/leakscout/pkg/doctor"
	"github.com/spf13/cobra"
)

var offline bool

func NewDoctorCmd() *cobra.Command {
	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that everything a scan needs is in place",
		Long: `Verify the external binaries a scan depends on: ggshield (required) and the
gh CLI (optional, enables the GitHub token source). Unless --offline is set,
also look up the latest published ggshield version and flag an available
update.`,
		Example: `
# Full preflight including the version lookup
leakscout doctor

# Binary checks only, no network access
leakscout doctor --offline
		`,
		Run: Doctor,
	}

	doctorCmd.Flags().BoolVar(&offline, "offline", false, "Skip release lookups, check local binaries only")

	return doctorCmd
}

func Doctor(cmd *cobra.Command, args []string) {
	pkgdoctor.Run(context.Background(), offline)
}
