// Package cmd assembles the leakscout command tree.
package cmd

import (
	"github.com/leakscout/leakscout/internal/cmd/common"
	"github.com/leakscout/leakscout/internal/cmd/docs"
	"github.com/leakscout/leakscout/internal/cmd/doctor"
	"github.com/leakscout/leakscout/internal/cmd/extract"
	"github.com/leakscout/leakscout/internal/cmd/scan"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leakscout [command]",
		Short: "🔎🔎 Check whether your local secrets already leaked publicly 🔎🔎",
		Long: `Leakscout gathers credential-like values from this machine and checks them
against GitGuardian's HasMySecretLeaked database through ggshield. Only key
prefixes of hashes ever leave the machine, never the values themselves.`,
	}
	rootCmd.Version = common.Version

	common.InitConfig()
	common.SetupPersistentPreRun(rootCmd)
	common.AddCommonFlags(rootCmd)

	rootCmd.AddCommand(scan.NewScanCmd())
	rootCmd.AddCommand(extract.NewExtractCmd())
	rootCmd.AddCommand(doctor.NewDoctorCmd())
	rootCmd.AddCommand(docs.NewDocsCmd(rootCmd))

	rootCmd.SetVersionTemplate(`{{.Version}}
`)

	return rootCmd
}
