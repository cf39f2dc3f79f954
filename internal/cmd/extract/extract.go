package extract

import (
	"fmt"
	"os"

	pkgextract "github.com/leakscout/leakscout/pkg/extract"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var file string

func NewExtractCmd() *cobra.Command {
	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract candidate secret values from a single file",
		Long: `Run the line-oriented value extractor over one file and print what a scan
would gather from it. Nothing leaves the machine, this is a debugging aid
for tuning what gets checked.`,
		Example: `
# See which values a scan would pick up from an env file
leakscout extract --file ~/.env.production
		`,
		Run: Extract,
	}

	extractCmd.Flags().StringVarP(&file, "file", "f", "", "File to extract values from")
	err := extractCmd.MarkFlagRequired("file")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed marking file required")
	}

	return extractCmd
}

func Extract(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(file)
	if err != nil {
		log.Fatal().Err(err).Str("path", file).Msg("Failed reading file")
	}

	values := pkgextract.Values(string(data))
	log.Info().Int("count", len(values)).Str("path", file).Msg("Extracted values")

	for _, value := range values {
		fmt.Println(value)
	}
}
