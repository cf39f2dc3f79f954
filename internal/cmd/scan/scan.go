package scan

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/leakscout/leakscout/internal/cmd/common"
	"github.com/leakscout/leakscout/pkg/classify"
	"github.com/leakscout/leakscout/pkg/config"
	"github.com/leakscout/leakscout/pkg/format"
	"github.com/leakscout/leakscout/pkg/gather"
	"github.com/leakscout/leakscout/pkg/hmsl"
	"github.com/leakscout/leakscout/pkg/provenance"
	"github.com/leakscout/leakscout/pkg/walk"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	rootConfigKey                 = "scan.root"
	minCharsConfigKey             = "scan.min_chars"
	timeoutConfigKey              = "scan.timeout"
	keepTempFileConfigKey         = "scan.keep_temp_file"
	maxPublicOccurrencesConfigKey = "scan.max_public_occurrences"
	includePrivateKeysConfigKey   = "scan.include_private_keys"
	patternsFileConfigKey         = "scan.patterns_file"
	classifyConfigKey             = "scan.classify"
	maxFileSizeConfigKey          = "scan.max_file_size"
	progressIntervalConfigKey     = "scan.progress_interval"
	excludeDirsConfigKey          = "scan.exclude_dirs"
	allowDotDirsConfigKey         = "scan.allow_dot_dirs"
	excludeFilesConfigKey         = "scan.exclude_files"
)

var options = config.DefaultScanOptions()
var maxFileSize string
var timeoutSeconds int

func NewScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Check your local secrets against public leaks",
		Long: `Gather credential-like values from this machine and check them against the
HasMySecretLeaked database through ggshield.

Sources: environment variables, the gh CLI token, ~/.npmrc, .env files and
(optionally) private key files beneath the scan root. Only key prefixes of
hashes ever leave the machine, never the values themselves.`,
		Example: `
# Check everything below your home directory
leakscout scan

# Bound the gathering phase to one minute and skip build output
leakscout scan --timeout 60 --exclude-dir dist --exclude-dir build

# Include private key files and label leaked values locally
leakscout scan --include-private-keys --classify
		`,
		Run: Scan,
	}

	defaults := config.DefaultScanOptions()
	viper.SetDefault(rootConfigKey, defaults.Root)
	viper.SetDefault(minCharsConfigKey, defaults.MinChars)
	viper.SetDefault(timeoutConfigKey, 0)
	viper.SetDefault(keepTempFileConfigKey, defaults.KeepTempFile)
	viper.SetDefault(maxPublicOccurrencesConfigKey, defaults.MaxPublicOccurrences)
	viper.SetDefault(includePrivateKeysConfigKey, defaults.IncludePrivateKeys)
	viper.SetDefault(patternsFileConfigKey, "")
	viper.SetDefault(classifyConfigKey, defaults.Classify)
	viper.SetDefault(maxFileSizeConfigKey, "1Mb")
	viper.SetDefault(progressIntervalConfigKey, defaults.ProgressInterval)
	viper.SetDefault(excludeDirsConfigKey, []string{})
	viper.SetDefault(allowDotDirsConfigKey, []string{})
	viper.SetDefault(excludeFilesConfigKey, []string{})

	scanCmd.Flags().StringVarP(&options.Root, "root", "r", viper.GetString(rootConfigKey), "Directory to gather secret-bearing files from")
	common.BindFlagToConfig(scanCmd.Flags().Lookup("root"), rootConfigKey)

	scanCmd.Flags().IntVar(&options.MinChars, "min-chars", viper.GetInt(minCharsConfigKey), "Skip gathered values shorter than this many characters")
	common.BindFlagToConfig(scanCmd.Flags().Lookup("min-chars"), minCharsConfigKey)

	scanCmd.Flags().IntVar(&timeoutSeconds, "timeout", viper.GetInt(timeoutConfigKey), "Max. duration of the gathering phase in seconds (0 = unlimited)")
	common.BindFlagToConfig(scanCmd.Flags().Lookup("timeout"), timeoutConfigKey)

	scanCmd.Flags().BoolVar(&options.KeepTempFile, "keep-temp-file", viper.GetBool(keepTempFileConfigKey), "Keep the gathered-values file on disk after the check")
	common.BindFlagToConfig(scanCmd.Flags().Lookup("keep-temp-file"), keepTempFileConfigKey)

	scanCmd.Flags().Int64Var(&options.MaxPublicOccurrences, "max-public-occurrences", viper.GetInt64(maxPublicOccurrencesConfigKey), "Hide leaks seen at least this often in public sources (likely placeholders)")
	common.BindFlagToConfig(scanCmd.Flags().Lookup("max-public-occurrences"), maxPublicOccurrencesConfigKey)

	scanCmd.Flags().BoolVar(&options.IncludePrivateKeys, "include-private-keys", viper.GetBool(includePrivateKeysConfigKey), "Also gather private key files (id_rsa, *.pem, ...)")
	common.BindFlagToConfig(scanCmd.Flags().Lookup("include-private-keys"), includePrivateKeysConfigKey)

	scanCmd.Flags().StringVar(&options.PatternsFile, "patterns-file", viper.GetString(patternsFileConfigKey), "YAML file with extra private key filenames and suffixes")
	common.BindFlagToConfig(scanCmd.Flags().Lookup("patterns-file"), patternsFileConfigKey)

	scanCmd.Flags().BoolVar(&options.Classify, "classify", viper.GetBool(classifyConfigKey), "Label leaked values with local detectors (nothing is verified online)")
	common.BindFlagToConfig(scanCmd.Flags().Lookup("classify"), classifyConfigKey)

	scanCmd.Flags().StringVar(&maxFileSize, "max-file-size", viper.GetString(maxFileSizeConfigKey), "Max. file size to gather e.g. 500Kb, 2Mb")
	common.BindFlagToConfig(scanCmd.Flags().Lookup("max-file-size"), maxFileSizeConfigKey)

	scanCmd.Flags().DurationVar(&options.ProgressInterval, "progress-interval", viper.GetDuration(progressIntervalConfigKey), "Min. time between gathering progress logs")
	common.BindFlagToConfig(scanCmd.Flags().Lookup("progress-interval"), progressIntervalConfigKey)

	scanCmd.Flags().StringArrayVar(&options.ExcludedDirs, "exclude-dir", viper.GetStringSlice(excludeDirsConfigKey), "Directory name never descended into, in addition to the defaults (can be repeated)")
	common.BindFlagToConfig(scanCmd.Flags().Lookup("exclude-dir"), excludeDirsConfigKey)

	scanCmd.Flags().StringArrayVar(&options.DotDirAllowlist, "allow-dot-dir", viper.GetStringSlice(allowDotDirsConfigKey), "Dot-directory name descended into anyway, in addition to the defaults (can be repeated)")
	common.BindFlagToConfig(scanCmd.Flags().Lookup("allow-dot-dir"), allowDotDirsConfigKey)

	scanCmd.Flags().StringArrayVar(&options.ExcludedFiles, "exclude-file", viper.GetStringSlice(excludeFilesConfigKey), "Glob pattern for file basenames to skip (can be repeated)")
	common.BindFlagToConfig(scanCmd.Flags().Lookup("exclude-file"), excludeFilesConfigKey)

	scanCmd.Flags().BoolVar(&options.GatherOnly, "gather-only", false, "Stop after writing the values file, do not run the check")

	return scanCmd
}

func Scan(cmd *cobra.Command, args []string) {
	if !options.GatherOnly {
		if err := hmsl.LookupBinary(); err != nil {
			log.Fatal().Err(err).Msg("Preflight failed")
		}
	}

	root, err := format.ExpandHome(options.Root)
	if err != nil {
		log.Fatal().Err(err).Str("root", options.Root).Msg("Failed resolving the scan root")
	}
	options.Root = root

	if err := config.ValidateRoot(options.Root); err != nil {
		log.Fatal().Err(err).Msg("Invalid scan root")
	}
	if err := config.ValidateMinChars(options.MinChars); err != nil {
		log.Fatal().Err(err).Msg("Invalid min-chars flag")
	}
	if err := config.ValidateTimeout(timeoutSeconds); err != nil {
		log.Fatal().Err(err).Msg("Invalid timeout flag")
	}
	if err := config.ValidateProgressInterval(options.ProgressInterval); err != nil {
		log.Fatal().Err(err).Msg("Invalid progress-interval flag")
	}
	options.Timeout = time.Duration(timeoutSeconds) * time.Second

	byteSize, err := config.ParseMaxFileSize(maxFileSize)
	if err != nil {
		log.Fatal().Err(err).Str("size", maxFileSize).Msg("Failed parsing max-file-size flag")
	}
	options.MaxFileSize = byteSize

	var patterns *walk.PrivateKeyPatterns
	if options.PatternsFile != "" {
		patterns, err = walk.LoadPrivateKeyPatterns(options.PatternsFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", options.PatternsFile).Msg("Failed loading private key patterns")
		}
	}

	logSettings()

	walkOpts := walk.Options{
		Deadline:           options.Timeout,
		ExcludedDirs:       options.ExcludedDirs,
		DotDirAllowlist:    options.DotDirAllowlist,
		ExcludedFiles:      options.ExcludedFiles,
		IncludePrivateKeys: options.IncludePrivateKeys,
		MaxFileSize:        options.MaxFileSize,
		PrivateKeyPatterns: patterns,
	}

	gatherCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := gather.NewGatherer(gather.Options{
		Root:             options.Root,
		Walk:             walkOpts,
		ProgressInterval: options.ProgressInterval,
	}).Gather(gatherCtx)
	stop()
	if err != nil {
		log.Fatal().Err(err).Msg("Gathering failed")
	}

	logGatherSummary(result)

	if result.Values.Len() == 0 {
		log.Info().Msg("No values gathered, nothing to check")
		return
	}

	valuesFile := filepath.Join(os.TempDir(), hmsl.ValuesFileName)
	written, filtered, err := hmsl.WriteValuesFile(valuesFile, result.Values, options.MinChars)
	if err != nil {
		log.Fatal().Err(err).Str("path", valuesFile).Msg("Failed writing the values file")
	}

	if options.GatherOnly {
		log.Info().Int("values", written).Int("filtered", filtered).Str("path", valuesFile).Msg("Values file written, skipping the check")
		return
	}

	if options.KeepTempFile {
		log.Info().Str("path", valuesFile).Msg("Keeping the values file around")
	} else {
		defer func() {
			if err := hmsl.RemoveValuesFile(valuesFile); err != nil {
				log.Warn().Err(err).Str("path", valuesFile).Msg("Failed removing the values file")
			}
		}()
	}

	if written == 0 {
		log.Info().Int("filtered", filtered).Msg("All gathered values were filtered out, nothing to check")
		return
	}

	log.Info().Int("values", written).Int("filtered", filtered).Msg("Checking values against HasMySecretLeaked")

	checkCtx := context.Background()
	verdict, err := hmsl.Check(checkCtx, valuesFile)
	if err != nil {
		if errors.Is(err, hmsl.ErrUnparseable) {
			log.Error().Msg("Could not make sense of the ggshield output")
			if zerolog.GlobalLevel() <= zerolog.DebugLevel {
				log.Info().Msg("Re-running the check in cleartext mode for inspection")
				if err := hmsl.CheckCleartext(checkCtx, valuesFile); err != nil {
					log.Error().Err(err).Msg("Cleartext run failed as well")
				}
			} else {
				log.Info().Msg("Run again with -v to see the raw checker output")
			}
			return
		}
		log.Error().Err(err).Msg("Checking failed")
		return
	}

	reportOpts := hmsl.ReportOptions{MaxPublicOccurrences: options.MaxPublicOccurrences}
	if options.Classify {
		classifier := classify.New(result.Values)
		reportOpts.Classify = func(name string) []string {
			return classifier.Labels(checkCtx, name)
		}
	}

	hmsl.Report(verdict, reportOpts)
}

type effectiveSettings struct {
	Root                 string   `yaml:"root"`
	MinChars             int      `yaml:"min_chars"`
	TimeoutSeconds       int      `yaml:"timeout_seconds"`
	KeepTempFile         bool     `yaml:"keep_temp_file"`
	MaxPublicOccurrences int64    `yaml:"max_public_occurrences"`
	IncludePrivateKeys   bool     `yaml:"include_private_keys"`
	PatternsFile         string   `yaml:"patterns_file,omitempty"`
	Classify             bool     `yaml:"classify"`
	GatherOnly           bool     `yaml:"gather_only"`
	MaxFileSize          string   `yaml:"max_file_size"`
	ProgressInterval     string   `yaml:"progress_interval"`
	ExcludedDirs         []string `yaml:"exclude_dirs,omitempty"`
	DotDirAllowlist      []string `yaml:"allow_dot_dirs,omitempty"`
	ExcludedFiles        []string `yaml:"exclude_files,omitempty"`
}

func logSettings() {
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}

	raw, err := yaml.Marshal(effectiveSettings{
		Root:                 format.ContractHome(options.Root),
		MinChars:             options.MinChars,
		TimeoutSeconds:       timeoutSeconds,
		KeepTempFile:         options.KeepTempFile,
		MaxPublicOccurrences: options.MaxPublicOccurrences,
		IncludePrivateKeys:   options.IncludePrivateKeys,
		PatternsFile:         options.PatternsFile,
		Classify:             options.Classify,
		GatherOnly:           options.GatherOnly,
		MaxFileSize:          format.HumanSize(options.MaxFileSize),
		ProgressInterval:     options.ProgressInterval.String(),
		ExcludedDirs:         options.ExcludedDirs,
		DotDirAllowlist:      options.DotDirAllowlist,
		ExcludedFiles:        options.ExcludedFiles,
	})
	if err != nil {
		return
	}

	pretty, err := format.PrettyPrintYAML(string(raw))
	if err != nil {
		return
	}

	log.Debug().Msg("Effective settings:" + format.GetPlatformAgnosticNewline() + pretty)
}

func logGatherSummary(result gather.Result) {
	log.Info().
		Int("values", result.Values.Len()).
		Int("files", result.Stats.FilesProcessed).
		Int("envVars", result.Stats.EnvVars).
		Bool("githubToken", result.Stats.GithubToken).
		Int("npmrcFiles", result.Stats.NpmrcFound).
		Int("envFiles", result.Stats.EnvFilesFound).
		Int("privateKeys", result.Stats.PrivateKeysFound).
		Str("elapsed", result.Stats.Elapsed.Round(time.Second).String()).
		Msg("Gathering finished")

	counts := gather.ValuesByKind(result.Values)
	log.Debug().
		Int("environment", counts[provenance.SourceEnvVar]).
		Int("githubToken", counts[provenance.SourceGithubToken]).
		Int("npmrc", counts[provenance.SourceNpmrc]).
		Int("envFile", counts[provenance.SourceEnvFile]).
		Int("privateKey", counts[provenance.SourcePrivateKey]).
		Msg("Gathered values by source")
}
