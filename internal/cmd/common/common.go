// Package common provides logging, terminal and configuration plumbing
// shared by leakscout commands.
package common

import (
	"bytes"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/leakscout/leakscout/pkg/httpclient"
	"github.com/leakscout/leakscout/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Version information - set via ldflags during build
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Log configuration
var (
	originalTermState *term.State
	JsonLogoutput     bool
	LogFile           string
	LogColor          bool
	LogDebug          bool
	LogLevel          string
	IgnoreProxy       bool
)

// TerminalRestorer is a function that can be called to restore terminal state
var TerminalRestorer func()

// CustomWriter wraps an output writer with proper cross-platform newline handling
type CustomWriter struct {
	Writer io.Writer
}

func (cw *CustomWriter) Write(p []byte) (n int, err error) {
	originalLen := len(p)

	if bytes.HasSuffix(p, []byte("\n")) {
		p = bytes.TrimSuffix(p, []byte("\n"))
	}

	// necessary as to: https://github.com/rs/zerolog/blob/master/log.go#L474
	newlineChars := []byte("\n")
	if runtime.GOOS == "windows" {
		newlineChars = []byte("\n\r")
	}

	modified := append(p, newlineChars...)

	written, err := cw.Writer.Write(modified)
	if err != nil {
		return 0, err
	}

	if written != len(modified) {
		return 0, io.ErrShortWrite
	}

	return originalLen, nil
}

// FatalHook is a zerolog hook that restores terminal state before fatal exits
type FatalHook struct{}

func (h FatalHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	if level == zerolog.FatalLevel {
		if TerminalRestorer != nil {
			TerminalRestorer()
		}
	}
}

// SaveTerminalState saves the current terminal state for later restoration
func SaveTerminalState() {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		state, err := term.GetState(int(os.Stdin.Fd()))
		if err == nil {
			originalTermState = state
		}
	}
}

// RestoreTerminalState restores the terminal to its saved state
func RestoreTerminalState() {
	if originalTermState != nil {
		_ = term.Restore(int(os.Stdin.Fd()), originalTermState)
	}
}

// InitLogger initializes the zerolog logger with the configured options
func InitLogger(cmd *cobra.Command) {
	defaultOut := &CustomWriter{Writer: os.Stdout}
	colorEnabled := LogColor

	if LogFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   LogFile,
			MaxSize:    viper.GetInt(logMaxSizeKey),
			MaxBackups: viper.GetInt(logMaxBackupsKey),
			MaxAge:     viper.GetInt(logMaxAgeKey),
			Compress:   viper.GetBool(logCompressKey),
		}
		defaultOut = &CustomWriter{Writer: rotated}

		rootFlags := cmd.Root().PersistentFlags()
		if !rootFlags.Changed("color") {
			colorEnabled = false
		}
	}

	fatalHook := FatalHook{}

	if JsonLogoutput {
		// For JSON output, wrap with LeakLevelWriter to transform the level field
		leakWriter := &logging.LeakLevelWriter{}
		leakWriter.SetOutput(defaultOut)
		logging.SetGlobalLeakWriter(leakWriter)
		log.Logger = zerolog.New(leakWriter).With().Timestamp().Logger().Hook(fatalHook)
	} else {
		// For console output, use custom FormatLevel to color the leak level
		output := zerolog.ConsoleWriter{
			Out:         defaultOut,
			TimeFormat:  time.RFC3339,
			NoColor:     !colorEnabled,
			FormatLevel: formatLevelWithLeakColor(colorEnabled),
		}
		// Wrap with LeakLevelWriter to transform JSON before ConsoleWriter processes it
		leakWriter := &logging.LeakLevelWriter{}
		leakWriter.SetOutput(&output)
		logging.SetGlobalLeakWriter(leakWriter)
		log.Logger = zerolog.New(leakWriter).With().Timestamp().Logger().Hook(fatalHook)
	}
}

// formatLevelWithLeakColor returns a custom level formatter that adds a distinct color for the "leak" level.
// The leak level uses magenta (color 35) to distinguish it from other log levels.
func formatLevelWithLeakColor(colorEnabled bool) zerolog.Formatter {
	return func(i interface{}) string {
		var level string
		if ll, ok := i.(string); ok {
			level = ll
		} else {
			return ""
		}

		if !colorEnabled {
			return level
		}

		// Custom color for leak level - using bright magenta (35) to stand out
		if level == "leak" {
			return "\x1b[35m" + level + "\x1b[0m"
		}

		// Use zerolog's default colors for other levels
		switch level {
		case "trace":
			return "\x1b[90m" + level + "\x1b[0m"
		case "debug":
			return level
		case "info":
			return "\x1b[32m" + level + "\x1b[0m"
		case "warn":
			return "\x1b[33m" + level + "\x1b[0m"
		case "error":
			return "\x1b[31m" + level + "\x1b[0m"
		case "fatal":
			return "\x1b[31m" + level + "\x1b[0m"
		case "panic":
			return "\x1b[31m" + level + "\x1b[0m"
		default:
			return level
		}
	}
}

// SetGlobalLogLevel sets the global log level based on the configured
// options. "leak" is accepted as a level so a run can be quieted down to
// findings only.
func SetGlobalLogLevel(cmd *cobra.Command) {
	if LogLevel != "" {
		level, err := logging.ParseLevel(LogLevel)
		if err != nil {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			log.Warn().Str("logLevelSpecified", LogLevel).Msg("Invalid log level, defaulting to info")
			return
		}
		zerolog.SetGlobalLevel(level)
		log.Info().Str("logLevel", LogLevel).Msg("Log level set explicitly")
		return
	}

	if LogDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Debug().Msg("Log level set to debug (-v)")
		return
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Info().Msg("Log level set to info (default)")
}

// AddCommonFlags adds the common logging and output flags to a cobra command
func AddCommonFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&JsonLogoutput, "json", "", false, "Use JSON as log output format")
	cmd.PersistentFlags().StringVarP(&LogFile, "logfile", "l", "", "Log output to a rotated file")
	cmd.PersistentFlags().BoolVarP(&LogDebug, "verbose", "v", false, "Enable debug logging (shortcut for --log-level=debug)")
	cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Set log level globally (trace, debug, info, warn, error, leak). Example: --log-level=warn")
	cmd.PersistentFlags().BoolVar(&LogColor, "color", true, "Enable colored log output (auto-disabled when using --logfile)")
	cmd.PersistentFlags().BoolVar(&IgnoreProxy, "ignore-proxy", false, "Ignore HTTP_PROXY environment variable")
}

// SetupPersistentPreRun sets up the PersistentPreRun handler for logging initialization
func SetupPersistentPreRun(cmd *cobra.Command) {
	cmd.PersistentPreRun = func(c *cobra.Command, args []string) {
		InitLogger(c)
		SetGlobalLogLevel(c)
		httpclient.SetIgnoreProxy(IgnoreProxy)
		go logging.ShortcutListeners()
	}
}

// Run executes the common startup sequence and runs the provided root command
func Run(rootCmd *cobra.Command) {
	SaveTerminalState()
	defer RestoreTerminalState()

	TerminalRestorer = RestoreTerminalState

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
