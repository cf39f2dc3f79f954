package common

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/leakscout/leakscout/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func platformNewline() string {
	if runtime.GOOS == "windows" {
		return "\n\r"
	}
	return "\n"
}

func TestCustomWriter(t *testing.T) {
	t.Run("normalizes_trailing_newline", func(t *testing.T) {
		var buf bytes.Buffer
		cw := &CustomWriter{Writer: &buf}

		n, err := cw.Write([]byte("hello\n"))
		require.NoError(t, err)

		assert.Equal(t, 6, n, "should report the original length")
		assert.Equal(t, "hello"+platformNewline(), buf.String())
	})

	t.Run("appends_newline_when_missing", func(t *testing.T) {
		var buf bytes.Buffer
		cw := &CustomWriter{Writer: &buf}

		n, err := cw.Write([]byte("hello"))
		require.NoError(t, err)

		assert.Equal(t, 5, n)
		assert.Equal(t, "hello"+platformNewline(), buf.String())
	})
}

func TestTerminalRestorer(t *testing.T) {
	t.Run("TerminalRestorer_can_be_set", func(t *testing.T) {
		// Save original value
		originalRestorer := TerminalRestorer
		defer func() { TerminalRestorer = originalRestorer }()

		called := false
		TerminalRestorer = func() {
			called = true
		}

		TerminalRestorer()
		assert.True(t, called, "TerminalRestorer should be callable")
	})

	t.Run("TerminalRestorer_nil_safe", func(t *testing.T) {
		// Save original value
		originalRestorer := TerminalRestorer
		defer func() { TerminalRestorer = originalRestorer }()

		TerminalRestorer = nil
		// Should not panic
		assert.NotPanics(t, func() {
			if TerminalRestorer != nil {
				TerminalRestorer()
			}
		})
	})
}

func TestFatalHook(t *testing.T) {
	originalRestorer := TerminalRestorer
	defer func() { TerminalRestorer = originalRestorer }()

	called := false
	TerminalRestorer = func() {
		called = true
	}

	hook := FatalHook{}

	hook.Run(nil, zerolog.FatalLevel, "boom")
	assert.True(t, called, "fatal level should restore the terminal")

	called = false
	hook.Run(nil, zerolog.InfoLevel, "fine")
	assert.False(t, called, "non-fatal levels should not restore the terminal")
}

func TestAddCommonFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	AddCommonFlags(cmd)

	flags := cmd.PersistentFlags()
	for _, name := range []string{"json", "logfile", "verbose", "log-level", "color", "ignore-proxy"} {
		assert.NotNil(t, flags.Lookup(name), "expected %q flag to exist", name)
	}

	assert.Equal(t, "v", flags.Lookup("verbose").Shorthand)
	assert.Equal(t, "l", flags.Lookup("logfile").Shorthand)
}

func TestInitConfigSetsLoggingDefaults(t *testing.T) {
	InitConfig()

	assert.Equal(t, defaultLogMaxSize, viper.GetInt(logMaxSizeKey))
	assert.Equal(t, defaultLogMaxBackups, viper.GetInt(logMaxBackupsKey))
	assert.Equal(t, defaultLogMaxAge, viper.GetInt(logMaxAgeKey))
	assert.Equal(t, defaultLogCompress, viper.GetBool(logCompressKey))
}

func TestBindFlagToConfig(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var value string
	cmd.Flags().StringVar(&value, "sample-flag", "default", "")

	BindFlagToConfig(cmd.Flags().Lookup("sample-flag"), "test.sample")

	require.NoError(t, cmd.Flags().Set("sample-flag", "changed"))
	assert.Equal(t, "changed", viper.GetString("test.sample"))
}

func TestSetGlobalLogLevel(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	defer func() {
		zerolog.SetGlobalLevel(originalLevel)
		LogLevel = ""
		LogDebug = false
	}()

	tests := []struct {
		name     string
		logLevel string
		logDebug bool
		expected zerolog.Level
	}{
		{"explicit debug", "debug", false, zerolog.DebugLevel},
		{"explicit leak", "leak", false, logging.LeakLevel},
		{"invalid falls back to info", "nonsense", false, zerolog.InfoLevel},
		{"verbose flag", "", true, zerolog.DebugLevel},
		{"default", "", false, zerolog.InfoLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			LogLevel = tc.logLevel
			LogDebug = tc.logDebug
			SetGlobalLogLevel(nil)
			assert.Equal(t, tc.expected, zerolog.GlobalLevel())
		})
	}
}
