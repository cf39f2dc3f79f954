package logging

import (
	"sync"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ShortcutStatusFN builds the event emitted when the status shortcut fires.
// The gatherer registers one reporting traversal progress.
type ShortcutStatusFN func() *zerolog.Event

var (
	statusHookMutex sync.RWMutex
	statusHook      ShortcutStatusFN
)

// RegisterStatusHook installs the status function for the current run,
// replacing any previous one.
func RegisterStatusHook(hook ShortcutStatusFN) {
	statusHookMutex.Lock()
	defer statusHookMutex.Unlock()
	statusHook = hook
}

// GetStatusHook returns the registered status hook or a default one.
func GetStatusHook() ShortcutStatusFN {
	statusHookMutex.RLock()
	defer statusHookMutex.RUnlock()
	if statusHook != nil {
		return statusHook
	}
	return defaultStatusHook
}

func defaultStatusHook() *zerolog.Event {
	return log.Info().Str("status", "no gathering in progress")
}

// ShortcutListeners hooks runtime keyboard shortcuts: t/d/i/w/e switch the
// global log level, s emits the registered status event. Runs until the
// terminal sends Ctrl-C or Escape.
func ShortcutListeners() {
	err := keyboard.Listen(func(key keys.Key) (stop bool, err error) {
		switch key.Code {
		case keys.CtrlC, keys.Escape:
			return true, nil
		case keys.RuneKey:
			switch key.String() {
			case "t":
				setLevel(zerolog.TraceLevel)
			case "d":
				setLevel(zerolog.DebugLevel)
			case "i":
				setLevel(zerolog.InfoLevel)
			case "w":
				setLevel(zerolog.WarnLevel)
			case "e":
				setLevel(zerolog.ErrorLevel)
			case "s":
				GetStatusHook()().Msg("Status")
			}
		}

		return false, nil
	})

	if err != nil {
		log.Error().Err(err).Msg("Failed hooking keyboard bindings")
	}
}

func setLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	log.Info().Str("logLevel", level.String()).Msg("New Log level")
}
