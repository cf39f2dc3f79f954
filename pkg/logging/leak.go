package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LeakLevel defines a custom log level for confirmed leak findings.
// Implemented as WarnLevel but transformed to "leak" in output.
const LeakLevel zerolog.Level = zerolog.WarnLevel

// LeakLevelWriter wraps an io.Writer to transform logs with "level":"warn" to "level":"leak".
type LeakLevelWriter struct {
	out        io.Writer
	mu         sync.Mutex
	nextIsLeak bool
}

func (w *LeakLevelWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	isLeak := w.nextIsLeak
	w.nextIsLeak = false
	w.mu.Unlock()

	if isLeak && len(p) > 0 {
		var logEntry map[string]interface{}
		if err := json.Unmarshal(p, &logEntry); err == nil {
			if logEntry["level"] == "warn" || logEntry["level"] == "error" {
				logEntry["level"] = "leak"
			}
			delete(logEntry, "_leak")

			if newBytes, err := json.Marshal(logEntry); err == nil {
				newBytes = append(newBytes, '\n')
				return w.out.Write(newBytes)
			}
		}
	}

	return w.out.Write(p)
}

func (w *LeakLevelWriter) markNextAsLeak() {
	w.mu.Lock()
	w.nextIsLeak = true
	w.mu.Unlock()
}

func (w *LeakLevelWriter) SetOutput(out io.Writer) {
	w.mu.Lock()
	w.out = out
	w.mu.Unlock()
}

// NewLeakLevelWriter creates a new LeakLevelWriter wrapping the given io.Writer.
func NewLeakLevelWriter(out io.Writer) *LeakLevelWriter {
	return &LeakLevelWriter{out: out}
}

// LeakEvent wraps a zerolog.Event for leak-level logging with "level":"leak" output.
type LeakEvent struct {
	event  *zerolog.Event
	writer *LeakLevelWriter
}

func (l *LeakEvent) Str(key, val string) *LeakEvent {
	l.event.Str(key, val)
	return l
}

func (l *LeakEvent) Int(key string, val int) *LeakEvent {
	l.event.Int(key, val)
	return l
}

func (l *LeakEvent) Bool(key string, val bool) *LeakEvent {
	l.event.Bool(key, val)
	return l
}

func (l *LeakEvent) Strs(key string, vals []string) *LeakEvent {
	l.event.Strs(key, vals)
	return l
}

func (l *LeakEvent) Err(err error) *LeakEvent {
	l.event.Err(err)
	return l
}

func (l *LeakEvent) Msg(msg string) {
	if l.writer != nil {
		l.writer.markNextAsLeak()
	}
	l.event.Bool("_leak", true).Msg(msg)
}

var globalLeakWriter *LeakLevelWriter
var globalLeakWriterOnce sync.Once

func setupGlobalLeakWriter() {
	globalLeakWriterOnce.Do(func() {
		out := os.Stderr
		globalLeakWriter = &LeakLevelWriter{out: out}
		log.Logger = zerolog.New(globalLeakWriter).With().Timestamp().Logger()
	})
}

// Leak creates a leak-level log event for findings.
// Always emitted regardless of global log level.
// Example: logging.Leak().Str("source", "Environment file").Msg("LEAK")
func Leak() *LeakEvent {
	if globalLeakWriter == nil {
		setupGlobalLeakWriter()
	}
	return &LeakEvent{
		event:  log.WithLevel(zerolog.ErrorLevel),
		writer: globalLeakWriter,
	}
}

// ParseLevel extends zerolog's ParseLevel to support "leak" level.
func ParseLevel(levelStr string) (zerolog.Level, error) {
	if levelStr == "leak" {
		return LeakLevel, nil
	}
	return zerolog.ParseLevel(levelStr)
}

// SetGlobalLeakWriter sets the global LeakLevelWriter (for testing only).
func SetGlobalLeakWriter(writer *LeakLevelWriter) {
	globalLeakWriter = writer
}
