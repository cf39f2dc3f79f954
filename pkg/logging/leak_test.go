package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestLeak(t *testing.T) {
	// Save original logger
	originalLogger := log.Logger
	defer func() { log.Logger = originalLogger }()

	// Capture log output
	var buf bytes.Buffer

	// Setup a new logger with our LeakLevelWriter
	leakWriter := NewLeakLevelWriter(&buf)
	logger := zerolog.New(leakWriter).With().Timestamp().Logger()

	// Set both the global logger and writer to prevent setupGlobalLeakWriter from interfering
	log.Logger = logger
	globalLeakWriter = leakWriter

	// Log a leak
	Leak().Str("source", "Environment file").Str("path", "/home/user/.env").Msg("LEAK")

	// Get the output
	output := buf.Bytes()
	if len(output) == 0 {
		t.Fatal("No output captured")
	}

	// Parse the output - take only the last valid JSON line
	lines := bytes.Split(output, []byte("\n"))
	var lastValidLine []byte
	for _, line := range lines {
		if len(line) > 0 {
			lastValidLine = line
		}
	}

	if len(lastValidLine) == 0 {
		t.Fatalf("No valid JSON line found in output: %s", string(output))
	}

	var logEntry map[string]interface{}
	err := json.Unmarshal(lastValidLine, &logEntry)
	if err != nil {
		t.Fatalf("Failed to parse log output: %v\nOutput: %s", err, string(lastValidLine))
	}

	// Verify the level is "leak"
	if logEntry["level"] != "leak" {
		t.Errorf("Expected level to be 'leak', got '%v'", logEntry["level"])
	}

	// Verify other fields
	if logEntry["source"] != "Environment file" {
		t.Errorf("Expected source to be 'Environment file', got '%v'", logEntry["source"])
	}

	if logEntry["path"] != "/home/user/.env" {
		t.Errorf("Expected path to be '/home/user/.env', got '%v'", logEntry["path"])
	}

	if logEntry["message"] != "LEAK" {
		t.Errorf("Expected message to be 'LEAK', got '%v'", logEntry["message"])
	}

	// Verify _leak marker is removed
	if _, exists := logEntry["_leak"]; exists {
		t.Error("Internal _leak marker should be removed from output")
	}
}

func TestLeakEvent_Int(t *testing.T) {
	var buf bytes.Buffer
	leakWriter := NewLeakLevelWriter(&buf)
	logger := zerolog.New(leakWriter).With().Logger()
	log.Logger = logger

	globalLeakWriter = leakWriter

	Leak().Int("publicOccurrences", 3).Msg("Test message")

	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		t.Fatalf("Failed to parse log output: %v", err)
	}

	if logEntry["level"] != "leak" {
		t.Errorf("Expected level 'leak', got '%v'", logEntry["level"])
	}

	// JSON numbers are float64
	if count, ok := logEntry["publicOccurrences"].(float64); !ok || count != 3 {
		t.Errorf("Expected publicOccurrences=3, got '%v'", logEntry["publicOccurrences"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  zerolog.Level
		expectErr bool
	}{
		{
			name:      "parse leak level",
			input:     "leak",
			expected:  LeakLevel,
			expectErr: false,
		},
		{
			name:      "parse debug level",
			input:     "debug",
			expected:  zerolog.DebugLevel,
			expectErr: false,
		},
		{
			name:      "parse info level",
			input:     "info",
			expected:  zerolog.InfoLevel,
			expectErr: false,
		},
		{
			name:      "parse warn level",
			input:     "warn",
			expected:  zerolog.WarnLevel,
			expectErr: false,
		},
		{
			name:      "parse invalid level",
			input:     "invalid",
			expected:  zerolog.NoLevel,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLevel(tt.input)

			if tt.expectErr && err == nil {
				t.Error("Expected error but got none")
			}

			if !tt.expectErr && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}

			if level != tt.expected {
				t.Errorf("Expected level %v, got %v", tt.expected, level)
			}
		})
	}
}

func TestLeakLevelWriter_Write(t *testing.T) {
	tests := []struct {
		name            string
		markAsLeak      bool
		input           string
		expectedLevel   string
		expectedHasMark bool
	}{
		{
			name:            "normal warn log",
			markAsLeak:      false,
			input:           `{"level":"warn","message":"test"}` + "\n",
			expectedLevel:   "warn",
			expectedHasMark: false,
		},
		{
			name:            "leak marked log",
			markAsLeak:      true,
			input:           `{"level":"warn","_leak":true,"message":"test"}` + "\n",
			expectedLevel:   "leak",
			expectedHasMark: false, // _leak should be removed
		},
		{
			name:            "leak marked error log",
			markAsLeak:      true,
			input:           `{"level":"error","_leak":true,"message":"test"}` + "\n",
			expectedLevel:   "leak",
			expectedHasMark: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := NewLeakLevelWriter(&buf)

			if tt.markAsLeak {
				writer.markNextAsLeak()
			}

			_, err := writer.Write([]byte(tt.input))
			if err != nil {
				t.Fatalf("Write failed: %v", err)
			}

			var logEntry map[string]interface{}
			err = json.Unmarshal(buf.Bytes(), &logEntry)
			if err != nil {
				t.Fatalf("Failed to parse output: %v", err)
			}

			if logEntry["level"] != tt.expectedLevel {
				t.Errorf("Expected level '%s', got '%v'", tt.expectedLevel, logEntry["level"])
			}

			if _, hasMark := logEntry["_leak"]; hasMark != tt.expectedHasMark {
				t.Errorf("Expected _leak presence to be %v, got %v", tt.expectedHasMark, hasMark)
			}
		})
	}
}

func TestLeakLevelWriter_NonJSONPassthrough(t *testing.T) {
	buf := &bytes.Buffer{}
	writer := NewLeakLevelWriter(buf)

	writer.markNextAsLeak()
	plainText := []byte("plain text log\n")
	n, err := writer.Write(plainText)

	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(plainText) {
		t.Errorf("expected %d bytes written, got %d", len(plainText), n)
	}
	if buf.String() != string(plainText) {
		t.Errorf("expected passthrough of non-JSON, got %s", buf.String())
	}
}

func TestLeakLevelWriter_ConcurrentAccess(t *testing.T) {
	buf := &bytes.Buffer{}
	writer := NewLeakLevelWriter(buf)

	// Simulate concurrent marks
	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			writer.markNextAsLeak()
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	// No panic = mutex protected correctly
}
