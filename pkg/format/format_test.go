package format

import (
	"testing"
)

func TestParseHumanSize(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  int64
		shouldErr bool
	}{
		{
			name:     "plain bytes",
			input:    "512",
			expected: 512,
		},
		{
			name:     "kilobytes",
			input:    "5Kb",
			expected: 5000,
		},
		{
			name:     "megabytes",
			input:    "1Mb",
			expected: 1000000,
		},
		{
			name:      "garbage",
			input:     "lots",
			shouldErr: true,
		},
		{
			name:      "empty",
			input:     "",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseHumanSize(tt.input)
			if tt.shouldErr {
				if err == nil {
					t.Errorf("ParseHumanSize(%q) expected error, got %d", tt.input, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHumanSize(%q) error: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseHumanSize(%q) = %d, want %d", tt.input, result, tt.expected)
			}
		})
	}
}

func TestHumanSize(t *testing.T) {
	if got := HumanSize(1000000); got != "1MB" {
		t.Errorf("HumanSize(1000000) = %q, want %q", got, "1MB")
	}
}
