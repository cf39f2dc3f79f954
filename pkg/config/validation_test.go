package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidateRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	tests := []struct {
		name      string
		root      string
		wantError bool
		errMsg    string
	}{
		{
			name:      "existing directory",
			root:      dir,
			wantError: false,
		},
		{
			name:      "empty root",
			root:      "",
			wantError: true,
			errMsg:    "cannot be empty",
		},
		{
			name:      "missing directory",
			root:      filepath.Join(dir, "nope"),
			wantError: true,
		},
		{
			name:      "regular file",
			root:      file,
			wantError: true,
			errMsg:    "not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoot(tt.root)
			if tt.wantError {
				if err == nil {
					t.Errorf("ValidateRoot() expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateRoot() error = %v, want error containing %v", err, tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("ValidateRoot() unexpected error = %v", err)
				}
			}
		})
	}
}

func TestValidateMinChars(t *testing.T) {
	tests := []struct {
		name      string
		minChars  int
		wantError bool
	}{
		{name: "default", minChars: 5, wantError: false},
		{name: "zero disables the filter", minChars: 0, wantError: false},
		{name: "negative", minChars: -1, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMinChars(tt.minChars)
			if tt.wantError && err == nil {
				t.Errorf("ValidateMinChars() expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("ValidateMinChars() unexpected error = %v", err)
			}
		})
	}
}

func TestValidateTimeout(t *testing.T) {
	tests := []struct {
		name      string
		seconds   int
		wantError bool
	}{
		{name: "unlimited", seconds: 0, wantError: false},
		{name: "bounded", seconds: 30, wantError: false},
		{name: "negative", seconds: -5, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeout(tt.seconds)
			if tt.wantError && err == nil {
				t.Errorf("ValidateTimeout() expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("ValidateTimeout() unexpected error = %v", err)
			}
		})
	}
}

func TestValidateProgressInterval(t *testing.T) {
	tests := []struct {
		name      string
		interval  time.Duration
		wantError bool
	}{
		{name: "one second", interval: time.Second, wantError: false},
		{name: "zero", interval: 0, wantError: true},
		{name: "negative", interval: -time.Second, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProgressInterval(tt.interval)
			if tt.wantError && err == nil {
				t.Errorf("ValidateProgressInterval() expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("ValidateProgressInterval() unexpected error = %v", err)
			}
		})
	}
}

func TestParseMaxFileSize(t *testing.T) {
	tests := []struct {
		name      string
		sizeStr   string
		want      int64
		wantError bool
	}{
		{
			name:    "megabytes",
			sizeStr: "1Mb",
			want:    1000 * 1000, // FromHumanSize uses decimal (1000) not binary (1024)
		},
		{
			name:    "kilobytes",
			sizeStr: "500Kb",
			want:    500 * 1000,
		},
		{
			name:    "plain bytes",
			sizeStr: "4096",
			want:    4096,
		},
		{
			name:      "invalid format",
			sizeStr:   "invalid",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMaxFileSize(tt.sizeStr)
			if tt.wantError {
				if err == nil {
					t.Errorf("ParseMaxFileSize() expected error but got none")
				}
			} else {
				if err != nil {
					t.Errorf("ParseMaxFileSize() unexpected error = %v", err)
				}
				if got != tt.want {
					t.Errorf("ParseMaxFileSize() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
