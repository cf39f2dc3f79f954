package extract

import (
	"testing"
)

func TestNewExtractCmd(t *testing.T) {
	cmd := NewExtractCmd()

	if cmd == nil {
		t.Fatal("Expected non-nil command")
		return
	}

	if cmd.Use != "extract" {
		t.Errorf("Expected Use to be 'extract', got %q", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("Expected non-empty Short description")
	}

	fileFlag := cmd.Flags().Lookup("file")
	if fileFlag == nil {
		t.Fatal("Expected 'file' flag to exist")
		return
	}

	if fileFlag.Shorthand != "f" {
		t.Errorf("Expected 'file' shorthand to be 'f', got %q", fileFlag.Shorthand)
	}

	if _, ok := fileFlag.Annotations[cobraRequiredAnnotation]; !ok {
		t.Error("Expected 'file' flag to be required")
	}
}

const cobraRequiredAnnotation = "cobra_annotation_bash_completion_one_required_flag"
