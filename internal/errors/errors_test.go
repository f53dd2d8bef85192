package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := NewIoError("/tmp/a.png", "failed to open image", fs.ErrNotExist)

	msg := err.Error()
	for _, want := range []string{"IO_ERROR", "failed to open image", "/tmp/a.png", "file does not exist"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("processing doc: %w", NewOcrEngineError("tesseract", "recognition failed", nil))
	if got := CodeOf(wrapped); got != ErrorOCREngine {
		t.Errorf("CodeOf(wrapped) = %q, want %q", got, ErrorOCREngine)
	}
	if got := CodeOf(NewUnsupportedFormatError("x.bin", "cannot decode", nil)); got != ErrorUnsupportedFormat {
		t.Errorf("CodeOf = %q", got)
	}
	if got := CodeOf(stderrors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
	if got := CodeOf(nil); got != "" {
		t.Errorf("CodeOf(nil) = %q, want empty", got)
	}
}
