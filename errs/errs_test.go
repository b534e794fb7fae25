package errs

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := Config("img_width", "must be positive, got %d", 0)
	if got, want := err.Error(), "invalid img_width: must be positive, got 0"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := fmt.Errorf("render: %w", err)
	if !IsConfig(wrapped) {
		t.Error("IsConfig(wrapped) = false, want true")
	}
	if IsIO(wrapped) {
		t.Error("IsIO(wrapped) = true, want false")
	}
}

func TestPrefix(t *testing.T) {
	err := Prefix("render", Config("zoom[1].end", "before start"))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("Prefix() = %v, want *ConfigError", err)
	}
	if ce.Field != "render.zoom[1].end" {
		t.Errorf("Field = %q, want %q", ce.Field, "render.zoom[1].end")
	}

	plain := errors.New("boom")
	if got := Prefix("x", plain); got != plain {
		t.Errorf("Prefix(plain) = %v, want the same error", got)
	}
}

func TestIOError(t *testing.T) {
	if IO("read", "a.json", nil) != nil {
		t.Error("IO(nil) != nil")
	}

	err := IO("read", "missing.json", os.ErrNotExist)
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("IOError does not unwrap to the underlying error")
	}
	if !IsIO(err) {
		t.Error("IsIO() = false, want true")
	}
	if got, want := err.Error(), "read missing.json: file does not exist"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
