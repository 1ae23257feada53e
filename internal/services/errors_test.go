package services_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"corpusprep/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "archive", "unzip", "exit status 9", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"archive", "unzip", "exit status 9"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "none"},
		{"validation", services.Wrap(services.ErrValidation, "wavconv", "params", "bit depth 15", nil), "validation"},
		{"not found", services.Wrap(services.ErrNotFound, "wavconv", "read", "", fs.ErrNotExist), "not_found"},
		{"malformed", services.Wrap(services.ErrMalformedInput, "transcript", "parse", "", errors.New("eof")), "malformed_input"},
		{"config", services.Wrap(services.ErrConfiguration, "config", "load", "", nil), "configuration"},
		{"tool", services.Wrap(services.ErrExternalTool, "archive", "unzip", "", nil), "external_tool"},
		{"plain", errors.New("plain"), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Kind(tt.err); got != tt.want {
				t.Fatalf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}
