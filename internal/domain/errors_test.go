package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConnectorErrorMessage(t *testing.T) {
	err := ErrValidation("missing required parameters", "id", "template")

	if got := err.Error(); !strings.Contains(got, "id, template") {
		t.Errorf("expected field list in message, got %q", got)
	}
	if got := err.Error(); !strings.HasPrefix(got, "validation:") {
		t.Errorf("expected kind prefix, got %q", got)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"validation", ErrValidation("bad"), ErrorKindValidation},
		{"not found", ErrNotFound("missing"), ErrorKindNotFound},
		{"wrapped", fmt.Errorf("while rendering: %w", ErrRender("boom")), ErrorKindRender},
		{"plain error", errors.New("unexpected"), ErrorKindInternal},
		{"nil cause chain", ErrStorage("put failed").WithCause(errors.New("conn refused")), ErrorKindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := ErrRender("pagination failed").WithCause(cause)

	if !errors.Is(err, cause) {
		t.Errorf("expected errors.Is to find the cause")
	}
}
