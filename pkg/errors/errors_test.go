package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidGraph, "edge (%d,%d) out of range", 3, 9)
	want := "INVALID_GRAPH: edge (3,9) out of range"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeEmbedding, cause, "encode 4 labels")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause via errors.Is")
	}
	if !Is(err, ErrCodeEmbedding) {
		t.Error("Is should match the error code")
	}
	if Is(err, ErrCodeNetwork) {
		t.Error("Is should not match a different code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeCyclicGraph, "cycle")); got != ErrCodeCyclicGraph {
		t.Errorf("GetCode = %q", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "bad input")); got != "bad input" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidGraph, "x"), http.StatusBadRequest},
		{New(ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{New(ErrCodeEmbedding, "x"), http.StatusBadGateway},
		{New(ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
