package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrValidation, http.StatusBadRequest},
		{ErrInsufficientData, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrInternal, http.StatusInternalServerError},
		{ErrAIService, http.StatusInternalServerError},
		{ErrStore, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := New(tt.code, "x").HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAsUnwrapsThroughWrapping(t *testing.T) {
	inner := Validation("text is required")
	wrapped := fmt.Errorf("analyze: %w", inner)

	appErr, ok := As(wrapped)
	if !ok {
		t.Fatal("expected AppError")
	}
	if appErr.Code != ErrValidation {
		t.Errorf("code = %s, want %s", appErr.Code, ErrValidation)
	}

	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Error("plain error should not convert")
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := ServiceWrap("model request failed", fmt.Errorf("connection refused"))
	if got := err.Error(); got != "AI_SERVICE_ERROR: model request failed: connection refused" {
		t.Errorf("Error() = %q", got)
	}
	if err.Unwrap() == nil {
		t.Error("Unwrap() should return the cause")
	}
}
