package errors

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestCoreConditions(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{"dimensions", NewInvalidDimensionsError("frame is 4x4"), ErrorTypeInvalidDimensions},
		{"channels", NewUnsupportedChannelsError(4), ErrorTypeUnsupportedChannels},
		{"parameter", NewInvalidParameterError("intensity must be > 0"), ErrorTypeInvalidParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.wantType {
				t.Errorf("Expected type %s, got %s", tt.wantType, tt.err.Type)
			}
			if tt.err.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", tt.err.StatusCode)
			}
			if !IsType(tt.err, tt.wantType) {
				t.Errorf("IsType(%s) returned false", tt.wantType)
			}
		})
	}
}

func TestUnsupportedChannelsMessage(t *testing.T) {
	err := NewUnsupportedChannelsError(1)
	if !strings.Contains(err.Error(), "got 1") {
		t.Errorf("Expected channel count in message, got %q", err.Error())
	}
}

func TestWrappedErrors(t *testing.T) {
	cause := fmt.Errorf("dial tcp: refused")
	appErr := NewNetworkError("failed to fetch image", cause)
	wrapped := fmt.Errorf("loading frame: %w", appErr)

	if !IsType(wrapped, ErrorTypeNetwork) {
		t.Error("Expected IsType to see through wrapping")
	}
	if GetStatusCode(wrapped) != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", GetStatusCode(wrapped))
	}
	if appErr.Unwrap() != cause {
		t.Error("Expected Unwrap to return the cause")
	}
	if !strings.Contains(appErr.Error(), "caused by") {
		t.Errorf("Expected cause in message, got %q", appErr.Error())
	}
}

func TestGetStatusCode_PlainError(t *testing.T) {
	if code := GetStatusCode(fmt.Errorf("boom")); code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", code)
	}
}

func TestWithDetails(t *testing.T) {
	base := NewInvalidDimensionsError("frame too small")
	detailed := base.WithDetails("rows=%d cols=%d", 3, 9)

	if detailed.Details != "rows=3 cols=9" {
		t.Errorf("Unexpected details %q", detailed.Details)
	}
	if base.Details != "" {
		t.Error("Expected WithDetails to leave the receiver untouched")
	}
}

func TestServiceStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidationError("bad", nil), http.StatusBadRequest},
		{NewNotFoundError("missing", nil), http.StatusNotFound},
		{NewTimeoutError("slow", nil), http.StatusGatewayTimeout},
		{NewUnavailableError("busy", nil), http.StatusServiceUnavailable},
		{NewPayloadTooLargeError("huge", nil), http.StatusRequestEntityTooLarge},
		{NewInternalError("oops", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := GetStatusCode(tt.err); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.err.Type, tt.want, got)
		}
	}
}
