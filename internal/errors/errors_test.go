package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name:     "without wrapped error",
			err:      New(CodeInvalidResponse, "payload is not an array"),
			contains: []string{"INVALID_RESPONSE", "payload is not an array"},
		},
		{
			name:     "with wrapped error",
			err:      Wrap(errors.New("connection refused"), CodeTransport, "request failed"),
			contains: []string{"TRANSPORT_ERROR", "request failed", "connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want substring %q", msg, want)
				}
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("dial tcp: timeout")
	wrapped := TransportError("fetch failed", inner)

	if !errors.Is(wrapped, inner) {
		t.Errorf("expected errors.Is to find the wrapped transport failure")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"transport error", TransportError("timeout", errors.New("timeout")), true},
		{"store connection error", New(CodeStoreConnection, "down"), true},
		{"invalid status", InvalidStatusError(503, "views/videos"), false},
		{"empty response", EmptyResponseError("no playlist"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsEmptyResponse(t *testing.T) {
	empty := EmptyResponseError("no live playlist currently scheduled")
	if !IsEmptyResponse(empty) {
		t.Errorf("expected empty-response error to classify as such")
	}

	// Classification must survive wrapping.
	wrapped := fmt.Errorf("live lookup: %w", empty)
	if !IsEmptyResponse(wrapped) {
		t.Errorf("expected classification through fmt.Errorf wrapping")
	}

	if IsEmptyResponse(InvalidResponseError("bad shape", nil)) {
		t.Errorf("invalid response must not classify as empty")
	}
}

func TestGetErrorCode(t *testing.T) {
	if code := GetErrorCode(InvalidStatusError(404, "channels")); code != CodeInvalidStatus {
		t.Errorf("GetErrorCode() = %s, want %s", code, CodeInvalidStatus)
	}
	if code := GetErrorCode(errors.New("anonymous")); code != CodeUnknown {
		t.Errorf("GetErrorCode() = %s, want %s", code, CodeUnknown)
	}
}

func TestWithContext(t *testing.T) {
	err := InvalidStatusError(500, "events").WithContext("attempt", 2)

	if err.Context["status"] != 500 {
		t.Errorf("expected status context to be set")
	}
	if err.Context["attempt"] != 2 {
		t.Errorf("expected attempt context to be set")
	}
}
