package errors

import (
	"errors"
	"testing"
)

func TestNewHTTPErrorClassification(t *testing.T) {
	tests := []struct {
		status   int
		wantType ErrorType
	}{
		{429, ErrorTypeRateLimit},
		{404, ErrorTypeNotFound},
		{500, ErrorTypeServerError},
		{502, ErrorTypeServerError},
		{503, ErrorTypeServerError},
		{400, ErrorTypeUnknown},
		{403, ErrorTypeUnknown},
	}

	for _, test := range tests {
		e := NewHTTPError(test.status)
		if e.Type != test.wantType {
			t.Errorf("status %d: expected type %q, got %q", test.status, test.wantType, e.Type)
		}
		if e.Code != test.status {
			t.Errorf("status %d: expected code preserved, got %d", test.status, e.Code)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      bool
	}{
		{ErrorTypeNetwork, true},
		{ErrorTypeRateLimit, true},
		{ErrorTypeServerError, true},
		{ErrorTypeParsing, false},
		{ErrorTypeNotFound, false},
		{ErrorTypeUnknown, false},
	}

	for _, test := range tests {
		if got := IsRetryable(test.errorType); got != test.want {
			t.Errorf("IsRetryable(%q) = %v, expected %v", test.errorType, got, test.want)
		}
	}
}

func TestNewNetworkErrorIsRetryable(t *testing.T) {
	e := NewNetworkError(errors.New("connection reset"))
	if e.Type != ErrorTypeNetwork {
		t.Errorf("expected network type, got %q", e.Type)
	}
	if !IsRetryable(e.Type) {
		t.Error("network errors must be retryable")
	}
}

func TestErrorMessage(t *testing.T) {
	e := NewHTTPError(503)
	want := "archive server_error error (code 503): server returned status 503"
	if e.Error() != want {
		t.Errorf("expected %q, got %q", want, e.Error())
	}
}
