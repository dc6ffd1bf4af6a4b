package errors

import "fmt"

// ErrorType classifies API failures so retry policy can branch on them
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a failure talking to the archive API
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("archive %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// NewNetworkError wraps a transport-level failure (no HTTP status available)
func NewNetworkError(err error) *Error {
	return &Error{
		Type:    ErrorTypeNetwork,
		Message: err.Error(),
		Code:    0,
	}
}

// NewHTTPError classifies a non-2xx HTTP response
func NewHTTPError(statusCode int) *Error {
	e := &Error{
		Message: fmt.Sprintf("server returned status %d", statusCode),
		Code:    statusCode,
	}
	switch {
	case statusCode == 429:
		e.Type = ErrorTypeRateLimit
	case statusCode == 404:
		e.Type = ErrorTypeNotFound
	case statusCode >= 500:
		e.Type = ErrorTypeServerError
	default:
		e.Type = ErrorTypeUnknown
	}
	return e
}

// IsRetryable reports whether an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeRateLimit, ErrorTypeServerError:
		return true
	default:
		return false
	}
}
