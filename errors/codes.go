package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Registry availability errors (retryable by the caller)
const (
	// ErrCodeAllEndpointsUnreachable indicates every configured registry
	// endpoint failed for one logical operation.
	ErrCodeAllEndpointsUnreachable ErrorCode = "ALL_ENDPOINTS_UNREACHABLE"
	// ErrCodeDecodeFailed indicates a registry response body could not be decoded.
	ErrCodeDecodeFailed ErrorCode = "DECODE_FAILED"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Caller errors, raised before any network activity
const (
	// ErrCodeInvalidAnnouncement indicates required announcement fields are absent.
	ErrCodeInvalidAnnouncement ErrorCode = "INVALID_ANNOUNCEMENT"
	// ErrCodeInvalidArgument indicates a required argument is absent or malformed.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidInput indicates generic struct validation failed.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidConfig indicates the client configuration is unusable.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeAllEndpointsUnreachable: true,
	ErrCodeDecodeFailed:            true,
	ErrCodeInternal:                false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
