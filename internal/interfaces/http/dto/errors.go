package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeMalformedPayload is used when a platform payload cannot be decoded
	ErrCodeMalformedPayload = "ERR_MALFORMED_PAYLOAD"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when the integration key is missing or invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeIntegrationNotFound is used when no integration matches the key
	ErrCodeIntegrationNotFound = "ERR_INTEGRATION_NOT_FOUND"
	// ErrCodeOrderNotFound is used when the platform has no such order
	ErrCodeOrderNotFound = "ERR_ORDER_NOT_FOUND"
)

// Credential error codes
const (
	// ErrCodeCredentialMissing is used when an integration has no stored credential
	ErrCodeCredentialMissing = "ERR_CREDENTIAL_MISSING"
	// ErrCodeCredential is used for credential decrypt/refresh failures
	ErrCodeCredential = "ERR_CREDENTIAL"
)

// Platform error codes
const (
	// ErrCodeUnsupportedPlatform is used when a platform tag is not in the supported set
	ErrCodeUnsupportedPlatform = "ERR_UNSUPPORTED_PLATFORM"
	// ErrCodePlatformRequest is used when a remote platform rejected the request
	ErrCodePlatformRequest = "ERR_PLATFORM_REQUEST"
	// ErrCodePlatformUnavailable is used when a remote platform is unreachable
	ErrCodePlatformUnavailable = "ERR_PLATFORM_UNAVAILABLE"
	// ErrCodePlatformResponse is used when a remote platform returned garbage
	ErrCodePlatformResponse = "ERR_PLATFORM_RESPONSE"
	// ErrCodeRateLimited is used when the local rate limiter rejected a call
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,
	ErrCodeMalformedPayload: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeIntegrationNotFound: http.StatusNotFound,
	ErrCodeOrderNotFound:       http.StatusNotFound,

	ErrCodeCredentialMissing: http.StatusUnprocessableEntity,
	ErrCodeCredential:        http.StatusUnprocessableEntity,

	ErrCodeUnsupportedPlatform: http.StatusUnprocessableEntity,
	ErrCodePlatformRequest:     http.StatusBadGateway,
	ErrCodePlatformResponse:    http.StatusBadGateway,
	ErrCodePlatformUnavailable: http.StatusServiceUnavailable,
	ErrCodeRateLimited:         http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
