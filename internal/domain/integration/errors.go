package integration

import "errors"

var (
	// Platform resolution errors
	ErrUnsupportedPlatform = errors.New("integration: unsupported platform")

	// Transport errors
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")

	// Adapter errors
	ErrMalformedPayload = errors.New("integration: malformed platform payload")

	// Credential errors
	ErrCredentialMissing = errors.New("integration: credential record not found")
	ErrCredentialDecrypt = errors.New("integration: credential decryption failed")
	ErrCredentialRefresh = errors.New("integration: credential refresh exchange failed")

	// Directory/order errors
	ErrIntegrationNotFound = errors.New("integration: integration not found")
	ErrOrderNotFound       = errors.New("integration: platform order not found")
)
