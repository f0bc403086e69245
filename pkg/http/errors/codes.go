package errors

// Error codes for standardized error responses. Domain failures never
// surface here: the engine turns them into spoken close-outs, so the
// webhook reports transport-level problems only.
const (
	// Request errors
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeMissingField   = "missing_field"
	ErrCodeUnauthorized   = "unauthorized"

	// Dependency errors
	ErrCodeUpstreamError = "upstream_error"
)
