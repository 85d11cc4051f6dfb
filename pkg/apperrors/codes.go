package apperrors

// ErrorCode is the stable machine-readable code sent to clients.
type ErrorCode string

const (
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeUnavailable   ErrorCode = "UNAVAILABLE"

	// Lifecycle engine
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeForbidden            ErrorCode = "FORBIDDEN"
	CodeInvalidState         ErrorCode = "INVALID_STATE"
	CodeInvalidTransition    ErrorCode = "INVALID_TRANSITION"
	CodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"
	CodeDuplicateReview      ErrorCode = "DUPLICATE_REVIEW"
	CodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	CodeInvalidField         ErrorCode = "INVALID_FIELD"

	// Transport
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"
)
