package apperrors

// ErrorCode identifies an error class in API responses.
type ErrorCode string

const (
	// System and unknown failures
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Business-logic errors
	CodeNotFound               ErrorCode = "NOT_FOUND"
	CodeValidationError        ErrorCode = "VALIDATION_ERROR"
	CodeConflict               ErrorCode = "CONFLICT"
	CodeInvalidStateTransition ErrorCode = "INVALID_STATE_TRANSITION"
	CodeDuplicateRequest       ErrorCode = "DUPLICATE_REQUEST"
	CodeDuplicateRating        ErrorCode = "DUPLICATE_RATING"

	// Authentication and authorization
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
)
