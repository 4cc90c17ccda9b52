package apperrors

import (
	"net/http"
)

/*
Predefined errors and factories for the FixRx domain. Services return
these; the gin handler maps them to HTTP statuses.
*/

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound) into
// a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrConflict is the generic optimistic-concurrency loss (409).
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidStateTransition is raised when a connection request is
// already in a terminal state.
func ErrInvalidStateTransition(domain, message string) *AppError {
	return New(CodeInvalidStateTransition, domain, message, http.StatusConflict)
}

// --- Connection requests ---

var ErrDuplicateRequest = New(
	CodeDuplicateRequest,
	"connection",
	"An active request already exists for this vendor and service",
	http.StatusConflict,
)

var ErrRequestNotFound = New(
	CodeNotFound,
	"connection",
	"Connection request not found",
	http.StatusNotFound,
)

var ErrOnlyConsumersCanRequest = New(
	CodeForbidden,
	"connection",
	"Only consumers can create connection requests",
	http.StatusForbidden,
)

var ErrOnlyVendorsCanRespond = New(
	CodeForbidden,
	"connection",
	"Only the addressed vendor can respond to this request",
	http.StatusForbidden,
)

// --- Ratings ---

var ErrDuplicateRating = New(
	CodeDuplicateRating,
	"rating",
	"A rating already exists for this vendor and connection request",
	http.StatusConflict,
)

var ErrRatingNotFound = New(
	CodeNotFound,
	"rating",
	"Rating not found",
	http.StatusNotFound,
)

var ErrNotRatingAuthor = New(
	CodeForbidden,
	"rating",
	"Only the original rater can modify this rating",
	http.StatusForbidden,
)

var ErrSelfRatingNotAllowed = New(
	CodeValidationError,
	"rating",
	"Rating yourself is not allowed",
	http.StatusBadRequest,
)

// --- Messaging ---

var ErrEmptyMessageContent = New(
	CodeValidationError,
	"message",
	"Message content must not be empty",
	http.StatusBadRequest,
)

var ErrMessageNotFound = New(
	CodeNotFound,
	"message",
	"Message not found",
	http.StatusNotFound,
)

var ErrCannotDeleteMessage = New(
	CodeForbidden,
	"message",
	"Only the sender can delete this message",
	http.StatusForbidden,
)

// --- Users & auth ---

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

var ErrEmailAlreadyExists = New(
	CodeConflict,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrUserSuspended = New(
	CodeForbidden,
	"auth",
	"Your account has been suspended",
	http.StatusForbidden,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)
