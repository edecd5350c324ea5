package apperrors

import "net/http"

// Factories for errors that wrap a repository failure.

func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// Factories for new business-rule errors.

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

func ErrLimitExceeded(domain, message string) *AppError {
	return New(CodeLimitExceeded, domain, message, http.StatusForbidden)
}

// Predefined errors for frequent static cases.

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Auth & user status ---

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
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

var ErrUserBanned = New(
	CodeForbidden,
	"auth",
	"Your account has been banned",
	http.StatusForbidden,
)

// --- Engagements (projects & partnership demands) ---

var ErrStatusUnchanged = New(
	CodeInvalidOperation,
	"lifecycle",
	"Entity is already in the requested status",
	http.StatusBadRequest,
)

var ErrTransitionNotAllowed = New(
	CodeInvalidStatus,
	"lifecycle",
	"Status transition not allowed for this actor",
	http.StatusConflict,
)

var ErrEngagementNotOpen = New(
	CodeInvalidStatus,
	"engagement",
	"Operation requires the engagement to be open",
	http.StatusConflict,
)

var ErrEngagementNotCompleted = New(
	CodeInvalidStatus,
	"review",
	"Reviews can only be submitted for completed engagements",
	http.StatusConflict,
)

// --- Applications ---

var ErrApplicationNotPending = New(
	CodeInvalidStatus,
	"application",
	"Application has already been decided",
	http.StatusConflict,
)

var ErrAlreadyApplied = New(
	CodeAlreadyExists,
	"application",
	"You have already applied to this engagement",
	http.StatusConflict,
)

// --- Chat ---

var ErrConversationAccessDenied = New(
	CodeForbidden,
	"chat",
	"Access to conversation denied",
	http.StatusForbidden,
)

// --- Reviews ---

var ErrReviewAlreadyExists = New(
	CodeAlreadyExists,
	"review",
	"You have already reviewed this party for this engagement",
	http.StatusConflict,
)

var ErrSelfReviewNotAllowed = New(
	CodeInvalidOperation,
	"review",
	"Self-review is not allowed",
	http.StatusBadRequest,
)

// --- Subscriptions ---

var ErrSubscriptionLimit = New(
	CodeLimitExceeded,
	"subscription",
	"Subscription limit for this feature has been reached",
	http.StatusForbidden,
)
