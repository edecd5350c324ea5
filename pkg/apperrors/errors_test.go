package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_WrapAndUnwrap(t *testing.T) {
	cause := errors.New("row not found")
	appErr := ErrNotFound(cause)

	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode)
	assert.True(t, errors.Is(appErr, cause), "wrapped cause should survive errors.Is")

	var target *AppError
	require.True(t, errors.As(appErr, &target))
	assert.Equal(t, CodeNotFound, target.Code)
}

func TestAppError_ErrorString(t *testing.T) {
	plain := New(CodeForbidden, "auth", "Insufficient permissions", http.StatusForbidden)
	assert.Contains(t, plain.Error(), "auth")
	assert.Contains(t, plain.Error(), "Insufficient permissions")

	wrapped := Wrap(errors.New("boom"), CodeInternalError, "system", "Internal server error", http.StatusInternalServerError)
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestAppError_MarshalHidesInternals(t *testing.T) {
	appErr := Wrap(errors.New("sensitive detail"), CodeInternalError, "system", "Internal server error", http.StatusInternalServerError)

	data, err := json.Marshal(appErr)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "sensitive detail")
	assert.NotContains(t, string(data), "500")
	assert.Contains(t, string(data), "Internal server error")
}

func TestAppError_WithDetails(t *testing.T) {
	appErr := ValidationError(map[string]string{"email": "Must be a valid email address"})

	data, err := json.Marshal(appErr)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Must be a valid email address")
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
}

func TestPredefinedHTTPCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		code int
	}{
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrInvalidToken, http.StatusUnauthorized},
		{ErrEmailAlreadyExists, http.StatusConflict},
		{ErrUserSuspended, http.StatusForbidden},
		{ErrUserBanned, http.StatusForbidden},
		{ErrStatusUnchanged, http.StatusBadRequest},
		{ErrTransitionNotAllowed, http.StatusConflict},
		{ErrEngagementNotOpen, http.StatusConflict},
		{ErrEngagementNotCompleted, http.StatusConflict},
		{ErrApplicationNotPending, http.StatusConflict},
		{ErrAlreadyApplied, http.StatusConflict},
		{ErrConversationAccessDenied, http.StatusForbidden},
		{ErrReviewAlreadyExists, http.StatusConflict},
		{ErrSelfReviewNotAllowed, http.StatusBadRequest},
		{ErrSubscriptionLimit, http.StatusForbidden},
		{ErrInsufficientPermissions, http.StatusForbidden},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.HTTPCode, "wrong HTTP code for %s", tc.err.Message)
	}
}
