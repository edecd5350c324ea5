package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"ecowork_backend/internal/models"
	"ecowork_backend/internal/services"
	"ecowork_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ClientFlow(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	email := fmt.Sprintf("register_client_%d@test.com", time.Now().UnixNano())
	registerBody := map[string]interface{}{
		"email":    email,
		"password": "StrongPass123",
		"role":     "client",
		"name":     "Ana Souza",
		"city":     "Curitiba",
		"state":    "PR",
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, email, resp.User.Email)
	assert.Equal(t, "client", resp.User.Role)

	// The role-specific profile is created in the same transaction.
	var profile models.ClientProfile
	err := ts.DB.Joins("JOIN users ON users.id = client_profiles.user_id").
		Where("users.email = ?", email).First(&profile).Error
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", profile.Name)
}

func TestRegister_StartsOnFreePlan(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	email := fmt.Sprintf("register_free_%d@test.com", time.Now().UnixNano())
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    email,
		"password": "StrongPass123",
		"role":     "professional",
		"name":     "Free Plan User",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)

	// The plan seeded at startup is attached in the same transaction.
	var sub models.UserSubscription
	err := ts.DB.Preload("Plan").
		Joins("JOIN users ON users.id = user_subscriptions.user_id").
		Where("users.email = ?", email).First(&sub).Error
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, services.FreePlanName, sub.Plan.Name)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	email := fmt.Sprintf("duplicate_%d@test.com", time.Now().UnixNano())
	helpers.CreateUser(t, ts.DB, &models.User{
		Email:        email,
		PasswordHash: "password123",
		Role:         models.UserRoleClient,
	})

	registerBody := map[string]interface{}{
		"email":    email,
		"password": "StrongPass123",
		"role":     "client",
		"name":     "Second User",
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", registerBody)
	assert.Equal(t, http.StatusConflict, res.StatusCode, "response: %s", bodyStr)
}

func TestRegister_WeakPassword(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	registerBody := map[string]interface{}{
		"email":    fmt.Sprintf("weak_%d@test.com", time.Now().UnixNano()),
		"password": "short",
		"role":     "professional",
		"name":     "Weak Password",
	}
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", registerBody)
	// min=8 on the dto fails first, a longer but still weak password
	// fails in the service. Both are 4xx.
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestLogin_BadPassword(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	email := fmt.Sprintf("badpass_%d@test.com", time.Now().UnixNano())
	helpers.CreateUser(t, ts.DB, &models.User{
		Email:        email,
		PasswordHash: "correct-password1",
		Role:         models.UserRoleProfessional,
	})

	loginBody := map[string]interface{}{
		"email":    email,
		"password": "wrong-password",
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "response: %s", bodyStr)
}

func TestLogin_SuspendedUser(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	email := fmt.Sprintf("suspended_%d@test.com", time.Now().UnixNano())
	helpers.CreateUser(t, ts.DB, &models.User{
		Email:        email,
		PasswordHash: "password123",
		Role:         models.UserRoleClient,
		Status:       models.UserStatusSuspended,
	})

	loginBody := map[string]interface{}{
		"email":    email,
		"password": "password123",
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	assert.Equal(t, http.StatusForbidden, res.StatusCode, "response: %s", bodyStr)
}

func TestRefresh_RotatesToken(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	email := fmt.Sprintf("refresh_%d@test.com", time.Now().UnixNano())
	helpers.CreateUser(t, ts.DB, &models.User{
		Email:        email,
		PasswordHash: "password123",
		Role:         models.UserRoleClient,
	})

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var login struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &login))

	// First refresh succeeds and rotates the token.
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refresh_token": login.RefreshToken,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)

	var refreshed struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &refreshed))
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The old token is single-use.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refresh_token": login.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestChangePassword_InvalidatesSessions(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	token, user := helpers.CreateAndLoginClient(t, ts, ts.DB)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/change-password", token, map[string]interface{}{
		"current_password": "password123",
		"new_password":     "NewStrongPass456",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)

	var count int64
	ts.DB.Model(&models.RefreshToken{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Zero(t, count, "refresh tokens should be revoked after a password change")

	// Old password no longer works.
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    user.Email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    user.Email,
		"password": "NewStrongPass456",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
