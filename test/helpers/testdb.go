package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"ecowork_backend/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser inserts a user, hashing the password when it is given raw.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) {
	if user.PasswordHash != "" && !strings.HasPrefix(user.PasswordHash, "$2a$") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
		require.NoError(t, err, "failed to hash test password")
		user.PasswordHash = string(hashed)
	}

	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	user.IsVerified = true

	require.NoError(t, db.Create(user).Error, "failed to create test user %s", user.Email)
}

// CreateAndLoginUser inserts a user and logs them in through the API.
func CreateAndLoginUser(t *testing.T, ts *TestServer, db *gorm.DB, email, password string, role models.UserRole) (string, *models.User) {
	user := &models.User{
		Email:        email,
		PasswordHash: password,
		Role:         role,
	}
	CreateUser(t, db, user)

	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	require.Equal(t, http.StatusOK, res.StatusCode, "login should succeed, got: %s", bodyStr)

	var loginResponse struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &loginResponse))
	require.NotEmpty(t, loginResponse.AccessToken)

	return loginResponse.AccessToken, user
}

// CreateAndLoginClient creates a client with a unique email plus profile.
func CreateAndLoginClient(t *testing.T, ts *TestServer, db *gorm.DB) (string, *models.User) {
	email := fmt.Sprintf("client_%d@test.com", time.Now().UnixNano())
	token, user := CreateAndLoginUser(t, ts, db, email, "password123", models.UserRoleClient)

	profile := &models.ClientProfile{
		UserID: user.ID,
		Name:   "Test Client",
		City:   "Curitiba",
		State:  "PR",
	}
	require.NoError(t, db.Create(profile).Error, "failed to create client profile")

	return token, user
}

// CreateAndLoginProfessional creates a professional with a unique email
// plus public profile.
func CreateAndLoginProfessional(t *testing.T, ts *TestServer, db *gorm.DB) (string, *models.User) {
	email := fmt.Sprintf("professional_%d@test.com", time.Now().UnixNano())
	token, user := CreateAndLoginUser(t, ts, db, email, "password123", models.UserRoleProfessional)

	profile := &models.ProfessionalProfile{
		UserID:   user.ID,
		Name:     "Test Professional",
		City:     "Curitiba",
		State:    "PR",
		IsPublic: true,
	}
	require.NoError(t, db.Create(profile).Error, "failed to create professional profile")

	return token, user
}

// CreateAndLoginAdmin creates an admin with a unique email.
func CreateAndLoginAdmin(t *testing.T, ts *TestServer, db *gorm.DB) (string, *models.User) {
	email := fmt.Sprintf("admin_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, db, email, "password123", models.UserRoleAdmin)
}

// CreateCategory inserts a service category with a unique slug.
func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.ServiceCategory {
	category := &models.ServiceCategory{
		Name:     name,
		Slug:     fmt.Sprintf("%s-%d", strings.ToLower(strings.ReplaceAll(name, " ", "-")), time.Now().UnixNano()),
		IsActive: true,
	}
	require.NoError(t, db.Create(category).Error, "failed to create test category")
	return category
}

// CreateProject inserts a project in the given status.
func CreateProject(t *testing.T, db *gorm.DB, clientID, categoryID string, status models.EngagementStatus) *models.Project {
	project := &models.Project{
		ClientID:    clientID,
		CategoryID:  categoryID,
		Title:       "Test project",
		Description: "Test description",
		City:        "Curitiba",
		State:       "PR",
		Status:      status,
	}
	require.NoError(t, db.Create(project).Error, "failed to create test project")
	return project
}

// CreateDemand inserts a partnership demand in the given status.
func CreateDemand(t *testing.T, db *gorm.DB, professionalID, categoryID string, status models.EngagementStatus) *models.PartnershipDemand {
	demand := &models.PartnershipDemand{
		ProfessionalID:    professionalID,
		CategoryID:        categoryID,
		Title:             "Test demand",
		Description:       "Test description",
		CollaborationType: models.CollaborationSubcontract,
		City:              "Curitiba",
		State:             "PR",
		Status:            status,
	}
	require.NoError(t, db.Create(demand).Error, "failed to create test demand")
	return demand
}

// CreatePartnershipApplication inserts a partnership application in the
// given status.
func CreatePartnershipApplication(t *testing.T, db *gorm.DB, demandID, professionalID string, status models.ApplicationStatus) *models.PartnershipApplication {
	application := &models.PartnershipApplication{
		DemandID:       demandID,
		ProfessionalID: professionalID,
		Message:        "Test partnership application",
		Status:         status,
	}
	require.NoError(t, db.Create(application).Error, "failed to create test partnership application")
	return application
}

// CreateApplication inserts a project application in the given status.
func CreateApplication(t *testing.T, db *gorm.DB, projectID, professionalID string, status models.ApplicationStatus) *models.Application {
	application := &models.Application{
		ProjectID:      projectID,
		ProfessionalID: professionalID,
		Message:        "Test application",
		Status:         status,
	}
	require.NoError(t, db.Create(application).Error, "failed to create test application")
	return application
}
