package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"ecowork_backend/internal/models"
	"ecowork_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplication_ApplyAndDuplicate(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	_, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	professionalToken, _ := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Water Treatment")
	project := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusOpen)

	applyPath := fmt.Sprintf("/api/v1/projects/%s/applications", project.ID)
	res, bodyStr := ts.SendRequest(t, http.MethodPost, applyPath, professionalToken, map[string]interface{}{
		"message": "I have ten years of water treatment experience",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)

	// Second submission for the same project is a conflict.
	res, bodyStr = ts.SendRequest(t, http.MethodPost, applyPath, professionalToken, map[string]interface{}{
		"message": "Applying again",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "response: %s", bodyStr)
}

func TestApplication_ApplyClosedProject(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	_, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	professionalToken, _ := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Effluent Monitoring")
	project := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusDraft)

	res, _ := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/applications", project.ID), professionalToken, map[string]interface{}{
		"message": "Too early",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestApplication_AcceptCascade(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	clientToken, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	_, professionalA := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	_, professionalB := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Environmental Audit")
	project := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusOpen)

	appA := helpers.CreateApplication(t, ts.DB, project.ID, professionalA.ID, models.ApplicationStatusPending)
	appB := helpers.CreateApplication(t, ts.DB, project.ID, professionalB.ID, models.ApplicationStatusPending)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/applications/%s/accept", appA.ID), clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)

	// Accepted application, rejected sibling, project in progress.
	var reloadedA, reloadedB models.Application
	require.NoError(t, ts.DB.First(&reloadedA, "id = ?", appA.ID).Error)
	require.NoError(t, ts.DB.First(&reloadedB, "id = ?", appB.ID).Error)
	assert.Equal(t, models.ApplicationStatusAccepted, reloadedA.Status)
	assert.Equal(t, models.ApplicationStatusRejected, reloadedB.Status)

	var reloadedProject models.Project
	require.NoError(t, ts.DB.First(&reloadedProject, "id = ?", project.ID).Error)
	assert.Equal(t, models.EngagementStatusInProgress, reloadedProject.Status)

	// Both professionals were notified about the decision.
	var notified int64
	ts.DB.Model(&models.Notification{}).
		Where("user_id IN ?", []string{professionalA.ID, professionalB.ID}).
		Count(&notified)
	assert.GreaterOrEqual(t, notified, int64(2))

	// A second accept on the already decided application fails.
	res, _ = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/applications/%s/accept", appB.ID), clientToken, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestApplication_AcceptRequiresOwnership(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	_, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	otherToken, _ := helpers.CreateAndLoginClient(t, ts, ts.DB)
	_, professional := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Wildlife Survey")
	project := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusOpen)
	application := helpers.CreateApplication(t, ts.DB, project.ID, professional.ID, models.ApplicationStatusPending)

	res, _ := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/applications/%s/accept", application.ID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestApplication_Withdraw(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	_, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	professionalToken, professional := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Erosion Control")
	project := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusOpen)
	application := helpers.CreateApplication(t, ts.DB, project.ID, professional.ID, models.ApplicationStatusPending)

	res, bodyStr := ts.SendRequest(t, http.MethodDelete, "/api/v1/applications/"+application.ID, professionalToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)

	var count int64
	ts.DB.Model(&models.Application{}).Where("id = ?", application.ID).Count(&count)
	assert.Zero(t, count)

	// An accepted application cannot be withdrawn.
	accepted := helpers.CreateApplication(t, ts.DB, project.ID, professional.ID, models.ApplicationStatusAccepted)
	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/applications/"+accepted.ID, professionalToken, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestApplication_ListByProjectOwnerOnly(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	clientToken, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	_, professional := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Emissions Inventory")
	project := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusOpen)
	helpers.CreateApplication(t, ts.DB, project.ID, professional.ID, models.ApplicationStatusPending)

	listPath := fmt.Sprintf("/api/v1/projects/%s/applications", project.ID)
	res, bodyStr := ts.SendRequest(t, http.MethodGet, listPath, clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)

	var list struct {
		Applications []json.RawMessage `json:"applications"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &list))
	assert.Len(t, list.Applications, 1)

	otherToken, _ := helpers.CreateAndLoginClient(t, ts, ts.DB)
	res, _ = ts.SendRequest(t, http.MethodGet, listPath, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}
