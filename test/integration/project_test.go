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

func TestProject_CreateAndPublish(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	clientToken, _ := helpers.CreateAndLoginClient(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Environmental Licensing")

	createBody := map[string]interface{}{
		"category_id": category.ID,
		"title":       "Licensing for a new plant",
		"description": "Full environmental licensing process",
		"city":        "Curitiba",
		"state":       "PR",
		"budget_min":  5000.0,
		"budget_max":  12000.0,
	}
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/projects", clientToken, createBody)
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &created))
	assert.Equal(t, "draft", created.Status, "new projects start as drafts")

	// Publish.
	res, bodyStr = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/transition", created.ID), clientToken, map[string]interface{}{
		"status": "open",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)

	// The open project is publicly visible.
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/projects/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "Licensing for a new plant")
	assert.Contains(t, bodyStr, `"status":"open"`)
}

func TestProject_TransitionRules(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	clientToken, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Waste Management")
	project := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusDraft)

	// draft -> completed is not a legal owner transition.
	res, bodyStr := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/transition", project.ID), clientToken, map[string]interface{}{
		"status": "completed",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "response: %s", bodyStr)

	// Same-status transition is rejected as a no-op.
	res, bodyStr = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/transition", project.ID), clientToken, map[string]interface{}{
		"status": "draft",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, "response: %s", bodyStr)

	// A stranger cannot transition someone else's project.
	otherToken, _ := helpers.CreateAndLoginClient(t, ts, ts.DB)
	res, _ = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/transition", project.ID), otherToken, map[string]interface{}{
		"status": "open",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestProject_UpdateOnlyWhileEditable(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	clientToken, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Soil Analysis")

	draft := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusDraft)
	res, bodyStr := ts.SendRequest(t, http.MethodPut, "/api/v1/projects/"+draft.ID, clientToken, map[string]interface{}{
		"title": "Updated soil analysis",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)
	assert.Contains(t, bodyStr, "Updated soil analysis")

	inProgress := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusInProgress)
	res, _ = ts.SendRequest(t, http.MethodPut, "/api/v1/projects/"+inProgress.ID, clientToken, map[string]interface{}{
		"title": "Too late to edit",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestProject_DeleteDraftOnly(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	clientToken, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Air Quality")

	draft := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusDraft)
	res, _ := ts.SendRequest(t, http.MethodDelete, "/api/v1/projects/"+draft.ID, clientToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	open := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusOpen)
	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/projects/"+open.ID, clientToken, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestProject_ListOpenFilters(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	_, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Reforestation")

	open := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusOpen)
	helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusDraft)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, "/api/v1/projects?category_id="+category.ID, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)

	var list struct {
		Projects []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"projects"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &list))
	require.Len(t, list.Projects, 1, "drafts must not appear in the public listing")
	assert.Equal(t, open.ID, list.Projects[0].ID)
}

func TestProject_ProfessionalCannotCreate(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	professionalToken, _ := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Noise Assessment")

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/projects", professionalToken, map[string]interface{}{
		"category_id": category.ID,
		"title":       "Should not be allowed",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}
