package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"ecowork_backend/internal/models"
	"ecowork_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_AdminCRUD(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, ts.DB)

	name := fmt.Sprintf("Pro %d", time.Now().UnixNano())
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/admin/plans", adminToken, map[string]interface{}{
		"name":     name,
		"price":    49.9,
		"currency": "BRL",
		"duration": "monthly",
		"features": []string{"priority_support"},
		"limits":   map[string]int64{"open_projects": 10},
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)

	var plan struct {
		ID     string           `json:"id"`
		Limits map[string]int64 `json:"limits"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &plan))
	assert.Equal(t, int64(10), plan.Limits["open_projects"])

	// Update the price.
	res, bodyStr = ts.SendRequest(t, http.MethodPut, "/api/v1/admin/plans/"+plan.ID, adminToken, map[string]interface{}{
		"price": 59.9,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)
	assert.Contains(t, bodyStr, "59.9")

	// Deactivated plans drop out of the public listing.
	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/admin/plans/"+plan.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/plans", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotContains(t, bodyStr, plan.ID)

	// Non-admins cannot manage plans.
	clientToken, _ := helpers.CreateAndLoginClient(t, ts, ts.DB)
	res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/admin/plans", clientToken, map[string]interface{}{
		"name":     "Rogue",
		"duration": "monthly",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestPlan_SubscribeAndCancel(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	clientToken, _ := helpers.CreateAndLoginClient(t, ts, ts.DB)
	plan := createPlan(t, ts.DB, fmt.Sprintf("Basic %d", time.Now().UnixNano()), `{"open_projects": 5}`)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/subscriptions", clientToken, map[string]interface{}{
		"plan_id": plan.ID,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)

	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/subscriptions/me", clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)
	assert.Contains(t, bodyStr, plan.ID)
	assert.Contains(t, bodyStr, `"status":"active"`)

	res, _ = ts.SendRequest(t, http.MethodDelete, "/api/v1/subscriptions/me", clientToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/v1/subscriptions/me", clientToken, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestPlan_OpenProjectsLimitEnforced(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	clientToken, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Impact Studies")

	plan := createPlan(t, ts.DB, fmt.Sprintf("Capped %d", time.Now().UnixNano()), `{"open_projects": 1}`)
	subscribe(t, ts.DB, client.ID, plan.ID)

	// First publication fits the limit.
	first := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusDraft)
	res, bodyStr := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/transition", first.ID), clientToken, map[string]interface{}{
		"status": "open",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)

	// Second publication exceeds it.
	second := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusDraft)
	res, bodyStr = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/transition", second.ID), clientToken, map[string]interface{}{
		"status": "open",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, "response: %s", bodyStr)
}

func TestPlan_ApplicationsPerMonthLimitEnforced(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	_, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	professionalToken, professional := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Biodiversity Surveys")

	plan := createPlan(t, ts.DB, fmt.Sprintf("OneShot %d", time.Now().UnixNano()), `{"applications_per_month": 1}`)
	subscribe(t, ts.DB, professional.ID, plan.ID)

	projectA := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusOpen)
	projectB := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusOpen)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/applications", projectA.ID), professionalToken, map[string]interface{}{
		"message": "first this month",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)

	res, bodyStr = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/applications", projectB.ID), professionalToken, map[string]interface{}{
		"message": "second this month",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, "response: %s", bodyStr)
}

func TestPlan_NoSubscriptionMeansNoCap(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	clientToken, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Carbon Accounting")

	for i := 0; i < 3; i++ {
		project := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusDraft)
		res, bodyStr := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%s/transition", project.ID), clientToken, map[string]interface{}{
			"status": "open",
		})
		require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)
	}
}
