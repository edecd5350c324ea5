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

func TestPartnership_CreateAndPublish(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	ownerToken, _ := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Soil Analysis")

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/partnerships", ownerToken, map[string]interface{}{
		"category_id":        category.ID,
		"collaboration_type": "subcontract",
		"title":              "Field sampling support",
		"description":        "Need a second team for soil sampling",
		"city":               "Curitiba",
		"state":              "PR",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)

	var created struct {
		ID     string                  `json:"id"`
		Status models.EngagementStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &created))
	assert.Equal(t, models.EngagementStatusDraft, created.Status)

	res, bodyStr = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/partnerships/%s/transition", created.ID), ownerToken, map[string]interface{}{
		"status": "open",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)

	// An open demand is publicly visible.
	res, bodyStr = ts.SendRequest(t, http.MethodGet, "/api/v1/partnerships/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"open"`)
}

func TestPartnership_ApplyAndDuplicate(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	ownerToken, owner := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	partnerToken, _ := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Waste Logistics")
	demand := helpers.CreateDemand(t, ts.DB, owner.ID, category.ID, models.EngagementStatusOpen)

	applyPath := fmt.Sprintf("/api/v1/partnerships/%s/applications", demand.ID)
	res, bodyStr := ts.SendRequest(t, http.MethodPost, applyPath, partnerToken, map[string]interface{}{
		"message": "We run a licensed transport fleet",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)

	// Second submission for the same demand is a conflict.
	res, bodyStr = ts.SendRequest(t, http.MethodPost, applyPath, partnerToken, map[string]interface{}{
		"message": "Applying again",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "response: %s", bodyStr)

	// The owner cannot apply to their own demand.
	res, _ = ts.SendRequest(t, http.MethodPost, applyPath, ownerToken, map[string]interface{}{
		"message": "Self application",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestPartnership_AcceptCascade(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	ownerToken, owner := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	_, partnerA := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	_, partnerB := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Reforestation")
	demand := helpers.CreateDemand(t, ts.DB, owner.ID, category.ID, models.EngagementStatusOpen)

	appA := helpers.CreatePartnershipApplication(t, ts.DB, demand.ID, partnerA.ID, models.ApplicationStatusPending)
	appB := helpers.CreatePartnershipApplication(t, ts.DB, demand.ID, partnerB.ID, models.ApplicationStatusPending)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/partnership-applications/%s/accept", appA.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)

	// Accepted application, rejected sibling, demand in progress.
	var reloadedA, reloadedB models.PartnershipApplication
	require.NoError(t, ts.DB.First(&reloadedA, "id = ?", appA.ID).Error)
	require.NoError(t, ts.DB.First(&reloadedB, "id = ?", appB.ID).Error)
	assert.Equal(t, models.ApplicationStatusAccepted, reloadedA.Status)
	assert.Equal(t, models.ApplicationStatusRejected, reloadedB.Status)

	var reloadedDemand models.PartnershipDemand
	require.NoError(t, ts.DB.First(&reloadedDemand, "id = ?", demand.ID).Error)
	assert.Equal(t, models.EngagementStatusInProgress, reloadedDemand.Status)

	// Both partners were notified about the decision.
	var notified int64
	ts.DB.Model(&models.Notification{}).
		Where("user_id IN ?", []string{partnerA.ID, partnerB.ID}).
		Count(&notified)
	assert.GreaterOrEqual(t, notified, int64(2))

	// A second accept on the already decided application fails.
	res, _ = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/partnership-applications/%s/accept", appB.ID), ownerToken, nil)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestPartnership_AcceptRequiresOwnership(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	_, owner := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	_, partner := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	strangerToken, _ := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Noise Assessment")
	demand := helpers.CreateDemand(t, ts.DB, owner.ID, category.ID, models.EngagementStatusOpen)
	application := helpers.CreatePartnershipApplication(t, ts.DB, demand.ID, partner.ID, models.ApplicationStatusPending)

	res, _ := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/partnership-applications/%s/accept", application.ID), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestPartnership_MutualReviewsAfterCompletion(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	ownerToken, owner := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	partnerToken, partner := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Carbon Inventory")
	demand := helpers.CreateDemand(t, ts.DB, owner.ID, category.ID, models.EngagementStatusOpen)
	application := helpers.CreatePartnershipApplication(t, ts.DB, demand.ID, partner.ID, models.ApplicationStatusPending)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/partnership-applications/%s/accept", application.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)

	// The accepted partner closes the work out.
	res, bodyStr = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/partnerships/%s/transition", demand.ID), partnerToken, map[string]interface{}{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)

	// Owner reviews the partner.
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", ownerToken, map[string]interface{}{
		"engagement_kind": "partnership",
		"engagement_id":   demand.ID,
		"rating":          5,
		"comment":         "Reliable field partner",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)

	var created struct {
		ReviewedID string `json:"reviewed_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &created))
	assert.Equal(t, partner.ID, created.ReviewedID)

	// Partner reviews the owner back.
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", partnerToken, map[string]interface{}{
		"engagement_kind": "partnership",
		"engagement_id":   demand.ID,
		"rating":          4,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &created))
	assert.Equal(t, owner.ID, created.ReviewedID)

	// A second review from the same side is a conflict.
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", ownerToken, map[string]interface{}{
		"engagement_kind": "partnership",
		"engagement_id":   demand.ID,
		"rating":          1,
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "response: %s", bodyStr)
}

func TestPartnership_ApplicationsPerMonthLimitEnforced(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	_, ownerA := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	_, ownerB := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	partnerToken, partner := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Permit Drafting")
	demandA := helpers.CreateDemand(t, ts.DB, ownerA.ID, category.ID, models.EngagementStatusOpen)
	demandB := helpers.CreateDemand(t, ts.DB, ownerB.ID, category.ID, models.EngagementStatusOpen)

	plan := createPlan(t, ts.DB, fmt.Sprintf("PartnerCap %d", time.Now().UnixNano()), `{"applications_per_month": 1}`)
	subscribe(t, ts.DB, partner.ID, plan.ID)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/partnerships/%s/applications", demandA.ID), partnerToken, map[string]interface{}{
		"message": "First application this month",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)

	res, bodyStr = ts.SendRequest(t, http.MethodPost, fmt.Sprintf("/api/v1/partnerships/%s/applications", demandB.ID), partnerToken, map[string]interface{}{
		"message": "Second application this month",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode, "response: %s", bodyStr)
}
