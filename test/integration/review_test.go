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

// completedProject wires a client, a professional and a completed
// project with an accepted application between them.
func completedProject(t *testing.T, ts *helpers.TestServer) (clientToken string, client *models.User, professionalToken string, professional *models.User, project *models.Project) {
	clientToken, client = helpers.CreateAndLoginClient(t, ts, ts.DB)
	professionalToken, professional = helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Remediation")
	project = helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusCompleted)
	helpers.CreateApplication(t, ts.DB, project.ID, professional.ID, models.ApplicationStatusAccepted)
	return
}

func TestReview_MutualAfterCompletion(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	clientToken, client, professionalToken, professional, project := completedProject(t, ts)

	// Client reviews the professional.
	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", clientToken, map[string]interface{}{
		"engagement_kind": "project",
		"engagement_id":   project.ID,
		"rating":          5,
		"comment":         "Excellent remediation work",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)

	var created struct {
		ReviewedID string `json:"reviewed_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &created))
	assert.Equal(t, professional.ID, created.ReviewedID, "the counterpart is derived server-side")

	// Professional reviews the client back.
	res, bodyStr = ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", professionalToken, map[string]interface{}{
		"engagement_kind": "project",
		"engagement_id":   project.ID,
		"rating":          4,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &created))
	assert.Equal(t, client.ID, created.ReviewedID)

	// The professional's rating cache reflects the client's review.
	var profile models.ProfessionalProfile
	require.NoError(t, ts.DB.First(&profile, "user_id = ?", professional.ID).Error)
	assert.Equal(t, 1, profile.ReviewCount)
	assert.InDelta(t, 5.0, profile.AverageRating, 0.001)
}

func TestReview_DuplicateRejected(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	clientToken, _, _, _, project := completedProject(t, ts)

	body := map[string]interface{}{
		"engagement_kind": "project",
		"engagement_id":   project.ID,
		"rating":          4,
	}
	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", clientToken, body)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", clientToken, body)
	assert.Equal(t, http.StatusConflict, res.StatusCode, "response: %s", bodyStr)
}

func TestReview_RequiresCompletedEngagement(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	clientToken, client := helpers.CreateAndLoginClient(t, ts, ts.DB)
	_, professional := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Licensing Support")
	project := helpers.CreateProject(t, ts.DB, client.ID, category.ID, models.EngagementStatusInProgress)
	helpers.CreateApplication(t, ts.DB, project.ID, professional.ID, models.ApplicationStatusAccepted)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", clientToken, map[string]interface{}{
		"engagement_kind": "project",
		"engagement_id":   project.ID,
		"rating":          5,
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode, "response: %s", bodyStr)
}

func TestReview_OutsiderCannotReview(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	_, _, _, _, project := completedProject(t, ts)
	outsiderToken, _ := helpers.CreateAndLoginProfessional(t, ts, ts.DB)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", outsiderToken, map[string]interface{}{
		"engagement_kind": "project",
		"engagement_id":   project.ID,
		"rating":          1,
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestReview_PartnershipDirection(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	ownerToken, owner := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	_, partner := helpers.CreateAndLoginProfessional(t, ts, ts.DB)
	category := helpers.CreateCategory(t, ts.DB, "Joint Consulting")
	demand := helpers.CreateDemand(t, ts.DB, owner.ID, category.ID, models.EngagementStatusCompleted)

	application := &models.PartnershipApplication{
		DemandID:       demand.ID,
		ProfessionalID: partner.ID,
		Status:         models.ApplicationStatusAccepted,
	}
	require.NoError(t, ts.DB.Create(application).Error)

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", ownerToken, map[string]interface{}{
		"engagement_kind": "partnership",
		"engagement_id":   demand.ID,
		"rating":          5,
		"comment":         "Great partner",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, "response: %s", bodyStr)

	var created struct {
		ReviewedID string `json:"reviewed_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &created))
	assert.Equal(t, partner.ID, created.ReviewedID)
}

func TestReview_ListForUser(t *testing.T) {
	t.Parallel()
	ts := GetTestServer(t)

	clientToken, _, _, professional, project := completedProject(t, ts)

	res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/reviews", clientToken, map[string]interface{}{
		"engagement_kind": "project",
		"engagement_id":   project.ID,
		"rating":          3,
		"comment":         "Average work",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, bodyStr := ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/reviews/users/%s", professional.ID), "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "response: %s", bodyStr)

	var list struct {
		Reviews []struct {
			Rating int `json:"rating"`
		} `json:"reviews"`
		Total         int64   `json:"total"`
		AverageRating float64 `json:"average_rating"`
	}
	require.NoError(t, json.Unmarshal([]byte(bodyStr), &list))
	require.Equal(t, int64(1), list.Total)
	assert.Equal(t, 3, list.Reviews[0].Rating)
	assert.InDelta(t, 3.0, list.AverageRating, 0.001)
}
