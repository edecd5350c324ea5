package lifecycle

import (
	"testing"

	"ecowork_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []models.EngagementStatus{
	models.EngagementStatusDraft,
	models.EngagementStatusOpen,
	models.EngagementStatusInProgress,
	models.EngagementStatusCompleted,
	models.EngagementStatusCancelled,
}

var allKinds = []models.EngagementKind{
	models.EngagementKindProject,
	models.EngagementKindPartnership,
}

var allRelations = []Relation{RelationOwner, RelationAssigned}

func contains(list []models.EngagementStatus, s models.EngagementStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Exhaustive check: every (kind, relation, from, to) combination is
// accepted exactly when the table lists it, and a same-status request
// is always rejected as a no-change.
func TestValidate_Exhaustive(t *testing.T) {
	for _, kind := range allKinds {
		for _, rel := range allRelations {
			for _, from := range allStatuses {
				allowed := Allowed(kind, rel, from)
				for _, to := range allStatuses {
					err := Validate(kind, rel, from, to)
					switch {
					case from == to:
						assert.ErrorIs(t, err, ErrNoChange,
							"%s/%s %s->%s", kind, rel, from, to)
					case contains(allowed, to):
						assert.NoError(t, err,
							"%s/%s %s->%s should be allowed", kind, rel, from, to)
					default:
						assert.ErrorIs(t, err, ErrNotAllowed,
							"%s/%s %s->%s should be rejected", kind, rel, from, to)
					}
				}
			}
		}
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, kind := range allKinds {
		for _, rel := range allRelations {
			assert.Empty(t, Allowed(kind, rel, models.EngagementStatusCompleted))
			assert.Empty(t, Allowed(kind, rel, models.EngagementStatusCancelled))
		}
	}
}

func TestProjectOwnerPath(t *testing.T) {
	kind := models.EngagementKindProject

	require.NoError(t, Validate(kind, RelationOwner, models.EngagementStatusDraft, models.EngagementStatusOpen))
	require.NoError(t, Validate(kind, RelationOwner, models.EngagementStatusOpen, models.EngagementStatusInProgress))
	require.NoError(t, Validate(kind, RelationOwner, models.EngagementStatusInProgress, models.EngagementStatusCompleted))

	// A client cannot cancel a draft project directly; it can only be opened.
	assert.ErrorIs(t,
		Validate(kind, RelationOwner, models.EngagementStatusDraft, models.EngagementStatusCancelled),
		ErrNotAllowed)

	// Reopening is never allowed.
	assert.ErrorIs(t,
		Validate(kind, RelationOwner, models.EngagementStatusCancelled, models.EngagementStatusOpen),
		ErrNotAllowed)
}

func TestAssignedProfessionalPath(t *testing.T) {
	kind := models.EngagementKindProject

	require.NoError(t, Validate(kind, RelationAssigned, models.EngagementStatusOpen, models.EngagementStatusInProgress))
	require.NoError(t, Validate(kind, RelationAssigned, models.EngagementStatusInProgress, models.EngagementStatusCompleted))

	// Cancellation of a project is reserved for its owner.
	assert.ErrorIs(t,
		Validate(kind, RelationAssigned, models.EngagementStatusInProgress, models.EngagementStatusCancelled),
		ErrNotAllowed)
}

func TestPartnershipPaths(t *testing.T) {
	kind := models.EngagementKindPartnership

	// Creator may cancel a draft, unlike project owners.
	require.NoError(t, Validate(kind, RelationOwner, models.EngagementStatusDraft, models.EngagementStatusCancelled))

	// Only the accepted partner completes a partnership.
	assert.ErrorIs(t,
		Validate(kind, RelationOwner, models.EngagementStatusInProgress, models.EngagementStatusCompleted),
		ErrNotAllowed)
	require.NoError(t, Validate(kind, RelationAssigned, models.EngagementStatusInProgress, models.EngagementStatusCompleted))
	require.NoError(t, Validate(kind, RelationAssigned, models.EngagementStatusInProgress, models.EngagementStatusCancelled))

	// The partner has no say before the demand is in progress.
	assert.Empty(t, Allowed(kind, RelationAssigned, models.EngagementStatusOpen))
}
