// Package lifecycle holds the single status-transition table for
// engagements (projects and partnership demands). The original system
// duplicated this logic as branching per entity and call site; here it
// is one lookup keyed by (entity kind, actor relation, current status).
package lifecycle

import (
	"errors"

	"ecowork_backend/internal/models"
)

// Relation describes how the acting user relates to the engagement.
type Relation string

const (
	// RelationOwner: the client for a project, the creating
	// professional for a partnership demand.
	RelationOwner Relation = "owner"
	// RelationAssigned: the professional whose application was
	// accepted (the partner, for partnership demands).
	RelationAssigned Relation = "assigned"
)

var (
	ErrNoChange   = errors.New("entity is already in the requested status")
	ErrNotAllowed = errors.New("status transition not allowed for this actor")
)

type key struct {
	Kind     models.EngagementKind
	Relation Relation
	From     models.EngagementStatus
}

var transitions = map[key][]models.EngagementStatus{
	// Project, owner (client)
	{models.EngagementKindProject, RelationOwner, models.EngagementStatusDraft}: {
		models.EngagementStatusOpen,
	},
	{models.EngagementKindProject, RelationOwner, models.EngagementStatusOpen}: {
		models.EngagementStatusInProgress,
		models.EngagementStatusCancelled,
	},
	{models.EngagementKindProject, RelationOwner, models.EngagementStatusInProgress}: {
		models.EngagementStatusCompleted,
		models.EngagementStatusCancelled,
	},

	// Project, assigned professional
	{models.EngagementKindProject, RelationAssigned, models.EngagementStatusOpen}: {
		models.EngagementStatusInProgress,
	},
	{models.EngagementKindProject, RelationAssigned, models.EngagementStatusInProgress}: {
		models.EngagementStatusCompleted,
	},

	// Partnership demand, owner (creating professional)
	{models.EngagementKindPartnership, RelationOwner, models.EngagementStatusDraft}: {
		models.EngagementStatusOpen,
		models.EngagementStatusCancelled,
	},
	{models.EngagementKindPartnership, RelationOwner, models.EngagementStatusOpen}: {
		models.EngagementStatusInProgress,
		models.EngagementStatusCancelled,
	},
	{models.EngagementKindPartnership, RelationOwner, models.EngagementStatusInProgress}: {
		models.EngagementStatusCancelled,
	},

	// Partnership demand, accepted partner
	{models.EngagementKindPartnership, RelationAssigned, models.EngagementStatusInProgress}: {
		models.EngagementStatusCompleted,
		models.EngagementStatusCancelled,
	},
}

// Allowed returns the statuses the actor may move the engagement to
// from its current status. The returned slice is shared; callers must
// not mutate it.
func Allowed(kind models.EngagementKind, rel Relation, from models.EngagementStatus) []models.EngagementStatus {
	return transitions[key{kind, rel, from}]
}

// Validate checks a requested transition. Requesting the current status
// returns ErrNoChange; anything outside the table returns ErrNotAllowed.
func Validate(kind models.EngagementKind, rel Relation, from, to models.EngagementStatus) error {
	if from == to {
		return ErrNoChange
	}
	for _, allowed := range transitions[key{kind, rel, from}] {
		if allowed == to {
			return nil
		}
	}
	return ErrNotAllowed
}
