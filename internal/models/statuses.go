package models

type UserRole string
type UserStatus string
type EngagementKind string
type EngagementStatus string
type ApplicationStatus string
type CollaborationType string
type SubscriptionStatus string

const (
	UserRoleClient       UserRole = "client"
	UserRoleProfessional UserRole = "professional"
	UserRoleAdmin        UserRole = "admin"

	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	EngagementKindProject     EngagementKind = "project"
	EngagementKindPartnership EngagementKind = "partnership"

	EngagementStatusDraft      EngagementStatus = "draft"
	EngagementStatusOpen       EngagementStatus = "open"
	EngagementStatusInProgress EngagementStatus = "in_progress"
	EngagementStatusCompleted  EngagementStatus = "completed"
	EngagementStatusCancelled  EngagementStatus = "cancelled"

	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"

	CollaborationSubcontract    CollaborationType = "subcontract"
	CollaborationJointProject   CollaborationType = "joint_project"
	CollaborationConsulting     CollaborationType = "consulting"
	CollaborationEquipmentShare CollaborationType = "equipment_share"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// IsTerminal reports whether an engagement status has no outgoing
// transitions for any actor.
func (s EngagementStatus) IsTerminal() bool {
	return s == EngagementStatusCompleted || s == EngagementStatusCancelled
}
