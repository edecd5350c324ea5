package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubscriptionPlan is an admin-managed plan. Limits is a jsonb map of
// feature counters, e.g. {"open_projects": 3, "applications_per_month": 10};
// a missing or zero entry means unlimited.
type SubscriptionPlan struct {
	BaseModel
	Name     string         `gorm:"not null;uniqueIndex"`
	Price    float64        `gorm:"not null"`
	Currency string         `gorm:"type:varchar(3);default:'BRL'"`
	Duration string         `gorm:"not null"` // "monthly", "yearly", "unlimited"
	Features datatypes.JSON `gorm:"type:jsonb"`
	Limits   datatypes.JSON `gorm:"type:jsonb"`
	IsActive bool           `gorm:"default:true"`
}

type UserSubscription struct {
	BaseModel
	UserID      string             `gorm:"not null;index"`
	PlanID      string             `gorm:"not null;index"`
	Status      SubscriptionStatus `gorm:"type:varchar(20);default:'active'"`
	StartDate   time.Time
	EndDate     *time.Time
	CancelledAt *time.Time

	// Relations
	Plan SubscriptionPlan `gorm:"foreignKey:PlanID"`
}
