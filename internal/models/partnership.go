package models

// PartnershipDemand is a professional-to-professional collaboration
// request. It shares the engagement status enum with Project but has
// its own lifecycle rows in the transition table.
type PartnershipDemand struct {
	BaseModel
	ProfessionalID    string            `gorm:"not null;index"` // creator
	CategoryID        string            `gorm:"not null;index"`
	CollaborationType CollaborationType `gorm:"type:varchar(30);not null"`
	Title             string            `gorm:"not null"`
	Description       string            `gorm:"type:text"`
	City              string
	State             string           `gorm:"type:varchar(2)"`
	Status            EngagementStatus `gorm:"type:varchar(20);not null;default:'draft';index"`

	// Relations
	Category     ServiceCategory          `gorm:"foreignKey:CategoryID"`
	Applications []PartnershipApplication `gorm:"foreignKey:DemandID"`
}

// PartnershipApplication mirrors Application for partnership demands.
// The composite unique index closes the duplicate-submission race at
// the storage layer.
type PartnershipApplication struct {
	BaseModel
	DemandID       string            `gorm:"not null;uniqueIndex:idx_partnership_app_demand_prof"`
	ProfessionalID string            `gorm:"not null;uniqueIndex:idx_partnership_app_demand_prof"`
	Message        string            `gorm:"type:text"`
	Status         ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
}
