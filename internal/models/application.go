package models

// Application is a professional's candidacy for a project. One row per
// (project, professional): the composite unique index replaces the
// original read-before-write duplicate check.
type Application struct {
	BaseModel
	ProjectID      string            `gorm:"not null;uniqueIndex:idx_application_project_prof"`
	ProfessionalID string            `gorm:"not null;uniqueIndex:idx_application_project_prof"`
	Message        string            `gorm:"type:text"`
	Status         ApplicationStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
}
