package models

// Project is a client-posted demand for environmental services.
// Status transitions are governed by the lifecycle table; budget
// bounds are optional but must satisfy min <= max when both set.
type Project struct {
	BaseModel
	ClientID    string `gorm:"not null;index"`
	CategoryID  string `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	City        string
	State       string           `gorm:"type:varchar(2)"`
	BudgetMin   *float64         `gorm:"type:numeric(12,2)"`
	BudgetMax   *float64         `gorm:"type:numeric(12,2)"`
	Status      EngagementStatus `gorm:"type:varchar(20);not null;default:'draft';index"`

	// Relations
	Category     ServiceCategory `gorm:"foreignKey:CategoryID"`
	Applications []Application   `gorm:"foreignKey:ProjectID"`
}
