package models

// ServiceCategory is the catalog of environmental services projects and
// partnership demands are filed under (licensing, waste management,
// environmental audits, ...).
type ServiceCategory struct {
	BaseModel
	Name        string `gorm:"not null"`
	Slug        string `gorm:"not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"default:true"`
}
