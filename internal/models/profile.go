package models

import "gorm.io/datatypes"

// ClientProfile holds the contact data of a user posting projects.
type ClientProfile struct {
	BaseModel
	UserID      string `gorm:"not null;uniqueIndex"`
	Name        string `gorm:"not null"`
	CompanyName string
	Phone       string
	City        string
	State       string `gorm:"type:varchar(2)"`
}

// ProfessionalProfile holds the public data of an environmental-services
// professional. Specialties is a jsonb list of category slugs.
type ProfessionalProfile struct {
	BaseModel
	UserID         string `gorm:"not null;uniqueIndex"`
	Name           string `gorm:"not null"`
	DocumentNumber string
	Phone          string
	City           string
	State          string         `gorm:"type:varchar(2)"`
	Bio            string         `gorm:"type:text"`
	Specialties    datatypes.JSON `gorm:"type:jsonb"`
	AverageRating  float64        `gorm:"default:0"`
	ReviewCount    int            `gorm:"default:0"`
	IsPublic       bool           `gorm:"default:true"`
}
