package database

import (
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/models/chat"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the pool with error translation on, so unique-index
// violations surface as gorm.ErrDuplicatedKey in the repositories.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
}

// Migrate creates the schema. The chat tables live in their own
// postgres schema (chat.conversations, chat.messages).
func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		return err
	}
	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS chat").Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.ClientProfile{},
		&models.ProfessionalProfile{},
		&models.ServiceCategory{},
		&models.Project{},
		&models.Application{},
		&models.PartnershipDemand{},
		&models.PartnershipApplication{},
		&models.Review{},
		&models.SubscriptionPlan{},
		&models.UserSubscription{},
		&models.Notification{},
		&chat.Conversation{},
		&chat.Message{},
	)
}
