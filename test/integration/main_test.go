package integration_test

import (
	"os"
	"sync"
	"testing"

	"ecowork_backend/internal/models"
	"ecowork_backend/test/helpers"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	globalTestServer *helpers.TestServer
	serverOnce       sync.Once
)

// GetTestServer returns the shared test server, creating it on first
// use. Requires DATABASE_URL to point at a disposable test database.
func GetTestServer(t *testing.T) *helpers.TestServer {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration tests")
	}

	serverOnce.Do(func() {
		if os.Getenv("JWT_SECRET") == "" {
			os.Setenv("JWT_SECRET", "integration-test-secret")
		}
		os.Setenv("SERVER_ENV", "test")

		globalTestServer = helpers.NewTestServer(t)
	})
	return globalTestServer
}

func TestMain(m *testing.M) {
	code := m.Run()

	if globalTestServer != nil {
		globalTestServer.Close()
	}
	os.Exit(code)
}

// createPlan inserts a subscription plan with the given limits.
func createPlan(t *testing.T, db *gorm.DB, name string, limits string) *models.SubscriptionPlan {
	plan := &models.SubscriptionPlan{
		Name:     name,
		Price:    0,
		Currency: "BRL",
		Duration: "unlimited",
		Limits:   datatypes.JSON(limits),
		IsActive: true,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to create subscription plan: %v", err)
	}
	return plan
}

// subscribe attaches an active subscription to a user directly.
func subscribe(t *testing.T, db *gorm.DB, userID, planID string) {
	sub := &models.UserSubscription{
		UserID: userID,
		PlanID: planID,
		Status: models.SubscriptionStatusActive,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}
}
