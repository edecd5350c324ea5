package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecowork_backend/database"
	"ecowork_backend/internal/config"
	"ecowork_backend/internal/email"
	"ecowork_backend/internal/handlers"
	"ecowork_backend/internal/logger"
	"ecowork_backend/internal/middleware"
	"ecowork_backend/internal/models"
	"ecowork_backend/internal/repositories"
	"ecowork_backend/internal/routes"
	"ecowork_backend/internal/services"
	"ecowork_backend/internal/validator"
	"ecowork_backend/internal/workers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func Run() {
	_ = godotenv.Load()

	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}
	logger.Info("Migrations applied")

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}
	if err := SeedFreePlan(gormDB); err != nil {
		logger.Fatal("Failed to seed free plan", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	worker := workers.NewSubscriptionWorker(
		gormDB,
		repositories.NewSubscriptionRepository(),
		repositories.NewRefreshTokenRepository(),
		time.Hour,
	)
	go worker.Run(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full gin engine. Exported so the integration
// tests can mount the same routes on an httptest server.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg)
	appHandlers := initializeHandlers(serviceContainer)
	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	var emailProvider email.Provider
	if cfg.Email.SMTPHost != "" {
		emailProvider = email.NewSMTPProvider(cfg)
		logger.Info("Email provider initialized", "host", cfg.Email.SMTPHost)
	} else {
		emailProvider = email.NewMockProvider()
		logger.Warn("SMTP is not configured. Emails go to the mock provider.")
	}

	userRepo := repositories.NewUserRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	profileRepo := repositories.NewProfileRepository()
	categoryRepo := repositories.NewCategoryRepository()
	projectRepo := repositories.NewProjectRepository()
	applicationRepo := repositories.NewApplicationRepository()
	partnershipRepo := repositories.NewPartnershipRepository()
	chatRepo := repositories.NewChatRepository()
	reviewRepo := repositories.NewReviewRepository()
	subscriptionRepo := repositories.NewSubscriptionRepository()
	notificationRepo := repositories.NewNotificationRepository()

	// subscriptionService first: project, application and partnership
	// services enforce plan limits through it.
	subscriptionService := services.NewSubscriptionService(subscriptionRepo)

	authService := services.NewAuthService(userRepo, refreshTokenRepo, profileRepo, subscriptionRepo, emailProvider)
	profileService := services.NewProfileService(profileRepo, userRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	projectService := services.NewProjectService(projectRepo, applicationRepo, categoryRepo, subscriptionService)
	applicationService := services.NewApplicationService(applicationRepo, projectRepo, userRepo, notificationRepo, subscriptionService, emailProvider)
	partnershipService := services.NewPartnershipService(partnershipRepo, categoryRepo, notificationRepo, subscriptionService)
	chatService := services.NewChatService(chatRepo, userRepo, notificationRepo)
	reviewService := services.NewReviewService(reviewRepo, projectRepo, applicationRepo, partnershipRepo, profileRepo, notificationRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	adminService := services.NewAdminService(userRepo, refreshTokenRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		ProfileService:      profileService,
		CategoryService:     categoryService,
		ProjectService:      projectService,
		ApplicationService:  applicationService,
		PartnershipService:  partnershipService,
		ChatService:         chatService,
		ReviewService:       reviewService,
		SubscriptionService: subscriptionService,
		NotificationService: notificationService,
		AdminService:        adminService,
		EmailProvider:       emailProvider,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		ProfileHandler:      handlers.NewProfileHandler(baseHandler, container.ProfileService),
		CategoryHandler:     handlers.NewCategoryHandler(baseHandler, container.CategoryService),
		ProjectHandler:      handlers.NewProjectHandler(baseHandler, container.ProjectService, container.ApplicationService),
		ApplicationHandler:  handlers.NewApplicationHandler(baseHandler, container.ApplicationService),
		PartnershipHandler:  handlers.NewPartnershipHandler(baseHandler, container.PartnershipService),
		ChatHandler:         handlers.NewChatHandler(baseHandler, container.ChatService),
		ReviewHandler:       handlers.NewReviewHandler(baseHandler, container.ReviewService),
		SubscriptionHandler: handlers.NewSubscriptionHandler(baseHandler, container.SubscriptionService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
		AdminHandler:        handlers.NewAdminHandler(baseHandler, container.AdminService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	router.Use(middleware.DBMiddleware(db))
	return router
}

// SeedFreePlan creates the plan new users are subscribed to on
// registration, when it does not exist yet. Exported so the integration
// harness seeds the same plan the server does.
func SeedFreePlan(db *gorm.DB) error {
	var existing models.SubscriptionPlan
	err := db.Where("name = ?", services.FreePlanName).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for free plan: %w", err)
	}

	plan := &models.SubscriptionPlan{
		Name:     services.FreePlanName,
		Price:    0,
		Currency: "BRL",
		Duration: "unlimited",
		Limits:   datatypes.JSON([]byte(`{}`)),
		IsActive: true,
	}
	if err := db.Create(plan).Error; err != nil {
		// Concurrent startups race on the unique plan name.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to create free plan: %w", err)
	}

	logger.Info("Free plan created", "name", services.FreePlanName)
	return nil
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("First admin credentials are not set. Skipping admin seeding.")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("email = ?", adminEmail).First(&existing).Error
		if err == nil {
			logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for admin user: %w", err)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin := &models.User{
			Email:        adminEmail,
			PasswordHash: string(hashedPassword),
			Role:         models.UserRoleAdmin,
			Status:       models.UserStatusActive,
			IsVerified:   true,
		}
		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		logger.Info("First admin user created", "email", adminEmail)
		return nil
	})
}
