package services

import "ecowork_backend/internal/email"

// ServiceContainer holds every service the handlers depend on.
type ServiceContainer struct {
	AuthService         AuthService
	ProfileService      ProfileService
	CategoryService     CategoryService
	ProjectService      ProjectService
	ApplicationService  ApplicationService
	PartnershipService  PartnershipService
	ChatService         ChatService
	ReviewService       ReviewService
	SubscriptionService SubscriptionService
	NotificationService NotificationService
	AdminService        AdminService
	EmailProvider       email.Provider
}
