package handlers

// AppHandlers holds every handler registered on the router.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ProfileHandler      *ProfileHandler
	CategoryHandler     *CategoryHandler
	ProjectHandler      *ProjectHandler
	ApplicationHandler  *ApplicationHandler
	PartnershipHandler  *PartnershipHandler
	ChatHandler         *ChatHandler
	ReviewHandler       *ReviewHandler
	SubscriptionHandler *SubscriptionHandler
	NotificationHandler *NotificationHandler
	AdminHandler        *AdminHandler
}
