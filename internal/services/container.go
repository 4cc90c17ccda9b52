package services

// ServiceContainer bundles all services for wiring.
type ServiceContainer struct {
	UserService         UserService
	CatalogService      CatalogService
	ConnectionService   ConnectionService
	RatingService       RatingService
	MessageService      MessageService
	NotificationService NotificationService
}
