package handlers

import (
	"fixrx_backend/internal/services"
	"fixrx_backend/internal/validator"
)

// AppHandlers bundles every HTTP handler so route registration takes
// a single argument.
type AppHandlers struct {
	User         *UserHandler
	Catalog      *CatalogHandler
	Connection   *ConnectionHandler
	Rating       *RatingHandler
	Message      *MessageHandler
	Notification *NotificationHandler
}

func NewAppHandlers(v *validator.Validator, svc *services.ServiceContainer) *AppHandlers {
	return &AppHandlers{
		User:         NewUserHandler(v, svc.UserService),
		Catalog:      NewCatalogHandler(v, svc.CatalogService),
		Connection:   NewConnectionHandler(v, svc.ConnectionService),
		Rating:       NewRatingHandler(v, svc.RatingService),
		Message:      NewMessageHandler(v, svc.MessageService),
		Notification: NewNotificationHandler(v, svc.NotificationService),
	}
}
