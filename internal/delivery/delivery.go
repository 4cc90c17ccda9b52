package delivery

import (
	"fixrx_backend/internal/models"
)

// Provider pushes a stored notification out through an external
// channel (email today; push later). The dispatch worker treats a nil
// error as delivered.
type Provider interface {
	Deliver(recipient *models.User, notification *models.Notification) error
}
