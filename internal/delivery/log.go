package delivery

import (
	"fixrx_backend/internal/logger"
	"fixrx_backend/internal/models"
)

// LogProvider is the dev/test sink: it logs instead of sending. Used
// when SMTP is not configured so the dispatch loop still drains.
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Deliver(recipient *models.User, notification *models.Notification) error {
	logger.Info("notification delivered (log sink)",
		"user_id", recipient.ID,
		"type", notification.Type,
		"title", notification.Title,
	)
	return nil
}
