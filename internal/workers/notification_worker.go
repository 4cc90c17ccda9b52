package workers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fixrx_backend/internal/delivery"
	"fixrx_backend/internal/logger"
	"fixrx_backend/internal/models"
	"fixrx_backend/internal/repositories"
)

// NotificationWorker drains undispatched notifications in the
// background. Delivery failures are logged and retried on the next
// tick; the API path never waits on this loop.
type NotificationWorker struct {
	db       *gorm.DB
	repo     repositories.NotificationRepository
	userRepo repositories.UserRepository
	provider delivery.Provider

	interval time.Duration
	batch    int
}

func NewNotificationWorker(
	db *gorm.DB,
	repo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	provider delivery.Provider,
	interval time.Duration,
	batch int,
) *NotificationWorker {
	return &NotificationWorker{
		db:       db,
		repo:     repo,
		userRepo: userRepo,
		provider: provider,
		interval: interval,
		batch:    batch,
	}
}

// Start launches the dispatch loop. It stops when ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) {
	go w.dispatchLoop(ctx)
}

func (w *NotificationWorker) dispatchLoop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification worker stopped")
			return
		case <-ticker.C:
			w.dispatchBatch()
		}
	}
}

// dispatchBatch delivers one batch and marks only the successful
// notifications as dispatched.
func (w *NotificationWorker) dispatchBatch() {
	pending, err := w.repo.FindUndispatched(w.db, w.batch)
	if err != nil {
		logger.WorkerLog("notification", "find undispatched", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	recipients, err := w.loadRecipients(pending)
	if err != nil {
		logger.WorkerLog("notification", "load recipients", err)
		return
	}

	delivered := make([]string, 0, len(pending))
	for i := range pending {
		n := &pending[i]

		recipient, ok := recipients[n.UserID]
		if !ok {
			// Recipient deleted since the notification was created;
			// mark it dispatched so it stops recycling.
			delivered = append(delivered, n.ID)
			continue
		}

		if err := w.provider.Deliver(recipient, n); err != nil {
			logger.WorkerLog("notification", "deliver "+n.ID, err)
			continue
		}
		delivered = append(delivered, n.ID)
	}

	if len(delivered) == 0 {
		return
	}

	if err := w.repo.MarkDispatched(w.db, delivered); err != nil {
		logger.WorkerLog("notification", "mark dispatched", err)
		return
	}

	logger.Info("notifications dispatched", "count", len(delivered))
}

func (w *NotificationWorker) loadRecipients(pending []models.Notification) (map[string]*models.User, error) {
	ids := make([]string, 0, len(pending))
	seen := make(map[string]bool, len(pending))
	for i := range pending {
		if !seen[pending[i].UserID] {
			seen[pending[i].UserID] = true
			ids = append(ids, pending[i].UserID)
		}
	}

	users, err := w.userRepo.FindByIDs(w.db, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}
