package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fixrx_backend/internal/models"
	"fixrx_backend/internal/repositories"
	"fixrx_backend/internal/services/dto"
	"fixrx_backend/pkg/apperrors"
)

type fakeNotificationRepo struct {
	stored []*models.Notification
	seq    int
}

func (r *fakeNotificationRepo) Create(db *gorm.DB, notification *models.Notification) error {
	r.seq++
	notification.ID = fmt.Sprintf("n-%d", r.seq)
	r.stored = append(r.stored, notification)
	return nil
}

func (r *fakeNotificationRepo) FindByUser(db *gorm.DB, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	matched := make([]models.Notification, 0)
	for _, n := range r.stored {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		matched = append(matched, *n)
	}
	total := int64(len(matched))
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeNotificationRepo) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	for _, n := range r.stored {
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(db *gorm.DB, userID string) (int64, error) {
	var count int64
	for _, n := range r.stored {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) UnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	for _, n := range r.stored {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) FindUndispatched(db *gorm.DB, limit int) ([]models.Notification, error) {
	return nil, nil
}

func (r *fakeNotificationRepo) MarkDispatched(db *gorm.DB, ids []string) error { return nil }

func TestNotifyRequestDecisionPayload(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, newFakeUserRepo())

	vendor := &dto.UserInfo{ID: "vendor-1", Name: "Bob", BusinessName: "Bob's Plumbing"}
	require.NoError(t, svc.NotifyRequestDecision(nil, "consumer-1", "req-1", vendor, true))
	require.NoError(t, svc.NotifyRequestDecision(nil, "consumer-1", "req-2", vendor, false))

	list, err := svc.GetUserNotifications(nil, "consumer-1", false, 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(2), list.Total)

	accepted := list.Notifications[0]
	assert.Equal(t, string(models.NotificationRequestAccepted), accepted.Type)
	assert.Equal(t, "req-1", accepted.Data["request_id"])

	vendorData, ok := accepted.Data["vendor"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Bob's Plumbing", vendorData["business_name"])

	declined := list.Notifications[1]
	assert.Equal(t, string(models.NotificationRequestDeclined), declined.Type)
}

func TestMarkAsReadOwnership(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, newFakeUserRepo())

	require.NoError(t, svc.NotifyNewMessage(nil, "vendor-1", "Alice"))

	// Someone else's notification reads as missing, not forbidden.
	err := svc.MarkAsRead(nil, "consumer-1", "n-1")
	assert.Equal(t, apperrors.CodeNotFound, appCode(t, err))

	require.NoError(t, svc.MarkAsRead(nil, "vendor-1", "n-1"))

	unread, err := svc.GetUnreadCount(nil, "vendor-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestMarkAllAsRead(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, newFakeUserRepo())

	require.NoError(t, svc.NotifyNewRating(nil, "vendor-1", 4.5))
	require.NoError(t, svc.NotifyNewMessage(nil, "vendor-1", "Alice"))

	count, err := svc.MarkAllAsRead(nil, "vendor-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	list, err := svc.GetUserNotifications(nil, "vendor-1", true, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.Total)
}
