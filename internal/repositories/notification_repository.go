package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fixrx_backend/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(db *gorm.DB, notification *models.Notification) error
	FindByUser(db *gorm.DB, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) (int64, error)
	UnreadCount(db *gorm.DB, userID string) (int64, error)

	// Dispatch worker support
	FindUndispatched(db *gorm.DB, limit int) ([]models.Notification, error)
	MarkDispatched(db *gorm.DB, ids []string) error
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (r *NotificationRepositoryImpl) Create(db *gorm.DB, notification *models.Notification) error {
	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindByUser(db *gorm.DB, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	query := db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("NOT is_read")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	now := time.Now()
	result := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND NOT is_read", notificationID, userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Missing, foreign or already read: distinguish missing/foreign.
		var count int64
		if err := db.Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", notificationID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotificationNotFound
		}
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(db *gorm.DB, userID string) (int64, error) {
	now := time.Now()
	result := db.Model(&models.Notification{}).
		Where("user_id = ? AND NOT is_read", userID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) UnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Notification{}).
		Where("user_id = ? AND NOT is_read", userID).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) FindUndispatched(db *gorm.DB, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := db.Where("dispatched_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) MarkDispatched(db *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	return db.Model(&models.Notification{}).
		Where("id IN ?", ids).
		Update("dispatched_at", now).Error
}
