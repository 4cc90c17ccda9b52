package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fixrx_backend/internal/models"
	"fixrx_backend/internal/repositories"
	"fixrx_backend/internal/services/dto"
	"fixrx_backend/pkg/apperrors"
)

type NotificationService interface {
	Create(db *gorm.DB, userID string, ntype models.NotificationType, title, message string, data map[string]interface{}) error
	GetUserNotifications(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) (*dto.NotificationListResponse, error)
	MarkAsRead(db *gorm.DB, userID, notificationID string) error
	MarkAllAsRead(db *gorm.DB, userID string) (int64, error)
	GetUnreadCount(db *gorm.DB, userID string) (int64, error)

	// Factory methods for the lifecycle events
	NotifyRequestCreated(db *gorm.DB, vendorID, consumerName, requestID string) error
	NotifyRequestDecision(db *gorm.DB, consumerID, requestID string, vendor *dto.UserInfo, accepted bool) error
	NotifyRequestCancelled(db *gorm.DB, vendorID, consumerName, requestID string) error
	NotifyNewMessage(db *gorm.DB, recipientID, senderName string) error
	NotifyNewRating(db *gorm.DB, vendorID string, overall float64) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
	}
}

// ---------------- Notification operations ----------------

func (s *notificationService) Create(db *gorm.DB, userID string, ntype models.NotificationType, title, message string, data map[string]interface{}) error {
	var dataJSON datatypes.JSON
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal notification data: %w", err)
		}
		dataJSON = datatypes.JSON(raw)
	}

	notification := &models.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
		Data:    dataJSON,
		IsRead:  false,
	}

	return s.notificationRepo.Create(db, notification)
}

func (s *notificationService) GetUserNotifications(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) (*dto.NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	notifications, total, err := s.notificationRepo.FindByUser(db, userID, unreadOnly, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unread, err := s.notificationRepo.UnreadCount(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, buildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) MarkAsRead(db *gorm.DB, userID, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(db, userID, notificationID); err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.NewNotFoundError("notification", "Notification not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(db *gorm.DB, userID string) (int64, error) {
	count, err := s.notificationRepo.MarkAllAsRead(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func (s *notificationService) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	count, err := s.notificationRepo.UnreadCount(db, userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

// ---------------- Factory methods ----------------

func (s *notificationService) NotifyRequestCreated(db *gorm.DB, vendorID, consumerName, requestID string) error {
	return s.Create(db, vendorID, models.NotificationRequestCreated,
		"New connection request",
		fmt.Sprintf("%s sent you a connection request", consumerName),
		map[string]interface{}{"request_id": requestID},
	)
}

func (s *notificationService) NotifyRequestDecision(db *gorm.DB, consumerID, requestID string, vendor *dto.UserInfo, accepted bool) error {
	ntype := models.NotificationRequestDeclined
	title := "Request declined"
	text := fmt.Sprintf("%s declined your connection request", vendor.Name)
	if accepted {
		ntype = models.NotificationRequestAccepted
		title = "Request accepted"
		text = fmt.Sprintf("%s accepted your connection request", vendor.Name)
	}

	return s.Create(db, consumerID, ntype, title, text, map[string]interface{}{
		"request_id": requestID,
		"vendor": map[string]interface{}{
			"id":            vendor.ID,
			"name":          vendor.Name,
			"business_name": vendor.BusinessName,
			"city":          vendor.City,
			"is_verified":   vendor.IsVerified,
		},
	})
}

func (s *notificationService) NotifyRequestCancelled(db *gorm.DB, vendorID, consumerName, requestID string) error {
	return s.Create(db, vendorID, models.NotificationRequestCancelled,
		"Request cancelled",
		fmt.Sprintf("%s cancelled their connection request", consumerName),
		map[string]interface{}{"request_id": requestID},
	)
}

func (s *notificationService) NotifyNewMessage(db *gorm.DB, recipientID, senderName string) error {
	return s.Create(db, recipientID, models.NotificationNewMessage,
		"New message",
		fmt.Sprintf("New message from %s", senderName),
		nil,
	)
}

func (s *notificationService) NotifyNewRating(db *gorm.DB, vendorID string, overall float64) error {
	return s.Create(db, vendorID, models.NotificationNewRating,
		"New rating received",
		fmt.Sprintf("You received a new %.1f-star rating", overall),
		nil,
	)
}

func buildNotificationResponse(n *models.Notification) *dto.NotificationResponse {
	resp := &dto.NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}

	if len(n.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(n.Data, &data); err == nil {
			resp.Data = data
		}
	}

	return resp
}
