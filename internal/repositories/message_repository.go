package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fixrx_backend/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// ConversationSummary is one row of the conversation list: the
// counterpart plus the last message and unread count.
type ConversationSummary struct {
	CounterpartID   string    `json:"counterpart_id"`
	LastMessage     string    `json:"last_message"`
	LastMessageType string    `json:"last_message_type"`
	LastMessageAt   time.Time `json:"last_message_at"`
	UnreadCount     int64     `json:"unread_count"`
}

type MessageRepository interface {
	Create(db *gorm.DB, message *models.Message) error
	FindByID(db *gorm.DB, id string) (*models.Message, error)

	// FindConversation pages newest-first over the dialog between two
	// users; callers reverse the page for oldest-first presentation.
	FindConversation(db *gorm.DB, userID, otherUserID string, limit, offset int) ([]models.Message, error)

	// MarkConversationRead stamps all unread messages from otherUserID
	// to userID as read. Returns the number of messages affected.
	MarkConversationRead(db *gorm.DB, userID, otherUserID string) (int64, error)

	ListConversations(db *gorm.DB, userID string) ([]ConversationSummary, error)
	UnreadCount(db *gorm.DB, userID string) (int64, error)
	SoftDelete(db *gorm.DB, id string) error
}

type MessageRepositoryImpl struct{}

func NewMessageRepository() MessageRepository {
	return &MessageRepositoryImpl{}
}

func (r *MessageRepositoryImpl) Create(db *gorm.DB, message *models.Message) error {
	return db.Create(message).Error
}

func (r *MessageRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Message, error) {
	var message models.Message
	err := db.First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}

func (r *MessageRepositoryImpl) FindConversation(db *gorm.DB, userID, otherUserID string, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := db.Where(
		"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		userID, otherUserID, otherUserID, userID,
	).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) MarkConversationRead(db *gorm.DB, userID, otherUserID string) (int64, error) {
	now := time.Now()
	result := db.Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND NOT is_read", userID, otherUserID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *MessageRepositoryImpl) ListConversations(db *gorm.DB, userID string) ([]ConversationSummary, error) {
	// One row per counterpart: the latest message wins via DISTINCT ON,
	// unread counts come from a correlated lateral-free subquery.
	var summaries []ConversationSummary
	err := db.Raw(`
		SELECT DISTINCT ON (counterpart_id)
			CASE WHEN m.sender_id = ? THEN m.recipient_id ELSE m.sender_id END AS counterpart_id,
			m.content    AS last_message,
			m.type       AS last_message_type,
			m.created_at AS last_message_at,
			(SELECT COUNT(*) FROM messages u
			  WHERE u.recipient_id = ?
			    AND u.sender_id = CASE WHEN m.sender_id = ? THEN m.recipient_id ELSE m.sender_id END
			    AND NOT u.is_read
			    AND u.deleted_at IS NULL) AS unread_count
		FROM messages m
		WHERE (m.sender_id = ? OR m.recipient_id = ?)
		  AND m.deleted_at IS NULL
		ORDER BY counterpart_id, m.created_at DESC`,
		userID, userID, userID, userID, userID,
	).Scan(&summaries).Error
	return summaries, err
}

func (r *MessageRepositoryImpl) UnreadCount(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Message{}).
		Where("recipient_id = ? AND NOT is_read", userID).
		Count(&count).Error
	return count, err
}

func (r *MessageRepositoryImpl) SoftDelete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Message{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
