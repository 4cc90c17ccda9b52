package dto

import "time"

// ======================
// Request DTOs
// ======================

type SendMessageRequest struct {
	RecipientID         string  `json:"recipient_id" validate:"required,uuid4"`
	ConnectionRequestID *string `json:"connection_request_id,omitempty" validate:"omitempty,uuid4"`
	Content             string  `json:"content" validate:"required,min=1,max=5000"`
	Type                string  `json:"type" validate:"omitempty,message-type"`
}

// ======================
// Response DTOs
// ======================

type MessageResponse struct {
	ID                  string     `json:"id"`
	SenderID            string     `json:"sender_id"`
	RecipientID         string     `json:"recipient_id"`
	ConnectionRequestID *string    `json:"connection_request_id,omitempty"`
	Content             string     `json:"content"`
	Type                string     `json:"type"`
	IsRead              bool       `json:"is_read"`
	ReadAt              *time.Time `json:"read_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

type ConversationResponse struct {
	Messages []*MessageResponse `json:"messages"`
	// MarkedRead reports how many incoming messages this fetch marked
	// as read (fetching a conversation is the read-receipt action).
	MarkedRead int64 `json:"marked_read"`
}

type ConversationSummaryResponse struct {
	Counterpart   *UserInfo `json:"counterpart"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int64     `json:"unread_count"`
}
