package models

import "time"

// Message is append-only; deletion is the soft DeletedAt flag on
// BaseModelWithDeleted, never a physical remove.
type Message struct {
	BaseModelWithDeleted
	SenderID            string  `gorm:"not null;index"`
	RecipientID         string  `gorm:"not null;index"`
	ConnectionRequestID *string `gorm:"index"`
	Content             string  `gorm:"type:text;not null"`
	Type                MessageType `gorm:"type:varchar(10);default:'TEXT'"`
	IsRead              bool        `gorm:"default:false;index"`
	ReadAt              *time.Time

	// Relations
	Sender            User               `gorm:"foreignKey:SenderID"`
	Recipient         User               `gorm:"foreignKey:RecipientID"`
	ConnectionRequest *ConnectionRequest `gorm:"foreignKey:ConnectionRequestID"`
}
