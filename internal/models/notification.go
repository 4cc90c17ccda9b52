package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is the record the dispatch worker delivers through the
// external channel. DispatchedAt stays nil until delivery succeeds.
type Notification struct {
	BaseModel
	UserID       string           `gorm:"not null;index"`
	Type         NotificationType `gorm:"type:varchar(30);not null"`
	Title        string           `gorm:"not null"`
	Message      string
	Data         datatypes.JSON `gorm:"type:jsonb"` // {"request_id": "...", "vendor_id": "..."}
	IsRead       bool           `gorm:"default:false"`
	ReadAt       *time.Time
	DispatchedAt *time.Time `gorm:"index"`
}
