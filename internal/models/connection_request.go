package models

import "time"

// ConnectionRequest is a consumer's solicitation of a vendor for a
// service. Rows are never deleted; the status column carries the
// lifecycle. Uniqueness of the active (consumer, vendor, service)
// triple is enforced by a partial index created in database.AutoMigrate.
type ConnectionRequest struct {
	BaseModel
	ConsumerID         string  `gorm:"not null;index"`
	VendorID           string  `gorm:"not null;index"`
	ServiceID          *string `gorm:"index"`
	Message            string  `gorm:"type:text;not null"`
	ProjectDescription string  `gorm:"type:text"`
	BudgetMin          *float64
	BudgetMax          *float64
	PreferredStartDate *time.Time
	Urgency            Urgency       `gorm:"type:varchar(10);default:'MEDIUM'"`
	Status             RequestStatus `gorm:"type:varchar(10);default:'PENDING';index"`
	RespondedAt        *time.Time

	// Relations
	Consumer User     `gorm:"foreignKey:ConsumerID"`
	Vendor   User     `gorm:"foreignKey:VendorID"`
	Service  *Service `gorm:"foreignKey:ServiceID"`
}
