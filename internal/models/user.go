package models

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Role         UserRole   `gorm:"type:varchar(20);not null"`
	Status       UserStatus `gorm:"type:varchar(20);default:'pending'"`
	IsVerified   bool       `gorm:"default:false"`
	Name         string     `gorm:"not null"`
	Phone        string

	// Vendor-only profile fields. Kept inline: the vendor profile is a
	// handful of display attributes, not a separate entity.
	BusinessName string
	City         string
}

// DisplayName is what counterparts see in request/message listings.
func (u *User) DisplayName() string {
	if u.Role == UserRoleVendor && u.BusinessName != "" {
		return u.BusinessName
	}
	return u.Name
}
