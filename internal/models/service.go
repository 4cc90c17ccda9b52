package models

// Static catalog reference data, read-mostly.

type ServiceCategory struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;not null"`
	Description string
	SortOrder   int `gorm:"default:0"`

	Services []Service `gorm:"foreignKey:CategoryID"`
}

type Service struct {
	BaseModel
	CategoryID  string `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string
	IsActive    bool `gorm:"default:true"`

	Category ServiceCategory `gorm:"foreignKey:CategoryID"`
}
