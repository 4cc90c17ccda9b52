package models

// Rating holds the four category sub-ratings for one completed
// connection. Overall is the plain arithmetic mean of the four,
// computed at write time. Aggregates are always recomputed from the
// integer sub-ratings, not from stored overalls, so display rounding
// never compounds.
type Rating struct {
	BaseModelWithDeleted
	RaterID             string  `gorm:"not null;index"`
	RatedID             string  `gorm:"not null;index"`
	ConnectionRequestID *string `gorm:"index"`
	Cost                int     `gorm:"not null;check:cost >= 1 AND cost <= 5"`
	Quality             int     `gorm:"not null;check:quality >= 1 AND quality <= 5"`
	Timeliness          int     `gorm:"not null;check:timeliness >= 1 AND timeliness <= 5"`
	Professionalism     int     `gorm:"not null;check:professionalism >= 1 AND professionalism <= 5"`
	Overall             float64 `gorm:"not null"`
	ReviewText          string  `gorm:"type:text"`
	IsVisible           bool    `gorm:"default:true"`
	IsVerified          bool    `gorm:"default:false"`

	// Relations
	Rater             User               `gorm:"foreignKey:RaterID"`
	Rated             User               `gorm:"foreignKey:RatedID"`
	ConnectionRequest *ConnectionRequest `gorm:"foreignKey:ConnectionRequestID"`
}

// ComputeOverall returns the arithmetic mean of the four sub-ratings.
func (r *Rating) ComputeOverall() float64 {
	return float64(r.Cost+r.Quality+r.Timeliness+r.Professionalism) / 4.0
}

// VendorRatingAggregate is derived state: per-vendor rolling statistics
// over all visible, non-deleted ratings. It is recomputed inside the
// transaction of every rating write and must always equal a full
// replay of the rating set.
type VendorRatingAggregate struct {
	VendorID           string  `gorm:"type:uuid;primaryKey"`
	RatingCount        int64   `gorm:"not null;default:0"`
	AvgOverall         float64 `gorm:"not null;default:0"`
	AvgCost            float64 `gorm:"not null;default:0"`
	AvgQuality         float64 `gorm:"not null;default:0"`
	AvgTimeliness      float64 `gorm:"not null;default:0"`
	AvgProfessionalism float64 `gorm:"not null;default:0"`
}
