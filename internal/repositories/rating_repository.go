package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fixrx_backend/internal/models"
)

var (
	ErrRatingNotFound      = errors.New("rating not found")
	ErrRatingAlreadyExists = errors.New("rating already exists for this triple")
)

// RatingCriteria filters and orders vendor rating listings.
type RatingCriteria struct {
	MinRating    int
	HasText      *bool
	VerifiedOnly bool
	Sort         string // newest | oldest | highest_rating | lowest_rating
	Page         int
	PageSize     int
}

type RatingRepository interface {
	Create(db *gorm.DB, rating *models.Rating) error
	FindByID(db *gorm.DB, id string) (*models.Rating, error)
	FindActiveByTriple(db *gorm.DB, raterID, ratedID string, connectionRequestID *string) (*models.Rating, error)
	Update(db *gorm.DB, rating *models.Rating) error
	SoftDelete(db *gorm.DB, id string) error
	FindForVendor(db *gorm.DB, vendorID string, criteria RatingCriteria) ([]models.Rating, int64, error)

	// RecomputeAggregate rebuilds the vendor's aggregate row from the
	// raw integer sub-ratings of all visible, non-deleted ratings,
	// holding a row lock so concurrent rating writes serialize per
	// vendor. Must run inside the transaction of the rating write.
	RecomputeAggregate(db *gorm.DB, vendorID string) (*models.VendorRatingAggregate, error)
	GetAggregate(db *gorm.DB, vendorID string) (*models.VendorRatingAggregate, error)
}

type RatingRepositoryImpl struct{}

func NewRatingRepository() RatingRepository {
	return &RatingRepositoryImpl{}
}

func (r *RatingRepositoryImpl) Create(db *gorm.DB, rating *models.Rating) error {
	if err := db.Create(rating).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrRatingAlreadyExists
		}
		return err
	}
	return nil
}

func (r *RatingRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Rating, error) {
	var rating models.Rating
	err := db.Preload("Rater").Preload("Rated").
		First(&rating, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *RatingRepositoryImpl) FindActiveByTriple(db *gorm.DB, raterID, ratedID string, connectionRequestID *string) (*models.Rating, error) {
	query := db.Where("rater_id = ? AND rated_id = ?", raterID, ratedID)
	if connectionRequestID != nil {
		query = query.Where("connection_request_id = ?", *connectionRequestID)
	} else {
		query = query.Where("connection_request_id IS NULL")
	}

	var rating models.Rating
	err := query.First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *RatingRepositoryImpl) Update(db *gorm.DB, rating *models.Rating) error {
	result := db.Model(rating).Updates(map[string]interface{}{
		"cost":            rating.Cost,
		"quality":         rating.Quality,
		"timeliness":      rating.Timeliness,
		"professionalism": rating.Professionalism,
		"overall":         rating.Overall,
		"review_text":     rating.ReviewText,
		"updated_at":      time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRatingNotFound
	}
	return nil
}

func (r *RatingRepositoryImpl) SoftDelete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.Rating{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRatingNotFound
	}
	return nil
}

func (r *RatingRepositoryImpl) FindForVendor(db *gorm.DB, vendorID string, criteria RatingCriteria) ([]models.Rating, int64, error) {
	query := db.Model(&models.Rating{}).
		Where("rated_id = ? AND is_visible", vendorID)

	if criteria.MinRating > 0 {
		query = query.Where("overall >= ?", float64(criteria.MinRating))
	}
	if criteria.HasText != nil {
		if *criteria.HasText {
			query = query.Where("review_text <> ''")
		} else {
			query = query.Where("review_text = ''")
		}
	}
	if criteria.VerifiedOnly {
		query = query.Where("is_verified")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch criteria.Sort {
	case "oldest":
		query = query.Order("created_at ASC")
	case "highest_rating":
		query = query.Order("overall DESC, created_at DESC")
	case "lowest_rating":
		query = query.Order("overall ASC, created_at DESC")
	default: // newest
		query = query.Order("created_at DESC")
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var ratings []models.Rating
	err := query.Preload("Rater").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&ratings).Error

	return ratings, total, err
}

// aggregateRow mirrors the SELECT used to replay the rating set.
type aggregateRow struct {
	RatingCount        int64
	AvgOverall         float64
	AvgCost            float64
	AvgQuality         float64
	AvgTimeliness      float64
	AvgProfessionalism float64
}

func (r *RatingRepositoryImpl) RecomputeAggregate(db *gorm.DB, vendorID string) (*models.VendorRatingAggregate, error) {
	// Ensure an aggregate row exists, then lock it. The lock serializes
	// concurrent rating writes for the same vendor so the recompute
	// below cannot lose an update.
	seed := models.VendorRatingAggregate{VendorID: vendorID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}

	var aggregate models.VendorRatingAggregate
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&aggregate, "vendor_id = ?", vendorID).Error; err != nil {
		return nil, err
	}

	// Replay from the raw integer sub-ratings: averaging the stored
	// overall would compound rounding, averaging (cost+quality+
	// timeliness+professionalism)/4 does not.
	var row aggregateRow
	err := db.Model(&models.Rating{}).
		Where("rated_id = ? AND is_visible", vendorID).
		Select(`COUNT(*) AS rating_count,
			COALESCE(AVG((cost + quality + timeliness + professionalism) / 4.0), 0) AS avg_overall,
			COALESCE(AVG(cost), 0) AS avg_cost,
			COALESCE(AVG(quality), 0) AS avg_quality,
			COALESCE(AVG(timeliness), 0) AS avg_timeliness,
			COALESCE(AVG(professionalism), 0) AS avg_professionalism`).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	aggregate.RatingCount = row.RatingCount
	aggregate.AvgOverall = row.AvgOverall
	aggregate.AvgCost = row.AvgCost
	aggregate.AvgQuality = row.AvgQuality
	aggregate.AvgTimeliness = row.AvgTimeliness
	aggregate.AvgProfessionalism = row.AvgProfessionalism

	if err := db.Save(&aggregate).Error; err != nil {
		return nil, err
	}
	return &aggregate, nil
}

func (r *RatingRepositoryImpl) GetAggregate(db *gorm.DB, vendorID string) (*models.VendorRatingAggregate, error) {
	var aggregate models.VendorRatingAggregate
	err := db.First(&aggregate, "vendor_id = ?", vendorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No ratings yet: an empty aggregate, not an error.
			return &models.VendorRatingAggregate{VendorID: vendorID}, nil
		}
		return nil, err
	}
	return &aggregate, nil
}
