package services

import (
	"context"
	"math"

	"gorm.io/gorm"

	"fixrx_backend/internal/cache"
	"fixrx_backend/internal/logger"
	"fixrx_backend/internal/models"
	"fixrx_backend/internal/repositories"
	"fixrx_backend/internal/services/dto"
	"fixrx_backend/pkg/apperrors"
)

// RatingService records four-category ratings and keeps the per-vendor
// aggregate in lockstep. The aggregate row is recomputed from the raw
// sub-ratings inside the same transaction as every write; the redis
// cache on top is advisory and invalidated on each write.
type RatingService interface {
	CreateRating(db *gorm.DB, raterID string, req *dto.CreateRatingRequest) (*dto.RatingResponse, error)
	UpdateRating(db *gorm.DB, ratingID, raterID string, req *dto.UpdateRatingRequest) (*dto.RatingResponse, error)
	DeleteRating(db *gorm.DB, ratingID, raterID string) error
	GetAggregate(ctx context.Context, db *gorm.DB, vendorID string) (*dto.AggregateResponse, error)
	ListRatings(db *gorm.DB, vendorID string, criteria dto.RatingSearchCriteria) (*dto.RatingListResponse, error)
}

type ratingService struct {
	ratingRepo          repositories.RatingRepository
	userRepo            repositories.UserRepository
	connectionRepo      repositories.ConnectionRepository
	notificationService NotificationService
	aggregateCache      *cache.RatingCache
}

func NewRatingService(
	ratingRepo repositories.RatingRepository,
	userRepo repositories.UserRepository,
	connectionRepo repositories.ConnectionRepository,
	notificationService NotificationService,
	aggregateCache *cache.RatingCache,
) RatingService {
	return &ratingService{
		ratingRepo:          ratingRepo,
		userRepo:            userRepo,
		connectionRepo:      connectionRepo,
		notificationService: notificationService,
		aggregateCache:      aggregateCache,
	}
}

// ---------------- Rating operations ----------------

func (s *ratingService) CreateRating(db *gorm.DB, raterID string, req *dto.CreateRatingRequest) (*dto.RatingResponse, error) {
	if err := validateRatingValues(&req.Ratings); err != nil {
		return nil, err
	}
	if raterID == req.VendorID {
		return nil, apperrors.ErrSelfRatingNotAllowed
	}

	rated, err := s.userRepo.FindByID(db, req.VendorID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("rating", "Vendor not found")
	}
	if rated.Role != models.UserRoleVendor {
		return nil, apperrors.NewBadRequestError("Ratings can only target vendors")
	}

	if req.ConnectionRequestID != nil {
		request, err := s.connectionRepo.FindByID(db, *req.ConnectionRequestID)
		if err != nil {
			return nil, apperrors.NewNotFoundError("rating", "Connection request not found")
		}
		if request.ConsumerID != raterID || request.VendorID != req.VendorID {
			return nil, apperrors.NewForbiddenError("Connection request does not belong to this rater and vendor")
		}
		if request.Status != models.RequestStatusAccepted {
			return nil, apperrors.ErrInvalidStateTransition("rating",
				"Only accepted connection requests can be rated")
		}
	}

	if _, err := s.ratingRepo.FindActiveByTriple(db, raterID, req.VendorID, req.ConnectionRequestID); err == nil {
		return nil, apperrors.ErrDuplicateRating
	}

	rating := &models.Rating{
		RaterID:             raterID,
		RatedID:             req.VendorID,
		ConnectionRequestID: req.ConnectionRequestID,
		Cost:                req.Ratings.Cost,
		Quality:             req.Ratings.Quality,
		Timeliness:          req.Ratings.Timeliness,
		Professionalism:     req.Ratings.Professionalism,
		ReviewText:          req.Comment,
		IsVisible:           true,
		IsVerified:          req.ConnectionRequestID != nil,
	}
	rating.Overall = rating.ComputeOverall()

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.ratingRepo.Create(tx, rating); err != nil {
			return err
		}
		_, err := s.ratingRepo.RecomputeAggregate(tx, rating.RatedID)
		return err
	})
	if err != nil {
		if apperrors.Is(err, repositories.ErrRatingAlreadyExists) {
			return nil, apperrors.ErrDuplicateRating
		}
		return nil, apperrors.InternalError(err)
	}

	s.afterRatingWrite(db, rating.RatedID, rating.Overall, true)

	return buildRatingResponse(rating), nil
}

func (s *ratingService) UpdateRating(db *gorm.DB, ratingID, raterID string, req *dto.UpdateRatingRequest) (*dto.RatingResponse, error) {
	rating, err := s.ratingRepo.FindByID(db, ratingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRatingNotFound) {
			return nil, apperrors.ErrRatingNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if rating.RaterID != raterID {
		return nil, apperrors.ErrNotRatingAuthor
	}

	if req.Ratings != nil {
		if err := validateRatingValues(req.Ratings); err != nil {
			return nil, err
		}
		rating.Cost = req.Ratings.Cost
		rating.Quality = req.Ratings.Quality
		rating.Timeliness = req.Ratings.Timeliness
		rating.Professionalism = req.Ratings.Professionalism
		rating.Overall = rating.ComputeOverall()
	}
	if req.Comment != nil {
		rating.ReviewText = *req.Comment
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.ratingRepo.Update(tx, rating); err != nil {
			return err
		}
		_, err := s.ratingRepo.RecomputeAggregate(tx, rating.RatedID)
		return err
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.afterRatingWrite(db, rating.RatedID, rating.Overall, false)

	return buildRatingResponse(rating), nil
}

func (s *ratingService) DeleteRating(db *gorm.DB, ratingID, raterID string) error {
	rating, err := s.ratingRepo.FindByID(db, ratingID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRatingNotFound) {
			return apperrors.ErrRatingNotFound
		}
		return apperrors.InternalError(err)
	}
	if rating.RaterID != raterID {
		return apperrors.ErrNotRatingAuthor
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.ratingRepo.SoftDelete(tx, ratingID); err != nil {
			return err
		}
		_, err := s.ratingRepo.RecomputeAggregate(tx, rating.RatedID)
		return err
	})
	if err != nil {
		return apperrors.InternalError(err)
	}

	s.afterRatingWrite(db, rating.RatedID, 0, false)

	return nil
}

// ---------------- Aggregate ----------------

func (s *ratingService) GetAggregate(ctx context.Context, db *gorm.DB, vendorID string) (*dto.AggregateResponse, error) {
	cached, err := s.aggregateCache.Get(ctx, vendorID)
	if err != nil {
		// Cache trouble degrades to a store read.
		logger.CtxWithError(ctx, "aggregate cache read failed", err, "vendor_id", vendorID)
	}
	if cached != nil {
		return buildAggregateResponse(cached), nil
	}

	aggregate, err := s.ratingRepo.GetAggregate(db, vendorID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.aggregateCache.Set(ctx, aggregate); err != nil {
		logger.CtxWithError(ctx, "aggregate cache write failed", err, "vendor_id", vendorID)
	}

	return buildAggregateResponse(aggregate), nil
}

func (s *ratingService) ListRatings(db *gorm.DB, vendorID string, criteria dto.RatingSearchCriteria) (*dto.RatingListResponse, error) {
	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	ratings, total, err := s.ratingRepo.FindForVendor(db, vendorID, repositories.RatingCriteria{
		MinRating:    criteria.MinRating,
		HasText:      criteria.HasText,
		VerifiedOnly: criteria.VerifiedOnly,
		Sort:         criteria.Sort,
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		responses = append(responses, buildRatingResponse(&ratings[i]))
	}

	return &dto.RatingListResponse{
		Ratings:    responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

// ---------------- Helpers ----------------

func validateRatingValues(values *dto.RatingValues) error {
	fields := map[string]int{
		"cost":            values.Cost,
		"quality":         values.Quality,
		"timeliness":      values.Timeliness,
		"professionalism": values.Professionalism,
	}
	details := make(map[string]string)
	for name, v := range fields {
		if v < 1 || v > 5 {
			details[name] = "Must be between 1 and 5"
		}
	}
	if len(details) > 0 {
		return apperrors.ValidationError(details)
	}
	return nil
}

// afterRatingWrite invalidates the cache and, for new ratings, notifies
// the vendor. Both are fire-and-forget.
func (s *ratingService) afterRatingWrite(db *gorm.DB, vendorID string, overall float64, created bool) {
	if err := s.aggregateCache.Invalidate(context.Background(), vendorID); err != nil {
		logger.WithError(err).Warn("aggregate cache invalidation failed", "vendor_id", vendorID)
	}

	if created {
		go func() {
			if err := s.notificationService.NotifyNewRating(db, vendorID, overall); err != nil {
				logger.WithError(err).Warn("failed to notify vendor of new rating", "vendor_id", vendorID)
			}
		}()
	}
}

func buildRatingResponse(rating *models.Rating) *dto.RatingResponse {
	resp := &dto.RatingResponse{
		ID:                  rating.ID,
		RaterID:             rating.RaterID,
		VendorID:            rating.RatedID,
		ConnectionRequestID: rating.ConnectionRequestID,
		Cost:                rating.Cost,
		Quality:             rating.Quality,
		Timeliness:          rating.Timeliness,
		Professionalism:     rating.Professionalism,
		OverallRating:       round2(rating.Overall),
		Comment:             rating.ReviewText,
		IsVerified:          rating.IsVerified,
		CreatedAt:           rating.CreatedAt,
		UpdatedAt:           rating.UpdatedAt,
	}

	if rating.Rater.ID != "" {
		resp.Rater = buildUserInfo(&rating.Rater)
	}

	return resp
}

func buildAggregateResponse(aggregate *models.VendorRatingAggregate) *dto.AggregateResponse {
	return &dto.AggregateResponse{
		VendorID:           aggregate.VendorID,
		RatingCount:        aggregate.RatingCount,
		AvgOverall:         round2(aggregate.AvgOverall),
		AvgCost:            round2(aggregate.AvgCost),
		AvgQuality:         round2(aggregate.AvgQuality),
		AvgTimeliness:      round2(aggregate.AvgTimeliness),
		AvgProfessionalism: round2(aggregate.AvgProfessionalism),
	}
}

// round2 rounds for display only; persisted values keep full precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
