package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fixrx_backend/internal/models"
)

var (
	ErrRequestNotFound        = errors.New("connection request not found")
	ErrDuplicateActiveRequest = errors.New("active request already exists for this triple")
)

type ConnectionRepository interface {
	Create(db *gorm.DB, request *models.ConnectionRequest) error
	FindByID(db *gorm.DB, id string) (*models.ConnectionRequest, error)
	FindActiveByTriple(db *gorm.DB, consumerID, vendorID string, serviceID *string) (*models.ConnectionRequest, error)
	FindByConsumer(db *gorm.DB, consumerID string) ([]models.ConnectionRequest, error)
	FindByVendor(db *gorm.DB, vendorID string) ([]models.ConnectionRequest, error)

	// TransitionFromPending applies the status change only when the row
	// is still PENDING and owned by the given actor column. Zero rows
	// affected means the caller lost the race or targeted a missing or
	// foreign request; it must re-read to tell which.
	TransitionFromPending(db *gorm.DB, requestID, actorColumn, actorID string, next models.RequestStatus, respondedAt *time.Time) (int64, error)
}

type ConnectionRepositoryImpl struct{}

func NewConnectionRepository() ConnectionRepository {
	return &ConnectionRepositoryImpl{}
}

func (r *ConnectionRepositoryImpl) Create(db *gorm.DB, request *models.ConnectionRequest) error {
	if err := db.Create(request).Error; err != nil {
		// The partial unique index on (consumer_id, vendor_id, service_id)
		// WHERE status <> 'CANCELLED' is the authoritative duplicate
		// check; two concurrent creates cannot both pass it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateActiveRequest
		}
		return err
	}
	return nil
}

func (r *ConnectionRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.ConnectionRequest, error) {
	var request models.ConnectionRequest
	err := db.Preload("Consumer").Preload("Vendor").Preload("Service").
		First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *ConnectionRepositoryImpl) FindActiveByTriple(db *gorm.DB, consumerID, vendorID string, serviceID *string) (*models.ConnectionRequest, error) {
	query := db.Where("consumer_id = ? AND vendor_id = ? AND status <> ?",
		consumerID, vendorID, models.RequestStatusCancelled)
	if serviceID != nil {
		query = query.Where("service_id = ?", *serviceID)
	} else {
		query = query.Where("service_id IS NULL")
	}

	var request models.ConnectionRequest
	err := query.First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *ConnectionRepositoryImpl) FindByConsumer(db *gorm.DB, consumerID string) ([]models.ConnectionRequest, error) {
	var requests []models.ConnectionRequest
	err := db.Preload("Vendor").Preload("Service").
		Where("consumer_id = ?", consumerID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *ConnectionRepositoryImpl) FindByVendor(db *gorm.DB, vendorID string) ([]models.ConnectionRequest, error) {
	var requests []models.ConnectionRequest
	err := db.Preload("Consumer").Preload("Service").
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *ConnectionRepositoryImpl) TransitionFromPending(db *gorm.DB, requestID, actorColumn, actorID string, next models.RequestStatus, respondedAt *time.Time) (int64, error) {
	updates := map[string]interface{}{
		"status":     next,
		"updated_at": time.Now(),
	}
	if respondedAt != nil {
		updates["responded_at"] = *respondedAt
	}

	result := db.Model(&models.ConnectionRequest{}).
		Where("id = ? AND "+actorColumn+" = ? AND status = ?",
			requestID, actorID, models.RequestStatusPending).
		Updates(updates)

	return result.RowsAffected, result.Error
}
