package repositories

import (
	"errors"

	"gorm.io/gorm"

	"fixrx_backend/internal/models"
)

var ErrServiceNotFound = errors.New("service not found")

type ServiceRepository interface {
	FindCategories(db *gorm.DB) ([]models.ServiceCategory, error)
	FindServicesByCategory(db *gorm.DB, categoryID string) ([]models.Service, error)
	FindServiceByID(db *gorm.DB, id string) (*models.Service, error)
}

type ServiceRepositoryImpl struct{}

func NewServiceRepository() ServiceRepository {
	return &ServiceRepositoryImpl{}
}

func (r *ServiceRepositoryImpl) FindCategories(db *gorm.DB) ([]models.ServiceCategory, error) {
	var categories []models.ServiceCategory
	err := db.Order("sort_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *ServiceRepositoryImpl) FindServicesByCategory(db *gorm.DB, categoryID string) ([]models.Service, error) {
	var services []models.Service
	err := db.Where("category_id = ? AND is_active", categoryID).
		Order("name ASC").
		Find(&services).Error
	return services, err
}

func (r *ServiceRepositoryImpl) FindServiceByID(db *gorm.DB, id string) (*models.Service, error) {
	var service models.Service
	err := db.Preload("Category").First(&service, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}
