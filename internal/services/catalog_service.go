package services

import (
	"gorm.io/gorm"

	"fixrx_backend/internal/repositories"
	"fixrx_backend/internal/services/dto"
	"fixrx_backend/pkg/apperrors"
)

// CatalogService exposes the read-mostly service reference data.
type CatalogService interface {
	ListCategories(db *gorm.DB) ([]*dto.CategoryResponse, error)
	ListServices(db *gorm.DB, categoryID string) ([]*dto.ServiceResponse, error)
	GetService(db *gorm.DB, serviceID string) (*dto.ServiceResponse, error)
}

type catalogService struct {
	serviceRepo repositories.ServiceRepository
}

func NewCatalogService(serviceRepo repositories.ServiceRepository) CatalogService {
	return &catalogService{serviceRepo: serviceRepo}
}

func (s *catalogService) ListCategories(db *gorm.DB) ([]*dto.CategoryResponse, error) {
	categories, err := s.serviceRepo.FindCategories(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, &dto.CategoryResponse{
			ID:          categories[i].ID,
			Name:        categories[i].Name,
			Description: categories[i].Description,
		})
	}
	return responses, nil
}

func (s *catalogService) ListServices(db *gorm.DB, categoryID string) ([]*dto.ServiceResponse, error) {
	services, err := s.serviceRepo.FindServicesByCategory(db, categoryID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.ServiceResponse, 0, len(services))
	for i := range services {
		responses = append(responses, &dto.ServiceResponse{
			ID:          services[i].ID,
			CategoryID:  services[i].CategoryID,
			Name:        services[i].Name,
			Description: services[i].Description,
		})
	}
	return responses, nil
}

func (s *catalogService) GetService(db *gorm.DB, serviceID string) (*dto.ServiceResponse, error) {
	service, err := s.serviceRepo.FindServiceByID(db, serviceID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrServiceNotFound) {
			return nil, apperrors.NewNotFoundError("catalog", "Service not found")
		}
		return nil, apperrors.InternalError(err)
	}

	return &dto.ServiceResponse{
		ID:          service.ID,
		CategoryID:  service.CategoryID,
		Name:        service.Name,
		Description: service.Description,
	}, nil
}
