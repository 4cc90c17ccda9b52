package services

import (
	"gorm.io/gorm"

	"fixrx_backend/internal/auth"
	"fixrx_backend/internal/models"
	"fixrx_backend/internal/repositories"
	"fixrx_backend/internal/services/dto"
	"fixrx_backend/pkg/apperrors"
)

// UserService is the minimal identity surface the core needs: local
// registration and login. Magic links, OTP and OAuth live with the
// external identity provider.
type UserService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(db *gorm.DB, userID string) (*dto.UserResponse, error)
	GetPublicProfile(db *gorm.DB, userID string) (*dto.UserInfo, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.UserRole(req.Role),
		Status:       models.UserStatusActive,
		Name:         req.Name,
		Phone:        req.Phone,
		BusinessName: req.BusinessName,
		City:         req.City,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if apperrors.Is(err, repositories.ErrEmailAlreadyTaken) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	return s.buildAuthResponse(user)
}

func (s *userService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrUserSuspended
	}

	return s.buildAuthResponse(user)
}

func (s *userService) GetProfile(db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	return buildUserResponse(user), nil
}

func (s *userService) GetPublicProfile(db *gorm.DB, userID string) (*dto.UserInfo, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	return buildUserInfo(user), nil
}

func (s *userService) buildAuthResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken: token,
		User:        buildUserResponse(user),
	}, nil
}

func buildUserResponse(user *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       string(user.Role),
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}
