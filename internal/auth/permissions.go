package auth

import (
	"errors"

	"fixrx_backend/internal/models"
)

func IsConsumer(claims *Claims) bool {
	return claims != nil && claims.Role == models.UserRoleConsumer
}

func IsVendor(claims *Claims) bool {
	return claims != nil && claims.Role == models.UserRoleVendor
}

func IsAdmin(claims *Claims) bool {
	return claims != nil && claims.Role == models.UserRoleAdmin
}

func ValidateRole(role string) error {
	switch models.UserRole(role) {
	case models.UserRoleConsumer, models.UserRoleVendor, models.UserRoleAdmin:
		return nil
	}
	return errors.New("unknown role: " + role)
}
