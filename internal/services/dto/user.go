package dto

import "time"

// ======================
// Request DTOs
// ======================

type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Name         string `json:"name" validate:"required,min=2,max=100"`
	Role         string `json:"role" validate:"required,oneof=CONSUMER VENDOR"`
	Phone        string `json:"phone" validate:"omitempty,max=20"`
	BusinessName string `json:"business_name" validate:"omitempty,max=150"`
	City         string `json:"city" validate:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ======================
// Response DTOs
// ======================

type AuthResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user"`
}

type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserInfo is the public counterpart summary joined into request,
// message and rating listings.
type UserInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	BusinessName string `json:"business_name,omitempty"`
	City         string `json:"city,omitempty"`
	IsVerified   bool   `json:"is_verified"`
}
