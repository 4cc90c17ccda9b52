package auth

import (
	"fixrx_backend/internal/models"
)

// TokenVerifier is the authentication contract injected into the auth
// middleware. Production wires JWTVerifier; test harnesses wire
// StaticVerifier through config, so there is no environment branch
// inside request handling.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

type JWTVerifier struct{}

func NewJWTVerifier() *JWTVerifier {
	return &JWTVerifier{}
}

func (v *JWTVerifier) Verify(token string) (*Claims, error) {
	return ParseToken(token)
}

// StaticVerifier resolves every bearer token to one fixed identity.
// Only selected via auth.mode=static in config; never wired in
// production setups.
type StaticVerifier struct {
	UserID string
	Role   models.UserRole
}

func NewStaticVerifier(userID string, role models.UserRole) *StaticVerifier {
	return &StaticVerifier{UserID: userID, Role: role}
}

func (v *StaticVerifier) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	return &Claims{UserID: v.UserID, Role: v.Role}, nil
}
