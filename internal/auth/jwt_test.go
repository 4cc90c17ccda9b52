package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixrx_backend/internal/config"
	"fixrx_backend/internal/models"
)

func TestMain(m *testing.M) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg

	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-1", models.UserRoleVendor)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.UserRoleVendor, claims.Role)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-1", models.UserRoleConsumer)
	require.NoError(t, err)

	config.AppConfig.JWT.Secret = "rotated-secret"
	defer func() { config.AppConfig.JWT.Secret = "test-secret" }()

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStaticVerifier(t *testing.T) {
	v := NewStaticVerifier("fixture-user", models.UserRoleConsumer)

	claims, err := v.Verify("anything")
	require.NoError(t, err)
	assert.Equal(t, "fixture-user", claims.UserID)

	_, err = v.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("long enough password")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "long enough password"))
	assert.False(t, CheckPassword(hash, "something else"))

	_, err = HashPassword("short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}
