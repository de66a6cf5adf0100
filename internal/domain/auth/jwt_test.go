package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *User {
	u := NewUser("staff@school.example", "hash")
	u.Name = "Front Desk"
	u.IsAdmin = true
	return u
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	user := testUser()

	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	userCtx, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), userCtx.UserID)
	assert.Equal(t, user.Email, userCtx.Email)
	assert.Equal(t, user.Role, userCtx.Role)
	assert.True(t, userCtx.IsAdmin)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	other := NewJWTService(DefaultJWTConfig("different-secret"))

	token, _, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
