package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTIdentityVerifyToken(t *testing.T) {
	identity := NewJWTIdentityService("test-secret")
	ctx := context.Background()

	token := signToken(t, "test-secret", jwt.MapClaims{"user_id": "u1"})

	uid, err := identity.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)
}

func TestJWTIdentityRejectsBadTokens(t *testing.T) {
	identity := NewJWTIdentityService("test-secret")
	ctx := context.Background()

	_, err := identity.VerifyToken(ctx, "not-a-token")
	assert.Equal(t, ErrInvalidToken, err)

	wrongSecret := signToken(t, "other-secret", jwt.MapClaims{"user_id": "u1"})
	_, err = identity.VerifyToken(ctx, wrongSecret)
	assert.Equal(t, ErrInvalidToken, err)

	noClaim := signToken(t, "test-secret", jwt.MapClaims{"sub": "u1"})
	_, err = identity.VerifyToken(ctx, noClaim)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestJWTIdentityDeleteUserIsNoOp(t *testing.T) {
	identity := NewJWTIdentityService("test-secret")
	assert.NoError(t, identity.DeleteUser(context.Background(), "u1"))
}
