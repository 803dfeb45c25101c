package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "bizcoach-api")
	owner := uuid.New()

	token, err := m.GenerateAccessToken(owner, "owner@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, owner, claims.UserID)
	require.Equal(t, "owner@example.com", claims.Email)
	require.Equal(t, "bizcoach-api", claims.Issuer)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "bizcoach-api")
	owner := uuid.New()

	other := NewJWTManager("other-secret", time.Hour, "bizcoach-api")
	token, err := other.GenerateAccessToken(owner, "")
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(token)
	require.Error(t, err)

	expired := NewJWTManager("secret", -time.Minute, "bizcoach-api")
	token, err = expired.GenerateAccessToken(owner, "")
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(token)
	require.ErrorIs(t, err, ErrTokenExpired)

	_, err = m.ValidateAccessToken("not-a-token")
	require.Error(t, err)
}

func TestJWTManager_SubjectFallback(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "bizcoach-api")
	owner := uuid.New()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   owner.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, owner, claims.UserID)
}
