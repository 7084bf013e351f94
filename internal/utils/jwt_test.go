package utils

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessToken(t *testing.T) {
	tok, err := NewAccessToken("sekrit", 7, "admin", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	parsed, err := jwt.Parse(tok.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("sekrit"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(7), claims["sub"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, float64(tok.Exp.Unix()), claims["exp"])

	ttl := time.Until(tok.Exp)
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)
}

func TestNewAccessToken_WrongSecretRejected(t *testing.T) {
	tok, err := NewAccessToken("sekrit", 7, "regular", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	})
	assert.Error(t, err)
}

func TestNewRefreshToken(t *testing.T) {
	tok, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, tok.Raw, 96)
	_, err = hex.DecodeString(tok.Raw)
	assert.NoError(t, err)
	assert.True(t, tok.Exp.After(time.Now().Add(6*24*time.Hour)))

	other, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.NotEqual(t, tok.Raw, other.Raw)
}

func TestHashRefreshRaw(t *testing.T) {
	h := HashRefreshRaw("some-token")

	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRefreshRaw("some-token"), "hash must be deterministic")
	assert.NotEqual(t, h, HashRefreshRaw("other-token"))
	assert.NotEqual(t, "some-token", h)
}
