package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("workshop-secret")

	token, err := GenerateToken(secret, "operator", time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "operator", claims.Subject)
}

func TestParseToken_Rejects(t *testing.T) {
	secret := []byte("workshop-secret")

	expired, err := GenerateToken(secret, "operator", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	other, err := GenerateToken([]byte("another-secret"), "operator", time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, other)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseToken(secret, "not-a-jwt")
	assert.Error(t, err)
}

func TestTokenFromHeader(t *testing.T) {
	tok, err := TokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	for _, h := range []string{"", "Basic xyz", "Bearer ", "bearer abc"} {
		_, err := TokenFromHeader(h)
		assert.ErrorIs(t, err, ErrMissingToken, "header %q", h)
	}
}
